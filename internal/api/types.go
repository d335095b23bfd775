package api

import "github.com/nutrinet/nutrition-network/backend/internal/models"

// ImageRequest is the body of /upload and /scan-barcode: a data-URI
// captured from the webcam.
type ImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// ScanResponse is the /scan-barcode reply. Status is one of "error",
// "no_barcode" or "success"; on success the barcode fields and
// nutrition payload are set.
type ScanResponse struct {
	Status      string                  `json:"status"`
	Message     string                  `json:"message,omitempty"`
	Barcode     string                  `json:"barcode,omitempty"`
	BarcodeType string                  `json:"barcode_type,omitempty"`
	Nutrition   *models.NutritionRecord `json:"nutrition,omitempty"`
}

// ChatRequest is the body of /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ProfileRequest is the profile setup submission. Weight and height
// can come in metric directly or in the US units the capture page
// collects; metric wins when both are present.
type ProfileRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,gte=13,lte=120"`
	Gender string `json:"gender" binding:"required"`

	WeightKg  float64 `json:"weight_kg"`
	WeightLbs float64 `json:"weight_lbs"`

	HeightCm     float64 `json:"height_cm"`
	HeightFeet   int     `json:"height_feet"`
	HeightInches int     `json:"height_inches"`

	ActivityLevel models.ActivityLevel `json:"activity_level" binding:"required"`
	Goal          models.Goal          `json:"goal" binding:"required"`
}
