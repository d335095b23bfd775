package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
	"github.com/nutrinet/nutrition-network/backend/internal/service"
	"github.com/nutrinet/nutrition-network/backend/internal/store"
)

// ScanHandler handles image upload and barcode scan requests
type ScanHandler struct {
	decoder     service.BarcodeDecoder
	nutrition   service.INutritionService
	store       *store.FoodStore
	archive     *gorm.DB
	capturePath string
}

// NewScanHandler creates a new ScanHandler instance. The archive may
// be nil, in which case scan attempts are simply not recorded.
func NewScanHandler(decoder service.BarcodeDecoder, nutrition service.INutritionService, foodStore *store.FoodStore, archive *gorm.DB, capturePath string) *ScanHandler {
	return &ScanHandler{
		decoder:     decoder,
		nutrition:   nutrition,
		store:       foodStore,
		archive:     archive,
		capturePath: capturePath,
	}
}

// RegisterRoutes registers the capture and scan routes
func (h *ScanHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/upload", h.Upload)
	router.POST("/scan-barcode", h.ScanBarcode)
}

// Upload receives a captured frame and writes its bytes to the
// configured capture path.
func (h *ScanHandler) Upload(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ScanResponse{Status: "error", Message: "missing image payload"})
		return
	}

	raw, err := decodeDataURI(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, ScanResponse{Status: "error", Message: err.Error()})
		return
	}

	if err := os.WriteFile(h.capturePath, raw, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, ScanResponse{Status: "error", Message: "failed to save capture"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ScanBarcode decodes the uploaded image, finds a barcode, looks up
// its product data and appends the result to the shared food log.
func (h *ScanHandler) ScanBarcode(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ScanResponse{Status: "error", Message: "missing image payload"})
		return
	}

	img, err := decodeImageDataURI(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, ScanResponse{Status: "error", Message: err.Error()})
		return
	}

	barcodes, err := h.decoder.Decode(img)
	if err != nil {
		c.JSON(http.StatusBadRequest, ScanResponse{Status: "error", Message: fmt.Sprintf("barcode decoding failed: %v", err)})
		return
	}
	if len(barcodes) == 0 {
		h.recordEvent("no_barcode", "", "", "", "")
		c.JSON(http.StatusOK, ScanResponse{Status: "no_barcode", Message: "No barcode detected in image"})
		return
	}

	// First result in decoder order; no further disambiguation.
	barcode := barcodes[0]

	rec, err := h.nutrition.Lookup(c.Request.Context(), barcode.Data)
	if err != nil {
		// The scan itself succeeded; report it, carry the lookup
		// failure in the nutrition payload, persist nothing.
		rec = &models.NutritionRecord{
			ProductName: "Unknown Product",
			Brand:       "Unknown Brand",
			Error:       lookupErrorMessage(err),
		}
		h.recordEvent("lookup_failed", barcode.Data, barcode.Format, "", rec.Error)
		c.JSON(http.StatusOK, ScanResponse{
			Status:      "success",
			Barcode:     barcode.Data,
			BarcodeType: barcode.Format,
			Nutrition:   rec,
		})
		return
	}

	// Fire-and-forget: a persistence failure is logged, not surfaced,
	// since the user-visible scan already succeeded.
	if err := h.store.Append(models.EntryFromRecord(rec)); err != nil {
		log.Printf("[ScanHandler] failed to append food log entry: %v", err)
	}
	h.recordEvent("success", barcode.Data, barcode.Format, rec.ProductName, "")

	c.JSON(http.StatusOK, ScanResponse{
		Status:      "success",
		Barcode:     barcode.Data,
		BarcodeType: barcode.Format,
		Nutrition:   rec,
	})
}

// recordEvent appends one row to the scan archive, best-effort.
func (h *ScanHandler) recordEvent(status, barcode, barcodeType, productName, detail string) {
	if h.archive == nil {
		return
	}

	event := models.ScanEvent{
		ID:          uuid.New(),
		Barcode:     barcode,
		BarcodeType: barcodeType,
		Status:      status,
		ProductName: productName,
		Detail:      detail,
		CreatedAt:   time.Now(),
	}
	if err := h.archive.Create(&event).Error; err != nil {
		log.Printf("[ScanHandler] failed to record scan event: %v", err)
	}
}

func lookupErrorMessage(err error) string {
	if errors.Is(err, service.ErrProductNotFound) {
		return "Product not found in database"
	}
	return err.Error()
}

// decodeDataURI extracts the raw bytes from a base64 data-URI.
func decodeDataURI(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, fmt.Errorf("malformed data URI")
	}
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data")
	}
	return raw, nil
}

// decodeImageDataURI decodes the data-URI all the way to pixels.
func decodeImageDataURI(dataURI string) (image.Image, error) {
	raw, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("undecodable image data")
	}
	return img, nil
}
