package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// ErrProductNotFound is returned when the product database answered
// but does not know the barcode.
var ErrProductNotFound = errors.New("product not found in database")

// FetchError is returned when the product database answered with a
// non-200 status.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("product database returned status %d", e.StatusCode)
}

// RequestError wraps a transport or parse fault from the lookup. The
// caller always gets one of the typed errors above or this; a raw
// fault never escapes the client.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("lookup request failed: %s", e.Message)
}

// NutritionService resolves barcodes against the Open Food Facts
// product API.
type NutritionService struct {
	baseURL string
	client  *http.Client
}

// NewNutritionService creates a new NutritionService instance. The
// base URL can be overridden with OPENFOODFACTS_URL for tests and
// self-hosted mirrors.
func NewNutritionService() *NutritionService {
	baseURL := os.Getenv("OPENFOODFACTS_URL")
	if baseURL == "" {
		baseURL = "https://world.openfoodfacts.org"
	}

	return &NutritionService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewNutritionServiceWithURL creates a client against a specific base
// URL, used by the handler tests.
func NewNutritionServiceWithURL(baseURL string) *NutritionService {
	s := NewNutritionService()
	s.baseURL = baseURL
	return s
}

// productResponse mirrors the slice of the Open Food Facts payload we
// consume. Nutriments stay untyped because the API mixes numbers and
// numeric strings.
type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string                 `json:"product_name"`
		Brands          string                 `json:"brands"`
		Quantity        string                 `json:"quantity"`
		ServingSize     string                 `json:"serving_size"`
		ImageURL        string                 `json:"image_url"`
		NutritionGrades string                 `json:"nutrition_grades"`
		Nutriments      map[string]interface{} `json:"nutriments"`
	} `json:"product"`
}

// Lookup fetches and normalizes the product data for a barcode.
func (s *NutritionService) Lookup(ctx context.Context, barcode string) (*models.NutritionRecord, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", s.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &RequestError{Message: err.Error()}
	}

	if body.Status != 1 {
		return nil, ErrProductNotFound
	}

	return normalizeProduct(&body), nil
}

func normalizeProduct(body *productResponse) *models.NutritionRecord {
	p := body.Product

	rec := &models.NutritionRecord{
		ProductName:    p.ProductName,
		Brand:          p.Brands,
		Quantity:       p.Quantity,
		ServingSize:    p.ServingSize,
		ImageURL:       p.ImageURL,
		NutritionGrade: p.NutritionGrades,
	}
	if rec.ProductName == "" {
		rec.ProductName = "Unknown Product"
	}
	if rec.Brand == "" {
		rec.Brand = "Unknown Brand"
	}

	n := p.Nutriments
	rec.Calories = resolveNutrient(n, "energy-kcal")
	rec.Protein = resolveNutrient(n, "proteins")
	rec.Fat = resolveNutrient(n, "fat")
	rec.Carbs = resolveNutrient(n, "carbohydrates")
	rec.Fiber = resolveNutrient(n, "fiber")
	rec.Sugar = resolveNutrient(n, "sugars")
	rec.Salt = resolveNutrient(n, "salt")

	rec.CaloriesPer100g = nutrientValue(n, "energy-kcal_100g")
	rec.ProteinPer100g = nutrientValue(n, "proteins_100g")
	rec.FatPer100g = nutrientValue(n, "fat_100g")
	rec.CarbsPer100g = nutrientValue(n, "carbohydrates_100g")

	return rec
}

// resolveNutrient picks the first present value along the fallback
// chain per-serving, per-container, per-100g. A nutrient absent at
// every tier stays absent.
func resolveNutrient(nutriments map[string]interface{}, key string) *float64 {
	for _, k := range []string{key + "_serving", key, key + "_100g"} {
		if v := nutrientValue(nutriments, k); v != nil {
			return v
		}
	}
	return nil
}

// nutrientValue reads one nutriment key. The API reports values as
// JSON numbers or numeric strings; anything else, and anything
// negative or non-finite, counts as absent.
func nutrientValue(nutriments map[string]interface{}, key string) *float64 {
	raw, ok := nutriments[key]
	if !ok || raw == nil {
		return nil
	}

	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}

	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
