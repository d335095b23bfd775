package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
	"github.com/nutrinet/nutrition-network/backend/internal/service"
)

func postJSON(env *testEnv, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func testRecord() *models.NutritionRecord {
	return &models.NutritionRecord{
		ProductName: "Peanut Butter",
		Brand:       "NuttyCo",
		Calories:    models.Float64(190),
		Protein:     models.Float64(8),
		Fat:         models.Float64(16),
		Carbs:       models.Float64(7),
	}
}

func TestScanBarcodeMissingImageKey(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"frame": "oops"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestScanBarcodeMalformedDataURI(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "not-a-data-uri"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanBarcodeBadBase64(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "data:image/png;base64,@@not-base64@@"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanBarcodeUndecodableImage(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	// valid base64, but the bytes are not an image
	w := postJSON(env, "/scan-barcode", `{"image": "data:image/png;base64,aGVsbG8gd29ybGQ="}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
}

func TestScanBarcodeNoBarcode(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{barcodes: []service.Barcode{}}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "`+pngDataURI(t)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_barcode", resp.Status)

	// nothing is persisted for a scan without a barcode
	assert.Empty(t, env.store.LoadAll())
}

func TestScanBarcodeSuccess(t *testing.T) {
	decoder := &stubDecoder{barcodes: []service.Barcode{
		{Data: "5901234123457", Format: "EAN_13"},
		{Data: "ignored-second", Format: "QR_CODE"},
	}}
	env := setupTestRouter(t, decoder, &stubNutrition{rec: testRecord()}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "`+pngDataURI(t)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	// first decoder result wins
	assert.Equal(t, "5901234123457", resp.Barcode)
	assert.Equal(t, "EAN_13", resp.BarcodeType)
	require.NotNil(t, resp.Nutrition)
	assert.Equal(t, "Peanut Butter", resp.Nutrition.ProductName)
	assert.Empty(t, resp.Nutrition.Error)

	// exactly one store append per end-to-end success
	entries := env.store.LoadAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "Peanut Butter", entries[0].Name)
	assert.NotEmpty(t, entries[0].Timestamp)

	// archived
	var events []models.ScanEvent
	require.NoError(t, env.archive.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "success", events[0].Status)
	assert.Equal(t, "5901234123457", events[0].Barcode)
}

func TestScanBarcodeLookupNotFound(t *testing.T) {
	decoder := &stubDecoder{barcodes: []service.Barcode{{Data: "0000000000000", Format: "EAN_13"}}}
	env := setupTestRouter(t, decoder, &stubNutrition{err: service.ErrProductNotFound}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "`+pngDataURI(t)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// the scan itself succeeded; the failure rides in the payload
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "0000000000000", resp.Barcode)
	require.NotNil(t, resp.Nutrition)
	assert.Equal(t, "Product not found in database", resp.Nutrition.Error)

	// no entry persisted for a failed lookup
	assert.Empty(t, env.store.LoadAll())
}

func TestScanBarcodeLookupTransportFailure(t *testing.T) {
	decoder := &stubDecoder{barcodes: []service.Barcode{{Data: "5901234123457", Format: "EAN_13"}}}
	env := setupTestRouter(t, decoder, &stubNutrition{err: &service.RequestError{Message: "connection refused"}}, &stubChat{})

	w := postJSON(env, "/scan-barcode", `{"image": "`+pngDataURI(t)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Nutrition)
	assert.Contains(t, resp.Nutrition.Error, "connection refused")
	assert.Empty(t, env.store.LoadAll())
}

func TestUploadWritesCapture(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/upload", `{"image": "`+pngDataURI(t)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])

	data, err := os.ReadFile(env.capturePath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestUploadMalformedPayload(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	w := postJSON(env, "/upload", `{"image": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoFileExists(t, env.capturePath)
}

func TestScanBarcodePreflight(t *testing.T) {
	env := setupTestRouter(t, &stubDecoder{}, &stubNutrition{}, &stubChat{})

	req := httptest.NewRequest(http.MethodOptions, "/scan-barcode", nil)
	req.Header.Set("Origin", "http://localhost:5001")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5001", w.Header().Get("Access-Control-Allow-Origin"))
}
