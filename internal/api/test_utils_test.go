package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nutrinet/nutrition-network/backend/internal/database"
	"github.com/nutrinet/nutrition-network/backend/internal/middleware"
	"github.com/nutrinet/nutrition-network/backend/internal/models"
	"github.com/nutrinet/nutrition-network/backend/internal/service"
	"github.com/nutrinet/nutrition-network/backend/internal/store"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDecoder struct {
	barcodes []service.Barcode
	err      error
}

func (d *stubDecoder) Decode(img image.Image) ([]service.Barcode, error) {
	return d.barcodes, d.err
}

type stubNutrition struct {
	rec *models.NutritionRecord
	err error
}

func (s *stubNutrition) Lookup(ctx context.Context, barcode string) (*models.NutritionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

type stubChat struct {
	available bool
	reply     string
	err       error
}

func (s *stubChat) Available() bool {
	return s.available
}

func (s *stubChat) Reply(ctx context.Context, sessionID, message string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// testEnv bundles the wired router with the collaborators the tests
// inspect.
type testEnv struct {
	router      *gin.Engine
	store       *store.FoodStore
	archive     *gorm.DB
	capturePath string
	profile     *ProfileHandler
}

func setupTestRouter(t *testing.T, decoder service.BarcodeDecoder, nutrition service.INutritionService, chat service.IChatService) *testEnv {
	t.Helper()

	dir := t.TempDir()
	foodStore := store.NewFoodStore(filepath.Join(dir, "scanned_foods.json"))
	cache := store.NewTotalsCache(foodStore, time.Millisecond)
	capturePath := filepath.Join(dir, "captured.png")

	archive, err := database.New(filepath.Join(dir, "scan_events.db"))
	require.NoError(t, err)

	scanHandler := NewScanHandler(decoder, nutrition, foodStore, archive, capturePath)
	profileHandler := NewProfileHandler(service.NewGoalCalculator(), foodStore, cache)
	dashboardHandler := NewDashboardHandler(foodStore, cache, profileHandler, archive)
	chatHandler := NewChatHandler(chat)
	rateLimiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{})

	// same wiring the router package does
	engine := gin.New()
	engine.Use(middleware.CORS([]string{"http://localhost:5001"}))
	scanHandler.RegisterRoutes(engine)
	engine.POST("/chat", rateLimiter.RateLimitMiddleware(), chatHandler.Chat)
	v1 := engine.Group("/api/v1")
	profileHandler.RegisterRoutes(v1)
	dashboardHandler.RegisterRoutes(v1)

	return &testEnv{
		router:      engine,
		store:       foodStore,
		archive:     archive,
		capturePath: capturePath,
		profile:     profileHandler,
	}
}

// pngDataURI renders a small PNG and wraps it as the data-URI the
// capture page posts.
func pngDataURI(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
