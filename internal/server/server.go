package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrinet/nutrition-network/backend/config"
	"github.com/nutrinet/nutrition-network/backend/internal/api"
	"github.com/nutrinet/nutrition-network/backend/internal/database"
	"github.com/nutrinet/nutrition-network/backend/internal/middleware"
	"github.com/nutrinet/nutrition-network/backend/internal/router"
	"github.com/nutrinet/nutrition-network/backend/internal/service"
	"github.com/nutrinet/nutrition-network/backend/internal/store"
)

// Server wires the services, store and handlers together and owns
// the HTTP listener.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	foodStore := store.NewFoodStore(cfg.StorePath)
	totalsCache := store.NewTotalsCache(foodStore, cfg.TotalsCacheTTL)

	archive, err := database.New(cfg.ArchivePath)
	if err != nil {
		// The archive is diagnostics; scanning works without it
		log.Printf("[Server] scan archive unavailable: %v", err)
		archive = nil
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("[Server] Redis unavailable, chat history and rate limiting disabled: %v", err)
		redisClient = nil
	}

	nutritionService := service.NewNutritionService()
	chatService := service.NewChatService(redisClient)
	if !chatService.Available() {
		log.Printf("[Server] no DeepSeek API key configured, /chat will answer 503")
	}

	scanHandler := api.NewScanHandler(
		service.NewZXingDecoder(),
		nutritionService,
		foodStore,
		archive,
		cfg.CapturePath,
	)
	profileHandler := api.NewProfileHandler(service.NewGoalCalculator(), foodStore, totalsCache)
	dashboardHandler := api.NewDashboardHandler(foodStore, totalsCache, profileHandler, archive)
	chatHandler := api.NewChatHandler(chatService)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     10,
		KeyPrefix: "ratelimit:chat",
	})

	engine := router.SetupRouter(
		scanHandler,
		chatHandler,
		profileHandler,
		dashboardHandler,
		rateLimiter,
		cfg.AllowedOrigins,
		cfg.StaticDir,
	)

	return &Server{cfg: cfg, engine: engine}, nil
}

// Start starts the HTTP listener and blocks until it stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler: s.engine,
	}

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
