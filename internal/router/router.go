package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrinet/nutrition-network/backend/internal/api"
	"github.com/nutrinet/nutrition-network/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	scanHandler *api.ScanHandler,
	chatHandler *api.ChatHandler,
	profileHandler *api.ProfileHandler,
	dashboardHandler *api.DashboardHandler,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	staticDir string,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware; answers the OPTIONS preflights on upload and
	// scan-barcode
	router.Use(middleware.CORS(allowedOrigins))

	// Capture page
	router.StaticFile("/", staticDir+"/index.html")
	router.Static("/static", staticDir)

	// Capture/scan surface, same shapes the original capture page
	// already posts to
	scanHandler.RegisterRoutes(router)

	// Assistant, rate limited per client since it calls a paid
	// upstream
	router.POST("/chat", rateLimiter.RateLimitMiddleware(), chatHandler.Chat)

	// Dashboard API
	v1 := router.Group("/api/v1")
	{
		profileHandler.RegisterRoutes(v1)
		dashboardHandler.RegisterRoutes(v1)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	return router
}
