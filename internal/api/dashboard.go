package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
	"github.com/nutrinet/nutrition-network/backend/internal/store"
)

const recentScanLimit = 10

// DashboardHandler serves the data the dashboard UI polls: cached
// daily totals, the most recent scans and progress against the
// session profile's goals.
type DashboardHandler struct {
	store   *store.FoodStore
	cache   *store.TotalsCache
	profile *ProfileHandler
	archive *gorm.DB
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(foodStore *store.FoodStore, cache *store.TotalsCache, profile *ProfileHandler, archive *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		store:   foodStore,
		cache:   cache,
		profile: profile,
		archive: archive,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/history", h.GetHistory)
}

// NutrientProgress is the current/goal pair for one nutrient.
type NutrientProgress struct {
	Current float64 `json:"current"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
}

// DashboardResponse is the /dashboard payload.
type DashboardResponse struct {
	Totals   store.DailyTotals           `json:"totals"`
	Recent   []models.ScannedFoodEntry   `json:"recent"`
	Progress map[string]NutrientProgress `json:"progress,omitempty"`
}

// GetDashboard returns totals over the food log, the last scans
// newest first, and goal progress when a profile exists. Totals come
// through the TTL cache; bounded staleness is accepted.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	entries := h.store.LoadAll()
	totals := h.cache.Totals()

	// Last N entries, newest first
	start := len(entries) - recentScanLimit
	if start < 0 {
		start = 0
	}
	recent := make([]models.ScannedFoodEntry, 0, len(entries)-start)
	for i := len(entries) - 1; i >= start; i-- {
		recent = append(recent, entries[i])
	}

	resp := DashboardResponse{
		Totals: totals,
		Recent: recent,
	}

	if profile := h.profile.Current(); profile != nil {
		resp.Progress = map[string]NutrientProgress{
			"calories": progress(totals.Calories, profile.DailyGoals.Calories),
			"protein":  progress(totals.Protein, profile.DailyGoals.Protein),
			"carbs":    progress(totals.Carbs, profile.DailyGoals.Carbs),
			"fat":      progress(totals.Fat, profile.DailyGoals.Fat),
			"fiber":    progress(totals.Fiber, profile.DailyGoals.Fiber),
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetHistory returns the most recent scan attempts from the archive.
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusOK, gin.H{"events": []models.ScanEvent{}})
		return
	}

	var events []models.ScanEvent
	if err := h.archive.Order("created_at desc").Limit(50).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func progress(current, goal float64) NutrientProgress {
	p := NutrientProgress{Current: current, Goal: goal}
	if goal > 0 {
		pct := current / goal * 100
		if pct > 100 {
			pct = 100
		}
		p.Percent = pct
	}
	return p
}
