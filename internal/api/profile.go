package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
	"github.com/nutrinet/nutrition-network/backend/internal/service"
	"github.com/nutrinet/nutrition-network/backend/internal/store"
)

// ProfileHandler holds the session-scoped user profile and derives
// goals from setup submissions. The profile lives in memory only; a
// reset clears it together with the scanned-food log, mirroring the
// dashboard's "Update Profile" flow.
type ProfileHandler struct {
	calc  *service.GoalCalculator
	store *store.FoodStore
	cache *store.TotalsCache

	mu      sync.RWMutex
	profile *models.UserProfile
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(calc *service.GoalCalculator, foodStore *store.FoodStore, cache *store.TotalsCache) *ProfileHandler {
	return &ProfileHandler{
		calc:  calc,
		store: foodStore,
		cache: cache,
	}
}

// RegisterRoutes registers the profile routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.POST("", h.CreateProfile)
		profile.GET("", h.GetProfile)
		profile.DELETE("", h.ResetProfile)
	}
}

// CreateProfile computes and stores the session profile from the
// submitted biometrics and goal.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weightKg := req.WeightKg
	if weightKg == 0 && req.WeightLbs > 0 {
		weightKg = service.LbsToKg(req.WeightLbs)
	}
	heightCm := req.HeightCm
	if heightCm == 0 && (req.HeightFeet > 0 || req.HeightInches > 0) {
		heightCm = service.FeetInchesToCm(req.HeightFeet, req.HeightInches)
	}
	if weightKg <= 0 || heightCm <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weight and height are required"})
		return
	}

	if !validActivityLevel(req.ActivityLevel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown activity level"})
		return
	}
	if !validGoal(req.Goal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown goal"})
		return
	}

	profile := h.calc.ComputeGoals(models.UserProfile{
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		WeightKg:      weightKg,
		HeightCm:      heightCm,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	})

	h.mu.Lock()
	h.profile = &profile
	h.mu.Unlock()

	c.JSON(http.StatusCreated, profile)
}

// GetProfile returns the current session profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	h.mu.RLock()
	profile := h.profile
	h.mu.RUnlock()

	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile set up"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ResetProfile clears the session profile and the scanned-food log.
func (h *ProfileHandler) ResetProfile(c *gin.Context) {
	h.mu.Lock()
	h.profile = nil
	h.mu.Unlock()

	if err := h.store.Clear(); err != nil {
		log.Printf("[ProfileHandler] failed to clear food log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear food log"})
		return
	}
	h.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Current returns the session profile for other handlers; nil when
// none is set up.
func (h *ProfileHandler) Current() *models.UserProfile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.profile
}

func validActivityLevel(level models.ActivityLevel) bool {
	switch level {
	case models.ActivitySedentary, models.ActivityLight, models.ActivityModerate,
		models.ActivityVery, models.ActivityExtra:
		return true
	}
	return false
}

func validGoal(goal models.Goal) bool {
	switch goal {
	case models.GoalLose, models.GoalMaintain, models.GoalGain:
		return true
	}
	return false
}
