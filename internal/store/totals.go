package store

import (
	"sync"
	"time"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// DailyTotals is the per-nutrient sum over a set of log entries.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Count    int     `json:"count"`
}

// Totals reduces entries into per-nutrient sums. This is the one
// place where a missing nutrient finally collapses to zero; upstream
// of here, absence is preserved as a nil pointer.
func Totals(entries []models.ScannedFoodEntry) DailyTotals {
	totals := DailyTotals{Count: len(entries)}
	for _, e := range entries {
		totals.Calories += orZero(e.Calories)
		totals.Protein += orZero(e.Protein)
		totals.Carbs += orZero(e.Carbs)
		totals.Fat += orZero(e.Fat)
		totals.Fiber += orZero(e.Fiber)
		totals.Sugar += orZero(e.Sugar)
	}
	return totals
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// TotalsCache memoizes the store read and reduction for a bounded
// interval so dashboard polling does not hammer the file on every
// refresh. Staleness within the TTL is accepted.
type TotalsCache struct {
	store *FoodStore
	ttl   time.Duration

	mu        sync.Mutex
	cached    DailyTotals
	fetchedAt time.Time
}

// NewTotalsCache wraps the store with a TTL-bounded totals view.
func NewTotalsCache(store *FoodStore, ttl time.Duration) *TotalsCache {
	return &TotalsCache{store: store, ttl: ttl}
}

// Totals returns the cached reduction, re-reading the store when the
// cached value is older than the TTL.
func (c *TotalsCache) Totals() DailyTotals {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.cached
	}

	c.cached = Totals(c.store.LoadAll())
	c.fetchedAt = time.Now()
	return c.cached
}

// Invalidate drops the cached value so the next read hits the store.
// Called after a profile reset clears the log.
func (c *TotalsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}
