package models

// NutritionRecord is the normalized product data returned by the
// nutrition lookup. Numeric fields are pointers: a nil value means the
// upstream database had no figure at any fallback tier, and that
// absence is preserved until the daily totals are computed.
type NutritionRecord struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Quantity    string `json:"quantity,omitempty"`
	ServingSize string `json:"serving_size,omitempty"`

	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
	Salt     *float64 `json:"salt"`

	// Per-100g values kept alongside the resolved ones so the UI can
	// show both a serving figure and a comparable density figure.
	CaloriesPer100g *float64 `json:"calories_100g,omitempty"`
	ProteinPer100g  *float64 `json:"protein_100g,omitempty"`
	FatPer100g      *float64 `json:"fat_100g,omitempty"`
	CarbsPer100g    *float64 `json:"carbs_100g,omitempty"`

	ImageURL       string `json:"image_url,omitempty"`
	NutritionGrade string `json:"nutrition_grade,omitempty"`

	// Error carries a lookup failure message when the scan itself
	// succeeded but the product data could not be fetched.
	Error string `json:"error,omitempty"`
}

// ScannedFoodEntry is one persisted row in the shared food log.
// Entries are append-only: they are never edited in place, and they
// keep the NutritionRecord's pointer semantics so a missing nutrient
// stays missing until aggregation collapses it to zero.
type ScannedFoodEntry struct {
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	Calories  *float64 `json:"calories"`
	Protein   *float64 `json:"protein"`
	Carbs     *float64 `json:"carbs"`
	Fat       *float64 `json:"fat"`
	Fiber     *float64 `json:"fiber"`
	Sugar     *float64 `json:"sugar"`
	Timestamp string   `json:"timestamp"`
}

// EntryFromRecord builds a log entry from a resolved nutrition record.
// The timestamp is assigned by the store at write time.
func EntryFromRecord(rec *NutritionRecord) ScannedFoodEntry {
	return ScannedFoodEntry{
		Name:     rec.ProductName,
		Brand:    rec.Brand,
		Calories: rec.Calories,
		Protein:  rec.Protein,
		Carbs:    rec.Carbs,
		Fat:      rec.Fat,
		Fiber:    rec.Fiber,
		Sugar:    rec.Sugar,
	}
}

// Float64 returns a pointer to v, for building records in tests and
// at the lookup boundary.
func Float64(v float64) *float64 {
	return &v
}
