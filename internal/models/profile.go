package models

// ActivityLevel is one of the five fixed activity multipliers used by
// the TDEE calculation.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"
)

// Goal is the user's primary goal selection.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// DailyGoals holds the derived per-day targets: calories in kcal, the
// rest in grams.
type DailyGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// UserProfile is the session-scoped profile. It is recomputed in full
// on every setup submission and never persisted to disk; resetting it
// also clears the scanned-food log.
type UserProfile struct {
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`

	BMR        float64    `json:"bmr"`
	TDEE       float64    `json:"tdee"`
	DailyGoals DailyGoals `json:"daily_goals"`
}
