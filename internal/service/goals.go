package service

import (
	"strings"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// BMRFunc computes basal metabolic rate from biometrics. The formula
// is a seam so the calculator can be tested against, and switched
// between, published variants.
type BMRFunc func(weightKg, heightCm float64, age int, gender string) float64

// MifflinStJeor is the standard Mifflin-St Jeor equation and the
// canonical formula for this service.
func MifflinStJeor(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if strings.EqualFold(gender, "male") {
		return base + 5
	}
	return base - 161
}

// HarrisBenedictRevised is the revised Harris-Benedict equation. An
// earlier revision of the dashboard used this for the female branch;
// it is kept as a selectable alternative but is not the default.
func HarrisBenedictRevised(weightKg, heightCm float64, age int, gender string) float64 {
	if strings.EqualFold(gender, "male") {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age)
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age)
}

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary: 1.2,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityVery:      1.725,
	models.ActivityExtra:     1.9,
}

// macroSplit is the protein/carb/fat calorie fractions for a goal.
type macroSplit struct {
	protein, carbs, fat float64
}

var macroSplits = map[models.Goal]macroSplit{
	models.GoalLose:     {protein: 0.35, carbs: 0.40, fat: 0.25},
	models.GoalGain:     {protein: 0.30, carbs: 0.45, fat: 0.25},
	models.GoalMaintain: {protein: 0.25, carbs: 0.45, fat: 0.30},
}

// GoalCalculator derives daily calorie and macro targets from a
// profile. Pure and deterministic, no I/O.
type GoalCalculator struct {
	bmr BMRFunc
}

// NewGoalCalculator creates a calculator using the canonical BMR
// formula.
func NewGoalCalculator() *GoalCalculator {
	return &GoalCalculator{bmr: MifflinStJeor}
}

// NewGoalCalculatorWithBMR creates a calculator with a specific BMR
// formula.
func NewGoalCalculatorWithBMR(bmr BMRFunc) *GoalCalculator {
	return &GoalCalculator{bmr: bmr}
}

// ComputeGoals fills in the profile's derived fields: BMR, TDEE and
// the daily calorie/macro targets.
func (g *GoalCalculator) ComputeGoals(profile models.UserProfile) models.UserProfile {
	bmr := g.bmr(profile.WeightKg, profile.HeightCm, profile.Age, profile.Gender)

	multiplier, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[models.ActivitySedentary]
	}
	tdee := bmr * multiplier

	calories := tdee
	switch profile.Goal {
	case models.GoalLose:
		calories = tdee - 500
	case models.GoalGain:
		calories = tdee + 300
	}

	split, ok := macroSplits[profile.Goal]
	if !ok {
		split = macroSplits[models.GoalMaintain]
	}

	fiber := 30.0
	if profile.Goal == models.GoalLose {
		fiber = 25.0
	}

	profile.BMR = bmr
	profile.TDEE = tdee
	profile.DailyGoals = models.DailyGoals{
		Calories: calories,
		Protein:  calories * split.protein / 4, // 4 kcal per gram
		Carbs:    calories * split.carbs / 4,   // 4 kcal per gram
		Fat:      calories * split.fat / 9,     // 9 kcal per gram
		Fiber:    fiber,
	}
	return profile
}

// LbsToKg converts pounds to kilograms.
func LbsToKg(lbs float64) float64 {
	return lbs * 0.453592
}

// FeetInchesToCm converts a feet-and-inches height to centimeters.
func FeetInchesToCm(feet, inches int) float64 {
	return float64(feet*12+inches) * 2.54
}
