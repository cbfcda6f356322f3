package services

import (
	"math"
	"strings"
)

const (
	defaultCalorieGoal = 2000
	defaultWaterGoal   = 8
)

// CalorieGoal derives a daily calorie target from the Mifflin-St Jeor BMR
// (male coefficient) scaled by the health goal.
func CalorieGoal(age *int, weightKg, heightCm *float64, healthGoal *string) (int, error) {
	if age == nil || weightKg == nil || heightCm == nil {
		return defaultCalorieGoal, nil
	}
	if healthGoal == nil {
		return 0, ErrHealthGoalRequired
	}
	bmr := 10*(*weightKg) + 6.25*(*heightCm) - 5*float64(*age) + 5
	switch strings.ToLower(*healthGoal) {
	case "weight_loss":
		bmr *= 0.8
	case "muscle_gain":
		bmr *= 1.2
	}
	return int(math.Floor(bmr)), nil
}

// WaterGoal returns the daily target in 250ml glasses.
func WaterGoal(weightKg *float64) int {
	if weightKg == nil {
		return defaultWaterGoal
	}
	return int(math.Ceil(*weightKg * 0.033 / 0.25))
}
