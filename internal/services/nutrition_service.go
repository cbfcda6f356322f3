package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nutrilog/internal/models"
)

const (
	statusOverGoal   = "Over goal"
	statusWithinGoal = "Within goal"
	statusGoalMet    = "Goal met"
	statusBelowGoal  = "Below goal"

	mealOverGoalWarning  = "This meal exceeds your daily calorie goal!"
	waterOverGoalMessage = "Great job! You've exceeded your daily water goal!"
)

type NutritionService struct {
	users UserStore
	food  FoodLogStore
	water WaterLogStore
}

func NewNutritionService(users UserStore, food FoodLogStore, water WaterLogStore) *NutritionService {
	return &NutritionService{users: users, food: food, water: water}
}

type NutritionProfile struct {
	Age            int
	WeightKg       float64
	HeightCm       float64
	HealthGoal     *string
	DietPreference string
}

type FoodEntry struct {
	Date     string
	MealType string
	FoodName string
	Calories int
}

type WaterEntry struct {
	Date    string
	Glasses int
}

type FoodLogResult struct {
	Log     *models.FoodLog
	Warning string
}

type WaterLogResult struct {
	Log         *models.WaterLog
	GoalMessage string
}

type DailyProgress struct {
	CaloriesConsumed  int               `json:"calories_consumed"`
	CalorieGoal       *int              `json:"calorie_goal"`
	CaloriesRemaining int               `json:"calories_remaining"`
	WaterConsumed     int               `json:"water_consumed"`
	WaterGoal         *int              `json:"water_goal"`
	FoodLogs          []models.FoodLog  `json:"food_logs"`
	WaterLogs         []models.WaterLog `json:"water_logs"`
	CalorieStatus     string            `json:"calorie_status"`
	WaterStatus       string            `json:"water_status"`
}

type WeeklyProgress struct {
	DailyCalories      map[string]int `json:"daily_calories"`
	DailyWater         map[string]int `json:"daily_water"`
	DaysCalorieGoalMet int            `json:"days_calorie_goal_met"`
	DaysWaterGoalMet   int            `json:"days_water_goal_met"`
	CalorieGoal        *int           `json:"calorie_goal"`
	WaterGoal          *int           `json:"water_goal"`
	Summary            string         `json:"summary"`
}

func parseDate(field, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, badRequest(field + " is required")
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, badRequest(field + " must be YYYY-MM-DD")
	}
	return d, nil
}

func (s *NutritionService) findUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find user", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

// UpdateNutritionProfile stores biometrics and recomputes both daily goals.
func (s *NutritionService) UpdateNutritionProfile(ctx context.Context, userID string, in NutritionProfile) (*models.User, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	calories, err := CalorieGoal(&in.Age, &in.WeightKg, &in.HeightCm, in.HealthGoal)
	if err != nil {
		return nil, err
	}
	water := WaterGoal(&in.WeightKg)

	u.Age = &in.Age
	u.WeightKg = &in.WeightKg
	u.HeightCm = &in.HeightCm
	u.HealthGoal = in.HealthGoal
	u.DietPreference = &in.DietPreference
	u.DailyCalorieGoal = &calories
	u.DailyWaterGoal = &water
	u.ProfileCompleted = true
	if err := s.users.Update(ctx, u); err != nil {
		return nil, internal("update user", err)
	}
	return u, nil
}

func (s *NutritionService) LogFood(ctx context.Context, userID string, in FoodEntry) (*FoodLogResult, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate("date", in.Date); err != nil {
		return nil, err
	}
	res := &FoodLogResult{}
	if u.DailyCalorieGoal != nil {
		logs, err := s.food.FoodLogsByDate(ctx, userID, in.Date)
		if err != nil {
			return nil, internal("load food logs", err)
		}
		if sumCalories(logs)+in.Calories > *u.DailyCalorieGoal {
			res.Warning = mealOverGoalWarning
		}
	}
	res.Log = &models.FoodLog{
		UserID:   userID,
		Date:     in.Date,
		MealType: in.MealType,
		FoodName: in.FoodName,
		Calories: in.Calories,
	}
	if err := s.food.CreateFoodLog(ctx, res.Log); err != nil {
		return nil, internal("Failed to log food", err)
	}
	return res, nil
}

func (s *NutritionService) LogWater(ctx context.Context, userID string, in WaterEntry) (*WaterLogResult, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate("date", in.Date); err != nil {
		return nil, err
	}
	res := &WaterLogResult{}
	if u.DailyWaterGoal != nil {
		logs, err := s.water.WaterLogsByDate(ctx, userID, in.Date)
		if err != nil {
			return nil, internal("load water logs", err)
		}
		if sumGlasses(logs)+in.Glasses > *u.DailyWaterGoal {
			res.GoalMessage = waterOverGoalMessage
		}
	}
	res.Log = &models.WaterLog{UserID: userID, Date: in.Date, Glasses: in.Glasses}
	if err := s.water.CreateWaterLog(ctx, res.Log); err != nil {
		return nil, internal("Failed to log water", err)
	}
	return res, nil
}

func (s *NutritionService) DailyProgress(ctx context.Context, userID, date string) (*DailyProgress, error) {
	if _, err := parseDate("date", date); err != nil {
		return nil, err
	}
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	foodLogs, err := s.food.FoodLogsByDate(ctx, userID, date)
	if err != nil {
		return nil, internal("load food logs", err)
	}
	waterLogs, err := s.water.WaterLogsByDate(ctx, userID, date)
	if err != nil {
		return nil, internal("load water logs", err)
	}
	if foodLogs == nil {
		foodLogs = []models.FoodLog{}
	}
	if waterLogs == nil {
		waterLogs = []models.WaterLog{}
	}

	p := &DailyProgress{
		CaloriesConsumed: sumCalories(foodLogs),
		CalorieGoal:      u.DailyCalorieGoal,
		WaterConsumed:    sumGlasses(waterLogs),
		WaterGoal:        u.DailyWaterGoal,
		FoodLogs:         foodLogs,
		WaterLogs:        waterLogs,
		CalorieStatus:    statusWithinGoal,
		WaterStatus:      statusBelowGoal,
	}
	if p.CalorieGoal != nil {
		p.CaloriesRemaining = *p.CalorieGoal - p.CaloriesConsumed
		if p.CaloriesConsumed > *p.CalorieGoal {
			p.CalorieStatus = statusOverGoal
		}
	}
	if p.WaterGoal != nil && p.WaterConsumed >= *p.WaterGoal {
		p.WaterStatus = statusGoalMet
	}
	return p, nil
}

// WeeklyProgress aggregates the seven days starting at startDate. Every day of
// the window is present in the result, including days without logs.
func (s *NutritionService) WeeklyProgress(ctx context.Context, userID, startDate string) (*WeeklyProgress, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, badRequest("User ID is required.")
	}
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 6).Format(models.DateLayout)

	foodLogs, err := s.food.FoodLogsBetween(ctx, userID, startDate, end)
	if err != nil {
		return nil, internal("load food logs", err)
	}
	waterLogs, err := s.water.WaterLogsBetween(ctx, userID, startDate, end)
	if err != nil {
		return nil, internal("load water logs", err)
	}

	p := &WeeklyProgress{
		DailyCalories: make(map[string]int, 7),
		DailyWater:    make(map[string]int, 7),
		CalorieGoal:   u.DailyCalorieGoal,
		WaterGoal:     u.DailyWaterGoal,
	}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format(models.DateLayout)
		p.DailyCalories[day] = 0
		p.DailyWater[day] = 0
	}
	for _, l := range foodLogs {
		if _, ok := p.DailyCalories[l.Date]; ok {
			p.DailyCalories[l.Date] += l.Calories
		}
	}
	for _, l := range waterLogs {
		if _, ok := p.DailyWater[l.Date]; ok {
			p.DailyWater[l.Date] += l.Glasses
		}
	}

	if p.CalorieGoal != nil {
		for _, total := range p.DailyCalories {
			if total <= *p.CalorieGoal {
				p.DaysCalorieGoalMet++
			}
		}
	}
	if p.WaterGoal != nil {
		for _, total := range p.DailyWater {
			if total >= *p.WaterGoal {
				p.DaysWaterGoalMet++
			}
		}
	}
	p.Summary = fmt.Sprintf("You met your calorie goal for %d days and water goal for %d days this week!",
		p.DaysCalorieGoalMet, p.DaysWaterGoalMet)
	return p, nil
}

func sumCalories(logs []models.FoodLog) int {
	total := 0
	for _, l := range logs {
		total += l.Calories
	}
	return total
}

func sumGlasses(logs []models.WaterLog) int {
	total := 0
	for _, l := range logs {
		total += l.Glasses
	}
	return total
}
