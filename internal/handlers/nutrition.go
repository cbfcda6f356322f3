package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nutrilog/internal/models"
	"nutrilog/internal/services"
)

type NutritionHandler struct {
	nutrition *services.NutritionService
	log       *zap.Logger
}

func NewNutritionHandler(nutrition *services.NutritionService, log *zap.Logger) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition, log: log}
}

func (h *NutritionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req nutritionProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	goal := req.HealthGoal
	u, err := h.nutrition.UpdateNutritionProfile(r.Context(), chi.URLParam(r, "userId"), services.NutritionProfile{
		Age:            req.Age,
		WeightKg:       req.Weight,
		HeightCm:       req.Height,
		HealthGoal:     &goal,
		DietPreference: req.DietPreference,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProfileDTO(u))
}

type foodLogResponse struct {
	Message string          `json:"message"`
	Warning string          `json:"warning,omitempty"`
	FoodLog *models.FoodLog `json:"food_log"`
}

// LogFood godoc
// @Summary Log a meal
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param body body foodLogRequest true "Meal"
// @Success 200 {object} foodLogResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /nutrition/food/{userId} [post]
func (h *NutritionHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	var req foodLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.nutrition.LogFood(r.Context(), chi.URLParam(r, "userId"), services.FoodEntry{
		Date:     req.Date,
		MealType: req.MealType,
		FoodName: req.FoodName,
		Calories: req.Calories,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, foodLogResponse{Message: "Food logged successfully", Warning: res.Warning, FoodLog: res.Log})
}

type waterLogResponse struct {
	Message     string           `json:"message"`
	GoalMessage string           `json:"goal_message,omitempty"`
	WaterLog    *models.WaterLog `json:"water_log"`
}

func (h *NutritionHandler) LogWater(w http.ResponseWriter, r *http.Request) {
	var req waterLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.nutrition.LogWater(r.Context(), chi.URLParam(r, "userId"), services.WaterEntry{
		Date:    req.Date,
		Glasses: req.Glasses,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, waterLogResponse{Message: "Water logged successfully", GoalMessage: res.GoalMessage, WaterLog: res.Log})
}

// DailyProgress godoc
// @Summary Totals and goal status for one day
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} services.DailyProgress
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /nutrition/progress/daily/{userId} [get]
func (h *NutritionHandler) DailyProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.nutrition.DailyProgress(r.Context(), chi.URLParam(r, "userId"), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *NutritionHandler) WeeklyProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.nutrition.WeeklyProgress(r.Context(), chi.URLParam(r, "userId"), r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
