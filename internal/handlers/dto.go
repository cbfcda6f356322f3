package handlers

import (
	"time"

	"nutrilog/internal/models"
)

type registerRequest struct {
	Name         string `json:"name" validate:"max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	ProfileImage string `json:"profile_image"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

type updateProfileRequest struct {
	Name         *string  `json:"name" validate:"omitempty,max=100"`
	Bio          *string  `json:"bio" validate:"omitempty,max=500"`
	Skills       []string `json:"skills"`
	Location     *string  `json:"location" validate:"omitempty,max=100"`
	ProfileImage *string  `json:"profile_image"`
}

type nutritionProfileRequest struct {
	Age            int     `json:"age" validate:"required,min=1"`
	Weight         float64 `json:"weight" validate:"required,min=1"`
	Height         float64 `json:"height" validate:"required,min=1"`
	HealthGoal     string  `json:"health_goal" validate:"required"`
	DietPreference string  `json:"diet_preference" validate:"required"`
}

type foodLogRequest struct {
	MealType string `json:"meal_type" validate:"required"`
	FoodName string `json:"food_name" validate:"required"`
	Calories int    `json:"calories" validate:"min=1"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

type waterLogRequest struct {
	Glasses int    `json:"glasses" validate:"min=1"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ProfileDTO is the public projection of a user.
type ProfileDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	ProfileImage       string   `json:"profile_image"`
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	Location           string   `json:"location"`
	RegistrationSource string   `json:"registration_source"`
	FollowingUsers     []string `json:"following_users"`
	FollowedUsers      []string `json:"followed_users"`
	ProfileCompleted   bool     `json:"profile_completed"`
	Age                *int     `json:"age,omitempty"`
	Weight             *float64 `json:"weight,omitempty"`
	Height             *float64 `json:"height,omitempty"`
	HealthGoal         *string  `json:"health_goal,omitempty"`
	DietPreference     *string  `json:"diet_preference,omitempty"`
	DailyCalorieGoal   *int     `json:"daily_calorie_goal,omitempty"`
	DailyWaterGoal     *int     `json:"daily_water_goal,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ToProfileDTO(u *models.User) ProfileDTO {
	return ProfileDTO{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		ProfileImage:       u.ProfileImage,
		Bio:                u.Bio,
		Skills:             nonNil(u.Skills),
		Location:           u.Location,
		RegistrationSource: string(u.RegistrationSource),
		FollowingUsers:     nonNil(u.Following),
		FollowedUsers:      nonNil(u.Followed),
		ProfileCompleted:   u.ProfileCompleted,
		Age:                u.Age,
		Weight:             u.WeightKg,
		Height:             u.HeightCm,
		HealthGoal:         u.HealthGoal,
		DietPreference:     u.DietPreference,
		DailyCalorieGoal:   u.DailyCalorieGoal,
		DailyWaterGoal:     u.DailyWaterGoal,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	ProfileImage     string   `json:"profile_image"`
	Token            string   `json:"token"`
	FollowingUsers   []string `json:"following_users"`
	FollowedUsers    []string `json:"followed_users"`
	ProfileCompleted bool     `json:"profile_completed"`
}

func toAuthResponse(tok string, u *models.User) AuthResponse {
	return AuthResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		ProfileImage:     u.ProfileImage,
		Token:            tok,
		FollowingUsers:   nonNil(u.Following),
		FollowedUsers:    nonNil(u.Followed),
		ProfileCompleted: u.ProfileCompleted,
	}
}
