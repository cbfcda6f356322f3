package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for log dates everywhere.
const DateLayout = "2006-01-02"

// ErrDuplicateEmail is returned by stores when an email is already taken.
var ErrDuplicateEmail = errors.New("email already exists")

type RegistrationSource string

const (
	SourceCredential RegistrationSource = "CREDENTIAL"
	SourceGoogle     RegistrationSource = "GOOGLE"
)

type User struct {
	ID                 string             `db:"id" json:"id"`
	Email              string             `db:"email" json:"email"`
	Name               string             `db:"name" json:"name"`
	PasswordHash       *string            `db:"password_hash" json:"-"`
	RegistrationSource RegistrationSource `db:"registration_source" json:"registration_source"`
	Bio                string             `db:"bio" json:"bio"`
	Skills             StringList         `db:"skills" json:"skills"`
	Location           string             `db:"location" json:"location"`
	ProfileImage       string             `db:"profile_image" json:"profile_image"`
	Age                *int               `db:"age" json:"age,omitempty"`
	WeightKg           *float64           `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightCm           *float64           `db:"height_cm" json:"height_cm,omitempty"`
	HealthGoal         *string            `db:"health_goal" json:"health_goal,omitempty"`
	DietPreference     *string            `db:"diet_preference" json:"diet_preference,omitempty"`
	DailyCalorieGoal   *int               `db:"daily_calorie_goal" json:"daily_calorie_goal,omitempty"`
	DailyWaterGoal     *int               `db:"daily_water_goal" json:"daily_water_goal,omitempty"`
	ProfileCompleted   bool               `db:"profile_completed" json:"profile_completed"`
	Following          []string           `db:"-" json:"following_users"`
	Followed           []string           `db:"-" json:"followed_users"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type FoodLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Date      string    `db:"log_date" json:"date"`
	MealType  string    `db:"meal_type" json:"meal_type"`
	FoodName  string    `db:"food_name" json:"food_name"`
	Calories  int       `db:"calories" json:"calories"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type WaterLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Date      string    `db:"log_date" json:"date"`
	Glasses   int       `db:"glasses" json:"glasses"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StringList is a string slice stored as a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
