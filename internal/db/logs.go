package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nutrilog/internal/models"
)

const (
	insertFoodLog = `INSERT INTO food_logs (id, user_id, log_date, meal_type, food_name, calories, created_at)
VALUES ($1, $2, $3::date, $4, $5, $6, $7)`
	selectFoodLogs = `SELECT id, user_id, to_char(log_date, 'YYYY-MM-DD') AS log_date, meal_type, food_name, calories, created_at
FROM food_logs WHERE user_id = $1 AND log_date BETWEEN $2::date AND $3::date ORDER BY log_date, created_at`

	insertWaterLog = `INSERT INTO water_logs (id, user_id, log_date, glasses, created_at)
VALUES ($1, $2, $3::date, $4, $5)`
	selectWaterLogs = `SELECT id, user_id, to_char(log_date, 'YYYY-MM-DD') AS log_date, glasses, created_at
FROM water_logs WHERE user_id = $1 AND log_date BETWEEN $2::date AND $3::date ORDER BY log_date, created_at`
)

// LogRepo stores food and water entries. Entries are append-only.
type LogRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewLogRepo(db *sqlx.DB) *LogRepo {
	return &LogRepo{db: db, now: time.Now}
}

func (r *LogRepo) CreateFoodLog(ctx context.Context, l *models.FoodLog) error {
	l.ID = uuid.NewString()
	l.CreatedAt = r.now().UTC()
	_, err := r.db.ExecContext(ctx, insertFoodLog, l.ID, l.UserID, l.Date, l.MealType, l.FoodName, l.Calories, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert food log: %w", err)
	}
	return nil
}

func (r *LogRepo) FoodLogsByDate(ctx context.Context, userID, date string) ([]models.FoodLog, error) {
	return r.FoodLogsBetween(ctx, userID, date, date)
}

func (r *LogRepo) FoodLogsBetween(ctx context.Context, userID, start, end string) ([]models.FoodLog, error) {
	logs := []models.FoodLog{}
	if err := r.db.SelectContext(ctx, &logs, selectFoodLogs, userID, start, end); err != nil {
		return nil, fmt.Errorf("select food logs: %w", err)
	}
	return logs, nil
}

func (r *LogRepo) CreateWaterLog(ctx context.Context, l *models.WaterLog) error {
	l.ID = uuid.NewString()
	l.CreatedAt = r.now().UTC()
	_, err := r.db.ExecContext(ctx, insertWaterLog, l.ID, l.UserID, l.Date, l.Glasses, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert water log: %w", err)
	}
	return nil
}

func (r *LogRepo) WaterLogsByDate(ctx context.Context, userID, date string) ([]models.WaterLog, error) {
	return r.WaterLogsBetween(ctx, userID, date, date)
}

func (r *LogRepo) WaterLogsBetween(ctx context.Context, userID, start, end string) ([]models.WaterLog, error) {
	logs := []models.WaterLog{}
	if err := r.db.SelectContext(ctx, &logs, selectWaterLogs, userID, start, end); err != nil {
		return nil, fmt.Errorf("select water logs: %w", err)
	}
	return logs, nil
}
