package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"nutrilog/internal/models"
)

const userColumns = `id, email, name, password_hash, registration_source, bio, skills, location, profile_image,
age, weight_kg, height_cm, health_goal, diet_preference, daily_calorie_goal, daily_water_goal,
profile_completed, created_at, updated_at`

const (
	queryUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	queryUsersByIDs  = `SELECT ` + userColumns + ` FROM users WHERE id IN (?)`

	queryFollowing = `SELECT target_id FROM follows WHERE follower_id = $1 ORDER BY created_at, target_id`
	queryFollowers = `SELECT follower_id FROM follows WHERE target_id = $1 ORDER BY created_at, follower_id`

	insertUser = `INSERT INTO users (id, email, name, password_hash, registration_source, bio, skills, location,
profile_image, age, weight_kg, height_cm, health_goal, diet_preference, daily_calorie_goal, daily_water_goal,
profile_completed, created_at, updated_at)
VALUES (:id, :email, :name, :password_hash, :registration_source, :bio, :skills, :location,
:profile_image, :age, :weight_kg, :height_cm, :health_goal, :diet_preference, :daily_calorie_goal, :daily_water_goal,
:profile_completed, :created_at, :updated_at)`

	updateUser = `UPDATE users SET email = :email, name = :name, password_hash = :password_hash, bio = :bio,
skills = :skills, location = :location, profile_image = :profile_image, age = :age, weight_kg = :weight_kg,
height_cm = :height_cm, health_goal = :health_goal, diet_preference = :diet_preference,
daily_calorie_goal = :daily_calorie_goal, daily_water_goal = :daily_water_goal,
profile_completed = :profile_completed, updated_at = :updated_at
WHERE id = :id`

	insertFollow = `INSERT INTO follows (follower_id, target_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	deleteFollow = `DELETE FROM follows WHERE follower_id = $1 AND target_id = $2`
	touchUsers   = `UPDATE users SET updated_at = NOW() WHERE id IN ($1, $2)`
)

// UserRepo stores users in PostgreSQL. Follow lists are projections of the
// follows edge table.
type UserRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepo) find(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	if err := r.loadFollows(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) loadFollows(ctx context.Context, u *models.User) error {
	u.Following, u.Followed = []string{}, []string{}
	if err := r.db.SelectContext(ctx, &u.Following, queryFollowing, u.ID); err != nil {
		return fmt.Errorf("select following: %w", err)
	}
	if err := r.db.SelectContext(ctx, &u.Followed, queryFollowers, u.ID); err != nil {
		return fmt.Errorf("select followers: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, queryUserByID, id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, queryUserByEmail, email)
}

func (r *UserRepo) FindAllByID(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query, args, err := sqlx.In(queryUsersByIDs, ids)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	for i := range users {
		if err := r.loadFollows(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Skills == nil {
		u.Skills = models.StringList{}
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if _, err := r.db.NamedExecContext(ctx, insertUser, u); err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.Following, u.Followed = []string{}, []string{}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = r.now().UTC()
	if _, err := r.db.NamedExecContext(ctx, updateUser, u); err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) AddFollower(ctx context.Context, targetID, followerID string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertFollow, followerID, targetID); err != nil {
			return fmt.Errorf("insert follow: %w", err)
		}
		_, err := tx.ExecContext(ctx, touchUsers, targetID, followerID)
		return err
	})
}

func (r *UserRepo) RemoveFollower(ctx context.Context, targetID, followerID string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteFollow, followerID, targetID); err != nil {
			return fmt.Errorf("delete follow: %w", err)
		}
		_, err := tx.ExecContext(ctx, touchUsers, targetID, followerID)
		return err
	})
}

func (r *UserRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
