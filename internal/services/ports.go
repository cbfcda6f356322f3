package services

import (
	"context"

	"nutrilog/internal/models"
)

// UserStore finders return (nil, nil) when nothing matches. Create and Update
// return models.ErrDuplicateEmail when the email belongs to another user.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAllByID(ctx context.Context, ids []string) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	// AddFollower records followerID following targetID on both sides at once.
	AddFollower(ctx context.Context, targetID, followerID string) error
	RemoveFollower(ctx context.Context, targetID, followerID string) error
}

type FoodLogStore interface {
	CreateFoodLog(ctx context.Context, l *models.FoodLog) error
	FoodLogsByDate(ctx context.Context, userID, date string) ([]models.FoodLog, error)
	FoodLogsBetween(ctx context.Context, userID, start, end string) ([]models.FoodLog, error)
}

type WaterLogStore interface {
	CreateWaterLog(ctx context.Context, l *models.WaterLog) error
	WaterLogsByDate(ctx context.Context, userID, date string) ([]models.WaterLog, error)
	WaterLogsBetween(ctx context.Context, userID, start, end string) ([]models.WaterLog, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenSigner interface {
	Sign(subject, name, email string) (string, error)
}

type EventPublisher interface {
	PublishFollowed(ctx context.Context, targetID, followerID string) error
	PublishUnfollowed(ctx context.Context, targetID, followerID string) error
}
