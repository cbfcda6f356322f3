package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"nutrilog/internal/models"
)

type UserService struct {
	users  UserStore
	events EventPublisher
	log    *zap.Logger
}

func NewUserService(users UserStore, events EventPublisher, log *zap.Logger) *UserService {
	return &UserService{users: users, events: events, log: log}
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name         *string
	Bio          *string
	Skills       []string
	Location     *string
	ProfileImage *string
}

func (s *UserService) mustFind(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find user", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.mustFind(ctx, id)
}

// GetUsersByIDs returns the users that exist; unknown ids are skipped.
func (s *UserService) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	out, err := s.users.FindAllByID(ctx, ids)
	if err != nil {
		return nil, internal("find users", err)
	}
	return out, nil
}

// UpdateUser changes name and email. Blank values are left as they are.
func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) (*models.User, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if email = normalizeEmail(email); email != "" && email != u.Email {
		other, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, internal("find user", err)
		}
		if other != nil && other.ID != u.ID {
			return nil, conflict("Email is already in use")
		}
		u.Email = email
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	return s.save(ctx, u)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Skills != nil {
		u.Skills = models.StringList(in.Skills)
	}
	if in.Location != nil {
		u.Location = *in.Location
	}
	if in.ProfileImage != nil {
		u.ProfileImage = *in.ProfileImage
	}
	return s.save(ctx, u)
}

func (s *UserService) save(ctx context.Context, u *models.User) (*models.User, error) {
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, conflict("Email is already in use")
		}
		return nil, internal("update user", err)
	}
	return u, nil
}

// Follow makes followerID follow targetID and returns the updated target.
func (s *UserService) Follow(ctx context.Context, targetID, followerID string) (*models.User, error) {
	target, err := s.mustFind(ctx, targetID)
	if err != nil {
		return nil, err
	}
	follower, err := s.mustFind(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if target.ID == follower.ID {
		return nil, badRequest("Cannot follow yourself")
	}
	// Either side recording the edge counts as already following.
	if slices.Contains(target.Followed, follower.ID) || slices.Contains(follower.Following, target.ID) {
		return nil, badRequest("Already following this user")
	}
	if err := s.users.AddFollower(ctx, target.ID, follower.ID); err != nil {
		return nil, internal("follow user", err)
	}
	if err := s.events.PublishFollowed(ctx, target.ID, follower.ID); err != nil {
		s.log.Warn("publish follow event", zap.String("target_id", target.ID), zap.Error(err))
	}
	return s.mustFind(ctx, target.ID)
}

// Unfollow removes the edge in both directions. Removing an absent edge succeeds.
func (s *UserService) Unfollow(ctx context.Context, targetID, followerID string) (*models.User, error) {
	target, err := s.mustFind(ctx, targetID)
	if err != nil {
		return nil, err
	}
	follower, err := s.mustFind(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveFollower(ctx, target.ID, follower.ID); err != nil {
		return nil, internal("unfollow user", err)
	}
	if err := s.events.PublishUnfollowed(ctx, target.ID, follower.ID); err != nil {
		s.log.Warn("publish unfollow event", zap.String("target_id", target.ID), zap.Error(err))
	}
	return s.mustFind(ctx, target.ID)
}
