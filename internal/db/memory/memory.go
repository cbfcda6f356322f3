// Package memory is an in-process store used when no database is configured
// and by tests. All state sits behind one mutex.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutrilog/internal/models"
)

type Store struct {
	mu      sync.Mutex
	users   map[string]*models.User
	byEmail map[string]string
	food    []models.FoodLog
	water   []models.WaterLog
	now     func() time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func clone(u *models.User) *models.User {
	c := *u
	c.Skills = slices.Clone(u.Skills)
	c.Following = slices.Clone(u.Following)
	c.Followed = slices.Clone(u.Followed)
	if c.Skills == nil {
		c.Skills = models.StringList{}
	}
	if c.Following == nil {
		c.Following = []string{}
	}
	if c.Followed == nil {
		c.Followed = []string{}
	}
	return &c
}

func (s *Store) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return clone(s.users[id]), nil
}

func (s *Store) FindAllByID(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *clone(u))
		}
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[u.Email]; taken {
		return models.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = clone(u)
	s.byEmail[u.Email] = u.ID
	return nil
}

// Update replaces the stored profile fields. Follow lists are only changed
// through AddFollower and RemoveFollower.
func (s *Store) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return nil
	}
	if owner, taken := s.byEmail[u.Email]; taken && owner != u.ID {
		return models.ErrDuplicateEmail
	}
	delete(s.byEmail, cur.Email)
	s.byEmail[u.Email] = u.ID

	next := clone(u)
	next.Following, next.Followed = cur.Following, cur.Followed
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now().UTC()
	u.UpdatedAt = next.UpdatedAt
	s.users[u.ID] = next
	return nil
}

func (s *Store) AddFollower(_ context.Context, targetID, followerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, follower := s.users[targetID], s.users[followerID]
	if target == nil || follower == nil {
		return nil
	}
	if !slices.Contains(target.Followed, followerID) {
		target.Followed = append(target.Followed, followerID)
	}
	if !slices.Contains(follower.Following, targetID) {
		follower.Following = append(follower.Following, targetID)
	}
	return nil
}

func (s *Store) RemoveFollower(_ context.Context, targetID, followerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target := s.users[targetID]; target != nil {
		target.Followed = slices.DeleteFunc(target.Followed, func(id string) bool { return id == followerID })
	}
	if follower := s.users[followerID]; follower != nil {
		follower.Following = slices.DeleteFunc(follower.Following, func(id string) bool { return id == targetID })
	}
	return nil
}

func (s *Store) CreateFoodLog(_ context.Context, l *models.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = s.now().UTC()
	s.food = append(s.food, *l)
	return nil
}

func (s *Store) FoodLogsByDate(ctx context.Context, userID, date string) ([]models.FoodLog, error) {
	return s.FoodLogsBetween(ctx, userID, date, date)
}

// FoodLogsBetween returns logs with start <= date <= end. YYYY-MM-DD strings
// order the same way as the dates they name.
func (s *Store) FoodLogsBetween(_ context.Context, userID, start, end string) ([]models.FoodLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.FoodLog{}
	for _, l := range s.food {
		if l.UserID == userID && l.Date >= start && l.Date <= end {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) CreateWaterLog(_ context.Context, l *models.WaterLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = s.now().UTC()
	s.water = append(s.water, *l)
	return nil
}

func (s *Store) WaterLogsByDate(ctx context.Context, userID, date string) ([]models.WaterLog, error) {
	return s.WaterLogsBetween(ctx, userID, date, date)
}

func (s *Store) WaterLogsBetween(_ context.Context, userID, start, end string) ([]models.WaterLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WaterLog{}
	for _, l := range s.water {
		if l.UserID == userID && l.Date >= start && l.Date <= end {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
