package services

import (
	"context"
	"errors"
	"sync"

	"nutrilog/internal/models"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type stubSigner struct{ err error }

func (s stubSigner) Sign(sub, name, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + sub, nil
}

type recordingPublisher struct {
	mu         sync.Mutex
	followed   [][2]string
	unfollowed [][2]string
	err        error
}

func (p *recordingPublisher) PublishFollowed(_ context.Context, target, follower string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.followed = append(p.followed, [2]string{target, follower})
	return p.err
}

func (p *recordingPublisher) PublishUnfollowed(_ context.Context, target, follower string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unfollowed = append(p.unfollowed, [2]string{target, follower})
	return p.err
}

// mockUserStore lets a test replace single store calls.
type mockUserStore struct {
	findByIDFn       func(ctx context.Context, id string) (*models.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	createFn         func(ctx context.Context, u *models.User) error
	updateFn         func(ctx context.Context, u *models.User) error
	addFollowerFn    func(ctx context.Context, targetID, followerID string) error
	removeFollowerFn func(ctx context.Context, targetID, followerID string) error
}

var errNotStubbed = errors.New("not stubbed")

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFn == nil {
		return nil, errNotStubbed
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFn == nil {
		return nil, errNotStubbed
	}
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserStore) FindAllByID(context.Context, []string) ([]models.User, error) {
	return nil, errNotStubbed
}

func (m *mockUserStore) Create(ctx context.Context, u *models.User) error {
	if m.createFn == nil {
		return errNotStubbed
	}
	return m.createFn(ctx, u)
}

func (m *mockUserStore) Update(ctx context.Context, u *models.User) error {
	if m.updateFn == nil {
		return errNotStubbed
	}
	return m.updateFn(ctx, u)
}

func (m *mockUserStore) AddFollower(ctx context.Context, targetID, followerID string) error {
	if m.addFollowerFn == nil {
		return errNotStubbed
	}
	return m.addFollowerFn(ctx, targetID, followerID)
}

func (m *mockUserStore) RemoveFollower(ctx context.Context, targetID, followerID string) error {
	if m.removeFollowerFn == nil {
		return errNotStubbed
	}
	return m.removeFollowerFn(ctx, targetID, followerID)
}
