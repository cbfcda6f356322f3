package services

import (
	"context"
	"errors"
	"strings"

	"nutrilog/internal/models"
)

// NewAccount is the candidate passed to CreateOrLinkUser.
type NewAccount struct {
	Name               string
	Email              string
	Password           string
	ProfileImage       string
	RegistrationSource models.RegistrationSource
}

type AuthResult struct {
	Token string
	User  *models.User
}

type AccountService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenSigner
}

func NewAccountService(users UserStore, hasher PasswordHasher, tokens TokenSigner) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// CreateOrLinkUser registers a new account. An OAuth sign-in for an email that
// already exists links to that account instead of failing.
func (s *AccountService) CreateOrLinkUser(ctx context.Context, in NewAccount) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, badRequest("email is required")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, internal("find user", err)
	}
	if existing != nil {
		if in.RegistrationSource == models.SourceGoogle {
			return s.issue(existing)
		}
		return nil, conflict("User with this email already exists")
	}

	u := &models.User{
		Email:              email,
		Name:               strings.TrimSpace(in.Name),
		ProfileImage:       in.ProfileImage,
		RegistrationSource: in.RegistrationSource,
		Skills:             models.StringList{},
		Following:          []string{},
		Followed:           []string{},
	}
	if u.RegistrationSource == "" {
		u.RegistrationSource = models.SourceCredential
	}
	if u.RegistrationSource == models.SourceCredential && in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, internal("hash password", err)
		}
		u.PasswordHash = &hash
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, conflict("User with this email already exists")
		}
		return nil, internal("create user", err)
	}
	return s.issue(u)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, internal("find user", err)
	}
	if u == nil {
		return nil, notFound("User credentials are incorrect")
	}
	if u.RegistrationSource == models.SourceGoogle && !u.HasPassword() {
		return nil, badRequest("User credentials are incorrect")
	}
	if !u.HasPassword() || !s.hasher.Verify(password, *u.PasswordHash) {
		return nil, unauthorized("Invalid credentials")
	}
	return s.issue(u)
}

// Me resolves the subject of a verified token.
func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, internal("find user", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

func (s *AccountService) issue(u *models.User) (*AuthResult, error) {
	tok, err := s.tokens.Sign(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, internal("sign token", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}
