// Package services defines the business logic for accounts, pieces, tags,
// and file attachments. Services own the transaction boundaries: every
// mutation runs inside a single gorm transaction so a failure partway is
// never observable. Predictable failures are raised as *apperr.Error values
// and unwound by the handlers' result chain; anything else propagates as an
// internal error.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/auth"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/repo"
)

// AuthService implements registration, login, and profile resolution.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Tokens signs and verifies session tokens.
	Tokens *auth.TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// Register creates an account with a fresh per-user salt and returns a
// session token. Email and name collisions surface as AlreadyExists with a
// constraint-specific message; nothing is written in that case.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (string, error) {
	salt, err := auth.NewSalt()
	if err != nil {
		return "", err
	}
	u := &domain.User{
		Email:        email,
		Name:         normalizeName(name),
		PasswordHash: auth.HashPassword(password, salt),
		Salt:         salt,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return repo.CreateUser(ctx, tx, u)
	})
	if err != nil {
		return "", err
	}
	return s.Tokens.Issue(u.Email)
}

// Login verifies credentials and issues a session token. An unknown email
// fails with "Invalid Credentials"; a wrong password with "Invalid
// credentials". The casing difference is part of the public contract.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err == repo.ErrNotFound {
		return "", apperr.Unauthorized("Invalid Credentials")
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(password, u.Salt, u.PasswordHash) {
		return "", apperr.Unauthorized("Invalid credentials")
	}
	return s.Tokens.Issue(u.Email)
}

// CurrentUser loads the full profile (user plus tags plus pieces) for the
// authenticated email.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	return repo.GetUserProfile(ctx, s.DB, u.ID)
}

// Resolve maps a verified token subject back to its account. A subject
// whose account has disappeared is treated as an invalid credential, not a
// missing resource.
func (s *AuthService) Resolve(ctx context.Context, email string) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err == repo.ErrNotFound {
		return nil, apperr.Unauthorized("Invalid Credentials")
	}
	return u, err
}
