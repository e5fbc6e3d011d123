// Package repo – user repository.
//
// Free functions over a *gorm.DB handle, safe to call with either the root
// handle or a transaction. Uniqueness violations on registration are
// translated into domain errors that say which constraint fired (email vs
// name), so the handler can surface the distinction to the client.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/domain"
)

// CreateUser inserts a new account row. JoinedAt is set to UTC now when
// unset. Email and name collisions come back as AlreadyExists with a
// constraint-specific message.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	err := db.WithContext(ctx).Create(u).Error
	if cols, ok := isUniqueViolation(err); ok {
		if strings.Contains(cols, "users.name") {
			return apperr.AlreadyExists("A user with this name already exists!")
		}
		return apperr.AlreadyExists("A user with this email already exists!")
	}
	return err
}

// GetUserByEmail fetches a user by email. Missing users return ErrNotFound;
// the auth layer decides how that renders (it deliberately maps to 401, not
// 404, during login).
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserProfile loads a user together with their tags and pieces (piece
// tags preloaded), the composed shape served by the current_user endpoint.
func GetUserProfile(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Preload("Tags").
		Preload("Pieces.Tags").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the total number of accounts. Used by tests to verify
// rejected registrations leave no side effects.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}
