// Package services – TagService.
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/repo"
)

// TagService manages the lifecycle of user-scoped tags.
type TagService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTagService constructs a TagService.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{DB: db}
}

// ownedTag loads a tag and verifies user owns it; a wrong owner renders
// like a missing row.
func ownedTag(ctx context.Context, db *gorm.DB, user *domain.User, id int64) (*domain.Tag, error) {
	t, err := repo.GetTag(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != user.ID {
		return nil, apperr.NotFound(fmt.Sprintf("Tag with ID %d not found for this user", id))
	}
	return t, nil
}

// Add creates a tag owned by user.
func (s *TagService) Add(ctx context.Context, user *domain.User, label, color string) (*domain.Tag, error) {
	t := &domain.Tag{UserID: user.ID, Tag: normalizeName(label), Color: color}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return repo.CreateTag(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Edit overwrites the label and color of a tag owned by user.
func (s *TagService) Edit(ctx context.Context, user *domain.User, tagID int64, label, color string) (*domain.Tag, error) {
	var t *domain.Tag
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		t, err = ownedTag(ctx, tx, user, tagID)
		if err != nil {
			return err
		}
		t.Tag = normalizeName(label)
		t.Color = color
		return repo.UpdateTag(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a tag owned by user, detaching it from any pieces.
func (s *TagService) Delete(ctx context.Context, user *domain.User, tagID int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := ownedTag(ctx, tx, user, tagID)
		if err != nil {
			return err
		}
		return repo.DeleteTag(ctx, tx, t)
	})
}

// ListPage returns a page of the user's tags and the total count.
func (s *TagService) ListPage(ctx context.Context, user *domain.User, page, pageSize int) ([]domain.Tag, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountTags(ctx, s.DB, user.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Tag{}, 0, nil
	}
	items, err := repo.ListTagsPage(ctx, s.DB, user.ID, (page-1)*pageSize, pageSize)
	return items, total, err
}
