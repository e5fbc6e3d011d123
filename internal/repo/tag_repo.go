// Package repo – tag repository.
package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/domain"
)

func errTagExists() *apperr.Error {
	return apperr.AlreadyExists("A tag with this name already exists!")
}

// GetTag fetches a tag by id. A missing id resolves to NotFound with the
// decoded numeric id in the message.
func GetTag(ctx context.Context, db *gorm.DB, id int64) (*domain.Tag, error) {
	var t domain.Tag
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound(fmt.Sprintf("Tag with ID %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a tag for its owner. A (user, tag) collision translates
// to the tag-specific AlreadyExists.
func CreateTag(ctx context.Context, db *gorm.DB, t *domain.Tag) error {
	return translateUnique(db.WithContext(ctx).Create(t).Error, errTagExists())
}

// UpdateTag persists the label text and color of t.
func UpdateTag(ctx context.Context, db *gorm.DB, t *domain.Tag) error {
	err := db.WithContext(ctx).
		Model(t).
		Updates(map[string]any{
			"tag":   t.Tag,
			"color": t.Color,
		}).Error
	return translateUnique(err, errTagExists())
}

// DeleteTag removes the tag and detaches it from any pieces.
func DeleteTag(ctx context.Context, db *gorm.DB, t *domain.Tag) error {
	if err := db.WithContext(ctx).Model(t).Association("Pieces").Clear(); err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(t).Error
}

// CountTags returns the number of tags owned by userID.
func CountTags(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Tag{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListTagsPage returns a page of the user's tags ordered by label text.
func ListTagsPage(ctx context.Context, db *gorm.DB, userID int64, offset, limit int) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("tag asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
