// Package repo – file repository.
package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/domain"
)

// CreateFile inserts an uploaded binary with its MIME type.
func CreateFile(ctx context.Context, db *gorm.DB, f *domain.File) error {
	return db.WithContext(ctx).Create(f).Error
}

// GetFile fetches stored content by id. A missing id resolves to NotFound.
func GetFile(ctx context.Context, db *gorm.DB, id int64) (*domain.File, error) {
	var f domain.File
	err := db.WithContext(ctx).First(&f, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound(fmt.Sprintf("File with ID %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFile removes a file row. Callers are responsible for purging any
// cached copy of the content.
func DeleteFile(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.File{}, "id = ?", id).Error
}
