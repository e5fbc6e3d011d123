// Package repo – piece repository.
//
// All functions operate on the handle they are given; mutating call sites
// run them inside db.Transaction so a failure partway (for example a
// unique-constraint violation after the tag associations were replaced)
// rolls back without observable partial writes.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/domain"
)

// errPieceExists is the uniqueness message for the (user, name, instrument)
// constraint.
func errPieceExists() *apperr.Error {
	return apperr.AlreadyExists("A piece with this name already exists for this instrument!")
}

// GetPiece fetches a piece by id with its tags preloaded. A missing id
// resolves to NotFound with the decoded numeric id in the message.
func GetPiece(ctx context.Context, db *gorm.DB, id int64) (*domain.Piece, error) {
	var p domain.Piece
	err := db.WithContext(ctx).Preload("Tags").First(&p, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound(fmt.Sprintf("Piece with ID %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePiece inserts a piece with its tag associations. AddedAt is set to
// UTC now. Unique violations translate to the piece-specific AlreadyExists.
func CreatePiece(ctx context.Context, db *gorm.DB, p *domain.Piece) error {
	if p.AddedAt.IsZero() {
		p.AddedAt = time.Now().UTC()
	}
	return translateUnique(db.WithContext(ctx).Create(p).Error, errPieceExists())
}

// UpdatePiece persists the piece's scalar fields and replaces its tag
// associations with tags. Nullable columns (description, instrument) are
// written even when nil.
func UpdatePiece(ctx context.Context, db *gorm.DB, p *domain.Piece, tags []domain.Tag) error {
	err := db.WithContext(ctx).
		Model(p).
		Select("Name", "Description", "Instrument", "State").
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"instrument":  p.Instrument,
			"state":       p.State,
		}).Error
	if err != nil {
		return translateUnique(err, errPieceExists())
	}
	if err := db.WithContext(ctx).Model(p).Association("Tags").Replace(&tags); err != nil {
		return translateUnique(err, errPieceExists())
	}
	p.Tags = tags
	return nil
}

// UpdatePieceAttachment points the piece at a stored file id (or clears it)
// and sets file_type (a MIME type, or the external link itself).
func UpdatePieceAttachment(ctx context.Context, db *gorm.DB, p *domain.Piece, fileID *int64, fileType *string) error {
	err := db.WithContext(ctx).
		Model(p).
		Updates(map[string]any{
			"file_id":   fileID,
			"file_type": fileType,
		}).Error
	if err != nil {
		return translateUnique(err, errPieceExists())
	}
	p.FileID = fileID
	p.FileType = fileType
	return nil
}

// DeletePiece removes the piece and its join-table rows.
func DeletePiece(ctx context.Context, db *gorm.DB, p *domain.Piece) error {
	if err := db.WithContext(ctx).Model(p).Association("Tags").Clear(); err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(p).Error
}

// CountPiecesReferencing returns how many pieces point at the given file id.
// Used to decide whether a file row became orphaned.
func CountPiecesReferencing(ctx context.Context, db *gorm.DB, fileID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Piece{}).
		Where("file_id = ?", fileID).
		Count(&total).Error
	return total, err
}

// CountPieces returns the number of pieces owned by userID.
func CountPieces(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Piece{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListPiecesPage returns a page of the user's pieces ordered by creation
// time descending, tags preloaded.
func ListPiecesPage(ctx context.Context, db *gorm.DB, userID int64, offset, limit int) ([]domain.Piece, error) {
	var out []domain.Piece
	err := db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("added_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
