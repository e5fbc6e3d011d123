// Package services – PieceService.
//
// Every mutation follows the same shape: load the target, verify the caller
// owns it (a failed check renders exactly like a missing row), resolve and
// ownership-check any referenced tags, then apply the change atomically.
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/cache"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/repo"
)

// PieceInput carries the client-supplied fields of an add/edit mutation,
// with tag ids already decoded from their opaque form.
type PieceInput struct {
	Name        string
	Description *string
	Instrument  *string
	State       int
	TagIDs      []int64
}

// PieceService manages the lifecycle of pieces.
type PieceService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Files is the binary-content cache, purged when a piece deletion
	// removes the last reference to a stored file.
	Files *cache.FileCache
}

// NewPieceService constructs a PieceService.
func NewPieceService(db *gorm.DB, files *cache.FileCache) *PieceService {
	return &PieceService{DB: db, Files: files}
}

// ownedPiece loads a piece and verifies user owns it. A wrong owner renders
// with the same status as a missing row so the existence of other users'
// pieces is never confirmed.
func ownedPiece(ctx context.Context, db *gorm.DB, user *domain.User, id int64) (*domain.Piece, error) {
	p, err := repo.GetPiece(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != user.ID {
		return nil, apperr.NotFound(fmt.Sprintf("Piece with ID %d not found for this user", p.ID))
	}
	return p, nil
}

// resolveTags loads every referenced tag and verifies user owns each one.
func resolveTags(ctx context.Context, db *gorm.DB, user *domain.User, tagIDs []int64) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		t, err := repo.GetTag(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if t.UserID != user.ID {
			return nil, apperr.NotFound(fmt.Sprintf("Tag with id %d not found for user", id))
		}
		tags = append(tags, *t)
	}
	return tags, nil
}

// Add creates a piece owned by user with the referenced tags attached.
func (s *PieceService) Add(ctx context.Context, user *domain.User, in PieceInput) (*domain.Piece, error) {
	var p *domain.Piece
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(ctx, tx, user, in.TagIDs)
		if err != nil {
			return err
		}
		p = &domain.Piece{
			Name:        normalizeName(in.Name),
			Description: in.Description,
			Instrument:  normalizeNamePtr(in.Instrument),
			State:       in.State,
			UserID:      user.ID,
			Tags:        tags,
		}
		return repo.CreatePiece(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Edit overwrites the piece's fields and replaces its tag list. The target
// and every referenced tag must belong to user.
func (s *PieceService) Edit(ctx context.Context, user *domain.User, pieceID int64, in PieceInput) (*domain.Piece, error) {
	var p *domain.Piece
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = ownedPiece(ctx, tx, user, pieceID)
		if err != nil {
			return err
		}
		tags, err := resolveTags(ctx, tx, user, in.TagIDs)
		if err != nil {
			return err
		}
		p.Name = normalizeName(in.Name)
		p.Description = in.Description
		p.Instrument = normalizeNamePtr(in.Instrument)
		p.State = in.State
		return repo.UpdatePiece(ctx, tx, p, tags)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the piece. When the piece was the sole referencer of a
// stored file, the file row goes with it and its cache entry is purged.
func (s *PieceService) Delete(ctx context.Context, user *domain.User, pieceID int64) error {
	var orphanedFile *int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := ownedPiece(ctx, tx, user, pieceID)
		if err != nil {
			return err
		}
		fileID := p.FileID
		if err := repo.DeletePiece(ctx, tx, p); err != nil {
			return err
		}
		if fileID != nil {
			refs, err := repo.CountPiecesReferencing(ctx, tx, *fileID)
			if err != nil {
				return err
			}
			if refs == 0 {
				if err := repo.DeleteFile(ctx, tx, *fileID); err != nil {
					return err
				}
				orphanedFile = fileID
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if orphanedFile != nil && s.Files != nil {
		s.Files.Invalidate(*orphanedFile)
	}
	return nil
}

// ListPage returns a page of the user's pieces and the total count.
func (s *PieceService) ListPage(ctx context.Context, user *domain.User, page, pageSize int) ([]domain.Piece, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountPieces(ctx, s.DB, user.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Piece{}, 0, nil
	}
	items, err := repo.ListPiecesPage(ctx, s.DB, user.ID, (page-1)*pageSize, pageSize)
	return items, total, err
}
