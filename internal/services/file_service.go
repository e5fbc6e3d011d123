// Package services – FileService.
//
// Attachments are exclusive: a piece points at either a stored file (with
// its MIME type in file_type) or an external link (the link itself in
// file_type). Replacing or clearing an attachment deletes the superseded
// file row and synchronously purges its cache entry, so stored bytes never
// outlive their last reference.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/cache"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/repo"
)

// DefaultMaxUploadBytes is the hard cap on uploaded file size (30 MiB).
const DefaultMaxUploadBytes = 30 * 1024 * 1024

// FileService manages piece attachments and file retrieval.
type FileService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Cache is the process-wide binary-content cache keyed by file id.
	Cache *cache.FileCache
	// MaxUploadBytes caps accepted uploads; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// NewFileService constructs a FileService with the default upload cap.
func NewFileService(db *gorm.DB, c *cache.FileCache) *FileService {
	return &FileService{DB: db, Cache: c, MaxUploadBytes: DefaultMaxUploadBytes}
}

// CheckSize rejects payloads above the configured cap. The message quotes
// the raw byte count divided by 1024*1024, unrounded, matching the public
// contract. Integral quotients keep a trailing ".0" (32.0MB, not 32MB).
func (s *FileService) CheckSize(size int64) error {
	max := s.MaxUploadBytes
	if max <= 0 {
		max = DefaultMaxUploadBytes
	}
	if size > max {
		maxMB := strconv.FormatFloat(float64(max)/(1024*1024), 'f', -1, 64)
		return apperr.MissingParameters(fmt.Sprintf("File too large! (%sMB > %sMB)", floatMB(size), maxMB))
	}
	return nil
}

func floatMB(bytes int64) string {
	s := strconv.FormatFloat(float64(bytes)/(1024*1024), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// AttachLink points the piece's attachment at an external link, deleting
// any stored file it previously carried.
func (s *FileService) AttachLink(ctx context.Context, user *domain.User, pieceID int64, link string) (*domain.Piece, error) {
	return s.replaceAttachment(ctx, user, pieceID, func(tx *gorm.DB, p *domain.Piece) error {
		return repo.UpdatePieceAttachment(ctx, tx, p, nil, &link)
	})
}

// AttachFile stores the uploaded content as a new File row and points the
// piece at it, deleting any previously stored file.
func (s *FileService) AttachFile(ctx context.Context, user *domain.User, pieceID int64, content []byte, mime string) (*domain.Piece, error) {
	if err := s.CheckSize(int64(len(content))); err != nil {
		return nil, err
	}
	return s.replaceAttachment(ctx, user, pieceID, func(tx *gorm.DB, p *domain.Piece) error {
		f := &domain.File{Content: content, MIME: mime}
		if err := repo.CreateFile(ctx, tx, f); err != nil {
			return err
		}
		return repo.UpdatePieceAttachment(ctx, tx, p, &f.ID, &mime)
	})
}

// replaceAttachment runs the shared ownership-checked swap: load the piece,
// apply the new attachment, then drop the superseded file row. The cache
// purge happens after commit so a rollback never loses a valid entry.
func (s *FileService) replaceAttachment(ctx context.Context, user *domain.User, pieceID int64, apply func(tx *gorm.DB, p *domain.Piece) error) (*domain.Piece, error) {
	var p *domain.Piece
	var superseded *int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = ownedPiece(ctx, tx, user, pieceID)
		if err != nil {
			return err
		}
		old := p.FileID
		if err := apply(tx, p); err != nil {
			return err
		}
		if old != nil && (p.FileID == nil || *p.FileID != *old) {
			if err := repo.DeleteFile(ctx, tx, *old); err != nil {
				return err
			}
			superseded = old
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if superseded != nil && s.Cache != nil {
		s.Cache.Invalidate(*superseded)
	}
	return p, nil
}

// Content returns the stored bytes and MIME type for fileID, consulting the
// cache first and populating it on a miss.
func (s *FileService) Content(ctx context.Context, fileID int64) (cache.Entry, error) {
	if s.Cache != nil {
		if e, ok := s.Cache.Get(fileID); ok {
			return e, nil
		}
	}
	f, err := repo.GetFile(ctx, s.DB, fileID)
	if err != nil {
		return cache.Entry{}, err
	}
	e := cache.Entry{Content: f.Content, MIME: f.MIME}
	if s.Cache != nil {
		s.Cache.Put(fileID, e)
	}
	return e, nil
}
