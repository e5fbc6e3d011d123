// Package handlers exposes the public REST API for accounts, pieces, tags,
// and file attachments.
//
// Handlers are transport-thin: each one extracts and validates the request
// (a missing required JSON key fails before any storage or identity work),
// decodes opaque ids, resolves the authenticated caller, invokes an
// application service, and unwinds the resulting chain into an HTTP
// response. Domain failures render as plain-text bodies with their exact
// status and message; everything else surfaces through the structured error
// envelope in response.go.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/cache"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/http/middleware"
	"github.com/sonata-cms/sonata-backend/internal/opaqueid"
	"github.com/sonata-cms/sonata-backend/internal/services"
	"github.com/sonata-cms/sonata-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates an account and returns a session token.
	Register(ctx context.Context, email, name, password string) (string, error)
	// Login verifies credentials and returns a session token.
	Login(ctx context.Context, email, password string) (string, error)
	// CurrentUser returns the full profile (tags and pieces included).
	CurrentUser(ctx context.Context, email string) (*domain.User, error)
	// Resolve maps a verified token subject to its account.
	Resolve(ctx context.Context, email string) (*domain.User, error)
}

// PieceService defines piece lifecycle operations consumed by HTTP handlers.
type PieceService interface {
	Add(ctx context.Context, user *domain.User, in services.PieceInput) (*domain.Piece, error)
	Edit(ctx context.Context, user *domain.User, pieceID int64, in services.PieceInput) (*domain.Piece, error)
	Delete(ctx context.Context, user *domain.User, pieceID int64) error
	ListPage(ctx context.Context, user *domain.User, page, pageSize int) ([]domain.Piece, int64, error)
}

// TagService defines tag lifecycle operations consumed by HTTP handlers.
type TagService interface {
	Add(ctx context.Context, user *domain.User, label, color string) (*domain.Tag, error)
	Edit(ctx context.Context, user *domain.User, tagID int64, label, color string) (*domain.Tag, error)
	Delete(ctx context.Context, user *domain.User, tagID int64) error
	ListPage(ctx context.Context, user *domain.User, page, pageSize int) ([]domain.Tag, int64, error)
}

// FileService defines attachment operations consumed by HTTP handlers.
type FileService interface {
	// CheckSize rejects payloads above the upload cap.
	CheckSize(size int64) error
	// AttachLink points a piece at an external link.
	AttachLink(ctx context.Context, user *domain.User, pieceID int64, link string) (*domain.Piece, error)
	// AttachFile stores uploaded content and points a piece at it.
	AttachFile(ctx context.Context, user *domain.User, pieceID int64, content []byte, mime string) (*domain.Piece, error)
	// Content returns the stored bytes and MIME type for a file.
	Content(ctx context.Context, fileID int64) (cache.Entry, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for auth, pieces, tags, and files.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	authSvc  AuthService
	pieceSvc PieceService
	tagSvc   TagService
	fileSvc  FileService
	ids      *opaqueid.Codec
}

// New constructs and returns a Handlers instance bound to the given
// services and opaque-id codec.
func New(authSvc AuthService, pieceSvc PieceService, tagSvc TagService, fileSvc FileService, ids *opaqueid.Codec) *Handlers {
	return &Handlers{
		authSvc:  authSvc,
		pieceSvc: pieceSvc,
		tagSvc:   tagSvc,
		fileSvc:  fileSvc,
		ids:      ids,
	}
}

// caller resolves the authenticated account from the token subject placed
// in the context by the auth middleware.
func (h *Handlers) caller(c *gin.Context) (*domain.User, error) {
	return h.authSvc.Resolve(c.Request.Context(), middleware.UserEmail(c))
}

// decodeID turns an opaque id string back into its internal integer. An
// undecodable id cannot reference anything, so failure renders exactly
// like a missing resource.
func (h *Handlers) decodeID(kind, s string) (int64, error) {
	id, err := h.ids.Decode(s)
	if err != nil {
		return 0, apperr.NotFound(fmt.Sprintf("%s with ID %s not found", kind, s))
	}
	return id, nil
}

//
// Request extraction
//

// bindRequired decodes the JSON body into dst after verifying every listed
// key is present. A key carrying null counts as present; an absent key, a
// non-object body, or a shape mismatch all fail with "Missing fields"
// before any downstream work runs.
func bindRequired(c *gin.Context, dst any, keys ...string) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return apperr.MissingParameters("Missing fields")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return apperr.MissingParameters("Missing fields")
	}
	for _, k := range keys {
		if _, present := fields[k]; !present {
			return apperr.MissingParameters("Missing fields")
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.MissingParameters("Missing fields")
	}
	return nil
}

//
// Pagination
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginate builds the metadata block for a page of total items.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
