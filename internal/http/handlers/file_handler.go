// File-attachment HTTP handlers.
//
// This file exposes REST endpoints for piece attachments:
//   - POST /api/files/upload_link   (JSON; external URL)
//   - POST /api/files/upload_file   (multipart; stored content)
//   - GET  /api/files/file/:id      (binary retrieval)
//
// Uploading replaces any previous attachment; the superseded stored file is
// removed and purged from the content cache by the service layer.
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/cache"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/result"
)

// UploadLinkRequest is the JSON payload attaching an external link to a piece.
type UploadLinkRequest struct {
	ID   string `json:"id" example:"jR3ak"`
	Link string `json:"link" example:"https://imslp.org/wiki/Suite_bergamasque"`
}

// uploadForm carries the validated multipart fields of an upload.
type uploadForm struct {
	pieceID int64
	file    *multipart.FileHeader
}

// UploadLink godoc
// @ID          uploadLink
// @Summary     Attach an external link
// @Description Points a piece at an external URL, replacing any stored file.
// @Tags        Files
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UploadLinkRequest  true  "Piece id and link"
//
// @Success     200  {object}  domain.PiecePayload
// @Failure     400  {string}  string  "Missing fields"
// @Failure     404  {string}  string  "Piece not found"
// @Router      /files/upload_link [post]
func (h *Handlers) UploadLink(c *gin.Context) {
	ctx := c.Request.Context()
	req := result.From(func() (UploadLinkRequest, error) {
		var r UploadLinkRequest
		err := bindRequired(c, &r, "id", "link")
		return r, err
	})
	piece := result.Bind(req, func(r UploadLinkRequest) (*domain.Piece, error) {
		pieceID, err := h.decodeID("Piece", r.ID)
		if err != nil {
			return nil, err
		}
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.fileSvc.AttachLink(ctx, u, pieceID, r.Link)
	})
	result.Bind(piece, func(p *domain.Piece) (domain.PiecePayload, error) {
		return domain.NewPiecePayload(*p, h.ids), nil
	}).Respond(c)
}

// UploadFile godoc
// @ID          uploadFile
// @Summary     Upload a file
// @Description Stores the uploaded content and attaches it to a piece,
// @Description replacing any previous attachment.
// @Tags        Files
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    formData  string  true  "Piece id (opaque)"
// @Param       file  formData  file    true  "Content to store (max 30 MiB)"
//
// @Success     200  {object}  domain.PiecePayload
// @Failure     400  {string}  string  "Missing fields / file too large"
// @Failure     404  {string}  string  "Piece not found"
// @Router      /files/upload_file [post]
func (h *Handlers) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()
	form := result.From(func() (uploadForm, error) {
		idStr := c.PostForm("id")
		fh, err := c.FormFile("file")
		if idStr == "" || err != nil || fh.Filename == "" {
			return uploadForm{}, apperr.MissingParameters("Missing fields")
		}
		pieceID, err := h.decodeID("Piece", idStr)
		if err != nil {
			return uploadForm{}, err
		}
		return uploadForm{pieceID: pieceID, file: fh}, nil
	})
	piece := result.Bind(form, func(f uploadForm) (*domain.Piece, error) {
		// Reject on the declared size before buffering anything.
		if err := h.fileSvc.CheckSize(f.file.Size); err != nil {
			return nil, err
		}
		src, err := f.file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()
		content, err := io.ReadAll(src)
		if err != nil {
			return nil, err
		}
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.fileSvc.AttachFile(ctx, u, f.pieceID, content, f.file.Header.Get("Content-Type"))
	})
	result.Bind(piece, func(p *domain.Piece) (domain.PiecePayload, error) {
		return domain.NewPiecePayload(*p, h.ids), nil
	}).Respond(c)
}

// GetFile godoc
// @ID          getFile
// @Summary     Retrieve a stored file
// @Description Serves the stored bytes with their recorded content type.
// @Tags        Files
// @Produce     octet-stream
// @Security    BearerAuth
//
// @Param       id  path  string  true  "File id (opaque)"
//
// @Success     200  {string}  binary  "File content"
// @Failure     404  {string}  string  "File not found"
// @Router      /files/file/{id} [get]
func (h *Handlers) GetFile(c *gin.Context) {
	ctx := c.Request.Context()
	entry := result.From(func() (cache.Entry, error) {
		fileID, err := h.decodeID("File", c.Param("id"))
		if err != nil {
			return cache.Entry{}, err
		}
		if _, err := h.caller(c); err != nil {
			return cache.Entry{}, err
		}
		return h.fileSvc.Content(ctx, fileID)
	})
	if !entry.IsOk() {
		entry.RespondEmpty(c)
		return
	}
	e := entry.Value()
	mime := e.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	c.Data(http.StatusOK, mime, e.Content)
}
