// Piece HTTP handlers.
//
// This file exposes REST endpoints for piece resources:
//   - POST /api/pieces/add
//   - POST /api/pieces/edit
//   - POST /api/pieces/delete
//   - GET  /api/pieces        (list, paginated)
//
// Mutations share one shape: extract required fields, decode opaque ids,
// resolve the caller, then let the service apply the change atomically.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/result"
	"github.com/sonata-cms/sonata-backend/internal/services"
)

// PieceRequest is the JSON payload for adding or editing a piece. The id is
// required on edit only; every other listed key must be present, with null
// allowed for the nullable fields.
type PieceRequest struct {
	ID          string   `json:"id" example:"jR3ak"`
	Name        string   `json:"name" example:"Clair de Lune"`
	Description *string  `json:"description"`
	Instrument  *string  `json:"instrument" example:"piano"`
	State       int      `json:"state" example:"1"`
	TagIDs      []string `json:"tag_ids"`
}

// DeleteRequest is the JSON payload for delete mutations.
type DeleteRequest struct {
	ID string `json:"id" example:"jR3ak"`
}

// ListPiecesResponse wraps a page of pieces and pagination information.
type ListPiecesResponse struct {
	Pieces     []domain.PiecePayload `json:"pieces"`
	Pagination Pagination            `json:"pagination"`
}

// pieceInput converts the wire shape into a service input, decoding every
// referenced tag id.
func (h *Handlers) pieceInput(req PieceRequest) (services.PieceInput, error) {
	in := services.PieceInput{
		Name:        req.Name,
		Description: req.Description,
		Instrument:  req.Instrument,
		State:       req.State,
		TagIDs:      make([]int64, 0, len(req.TagIDs)),
	}
	for _, s := range req.TagIDs {
		id, err := h.decodeID("Tag", s)
		if err != nil {
			return services.PieceInput{}, err
		}
		in.TagIDs = append(in.TagIDs, id)
	}
	return in, nil
}

// AddPiece godoc
// @ID          addPiece
// @Summary     Add a piece
// @Description Creates a piece for the current user and returns it.
// @Tags        Pieces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.PieceRequest  true  "Piece payload (id ignored)"
//
// @Success     200  {object}  domain.PiecePayload
// @Failure     400  {string}  string  "Missing fields / already exists"
// @Failure     404  {string}  string  "Referenced tag not found"
// @Router      /pieces/add [post]
func (h *Handlers) AddPiece(c *gin.Context) {
	ctx := c.Request.Context()
	req := result.From(func() (PieceRequest, error) {
		var r PieceRequest
		err := bindRequired(c, &r, "name", "description", "instrument", "state", "tag_ids")
		return r, err
	})
	piece := result.Bind(req, func(r PieceRequest) (*domain.Piece, error) {
		in, err := h.pieceInput(r)
		if err != nil {
			return nil, err
		}
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.pieceSvc.Add(ctx, u, in)
	})
	result.Bind(piece, func(p *domain.Piece) (domain.PiecePayload, error) {
		return domain.NewPiecePayload(*p, h.ids), nil
	}).Respond(c)
}

// EditPiece godoc
// @ID          editPiece
// @Summary     Edit a piece
// @Description Replaces the fields and tag list of a piece owned by the current user.
// @Tags        Pieces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.PieceRequest  true  "Piece payload"
//
// @Success     200  {object}  domain.PiecePayload
// @Failure     400  {string}  string  "Missing fields / already exists"
// @Failure     404  {string}  string  "Piece or tag not found"
// @Router      /pieces/edit [post]
func (h *Handlers) EditPiece(c *gin.Context) {
	ctx := c.Request.Context()
	req := result.From(func() (PieceRequest, error) {
		var r PieceRequest
		err := bindRequired(c, &r, "id", "name", "description", "instrument", "state", "tag_ids")
		return r, err
	})
	piece := result.Bind(req, func(r PieceRequest) (*domain.Piece, error) {
		pieceID, err := h.decodeID("Piece", r.ID)
		if err != nil {
			return nil, err
		}
		in, err := h.pieceInput(r)
		if err != nil {
			return nil, err
		}
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.pieceSvc.Edit(ctx, u, pieceID, in)
	})
	result.Bind(piece, func(p *domain.Piece) (domain.PiecePayload, error) {
		return domain.NewPiecePayload(*p, h.ids), nil
	}).Respond(c)
}

// DeletePiece godoc
// @ID          deletePiece
// @Summary     Delete a piece
// @Description Removes a piece owned by the current user. A stored file no
// @Description longer referenced by any piece is removed with it.
// @Tags        Pieces
// @Accept      json
// @Security    BearerAuth
//
// @Param       body  body  handlers.DeleteRequest  true  "Piece id"
//
// @Success     200  {string}  string  "Empty body"
// @Failure     400  {string}  string  "Missing fields"
// @Failure     404  {string}  string  "Piece not found"
// @Router      /pieces/delete [post]
func (h *Handlers) DeletePiece(c *gin.Context) {
	ctx := c.Request.Context()
	id := result.From(func() (int64, error) {
		var req DeleteRequest
		if err := bindRequired(c, &req, "id"); err != nil {
			return 0, err
		}
		return h.decodeID("Piece", req.ID)
	})
	result.Bind(id, func(pieceID int64) (struct{}, error) {
		u, err := h.caller(c)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, h.pieceSvc.Delete(ctx, u, pieceID)
	}).RespondEmpty(c)
}

// ListPieces godoc
// @ID          listPieces
// @Summary     List pieces (paginated)
// @Description Returns a page of the current user's pieces, newest first.
// @Tags        Pieces
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListPiecesResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /pieces [get]
func (h *Handlers) ListPieces(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	user := result.From(func() (*domain.User, error) {
		return h.caller(c)
	})
	result.Bind(user, func(u *domain.User) (ListPiecesResponse, error) {
		items, total, err := h.pieceSvc.ListPage(ctx, u, page, pageSize)
		if err != nil {
			return ListPiecesResponse{}, err
		}
		resp := ListPiecesResponse{
			Pieces:     make([]domain.PiecePayload, 0, len(items)),
			Pagination: paginate(page, pageSize, total),
		}
		for _, p := range items {
			resp.Pieces = append(resp.Pieces, domain.NewPiecePayload(p, h.ids))
		}
		return resp, nil
	}).Respond(c)
}
