// Tag HTTP handlers.
//
// This file exposes REST endpoints for tag resources:
//   - POST /api/tags/add
//   - POST /api/tags/edit
//   - POST /api/tags/delete
//   - GET  /api/tags          (list, paginated)
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/result"
)

// TagRequest is the JSON payload for adding or editing a tag. The id is
// required on edit only.
type TagRequest struct {
	ID    string `json:"id" example:"o2kbN"`
	Tag   string `json:"tag" example:"romantic"`
	Color string `json:"color" example:"#7048e8"`
}

// ListTagsResponse wraps a page of tags and pagination information.
type ListTagsResponse struct {
	Tags       []domain.TagPayload `json:"tags"`
	Pagination Pagination          `json:"pagination"`
}

// AddTag godoc
// @ID          addTag
// @Summary     Add a tag
// @Description Creates a colored label for the current user and returns it.
// @Tags        Tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.TagRequest  true  "Tag payload (id ignored)"
//
// @Success     200  {object}  domain.TagPayload
// @Failure     400  {string}  string  "Missing fields / already exists"
// @Router      /tags/add [post]
func (h *Handlers) AddTag(c *gin.Context) {
	ctx := c.Request.Context()
	req := result.From(func() (TagRequest, error) {
		var r TagRequest
		err := bindRequired(c, &r, "tag", "color")
		return r, err
	})
	tag := result.Bind(req, func(r TagRequest) (*domain.Tag, error) {
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.tagSvc.Add(ctx, u, r.Tag, r.Color)
	})
	result.Bind(tag, func(t *domain.Tag) (domain.TagPayload, error) {
		return domain.NewTagPayload(*t, h.ids), nil
	}).Respond(c)
}

// EditTag godoc
// @ID          editTag
// @Summary     Edit a tag
// @Description Renames or recolors a tag owned by the current user.
// @Tags        Tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.TagRequest  true  "Tag payload"
//
// @Success     200  {object}  domain.TagPayload
// @Failure     400  {string}  string  "Missing fields / already exists"
// @Failure     404  {string}  string  "Tag not found"
// @Router      /tags/edit [post]
func (h *Handlers) EditTag(c *gin.Context) {
	ctx := c.Request.Context()
	req := result.From(func() (TagRequest, error) {
		var r TagRequest
		err := bindRequired(c, &r, "id", "tag", "color")
		return r, err
	})
	tag := result.Bind(req, func(r TagRequest) (*domain.Tag, error) {
		tagID, err := h.decodeID("Tag", r.ID)
		if err != nil {
			return nil, err
		}
		u, err := h.caller(c)
		if err != nil {
			return nil, err
		}
		return h.tagSvc.Edit(ctx, u, tagID, r.Tag, r.Color)
	})
	result.Bind(tag, func(t *domain.Tag) (domain.TagPayload, error) {
		return domain.NewTagPayload(*t, h.ids), nil
	}).Respond(c)
}

// DeleteTag godoc
// @ID          deleteTag
// @Summary     Delete a tag
// @Description Removes a tag owned by the current user and detaches it from
// @Description every piece carrying it.
// @Tags        Tags
// @Accept      json
// @Security    BearerAuth
//
// @Param       body  body  handlers.DeleteRequest  true  "Tag id"
//
// @Success     200  {string}  string  "Empty body"
// @Failure     400  {string}  string  "Missing fields"
// @Failure     404  {string}  string  "Tag not found"
// @Router      /tags/delete [post]
func (h *Handlers) DeleteTag(c *gin.Context) {
	ctx := c.Request.Context()
	id := result.From(func() (int64, error) {
		var req DeleteRequest
		if err := bindRequired(c, &req, "id"); err != nil {
			return 0, err
		}
		return h.decodeID("Tag", req.ID)
	})
	result.Bind(id, func(tagID int64) (struct{}, error) {
		u, err := h.caller(c)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, h.tagSvc.Delete(ctx, u, tagID)
	}).RespondEmpty(c)
}

// ListTags godoc
// @ID          listTags
// @Summary     List tags (paginated)
// @Description Returns a page of the current user's tags in label order.
// @Tags        Tags
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListTagsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	user := result.From(func() (*domain.User, error) {
		return h.caller(c)
	})
	result.Bind(user, func(u *domain.User) (ListTagsResponse, error) {
		items, total, err := h.tagSvc.ListPage(ctx, u, page, pageSize)
		if err != nil {
			return ListTagsResponse{}, err
		}
		resp := ListTagsResponse{
			Tags:       make([]domain.TagPayload, 0, len(items)),
			Pagination: paginate(page, pageSize, total),
		}
		for _, t := range items {
			resp.Tags = append(resp.Tags, domain.NewTagPayload(t, h.ids))
		}
		return resp, nil
	}).Respond(c)
}
