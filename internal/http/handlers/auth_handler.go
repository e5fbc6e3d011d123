// Account HTTP handlers.
//
// This file exposes REST endpoints for registration, login, and the current
// user's profile:
//   - POST /api/auth/register
//   - POST /api/auth/login
//   - GET  /api/auth/current_user
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/http/middleware"
	"github.com/sonata-cms/sonata-backend/internal/result"
)

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" example:"clara@example.com"`
	Name     string `json:"name" example:"Clara"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"clara@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user and returns a session token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     200  {object}  handlers.TokenResponse
// @Failure     400  {string}  string  "Missing fields / already exists"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	ctx := c.Request.Context()
	result.From(func() (string, error) {
		var req RegisterRequest
		if err := bindRequired(c, &req, "email", "name", "password"); err != nil {
			return "", err
		}
		return h.authSvc.Register(ctx, req.Email, req.Name, req.Password)
	}).Respond(c, "access_token")
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a session token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.TokenResponse
// @Failure     400  {string}  string  "Missing fields"
// @Failure     401  {string}  string  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	ctx := c.Request.Context()
	result.From(func() (string, error) {
		var req LoginRequest
		if err := bindRequired(c, &req, "email", "password"); err != nil {
			return "", err
		}
		return h.authSvc.Login(ctx, req.Email, req.Password)
	}).Respond(c, "access_token")
}

// CurrentUser godoc
// @ID          currentUser
// @Summary     Current user profile
// @Description Returns the authenticated user's profile with tags and pieces.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.UserPayload
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/current_user [get]
func (h *Handlers) CurrentUser(c *gin.Context) {
	ctx := c.Request.Context()
	user := result.From(func() (*domain.User, error) {
		return h.authSvc.CurrentUser(ctx, middleware.UserEmail(c))
	})
	result.Bind(user, func(u *domain.User) (domain.UserPayload, error) {
		return domain.NewUserPayload(*u, h.ids), nil
	}).Respond(c)
}
