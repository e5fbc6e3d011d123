// Package middleware – bearer-token authentication gate.
//
// RequireAuth sits in front of every endpoint that needs a caller identity.
// It is a transport-level check: requests without a valid token are rejected
// with a 401 envelope before any domain logic (or the result chain) runs.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userEmailKey is the Gin context key carrying the verified token subject.
const userEmailKey = "userEmail"

// TokenVerifier validates a session token and returns the email it is
// bound to. Implemented by auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth returns a middleware that enforces a valid "Authorization:
// Bearer <token>" header. On success the token subject is stored in the
// context under "userEmail"; on failure the request is aborted with 401.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			unauthorized(c)
			return
		}
		email, err := verifier.Verify(strings.TrimSpace(header[len(prefix):]))
		if err != nil || email == "" {
			unauthorized(c)
			return
		}
		c.Set(userEmailKey, email)
		c.Next()
	}
}

// UserEmail returns the verified caller email stored by RequireAuth, or ""
// when the request was not authenticated.
func UserEmail(c *gin.Context) string {
	if v, ok := c.Get(userEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    "missing or invalid token",
	})
}
