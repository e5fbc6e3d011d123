// Package result implements the short-circuiting Ok/Err chain used by every
// HTTP handler. A Result carries either a success value or the (status,
// message) pair of a domain error; chaining stops at the first failure, and
// Respond unwinds the final state into an HTTP response.
//
// Only *apperr.Error values are captured as Err. Any other error marks the
// Result fatal: the chain still short-circuits, but Respond renders a generic
// 500 instead of a domain failure, so unexpected errors can never masquerade
// as client mistakes.
//
// Bind is a package-level function rather than a method because Go methods
// cannot introduce new type parameters.
package result

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/http/middleware"
)

// Result is the state of an in-flight operation: Ok(value), Err(status,
// message), or fatal (non-domain failure).
type Result[T any] struct {
	value  T
	status int
	msg    string
	fatal  error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, status: http.StatusOK}
}

// Err builds a failed Result directly from a status and message.
func Err[T any](status int, msg string) Result[T] {
	return Result[T]{status: status, msg: msg}
}

// From invokes fn and captures its outcome: a nil error wraps the value in
// Ok, a *apperr.Error becomes Err with the error's status and message, and
// anything else marks the Result fatal.
func From[T any](fn func() (T, error)) Result[T] {
	v, err := fn()
	return capture(v, err)
}

// Bind applies fn to the value of r when r is Ok, capturing fn's outcome the
// same way From does. When r is already failed, the failure is propagated
// unchanged and fn is never invoked (first-failure-wins).
func Bind[T, U any](r Result[T], fn func(T) (U, error)) Result[U] {
	if !r.IsOk() {
		return Result[U]{status: r.status, msg: r.msg, fatal: r.fatal}
	}
	v, err := fn(r.value)
	return capture(v, err)
}

func capture[T any](v T, err error) Result[T] {
	if err == nil {
		return Ok(v)
	}
	if e, ok := apperr.As(err); ok {
		return Result[T]{status: e.Status, msg: e.Message}
	}
	return Result[T]{status: http.StatusInternalServerError, fatal: err}
}

// IsOk reports whether the chain is still on the success path.
func (r Result[T]) IsOk() bool { return r.status == http.StatusOK && r.fatal == nil }

// Value returns the success value. Only meaningful when IsOk.
func (r Result[T]) Value() T { return r.value }

// Status returns the HTTP status the Result resolves to.
func (r Result[T]) Status() int { return r.status }

// Message returns the domain error body, or "" on the success path.
func (r Result[T]) Message() string { return r.msg }

// Respond unwinds the Result into an HTTP response. Domain errors are
// written as plain text with their exact status and message. Fatal errors
// are logged with request context and rendered as a generic 500 envelope.
// On success the value is serialized as JSON, optionally nested under
// wrapperKey.
func (r Result[T]) Respond(c *gin.Context, wrapperKey ...string) {
	if r.finishErr(c) {
		return
	}
	if len(wrapperKey) > 0 && wrapperKey[0] != "" {
		c.JSON(http.StatusOK, gin.H{wrapperKey[0]: r.value})
		return
	}
	c.JSON(http.StatusOK, r.value)
}

// RespondEmpty is Respond for mutations whose success carries no payload:
// domain and fatal errors render as in Respond, success as 200 with an
// empty body.
func (r Result[T]) RespondEmpty(c *gin.Context) {
	if r.finishErr(c) {
		return
	}
	c.String(http.StatusOK, "")
}

// finishErr writes the failure response when the Result is not Ok and
// reports whether it did so.
func (r Result[T]) finishErr(c *gin.Context) bool {
	if r.fatal != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(r.fatal).Msg("unhandled error in request chain")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"code":       "internal_error",
			"message":    "internal server error",
		})
		return true
	}
	if !r.IsOk() {
		c.String(r.status, r.msg)
		return true
	}
	return false
}
