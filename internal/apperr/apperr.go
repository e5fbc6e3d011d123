// Package apperr defines the domain error taxonomy for the Sonata API.
//
// Domain logic signals failures exclusively through *Error values built from
// the four constructors below. Each kind maps to a fixed HTTP status, and the
// message is the exact body returned to the client. Any other error type that
// reaches the HTTP boundary is treated as an internal failure and rendered as
// a generic 500, never as a domain error.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a domain failure carrying the HTTP status it must be rendered
// with and a client-safe message.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// MissingParameters reports a required request field that is absent.
func MissingParameters(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized reports invalid credentials during login.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// NotFound reports an entity id that does not resolve, or resolves to an
// entity the caller does not own. The two cases are deliberately
// indistinguishable to the client.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// AlreadyExists reports a uniqueness-constraint violation caused by the
// attempted mutation.
func AlreadyExists(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// As extracts a domain *Error from err, unwrapping as needed.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
