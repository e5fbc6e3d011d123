// Package handlers defines HTTP-layer error codes used in envelope responses.
//
// These codes accompany transport-level failures only; domain failures carry
// their message as the whole response body and have no code. Codes are
// lowercase, snake_case, and mirror common HTTP status semantics so clients
// can branch on them programmatically.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
)
