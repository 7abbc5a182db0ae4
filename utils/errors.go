// utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

// Error kinds the HTTP layer maps to status codes. Wrap these with
// fmt.Errorf("...: %w", ...) so errors.Is keeps working up the stack.
var (
	ErrInvalidParams       = errors.New("invalid request parameters")
	ErrNotFound            = errors.New("resource not found")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// StatusForError maps a wrapped error kind to an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
