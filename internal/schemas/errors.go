package schemas

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested schema does not exist.
	ErrNotFound = errors.New("schema not found")
	// ErrDuplicate indicates a schema with the same carrier, name, and version already exists.
	ErrDuplicate = errors.New("schema already exists")
	// ErrValidation indicates the schema definition violates structural rules.
	ErrValidation = errors.New("schema validation failed")
)

// MapHTTPStatus maps schema errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
