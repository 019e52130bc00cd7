package templates

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested template does not exist.
	ErrNotFound = errors.New("template not found")
	// ErrDuplicate indicates a template with the same carrier and name already exists.
	ErrDuplicate = errors.New("template already exists")
	// ErrInvalidTemplate indicates the uploaded file is not a readable docx
	// or declares no merge points.
	ErrInvalidTemplate = errors.New("invalid template document")
)

// MapHTTPStatus maps template errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTemplate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
