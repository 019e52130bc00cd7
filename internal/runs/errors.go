package runs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/internal/templates"
)

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("run not found")
	// ErrDuplicate indicates a run id collision.
	ErrDuplicate = errors.New("run already exists")
	// ErrNoDocuments indicates a run was submitted without documents.
	ErrNoDocuments = errors.New("run requires at least one document")
	// ErrNoOutput indicates the requested artifact was not produced.
	ErrNoOutput = errors.New("run produced no output")
)

// MapHTTPStatus maps run errors, including referenced schema and template
// errors, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoOutput):
		return http.StatusNotFound
	case errors.Is(err, ErrNoDocuments):
		return http.StatusBadRequest
	case errors.Is(err, schemas.ErrNotFound), errors.Is(err, templates.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
