package templates

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/storage"
)

// System exposes template operations.
type System interface {
	// Get returns the template metadata with the given id.
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	// List returns a page of templates with optional search over carrier and name.
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Template], error)
	// Create scans the docx for merge points, uploads the bytes to blob
	// storage, and persists the metadata row.
	Create(ctx context.Context, template *Template, data []byte) (*Template, error)
	// Download returns the stored template bytes.
	Download(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Template, error)
	// Delete removes the metadata row and the stored blob.
	Delete(ctx context.Context, id uuid.UUID) error
}
