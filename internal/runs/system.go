package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/storage"
)

// System exposes run operations.
type System interface {
	// Execute runs the pipeline synchronously over the ordered documents and
	// persists the outcome with its artifacts.
	Execute(ctx context.Context, schemaID, templateID uuid.UUID, documents []extraction.RawDocument) (*Run, error)
	// Get returns the run with the given id.
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	// List returns a page of runs with optional search over status.
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Run], error)
	// Output returns the bound document produced by the run.
	Output(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Run, error)
	// Audit returns the run's audit workbook.
	Audit(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Run, error)
	// Delete removes the run row and its stored artifacts.
	Delete(ctx context.Context, id uuid.UUID) error
}
