package schemas

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/pkg/pagination"
)

// System exposes field schema operations.
type System interface {
	// Get returns the schema with the given id.
	Get(ctx context.Context, id uuid.UUID) (*Schema, error)
	// List returns a page of schemas with optional search over carrier and name.
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Schema], error)
	// Create validates and persists a new schema, assigning the next version
	// for its carrier and name.
	Create(ctx context.Context, schema *Schema) (*Schema, error)
	// Update validates and replaces the field and render definitions of an
	// existing schema.
	Update(ctx context.Context, schema *Schema) (*Schema, error)
	// Delete removes the schema with the given id.
	Delete(ctx context.Context, id uuid.UUID) error
}
