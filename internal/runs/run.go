// Package runs executes the extraction pipeline for submitted document
// batches and persists the reviewable outcome: status, canonical fields,
// diagnostics, and storage keys for the bound output and audit workbook.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/internal/fields"
	"github.com/JaimeStill/scrivener/internal/pipeline"
)

// Run is a persisted pipeline execution.
type Run struct {
	ID            uuid.UUID               `json:"id"`
	SchemaID      uuid.UUID               `json:"schema_id"`
	TemplateID    uuid.UUID               `json:"template_id"`
	Status        pipeline.Status         `json:"status"`
	DocumentCount int                     `json:"document_count"`
	Fields        map[string]fields.Value `json:"fields"`
	Diagnostics   []pipeline.Diagnostic   `json:"diagnostics"`
	OutputKey     string                  `json:"output_key,omitempty"`
	AuditKey      string                  `json:"audit_key,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// HasOutput reports whether the run produced a bound document.
func (r *Run) HasOutput() bool {
	return r.OutputKey != ""
}
