// Package pipeline orchestrates a run: extract text from every document,
// map text to schema fields, merge per-document maps, and bind the canonical
// values into the carrier template.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/internal/fields"
	"github.com/JaimeStill/scrivener/internal/schemas"
)

const (
	KeyRequest  = "request"
	KeyRunState = "run_state"
	KeyResult   = "result"
)

// Status is the terminal outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes attached during a run.
const (
	CodeUnsupportedFormat = "unsupported-format"
	CodeExtractionFailed  = "extraction-failed"
	CodeExtractionNote    = "extraction-note"
	CodeModelCallFailed   = "model-call-failed"
	CodeSchemaViolation   = "schema-violation"
	CodeCoercionFailed    = "coercion-failed"
	CodeConflict          = "conflict"
	CodeRequiredMissing   = "required-missing"
	CodeTemplateBind      = "template-bind"
	CodeCanceled          = "canceled"
)

// Diagnostic is one reviewable event from a run, in append order.
type Diagnostic struct {
	Stage    string   `json:"stage"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Document string   `json:"document,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// Request carries everything a run needs: the immutable schema snapshot, the
// template bytes with their scanned merge points, and the ordered documents.
type Request struct {
	RunID       uuid.UUID
	Schema      *schemas.Schema
	Template    []byte
	MergePoints []string
	Documents   []extraction.RawDocument
}

// Result is the immutable outcome of a run.
type Result struct {
	RunID       uuid.UUID               `json:"run_id"`
	Status      Status                  `json:"status"`
	Fields      map[string]fields.Value `json:"fields"`
	Rendered    map[string]string       `json:"rendered"`
	Output      []byte                  `json:"-"`
	Diagnostics []Diagnostic            `json:"diagnostics"`
	CompletedAt time.Time               `json:"completed_at"`
}

// runState accumulates intermediate products as the graph advances. Nodes
// merge worker-local diagnostics after each wait; no worker writes here
// directly.
type runState struct {
	Texts           []extraction.ExtractedText
	FieldMaps       []map[string]fields.Value
	Canonical       map[string]fields.Value
	Rendered        map[string]string
	Output          []byte
	RequiredMissing []string
	Diagnostics     []Diagnostic
	Fatal           error
}

func (rs *runState) diag(d Diagnostic) {
	rs.Diagnostics = append(rs.Diagnostics, d)
}
