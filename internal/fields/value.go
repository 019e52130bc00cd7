// Package fields defines typed field values and the pure transforms over
// them: coercion from model output, multi-document merge, and canonical
// rendering into template text.
package fields

import (
	"time"

	"github.com/JaimeStill/scrivener/internal/schemas"
)

// MissingPlaceholder is the rendered text for fields with no extracted value.
const MissingPlaceholder = "[MISSING]"

// Value is a single extracted field value tagged by its semantic type.
// Missing distinguishes "no evidence found" from a discarded conflict loser.
type Value struct {
	Name       string            `json:"name"`
	Kind       schemas.FieldType `json:"kind"`
	Raw        string            `json:"raw,omitempty"`
	Text       string            `json:"text,omitempty"`
	Cents      int64             `json:"cents,omitempty"`
	Code       string            `json:"code,omitempty"`
	Date       time.Time         `json:"date,omitzero"`
	Missing    bool              `json:"missing,omitempty"`
	SourceID   string            `json:"source_id,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
}

// Absent creates an explicit missing marker for a field.
func Absent(field schemas.Field, sourceID string) Value {
	return Value{
		Name:     field.Name,
		Kind:     field.Type,
		Missing:  true,
		SourceID: sourceID,
	}
}
