// Package schemas manages carrier field schemas: the ordered, typed field
// definitions that drive extraction prompts, coercion, and template binding.
package schemas

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// FieldType is the semantic type of a schema field.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldDate       FieldType = "date"
	FieldCurrency   FieldType = "currency"
	FieldIdentifier FieldType = "identifier"
)

// ParseFieldType validates a raw field type string.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldString, FieldDate, FieldCurrency, FieldIdentifier:
		return FieldType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown field type %q", ErrValidation, s)
	}
}

// UnmarshalJSON validates the field type during decoding.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFieldType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Field is a single schema field definition.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Pattern  string    `json:"pattern,omitempty"`
}

// RenderRules controls how typed values render into template text.
type RenderRules struct {
	DateLayout     string `json:"date_layout,omitempty"`
	CurrencySymbol string `json:"currency_symbol,omitempty"`
	CurrencyCode   string `json:"currency_code,omitempty"`
}

// Schema is a versioned field schema for a carrier form.
type Schema struct {
	ID        uuid.UUID   `json:"id"`
	Carrier   string      `json:"carrier"`
	Name      string      `json:"name"`
	Version   int         `json:"version"`
	Fields    []Field     `json:"fields"`
	Render    RenderRules `json:"render"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Field returns the field definition with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks structural rules: at least one field, unique non-empty
// names, known types, and compilable identifier patterns.
func (s *Schema) Validate() error {
	if s.Carrier == "" {
		return fmt.Errorf("%w: carrier required", ErrValidation)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: at least one field required", ErrValidation)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field name required", ErrValidation)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrValidation, f.Name)
		}
		seen[f.Name] = true

		if _, err := ParseFieldType(string(f.Type)); err != nil {
			return err
		}

		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return fmt.Errorf("%w: field %q pattern: %v", ErrValidation, f.Name, err)
			}
		}
	}

	return nil
}
