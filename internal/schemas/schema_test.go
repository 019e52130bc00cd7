package schemas_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/scrivener/internal/schemas"
)

func validSchema() *schemas.Schema {
	return &schemas.Schema{
		Carrier: "acme",
		Name:    "claim-form",
		Fields: []schemas.Field{
			{Name: "claim_number", Type: schemas.FieldIdentifier, Required: true, Pattern: `^CLM-\d{6}$`},
			{Name: "claimant_name", Type: schemas.FieldString, Required: true},
			{Name: "loss_date", Type: schemas.FieldDate},
			{Name: "claim_amount", Type: schemas.FieldCurrency},
		},
	}
}

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    schemas.FieldType
		wantErr bool
	}{
		{"string", "string", schemas.FieldString, false},
		{"date", "date", schemas.FieldDate, false},
		{"currency", "currency", schemas.FieldCurrency, false},
		{"identifier", "identifier", schemas.FieldIdentifier, false},
		{"unknown", "number", "", true},
		{"empty", "", "", true},
		{"case sensitive", "String", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schemas.ParseFieldType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, schemas.ErrValidation) {
					t.Fatalf("ParseFieldType(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFieldType(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFieldType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFieldTypeUnmarshalJSON(t *testing.T) {
	t.Run("valid type decodes", func(t *testing.T) {
		var f schemas.Field
		if err := json.Unmarshal([]byte(`{"name":"x","type":"date"}`), &f); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if f.Type != schemas.FieldDate {
			t.Errorf("Type = %q, want date", f.Type)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		var f schemas.Field
		err := json.Unmarshal([]byte(`{"name":"x","type":"integer"}`), &f)
		if err == nil {
			t.Fatal("expected error for unknown type, got nil")
		}
	})
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*schemas.Schema)
		wantErr bool
	}{
		{"valid", func(s *schemas.Schema) {}, false},
		{"missing carrier", func(s *schemas.Schema) { s.Carrier = "" }, true},
		{"missing name", func(s *schemas.Schema) { s.Name = "" }, true},
		{"no fields", func(s *schemas.Schema) { s.Fields = nil }, true},
		{"empty field name", func(s *schemas.Schema) { s.Fields[0].Name = "" }, true},
		{"duplicate field", func(s *schemas.Schema) { s.Fields[1].Name = s.Fields[0].Name }, true},
		{"unknown field type", func(s *schemas.Schema) { s.Fields[0].Type = "number" }, true},
		{"invalid pattern", func(s *schemas.Schema) { s.Fields[0].Pattern = "[unclosed" }, true},
		{"pattern on string allowed", func(s *schemas.Schema) { s.Fields[1].Pattern = `^\w+$` }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := validSchema()
			tt.mutate(schema)

			err := schema.Validate()
			if tt.wantErr {
				if !errors.Is(err, schemas.ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestSchemaFieldLookup(t *testing.T) {
	schema := validSchema()

	field, ok := schema.Field("loss_date")
	if !ok {
		t.Fatal("Field(loss_date) not found")
	}
	if field.Type != schemas.FieldDate {
		t.Errorf("Type = %q, want date", field.Type)
	}

	if _, ok := schema.Field("unknown"); ok {
		t.Error("Field(unknown) should not be found")
	}
}

func TestSchemaFieldNames(t *testing.T) {
	schema := validSchema()
	got := schema.FieldNames()
	want := []string{"claim_number", "claimant_name", "loss_date", "claim_amount"}

	if len(got) != len(want) {
		t.Fatalf("FieldNames() length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("FieldNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
