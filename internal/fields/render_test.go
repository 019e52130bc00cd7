package fields_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/scrivener/internal/fields"
	"github.com/JaimeStill/scrivener/internal/schemas"
)

func TestRender(t *testing.T) {
	schema := &schemas.Schema{
		Carrier: "acme",
		Name:    "claim-form",
		Fields: []schemas.Field{
			{Name: "claimant_name", Type: schemas.FieldString},
			{Name: "loss_date", Type: schemas.FieldDate},
			{Name: "claim_amount", Type: schemas.FieldCurrency},
			{Name: "adjuster_notes", Type: schemas.FieldString},
		},
	}

	canonical := map[string]fields.Value{
		"claimant_name": {Name: "claimant_name", Kind: schemas.FieldString, Text: "Jane Smith"},
		"loss_date": {
			Name: "loss_date",
			Kind: schemas.FieldDate,
			Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		"claim_amount": {Name: "claim_amount", Kind: schemas.FieldCurrency, Cents: 1250000},
		"adjuster_notes": {
			Name:    "adjuster_notes",
			Kind:    schemas.FieldString,
			Missing: true,
		},
	}

	rendered := fields.Render(canonical, schema)

	tests := []struct {
		field string
		want  string
	}{
		{"claimant_name", "Jane Smith"},
		{"loss_date", "March 15, 2024"},
		{"claim_amount", "$12,500.00"},
		{"adjuster_notes", fields.MissingPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := rendered[tt.field]; got != tt.want {
				t.Errorf("rendered[%q] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRenderCustomRules(t *testing.T) {
	schema := &schemas.Schema{
		Carrier: "acme",
		Name:    "claim-form",
		Fields: []schemas.Field{
			{Name: "loss_date", Type: schemas.FieldDate},
			{Name: "claim_amount", Type: schemas.FieldCurrency},
		},
		Render: schemas.RenderRules{
			DateLayout:     "2006-01-02",
			CurrencySymbol: "€",
		},
	}

	canonical := map[string]fields.Value{
		"loss_date": {
			Name: "loss_date",
			Kind: schemas.FieldDate,
			Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		"claim_amount": {Name: "claim_amount", Kind: schemas.FieldCurrency, Cents: 9950},
	}

	rendered := fields.Render(canonical, schema)

	if got := rendered["loss_date"]; got != "2024-03-15" {
		t.Errorf("loss_date = %q, want 2024-03-15", got)
	}
	if got := rendered["claim_amount"]; got != "€99.50" {
		t.Errorf("claim_amount = %q, want €99.50", got)
	}
}

func TestRenderAbsentField(t *testing.T) {
	schema := &schemas.Schema{
		Carrier: "acme",
		Name:    "claim-form",
		Fields:  []schemas.Field{{Name: "claim_number", Type: schemas.FieldIdentifier}},
	}

	rendered := fields.Render(map[string]fields.Value{}, schema)

	if got := rendered["claim_number"]; got != fields.MissingPlaceholder {
		t.Errorf("absent field = %q, want %q", got, fields.MissingPlaceholder)
	}
}
