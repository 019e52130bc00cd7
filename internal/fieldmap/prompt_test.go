package fieldmap_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/scrivener/internal/fieldmap"
	"github.com/JaimeStill/scrivener/internal/schemas"
)

func promptSchema() *schemas.Schema {
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

func TestBuildPromptDeterministic(t *testing.T) {
	schema := promptSchema()
	text := "Claim CLM-123456 filed by Jane Smith on 2024-03-15."

	first := fieldmap.BuildPrompt(schema, text)
	second := fieldmap.BuildPrompt(schema, text)

	if first != second {
		t.Error("identical inputs should produce identical prompts")
	}
}

func TestBuildPromptContent(t *testing.T) {
	schema := promptSchema()
	text := "Claim CLM-123456 filed by Jane Smith."

	prompt := fieldmap.BuildPrompt(schema, text)

	wantFragments := []string{
		"ONLY a JSON object",
		"use null",
		"- claim_number (identifier, required): an identifier, verbatim, matching pattern ^CLM-\\d{6}$",
		"- claimant_name (string, required): free text",
		"- loss_date (date, optional): a calendar date",
		"- claim_amount (currency, optional): a monetary amount",
		text,
	}

	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestBuildPromptFieldOrder(t *testing.T) {
	schema := promptSchema()
	prompt := fieldmap.BuildPrompt(schema, "text")

	last := -1
	for _, name := range schema.FieldNames() {
		idx := strings.Index(prompt, "- "+name+" (")
		if idx < 0 {
			t.Fatalf("prompt missing field %q", name)
		}
		if idx < last {
			t.Errorf("field %q out of declaration order", name)
		}
		last = idx
	}
}
