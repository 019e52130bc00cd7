package fieldmap

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/scrivener/internal/schemas"
)

// promptHeader fixes the extraction contract: JSON-only output, one property
// per schema field, explicit null for absent evidence.
const promptHeader = `You are an insurance claims analyst. Extract the requested fields from the claim document text below.

Rules:
- Respond with ONLY a JSON object. No prose, no markdown.
- The object must contain exactly one property per requested field.
- Every value must be a string taken from evidence in the document, or null.
- If the document contains no evidence for a field, use null. Never guess or fabricate a value.
- Dates may be returned as written in the document.
- Monetary amounts may include their currency symbol as written.`

var typeRules = map[schemas.FieldType]string{
	schemas.FieldString:     "free text",
	schemas.FieldDate:       "a calendar date",
	schemas.FieldCurrency:   "a monetary amount",
	schemas.FieldIdentifier: "an identifier, verbatim",
}

// BuildPrompt composes the extraction prompt. It is a pure function of the
// schema and document text: identical inputs produce identical prompts.
func BuildPrompt(schema *schemas.Schema, text string) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	b.WriteString("\n\nRequested fields:\n")

	for _, field := range schema.Fields {
		requirement := "optional"
		if field.Required {
			requirement = "required"
		}

		b.WriteString(fmt.Sprintf("- %s (%s, %s): %s", field.Name, field.Type, requirement, typeRules[field.Type]))
		if field.Pattern != "" {
			b.WriteString(fmt.Sprintf(", matching pattern %s", field.Pattern))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nDocument text:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")

	return b.String()
}
