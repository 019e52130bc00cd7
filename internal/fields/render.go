package fields

import (
	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/pkg/formatting"
)

// Render converts a canonical field map into template-ready text using the
// schema's render rules. Absent and missing fields render as the missing
// placeholder.
func Render(canonical map[string]Value, schema *schemas.Schema) map[string]string {
	rendered := make(map[string]string, len(schema.Fields))

	for _, field := range schema.Fields {
		value, ok := canonical[field.Name]
		if !ok || value.Missing {
			rendered[field.Name] = MissingPlaceholder
			continue
		}
		rendered[field.Name] = renderValue(value, schema.Render)
	}

	return rendered
}

func renderValue(value Value, rules schemas.RenderRules) string {
	switch value.Kind {
	case schemas.FieldDate:
		return formatting.FormatDate(value.Date, rules.DateLayout)
	case schemas.FieldCurrency:
		symbol := rules.CurrencySymbol
		if symbol == "" {
			symbol = "$"
		}
		return formatting.FormatCurrency(value.Cents, symbol)
	default:
		return value.Text
	}
}
