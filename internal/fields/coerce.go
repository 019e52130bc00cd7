package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/pkg/formatting"
)

// ErrCoercion is returned when a raw value cannot satisfy its field's
// semantic type or pattern.
var ErrCoercion = errors.New("field coercion failed")

// Coerce converts a raw model value into a typed Value per the field's
// declared semantic type. The caller attaches source and confidence.
func Coerce(field schemas.Field, raw string, render schemas.RenderRules) (Value, error) {
	value := Value{
		Name: field.Name,
		Kind: field.Type,
		Raw:  raw,
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}, fmt.Errorf("%w: field %q: empty value", ErrCoercion, field.Name)
	}

	switch field.Type {
	case schemas.FieldString:
		value.Text = trimmed

	case schemas.FieldDate:
		date, err := formatting.ParseDate(trimmed)
		if err != nil {
			return Value{}, fmt.Errorf("%w: field %q: %v", ErrCoercion, field.Name, err)
		}
		value.Date = date

	case schemas.FieldCurrency:
		cents, code, err := formatting.ParseCurrency(trimmed, render.CurrencyCode)
		if err != nil {
			return Value{}, fmt.Errorf("%w: field %q: %v", ErrCoercion, field.Name, err)
		}
		value.Cents = cents
		value.Code = code

	case schemas.FieldIdentifier:
		if field.Pattern != "" {
			pattern, err := regexp.Compile(field.Pattern)
			if err != nil {
				return Value{}, fmt.Errorf("%w: field %q: invalid pattern: %v", ErrCoercion, field.Name, err)
			}
			if !pattern.MatchString(trimmed) {
				return Value{}, fmt.Errorf("%w: field %q: %q does not match pattern", ErrCoercion, field.Name, trimmed)
			}
		}
		value.Text = trimmed

	default:
		return Value{}, fmt.Errorf("%w: field %q: unknown type %q", ErrCoercion, field.Name, field.Type)
	}

	return value, nil
}
