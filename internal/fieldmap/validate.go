package fieldmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/JaimeStill/scrivener/internal/schemas"
)

// buildResponseSchema constructs the JSON Schema every model response must
// satisfy: a closed object whose properties are exactly the schema's fields,
// each a string or null.
func buildResponseSchema(schema *schemas.Schema) (string, error) {
	properties := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		properties[field.Name] = map[string]any{
			"type": []string{"string", "null"},
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode response schema: %w", err)
	}

	return string(raw), nil
}

// validateResponse checks a parsed model response against the response
// schema. Violations are terminal for the attempt.
func validateResponse(schema *schemas.Schema, response map[string]any) error {
	raw, err := buildResponseSchema(schema)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", strings.NewReader(raw)); err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}

	compiled, err := compiler.Compile("response.json")
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}

	// Validate operates on any-typed JSON values, so round-trip through the
	// generic representation.
	var generic any = map[string]any(response)
	if err := compiled.Validate(generic); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return nil
}
