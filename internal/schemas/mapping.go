package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/scrivener/pkg/query"
	"github.com/JaimeStill/scrivener/pkg/repository"
)

var projection = query.NewProjectionMap("scrivener", "schemas", "s").
	Project("id", "id").
	Project("carrier", "carrier").
	Project("name", "name").
	Project("version", "version").
	Project("fields", "fields").
	Project("render", "render").
	Project("created_at", "createdAt").
	Project("updated_at", "updatedAt")

func scanSchema(s repository.Scanner) (Schema, error) {
	var (
		schema Schema
		fields []byte
		render []byte
	)

	if err := s.Scan(
		&schema.ID,
		&schema.Carrier,
		&schema.Name,
		&schema.Version,
		&fields,
		&render,
		&schema.CreatedAt,
		&schema.UpdatedAt,
	); err != nil {
		return Schema{}, err
	}

	if err := json.Unmarshal(fields, &schema.Fields); err != nil {
		return Schema{}, fmt.Errorf("decode schema fields: %w", err)
	}
	if err := json.Unmarshal(render, &schema.Render); err != nil {
		return Schema{}, fmt.Errorf("decode schema render rules: %w", err)
	}

	return schema, nil
}
