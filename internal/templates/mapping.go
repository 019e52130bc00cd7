package templates

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/scrivener/pkg/query"
	"github.com/JaimeStill/scrivener/pkg/repository"
)

var projection = query.NewProjectionMap("scrivener", "templates", "t").
	Project("id", "id").
	Project("name", "name").
	Project("carrier", "carrier").
	Project("filename", "filename").
	Project("content_type", "contentType").
	Project("size", "size").
	Project("storage_key", "storageKey").
	Project("merge_points", "mergePoints").
	Project("created_at", "createdAt").
	Project("updated_at", "updatedAt")

func scanTemplate(s repository.Scanner) (Template, error) {
	var (
		template    Template
		mergePoints []byte
	)

	if err := s.Scan(
		&template.ID,
		&template.Name,
		&template.Carrier,
		&template.Filename,
		&template.ContentType,
		&template.Size,
		&template.StorageKey,
		&mergePoints,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return Template{}, err
	}

	if err := json.Unmarshal(mergePoints, &template.MergePoints); err != nil {
		return Template{}, fmt.Errorf("decode merge points: %w", err)
	}

	return template, nil
}
