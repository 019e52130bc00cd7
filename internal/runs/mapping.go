package runs

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/scrivener/pkg/query"
	"github.com/JaimeStill/scrivener/pkg/repository"
)

var projection = query.NewProjectionMap("scrivener", "runs", "r").
	Project("id", "id").
	Project("schema_id", "schemaId").
	Project("template_id", "templateId").
	Project("status", "status").
	Project("document_count", "documentCount").
	Project("fields", "fields").
	Project("diagnostics", "diagnostics").
	Project("output_key", "outputKey").
	Project("audit_key", "auditKey").
	Project("created_at", "createdAt")

func scanRun(s repository.Scanner) (Run, error) {
	var (
		run         Run
		fields      []byte
		diagnostics []byte
		outputKey   sql.NullString
		auditKey    sql.NullString
	)

	if err := s.Scan(
		&run.ID,
		&run.SchemaID,
		&run.TemplateID,
		&run.Status,
		&run.DocumentCount,
		&fields,
		&diagnostics,
		&outputKey,
		&auditKey,
		&run.CreatedAt,
	); err != nil {
		return Run{}, err
	}

	if err := json.Unmarshal(fields, &run.Fields); err != nil {
		return Run{}, fmt.Errorf("decode run fields: %w", err)
	}
	if err := json.Unmarshal(diagnostics, &run.Diagnostics); err != nil {
		return Run{}, fmt.Errorf("decode run diagnostics: %w", err)
	}

	run.OutputKey = outputKey.String
	run.AuditKey = auditKey.String

	return run, nil
}
