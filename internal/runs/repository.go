package runs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/internal/pipeline"
	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/internal/templates"
	"github.com/JaimeStill/scrivener/pkg/database"
	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/query"
	"github.com/JaimeStill/scrivener/pkg/repository"
	"github.com/JaimeStill/scrivener/pkg/storage"
)

type runRepository struct {
	db        *sql.DB
	storage   storage.System
	schemas   schemas.System
	templates templates.System
	runtime   *pipeline.Runtime
	logger    *slog.Logger
}

// New creates the run System.
func New(
	db database.System,
	store storage.System,
	schemaSystem schemas.System,
	templateSystem templates.System,
	runtime *pipeline.Runtime,
	logger *slog.Logger,
) System {
	return &runRepository{
		db:        db.Connection(),
		storage:   store,
		schemas:   schemaSystem,
		templates: templateSystem,
		runtime:   runtime,
		logger:    logger.With("system", "runs"),
	}
}

func (r *runRepository) Execute(ctx context.Context, schemaID, templateID uuid.UUID, documents []extraction.RawDocument) (*Run, error) {
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}

	schema, err := r.schemas.Get(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	templateData, template, err := r.downloadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	intake := intakeDiagnostics(documents)

	result, err := pipeline.Execute(ctx, r.runtime, pipeline.Request{
		RunID:       runID,
		Schema:      schema,
		Template:    templateData,
		MergePoints: template.MergePoints,
		Documents:   documents,
	})
	if err != nil {
		return nil, fmt.Errorf("execute pipeline: %w", err)
	}

	result.Diagnostics = append(intake, result.Diagnostics...)

	outputKey, auditKey, err := r.storeArtifacts(ctx, runID, result, schema)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:            runID,
		SchemaID:      schemaID,
		TemplateID:    templateID,
		Status:        result.Status,
		DocumentCount: len(documents),
		Fields:        result.Fields,
		Diagnostics:   result.Diagnostics,
		OutputKey:     outputKey,
		AuditKey:      auditKey,
	}

	persisted, err := r.insert(ctx, run)
	if err != nil {
		return nil, err
	}

	r.logger.Info("run executed",
		"id", runID,
		"status", persisted.Status,
		"documents", persisted.DocumentCount,
		"diagnostics", len(persisted.Diagnostics),
	)

	return persisted, nil
}

func (r *runRepository) downloadTemplate(ctx context.Context, templateID uuid.UUID) ([]byte, *templates.Template, error) {
	result, template, err := r.templates.Download(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read template %s: %w", templateID, err)
	}

	return data, template, nil
}

// intakeDiagnostics records document facts established before the pipeline:
// PDF page counts validated over the raw bytes.
func intakeDiagnostics(documents []extraction.RawDocument) []pipeline.Diagnostic {
	var diagnostics []pipeline.Diagnostic

	for _, doc := range documents {
		if !mimetype.Detect(doc.Data).Is("application/pdf") {
			continue
		}

		pages, err := api.PageCount(bytes.NewReader(doc.Data), nil)
		if err != nil {
			diagnostics = append(diagnostics, pipeline.Diagnostic{
				Stage:    "intake",
				Severity: pipeline.SeverityWarning,
				Code:     pipeline.CodeExtractionNote,
				Document: doc.Filename,
				Message:  fmt.Sprintf("page count failed: %v", err),
			})
			continue
		}

		diagnostics = append(diagnostics, pipeline.Diagnostic{
			Stage:    "intake",
			Severity: pipeline.SeverityInfo,
			Code:     "page-count",
			Document: doc.Filename,
			Message:  fmt.Sprintf("%d pages", pages),
		})
	}

	return diagnostics
}

func (r *runRepository) storeArtifacts(ctx context.Context, runID uuid.UUID, result *pipeline.Result, schema *schemas.Schema) (string, string, error) {
	var outputKey string
	if len(result.Output) > 0 {
		outputKey = fmt.Sprintf("runs/%s/output.docx", runID)
		if err := r.storage.Upload(ctx, outputKey, bytes.NewReader(result.Output), templates.DocxContentType); err != nil {
			return "", "", fmt.Errorf("store run output: %w", err)
		}
	}

	workbook, err := BuildAuditWorkbook(result, schema)
	if err != nil {
		return "", "", err
	}

	auditKey := fmt.Sprintf("runs/%s/audit.xlsx", runID)
	if err := r.storage.Upload(ctx, auditKey, bytes.NewReader(workbook), XlsxContentType); err != nil {
		return "", "", fmt.Errorf("store run audit: %w", err)
	}

	return outputKey, auditKey, nil
}

func (r *runRepository) insert(ctx context.Context, run *Run) (*Run, error) {
	fields, err := json.Marshal(run.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode run fields: %w", err)
	}
	diagnostics, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return nil, fmt.Errorf("encode run diagnostics: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO scrivener.runs
		   (id, schema_id, template_id, status, document_count, fields, diagnostics, output_key, audit_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))
		 RETURNING id, schema_id, template_id, status, document_count, fields, diagnostics,
		           output_key, audit_key, created_at`,
		run.ID, run.SchemaID, run.TemplateID, run.Status, run.DocumentCount,
		fields, diagnostics, run.OutputKey, run.AuditKey,
	)

	inserted, err := scanRun(row)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &inserted, nil
}

func (r *runRepository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	sql, args := query.NewBuilder(projection).BuildSingle("id", id)

	run, err := repository.QueryOne(ctx, r.db, sql, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &run, nil
}

func (r *runRepository) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Run], error) {
	var zero pagination.PageResult[Run]

	builder := query.
		NewBuilder(
			projection,
			query.SortField{Field: "createdAt", Descending: true},
		).
		WhereSearch(req.Search, "status").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return zero, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return zero, fmt.Errorf("list runs: %w", err)
	}

	return pagination.NewPageResult(items, total, req.Page, req.PageSize), nil
}

func (r *runRepository) Output(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Run, error) {
	run, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !run.HasOutput() {
		return nil, nil, fmt.Errorf("%w: run %s status %s", ErrNoOutput, id, run.Status)
	}

	result, err := r.storage.Download(ctx, run.OutputKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download run output %s: %w", id, err)
	}

	return result, run, nil
}

func (r *runRepository) Audit(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Run, error) {
	run, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if run.AuditKey == "" {
		return nil, nil, fmt.Errorf("%w: run %s has no audit workbook", ErrNoOutput, id)
	}

	result, err := r.storage.Download(ctx, run.AuditKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download run audit %s: %w", id, err)
	}

	return result, run, nil
}

func (r *runRepository) Delete(ctx context.Context, id uuid.UUID) error {
	run, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	err = repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM scrivener.runs WHERE id = $1", id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range []string{run.OutputKey, run.AuditKey} {
		if key == "" {
			continue
		}
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("run artifact delete failed", "id", id, "key", key, "error", err)
		}
	}

	r.logger.Info("run deleted", "id", id)
	return nil
}
