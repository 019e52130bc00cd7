package templates

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/pkg/database"
	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/query"
	"github.com/JaimeStill/scrivener/pkg/repository"
	"github.com/JaimeStill/scrivener/pkg/storage"
)

type templateRepository struct {
	db      *sql.DB
	storage storage.System
	binder  DocxBinder
	logger  *slog.Logger
}

// New creates the template System backed by PostgreSQL and blob storage.
func New(db database.System, store storage.System, logger *slog.Logger) System {
	return &templateRepository{
		db:      db.Connection(),
		storage: store,
		logger:  logger.With("system", "templates"),
	}
}

func (r *templateRepository) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	sql, args := query.NewBuilder(projection).BuildSingle("id", id)

	template, err := repository.QueryOne(ctx, r.db, sql, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &template, nil
}

func (r *templateRepository) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Template], error) {
	var zero pagination.PageResult[Template]

	builder := query.
		NewBuilder(
			projection,
			query.SortField{Field: "carrier"},
			query.SortField{Field: "name"},
		).
		WhereSearch(req.Search, "carrier", "name", "filename").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return zero, fmt.Errorf("count templates: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTemplate)
	if err != nil {
		return zero, fmt.Errorf("list templates: %w", err)
	}

	return pagination.NewPageResult(items, total, req.Page, req.PageSize), nil
}

func (r *templateRepository) Create(ctx context.Context, template *Template, data []byte) (*Template, error) {
	mergePoints, err := r.binder.ScanMergePoints(data)
	if err != nil {
		return nil, err
	}
	if len(mergePoints) == 0 {
		return nil, fmt.Errorf("%w: no merge points declared", ErrInvalidTemplate)
	}

	encoded, err := json.Marshal(mergePoints)
	if err != nil {
		return nil, fmt.Errorf("encode merge points: %w", err)
	}

	id := uuid.New()
	storageKey := fmt.Sprintf("templates/%s/%s", id, template.Filename)

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		row := tx.QueryRowContext(ctx,
			`INSERT INTO scrivener.templates
			   (id, name, carrier, filename, content_type, size, storage_key, merge_points)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, name, carrier, filename, content_type, size, storage_key,
			           merge_points, created_at, updated_at`,
			id, template.Name, template.Carrier, template.Filename,
			DocxContentType, int64(len(data)), storageKey, encoded,
		)

		inserted, err := scanTemplate(row)
		if err != nil {
			return Template{}, err
		}

		if err := r.storage.Upload(ctx, storageKey, bytes.NewReader(data), DocxContentType); err != nil {
			return Template{}, err
		}

		return inserted, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template created",
		"id", created.ID,
		"carrier", created.Carrier,
		"name", created.Name,
		"merge_points", len(created.MergePoints),
	)

	return &created, nil
}

func (r *templateRepository) Download(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Template, error) {
	template, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := r.storage.Download(ctx, template.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download template %s: %w", id, err)
	}

	return result, template, nil
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	template, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	err = repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM scrivener.templates WHERE id = $1", id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, template.StorageKey); err != nil {
		r.logger.Warn("template blob delete failed", "id", id, "error", err)
	}

	r.logger.Info("template deleted", "id", id)
	return nil
}
