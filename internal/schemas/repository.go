package schemas

import (
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
)

type schemaRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates the schema System backed by PostgreSQL.
func New(db database.System, logger *slog.Logger) System {
	return &schemaRepository{
		db:     db.Connection(),
		logger: logger.With("system", "schemas"),
	}
}

func (r *schemaRepository) Get(ctx context.Context, id uuid.UUID) (*Schema, error) {
	sql, args := query.NewBuilder(projection).BuildSingle("id", id)

	schema, err := repository.QueryOne(ctx, r.db, sql, args, scanSchema)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &schema, nil
}

func (r *schemaRepository) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Schema], error) {
	var zero pagination.PageResult[Schema]

	builder := query.
		NewBuilder(
			projection,
			query.SortField{Field: "carrier"},
			query.SortField{Field: "name"},
			query.SortField{Field: "version", Descending: true},
		).
		WhereSearch(req.Search, "carrier", "name").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return zero, fmt.Errorf("count schemas: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSchema)
	if err != nil {
		return zero, fmt.Errorf("list schemas: %w", err)
	}

	return pagination.NewPageResult(items, total, req.Page, req.PageSize), nil
}

func (r *schemaRepository) Create(ctx context.Context, schema *Schema) (*Schema, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	fields, render, err := encodeDefinition(schema)
	if err != nil {
		return nil, err
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Schema, error) {
		var version int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) + 1
			 FROM scrivener.schemas
			 WHERE carrier = $1 AND name = $2`,
			schema.Carrier, schema.Name,
		).Scan(&version)
		if err != nil {
			return Schema{}, err
		}

		row := tx.QueryRowContext(ctx,
			`INSERT INTO scrivener.schemas (id, carrier, name, version, fields, render)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, carrier, name, version, fields, render, created_at, updated_at`,
			uuid.New(), schema.Carrier, schema.Name, version, fields, render,
		)
		return scanSchema(row)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("schema created",
		"id", created.ID,
		"carrier", created.Carrier,
		"name", created.Name,
		"version", created.Version,
	)

	return &created, nil
}

func (r *schemaRepository) Update(ctx context.Context, schema *Schema) (*Schema, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	fields, render, err := encodeDefinition(schema)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE scrivener.schemas
		 SET fields = $2, render = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, carrier, name, version, fields, render, created_at, updated_at`,
		schema.ID, fields, render,
	)

	updated, err := scanSchema(row)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("schema updated", "id", updated.ID)
	return &updated, nil
}

func (r *schemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM scrivener.schemas WHERE id = $1", id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("schema deleted", "id", id)
	return nil
}

func encodeDefinition(schema *Schema) ([]byte, []byte, error) {
	fields, err := json.Marshal(schema.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("encode schema fields: %w", err)
	}
	render, err := json.Marshal(schema.Render)
	if err != nil {
		return nil, nil, fmt.Errorf("encode schema render rules: %w", err)
	}
	return fields, render, nil
}
