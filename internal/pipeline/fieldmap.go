package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/scrivener/internal/fieldmap"
	"github.com/JaimeStill/scrivener/internal/fields"
)

// FieldMapNode returns a state node that runs field extraction over every
// extracted text with bounded model concurrency. A document whose model call
// or response contract fails is excluded with a document-scoped diagnostic.
func FieldMapNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, rs, err := unpack(s)
		if err != nil {
			return s, fmt.Errorf("fieldmap: %w", err)
		}

		names := documentNames(req)

		type outcome struct {
			values      map[string]fields.Value
			diagnostics []Diagnostic
		}
		outcomes := make([]outcome, len(rs.Texts))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(min(rt.ModelConcurrency, len(rs.Texts)), 1))

		for i, text := range rs.Texts {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				docCtx, cancel := context.WithTimeout(gctx, rt.ModelTimeout)
				defer cancel()

				values, warnings, err := rt.Fields.ExtractFields(docCtx, text, req.Schema)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					outcomes[i] = outcome{diagnostics: []Diagnostic{fieldmapFailure(names[text.DocumentID], err)}}
					return nil
				}

				o := outcome{values: values}
				for _, w := range warnings {
					o.diagnostics = append(o.diagnostics, Diagnostic{
						Stage:    "fieldmap",
						Severity: SeverityWarning,
						Code:     CodeCoercionFailed,
						Document: names[text.DocumentID],
						Message:  w,
					})
				}
				outcomes[i] = o
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("fieldmap: %w", err)
		}

		for _, o := range outcomes {
			rs.Diagnostics = append(rs.Diagnostics, o.diagnostics...)
			if o.values != nil {
				rs.FieldMaps = append(rs.FieldMaps, o.values)
			}
		}

		rt.Logger.InfoContext(ctx, "fieldmap node complete",
			"documents", len(rs.Texts),
			"mapped", len(rs.FieldMaps),
		)

		return s.Set(KeyRunState, rs), nil
	})
}

func fieldmapFailure(document string, err error) Diagnostic {
	code := CodeModelCallFailed
	if errors.Is(err, fieldmap.ErrSchemaViolation) {
		code = CodeSchemaViolation
	}

	return Diagnostic{
		Stage:    "fieldmap",
		Severity: SeverityError,
		Code:     code,
		Document: document,
		Message:  err.Error(),
	}
}

func documentNames(req Request) map[string]string {
	names := make(map[string]string, len(req.Documents))
	for _, doc := range req.Documents {
		names[doc.ID] = doc.Filename
	}
	return names
}
