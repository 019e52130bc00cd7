package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/scrivener/internal/extraction"
)

// ExtractNode returns a state node that extracts text from every document
// with bounded concurrency. A document that cannot be extracted is excluded
// with a document-scoped diagnostic; only cancellation fails the node.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, rs, err := unpack(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		type outcome struct {
			text        *extraction.ExtractedText
			diagnostics []Diagnostic
		}
		outcomes := make([]outcome, len(req.Documents))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(extractWorkerCount(len(req.Documents)))

		for i, doc := range req.Documents {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				docCtx, cancel := context.WithTimeout(gctx, rt.ExtractTimeout)
				defer cancel()

				text, err := rt.Extractor.Extract(docCtx, doc)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					outcomes[i] = outcome{diagnostics: []Diagnostic{extractFailure(doc, err)}}
					return nil
				}

				o := outcome{text: &text}
				for _, w := range text.Warnings {
					o.diagnostics = append(o.diagnostics, Diagnostic{
						Stage:    "extract",
						Severity: SeverityWarning,
						Code:     CodeExtractionNote,
						Document: doc.Filename,
						Message:  w,
					})
				}
				outcomes[i] = o
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		for _, o := range outcomes {
			rs.Diagnostics = append(rs.Diagnostics, o.diagnostics...)
			if o.text != nil {
				rs.Texts = append(rs.Texts, *o.text)
			}
		}

		rt.Logger.InfoContext(ctx, "extract node complete",
			"documents", len(req.Documents),
			"extracted", len(rs.Texts),
		)

		return s.Set(KeyRunState, rs), nil
	})
}

func extractFailure(doc extraction.RawDocument, err error) Diagnostic {
	code := CodeExtractionFailed
	if errors.Is(err, extraction.ErrUnsupportedFormat) {
		code = CodeUnsupportedFormat
	}

	return Diagnostic{
		Stage:    "extract",
		Severity: SeverityError,
		Code:     code,
		Document: doc.Filename,
		Message:  err.Error(),
	}
}

func extractWorkerCount(docCount int) int {
	return max(min(runtime.NumCPU(), docCount), 1)
}
