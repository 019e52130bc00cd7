package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/scrivener/internal/fields"
)

// BindNode returns a state node that renders the canonical map and fills the
// template. A template declaring merge points outside the schema is a fatal
// run error: the fatal is recorded in state so accumulated diagnostics
// survive to finalize, and no output is produced.
func BindNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, rs, err := unpack(s)
		if err != nil {
			return s, fmt.Errorf("bind: %w", err)
		}

		if unknown := unknownMergePoints(req); len(unknown) > 0 {
			rs.Fatal = fmt.Errorf("%w: template merge points not in schema: %s",
				ErrTemplateBind, strings.Join(unknown, ", "))
			rs.diag(Diagnostic{
				Stage:    "bind",
				Severity: SeverityError,
				Code:     CodeTemplateBind,
				Message:  rs.Fatal.Error(),
			})
			return s.Set(KeyRunState, rs), nil
		}

		rs.Rendered = fields.Render(rs.Canonical, req.Schema)

		output, err := rt.Binder.Bind(req.Template, rs.Rendered)
		if err != nil {
			rs.Fatal = fmt.Errorf("%w: %v", ErrTemplateBind, err)
			rs.diag(Diagnostic{
				Stage:    "bind",
				Severity: SeverityError,
				Code:     CodeTemplateBind,
				Message:  rs.Fatal.Error(),
			})
			return s.Set(KeyRunState, rs), nil
		}

		rs.Output = output

		rt.Logger.InfoContext(ctx, "bind node complete",
			"merge_points", len(req.MergePoints),
			"output_bytes", len(output),
		)

		return s.Set(KeyRunState, rs), nil
	})
}

func unknownMergePoints(req Request) []string {
	var unknown []string
	for _, point := range req.MergePoints {
		if _, ok := req.Schema.Field(point); !ok {
			unknown = append(unknown, point)
		}
	}
	return unknown
}
