package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// FinalizeNode returns a state node that converts the accumulated run state
// into the immutable Result. It is the only place failures become an
// outcome.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, rs, err := unpack(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		result := Result{
			RunID:       req.RunID,
			Status:      computeStatus(rs),
			Fields:      rs.Canonical,
			Rendered:    rs.Rendered,
			Output:      rs.Output,
			Diagnostics: rs.Diagnostics,
			CompletedAt: time.Now().UTC(),
		}

		rt.Logger.InfoContext(ctx, "run finalized",
			"run_id", req.RunID,
			"status", result.Status,
			"diagnostics", len(result.Diagnostics),
		)

		return s.Set(KeyResult, result), nil
	})
}

// computeStatus grades the run: failed when nothing survived extraction or
// mapping, or the bind was fatal; partial when required fields are missing
// but a best-effort output exists; success otherwise.
func computeStatus(rs runState) Status {
	switch {
	case rs.Fatal != nil:
		return StatusFailed
	case len(rs.Texts) == 0 || len(rs.FieldMaps) == 0:
		return StatusFailed
	case len(rs.RequiredMissing) > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}
