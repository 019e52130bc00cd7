package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/scrivener/internal/fields"
)

// MergeNode returns a state node that folds per-document field maps into the
// canonical map. Merging never fails; conflicts and missing required fields
// surface as diagnostics.
func MergeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, rs, err := unpack(s)
		if err != nil {
			return s, fmt.Errorf("merge: %w", err)
		}

		canonical, conflicts, requiredMissing := fields.Merge(req.Schema, rs.FieldMaps...)
		rs.Canonical = canonical
		rs.RequiredMissing = requiredMissing

		names := documentNames(req)

		for _, conflict := range conflicts {
			rs.diag(Diagnostic{
				Stage:    "merge",
				Severity: SeverityWarning,
				Code:     CodeConflict,
				Field:    conflict.Field,
				Document: names[conflict.Winner.SourceID],
				Message:  describeConflict(conflict, names),
			})
		}

		for _, field := range requiredMissing {
			rs.diag(Diagnostic{
				Stage:    "merge",
				Severity: SeverityWarning,
				Code:     CodeRequiredMissing,
				Field:    field,
				Message:  fmt.Sprintf("required field %q has no extracted value", field),
			})
		}

		rt.Logger.InfoContext(ctx, "merge node complete",
			"fields", len(canonical),
			"conflicts", len(conflicts),
			"required_missing", len(requiredMissing),
		)

		return s.Set(KeyRunState, rs), nil
	})
}

// describeConflict lists the winner and every discarded alternative so a
// reviewer can audit the tie-break.
func describeConflict(conflict fields.Conflict, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kept %q from %s (confidence %.2f); discarded",
		conflict.Winner.Raw, names[conflict.Winner.SourceID], conflict.Winner.Confidence)

	for i, loser := range conflict.Discarded {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %q from %s (confidence %.2f)",
			loser.Raw, names[loser.SourceID], loser.Confidence)
	}

	return b.String()
}
