package fields

import "github.com/JaimeStill/scrivener/internal/schemas"

// Conflict records a merge decision where multiple documents produced a
// present value for the same field.
type Conflict struct {
	Field     string
	Winner    Value
	Discarded []Value
}

// Merge folds per-document field maps into a canonical map. Present values
// always beat missing markers; among present values the winner is decided by
// confidence descending, then by later document, then by input order.
// Merge never fails: it reports conflicts where a discarded value disagrees
// with the winner, and required fields that ended up with no present value.
func Merge(schema *schemas.Schema, maps ...map[string]Value) (map[string]Value, []Conflict, []string) {
	canonical := make(map[string]Value, len(schema.Fields))
	discarded := make(map[string][]Value)

	for _, m := range maps {
		for _, field := range schema.Fields {
			candidate, ok := m[field.Name]
			if !ok {
				continue
			}

			current, exists := canonical[field.Name]
			if !exists {
				canonical[field.Name] = candidate
				continue
			}

			if supersedes(candidate, current) {
				if !current.Missing {
					discarded[field.Name] = append(discarded[field.Name], current)
				}
				canonical[field.Name] = candidate
			} else if !candidate.Missing {
				discarded[field.Name] = append(discarded[field.Name], candidate)
			}
		}
	}

	var conflicts []Conflict
	for _, field := range schema.Fields {
		winner := canonical[field.Name]

		var losers []Value
		for _, loser := range discarded[field.Name] {
			if equivalent(loser, winner) {
				continue
			}
			losers = append(losers, loser)
		}

		if len(losers) > 0 {
			conflicts = append(conflicts, Conflict{
				Field:     field.Name,
				Winner:    winner,
				Discarded: losers,
			})
		}
	}

	var requiredMissing []string
	for _, field := range schema.Fields {
		if !field.Required {
			continue
		}
		value, ok := canonical[field.Name]
		if !ok || value.Missing {
			requiredMissing = append(requiredMissing, field.Name)
		}
	}

	return canonical, conflicts, requiredMissing
}

// equivalent reports whether two values carry the same typed content,
// ignoring provenance and confidence. Agreeing documents are not a conflict.
func equivalent(a, b Value) bool {
	return a.Text == b.Text && a.Cents == b.Cents && a.Code == b.Code && a.Date.Equal(b.Date)
}

// supersedes reports whether candidate replaces current. Candidates are
// applied in document order, so an equal-confidence present candidate from a
// later document wins.
func supersedes(candidate, current Value) bool {
	if candidate.Missing {
		return false
	}
	if current.Missing {
		return true
	}
	return candidate.Confidence >= current.Confidence
}
