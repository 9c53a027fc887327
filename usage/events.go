package usage

import (
	"sort"

	"github.com/scribeline/scribeline/agent"
)

/* Normalize prepares a raw status-change stream for reconciliation:
 * malformed entries (empty code or zero timestamp) are dropped and the
 * remainder is sorted by CreatedAt. Webhook deliveries are at-least-once
 * and unordered, so the stream must never be trusted as-is.
 *
 * The sort is stable: entries sharing a timestamp keep their relative
 * order, which keeps reconciliation deterministic for equal inputs.
 */
func Normalize(events []agent.StatusChange) []agent.StatusChange {
	out := make([]agent.StatusChange, 0, len(events))
	for _, e := range events {
		if e.Code == "" || e.CreatedAt.IsZero() {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}
