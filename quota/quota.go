package quota

import (
	"context"
)

/* Result reports one quota decision with the numbers the caller needs to
 * render an upgrade prompt. Uses value semantics as it represents data,
 * not behavior.
 */
type Result struct {
	Allowed          bool
	MinutesUsed      int
	MinutesLimit     int
	MinutesRemaining int
}

// Checker decides whether an account may start a new recording.
type Checker interface {
	CanRecord(ctx context.Context, userID, organizationID string) (Result, error)
}
