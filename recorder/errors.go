package recorder

import (
	"errors"
	"fmt"

	"github.com/scribeline/scribeline/quota"
)

// ErrValidation is returned for bad input: unknown session, missing or
// malformed meeting URL. Never retried.
var ErrValidation = errors.New("validation failed")

// ErrDeploymentFailed is returned after the deploy retry budget is
// exhausted. The session is left bot-less, never half-attached.
var ErrDeploymentFailed = errors.New("bot deployment failed")

/* QuotaExceededError is terminal and user-actionable: it carries the
 * account's usage numbers so the caller can render an upgrade prompt.
 */
type QuotaExceededError struct {
	Quota quota.Result
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d of %d minutes used, %d remaining",
		e.Quota.MinutesUsed, e.Quota.MinutesLimit, e.Quota.MinutesRemaining)
}
