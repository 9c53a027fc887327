package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/scribeline/scribeline/quota"
	"github.com/scribeline/scribeline/usage"
)

/* Checker implements quota.Checker on top of the usage ledger: one ledger
 * entry is one billed minute, so usage for the current calendar month (UTC)
 * is a plain count over the entry timestamps.
 */
type Checker struct {
	ledger       usage.Reader
	monthlyLimit int
	now          func() time.Time
}

// NewChecker creates a ledger-backed quota checker. A limit of zero or
// less means the account is unmetered.
func NewChecker(ledger usage.Reader, monthlyLimit int) *Checker {
	return &Checker{
		ledger:       ledger,
		monthlyLimit: monthlyLimit,
		now:          time.Now,
	}
}

// CanRecord checks the account's usage for the current billing month.
func (c *Checker) CanRecord(ctx context.Context, userID, organizationID string) (quota.Result, error) {
	if c.monthlyLimit <= 0 {
		return quota.Result{Allowed: true}, nil
	}

	from, to := monthBounds(c.now())
	used, err := c.ledger.MinutesUsed(ctx, userID, organizationID, from, to)
	if err != nil {
		return quota.Result{}, fmt.Errorf("reading billed minutes: %w", err)
	}

	remaining := c.monthlyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return quota.Result{
		Allowed:          used < c.monthlyLimit,
		MinutesUsed:      used,
		MinutesLimit:     c.monthlyLimit,
		MinutesRemaining: remaining,
	}, nil
}

// monthBounds returns the UTC calendar month containing t as [from, to).
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
