// Package backoff provides the exponential delay policy shared by the bot
// deployment retry loop and the webhook queue's next-attempt scheduling.
//
// The policy is a pure function of the attempt number, with no jitter: the
// webhook queue persists the computed next_retry_at, so the schedule must be
// deterministic and reproducible.
package backoff

import "time"

const (
	// DefaultBase is the delay before the first retry.
	DefaultBase = 1 * time.Second
	// DefaultMax caps the delay regardless of attempt count.
	DefaultMax = 60 * time.Second
)

// Policy computes retry delays as min(Base * 2^attempt, Max).
type Policy struct {
	Base time.Duration
	Max  time.Duration
}

// Default is the policy used across the system: 1s, 2s, 4s, ... capped at 60s.
var Default = Policy{Base: DefaultBase, Max: DefaultMax}

// Delay returns the wait before retry number attempt (zero-based).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Shifting past 63 bits would overflow; anything this deep is capped anyway.
	if attempt > 30 {
		return p.Max
	}
	d := p.Base << uint(attempt)
	if d > p.Max || d <= 0 {
		return p.Max
	}
	return d
}
