package webhook

import "time"

/* DeadLetter is the terminal record for a job that exhausted its retry
 * budget. Created exactly once per permanently-failed job; never deleted.
 * Replay creates a fresh Job with a reset retry budget and stamps
 * ReplayedAt here for the audit trail.
 */
type DeadLetter struct {
	ID            string
	OriginalJobID string
	WebhookType   string
	EventType     string
	URL           string
	Payload       []byte
	SigningSecret string
	RetryCount    int
	Errors        []DeliveryError
	CreatedAt     time.Time
	ReplayedAt    *time.Time
}
