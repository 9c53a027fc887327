package webhook

import "time"

/* Job represents one queued outbound webhook delivery
 * Uses value semantics as it represents data, not behavior
 */
type Job struct {
	ID          string
	WebhookType string // logical producer, e.g. "bot_lifecycle", "calendar_sync"
	EventType   string // e.g. "bot.deployed", "bot.status_change"
	URL         string
	Payload     []byte
	Status      Status
	RetryCount  int
	MaxRetries  int
	NextRetryAt time.Time
	LastError   string
	// SigningSecret, when set, makes the sender attach Standard Webhooks
	// signature headers to every delivery attempt.
	SigningSecret string
	// Errors is the ordered history of failed delivery attempts. Carried on
	// the job so a permanently-failed job's dead-letter entry records every
	// attempt, not just the last one.
	Errors    []DeliveryError
	ClaimedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeliveryError is one failed delivery attempt.
type DeliveryError struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
