package webhook

import (
	"context"
	"errors"
	"time"
)

// ErrJobNotFound is returned by Get when no job record exists for the id.
var ErrJobNotFound = errors.New("job not found")

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * The queue is owned by this package and touched only through these
 * claim/complete/requeue/fail operations - no ambient global queue state.
 */

// Reader provides read operations for jobs and dead letters
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (Job, error)
	GetDeadLetter(ctx context.Context, id string) (DeadLetter, error)
	ListDeadLetters(ctx context.Context, limit int) ([]DeadLetter, error)
}

// Queue provides the job state transitions
type Queue interface {
	// Enqueue inserts a pending job due at job.NextRetryAt.
	Enqueue(ctx context.Context, job Job) (string, error)
	/* ClaimDue atomically claims up to limit pending jobs whose
	 * next_retry_at <= now, oldest-due first, marking each Processing with
	 * a claim timestamp. A job claimed by one worker must never be handed
	 * to another.
	 */
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)
	/* Complete marks a claimed job delivered. The job record expires after
	 * ttl so the store does not grow without bound.
	 */
	Complete(ctx context.Context, id string, ttl time.Duration) error
	// Requeue returns a claimed job to Pending with its updated retry
	// count, error history and next_retry_at.
	Requeue(ctx context.Context, job Job) error
	/* Fail marks a claimed job permanently failed and writes its dead
	 * letter in the same operation, so a crash cannot leave a failed job
	 * without one (or two entries for one job).
	 */
	Fail(ctx context.Context, job Job, entry DeadLetter) error
	/* ReleaseStuck reverts Processing jobs claimed before deadline back to
	 * Pending. Covers workers that crashed mid-delivery; the delivery
	 * target may see the attempt twice, which at-least-once permits.
	 */
	ReleaseStuck(ctx context.Context, deadline time.Time) (int, error)
}

// DeadLetterWriter provides mutations on dead letters
type DeadLetterWriter interface {
	// MarkReplayed stamps the audit trail; the entry itself is never deleted.
	MarkReplayed(ctx context.Context, id string, at time.Time) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Queue
	DeadLetterWriter
	Close(ctx context.Context) error
}
