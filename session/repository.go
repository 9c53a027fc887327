package session

import (
	"context"
	"errors"
	"time"

	"github.com/scribeline/scribeline/agent"
)

// ErrNotFound is returned when no session matches the lookup.
var ErrNotFound = errors.New("session not found")

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things.
 */

// Reader provides read operations for sessions
type Reader interface {
	Get(ctx context.Context, id string) (Session, error)
	GetByBotID(ctx context.Context, botID string) (Session, error)
	/* ListUnreconciled returns sessions that reference a bot but have no
	 * recorded billable minutes yet. Used by the backfill pass to recover
	 * usage missed due to lost webhooks.
	 */
	ListUnreconciled(ctx context.Context, limit int) ([]Session, error)
}

// Writer provides write operations for sessions
type Writer interface {
	/* AttachBot stores the new bot reference and sets the recording start
	 * timestamp if it is not already set. Single atomic update: the session
	 * must never point at two agent generations simultaneously, so callers
	 * clear the previous reference first via ClearBot.
	 */
	AttachBot(ctx context.Context, id, botID string, status agent.Status, startedAt time.Time) error
	// ClearBot removes the bot reference from the session.
	ClearBot(ctx context.Context, id string) error
	// UpdateBotStatus records the latest lifecycle status of the attached bot.
	UpdateBotStatus(ctx context.Context, id string, status agent.Status) error
	/* RecordUsage stores the reconciled totals on the session. Upsert
	 * semantics: re-running reconciliation converges to the same values.
	 */
	RecordUsage(ctx context.Context, id string, billableMinutes int, recordingEnd time.Time) error
}

// Repository combines session persistence operations
type Repository interface {
	Reader
	Writer
}
