package session

import (
	"time"

	"github.com/scribeline/scribeline/agent"
)

/* Session represents one meeting recording unit.
 * Uses value semantics as it represents data, not behavior.
 *
 * Invariant: at most one active (non-terminal) bot is referenced at a time.
 * The bot reference is the single piece of state contended by the deployment
 * orchestrator (writer) and the reconciliation engine (reader): the old
 * reference is always cleared before a new one is written, so a
 * reconciliation pass can never attribute usage to the wrong agent
 * generation.
 */
type Session struct {
	ID              string
	UserID          string
	OrganizationID  string
	MeetingURL      string
	BotID           string // empty when no bot is attached
	BotStatus       agent.Status
	RecordingStart  *time.Time
	RecordingEnd    *time.Time
	BillableMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasBot reports whether the session currently references a bot.
func (s Session) HasBot() bool {
	return s.BotID != ""
}
