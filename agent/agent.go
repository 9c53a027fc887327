package agent

import (
	"context"
	"errors"
	"time"
)

/* Bot represents a deployed recording agent as known to the agent API.
 * Uses value semantics as it represents data, not behavior.
 */
type Bot struct {
	ID     string
	Status Status
}

// StatusChange is one entry in an agent's status history. Entries are
// immutable once received and ordered by CreatedAt, not by arrival order.
type StatusChange struct {
	Code      Status
	CreatedAt time.Time
}

// ErrBotNotFound is returned when the agent API has no record of the bot.
// Local state and agent state can drift, so callers treat this as a normal
// outcome during cleanup.
var ErrBotNotFound = errors.New("bot not found")

/* Client abstracts the third-party recording-agent API.
 * Small interface written for users of the API, not just for testing.
 */
type Client interface {
	// Deploy joins a new recording agent to the meeting.
	Deploy(ctx context.Context, meetingURL string) (Bot, error)
	// GetStatus returns the agent's current status and its full ordered
	// status-change history.
	GetStatus(ctx context.Context, botID string) (Bot, []StatusChange, error)
	// Stop asks the agent to leave the call. Idempotent: implementations
	// must tolerate "already stopped" and report missing bots as
	// ErrBotNotFound.
	Stop(ctx context.Context, botID string) error
}
