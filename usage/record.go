package usage

import (
	"time"
)

// RecordStatus classifies the outcome of reconciling one bot's event stream.
type RecordStatus string

const (
	// RecordCompleted means a full recording interval was found and billed.
	RecordCompleted RecordStatus = "completed"
	// RecordFailed means the agent ended in a failure status with no usage.
	RecordFailed RecordStatus = "failed"
	// RecordActive means the recording has not finished yet. Non-billable
	// until a later reconciliation pass sees the end marker.
	RecordActive RecordStatus = "active"
)

// Ledger entry sources.
const (
	SourceWebhook  = "webhook"
	SourceBackfill = "backfill"
)

/* Record is the aggregate derived from one bot's status-change stream.
 * Uses value semantics as it represents data, not behavior.
 *
 * Records are upserted by bot id: recomputing from the same event stream
 * always yields the same record, so repeated reconciliation runs are safe.
 */
type Record struct {
	BotID           string
	SessionID       string
	RecordingStart  *time.Time
	RecordingEnd    *time.Time
	TotalSeconds    int64
	BillableMinutes int
	Status          RecordStatus
}

/* LedgerEntry is one billing unit: a single recorded minute of a session.
 * Uniqueness key is (session_id, minute_timestamp) with upsert semantics,
 * so repeated reconciliation never double-bills a minute.
 */
type LedgerEntry struct {
	UserID          string
	OrganizationID  string
	SessionID       string
	MinuteTimestamp time.Time
	// SecondsRecorded is at most 60; the final minute of an interval
	// carries the remainder.
	SecondsRecorded int
	Source          string
	Metadata        map[string]string
}
