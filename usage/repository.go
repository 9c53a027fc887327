package usage

import (
	"context"
	"time"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things.
 */

// Reader provides read operations over the usage ledger
type Reader interface {
	/* MinutesUsed counts ledger entries for the user/org in [from, to).
	 * One ledger entry is one billable minute, so this is the quota
	 * collaborator's source of truth.
	 */
	MinutesUsed(ctx context.Context, userID, organizationID string, from, to time.Time) (int, error)
}

// Writer provides write operations for reconciled usage
type Writer interface {
	// UpsertRecord overwrites the usage record for rec.BotID.
	UpsertRecord(ctx context.Context, rec Record) error
	/* UpsertLedger writes ledger entries, upserting on the
	 * (session_id, minute_timestamp) key so repeated reconciliation of the
	 * same interval never double-bills.
	 */
	UpsertLedger(ctx context.Context, entries []LedgerEntry) error
}

// Repository combines usage persistence operations
type Repository interface {
	Reader
	Writer
}
