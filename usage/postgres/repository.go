package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scribeline/scribeline/usage"
)

/* PostgreSQL implementation of usage.Repository backed by a pgx pool.
 * Both writes are upserts: ON CONFLICT on the record's bot id and on the
 * ledger's (session_id, minute_timestamp) key, so reconciliation can run
 * any number of times without double-billing.
 */

type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a usage repository on an existing pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertRecord overwrites the usage record for rec.BotID.
func (r *Repository) UpsertRecord(ctx context.Context, rec usage.Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bot_usage_records
			(bot_id, session_id, recording_started_at, recording_ended_at,
			 total_recording_seconds, billable_minutes, status, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (bot_id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			recording_started_at = EXCLUDED.recording_started_at,
			recording_ended_at = EXCLUDED.recording_ended_at,
			total_recording_seconds = EXCLUDED.total_recording_seconds,
			billable_minutes = EXCLUDED.billable_minutes,
			status = EXCLUDED.status,
			updated_at = now()`,
		rec.BotID, rec.SessionID, rec.RecordingStart, rec.RecordingEnd,
		rec.TotalSeconds, rec.BillableMinutes, string(rec.Status))
	if err != nil {
		return fmt.Errorf("upserting usage record: %w", err)
	}
	return nil
}

// UpsertLedger writes ledger entries in one batch, upserting per minute.
func (r *Repository) UpsertLedger(ctx context.Context, entries []usage.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO usage_ledger
				(user_id, organization_id, session_id, minute_timestamp,
				 seconds_recorded, source, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (session_id, minute_timestamp) DO UPDATE SET
				seconds_recorded = EXCLUDED.seconds_recorded,
				source = EXCLUDED.source,
				metadata = EXCLUDED.metadata`,
			e.UserID, e.OrganizationID, e.SessionID, e.MinuteTimestamp,
			e.SecondsRecorded, e.Source, e.Metadata)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upserting ledger entry: %w", err)
		}
	}

	return results.Close()
}

// MinutesUsed counts billed minutes for the user/org in [from, to).
func (r *Repository) MinutesUsed(ctx context.Context, userID, organizationID string, from, to time.Time) (int, error) {
	var minutes int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM usage_ledger
		 WHERE user_id = $1 AND organization_id = $2
		   AND minute_timestamp >= $3 AND minute_timestamp < $4`,
		userID, organizationID, from, to).Scan(&minutes)
	if err != nil {
		return 0, fmt.Errorf("counting billed minutes: %w", err)
	}
	return minutes, nil
}

// CreateTables creates the usage tables (useful for tests and local setup).
func (r *Repository) CreateTables(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS bot_usage_records (
			bot_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			recording_started_at TIMESTAMPTZ,
			recording_ended_at TIMESTAMPTZ,
			total_recording_seconds BIGINT NOT NULL DEFAULT 0,
			billable_minutes INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS usage_ledger (
			user_id TEXT NOT NULL,
			organization_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			minute_timestamp TIMESTAMPTZ NOT NULL,
			seconds_recorded INTEGER NOT NULL,
			source TEXT NOT NULL,
			metadata JSONB,
			PRIMARY KEY (session_id, minute_timestamp)
		);

		CREATE INDEX IF NOT EXISTS usage_ledger_user_period
			ON usage_ledger (user_id, organization_id, minute_timestamp);
	`
	_, err := r.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("creating usage tables: %w", err)
	}
	return nil
}
