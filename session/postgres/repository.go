package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scribeline/scribeline/agent"
	"github.com/scribeline/scribeline/session"
)

/* PostgreSQL implementation of session.Repository backed by a pgx pool.
 * Bot attach/clear are single conditional UPDATEs so the session never
 * references two agent generations at once.
 */

type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a session repository on an existing pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, user_id, organization_id, meeting_url,
	COALESCE(bot_id, ''), COALESCE(bot_status, ''),
	recording_started_at, recording_ended_at, billable_minutes,
	created_at, updated_at`

// Get retrieves a session by ID.
func (r *Repository) Get(ctx context.Context, id string) (session.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE id = $1 AND deleted_at IS NULL", selectColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByBotID retrieves the session that references the given bot.
func (r *Repository) GetByBotID(ctx context.Context, botID string) (session.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE bot_id = $1 AND deleted_at IS NULL", selectColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, botID))
}

// ListUnreconciled returns sessions with a bot reference but no billed usage.
func (r *Repository) ListUnreconciled(ctx context.Context, limit int) ([]session.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions
		WHERE bot_id IS NOT NULL AND bot_id <> '' AND billable_minutes = 0 AND deleted_at IS NULL
		ORDER BY created_at LIMIT $1`, selectColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing unreconciled sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// AttachBot stores the bot reference and backfills the recording start time.
func (r *Repository) AttachBot(ctx context.Context, id, botID string, status agent.Status, startedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET bot_id = $2, bot_status = $3,
		     recording_started_at = COALESCE(recording_started_at, $4),
		     updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, botID, string(status), startedAt)
	if err != nil {
		return fmt.Errorf("attaching bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// ClearBot removes the bot reference.
func (r *Repository) ClearBot(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET bot_id = NULL, bot_status = NULL, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id)
	if err != nil {
		return fmt.Errorf("clearing bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// UpdateBotStatus records the latest lifecycle status of the attached bot.
func (r *Repository) UpdateBotStatus(ctx context.Context, id string, status agent.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET bot_status = $2, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("updating bot status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// RecordUsage stores the reconciled totals on the session.
func (r *Repository) RecordUsage(ctx context.Context, id string, billableMinutes int, recordingEnd time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET billable_minutes = $2, recording_ended_at = $3, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, billableMinutes, recordingEnd)
	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// CreateTable creates the sessions table (useful for tests and local setup).
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			organization_id TEXT NOT NULL,
			meeting_url TEXT NOT NULL,
			bot_id TEXT,
			bot_status TEXT,
			recording_started_at TIMESTAMPTZ,
			recording_ended_at TIMESTAMPTZ,
			billable_minutes INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)
	`
	_, err := r.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row rowScanner) (session.Session, error) {
	var s session.Session
	var botStatus string
	err := row.Scan(
		&s.ID, &s.UserID, &s.OrganizationID, &s.MeetingURL,
		&s.BotID, &botStatus,
		&s.RecordingStart, &s.RecordingEnd, &s.BillableMinutes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("scanning session: %w", err)
	}
	s.BotStatus = agent.Status(botStatus)
	return s, nil
}
