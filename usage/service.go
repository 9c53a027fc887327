package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/agent"
	"github.com/scribeline/scribeline/session"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the business operations for usage reconciliation
type UseCase interface {
	Reconcile(ctx context.Context, botID string) (Record, error)
	HandleAgentEvent(ctx context.Context, botID string, code agent.Status) error
	BackfillAll(ctx context.Context) (int, error)
}

type Service struct {
	Agents   agent.Client
	Sessions session.Repository
	Repo     Repository

	backfillBatch int
	backfillDelay time.Duration
	log           zerolog.Logger
}

// Config tunes the backfill pass. Zero values fall back to defaults.
type Config struct {
	BackfillBatch int           // sessions per BackfillAll pass (default 50)
	BackfillDelay time.Duration // pause between agent API calls (default 1s)
}

// NewService creates a new usage reconciliation service with dependency injection
func NewService(agents agent.Client, sessions session.Repository, repo Repository, cfg Config, log zerolog.Logger) *Service {
	if cfg.BackfillBatch <= 0 {
		cfg.BackfillBatch = 50
	}
	if cfg.BackfillDelay <= 0 {
		cfg.BackfillDelay = time.Second
	}
	return &Service{
		Agents:        agents,
		Sessions:      sessions,
		Repo:          repo,
		backfillBatch: cfg.BackfillBatch,
		backfillDelay: cfg.BackfillDelay,
		log:           log,
	}
}

/* Reconcile recomputes usage for the bot from its authoritative status
 * history and upserts the usage record, the per-minute ledger entries, and
 * the session totals. Idempotent: rerunning for the same history converges
 * to the same rows.
 *
 * A bot unknown to the agent API is logged and skipped, not raised: local
 * state and agent state drift, and a later backfill pass will retry. An
 * unreachable agent API is an error, so the session stays unreconciled.
 */
func (s *Service) Reconcile(ctx context.Context, botID string) (Record, error) {
	return s.reconcile(ctx, botID, SourceBackfill)
}

func (s *Service) reconcile(ctx context.Context, botID, source string) (Record, error) {
	sess, err := s.Sessions.GetByBotID(ctx, botID)
	if err != nil {
		return Record{}, fmt.Errorf("looking up session for bot %s: %w", botID, err)
	}

	bot, history, err := s.Agents.GetStatus(ctx, botID)
	if errors.Is(err, agent.ErrBotNotFound) {
		s.log.Warn().
			Str("bot_id", botID).
			Str("session_id", sess.ID).
			Msg("bot unknown to agent api, reconciliation skipped")
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("fetching status history for bot %s: %w", botID, err)
	}

	res := Compute(history, bot.Status)

	rec := Record{
		BotID:           botID,
		SessionID:       sess.ID,
		RecordingStart:  res.Start,
		RecordingEnd:    res.End,
		TotalSeconds:    res.DurationSeconds,
		BillableMinutes: res.BillableMinutes,
		Status:          res.Status,
	}

	if err := s.Repo.UpsertRecord(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("upserting usage record for bot %s: %w", botID, err)
	}

	if res.BillableMinutes > 0 {
		entries := buildLedger(sess, botID, res, source)
		if err := s.Repo.UpsertLedger(ctx, entries); err != nil {
			return Record{}, fmt.Errorf("upserting ledger entries for session %s: %w", sess.ID, err)
		}
		if err := s.Sessions.RecordUsage(ctx, sess.ID, res.BillableMinutes, *res.End); err != nil {
			return Record{}, fmt.Errorf("recording usage on session %s: %w", sess.ID, err)
		}
	}

	if err := s.Sessions.UpdateBotStatus(ctx, sess.ID, bot.Status); err != nil {
		return Record{}, fmt.Errorf("updating bot status on session %s: %w", sess.ID, err)
	}

	s.log.Info().
		Str("bot_id", botID).
		Str("session_id", sess.ID).
		Str("status", string(res.Status)).
		Int("billable_minutes", res.BillableMinutes).
		Int64("duration_seconds", res.DurationSeconds).
		Str("source", source).
		Msg("usage reconciled")

	return rec, nil
}

/* HandleAgentEvent is the live ingestion path, invoked per delivered
 * lifecycle webhook. A recording-end or terminal code triggers a full
 * reconciliation against the agent's authoritative history; anything else
 * just records the latest status on the session.
 */
func (s *Service) HandleAgentEvent(ctx context.Context, botID string, code agent.Status) error {
	if code.IsRecordingEnd() || code.IsTerminal() {
		_, err := s.reconcile(ctx, botID, SourceWebhook)
		return err
	}

	sess, err := s.Sessions.GetByBotID(ctx, botID)
	if err != nil {
		return fmt.Errorf("looking up session for bot %s: %w", botID, err)
	}

	if err := s.Sessions.UpdateBotStatus(ctx, sess.ID, code); err != nil {
		return fmt.Errorf("updating bot status on session %s: %w", sess.ID, err)
	}

	return nil
}

/* BackfillAll reconciles sessions that reference a bot but have no billed
 * minutes yet, recovering usage missed due to lost webhooks. Failures are
 * logged per session and do not stop the pass. The inter-item delay is
 * politeness toward the third-party agent API, not a correctness concern.
 */
func (s *Service) BackfillAll(ctx context.Context) (int, error) {
	sessions, err := s.Sessions.ListUnreconciled(ctx, s.backfillBatch)
	if err != nil {
		return 0, fmt.Errorf("listing unreconciled sessions: %w", err)
	}

	reconciled := 0
	for i, sess := range sessions {
		if i > 0 {
			select {
			case <-ctx.Done():
				return reconciled, ctx.Err()
			case <-time.After(s.backfillDelay):
			}
		}

		if _, err := s.reconcile(ctx, sess.BotID, SourceBackfill); err != nil {
			s.log.Error().
				Err(err).
				Str("bot_id", sess.BotID).
				Str("session_id", sess.ID).
				Msg("backfill reconciliation failed")
			continue
		}
		reconciled++
	}

	s.log.Info().
		Int("candidates", len(sessions)).
		Int("reconciled", reconciled).
		Msg("backfill pass finished")

	return reconciled, nil
}

// buildLedger expands a completed interval into one entry per billed minute.
func buildLedger(sess session.Session, botID string, res Result, source string) []LedgerEntry {
	seconds := res.MinuteSeconds()
	entries := make([]LedgerEntry, 0, len(seconds))
	for i, sec := range seconds {
		entries = append(entries, LedgerEntry{
			UserID:          sess.UserID,
			OrganizationID:  sess.OrganizationID,
			SessionID:       sess.ID,
			MinuteTimestamp: res.Start.Add(time.Duration(i) * time.Minute),
			SecondsRecorded: sec,
			Source:          source,
			Metadata:        map[string]string{"bot_id": botID},
		})
	}
	return entries
}
