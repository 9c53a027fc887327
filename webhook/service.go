package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/internal/backoff"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// DefaultMaxRetries is the retry budget when the caller does not set one.
const DefaultMaxRetries = 3

// Options tunes a single enqueued delivery.
type Options struct {
	// MaxRetries overrides DefaultMaxRetries when > 0.
	MaxRetries int
	// SigningSecret enables Standard Webhooks signature headers on every
	// delivery attempt for this job.
	SigningSecret string
}

// UseCase defines the business operations for webhook delivery
type UseCase interface {
	Enqueue(ctx context.Context, url string, payload []byte, webhookType, eventType string, opts Options) (string, error)
	ProcessPending(ctx context.Context) (SweepResult, error)
	Replay(ctx context.Context, deadLetterID string) (string, error)
	SweepStuck(ctx context.Context) (int, error)
	ListDeadLetters(ctx context.Context, limit int) ([]DeadLetter, error)
}

// SweepResult summarizes one ProcessPending pass.
type SweepResult struct {
	Claimed    int
	Delivered  int
	Requeued   int
	DeadLetter int
}

type Service struct {
	Repo   Repository
	Sender Sender

	policy       backoff.Policy
	batchSize    int
	leaseWindow  time.Duration
	completedTTL time.Duration
	log          zerolog.Logger
}

// Config tunes the delivery sweeps. Zero values fall back to defaults.
type Config struct {
	BatchSize    int           // jobs claimed per ProcessPending pass (default 10)
	LeaseWindow  time.Duration // Processing older than this is considered stuck (default 5m)
	CompletedTTL time.Duration // retention of completed job records (default 1h)
}

// NewService creates a new webhook delivery service with dependency injection
func NewService(repo Repository, sender Sender, cfg Config, log zerolog.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.LeaseWindow <= 0 {
		cfg.LeaseWindow = 5 * time.Minute
	}
	if cfg.CompletedTTL <= 0 {
		cfg.CompletedTTL = time.Hour
	}
	return &Service{
		Repo:         repo,
		Sender:       sender,
		policy:       backoff.Default,
		batchSize:    cfg.BatchSize,
		leaseWindow:  cfg.LeaseWindow,
		completedTTL: cfg.CompletedTTL,
		log:          log,
	}
}

/* Enqueue inserts a pending job due immediately. It never attempts delivery
 * synchronously: failures surface later through retries and the dead-letter
 * queue, so a successful write to the queue is a successful enqueue.
 */
func (s *Service) Enqueue(ctx context.Context, url string, payload []byte, webhookType, eventType string, opts Options) (string, error) {
	if url == "" {
		return "", fmt.Errorf("url is required")
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	now := time.Now().UTC()
	job := Job{
		ID:            uuid.New().String(),
		WebhookType:   webhookType,
		EventType:     eventType,
		URL:           url,
		Payload:       payload,
		Status:        Pending,
		RetryCount:    0,
		MaxRetries:    maxRetries,
		NextRetryAt:   now,
		SigningSecret: opts.SigningSecret,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.Repo.Enqueue(ctx, job)
	if err != nil {
		return "", fmt.Errorf("enqueueing webhook job: %w", err)
	}

	return id, nil
}

/* ProcessPending performs one bounded delivery sweep: claim due jobs, attempt
 * each, and complete, requeue with backoff, or dead-letter depending on the
 * outcome and remaining budget. Jobs are claimed through the Processing
 * status, so two concurrent sweeps never deliver the same job.
 */
func (s *Service) ProcessPending(ctx context.Context) (SweepResult, error) {
	now := time.Now().UTC()

	jobs, err := s.Repo.ClaimDue(ctx, now, s.batchSize)
	if err != nil {
		return SweepResult{}, fmt.Errorf("claiming due jobs: %w", err)
	}

	result := SweepResult{Claimed: len(jobs)}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sendErr := s.Sender.Send(ctx, job)
		if sendErr == nil {
			if err := s.Repo.Complete(ctx, job.ID, s.completedTTL); err != nil {
				return result, fmt.Errorf("completing job %s: %w", job.ID, err)
			}
			result.Delivered++
			continue
		}

		if err := s.handleFailure(ctx, job, sendErr, &result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s *Service) handleFailure(ctx context.Context, job Job, sendErr error, result *SweepResult) error {
	now := time.Now().UTC()

	// Delay is computed from the retry count before the increment, so the
	// schedule for a job is 1s, 2s, 4s, ... capped at 60s.
	delay := s.policy.Delay(job.RetryCount)
	job.RetryCount++
	job.LastError = sendErr.Error()
	job.Errors = append(job.Errors, DeliveryError{Timestamp: now, Message: sendErr.Error()})
	job.UpdatedAt = now

	if job.RetryCount >= job.MaxRetries {
		entry := DeadLetter{
			ID:            uuid.New().String(),
			OriginalJobID: job.ID,
			WebhookType:   job.WebhookType,
			EventType:     job.EventType,
			URL:           job.URL,
			Payload:       job.Payload,
			SigningSecret: job.SigningSecret,
			RetryCount:    job.RetryCount,
			Errors:        job.Errors,
			CreatedAt:     now,
		}
		if err := s.Repo.Fail(ctx, job, entry); err != nil {
			return fmt.Errorf("dead-lettering job %s: %w", job.ID, err)
		}
		s.log.Warn().
			Str("job_id", job.ID).
			Str("event_type", job.EventType).
			Int("retry_count", job.RetryCount).
			Str("error", job.LastError).
			Msg("webhook job moved to dead letter queue")
		result.DeadLetter++
		return nil
	}

	job.Status = Pending
	job.NextRetryAt = now.Add(delay)
	if err := s.Repo.Requeue(ctx, job); err != nil {
		return fmt.Errorf("requeueing job %s: %w", job.ID, err)
	}
	s.log.Debug().
		Str("job_id", job.ID).
		Int("retry_count", job.RetryCount).
		Dur("delay", delay).
		Msg("webhook delivery failed, requeued")
	result.Requeued++
	return nil
}

/* Replay re-enqueues a fresh job from a dead-letter entry with a reset retry
 * budget. The original entry is kept as the audit trail and stamped with the
 * replay time.
 */
func (s *Service) Replay(ctx context.Context, deadLetterID string) (string, error) {
	entry, err := s.Repo.GetDeadLetter(ctx, deadLetterID)
	if err != nil {
		return "", fmt.Errorf("getting dead letter: %w", err)
	}

	id, err := s.Enqueue(ctx, entry.URL, entry.Payload, entry.WebhookType, entry.EventType, Options{SigningSecret: entry.SigningSecret})
	if err != nil {
		return "", err
	}

	if err := s.Repo.MarkReplayed(ctx, deadLetterID, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("marking dead letter replayed: %w", err)
	}

	return id, nil
}

/* SweepStuck releases jobs stuck in Processing after a worker crash. The
 * lease window is generous relative to the delivery timeout, so only truly
 * abandoned claims are recovered.
 */
func (s *Service) SweepStuck(ctx context.Context) (int, error) {
	deadline := time.Now().UTC().Add(-s.leaseWindow)

	released, err := s.Repo.ReleaseStuck(ctx, deadline)
	if err != nil {
		return 0, fmt.Errorf("releasing stuck jobs: %w", err)
	}
	if released > 0 {
		s.log.Warn().Int("released", released).Msg("released stuck webhook jobs")
	}
	return released, nil
}

// ListDeadLetters returns the most recent dead-letter entries.
func (s *Service) ListDeadLetters(ctx context.Context, limit int) ([]DeadLetter, error) {
	entries, err := s.Repo.ListDeadLetters(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing dead letters: %w", err)
	}
	return entries, nil
}
