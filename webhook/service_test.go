package webhook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/webhook"
	"github.com/scribeline/scribeline/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(repo webhook.Repository, sender webhook.Sender) *webhook.Service {
	return webhook.NewService(repo, sender, webhook.Config{}, zerolog.Nop())
}

func TestEnqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		payload := []byte(`{"type":"bot.deployed"}`)

		repo.On("Enqueue", ctx, webhook.MatchJob(func(j webhook.Job) bool {
			return j.ID != "" &&
				j.URL == "https://hooks.example.com/in" &&
				string(j.Payload) == string(payload) &&
				j.WebhookType == "bot_lifecycle" &&
				j.EventType == "bot.deployed" &&
				j.Status == webhook.Pending &&
				j.RetryCount == 0 &&
				j.MaxRetries == webhook.DefaultMaxRetries &&
				!j.NextRetryAt.After(time.Now().UTC())
		})).Return("job-123", nil)

		id, err := service.Enqueue(ctx, "https://hooks.example.com/in", payload, "bot_lifecycle", "bot.deployed", webhook.Options{})

		require.NoError(t, err)
		assert.Equal(t, "job-123", id)
	})

	t.Run("custom retry budget", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		repo.On("Enqueue", ctx, webhook.MatchJob(func(j webhook.Job) bool {
			return j.MaxRetries == 5
		})).Return("job-456", nil)

		_, err := service.Enqueue(ctx, "https://hooks.example.com/in", []byte("{}"), "bot_lifecycle", "bot.deployed", webhook.Options{MaxRetries: 5})

		require.NoError(t, err)
	})

	t.Run("missing url", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		_, err := service.Enqueue(ctx, "", []byte("{}"), "bot_lifecycle", "bot.deployed", webhook.Options{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})
}

func TestProcessPending(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delivery completes the job", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		sender := mocks.NewSender(t)
		service := newService(repo, sender)

		job := webhook.Job{ID: "job-1", URL: "https://target", Status: webhook.Processing, MaxRetries: 3}
		repo.On("ClaimDue", ctx, mock.AnythingOfType("time.Time"), 10).Return([]webhook.Job{job}, nil)
		sender.On("Send", ctx, job).Return(nil)
		repo.On("Complete", ctx, "job-1", time.Hour).Return(nil)

		result, err := service.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Claimed)
		assert.Equal(t, 1, result.Delivered)
		assert.Equal(t, 0, result.Requeued)
	})

	t.Run("failed delivery requeues with exponential delay", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		sender := mocks.NewSender(t)
		service := newService(repo, sender)

		job := webhook.Job{ID: "job-1", URL: "https://target", Status: webhook.Processing, RetryCount: 1, MaxRetries: 3}
		repo.On("ClaimDue", ctx, mock.AnythingOfType("time.Time"), 10).Return([]webhook.Job{job}, nil)
		sender.On("Send", ctx, job).Return(errors.New("target returned status 500"))

		before := time.Now().UTC()
		repo.On("Requeue", ctx, webhook.MatchJob(func(j webhook.Job) bool {
			// second retry: delay = 2s
			return j.RetryCount == 2 &&
				j.Status == webhook.Pending &&
				j.LastError == "target returned status 500" &&
				len(j.Errors) == 1 &&
				j.NextRetryAt.After(before.Add(1*time.Second)) &&
				j.NextRetryAt.Before(before.Add(5*time.Second))
		})).Return(nil)

		result, err := service.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Requeued)
		assert.Equal(t, 0, result.DeadLetter)
	})

	t.Run("exhausted budget dead-letters exactly once with full error history", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		sender := mocks.NewSender(t)
		service := newService(repo, sender)

		job := webhook.Job{
			ID:         "job-1",
			URL:        "https://target",
			Status:     webhook.Processing,
			RetryCount: 2,
			MaxRetries: 3,
			Errors: []webhook.DeliveryError{
				{Timestamp: time.Now().UTC(), Message: "attempt 1"},
				{Timestamp: time.Now().UTC(), Message: "attempt 2"},
			},
		}
		repo.On("ClaimDue", ctx, mock.AnythingOfType("time.Time"), 10).Return([]webhook.Job{job}, nil)
		sender.On("Send", ctx, job).Return(errors.New("connection refused"))

		repo.On("Fail", ctx,
			webhook.MatchJob(func(j webhook.Job) bool {
				return j.ID == "job-1" && j.RetryCount == 3
			}),
			webhook.MatchDeadLetter(func(d webhook.DeadLetter) bool {
				return d.OriginalJobID == "job-1" &&
					d.RetryCount == 3 &&
					len(d.Errors) == 3 &&
					d.Errors[2].Message == "connection refused"
			}),
		).Return(nil)

		result, err := service.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.DeadLetter)
		assert.Equal(t, 0, result.Requeued)
	})

	t.Run("nothing due", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		repo.On("ClaimDue", ctx, mock.AnythingOfType("time.Time"), 10).Return(nil, nil)

		result, err := service.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Zero(t, result.Claimed)
	})
}

func TestBackoffSchedule(t *testing.T) {
	// The persisted schedule for consecutive failures of one job must be
	// 1s, 2s, 4s, ... capped at 60s.
	ctx := context.Background()
	wantDelays := []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 32 * time.Second, 60 * time.Second, 60 * time.Second,
	}

	for k, want := range wantDelays {
		repo := mocks.NewRepository(t)
		sender := mocks.NewSender(t)
		service := newService(repo, sender)

		job := webhook.Job{ID: "job-1", URL: "https://target", RetryCount: k, MaxRetries: 100}
		repo.On("ClaimDue", ctx, mock.AnythingOfType("time.Time"), 10).Return([]webhook.Job{job}, nil)
		sender.On("Send", ctx, job).Return(errors.New("boom"))

		before := time.Now().UTC()
		repo.On("Requeue", ctx, webhook.MatchJob(func(j webhook.Job) bool {
			delta := j.NextRetryAt.Sub(before)
			return delta >= want && delta < want+3*time.Second
		})).Return(nil)

		_, err := service.ProcessPending(ctx)
		require.NoError(t, err, "retry %d", k)
	}
}

func TestReplay(t *testing.T) {
	ctx := context.Background()

	t.Run("re-enqueues with fresh budget and keeps the entry", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		entry := webhook.DeadLetter{
			ID:            "dl-1",
			OriginalJobID: "job-old",
			WebhookType:   "bot_lifecycle",
			EventType:     "bot.deployed",
			URL:           "https://hooks.example.com/in",
			Payload:       []byte(`{"type":"bot.deployed"}`),
			RetryCount:    3,
			SigningSecret: "whsec_C2FVsBQIhrscChlQIMV+b5sSYspob7oD",
		}
		repo.On("GetDeadLetter", ctx, "dl-1").Return(entry, nil)
		repo.On("Enqueue", ctx, webhook.MatchJob(func(j webhook.Job) bool {
			return j.URL == entry.URL &&
				string(j.Payload) == string(entry.Payload) &&
				j.RetryCount == 0 &&
				j.MaxRetries == webhook.DefaultMaxRetries &&
				j.Status == webhook.Pending &&
				j.SigningSecret == entry.SigningSecret
		})).Return("job-new", nil)
		repo.On("MarkReplayed", ctx, "dl-1", mock.AnythingOfType("time.Time")).Return(nil)

		id, err := service.Replay(ctx, "dl-1")

		require.NoError(t, err)
		assert.Equal(t, "job-new", id)
	})

	t.Run("unknown dead letter", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := newService(repo, mocks.NewSender(t))

		repo.On("GetDeadLetter", ctx, "missing").Return(webhook.DeadLetter{}, errors.New("dead letter not found"))

		_, err := service.Replay(ctx, "missing")

		require.Error(t, err)
	})
}

func TestSweepStuck(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewRepository(t)
	service := webhook.NewService(repo, mocks.NewSender(t), webhook.Config{LeaseWindow: 5 * time.Minute}, zerolog.Nop())

	repo.On("ReleaseStuck", ctx, mock.MatchedBy(func(deadline time.Time) bool {
		age := time.Since(deadline)
		return age > 4*time.Minute && age < 6*time.Minute
	})).Return(2, nil)

	released, err := service.SweepStuck(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, released)
}
