package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/webhook"
	"github.com/scribeline/scribeline/webhook/payload"
)

// WebhookType identifies jobs produced by the lifecycle publisher.
const WebhookType = "bot_lifecycle"

/* Publisher fans lifecycle events out to every configured target through
 * the webhook delivery queue. Publishing is fire-and-forget from the
 * caller's perspective: once the jobs are enqueued, retries and
 * dead-lettering are the queue's problem.
 */
type Publisher struct {
	Targets *Loader
	Queue   webhook.UseCase

	log zerolog.Logger
}

// NewPublisher creates a lifecycle event publisher with dependency injection
func NewPublisher(targets *Loader, queue webhook.UseCase, log zerolog.Logger) *Publisher {
	return &Publisher{
		Targets: targets,
		Queue:   queue,
		log:     log,
	}
}

/* Publish wraps the event in a signed envelope and enqueues one delivery
 * job per target whose event-type filter matches. A target that fails to
 * enqueue does not block the others; the first error is returned after the
 * fan-out completes.
 */
func (p *Publisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	envelope, err := payload.New(eventType, data)
	if err != nil {
		return fmt.Errorf("building event envelope: %w", err)
	}

	body, err := envelope.Bytes()
	if err != nil {
		return fmt.Errorf("encoding event envelope: %w", err)
	}

	var firstErr error
	for _, target := range p.Targets.List() {
		if !envelope.MatchesEventType(target.EventTypes) {
			continue
		}

		id, err := p.Queue.Enqueue(ctx, target.URL, body, WebhookType, eventType, webhook.Options{
			MaxRetries:    target.MaxRetries,
			SigningSecret: target.SigningSecret,
		})
		if err != nil {
			p.log.Error().
				Err(err).
				Str("target", target.Name).
				Str("event_type", eventType).
				Msg("enqueueing lifecycle notification failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("enqueueing for target %s: %w", target.Name, err)
			}
			continue
		}

		p.log.Debug().
			Str("target", target.Name).
			Str("event_type", eventType).
			Str("job_id", id).
			Msg("lifecycle notification enqueued")
	}

	return firstErr
}
