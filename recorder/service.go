package recorder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/agent"
	"github.com/scribeline/scribeline/internal/backoff"
	"github.com/scribeline/scribeline/quota"
	"github.com/scribeline/scribeline/session"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// DefaultMaxAttempts is the deploy retry budget when the caller does not
// set one.
const DefaultMaxAttempts = 3

// UseCase defines the business operations for bot deployment
type UseCase interface {
	DeployBot(ctx context.Context, sessionID, meetingURL string, maxAttempts int) (agent.Bot, error)
	StopBot(ctx context.Context, sessionID string) error
}

// Notifier publishes lifecycle events. Satisfied by notify.Publisher.
type Notifier interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

type Service struct {
	Sessions session.Repository
	Agents   agent.Client
	Quota    quota.Checker
	Notifier Notifier

	policy backoff.Policy
	sleep  func(ctx context.Context, d time.Duration) error
	log    zerolog.Logger
}

// NewService creates a new bot deployment service with dependency injection
func NewService(sessions session.Repository, agents agent.Client, q quota.Checker, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		Sessions: sessions,
		Agents:   agents,
		Quota:    q,
		Notifier: notifier,
		policy:   backoff.Default,
		sleep:    sleepTimer,
		log:      log,
	}
}

/* DeployBot joins a fresh recording agent to the session's meeting.
 *
 * The quota gate runs before any agent API call: a denied account causes
 * no external side effects. A stale bot reference is cleaned up first,
 * best-effort: a non-terminal previous agent is asked to stop (agent-side
 * "not found" is swallowed, state drifts), and the local reference is
 * always cleared before a new one is written so the session never points
 * at two agent generations at once.
 *
 * Transient deploy failures are retried up to maxAttempts with the same
 * backoff schedule the webhook queue uses. Exhaustion surfaces as
 * ErrDeploymentFailed with the session left bot-less.
 */
func (s *Service) DeployBot(ctx context.Context, sessionID, meetingURL string, maxAttempts int) (agent.Bot, error) {
	if sessionID == "" {
		return agent.Bot{}, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	if err := validateMeetingURL(meetingURL); err != nil {
		return agent.Bot{}, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	sess, err := s.Sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return agent.Bot{}, fmt.Errorf("%w: unknown session %s", ErrValidation, sessionID)
	}
	if err != nil {
		return agent.Bot{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	res, err := s.Quota.CanRecord(ctx, sess.UserID, sess.OrganizationID)
	if err != nil {
		return agent.Bot{}, fmt.Errorf("checking quota: %w", err)
	}
	if !res.Allowed {
		return agent.Bot{}, &QuotaExceededError{Quota: res}
	}

	if sess.HasBot() {
		s.cleanupStaleBot(ctx, sess)
	}

	bot, err := s.deployWithRetry(ctx, meetingURL, maxAttempts)
	if err != nil {
		return agent.Bot{}, err
	}

	if err := s.Sessions.AttachBot(ctx, sess.ID, bot.ID, bot.Status, time.Now().UTC()); err != nil {
		return agent.Bot{}, fmt.Errorf("attaching bot %s to session %s: %w", bot.ID, sess.ID, err)
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Str("bot_id", bot.ID).
		Str("status", string(bot.Status)).
		Msg("bot deployed")

	// Fire-and-forget: the notification is not on the deployment critical
	// path.
	if err := s.Notifier.Publish(ctx, "bot.deployed", map[string]string{
		"session_id": sess.ID,
		"bot_id":     bot.ID,
		"status":     string(bot.Status),
	}); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Msg("publishing bot.deployed failed")
	}

	return bot, nil
}

/* StopBot asks the session's agent to leave the call, best-effort. The bot
 * reference stays on the session: the leave triggers end-of-call lifecycle
 * events, and the reconciliation engine needs the reference to attribute
 * the resulting usage.
 */
func (s *Service) StopBot(ctx context.Context, sessionID string) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("%w: unknown session %s", ErrValidation, sessionID)
	}
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if !sess.HasBot() {
		return fmt.Errorf("%w: session %s has no bot", ErrValidation, sessionID)
	}

	err = s.Agents.Stop(ctx, sess.BotID)
	if errors.Is(err, agent.ErrBotNotFound) {
		s.log.Warn().Str("bot_id", sess.BotID).Msg("stop requested for unknown bot")
		return nil
	}
	if err != nil {
		return fmt.Errorf("stopping bot %s: %w", sess.BotID, err)
	}

	s.log.Info().Str("session_id", sess.ID).Str("bot_id", sess.BotID).Msg("bot stop requested")
	return nil
}

// cleanupStaleBot stops a previous non-terminal agent and clears the local
// reference. Best-effort: errors are logged, never propagated.
func (s *Service) cleanupStaleBot(ctx context.Context, sess session.Session) {
	bot, _, err := s.Agents.GetStatus(ctx, sess.BotID)
	switch {
	case errors.Is(err, agent.ErrBotNotFound):
		// Agent already forgot it; nothing to stop.
	case err != nil:
		s.log.Warn().Err(err).Str("bot_id", sess.BotID).Msg("stale bot status check failed")
	case !bot.Status.IsTerminal():
		if err := s.Agents.Stop(ctx, sess.BotID); err != nil && !errors.Is(err, agent.ErrBotNotFound) {
			s.log.Warn().Err(err).Str("bot_id", sess.BotID).Msg("stopping stale bot failed")
		}
	}

	if err := s.Sessions.ClearBot(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("clearing stale bot reference failed")
	}
}

func (s *Service) deployWithRetry(ctx context.Context, meetingURL string, maxAttempts int) (agent.Bot, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.policy.Delay(attempt-1)); err != nil {
				return agent.Bot{}, err
			}
		}

		bot, err := s.Agents.Deploy(ctx, meetingURL)
		if err == nil {
			return bot, nil
		}

		lastErr = err
		s.log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", maxAttempts).
			Msg("bot deployment attempt failed")
	}

	return agent.Bot{}, fmt.Errorf("%w after %d attempts: %v", ErrDeploymentFailed, maxAttempts, lastErr)
}

func validateMeetingURL(meetingURL string) error {
	if meetingURL == "" {
		return fmt.Errorf("%w: meeting url is required", ErrValidation)
	}
	u, err := url.Parse(meetingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: malformed meeting url %q", ErrValidation, meetingURL)
	}
	return nil
}

func sleepTimer(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
