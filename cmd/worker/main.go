package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/agent/rest"
	"github.com/scribeline/scribeline/config"
	"github.com/scribeline/scribeline/metrics"
	sessionpg "github.com/scribeline/scribeline/session/postgres"
	"github.com/scribeline/scribeline/usage"
	usagepg "github.com/scribeline/scribeline/usage/postgres"
	"github.com/scribeline/scribeline/webhook"
	webhookredis "github.com/scribeline/scribeline/webhook/redis"
)

/* The worker binary runs the background loops: webhook delivery, the
 * stuck-job sweeper and the periodic usage backfill. Each loop renews a
 * heartbeat so the metrics endpoint can report which workers are alive.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "worker").
		Logger()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("connecting to postgres")
		return
	}
	defer pool.Close()

	webhookRepo, err := webhookredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error().Err(err).Msg("connecting to redis")
		return
	}
	defer webhookRepo.Close(ctx)

	webhookService := webhook.NewService(
		webhookRepo,
		webhook.NewHTTPSender(10*time.Second),
		webhook.Config{
			BatchSize:   cfg.WebhookBatchSize,
			LeaseWindow: cfg.WebhookLeaseDuration,
		},
		logger,
	)

	usageService := usage.NewService(
		rest.NewClient(cfg.AgentBaseURL, cfg.AgentAPIKey),
		sessionpg.NewRepository(pool),
		usagepg.NewRepository(pool),
		usage.Config{},
		logger,
	)

	collector := metrics.NewRedisCollector(webhookRepo.GetClient())
	workerID := uuid.NewString()

	var wg sync.WaitGroup

	runLoop(ctx, &wg, "delivery", cfg.WebhookPollInterval, collector, workerID, logger,
		func(ctx context.Context) error {
			result, err := webhookService.ProcessPending(ctx)
			if err != nil {
				return err
			}
			if result.Claimed > 0 {
				logger.Info().
					Int("claimed", result.Claimed).
					Int("delivered", result.Delivered).
					Int("requeued", result.Requeued).
					Int("dead_lettered", result.DeadLetter).
					Msg("delivery pass")
			}
			return nil
		})

	runLoop(ctx, &wg, "sweeper", cfg.WebhookSweepInterval, collector, workerID, logger,
		func(ctx context.Context) error {
			released, err := webhookService.SweepStuck(ctx)
			if err != nil {
				return err
			}
			if released > 0 {
				logger.Warn().Int("released", released).Msg("released stuck jobs")
			}
			return nil
		})

	runLoop(ctx, &wg, "backfill", cfg.BackfillInterval, collector, workerID, logger,
		func(ctx context.Context) error {
			reconciled, err := usageService.BackfillAll(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("reconciled", reconciled).Msg("backfill pass")
			return nil
		})

	logger.Info().Str("worker_id", workerID).Msg("worker started")
	wg.Wait()
	logger.Info().Msg("worker stopped")
}

/* runLoop drives one task on a ticker until the context is canceled.
 * Errors are logged and the loop keeps going: a transient Redis or agent
 * outage must not kill the worker.
 */
func runLoop(
	ctx context.Context,
	wg *sync.WaitGroup,
	task string,
	interval time.Duration,
	collector *metrics.RedisCollector,
	workerID string,
	logger zerolog.Logger,
	fn func(context.Context) error,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		heartbeat := func(status string) {
			err := collector.RecordHeartbeat(ctx, metrics.WorkerInfo{
				WorkerID: fmt.Sprintf("%s:%s", workerID, task),
				Task:     task,
				Status:   status,
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Str("task", task).Msg("writing heartbeat")
			}
		}
		heartbeat("idle")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				heartbeat("processing")
				if err := fn(ctx); err != nil && ctx.Err() == nil {
					logger.Error().Err(err).Str("task", task).Msg("task failed")
				}
				heartbeat("idle")
			}
		}
	}()
}
