package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scribeline/scribeline/agent/rest"
	"github.com/scribeline/scribeline/config"
	"github.com/scribeline/scribeline/internal/http/chi"
	"github.com/scribeline/scribeline/metrics"
	"github.com/scribeline/scribeline/notify"
	"github.com/scribeline/scribeline/quota/ledger"
	"github.com/scribeline/scribeline/recorder"
	sessionpg "github.com/scribeline/scribeline/session/postgres"
	"github.com/scribeline/scribeline/usage"
	usagepg "github.com/scribeline/scribeline/usage/postgres"
	"github.com/scribeline/scribeline/webhook"
	webhookredis "github.com/scribeline/scribeline/webhook/redis"
)

const TIMEOUT = 30 * time.Second

/* The API binary wires the whole graph: Postgres for sessions and usage,
 * Redis for the webhook queue, the agent REST client, and the HTTP layer
 * on top. Imports flow one direction only: main imports business packages,
 * business packages import storage.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "api").
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

	sessionRepo := sessionpg.NewRepository(pool)
	usageRepo := usagepg.NewRepository(pool)
	agentClient := rest.NewClient(cfg.AgentBaseURL, cfg.AgentAPIKey)

	webhookService := webhook.NewService(
		webhookRepo,
		webhook.NewHTTPSender(10*time.Second),
		webhook.Config{
			BatchSize:   cfg.WebhookBatchSize,
			LeaseWindow: cfg.WebhookLeaseDuration,
		},
		logger,
	)

	targets := notify.NewLoader()
	if err := targets.Load(cfg.TargetsFile); err != nil {
		logger.Error().Err(err).Str("file", cfg.TargetsFile).Msg("loading notification targets")
		return
	}
	publisher := notify.NewPublisher(targets, webhookService, logger)

	usageService := usage.NewService(agentClient, sessionRepo, usageRepo, usage.Config{}, logger)
	quotaChecker := ledger.NewChecker(usageRepo, cfg.QuotaMonthlyMinutes)
	recorderService := recorder.NewService(sessionRepo, agentClient, quotaChecker, publisher, logger)

	collector := metrics.NewRedisCollector(webhookRepo.GetClient())
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		logger.Error().Err(err).Msg("setting up metrics exporter")
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, chi.Services{
		Recorder:    recorderService,
		Usage:       usageService,
		Webhooks:    webhookService,
		AgentSecret: cfg.AgentInboundSecret,
		Metrics:     exporter.ServeHTTP(),
	})
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server stopped")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutdown")
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server")
	}
}
