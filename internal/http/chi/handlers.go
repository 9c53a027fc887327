package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/scribeline/scribeline/recorder"
	"github.com/scribeline/scribeline/usage"
	"github.com/scribeline/scribeline/webhook"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Recorder recorder.UseCase
	Usage    usage.UseCase
	Webhooks webhook.UseCase
	// AgentSecret verifies inbound agent lifecycle events. Empty disables
	// verification (local development only).
	AgentSecret string
	// Metrics serves the Prometheus scrape endpoint when set.
	Metrics http.Handler
}

func Handlers(ctx context.Context, svcs Services) *chi.Mux {
	// Logger
	logger := httplog.NewLogger("scribeline", httplog.Options{
		JSON: true,
	})
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if svcs.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svcs.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/sessions/{id}/bot", deployBot(svcs.Recorder))
		r.Method(http.MethodDelete, "/sessions/{id}/bot", stopBot(svcs.Recorder))

		// Inbound agent lifecycle events, signature-verified.
		r.Method(http.MethodPost, "/agent/events", postAgentEvent(svcs.Usage, svcs.AgentSecret))

		r.Method(http.MethodGet, "/deadletters", getDeadLetters(svcs.Webhooks))
		r.Method(http.MethodPost, "/deadletters/{id}/replay", replayDeadLetter(svcs.Webhooks))

		// Ops tooling: on-demand reconciliation.
		r.Method(http.MethodPost, "/admin/bots/{bot_id}/reconcile", reconcileBot(svcs.Usage))
		r.Method(http.MethodPost, "/admin/backfill", backfillAll(svcs.Usage))
	})

	return r
}
