package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/scribeline/scribeline/usage"
	"github.com/scribeline/scribeline/webhook"
)

// deliveryErrorResponse is one failed delivery attempt in the API
type deliveryErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// deadLetterResponse represents a dead-letter entry in the API
type deadLetterResponse struct {
	ID            string                  `json:"id"`
	OriginalJobID string                  `json:"original_job_id"`
	WebhookType   string                  `json:"webhook_type"`
	EventType     string                  `json:"event_type"`
	URL           string                  `json:"url"`
	RetryCount    int                     `json:"retry_count"`
	Errors        []deliveryErrorResponse `json:"errors"`
	CreatedAt     time.Time               `json:"created_at"`
	ReplayedAt    *time.Time              `json:"replayed_at,omitempty"`
}

// replayResponse represents the result of replaying a dead letter
type replayResponse struct {
	JobID string `json:"job_id"`
}

// usageRecordResponse represents a reconciled usage record in the API
type usageRecordResponse struct {
	BotID           string     `json:"bot_id"`
	SessionID       string     `json:"session_id"`
	RecordingStart  *time.Time `json:"recording_started_at,omitempty"`
	RecordingEnd    *time.Time `json:"recording_ended_at,omitempty"`
	TotalSeconds    int64      `json:"total_recording_seconds"`
	BillableMinutes int        `json:"billable_minutes"`
	Status          string     `json:"status"`
}

// getDeadLetters handles GET /v1/deadletters
func getDeadLetters(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		entries, err := webhookService.ListDeadLetters(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		responses := make([]deadLetterResponse, 0, len(entries))
		for _, entry := range entries {
			errs := make([]deliveryErrorResponse, 0, len(entry.Errors))
			for _, e := range entry.Errors {
				errs = append(errs, deliveryErrorResponse{Timestamp: e.Timestamp, Message: e.Message})
			}
			responses = append(responses, deadLetterResponse{
				ID:            entry.ID,
				OriginalJobID: entry.OriginalJobID,
				WebhookType:   entry.WebhookType,
				EventType:     entry.EventType,
				URL:           entry.URL,
				RetryCount:    entry.RetryCount,
				Errors:        errs,
				CreatedAt:     entry.CreatedAt,
				ReplayedAt:    entry.ReplayedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responses); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// replayDeadLetter handles POST /v1/deadletters/{id}/replay
func replayDeadLetter(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		jobID, err := webhookService.Replay(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(replayResponse{JobID: jobID})
	})
}

// reconcileBot handles POST /v1/admin/bots/{bot_id}/reconcile
func reconcileBot(usageService usage.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		botID := chi.URLParam(r, "bot_id")
		if botID == "" {
			http.Error(w, "bot_id is required", http.StatusBadRequest)
			return
		}

		rec, err := usageService.Reconcile(r.Context(), botID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(usageRecordResponse{
			BotID:           rec.BotID,
			SessionID:       rec.SessionID,
			RecordingStart:  rec.RecordingStart,
			RecordingEnd:    rec.RecordingEnd,
			TotalSeconds:    rec.TotalSeconds,
			BillableMinutes: rec.BillableMinutes,
			Status:          string(rec.Status),
		})
	})
}

// backfillAll handles POST /v1/admin/backfill
func backfillAll(usageService usage.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reconciled, err := usageService.BackfillAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]int{"reconciled": reconciled})
	})
}
