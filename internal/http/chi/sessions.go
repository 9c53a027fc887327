package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/scribeline/scribeline/recorder"
)

/* HTTP layer DTOs for the deployment API
 * Separate from domain entities to avoid leaking internal structure
 */

// deployRequest represents the deploy-bot request body
type deployRequest struct {
	MeetingURL  string `json:"meeting_url"`
	MaxAttempts int    `json:"max_attempts"`
}

// botResponse represents a deployed bot in the API
type botResponse struct {
	SessionID string `json:"session_id"`
	BotID     string `json:"bot_id"`
	Status    string `json:"status"`
}

// quotaErrorResponse carries the numbers the frontend needs for an
// upgrade prompt
type quotaErrorResponse struct {
	Error            string `json:"error"`
	MinutesUsed      int    `json:"minutes_used"`
	MinutesLimit     int    `json:"minutes_limit"`
	MinutesRemaining int    `json:"minutes_remaining"`
}

// deployBot handles POST /v1/sessions/{id}/bot
func deployBot(recorderService recorder.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		var req deployRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		bot, err := recorderService.DeployBot(r.Context(), sessionID, req.MeetingURL, req.MaxAttempts)
		if err != nil {
			writeDeployError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(botResponse{
			SessionID: sessionID,
			BotID:     bot.ID,
			Status:    string(bot.Status),
		})
	})
}

// stopBot handles DELETE /v1/sessions/{id}/bot
func stopBot(recorderService recorder.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		if err := recorderService.StopBot(r.Context(), sessionID); err != nil {
			if errors.Is(err, recorder.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	})
}

func writeDeployError(w http.ResponseWriter, err error) {
	var qerr *recorder.QuotaExceededError
	switch {
	case errors.As(err, &qerr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(quotaErrorResponse{
			Error:            "quota exceeded",
			MinutesUsed:      qerr.Quota.MinutesUsed,
			MinutesLimit:     qerr.Quota.MinutesLimit,
			MinutesRemaining: qerr.Quota.MinutesRemaining,
		})
	case errors.Is(err, recorder.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, recorder.ErrDeploymentFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
