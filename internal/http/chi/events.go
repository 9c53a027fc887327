package chi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/scribeline/scribeline/agent"
	"github.com/scribeline/scribeline/usage"
	"github.com/scribeline/scribeline/webhook/payload"
	"github.com/scribeline/scribeline/webhook/signature"
)

// agentEvent is the data section of an inbound lifecycle envelope
type agentEvent struct {
	BotID  string `json:"bot_id"`
	Status string `json:"status"`
}

// postAgentEvent handles POST /v1/agent/events
func postAgentEvent(usageService usage.UseCase, secret string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if secret != "" {
			if !verifyEvent(r, secret, body) {
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}
		}

		envelope, err := payload.Parse(body)
		if err != nil {
			http.Error(w, "invalid payload format: expected type, timestamp and data", http.StatusBadRequest)
			return
		}

		var event agentEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil || event.BotID == "" || event.Status == "" {
			http.Error(w, "event data must carry bot_id and status", http.StatusBadRequest)
			return
		}

		if err := usageService.HandleAgentEvent(r.Context(), event.BotID, agent.Status(event.Status)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	})
}

/* verifyEvent checks the Standard Webhooks signature headers against the
 * shared agent secret. The timestamp must be recent: a replayed delivery
 * with a stale timestamp is rejected even when the signature matches.
 */
func verifyEvent(r *http.Request, rawSecret string, body []byte) bool {
	secret, err := signature.ParseSecret(rawSecret)
	if err != nil {
		return false
	}

	msgID := r.Header.Get("Webhook-Id")
	tsHeader := r.Header.Get("Webhook-Timestamp")
	sigHeader := r.Header.Get("Webhook-Signature")
	if msgID == "" || tsHeader == "" || sigHeader == "" {
		return false
	}

	unix, err := strconv.ParseInt(tsHeader, 10, 64)
	if err != nil {
		return false
	}
	ts := time.Unix(unix, 0)
	if d := time.Since(ts); d > 5*time.Minute || d < -5*time.Minute {
		return false
	}

	sigs, err := signature.ParseSignatureHeader(sigHeader)
	if err != nil {
		return false
	}

	valid, err := signature.VerifyMultiple([]signature.Secret{secret}, msgID, ts, body, sigs)
	return err == nil && valid
}
