package chi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/scribeline/scribeline/agent"
	chihandlers "github.com/scribeline/scribeline/internal/http/chi"
	"github.com/scribeline/scribeline/quota"
	"github.com/scribeline/scribeline/recorder"
	recordermocks "github.com/scribeline/scribeline/recorder/mocks"
	"github.com/scribeline/scribeline/usage"
	usagemocks "github.com/scribeline/scribeline/usage/mocks"
	"github.com/scribeline/scribeline/webhook"
	webhookmocks "github.com/scribeline/scribeline/webhook/mocks"
	"github.com/scribeline/scribeline/webhook/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerMocks struct {
	recorder *recordermocks.UseCase
	usage    *usagemocks.UseCase
	webhooks *webhookmocks.UseCase
}

func newHandlers(t *testing.T, agentSecret string) (http.Handler, handlerMocks) {
	m := handlerMocks{
		recorder: recordermocks.NewUseCase(t),
		usage:    usagemocks.NewUseCase(t),
		webhooks: webhookmocks.NewUseCase(t),
	}
	h := chihandlers.Handlers(context.Background(), chihandlers.Services{
		Recorder:    m.recorder,
		Usage:       m.usage,
		Webhooks:    m.webhooks,
		AgentSecret: agentSecret,
	})
	return h, m
}

func TestDeployBotHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("DeployBot", mock.Anything, "sess-1", "https://meet.example.com/abc", 3).
			Return(agent.Bot{ID: "bot-1", Status: agent.StatusJoiningCall}, nil)

		body := `{"meeting_url":"https://meet.example.com/abc","max_attempts":3}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/bot", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "bot-1", resp["bot_id"])
		assert.Equal(t, "joining_call", resp["status"])
	})

	t.Run("quota exceeded returns 402 with details", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("DeployBot", mock.Anything, "sess-1", mock.Anything, mock.Anything).
			Return(agent.Bot{}, &recorder.QuotaExceededError{Quota: quota.Result{
				MinutesUsed:  600,
				MinutesLimit: 600,
			}})

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/bot",
			strings.NewReader(`{"meeting_url":"https://meet.example.com/abc"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusPaymentRequired, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(600), resp["minutes_used"])
		assert.Equal(t, float64(600), resp["minutes_limit"])
		assert.Equal(t, float64(0), resp["minutes_remaining"])
	})

	t.Run("validation error returns 400", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("DeployBot", mock.Anything, "sess-1", mock.Anything, mock.Anything).
			Return(agent.Bot{}, fmt.Errorf("%w: malformed meeting url", recorder.ErrValidation))

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/bot",
			strings.NewReader(`{"meeting_url":"nope"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exhausted deployment returns 502", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("DeployBot", mock.Anything, "sess-1", mock.Anything, mock.Anything).
			Return(agent.Bot{}, fmt.Errorf("%w after 3 attempts", recorder.ErrDeploymentFailed))

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/bot",
			strings.NewReader(`{"meeting_url":"https://meet.example.com/abc"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h, _ := newHandlers(t, "")

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/bot", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStopBotHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("StopBot", mock.Anything, "sess-1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-1/bot", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("no bot attached returns 400", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.recorder.On("StopBot", mock.Anything, "sess-1").
			Return(fmt.Errorf("%w: session sess-1 has no bot", recorder.ErrValidation))

		req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-1/bot", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func agentEventBody(t *testing.T, botID, status string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"type":      "bot.status_change",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"data":      map[string]string{"bot_id": botID, "status": status},
	})
	require.NoError(t, err)
	return body
}

func signEventRequest(t *testing.T, req *http.Request, rawSecret string, body []byte) {
	t.Helper()

	secret, err := signature.ParseSecret(rawSecret)
	require.NoError(t, err)

	now := time.Now().UTC()
	sig, err := signature.Sign(secret, "msg-1", now, body)
	require.NoError(t, err)

	req.Header.Set("Webhook-Id", "msg-1")
	req.Header.Set("Webhook-Timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("Webhook-Signature", sig.String())
}

func TestAgentEventHandler(t *testing.T) {
	const secret = "whsec_C2FVsBQIhrscChlQIMV+b5sSYspob7oD"

	t.Run("signed event is accepted", func(t *testing.T) {
		h, m := newHandlers(t, secret)

		m.usage.On("HandleAgentEvent", mock.Anything, "bot-1", agent.StatusCallEnded).Return(nil)

		body := agentEventBody(t, "bot-1", "call_ended")
		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))
		signEventRequest(t, req, secret, body)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("unsigned event is rejected", func(t *testing.T) {
		h, m := newHandlers(t, secret)

		body := agentEventBody(t, "bot-1", "call_ended")
		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		m.usage.AssertNotCalled(t, "HandleAgentEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		h, m := newHandlers(t, secret)

		body := agentEventBody(t, "bot-1", "call_ended")
		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))
		signEventRequest(t, req, secret, agentEventBody(t, "bot-2", "call_ended"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		m.usage.AssertNotCalled(t, "HandleAgentEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		h, _ := newHandlers(t, secret)

		body := agentEventBody(t, "bot-1", "call_ended")
		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))

		parsed, err := signature.ParseSecret(secret)
		require.NoError(t, err)
		old := time.Now().UTC().Add(-time.Hour)
		sig, err := signature.Sign(parsed, "msg-1", old, body)
		require.NoError(t, err)
		req.Header.Set("Webhook-Id", "msg-1")
		req.Header.Set("Webhook-Timestamp", strconv.FormatInt(old.Unix(), 10))
		req.Header.Set("Webhook-Signature", sig.String())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verification disabled accepts unsigned events", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.usage.On("HandleAgentEvent", mock.Anything, "bot-1", agent.StatusInCallRecording).Return(nil)

		body := agentEventBody(t, "bot-1", "in_call_recording")
		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("missing bot_id is rejected", func(t *testing.T) {
		h, _ := newHandlers(t, "")

		body, err := json.Marshal(map[string]interface{}{
			"type":      "bot.status_change",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"data":      map[string]string{"status": "done"},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-envelope body is rejected", func(t *testing.T) {
		h, _ := newHandlers(t, "")

		req := httptest.NewRequest(http.MethodPost, "/v1/agent/events",
			strings.NewReader(`{"bot_id":"bot-1"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeadLetterHandlers(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h, m := newHandlers(t, "")

		created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		m.webhooks.On("ListDeadLetters", mock.Anything, 50).Return([]webhook.DeadLetter{
			{
				ID:            "dlq-1",
				OriginalJobID: "job-1",
				WebhookType:   "bot_lifecycle",
				EventType:     "bot.deployed",
				URL:           "https://ops.internal/hooks",
				RetryCount:    3,
				Errors: []webhook.DeliveryError{
					{Timestamp: created, Message: "target returned status 503"},
				},
				CreatedAt: created,
			},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/deadletters", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "dlq-1", resp[0]["id"])
		assert.Equal(t, float64(3), resp[0]["retry_count"])
	})

	t.Run("list with custom limit", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.webhooks.On("ListDeadLetters", mock.Anything, 5).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/deadletters?limit=5", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("list with bad limit", func(t *testing.T) {
		h, _ := newHandlers(t, "")

		req := httptest.NewRequest(http.MethodGet, "/v1/deadletters?limit=zero", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("replay", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.webhooks.On("Replay", mock.Anything, "dlq-1").Return("job-2", nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/deadletters/dlq-1/replay", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "job-2", resp["job_id"])
	})

	t.Run("replay unknown entry", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.webhooks.On("Replay", mock.Anything, "missing").
			Return("", fmt.Errorf("dead letter not found: missing"))

		req := httptest.NewRequest(http.MethodPost, "/v1/deadletters/missing/replay", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminHandlers(t *testing.T) {
	t.Run("reconcile", func(t *testing.T) {
		h, m := newHandlers(t, "")

		start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		end := start.Add(125 * time.Second)
		m.usage.On("Reconcile", mock.Anything, "bot-1").Return(usage.Record{
			BotID:           "bot-1",
			SessionID:       "sess-1",
			RecordingStart:  &start,
			RecordingEnd:    &end,
			TotalSeconds:    125,
			BillableMinutes: 3,
			Status:          usage.RecordCompleted,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/admin/bots/bot-1/reconcile", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(3), resp["billable_minutes"])
		assert.Equal(t, "completed", resp["status"])
	})

	t.Run("backfill", func(t *testing.T) {
		h, m := newHandlers(t, "")

		m.usage.On("BackfillAll", mock.Anything).Return(7, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/admin/backfill", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp["reconciled"])
	})
}

func TestHealthHandler(t *testing.T) {
	h, _ := newHandlers(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
