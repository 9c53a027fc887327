package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/scribeline/scribeline/webhook/signature"
)

// Sender delivers a job's payload to its target URL. A nil error means the
// target acknowledged the delivery with a 2xx response.
type Sender interface {
	Send(ctx context.Context, job Job) error
}

/* HTTPSender posts the payload with retry metadata headers so delivery
 * targets can observe redelivery without parsing the body. A timeout is
 * treated exactly like a non-2xx response: the caller retries with backoff.
 */
type HTTPSender struct {
	client *http.Client
}

const defaultSendTimeout = 10 * time.Second

// NewHTTPSender creates a sender with the given per-attempt timeout.
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &HTTPSender{
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers the job payload via HTTP POST.
func (s *HTTPSender) Send(ctx context.Context, job Job) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.URL, bytes.NewReader(job.Payload))
	if err != nil {
		return fmt.Errorf("creating delivery request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-ID", job.ID)
	req.Header.Set("X-Webhook-Type", job.WebhookType)
	req.Header.Set("X-Event-Type", job.EventType)
	req.Header.Set("X-Retry-Count", strconv.Itoa(job.RetryCount))

	if job.SigningSecret != "" {
		if err := signRequest(req, job); err != nil {
			return fmt.Errorf("signing delivery: %w", err)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("target returned status %d", resp.StatusCode)
	}

	return nil
}

// signRequest signs each attempt fresh: the timestamp is part of the signed
// content, so targets can reject stale deliveries.
func signRequest(req *http.Request, job Job) error {
	secret, err := signature.ParseSecret(job.SigningSecret)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	sig, err := signature.Sign(secret, job.ID, now, job.Payload)
	if err != nil {
		return err
	}

	req.Header.Set("Webhook-Id", job.ID)
	req.Header.Set("Webhook-Timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("Webhook-Signature", sig.String())
	return nil
}
