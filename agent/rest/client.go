package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scribeline/scribeline/agent"
)

/* REST implementation of agent.Client.
 * Every call carries a bounded timeout: a hung agent API must surface as an
 * error, never block a deployment or a backfill pass indefinitely.
 */

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates an agent API client for the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type botResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	StatusChanges []statusChange `json:"status_changes"`
}

type statusChange struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Deploy joins a new recording agent to the meeting.
func (c *Client) Deploy(ctx context.Context, meetingURL string) (agent.Bot, error) {
	body, err := json.Marshal(map[string]string{"meeting_url": meetingURL})
	if err != nil {
		return agent.Bot{}, fmt.Errorf("marshaling deploy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bots", bytes.NewReader(body))
	if err != nil {
		return agent.Bot{}, fmt.Errorf("creating deploy request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return agent.Bot{}, fmt.Errorf("deploying bot: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return agent.Bot{}, fmt.Errorf("agent API returned status %d", resp.StatusCode)
	}

	var br botResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return agent.Bot{}, fmt.Errorf("decoding deploy response: %w", err)
	}

	return agent.Bot{ID: br.ID, Status: agent.Status(br.Status)}, nil
}

// GetStatus returns the agent's status and its ordered status-change history.
func (c *Client) GetStatus(ctx context.Context, botID string) (agent.Bot, []agent.StatusChange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bots/"+botID, nil)
	if err != nil {
		return agent.Bot{}, nil, fmt.Errorf("creating status request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return agent.Bot{}, nil, fmt.Errorf("getting bot status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return agent.Bot{}, nil, agent.ErrBotNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return agent.Bot{}, nil, fmt.Errorf("agent API returned status %d", resp.StatusCode)
	}

	var br botResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return agent.Bot{}, nil, fmt.Errorf("decoding status response: %w", err)
	}

	changes := make([]agent.StatusChange, 0, len(br.StatusChanges))
	for _, sc := range br.StatusChanges {
		changes = append(changes, agent.StatusChange{
			Code:      agent.Status(sc.Code),
			CreatedAt: sc.CreatedAt,
		})
	}

	return agent.Bot{ID: br.ID, Status: agent.Status(br.Status)}, changes, nil
}

// Stop asks the agent to leave the call. A 404 maps to agent.ErrBotNotFound
// so callers can distinguish drift from real failures.
func (c *Client) Stop(ctx context.Context, botID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bots/"+botID+"/leave", nil)
	if err != nil {
		return fmt.Errorf("creating stop request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("stopping bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return agent.ErrBotNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("agent API returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
