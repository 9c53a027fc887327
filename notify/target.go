package notify

import (
	"fmt"
	"strings"

	"github.com/scribeline/scribeline/webhook/payload"
	"github.com/scribeline/scribeline/webhook/signature"
)

/* Target represents one lifecycle-notification destination
 * Maps a target name to a URL with delivery settings
 */
type Target struct {
	Name          string
	URL           string
	MaxRetries    int
	SigningSecret string   // Standard Webhooks signing secret (whsec_ prefix)
	EventTypes    []string // Event types to deliver (e.g., ["bot.deployed", "bot.*"])
}

// Validate checks if the target configuration is valid
func (t *Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if t.URL == "" {
		return fmt.Errorf("url cannot be empty for target %s", t.Name)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative for target %s", t.Name)
	}
	if t.SigningSecret != "" {
		if !strings.HasPrefix(t.SigningSecret, signature.SecretPrefix) {
			return fmt.Errorf("signing_secret must start with %s for target %s", signature.SecretPrefix, t.Name)
		}
		if _, err := signature.ParseSecret(t.SigningSecret); err != nil {
			return fmt.Errorf("invalid signing_secret for target %s: %w", t.Name, err)
		}
	}
	for _, eventType := range t.EventTypes {
		if err := payload.ValidateEventType(eventType); err != nil {
			return fmt.Errorf("invalid event_type '%s' for target %s: %w", eventType, t.Name, err)
		}
	}
	return nil
}
