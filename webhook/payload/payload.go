package payload

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// eventTypePattern validates event types: hierarchical, full-stop delimited, [a-zA-Z0-9_.]
var eventTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

/*
Envelope is the wire format for outbound lifecycle notifications.

Uses value semantics as it represents data, not behavior.
*/
type Envelope struct {
	// Type is a full-stop delimited type associated with the event
	// Examples: "bot.deployed", "bot.status_change", "usage.reconciled"
	Type string `json:"type"`

	// Timestamp is the ISO 8601 formatted timestamp of when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// Data is the actual event data associated with the event
	Data json.RawMessage `json:"data"`
}

// Validate checks the envelope structure before it is enqueued for delivery
func (p Envelope) Validate() error {
	if p.Type == "" {
		return fmt.Errorf("type is required")
	}

	if !eventTypePattern.MatchString(p.Type) {
		return fmt.Errorf("type must be hierarchical and contain only [a-zA-Z0-9_.]: %s", p.Type)
	}

	if p.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}

	if len(p.Data) == 0 {
		return fmt.Errorf("data is required")
	}

	if !json.Valid(p.Data) {
		return fmt.Errorf("data must be valid JSON")
	}

	return nil
}

// MarshalJSON returns the JSON encoding of the envelope
func (p Envelope) MarshalJSON() ([]byte, error) {
	type Alias Envelope
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: p.Timestamp.Format(time.RFC3339Nano),
		Alias:     (*Alias)(&p),
	})
}

// UnmarshalJSON parses the JSON-encoded data and stores the result
func (p *Envelope) UnmarshalJSON(data []byte) error {
	type Alias Envelope
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("unmarshaling envelope: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		// Try RFC3339 without nano precision
		timestamp, err = time.Parse(time.RFC3339, aux.Timestamp)
		if err != nil {
			return fmt.Errorf("parsing timestamp: %w", err)
		}
	}
	p.Timestamp = timestamp

	return nil
}

// New creates a new Envelope with the given type and data
func New(eventType string, data interface{}) (Envelope, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling data: %w", err)
	}

	envelope := Envelope{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
	}

	if err := envelope.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}

	return envelope, nil
}

// Parse parses a JSON payload into an Envelope
func Parse(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("unmarshaling envelope: %w", err)
	}

	if err := envelope.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}

	return envelope, nil
}

// Bytes returns the JSON-encoded envelope as bytes
// The returned bytes are minified (no extra whitespace)
func (p Envelope) Bytes() ([]byte, error) {
	return json.Marshal(p)
}

// MatchesEventType checks if the envelope's type matches any of the given event types
// Supports exact matching and prefix matching (e.g., "bot.*" matches "bot.deployed")
func (p Envelope) MatchesEventType(eventTypes []string) bool {
	if len(eventTypes) == 0 {
		// No filter means accept all
		return true
	}

	for _, eventType := range eventTypes {
		if p.Type == eventType {
			return true
		}

		// Prefix match (e.g., "bot.*" matches "bot.deployed", "bot.status_change")
		if len(eventType) > 2 && eventType[len(eventType)-2:] == ".*" {
			prefix := eventType[:len(eventType)-2]
			if len(p.Type) > len(prefix) && p.Type[:len(prefix)] == prefix && p.Type[len(prefix)] == '.' {
				return true
			}
		}
	}

	return false
}

// ValidateEventType validates an event type format
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}

	// Allow wildcard suffix for filtering
	if len(eventType) > 2 && eventType[len(eventType)-2:] == ".*" {
		eventType = eventType[:len(eventType)-2]
	}

	if !eventTypePattern.MatchString(eventType) {
		return fmt.Errorf("event type must be hierarchical and contain only [a-zA-Z0-9_.]: %s", eventType)
	}

	return nil
}
