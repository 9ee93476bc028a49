package types

import (
	"encoding/json"
	"errors"
	"time"
)

// EventType identifies a domain event published for downstream consumers.
type EventType string

const (
	EventTypeSubmissionCreated EventType = "submission.created"
)

// Event is the envelope published on the event bus.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// Validate checks the envelope fields required for publishing.
func (e Event) Validate() error {
	if e.Type == "" {
		return errors.New("event type is required")
	}
	if len(e.Payload) == 0 {
		return errors.New("event payload is required")
	}
	return nil
}
