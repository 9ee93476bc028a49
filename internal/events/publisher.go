// Package events publishes submission lifecycle events for downstream
// consumers such as CRM sync jobs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NomadCrew/contact-intake/types"
	"github.com/google/uuid"
)

// SourceIntake identifies events emitted by the intake endpoint.
const SourceIntake = "contact-intake"

// Publisher delivers events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, event types.Event) error
}

// NewSubmissionCreated builds the event announcing a stored submission.
func NewSubmissionCreated(sub *types.Submission) (types.Event, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return types.Event{}, fmt.Errorf("marshal submission payload: %w", err)
	}
	return types.Event{
		ID:        uuid.NewString(),
		Type:      types.EventTypeSubmissionCreated,
		Timestamp: time.Now().UTC(),
		Source:    SourceIntake,
		Payload:   payload,
	}, nil
}

// DecodeSubmission extracts the submission carried by a submission.created event.
func DecodeSubmission(event types.Event) (*types.Submission, error) {
	if event.Type != types.EventTypeSubmissionCreated {
		return nil, fmt.Errorf("unexpected event type %q", event.Type)
	}
	var sub types.Submission
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return nil, fmt.Errorf("decode submission payload: %w", err)
	}
	return &sub, nil
}
