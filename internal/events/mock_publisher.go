package events

import (
	"context"
	"sync"

	"github.com/NomadCrew/contact-intake/types"
)

// MockPublisher records published events in memory. Err, when set, is
// returned from every Publish call.
type MockPublisher struct {
	mu     sync.Mutex
	events []types.Event
	Err    error
}

var _ Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, event types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockPublisher) Events() []types.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Event, len(m.events))
	copy(out, m.events)
	return out
}
