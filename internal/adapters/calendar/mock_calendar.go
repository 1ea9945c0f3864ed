package calendar

import (
	"context"
	"fmt"
	"sync"

	"github.com/lawlab/intake-agent/internal/domain"
)

// MockCalendar is an in-process stand-in for Google Calendar, used in
// local mode and in tests. It records every inserted event.
type MockCalendar struct {
	mu     sync.Mutex
	events []domain.CalendarEvent

	// Err, when set, is returned instead of an event id.
	Err error
}

func NewMockCalendar() *MockCalendar {
	return &MockCalendar{}
}

func (m *MockCalendar) Insert(_ context.Context, ev domain.CalendarEvent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}

	m.events = append(m.events, ev)
	return fmt.Sprintf("mock-event-%d", len(m.events)), nil
}

// Events returns every event inserted so far.
func (m *MockCalendar) Events() []domain.CalendarEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}
