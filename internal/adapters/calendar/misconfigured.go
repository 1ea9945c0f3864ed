package calendar

import (
	"context"

	"github.com/lawlab/intake-agent/internal/domain"
)

// Misconfigured stands in when the real client could not be built.
// Every booking attempt reports the deployment defect; chat-only
// deployments keep running.
type Misconfigured struct {
	err error
}

func NewMisconfigured(err error) *Misconfigured {
	return &Misconfigured{err: err}
}

func (m *Misconfigured) Insert(context.Context, domain.CalendarEvent) (string, error) {
	return "", m.err
}
