package domain

import (
	"context"
	"time"
)

// LLMClient defines how the core application talks to the language
// model service.
type LLMClient interface {
	// GenerateReply sends the full ordered turn history (system turn
	// first) and returns the assistant's reply text.
	GenerateReply(ctx context.Context, turns []Turn) (string, error)
}

// LLMProber is optionally implemented by LLM clients that can cheaply
// verify their credential. The health endpoint reports the result
// without ever failing the check.
type LLMProber interface {
	Probe(ctx context.Context) error
}

// CalendarEvent is what the scheduling gateway hands to the calendar
// service. Start and End already carry the reference timezone.
type CalendarEvent struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
	Timezone      string
}

// CalendarClient defines the booking side of the external service
// boundary. Insert returns the opaque event id minted upstream.
type CalendarClient interface {
	Insert(ctx context.Context, ev CalendarEvent) (string, error)
}

// SessionStore persists ConversationState between stateless requests,
// keyed by an opaque session token. Put has last-writer-wins
// semantics; concurrent turns for one session are not serialized.
type SessionStore interface {
	Get(ctx context.Context, id SessionID) (*ConversationState, error)
	Put(ctx context.Context, id SessionID, state *ConversationState) error
	Delete(ctx context.Context, id SessionID) error
	// DeleteExpired removes sessions not updated since the cutoff and
	// returns how many were dropped.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
