package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lawlab/intake-agent/internal/domain"
)

// SessionStore is a simple in-memory implementation of
// domain.SessionStore. It is NOT persistent and is only suitable for
// development / local mode.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.ConversationState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.ConversationState),
	}
}

func (s *SessionStore) Get(_ context.Context, id domain.SessionID) (*domain.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy so callers never mutate the stored record in place.
	out := *state
	out.Turns = make([]domain.Turn, len(state.Turns))
	copy(out.Turns, state.Turns)
	return &out, nil
}

func (s *SessionStore) Put(_ context.Context, id domain.SessionID, state *domain.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *state
	stored.Turns = make([]domain.Turn, len(state.Turns))
	copy(stored.Turns, state.Turns)
	s.sessions[id] = &stored
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, state := range s.sessions {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
