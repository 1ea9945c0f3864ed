package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/lawlab/intake-agent/internal/domain"
)

// MockLLM is an in-process stand-in for the language model, used in
// local mode and in tests. It records every turn slice it receives.
type MockLLM struct {
	mu    sync.Mutex
	calls [][]domain.Turn

	// Reply, when set, overrides the canned response.
	Reply string
	// Err, when set, is returned instead of a reply.
	Err error
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(_ context.Context, turns []domain.Turn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.Turn, len(turns))
	copy(snapshot, turns)
	m.calls = append(m.calls, snapshot)

	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}

	last := turns[len(turns)-1]
	return fmt.Sprintf("Entiendo, me decías %q. ¿Querés contarme algo más o agendar una consulta?", last.Text), nil
}

// Calls returns every turn slice received so far.
func (m *MockLLM) Calls() [][]domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
