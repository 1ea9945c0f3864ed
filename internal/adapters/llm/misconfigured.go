package llm

import (
	"context"

	"github.com/lawlab/intake-agent/internal/domain"
)

// Misconfigured stands in when the real client could not be built
// (missing API key, bad credential). It surfaces the construction
// error on every call so the chat endpoint degrades instead of the
// whole process refusing to start.
type Misconfigured struct {
	err error
}

func NewMisconfigured(err error) *Misconfigured {
	return &Misconfigured{err: err}
}

func (m *Misconfigured) GenerateReply(context.Context, []domain.Turn) (string, error) {
	return "", m.err
}
