package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lawlab/intake-agent/internal/domain"
	"github.com/lawlab/intake-agent/internal/observability"
)

// PlaceholderReply is returned for empty messages without contacting
// the language model.
const PlaceholderReply = "Hola, soy Lex, el asistente de LAW LAB. ¿En qué puedo ayudarte?"

// Service owns conversation continuity: it rebuilds the turn history
// for a session, appends the new exchange and persists the result.
type Service struct {
	llm          domain.LLMClient
	store        domain.SessionStore
	model        string
	systemPrompt string
	timeout      time.Duration
	now          func() time.Time
}

func NewService(llm domain.LLMClient, store domain.SessionStore, model, systemPrompt string, timeout time.Duration) *Service {
	return &Service{
		llm:          llm,
		store:        store,
		model:        model,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		now:          time.Now,
	}
}

// Inbound is one user utterance, optionally with an inline audio
// attachment from the chat widget.
type Inbound struct {
	Text       string
	Attachment *domain.Attachment
}

// HandleMessage produces the assistant reply for one utterance. State
// is persisted only after a fully successful round trip; on an LLM
// failure the stored state is dropped so the next request starts
// fresh instead of replaying a possibly inconsistent context.
func (s *Service) HandleMessage(ctx context.Context, sessionID domain.SessionID, in Inbound) (string, error) {
	log := observability.LoggerFromContext(ctx)

	text := strings.TrimSpace(in.Text)
	if text == "" && in.Attachment == nil {
		log.Info("empty message, returning placeholder")
		return PlaceholderReply, nil
	}

	state, err := s.store.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		state = domain.NewConversationState(s.model, s.systemPrompt, s.now())
	case err != nil:
		return "", domain.Internal("chat.load", err)
	case !state.CompatibleWith(s.model):
		// The model configuration changed since this state was
		// written; replaying it would mix contexts.
		log.Info("discarding state for stale model", "stored_model", state.Model)
		state = domain.NewConversationState(s.model, s.systemPrompt, s.now())
	}

	state.Append(domain.Turn{
		Role:       domain.RoleUser,
		Text:       text,
		Attachment: in.Attachment,
		CreatedAt:  s.now(),
	})

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.llm.GenerateReply(callCtx, state.Turns)
	if err != nil {
		log.Error("llm call failed, dropping session state", "error", err)
		if delErr := s.store.Delete(ctx, sessionID); delErr != nil {
			log.Error("failed to drop session state", "error", delErr)
		}
		if domain.KindOf(err) == domain.KindInternal {
			return "", domain.Upstream("chat.generate", "language model call failed", err)
		}
		return "", err
	}

	state.Append(domain.Turn{
		Role:      domain.RoleAssistant,
		Text:      reply,
		CreatedAt: s.now(),
	})

	if err := s.store.Put(ctx, sessionID, state); err != nil {
		return "", domain.Internal("chat.save", err)
	}

	log.Info("message handled", "turns", len(state.Turns))
	return reply, nil
}

// Reset destroys the stored state for a session.
func (s *Service) Reset(ctx context.Context, sessionID domain.SessionID) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return domain.Internal("chat.reset", err)
	}
	return nil
}
