package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lawlab/intake-agent/internal/domain"
)

// Store is a domain.SessionStore backed by Firestore. Each session is
// one document holding the full turn array, so a Set is a whole-record
// replace and concurrent writers resolve last-writer-wins.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, domain.Configuration("firestore.new", "gcp project id is not set", nil)
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, domain.Configuration("firestore.new", "creating firestore client", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("chat_sessions").Doc(string(id))
}

type turnDoc struct {
	Role           string    `firestore:"role"`
	Text           string    `firestore:"text"`
	AttachmentMIME string    `firestore:"attachment_mime,omitempty"`
	AttachmentData []byte    `firestore:"attachment_data,omitempty"`
	CreatedAt      time.Time `firestore:"created_at"`
}

type sessionDoc struct {
	SchemaVersion int       `firestore:"schema_version"`
	Model         string    `firestore:"model"`
	Turns         []turnDoc `firestore:"turns"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.ConversationState, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore Get: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Get decode: %w", err)
	}
	if doc.SchemaVersion != domain.StateSchemaVersion {
		return nil, domain.ErrSessionNotFound
	}

	state := &domain.ConversationState{
		SchemaVersion: doc.SchemaVersion,
		Model:         doc.Model,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		Turns:         make([]domain.Turn, 0, len(doc.Turns)),
	}
	for _, t := range doc.Turns {
		turn := domain.Turn{
			Role:      domain.Role(t.Role),
			Text:      t.Text,
			CreatedAt: t.CreatedAt,
		}
		if t.AttachmentMIME != "" {
			turn.Attachment = &domain.Attachment{
				MIMEType: t.AttachmentMIME,
				Data:     t.AttachmentData,
			}
		}
		state.Turns = append(state.Turns, turn)
	}
	return state, nil
}

func (s *Store) Put(ctx context.Context, id domain.SessionID, state *domain.ConversationState) error {
	doc := sessionDoc{
		SchemaVersion: state.SchemaVersion,
		Model:         state.Model,
		CreatedAt:     state.CreatedAt,
		UpdatedAt:     state.UpdatedAt,
		Turns:         make([]turnDoc, 0, len(state.Turns)),
	}
	for _, t := range state.Turns {
		td := turnDoc{
			Role:      string(t.Role),
			Text:      t.Text,
			CreatedAt: t.CreatedAt,
		}
		if t.Attachment != nil {
			td.AttachmentMIME = t.Attachment.MIMEType
			td.AttachmentData = t.Attachment.Data
		}
		doc.Turns = append(doc.Turns, td)
	}

	if _, err := s.sessionDoc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Put: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	if _, err := s.sessionDoc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore Delete: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	q := s.client.Collection("chat_sessions").Where("updated_at", "<", cutoff)
	iter := q.Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return n, fmt.Errorf("firestore DeleteExpired: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return n, fmt.Errorf("firestore DeleteExpired delete: %w", err)
		}
		n++
	}
	return n, nil
}
