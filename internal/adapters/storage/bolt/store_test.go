package bolt_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltstore "github.com/lawlab/intake-agent/internal/adapters/storage/bolt"
	"github.com/lawlab/intake-agent/internal/domain"
)

func openTestStore(t *testing.T) *boltstore.Store {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "sessions.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleState(updatedAt time.Time) *domain.ConversationState {
	state := domain.NewConversationState("gemini-test", "persona", updatedAt.Add(-time.Minute))
	state.Append(domain.Turn{Role: domain.RoleUser, Text: "hola", CreatedAt: updatedAt})
	return state
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	in := sampleState(now)
	in.Turns[1].Attachment = &domain.Attachment{MIMEType: "audio/webm", Data: []byte{9, 8, 7}}
	require.NoError(t, s.Put(ctx, "s1", in))

	out, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, in.Model, out.Model)
	assert.Equal(t, in.SchemaVersion, out.SchemaVersion)
	require.Len(t, out.Turns, 2)
	assert.Equal(t, domain.RoleSystem, out.Turns[0].Role)
	assert.Equal(t, "hola", out.Turns[1].Text)
	require.NotNil(t, out.Turns[1].Attachment)
	assert.Equal(t, []byte{9, 8, 7}, out.Turns[1].Attachment.Data)
	assert.True(t, out.UpdatedAt.Equal(in.UpdatedAt))
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := sampleState(time.Now())
	require.NoError(t, s.Put(ctx, "s1", first))

	second := sampleState(time.Now())
	second.Append(domain.Turn{Role: domain.RoleAssistant, Text: "respuesta", CreatedAt: time.Now()})
	require.NoError(t, s.Put(ctx, "s1", second))

	out, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, out.Turns, 3, "Put replaces the whole record")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, "s1", sampleState(time.Now())))
	require.NoError(t, s.Delete(ctx, "s1"))

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting an absent session is not an error.
	assert.NoError(t, s.Delete(ctx, "s1"))
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Now()
	require.NoError(t, s.Put(ctx, "old", sampleState(now.Add(-48*time.Hour))))
	require.NoError(t, s.Put(ctx, "fresh", sampleState(now)))

	n, err := s.DeleteExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}
