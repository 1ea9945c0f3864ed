package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "github.com/lawlab/intake-agent/internal/adapters/storage/memory"
	"github.com/lawlab/intake-agent/internal/domain"
)

func TestGetReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewSessionStore()

	state := domain.NewConversationState("m", "persona", time.Now())
	require.NoError(t, s.Put(ctx, "s1", state))

	a, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	a.Append(domain.Turn{Role: domain.RoleUser, Text: "mutado", CreatedAt: time.Now()})

	b, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, b.Turns, 1, "mutating a returned state must not touch the stored record")
}

func TestMissingSession(t *testing.T) {
	s := memstore.NewSessionStore()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewSessionStore()

	now := time.Now()
	old := domain.NewConversationState("m", "persona", now.Add(-48*time.Hour))
	fresh := domain.NewConversationState("m", "persona", now)
	require.NoError(t, s.Put(ctx, "old", old))
	require.NoError(t, s.Put(ctx, "fresh", fresh))

	n, err := s.DeleteExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}
