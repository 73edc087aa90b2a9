package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)

	session, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.EqualValues(t, 42, session.UserID)

	userID, err := store.Lookup(ctx, session.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)

	require.NoError(t, store.Delete(ctx, session.Token))
	_, err = store.Lookup(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session, err := store.Create(ctx, 1)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Lookup(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_UnknownToken(t *testing.T) {
	_, err := NewMemorySessionStore(time.Hour).Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_CreateSweepsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale, err := store.Create(ctx, 1)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	live, err := store.Create(ctx, 2)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	fresh, err := store.Create(ctx, 3)
	require.NoError(t, err)

	assert.Len(t, store.sessions, 2)
	assert.NotContains(t, store.sessions, stale.Token)
	assert.Contains(t, store.sessions, live.Token)
	assert.Contains(t, store.sessions, fresh.Token)
}
