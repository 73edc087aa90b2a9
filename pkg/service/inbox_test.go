package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "1")

	for i := 1; i <= 6; i++ {
		_, err := appendMessage(f.db, user.UserID, "Order System", fmt.Sprintf("note %d", i))
		require.NoError(t, err)
	}

	all, err := f.inbox.List(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "note 6", all[0].Content)
	assert.Contains(t, all[6].Content, "Welcome")

	recent, err := f.inbox.ListRecent(ctx, user.UserID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "note 6", recent[0].Content)
	assert.Equal(t, "note 2", recent[4].Content)
}

func TestInbox_MarkAllReadIsMonotone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "1")
	other := f.register(t, "2")
	_, err := appendMessage(f.db, user.UserID, "Order System", "hello")
	require.NoError(t, err)

	unread, err := f.inbox.UnreadCount(ctx, user.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	changed, err := f.inbox.MarkAllRead(ctx, user.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	changed, err = f.inbox.MarkAllRead(ctx, user.UserID)
	require.NoError(t, err)
	assert.Zero(t, changed)

	messages, err := f.inbox.List(ctx, user.UserID)
	require.NoError(t, err)
	for _, m := range messages {
		assert.True(t, m.IsRead)
	}

	otherUnread, err := f.inbox.UnreadCount(ctx, other.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherUnread)
}
