package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/pennybot/internal/core"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	store := NewHistoryStore(newTestDB(t))
	ctx := context.Background()

	msgs := []core.ChatMessage{
		{Sender: core.RoleUser, Content: "coffee 3$", Timestamp: time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)},
		{Sender: core.RoleAssistant, Content: "Expense recorded: Food & Beverage - 3$"},
	}
	require.NoError(t, store.Save(ctx, "local", msgs))

	loaded, err := store.Load(ctx, "local")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, msgs[0].Content, loaded[0].Content)
	assert.True(t, msgs[0].Timestamp.Equal(loaded[0].Timestamp))
}

func TestHistoryStoreSaveOverwrites(t *testing.T) {
	store := NewHistoryStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "local", []core.ChatMessage{{Sender: core.RoleUser, Content: "one"}}))
	require.NoError(t, store.Save(ctx, "local", []core.ChatMessage{
		{Sender: core.RoleUser, Content: "one"},
		{Sender: core.RoleAssistant, Content: "two"},
	}))

	loaded, err := store.Load(ctx, "local")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "two", loaded[1].Content)
}

func TestHistoryStoreLoadMissingSession(t *testing.T) {
	store := NewHistoryStore(newTestDB(t))

	loaded, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestHistoryStoreCorruptPayload(t *testing.T) {
	db := newTestDB(t)
	store := NewHistoryStore(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, payload) VALUES (?, ?)`, "local", "{not json")
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "local")
	require.NoError(t, err, "corrupt payload reads as empty history")
	assert.Nil(t, loaded)
}

func TestHistoryStoreClear(t *testing.T) {
	store := NewHistoryStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "local", []core.ChatMessage{{Sender: core.RoleUser, Content: "one"}}))
	require.NoError(t, store.Clear(ctx, "local"))

	loaded, err := store.Load(ctx, "local")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// clearing an absent session is fine
	assert.NoError(t, store.Clear(ctx, "nope"))
}
