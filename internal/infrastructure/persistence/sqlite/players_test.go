package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeonBot/internal/domain"
)

func newTestStore(t *testing.T) *PlayerStore {
	t.Helper()
	store, err := NewPlayerStore(filepath.Join(t.TempDir(), "nested", "players.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func setCooldown(t *testing.T, store *PlayerStore, id int64, until time.Time) {
	t.Helper()
	_, err := store.db.Exec(`UPDATE player SET dungeon_cooldown = ? WHERE id = ?;`, until.UTC(), id)
	require.NoError(t, err)
}

func TestPlayerStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	exists, err := store.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Insert(ctx, domain.NewPlayer(42)))

	exists, err = store.Exists(ctx, 42)
	require.NoError(t, err)
	assert.True(t, exists)

	stats, err := store.Stats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.CharacterStats{
		Strength: 1, Dexterity: 1, Constitution: 1, Intelligence: 1, Wisdom: 1, Charisma: 1, Luck: 1,
	}, stats)

	require.NoError(t, store.Delete(ctx, 42))
	exists, err = store.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPlayerStoreInsertTwiceFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, domain.NewPlayer(7)))
	assert.Error(t, store.Insert(ctx, domain.NewPlayer(7)))
	assert.Error(t, store.Insert(ctx, nil))
}

func TestPlayerStoreMissingPlayer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Stats(ctx, 99)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = store.EnterCooldown(ctx, 99)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	assert.NoError(t, store.Delete(ctx, 99), "deleting nobody is fine")
}

func TestPlayerStoreEnterCooldown(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Insert(ctx, domain.NewPlayer(1)))

	left, err := store.EnterCooldown(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, left, "fresh characters can enter")

	setCooldown(t, store, 1, now.Add(90*time.Second))
	left, err = store.EnterCooldown(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, left)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	left, err = store.EnterCooldown(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, left, "expired cooldowns are zero")
}

func TestNewPlayerStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewPlayerStore("")
	assert.Error(t, err)
}

func TestNewPlayerStoreInMemory(t *testing.T) {
	store, err := NewPlayerStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	exists, err := store.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, exists)
}
