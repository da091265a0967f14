package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/fireworks/internal/game/engine"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, ttl), mr
}

func newTableData(t *testing.T, id string) *TableData {
	t.Helper()
	e, err := engine.New(engine.TwoPlayerConfig(engine.ParseDeck("r1 b1 r2 r1 y1 b2 g1 r3 w1 b4 r3 y2")))
	require.NoError(t, err)
	return &TableData{
		ID:        id,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
		Snapshot:  e.Payload(),
	}
}

func TestRedisStore_SaveLoadDeleteTable(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()
	data := newTableData(t, "t-1")

	require.NoError(t, store.SaveTable(ctx, data))

	loaded, err := store.LoadTable(ctx, data.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, data.ID, loaded.ID)
	assert.Equal(t, data.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, data.Snapshot.Version, loaded.Snapshot.Version)
	assert.Equal(t, data.Snapshot.State, loaded.Snapshot.State)

	// the loaded snapshot restores into a playable engine
	e, err := engine.Restore(loaded.Snapshot)
	require.NoError(t, err)
	assert.Equal(t, "alice", e.CurrentPlayerID())

	require.NoError(t, store.DeleteTable(ctx, data.ID))

	loaded, err = store.LoadTable(ctx, data.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	ids, err := store.ListTableIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_SaveNil(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, time.Hour)
	assert.NoError(t, store.SaveTable(context.Background(), nil))
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t, time.Hour)
	loaded, err := store.LoadTable(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, time.Hour)
	require.NoError(t, mr.Set(tableKeyPrefix+"bad", "{not json"))

	_, err := store.LoadTable(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisStore_Expiration(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 10*time.Minute)
	ctx := context.Background()
	require.NoError(t, store.SaveTable(ctx, newTableData(t, "t-1")))

	assert.Equal(t, 10*time.Minute, mr.TTL(tableKeyPrefix+"t-1"))

	require.NoError(t, store.SetTableExpiration(ctx, "t-1", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(tableKeyPrefix+"t-1"))

	mr.FastForward(2 * time.Minute)
	loaded, err := store.LoadTable(ctx, "t-1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_DefaultExpiration(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 0)
	require.NoError(t, store.SaveTable(context.Background(), newTableData(t, "t-1")))
	assert.Equal(t, defaultTableExpiration, mr.TTL(tableKeyPrefix+"t-1"))
}

func TestRedisStore_ListTableIDs(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	for _, id := range []string{"t-3", "t-1", "t-2"} {
		require.NoError(t, store.SaveTable(ctx, newTableData(t, id)))
	}

	ids, err := store.ListTableIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1", "t-2", "t-3"}, ids)

	// an expired snapshot drops out of the index
	require.NoError(t, store.SetTableExpiration(ctx, "t-2", time.Second))
	mr.FastForward(2 * time.Second)

	ids, err = store.ListTableIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1", "t-3"}, ids)

	members, err := mr.Members(tableIndexKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t-1", "t-3"}, members)
}
