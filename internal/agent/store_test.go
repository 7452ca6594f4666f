package agent

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-strategy-agent/internal/models"
)

func sampleMeta(kind string) *models.JobMetadata {
	return &models.JobMetadata{
		Kind:        kind,
		Requirement: map[string]interface{}{"client_id": "client-1"},
	}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(ctx, 1, sampleMeta("yield_scan_and_ranking")))
	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "yield_scan_and_ranking", got.Kind)

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, store.Remove(ctx, 1))
	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_LaterPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, 1, sampleMeta("yield_scan_and_ranking")))
	require.NoError(t, store.Put(ctx, 1, sampleMeta("strategy_backtest_report")))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "strategy_backtest_report", got.Kind)

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, 0)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	meta := sampleMeta("position_health_monitor")
	require.NoError(t, store.Put(ctx, 42, meta))

	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta.Kind, got.Kind)
	assert.Equal(t, "client-1", got.Requirement["client_id"])

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, store.Remove(ctx, 42))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	require.NoError(t, store.Put(ctx, 7, sampleMeta("yield_scan_and_ranking")))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	require.NoError(t, store.Put(ctx, 9, sampleMeta("yield_scan_and_ranking")))
	assert.True(t, mr.Exists("jobctx:9"))
}
