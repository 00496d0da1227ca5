package cache

import (
	"context"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/platform/db"
	"haul-turn-planner/internal/ports"
	"haul-turn-planner/internal/services"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePath(t *testing.T) (string, ports.CachedPath) {
	t.Helper()

	start := domain.Pose{X: 0, Y: 0, Theta: 0}
	goal := domain.Pose{X: 30, Y: 25, Theta: 1.2}
	const radius, step = 10.16, 2.0

	path, err := services.ComputeDubinsPath(start, goal, radius)
	require.NoError(t, err)
	points, err := services.SampleDubinsPath(path, start, radius, step)
	require.NoError(t, err)

	return services.PathCacheKey(start, goal, radius, step), ports.CachedPath{Path: path, Polyline: points}
}

func assertSameEntry(t *testing.T, want, got ports.CachedPath) {
	t.Helper()

	assert.Equal(t, want.Path.Family(), got.Path.Family())
	assert.Equal(t, want.Path.Segments(), got.Path.Segments())
	assert.Equal(t, want.Path.TotalLengthM(), got.Path.TotalLengthM())
	if diff := cmp.Diff(want.Polyline, got.Polyline); diff != "" {
		t.Fatalf("polyline mismatch (-want +got):\n%s", diff)
	}
}

func newSqliteCache(t *testing.T) *SQLPathCache {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	return NewSqlitePathCache(conn)
}

func TestSQLPathCacheRoundTrip(t *testing.T) {
	c := newSqliteCache(t)
	ctx := context.Background()
	key, entry := samplePath(t)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, key, entry))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assertSameEntry(t, entry, got)

	// Overwrite in place.
	require.NoError(t, c.Put(ctx, key, entry))
}

func TestSQLPathCacheRejectsEmptyKey(t *testing.T) {
	c := newSqliteCache(t)
	_, entry := samplePath(t)

	require.Error(t, c.Put(context.Background(), " ", entry))
	_, _, err := c.Get(context.Background(), "")
	require.Error(t, err)
}

func TestSQLPathCachePrune(t *testing.T) {
	c := newSqliteCache(t)
	ctx := context.Background()
	key, entry := samplePath(t)

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, key, entry))

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	n, err := c.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPathCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisPathCache(client, time.Minute)
	ctx := context.Background()
	key, entry := samplePath(t)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, key, entry))
	assert.True(t, mr.Exists(c.Prefix+key))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assertSameEntry(t, entry, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPathCacheCorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisPathCache(client, 0)
	require.NoError(t, mr.Set(c.Prefix+"bad", "{not json"))

	_, ok, err := c.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
}
