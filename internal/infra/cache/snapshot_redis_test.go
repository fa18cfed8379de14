package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
)

func TestSnapshotKey(t *testing.T) {
	prof := uint(4)

	assert.Equal(t,
		"agenda:9:v3:2025-03-10:4",
		snapshotKey(domain.SnapshotKey{EstablishmentID: 9, ProfessionalID: &prof, Date: "2025-03-10"}, 3),
	)
	assert.Equal(t,
		"agenda:9:v0:2025-03-10:all",
		snapshotKey(domain.SnapshotKey{EstablishmentID: 9, Date: "2025-03-10"}, 0),
	)
	assert.Equal(t, "agenda:ver:9", versionKey(9))
}

func TestRedisUnavailable_DegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	m := metrics.New()
	c := NewRedisSnapshotCache(client, time.Minute, zerolog.Nop(), m)
	ctx := context.Background()
	key := domain.SnapshotKey{EstablishmentID: 1, Date: "2025-03-10"}

	assert.NotPanics(t, func() {
		c.Set(ctx, key, 0, map[string]int{"a": 1})
		c.Invalidate(ctx, 1)
	})

	var dst map[string]int
	ver, hit := c.Get(ctx, key, &dst)
	assert.False(t, hit)
	assert.Equal(t, int64(-1), ver)
	assert.Nil(t, dst)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `agenda_snapshot_cache_lookups_total{result="miss"} 1`)
}

func newTestCache(t *testing.T) (*RedisSnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSnapshotCache(client, time.Minute, zerolog.Nop(), metrics.New()), mr
}

func TestRedisSnapshotCache_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	prof := uint(2)
	key := domain.SnapshotKey{EstablishmentID: 1, ProfessionalID: &prof, Date: "2030-03-11"}

	var dst map[string]string
	ver, hit := c.Get(ctx, key, &dst)
	require.False(t, hit)
	assert.Equal(t, int64(0), ver)

	c.Set(ctx, key, ver, map[string]string{"state": "loaded"})

	ver, hit = c.Get(ctx, key, &dst)
	require.True(t, hit)
	assert.Equal(t, int64(0), ver)
	assert.Equal(t, "loaded", dst["state"])

	assert.True(t, mr.Exists("agenda:1:v0:2030-03-11:2"))
	assert.Equal(t, time.Minute, mr.TTL("agenda:1:v0:2030-03-11:2"))
}

func TestRedisSnapshotCache_InvalidateHidesOlderSnapshot(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := domain.SnapshotKey{EstablishmentID: 1, Date: "2030-03-11"}
	other := domain.SnapshotKey{EstablishmentID: 2, Date: "2030-03-11"}

	c.Set(ctx, key, 0, map[string]string{"state": "old"})
	c.Set(ctx, other, 0, map[string]string{"state": "other"})

	c.Invalidate(ctx, 1)

	var dst map[string]string
	ver, hit := c.Get(ctx, key, &dst)
	assert.False(t, hit)
	assert.Equal(t, int64(1), ver)

	// outro estabelecimento não é afetado
	_, hit = c.Get(ctx, other, &dst)
	assert.True(t, hit)
	assert.Equal(t, "other", dst["state"])
}

func TestRedisSnapshotCache_SetAfterInvalidateIsDiscarded(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := domain.SnapshotKey{EstablishmentID: 1, Date: "2030-03-11"}

	var dst map[string]string
	ver, hit := c.Get(ctx, key, &dst)
	require.False(t, hit)

	// um agendamento confirma entre a leitura no banco e a escrita no cache
	c.Invalidate(ctx, 1)
	c.Set(ctx, key, ver, map[string]string{"state": "read-before-mutation"})

	dst = nil
	ver, hit = c.Get(ctx, key, &dst)
	assert.False(t, hit)
	assert.Equal(t, int64(1), ver)
	assert.Nil(t, dst)

	c.Set(ctx, key, ver, map[string]string{"state": "fresh"})
	_, hit = c.Get(ctx, key, &dst)
	assert.True(t, hit)
	assert.Equal(t, "fresh", dst["state"])
}

func TestRedisSnapshotCache_CorruptedPayloadIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := domain.SnapshotKey{EstablishmentID: 1, Date: "2030-03-11"}

	require.NoError(t, mr.Set("agenda:1:v0:2030-03-11:all", "{not-json"))

	var dst map[string]string
	ver, hit := c.Get(ctx, key, &dst)
	assert.False(t, hit)
	assert.Equal(t, int64(0), ver)
}
