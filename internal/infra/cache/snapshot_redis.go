package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
)

// RedisSnapshotCache guarda recortes diários em JSON. A invalidação é por
// estabelecimento: Invalidate incrementa a versão e as chaves antigas
// expiram sozinhas pelo TTL.
type RedisSnapshotCache struct {
	client  *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewRedisSnapshotCache(
	client *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
	m *metrics.Metrics,
) *RedisSnapshotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisSnapshotCache{
		client:  client,
		ttl:     ttl,
		log:     log.With().Str("component", "snapshot_cache").Logger(),
		metrics: m,
	}
}

func versionKey(establishmentID uint) string {
	return fmt.Sprintf("agenda:ver:%d", establishmentID)
}

func snapshotKey(key domain.SnapshotKey, version int64) string {
	prof := "all"
	if key.ProfessionalID != nil {
		prof = fmt.Sprintf("%d", *key.ProfessionalID)
	}
	return fmt.Sprintf("agenda:%d:v%d:%s:%s", key.EstablishmentID, version, key.Date, prof)
}

func (c *RedisSnapshotCache) version(ctx context.Context, establishmentID uint) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(establishmentID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisSnapshotCache) Get(ctx context.Context, key domain.SnapshotKey, dst any) (int64, bool) {
	ver, err := c.version(ctx, key.EstablishmentID)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache version lookup failed")
		c.metrics.CacheMiss()
		return -1, false
	}

	raw, err := c.client.Get(ctx, snapshotKey(key, ver)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("cache get failed")
		}
		c.metrics.CacheMiss()
		return ver, false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Msg("cache payload corrupted")
		c.metrics.CacheMiss()
		return ver, false
	}

	c.metrics.CacheHit()
	return ver, true
}

// Set grava sob a versão lida no Get. Se o estabelecimento já foi
// invalidado desde então, a chave fica numa versão que ninguém lê.
func (c *RedisSnapshotCache) Set(ctx context.Context, key domain.SnapshotKey, ver int64, value any) {
	if ver < 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache encode failed")
		return
	}

	if err := c.client.Set(ctx, snapshotKey(key, ver), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache set failed")
	}
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context, establishmentID uint) {
	if err := c.client.Incr(ctx, versionKey(establishmentID)).Err(); err != nil {
		c.log.Error().
			Err(err).
			Uint("establishment_id", establishmentID).
			Msg("cache invalidation failed")
	}
}

var _ domain.SnapshotCache = (*RedisSnapshotCache)(nil)
