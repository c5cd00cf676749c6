package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/observability"
)

const (
	keyPrefix = "hotelbot:"
	metricKey = "redis"
)

// Cache keeps JSON documents in Redis. Every key is namespaced with
// keyPrefix so the bot can share a database with other services.
type Cache struct {
	rdb *redis.Client
}

func New(addr, pass string, db int) *Cache {
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (c *Cache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.rdb.Close() }

// Get decodes the value at key into dst. A value that no longer decodes
// (for example after a struct change) is dropped and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observability.ObserveCache(metricKey, "miss")
		return false, nil
	case err != nil:
		observability.ObserveCache(metricKey, "error")
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		observability.ObserveCache(metricKey, "corrupt")
		_ = c.rdb.Del(ctx, keyPrefix+key).Err()
		return false, nil
	}
	observability.ObserveCache(metricKey, "hit")
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, b, time.Duration(ttlSec)*time.Second).Err(); err != nil {
		observability.ObserveCache(metricKey, "error")
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	observability.ObserveCache(metricKey, "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		observability.ObserveCache(metricKey, "error")
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	observability.ObserveCache(metricKey, "del")
	return nil
}
