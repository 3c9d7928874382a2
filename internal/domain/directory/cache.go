package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheTTL = 5 * time.Minute

// Cache is a read-through cache for the hot top-match queries. A cache miss
// or Redis failure falls through to the repository; responses are cached
// best effort.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewCache(client *redis.Client, logger zerolog.Logger) *Cache {
	return &Cache{client: client, logger: logger.With().Str("component", "directory_cache").Logger()}
}

func specialistKey(specialty string, limit int) string {
	return fmt.Sprintf("directory:specialists:%s:%d", specialty, limit)
}

func hospitalKey(emergencyOnly bool, limit int) string {
	return fmt.Sprintf("directory:hospitals:%t:%d", emergencyOnly, limit)
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, ignoring")
		return false
	}
	return true
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate drops all cached top-match entries. Called after directory writes.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "directory:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("cache invalidation failed")
		}
	}
}
