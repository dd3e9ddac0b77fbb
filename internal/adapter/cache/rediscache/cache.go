// Package rediscache memoizes match results in Redis.
package rediscache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// Cache implements domain.MatchCache over a Redis client. Matches are stored
// as JSON under the caller-supplied key.
type Cache struct {
	rdb *redis.Client
}

// New connects to Redis using a redis:// URL.
func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("op=cache.connect: %w", err)
	}
	return &Cache{rdb: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

// Get loads a cached match. A corrupt entry is deleted and reported as a miss
// so one bad write cannot poison the key forever.
func (c *Cache) Get(ctx domain.Context, key string) (domain.DetailedMatch, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DetailedMatch{}, false, nil
		}
		return domain.DetailedMatch{}, false, fmt.Errorf("op=cache.get: %w", err)
	}
	var m domain.DetailedMatch
	if err := json.Unmarshal(raw, &m); err != nil {
		slog.Warn("dropping corrupt cache entry", slog.String("key", key), slog.Any("error", err))
		_ = c.rdb.Del(ctx, key).Err()
		return domain.DetailedMatch{}, false, nil
	}
	return m, true, nil
}

// Set stores a match with the given TTL.
func (c *Cache) Set(ctx domain.Context, key string, m domain.DetailedMatch, ttl time.Duration) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx domain.Context) error {
	return c.rdb.Ping(ctx).Err()
}
