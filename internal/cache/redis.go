package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"launchfast/internal/engine"
	"launchfast/internal/logger"
)

// Redis is a MarketCache backed by a Redis instance, for deployments where
// several service replicas should share memoized market results. Redis
// failures degrade to cache misses; they never fail a calculation.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis creates a Redis-backed cache against addr.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Ping verifies connectivity; callers fall back to the memory cache on error.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the cached result for key, treating any Redis error as a miss.
func (r *Redis) Get(ctx context.Context, key string) (*engine.Result[engine.Market], bool) {
	if key == "" {
		return nil, false
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var res engine.Result[engine.Market]
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Warn("CACHE", fmt.Sprintf("corrupt cache entry %s dropped: %v", key, err))
		r.rdb.Del(ctx, key)
		return nil, false
	}
	return &res, true
}

// Set stores a result under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, res engine.Result[engine.Market]) {
	if key == "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.Warn("CACHE", fmt.Sprintf("cache write failed: %v", err))
	}
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
