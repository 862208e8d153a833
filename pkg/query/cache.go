package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/metrics"
	"github.com/dchouse/nanodash/pkg/types"
)

const cacheKeyPrefix = "nanodash:query:"

// Cache stores serialized query results.
type Cache interface {
	// Get returns the value for key. ok is false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// CachedSource is a read-through cache in front of another Source. Cache
// failures are logged and fall through to the underlying source.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps source with cache. Entries expire after ttl.
func NewCachedSource(source Source, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl}
}

// Series implements Source.
func (c *CachedSource) Series(ctx context.Context, measurement types.Measurement, window Window) (types.TimeSeries, error) {
	key := cacheKeyPrefix + "series:" + string(measurement) + ":" + window.key()
	var series types.TimeSeries
	if c.load(ctx, key, &series) {
		return series, nil
	}
	series, err := c.source.Series(ctx, measurement, window)
	if err != nil {
		return types.TimeSeries{}, err
	}
	c.store(ctx, key, series)
	return series, nil
}

// ActualEnergy implements Source.
func (c *CachedSource) ActualEnergy(ctx context.Context, window Window) (float64, error) {
	key := cacheKeyPrefix + "actual:" + window.key()
	var kwh float64
	if c.load(ctx, key, &kwh) {
		return kwh, nil
	}
	kwh, err := c.source.ActualEnergy(ctx, window)
	if err != nil {
		return 0, err
	}
	c.store(ctx, key, kwh)
	return kwh, nil
}

// DeviceUsage implements Source.
func (c *CachedSource) DeviceUsage(ctx context.Context, window Window, limit int) ([]types.DeviceUsage, error) {
	key := cacheKeyPrefix + "devices:" + strconv.Itoa(limit) + ":" + window.key()
	var usage []types.DeviceUsage
	if c.load(ctx, key, &usage) {
		return usage, nil
	}
	usage, err := c.source.DeviceUsage(ctx, window, limit)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, usage)
	return usage, nil
}

// Ping implements Source.
func (c *CachedSource) Ping(ctx context.Context) error {
	return c.source.Ping(ctx)
}

// Close closes both the cache and the underlying source.
func (c *CachedSource) Close() error {
	return errors.Join(c.cache.Close(), c.source.Close())
}

func (c *CachedSource) load(ctx context.Context, key string, v any) bool {
	b, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		log.Ctx(ctx).WarnContext(ctx, "failed to read query cache", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if !ok {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		log.Ctx(ctx).WarnContext(ctx, "failed to decode cached query", slog.String("key", key), slog.Any("error", err))
		return false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to encode query for cache", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to write query cache", slog.String("key", key), slog.Any("error", err))
	}
}

// RedisCache implements Cache with Redis.
type RedisCache struct {
	client *redis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to Redis at addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		PoolSize:     10,
		MinIdleConns: 1,
		MaxRetries:   3,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis (%s): %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close implements Cache.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
