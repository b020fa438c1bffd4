package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces rate limit keys in Redis.
const redisKeyPrefix = "ratelimit:"

// RedisRateLimitStore implements RateLimitStore backed by Redis, so the
// limit is shared across API replicas. It uses a fixed window counter
// keyed by window start (INCR + EXPIRE).
//
// The store fails open: if Redis is unavailable the request is allowed
// and the error is counted, so an outage degrades rate limiting rather
// than the whole API.
type RedisRateLimitStore struct {
	client  *redis.Client
	metrics *Metrics
}

// NewRedisRateLimitStore creates a Redis-backed rate limit store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

// SetMetrics attaches Prometheus metrics for fail-open tracking. Optional.
func (s *RedisRateLimitStore) SetMetrics(m *Metrics) {
	s.metrics = m
}

// Allow checks if a request from the given key should be allowed.
// Implements the RateLimitStore interface.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int) {
	now := time.Now()
	windowStart := now.Truncate(config.WindowDuration)
	redisKey := redisKeyPrefix + key + ":" + windowStart.UTC().Format(time.RFC3339)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, config.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		if s.metrics != nil {
			s.metrics.IncRateLimitRedisErrors()
		}
		return true, 0
	}

	if incr.Val() <= int64(config.RequestsPerWindow) {
		return true, 0
	}

	retryAfter := int(windowStart.Add(config.WindowDuration).Sub(now).Seconds())
	if retryAfter <= 0 {
		retryAfter = 1
	}
	return false, retryAfter
}
