// Package health provides health check implementations for external
// dependencies used by readiness probes.
package health

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
)

// DBChecker implements health checking for the Postgres item and profile
// stores.
type DBChecker struct {
	db *sql.DB
}

// NewDBChecker creates a new database health checker.
func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

// HealthCheck pings the database.
func (d *DBChecker) HealthCheck(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// RedisChecker implements health checking for the feed cache and rate limit
// store.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// HealthCheck sends a PING command to Redis.
func (r *RedisChecker) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
