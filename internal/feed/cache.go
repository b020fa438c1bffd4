// Package feed assembles personalized feeds by combining recommendation
// scoring with the account's following timeline, with an optional Redis
// cache in front of the scoring pass.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a scored feed page stays cached.
const DefaultCacheTTL = 5 * time.Minute

// cacheKeyPrefix versions the cache schema so a deploy with a changed
// Entry layout does not decode stale pages.
const cacheKeyPrefix = "feed:v1"

// ErrCacheMiss is returned when no cached page exists for the key.
var ErrCacheMiss = errors.New("feed cache miss")

// Cache stores scored feed pages in Redis, encoded as CBOR.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a feed cache backed by the given Redis client.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached page for an account, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, accountID string, limit int) (*Page, error) {
	data, err := c.client.Get(ctx, cacheKey(accountID, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var page Page
	if err := cbor.Unmarshal(data, &page); err != nil {
		// Treat undecodable entries as misses so a schema change
		// self-heals on the next Set.
		return nil, ErrCacheMiss
	}
	return &page, nil
}

// Set stores a page for an account under the cache TTL.
func (c *Cache) Set(ctx context.Context, accountID string, limit int, page *Page) error {
	data, err := cbor.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(accountID, limit), data, c.ttl).Err()
}

// Invalidate removes all cached pages for an account. Called when the
// account's profile or follow graph changes.
func (c *Cache) Invalidate(ctx context.Context, accountID string) error {
	pattern := fmt.Sprintf("%s:%s:*", cacheKeyPrefix, accountID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func cacheKey(accountID string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", cacheKeyPrefix, accountID, limit)
}
