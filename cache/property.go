package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix   = "property:"
	scanPattern = keyPrefix + "*"
	scanCount   = 100
)

// Cache holds serialized catalog responses.
type Cache interface {
	// Fetch returns the cached value for key, calling load on a miss and
	// storing its result.
	Fetch(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error)
	// Invalidate drops every catalog entry.
	Invalidate(ctx context.Context)
}

const loadTimeout = 10 * time.Second

// PropertyCache is a read-through cache in Redis. Concurrent misses on the
// same key share one load.
type PropertyCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewPropertyCache(client *redis.Client, ttl time.Duration) *PropertyCache {
	return &PropertyCache{client: client, ttl: ttl}
}

func (c *PropertyCache) Fetch(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		log.Printf("Cache Hit for key: %s", key)
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("Redis GET error for key %s: %v", key, err)
	}
	log.Printf("Cache Miss for key: %s", key)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// The load is shared, so it must outlive the caller that started it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		data, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(loadCtx, key, data, c.ttl).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", key, err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate scans for catalog keys and deletes them in one pipeline.
// Errors are logged, not returned; stale entries expire with the TTL.
func (c *PropertyCache) Invalidate(ctx context.Context) {
	var (
		keysToDelete []string
		cursor       uint64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), err)
		return
	}
	log.Printf("Property cache invalidated, deleted %d keys", len(keysToDelete))
}

// Noop never caches. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Fetch(ctx context.Context, _ string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	return load(ctx)
}

func (Noop) Invalidate(context.Context) {}

// Key derives a cache key from scope and the query parameters. Parameter
// order does not matter.
func Key(scope string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(scope)
	sb.WriteString(":")
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	raw := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + hex.EncodeToString(sum[:])
}
