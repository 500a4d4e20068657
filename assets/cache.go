package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wudi/quotekit/observability"
)

// DefaultCacheTTL is how long a fetched logo stays cached.
const DefaultCacheTTL = time.Hour

// RedisCache memoizes another fetcher in redis. Cache failures degrade to a
// direct fetch; only the inner fetcher's errors are returned.
type RedisCache struct {
	client   redis.Cmdable
	next     Fetcher
	ttl      time.Duration
	prefix   string
	logger   observability.Logger
	validate func([]byte) error
}

// CacheOption configures a RedisCache.
type CacheOption func(*RedisCache)

func WithTTL(d time.Duration) CacheOption {
	return func(c *RedisCache) { c.ttl = d }
}

func WithKeyPrefix(p string) CacheOption {
	return func(c *RedisCache) { c.prefix = p }
}

func WithCacheLogger(l observability.Logger) CacheOption {
	return func(c *RedisCache) { c.logger = l }
}

// WithValidator stops bytes that fail validate from being cached. They are
// still returned so the caller sees its own decode error.
func WithValidator(validate func([]byte) error) CacheOption {
	return func(c *RedisCache) { c.validate = validate }
}

func NewRedisCache(client redis.Cmdable, next Fetcher, opts ...CacheOption) *RedisCache {
	c := &RedisCache{client: client, next: next, ttl: DefaultCacheTTL, prefix: "quotekit:asset:", logger: observability.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Fetch(ctx context.Context, ref string) ([]byte, error) {
	key := c.key(ref)
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("asset cache read failed", observability.Error("error", err))
	}
	data, err = c.next.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if c.validate != nil {
		if err := c.validate(data); err != nil {
			c.logger.Debug("asset not cached", observability.String("ref", redact(ref)), observability.Error("error", err))
			return data, nil
		}
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("asset cache write failed", observability.Error("error", err))
	}
	return data, nil
}
