// Package postcache keeps read-through copies of posts in Redis, keyed by
// tracking code.
package postcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached post lives when no TTL is configured.
const DefaultTTL = 300 * time.Second

// RedisPostCache implements ports.PostCache.
type RedisPostCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisPostCache creates the cache. A non-positive ttl falls back to DefaultTTL.
func NewRedisPostCache(client redis.Cmdable, ttl time.Duration) *RedisPostCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPostCache{client: client, ttl: ttl}
}

// Get returns the cached post, or false on a miss. An entry that no longer
// decodes is treated as a miss and removed.
func (c *RedisPostCache) Get(ctx context.Context, code kernel.TrackingCode) (*post.Post, bool, error) {
	raw, err := c.client.Get(ctx, key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewDependencyIsUnavailableErrorWithCause("redis", err)
	}

	var doc cachedPost
	if err = json.Unmarshal(raw, &doc); err != nil {
		c.client.Del(ctx, key(code))
		return nil, false, nil
	}

	p, err := doc.toDomain()
	if err != nil {
		c.client.Del(ctx, key(code))
		return nil, false, nil
	}

	return p, true, nil
}

// Set stores p for the configured TTL, overwriting any previous entry.
func (c *RedisPostCache) Set(ctx context.Context, p *post.Post) error {
	raw, err := encode(p)
	if err != nil {
		return err
	}

	if err = c.client.Set(ctx, key(p.TrackingCode()), raw, c.ttl).Err(); err != nil {
		return errs.NewDependencyIsUnavailableErrorWithCause("redis", err)
	}
	return nil
}

// Refresh overwrites the entry for p and resets its TTL, but only if an
// entry already exists. It reports whether one did.
func (c *RedisPostCache) Refresh(ctx context.Context, p *post.Post) (bool, error) {
	raw, err := encode(p)
	if err != nil {
		return false, err
	}

	ok, err := c.client.SetXX(ctx, key(p.TrackingCode()), raw, c.ttl).Result()
	if err != nil {
		return false, errs.NewDependencyIsUnavailableErrorWithCause("redis", err)
	}
	return ok, nil
}

func encode(p *post.Post) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(fromDomain(p))
}

// key is the bare tracking code, shared with other readers of the cache.
func key(code kernel.TrackingCode) string {
	return code.String()
}
