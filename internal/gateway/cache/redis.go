package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brandreach/internal/domain"
	"brandreach/pkg/platform/sentinel"
)

// Redis key prefix for cached identities. Keys are derived from a hash of the
// access token so raw bearer tokens never land in Redis.
const identityKeyPrefix = "idcache:tok:"

// RedisIdentityCache is a Redis-backed second-level identity cache for
// multi-instance deployments. The in-process UserCache stays in front of it;
// this layer only saves cold-start /auth/me calls when another instance
// resolved the same token moments ago.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdentityCache constructs the L2 cache. TTL should stay short (a few
// seconds); identities are treated as fresh-per-request data.
func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{client: client, ttl: ttl}
}

func identityKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return identityKeyPrefix + hex.EncodeToString(sum[:16])
}

// Get fetches a cached identity. Returns sentinel.ErrNotFound on a miss.
func (c *RedisIdentityCache) Get(ctx context.Context, token string) (*domain.UserIdentity, error) {
	raw, err := c.client.Get(ctx, identityKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get identity: %w", err)
	}
	var identity domain.UserIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal cached identity: %w", err)
	}
	return &identity, nil
}

// Put stores an identity with the cache TTL.
func (c *RedisIdentityCache) Put(ctx context.Context, token string, identity *domain.UserIdentity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return c.client.Set(ctx, identityKey(token), raw, c.ttl).Err()
}

// Invalidate removes the entry for a token across all instances.
func (c *RedisIdentityCache) Invalidate(ctx context.Context, token string) error {
	return c.client.Del(ctx, identityKey(token)).Err()
}
