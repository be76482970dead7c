// Package redis dials the optional Redis instance that backs the shared
// identity cache. Unconfigured deployments run on the in-process cache alone.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"brandreach/internal/platform/config"
)

// Client wraps the go-redis client so callers get the pool, a readiness
// probe, and shutdown without importing the driver themselves.
type Client struct {
	*redis.Client
}

// New dials Redis from config and verifies the connection with a ping.
// Returns (nil, nil) when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection is still usable. The health endpoint
// calls this so a lost Redis shows up in readiness checks instead of silently
// degrading the identity cache.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
