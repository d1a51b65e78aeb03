// Package redis opens the optional Redis connection used by the snapshot
// cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"shareholder/internal/platform/config"
)

// Client is a go-redis client that has answered a PING.
type Client struct {
	*redis.Client
}

// New connects using cfg and pings the server within cfg.DialTimeout.
// It returns nil, nil when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := ping(ctx, client, cfg); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Client{Client: client}, nil
}

func ping(ctx context.Context, client *redis.Client, cfg config.RedisConfig) error {
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
