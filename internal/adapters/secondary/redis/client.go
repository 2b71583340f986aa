package redis

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lorrc/aegis-helpdesk/internal/config"
)

// Client wraps the go-redis client.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis using the provided configuration. An
// unreachable server is logged, not fatal: the dashboard falls back to
// the database.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) *Client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", "addr", cfg.Addr, "error", err)
	} else {
		logger.Info("connected to redis", "addr", cfg.Addr)
	}

	return &Client{rdb: rdb}
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errors.New("redis client not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the client.
func (c *Client) Close() {
	if c != nil && c.rdb != nil {
		_ = c.rdb.Close()
	}
}
