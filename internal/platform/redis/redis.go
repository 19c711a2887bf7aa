package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"postaibot-webapp/internal/common/config"
	"postaibot-webapp/internal/common/logger"
)

// Client wraps the go-redis client used for the page cache.
type Client struct {
	*redis.Client
}

// Open creates a Redis client and pings it to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return &Client{Client: c}, nil
}

// OpenFromConfig returns nil without error when Redis is disabled.
func OpenFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		logger.Info().Msg("Redis disabled, page cache off")
		return nil, nil
	}
	c, err := Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("addr", cfg.RedisAddr()).Int("db", cfg.Redis.DB).Msg("Redis connection established")
	return c, nil
}

// HealthCheck pings Redis. A nil client is healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Ping(ctx).Err()
}
