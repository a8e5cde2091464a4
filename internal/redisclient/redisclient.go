// Package redisclient provides the Redis connection used by the revocation store.
// The client is constructed explicitly at startup and closed at shutdown; it is
// passed by handle into the components that need it rather than held in ambient
// package-level state.
package redisclient

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	URL         string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Connect creates a Redis client from the given configuration and verifies
// connectivity with a ping. The returned client is safe for concurrent use and
// must be closed by the caller at shutdown.
func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.ReadTimeout

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
