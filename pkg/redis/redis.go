// Package redis opens and supervises Redis connections for the one-time
// passcode store. Connection establishment retries with a growing interval,
// and the package exposes healthcheck and shutdown closures for wiring into
// the HTTP server lifecycle.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration. An empty URL means the
// in-memory passcode store is used instead.
type Config struct {
	URL string `env:"REDIS_URL"`
}

// Configured reports whether a connection URL is present.
func (c Config) Configured() bool {
	return c.URL != ""
}

const (
	connectAttempts = 3
	connectInterval = 5 * time.Second
)

// Open creates a Redis client from a redis:// or rediss:// URL, retrying
// the initial connection with a growing interval.
func Open(ctx context.Context, url string) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	for i := range connectAttempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * connectInterval):
		}
	}

	return nil, ErrConnectionFailed
}

// Healthcheck returns a closure that validates connectivity for health
// endpoints.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client redis.UniversalClient) func(ctx context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
