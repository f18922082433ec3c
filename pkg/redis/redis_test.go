package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/pkg/redis"
)

func TestConfig_Configured(t *testing.T) {
	t.Parallel()

	require.False(t, redis.Config{}.Configured())
	require.True(t, redis.Config{URL: "redis://localhost:6379/0"}.Configured())
}

func TestOpen_InvalidInput(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(context.Background(), "")
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(context.Background(), "http://localhost:6379")
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("malformed url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(context.Background(), "redis://localhost:6379/not-a-db")
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
