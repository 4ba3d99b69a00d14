package testutil

import (
	"context"
	"testing"

	"github.com/prefeitura-rio/app-cadastro/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer holds a disposable Redis instance and a traced client for it
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URI       string
	Client    *redisclient.Client
}

// SetupRedisContainer starts a Redis container for integration tests.
// The test is skipped in -short mode or when no container runtime is available.
func SetupRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping Redis container test in short mode")
	}

	ctx := context.Background()

	var container *tcredis.RedisContainer
	var err error
	func() {
		// testcontainers panics when no Docker host can be resolved
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping Redis container test: %v", r)
			}
		}()
		container, err = tcredis.Run(ctx, "redis:7-alpine")
	}()
	if err != nil {
		t.Skipf("Skipping Redis container test: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err, "Failed to parse Redis URL")

	client := redisclient.NewClient(redis.NewClient(opts))
	require.NoError(t, client.Ping(ctx).Err(), "Failed to ping Redis")
	t.Cleanup(func() { client.Close() })

	return &RedisContainer{
		Container: container,
		URI:       uri,
		Client:    client,
	}
}
