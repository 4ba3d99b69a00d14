package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisConfig(uri string) *Config {
	return &Config{
		RedisURI:          uri,
		RedisPassword:     "secret",
		RedisDB:           2,
		RedisPoolSize:     4,
		RedisDialTimeout:  200 * time.Millisecond,
		RedisReadTimeout:  100 * time.Millisecond,
		RedisWriteTimeout: 100 * time.Millisecond,
	}
}

func TestRedisOptions_HostPort(t *testing.T) {
	opts, err := RedisOptions(testRedisConfig("localhost:6380"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 200*time.Millisecond, opts.DialTimeout)
}

func TestRedisOptions_URL(t *testing.T) {
	opts, err := RedisOptions(testRedisConfig("redis://cache.internal:6379/5"))
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6379", opts.Addr)
	assert.Equal(t, 5, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 4, opts.PoolSize)
}

func TestRedisOptions_InvalidURL(t *testing.T) {
	_, err := RedisOptions(testRedisConfig("redis://cache.internal:6379/not-a-db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_URI")
}

func TestInitRedis_Unreachable(t *testing.T) {
	// Port 1 is never a Redis server
	client, err := InitRedis(context.Background(), testRedisConfig("127.0.0.1:1"))
	require.Error(t, err)
	assert.Nil(t, client)
}
