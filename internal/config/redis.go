package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// Redis client backing the postal code cache; nil when the cache is disabled
	Redis *redisclient.Client
)

// RedisOptions translates the Redis settings of cfg into go-redis options.
// RedisURI may be a plain host:port or a redis:// URL.
func RedisOptions(cfg *Config) (*redis.Options, error) {
	if strings.HasPrefix(cfg.RedisURI, "redis://") || strings.HasPrefix(cfg.RedisURI, "rediss://") {
		opts, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		opts.PoolSize = cfg.RedisPoolSize
		opts.DialTimeout = cfg.RedisDialTimeout
		opts.ReadTimeout = cfg.RedisReadTimeout
		opts.WriteTimeout = cfg.RedisWriteTimeout
		return opts, nil
	}

	return &redis.Options{
		Addr:         cfg.RedisURI,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		WriteTimeout: cfg.RedisWriteTimeout,
		PoolSize:     cfg.RedisPoolSize,
	}, nil
}

// InitRedis initializes the Redis connection used by the address cache
func InitRedis(ctx context.Context, cfg *Config) (*redisclient.Client, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	// Wrap with traced client
	client := redisclient.NewClient(redis.NewClient(opts))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisDialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", opts.Addr),
			zap.Error(err))
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	Redis = client
	logging.Logger.Info("connected to Redis", zap.String("uri", opts.Addr))

	return client, nil
}
