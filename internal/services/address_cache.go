package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/models"
	"github.com/prefeitura-rio/app-cadastro/internal/observability"
	"github.com/prefeitura-rio/app-cadastro/internal/redisclient"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const addressCacheKeyPrefix = "cadastro:cep:"

// AddressCache stores resolved addresses by postal code digits.
// Implementations never fail a lookup: errors are logged and reported as a miss.
type AddressCache interface {
	Get(ctx context.Context, postalCode string) (*models.AddressLookupResult, bool)
	Set(ctx context.Context, postalCode string, result *models.AddressLookupResult)
}

// AddressCacheKey returns the Redis key for a postal code
func AddressCacheKey(postalCode string) string {
	return addressCacheKeyPrefix + utils.OnlyDigits(postalCode)
}

// RedisAddressCache is an AddressCache backed by Redis
type RedisAddressCache struct {
	client *redisclient.Client
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewRedisAddressCache creates a cache whose entries expire after ttl
func NewRedisAddressCache(client *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *RedisAddressCache {
	return &RedisAddressCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached address for postalCode
func (c *RedisAddressCache) Get(ctx context.Context, postalCode string) (*models.AddressLookupResult, bool) {
	key := AddressCacheKey(postalCode)

	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.CacheHits.WithLabelValues("miss").Inc()
			return nil, false
		}
		observability.CacheHits.WithLabelValues("error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"cache.key": key})
		c.logger.Warn("failed to read address cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var result models.AddressLookupResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		observability.CacheHits.WithLabelValues("error").Inc()
		c.logger.Warn("discarding malformed address cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	observability.CacheHits.WithLabelValues("hit").Inc()
	utils.AddSpanAttribute(span, "cache.hit", true)
	return &result, true
}

// Set stores result under postalCode
func (c *RedisAddressCache) Set(ctx context.Context, postalCode string, result *models.AddressLookupResult) {
	if result == nil {
		return
	}
	key := AddressCacheKey(postalCode)

	ctx, span := utils.TraceCacheSet(ctx, key, c.ttl)
	defer span.End()

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to encode address for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"cache.key": key})
		c.logger.Warn("failed to cache address", zap.String("key", key), zap.Error(err))
	}
}
