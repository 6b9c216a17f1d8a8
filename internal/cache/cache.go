// Package cache stores rendered calculations keyed by their loan parameters.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/amortize/internal/config"
	"go.uber.org/zap"
)

// Cache is a string key/value store with a fixed entry lifetime.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New builds the cache selected by cfg. A nil Cache with a nil error means
// caching is disabled.
func New(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second

	switch cfg.Backend {
	case "", config.CacheBackendMemory:
		logger.Debug("using in-memory cache",
			zap.String("op", "cache.New"),
			zap.Duration("ttl", ttl),
			zap.Int("maxEntries", cfg.MaxEntries),
		)
		return NewMemoryCacheWithLimit(ttl, cfg.MaxEntries), nil
	case config.CacheBackendRedis:
		if cfg.Address == "" {
			logger.Warn("redis cache has no address, caching disabled",
				zap.String("op", "cache.New"),
			)
			return nil, nil
		}
		redisCache, err := NewRedisCache(ctx, RedisOptions{
			Address:  cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
			TTL:      ttl,
		}, logger)
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	case config.CacheBackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
