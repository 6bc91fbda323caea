package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"currency-converter/internal/models"
)

// KV is the slice of the redis client the cache needs. pkg/redis satisfies
// it; tests substitute an in-process fake or nil.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RateCache manages exchange rate caching with two layers: an in-process
// memory cache for the hot path and redis behind it.
type RateCache struct {
	redis    KV
	logger   *zap.Logger
	memCache *memoryCache
	ttl      time.Duration
}

type memoryCache struct {
	mu     sync.RWMutex
	data   map[string]*cacheEntry
	maxAge time.Duration
}

type cacheEntry struct {
	Rate     *models.ExchangeRate
	CachedAt time.Time
}

// NewRateCache creates a rate cache. redisClient may be nil, in which case
// only the memory layer is used.
func NewRateCache(redisClient KV, ttl time.Duration, logger *zap.Logger) *RateCache {
	return &RateCache{
		redis:    redisClient,
		logger:   logger,
		memCache: newMemoryCache(ttl),
		ttl:      ttl,
	}
}

func newMemoryCache(maxAge time.Duration) *memoryCache {
	cache := &memoryCache{
		data:   make(map[string]*cacheEntry),
		maxAge: maxAge,
	}

	go cache.cleanup()

	return cache
}

// Get retrieves a rate, checking memory first, then redis.
func (rc *RateCache) Get(ctx context.Context, from, to string) (*models.ExchangeRate, bool) {
	key := rc.cacheKey(from, to)

	if rate := rc.memCache.get(key); rate != nil {
		rc.logger.Debug("cache hit (memory)",
			zap.String("from", from),
			zap.String("to", to))
		return rate, true
	}

	if rc.redis != nil {
		data, err := rc.redis.Get(ctx, key)
		if err == nil {
			var rate models.ExchangeRate
			if err := json.Unmarshal([]byte(data), &rate); err == nil {
				rc.logger.Debug("cache hit (redis)",
					zap.String("from", from),
					zap.String("to", to))

				rc.memCache.set(key, &rate)
				return &rate, true
			}
		}
	}

	rc.logger.Debug("cache miss",
		zap.String("from", from),
		zap.String("to", to))
	return nil, false
}

// Set stores a rate in both layers.
func (rc *RateCache) Set(ctx context.Context, rate *models.ExchangeRate) error {
	key := rc.cacheKey(rate.FromCurrency, rate.ToCurrency)

	rc.memCache.set(key, rate)

	if rc.redis == nil {
		return nil
	}

	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}

	if err := rc.redis.Set(ctx, key, data, rc.ttl); err != nil {
		rc.logger.Error("failed to cache rate in redis",
			zap.Error(err),
			zap.String("key", key))
		return err
	}

	return nil
}

// Delete removes one pair from both layers.
func (rc *RateCache) Delete(ctx context.Context, from, to string) error {
	key := rc.cacheKey(from, to)

	rc.memCache.delete(key)

	if rc.redis == nil {
		return nil
	}
	return rc.redis.Delete(ctx, key)
}

// Invalidate drops every memory-cached pair involving the currency. Redis
// entries are left to expire by TTL.
func (rc *RateCache) Invalidate(currency string) {
	rc.logger.Info("invalidating cache for currency", zap.String("currency", currency))

	rc.memCache.mu.Lock()
	defer rc.memCache.mu.Unlock()

	for key := range rc.memCache.data {
		if strings.Contains(key, ":"+currency) {
			delete(rc.memCache.data, key)
		}
	}
}

func (rc *RateCache) cacheKey(from, to string) string {
	return fmt.Sprintf("rate:%s:%s", from, to)
}

func (mc *memoryCache) get(key string) *models.ExchangeRate {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, exists := mc.data[key]
	if !exists {
		return nil
	}

	if time.Since(entry.CachedAt) > mc.maxAge {
		return nil
	}

	return entry.Rate
}

func (mc *memoryCache) set(key string, rate *models.ExchangeRate) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.data[key] = &cacheEntry{
		Rate:     rate,
		CachedAt: time.Now(),
	}
}

func (mc *memoryCache) delete(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.data, key)
}

// cleanup periodically removes expired entries
func (mc *memoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mc.mu.Lock()
		now := time.Now()
		for key, entry := range mc.data {
			if now.Sub(entry.CachedAt) > mc.maxAge {
				delete(mc.data, key)
			}
		}
		mc.mu.Unlock()
	}
}
