package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Cached wraps another SettingStore with a ristretto read-through cache.
// It is the decorator to reach for when the inner store does real IO, such
// as the SQLite backend or a remote control plane.
//
// Ristretto admission is probabilistic; a Set may be dropped under pressure,
// so the decorator never assumes a freshly stored entry is retrievable.
type Cached struct {
	inner domain.SettingStore
	cache *ristretto.Cache
	ttl   time.Duration
}

// CachedConfig configures the caching decorator.
type CachedConfig struct {
	// TTL bounds how long a cached setting is served before the inner store
	// is consulted again. Default: 30 seconds.
	TTL time.Duration

	// NumCounters is the number of keys ristretto tracks frequency for.
	// Default: 10_000.
	NumCounters int64

	// MaxCost caps the cache size; each setting costs 1. Default: 1_000.
	MaxCost int64
}

// NewCached wraps inner with a default-sized cache.
func NewCached(inner domain.SettingStore) (*Cached, error) {
	return NewCachedWithConfig(inner, CachedConfig{})
}

// NewCachedWithConfig wraps inner with a cache sized per cfg.
func NewCachedWithConfig(inner domain.SettingStore, cfg CachedConfig) (*Cached, error) {
	if inner == nil {
		return nil, domain.NewConfigError("inner", "cached store requires an inner store")
	}
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.NumCounters == 0 {
		cfg.NumCounters = 10_000
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = 1_000
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	return &Cached{inner: inner, cache: cache, ttl: cfg.TTL}, nil
}

// GetSetting implements domain.SettingStore. Cache hits skip the inner
// store; misses fall through and populate the cache. Not-found results are
// never cached so newly created settings appear without an invalidation.
func (c *Cached) GetSetting(ctx context.Context, tenantID, key string) (*domain.Setting, error) {
	cacheKey := cacheKeyFor(tenantID, key)

	if value, found := c.cache.Get(cacheKey); found {
		if setting, ok := value.(*domain.Setting); ok {
			return setting, nil
		}
	}

	setting, err := c.inner.GetSetting(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithTTL(cacheKey, setting, 1, c.ttl)

	return setting, nil
}

// Invalidate drops a single setting from the cache.
func (c *Cached) Invalidate(tenantID, key string) {
	c.cache.Del(cacheKeyFor(tenantID, key))
}

// InvalidateAll clears the cache entirely.
func (c *Cached) InvalidateAll() {
	c.cache.Clear()
}

// Wait blocks until pending cache writes are applied. Tests use it to make
// admission deterministic.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Close releases the cache. The inner store is not closed; the caller owns
// its lifecycle.
func (c *Cached) Close() {
	c.cache.Close()
}

func cacheKeyFor(tenantID, key string) string {
	return tenantID + "\x00" + key
}
