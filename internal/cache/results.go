package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/evolsynth-api/internal/model"
)

// ResultCache memoizes complete generation results keyed by DeriveKey.
type ResultCache struct {
	store   Store
	ttl     time.Duration
	backend string

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewResultCache wraps a Store with generation-result serialization and a
// fixed TTL. backend names the underlying store for stats reporting.
func NewResultCache(store Store, ttl time.Duration, backend string) *ResultCache {
	return &ResultCache{store: store, ttl: ttl, backend: backend}
}

// Get returns the cached result for key, or (nil, false) on a miss. A payload
// that no longer deserializes is treated as a miss and evicted.
func (c *ResultCache) Get(ctx context.Context, key string) (*model.GenerationResult, bool) {
	payload, err := c.store.Get(ctx, key)
	if err != nil {
		zap.L().Warn("result cache read failed", zap.Error(err))
		c.misses.Add(1)
		return nil, false
	}
	if payload == nil {
		c.misses.Add(1)
		return nil, false
	}

	var result model.GenerationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		zap.L().Warn("evicting corrupted cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		if delErr := c.store.Delete(ctx, key); delErr != nil {
			zap.L().Warn("failed to evict corrupted cache entry", zap.Error(delErr))
		}
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return &result, true
}

// Set stores the result under key. Failures are logged, not returned: cache
// population is best-effort.
func (c *ResultCache) Set(ctx context.Context, key string, result *model.GenerationResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("result cache marshal failed", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		zap.L().Warn("result cache write failed", zap.Error(err))
		return
	}
	c.sets.Add(1)
}

// Clear removes all cached generation results and returns the count.
func (c *ResultCache) Clear(ctx context.Context) (int, error) {
	return c.store.DeletePrefix(ctx, resultKeyPrefix)
}

// Ping reports backend health.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the backend store.
func (c *ResultCache) Close() error {
	return c.store.Close()
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Backend    string  `json:"backend"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	Sets       int64   `json:"sets"`
	HitRate    float64 `json:"hit_rate"`
	TTLSeconds int     `json:"ttl_seconds"`
}

// Stats returns a snapshot of the cache counters.
func (c *ResultCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{
		Backend:    c.backend,
		Hits:       hits,
		Misses:     misses,
		Sets:       c.sets.Load(),
		TTLSeconds: int(c.ttl / time.Second),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
