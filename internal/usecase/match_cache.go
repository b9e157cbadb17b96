package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talent-match/internal/domain/matching"
)

// MatchCache is the storage contract for cached match lists. The Redis
// implementation lives in internal/infrastructure/cache; tests use an
// in-memory fake.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// cacheEntry is what gets marshalled into the cache store. The store's
// TTL guarantees an entry is either entirely present and fresh or absent.
type cacheEntry struct {
	CreatedAt time.Time             `json:"created_at"`
	Matches   []matching.ScoredMatch `json:"matches"`
}

// CachedMatches wraps the match computation with an opportunity-scoped
// TTL cache. Writes are last-writer-wins; recompute is idempotent so a
// concurrent double compute only costs work, never correctness.
type CachedMatches struct {
	cache  MatchCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedMatches(cache MatchCache, ttl time.Duration, logger *zap.Logger) *CachedMatches {
	return &CachedMatches{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// GetOrCompute returns the cached list for the opportunity when present,
// otherwise invokes compute exactly once, stores the result with a fresh
// TTL and returns it. The second return reports whether this was a hit.
func (c *CachedMatches) GetOrCompute(ctx context.Context, opportunityID uuid.UUID, compute func(ctx context.Context) ([]matching.ScoredMatch, error)) ([]matching.ScoredMatch, bool, error) {
	key := MatchCacheKey(opportunityID)

	var entry cacheEntry
	found, err := c.cache.GetJSON(ctx, key, &entry)
	if err != nil && c.logger != nil {
		c.logger.Warn("match cache read failed, recomputing", zap.String("key", key), zap.Error(err))
	}
	if found && err == nil {
		c.hits.Add(1)
		return entry.Matches, true, nil
	}

	c.misses.Add(1)
	matches, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	entry = cacheEntry{CreatedAt: c.now().UTC(), Matches: matches}
	if err := c.cache.SetJSON(ctx, key, entry, c.ttl); err != nil && c.logger != nil {
		c.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
	}
	return matches, false, nil
}

// Invalidate drops the cached list for one opportunity. Called when the
// posting workflow signals an opportunity-level change.
func (c *CachedMatches) Invalidate(ctx context.Context, opportunityID uuid.UUID) error {
	return c.cache.Delete(ctx, MatchCacheKey(opportunityID))
}

// Stats reports hit/miss counters since process start.
func (c *CachedMatches) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
