// Package cache provides Redis caching for candle and scan data.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/feature/candles/domain/entity"
	"clickcoin_backend/internal/feature/candles/usecase"
)

// DefaultCandleNamespace is the key namespace used when none is given.
const DefaultCandleNamespace = "coin_candles"

var _ usecase.CandleStore = (*CachingCandleRepository)(nil)

// CachingCandleRepository decorates a CandleStore with Redis caching.
// Reads go through the cache, writes invalidate every cached page of the
// affected symbol and interval.
type CachingCandleRepository struct {
	inner     usecase.CandleStore
	store     jsonStore
	enabled   bool
	ttl       time.Duration
	namespace string

	// rolloverLoc が設定されている場合、エントリは次の日足確定時刻を越えて残りません。
	rolloverLoc  *time.Location
	rolloverHour int
	now          func() time.Time
}

// NewCachingCandleRepository decorates a CandleStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, DefaultCandleNamespace is used.
// A nil rdb disables caching.
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandleStore, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = DefaultCandleNamespace
	}
	return &CachingCandleRepository{
		inner:     inner,
		store:     jsonStore{rdb: rdb},
		enabled:   rdb != nil,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// ExpireAtRollover caps every entry's TTL at the next hour:00 in loc, when the
// daily candle closes and a fresh one is ingested.
func (c *CachingCandleRepository) ExpireAtRollover(hour int, loc *time.Location) *CachingCandleRepository {
	c.rolloverHour = hour
	c.rolloverLoc = loc
	return c
}

// UpsertBatch inserts or updates candles and invalidates related cache entries.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if !c.enabled || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.keyPrefix(cd.Symbol, cd.Interval)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		if err := c.store.deleteByPattern(ctx, prefix+"*"); err != nil {
			slog.Warn("candle cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
	return nil
}

// Find retrieves candles, checking cache first then falling back to the database.
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if !c.enabled {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}

	key := c.key(symbol, interval, outputsize)

	var out []entity.Candle
	hit, err := c.store.get(ctx, key, &out)
	if err != nil {
		slog.Warn("candle cache read failed", "key", key, "error", err)
	}
	if hit {
		return out, nil
	}

	out, err = c.inner.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}

	if err := c.store.set(ctx, key, out, c.entryTTL()); err != nil {
		slog.Warn("candle cache write failed", "key", key, "error", err)
	}
	return out, nil
}

func (c *CachingCandleRepository) entryTTL() time.Duration {
	if c.rolloverLoc == nil {
		return c.ttl
	}
	return min(c.ttl, TimeUntilNext(c.now(), c.rolloverHour, c.rolloverLoc))
}

func (c *CachingCandleRepository) key(symbol, interval string, outputsize int) string {
	return fmt.Sprintf("%s%d", c.keyPrefix(symbol, interval), outputsize)
}

func (c *CachingCandleRepository) keyPrefix(symbol, interval string) string {
	return fmt.Sprintf("%s:%s:%s:", c.namespace, safe(symbol), safe(interval))
}
