package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/feature/scan/domain/entity"
	"clickcoin_backend/internal/feature/scan/usecase"
)

var _ usecase.ResultCache = (*ScanResultCache)(nil)

// ScanResultCache stores scan results as JSON strings under caller-supplied keys.
type ScanResultCache struct {
	store jsonStore
}

// NewScanResultCache returns a ScanResultCache backed by rdb.
func NewScanResultCache(rdb *redis.Client) *ScanResultCache {
	return &ScanResultCache{store: jsonStore{rdb: rdb}}
}

// Get returns the cached result for key, or ok=false on a miss.
func (c *ScanResultCache) Get(ctx context.Context, key string) (*entity.ScanResult, bool, error) {
	var res entity.ScanResult
	ok, err := c.store.get(ctx, key, &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return &res, true, nil
}

// Set stores res under key for ttl.
func (c *ScanResultCache) Set(ctx context.Context, key string, res *entity.ScanResult, ttl time.Duration) error {
	return c.store.set(ctx, key, res, ttl)
}
