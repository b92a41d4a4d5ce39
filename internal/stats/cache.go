package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a CacheStore when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the raw key/value backend for cached aggregates.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CacheConfig tunes the cache-aside decorator.
type CacheConfig struct {
	// Enabled false makes every lookup behave as a miss.
	Enabled bool
	// TTL bounds staleness; there is no write-time invalidation.
	TTL time.Duration
	// Timeout bounds each cache round trip so a slow cache can never extend
	// response latency beyond its own budget.
	Timeout time.Duration
}

// DefaultCacheConfig returns the production defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Enabled: true, TTL: 60 * time.Second, Timeout: 150 * time.Millisecond}
}

// CachedRepository decorates a stats Repository with a TTL cache around the
// combination matrix and the channel ranking. KPI and ownership checks pass
// straight through. Cache failures of any kind downgrade to a miss; they are
// logged and never surfaced.
type CachedRepository struct {
	next   Repository
	cache  CacheStore
	cfg    CacheConfig
	logger *zap.Logger
}

// NewCachedRepository creates the cache-aside decorator.
func NewCachedRepository(next Repository, cache CacheStore, cfg CacheConfig, logger *zap.Logger) *CachedRepository {
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 150 * time.Millisecond
	}

	return &CachedRepository{next: next, cache: cache, cfg: cfg, logger: logger}
}

func (c *CachedRepository) CampaignOwnedActive(ctx context.Context, campaignID, ownerID int64) (bool, error) {
	return c.next.CampaignOwnedActive(ctx, campaignID, ownerID)
}

func (c *CachedRepository) CampaignKPI(ctx context.Context, campaignID int64, w Window) (*KPI, error) {
	return c.next.CampaignKPI(ctx, campaignID, w)
}

func (c *CachedRepository) CombinationStats(ctx context.Context, campaignID int64, w Window) ([]CombinationRow, error) {
	key := combinationKey(campaignID, w)

	return lookup(ctx, c, key, func(ctx context.Context) ([]CombinationRow, error) {
		return c.next.CombinationStats(ctx, campaignID, w)
	})
}

func (c *CachedRepository) ChannelRanking(ctx context.Context, campaignID int64, w Window, limit int) ([]ChannelRank, error) {
	key := rankingKey(campaignID, w, limit)

	return lookup(ctx, c, key, func(ctx context.Context) ([]ChannelRank, error) {
		return c.next.ChannelRanking(ctx, campaignID, w, limit)
	})
}

func (c *CachedRepository) CreatorTotals(ctx context.Context, ownerID int64, dayStart, dayEnd time.Time) ([]CreatorTotals, error) {
	return c.next.CreatorTotals(ctx, ownerID, dayStart, dayEnd)
}

func (c *CachedRepository) CampaignTotals(ctx context.Context, ownerID int64, dayStart, dayEnd time.Time) ([]CampaignTotals, error) {
	return c.next.CampaignTotals(ctx, ownerID, dayStart, dayEnd)
}

func (c *CachedRepository) OwnerClicksBetween(ctx context.Context, ownerID int64, start, end time.Time) (int64, error) {
	return c.next.OwnerClicksBetween(ctx, ownerID, start, end)
}

// lookup is the typed get-or-compute. Each query shape keeps its own result
// type; the cache never hands back an untyped payload.
func lookup[T any](ctx context.Context, c *CachedRepository, key string, compute func(context.Context) (T, error)) (T, error) {
	if c.cfg.Enabled {
		if cached, ok := cacheGet[T](ctx, c, key); ok {
			return cached, nil
		}
	}

	result, err := compute(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	if c.cfg.Enabled {
		c.cacheSet(ctx, key, result)
	}

	return result, nil
}

func cacheGet[T any](ctx context.Context, c *CachedRepository, key string) (T, bool) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("stats cache get failed", zap.String("key", key), zap.Error(err))
		}

		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// Corrupt entries behave as misses; the entry ages out via TTL.
		c.logger.Warn("stats cache entry undecodable", zap.String("key", key), zap.Error(err))

		return zero, false
	}

	return value, true
}

func (c *CachedRepository) cacheSet(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("stats cache encode failed", zap.String("key", key), zap.Error(err))

		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.cache.Set(ctx, key, string(raw), c.cfg.TTL); err != nil {
		c.logger.Warn("stats cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func combinationKey(campaignID int64, w Window) string {
	return fmt.Sprintf("stats:comb:%d:%s:%s",
		campaignID, w.RangeStart.Format(dateOnly), rangeToDate(w))
}

func rankingKey(campaignID int64, w Window, limit int) string {
	return fmt.Sprintf("stats:rank:%d:%s:%s:%d",
		campaignID, w.RangeStart.Format(dateOnly), rangeToDate(w), limit)
}

// rangeToDate renders the caller's inclusive `to` date; RangeEnd itself is the
// exclusive bound one day past it.
func rangeToDate(w Window) string {
	return w.RangeEnd.AddDate(0, 0, -1).Format(dateOnly)
}

// Compile-time check.
var _ Repository = (*CachedRepository)(nil)
