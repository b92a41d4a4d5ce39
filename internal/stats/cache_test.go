package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/linktrack-go/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepository serves canned rows and counts how often each query runs.
type fakeRepository struct {
	combinations     []stats.CombinationRow
	ranking          []stats.ChannelRank
	combinationCalls int
	rankingCalls     int
	kpiCalls         int
	queryErr         error
}

func (f *fakeRepository) CampaignOwnedActive(_ context.Context, _, _ int64) (bool, error) {
	return true, nil
}

func (f *fakeRepository) CampaignKPI(_ context.Context, _ int64, _ stats.Window) (*stats.KPI, error) {
	f.kpiCalls++

	return &stats.KPI{TotalClicks: 7}, nil
}

func (f *fakeRepository) CombinationStats(_ context.Context, _ int64, _ stats.Window) ([]stats.CombinationRow, error) {
	f.combinationCalls++

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return f.combinations, nil
}

func (f *fakeRepository) ChannelRanking(_ context.Context, _ int64, _ stats.Window, _ int) ([]stats.ChannelRank, error) {
	f.rankingCalls++

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return f.ranking, nil
}

func (f *fakeRepository) CreatorTotals(_ context.Context, _ int64, _, _ time.Time) ([]stats.CreatorTotals, error) {
	return nil, nil
}

func (f *fakeRepository) CampaignTotals(_ context.Context, _ int64, _, _ time.Time) ([]stats.CampaignTotals, error) {
	return nil, nil
}

func (f *fakeRepository) OwnerClicksBetween(_ context.Context, _ int64, _, _ time.Time) (int64, error) {
	return 0, nil
}

// fakeCache is a map-backed stats.CacheStore with fault injection.
type fakeCache struct {
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}

	value, ok := f.entries[key]
	if !ok {
		return "", stats.ErrCacheMiss
	}

	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}

	f.entries[key] = value
	f.ttls[key] = ttl

	return nil
}

func testWindow() stats.Window {
	rangeStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	todayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	return stats.Window{
		TodayStart:    todayStart,
		TomorrowStart: todayStart.AddDate(0, 0, 1),
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
	}
}

func enabledConfig() stats.CacheConfig {
	return stats.CacheConfig{Enabled: true, TTL: time.Minute, Timeout: 100 * time.Millisecond}
}

func TestCachedRepository_CombinationStats(t *testing.T) {
	rows := []stats.CombinationRow{
		{CreatorID: 1, CreatorName: "Creator 1", ChannelID: 2, ChannelName: "Instagram Story", TodayClicks: 3},
	}

	t.Run("miss computes and stores, hit skips the repository", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		first, err := cached.CombinationStats(context.Background(), 1, testWindow())

		require.NoError(t, err)
		assert.Equal(t, rows, first)
		assert.Equal(t, 1, repo.combinationCalls)

		second, err := cached.CombinationStats(context.Background(), 1, testWindow())

		require.NoError(t, err)
		assert.Equal(t, rows, second)
		assert.Equal(t, 1, repo.combinationCalls, "hit must not recompute")
	})

	t.Run("uses the campaign and range in the key", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		_, err := cached.CombinationStats(context.Background(), 42, testWindow())

		require.NoError(t, err)
		// The key carries the caller's inclusive `to`, not the exclusive
		// window bound one day past it.
		assert.Contains(t, cache.entries, "stats:comb:42:2026-08-01:2026-08-31")
		assert.Equal(t, time.Minute, cache.ttls["stats:comb:42:2026-08-01:2026-08-31"])
	})

	t.Run("disabled cache always computes", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cfg := enabledConfig()
		cfg.Enabled = false
		cached := stats.NewCachedRepository(repo, cache, cfg, zap.NewNop())

		_, err := cached.CombinationStats(context.Background(), 1, testWindow())
		require.NoError(t, err)

		_, err = cached.CombinationStats(context.Background(), 1, testWindow())
		require.NoError(t, err)

		assert.Equal(t, 2, repo.combinationCalls)
		assert.Empty(t, cache.entries)
	})

	t.Run("corrupt entry behaves as a miss", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cache.entries["stats:comb:1:2026-08-01:2026-08-31"] = "{not json"
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		result, err := cached.CombinationStats(context.Background(), 1, testWindow())

		require.NoError(t, err)
		assert.Equal(t, rows, result)
		assert.Equal(t, 1, repo.combinationCalls)
	})

	t.Run("cache get failure downgrades to a miss", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cache.getErr = errors.New("cache down")
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		result, err := cached.CombinationStats(context.Background(), 1, testWindow())

		require.NoError(t, err)
		assert.Equal(t, rows, result)
	})

	t.Run("cache set failure is swallowed", func(t *testing.T) {
		repo := &fakeRepository{combinations: rows}
		cache := newFakeCache()
		cache.setErr = errors.New("cache down")
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		result, err := cached.CombinationStats(context.Background(), 1, testWindow())

		require.NoError(t, err)
		assert.Equal(t, rows, result)
	})

	t.Run("repository errors pass through uncached", func(t *testing.T) {
		repo := &fakeRepository{queryErr: errors.New("query failed")}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		_, err := cached.CombinationStats(context.Background(), 1, testWindow())

		assert.Error(t, err)
		assert.Empty(t, cache.entries)
	})
}

func TestCachedRepository_ChannelRanking(t *testing.T) {
	ranks := []stats.ChannelRank{{ChannelID: 2, ChannelName: "Instagram Story", Clicks: 9}}

	t.Run("caches per limit", func(t *testing.T) {
		repo := &fakeRepository{ranking: ranks}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		_, err := cached.ChannelRanking(context.Background(), 7, testWindow(), 10)
		require.NoError(t, err)

		_, err = cached.ChannelRanking(context.Background(), 7, testWindow(), 5)
		require.NoError(t, err)

		assert.Equal(t, 2, repo.rankingCalls, "different limits are different entries")
		assert.Contains(t, cache.entries, "stats:rank:7:2026-08-01:2026-08-31:10")
		assert.Contains(t, cache.entries, "stats:rank:7:2026-08-01:2026-08-31:5")
	})

	t.Run("hit returns the cached ranking", func(t *testing.T) {
		repo := &fakeRepository{ranking: ranks}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		_, err := cached.ChannelRanking(context.Background(), 7, testWindow(), 10)
		require.NoError(t, err)

		result, err := cached.ChannelRanking(context.Background(), 7, testWindow(), 10)

		require.NoError(t, err)
		assert.Equal(t, ranks, result)
		assert.Equal(t, 1, repo.rankingCalls)
	})
}

func TestCachedRepository_Passthrough(t *testing.T) {
	t.Run("KPI bypasses the cache", func(t *testing.T) {
		repo := &fakeRepository{}
		cache := newFakeCache()
		cached := stats.NewCachedRepository(repo, cache, enabledConfig(), zap.NewNop())

		for range 3 {
			kpi, err := cached.CampaignKPI(context.Background(), 1, testWindow())

			require.NoError(t, err)
			assert.Equal(t, int64(7), kpi.TotalClicks)
		}

		assert.Equal(t, 3, repo.kpiCalls)
		assert.Empty(t, cache.entries)
	})
}

func TestDefaultCacheConfig(t *testing.T) {
	cfg := stats.DefaultCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.TTL)
	assert.Equal(t, 150*time.Millisecond, cfg.Timeout)
}

// Ensure the fakes keep satisfying the interfaces as they evolve.
var (
	_ stats.Repository = (*fakeRepository)(nil)
	_ stats.CacheStore = (*fakeCache)(nil)
)
