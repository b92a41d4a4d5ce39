// Package seed bulk-creates realistic fixture and click data for load
// testing. It is an admin-only utility; nothing on the production request
// path depends on it.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/tracking"
	"go.uber.org/zap"
)

// ErrNoActiveLinks is returned by click seeding when the campaign has no
// ACTIVE links to attribute clicks to.
var ErrNoActiveLinks = errors.New("campaign has no active links")

// linkBatchSize bounds the link buffer flushed per round trip.
const linkBatchSize = 5000

// minClickBatch is the smallest click insert batch; smaller requests are
// rounded up to keep round trips bounded.
const minClickBatch = 1000

var (
	platforms  = []string{"Instagram", "YouTube", "Blog", "TikTok", "X"}
	placements = []string{"Story", "Feed", "Description", "Body", "Bio"}
)

// Store is the bulk-write surface the seeder needs from the durable store.
type Store interface {
	// Reset deletes every row of every table. Test environments only.
	Reset(ctx context.Context) error
	BulkInsertLinks(ctx context.Context, links []tracking.Link) error
	BulkInsertClicks(ctx context.Context, clicks []tracking.ClickEvent) (int64, error)
	ActiveLinkIDs(ctx context.Context, campaignID int64) ([]int64, error)
	ActiveSlugs(ctx context.Context, limit int) ([]string, error)
}

// Seeder generates fixtures and skewed click traffic. The random source is
// injected so skew and uniform-fallback behavior are reproducible in tests.
type Seeder struct {
	store    Store
	entities catalog.Repository
	rng      *rand.Rand
	loc      *time.Location
	logger   *zap.Logger
}

// NewSeeder creates a seeder. loc is the business time zone click timestamps
// are distributed in.
func NewSeeder(store Store, entities catalog.Repository, rng *rand.Rand, loc *time.Location, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, entities: entities, rng: rng, loc: loc, logger: logger}
}

// Reset wipes all data.
func (s *Seeder) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

// FixtureParams configures fixture seeding for a single owner.
type FixtureParams struct {
	OwnerEmail      string
	OwnerName       string
	Campaigns       int
	Creators        int
	Channels        int
	LinksPerCreator int
	// InactiveRatio is the fraction of created links flipped to INACTIVE,
	// clamped to [0, 0.99].
	InactiveRatio float64
	LandingURL    string
}

// FixtureResult reports what was created. CampaignID is the first campaign,
// ready to be fed into click seeding.
type FixtureResult struct {
	OwnerID              int64   `json:"ownerId"`
	CampaignID           int64   `json:"campaignId"`
	Campaigns            int     `json:"campaigns"`
	Creators             int     `json:"creators"`
	Channels             int     `json:"channels"`
	LinksTotal           int     `json:"linksTotal"`
	LinksActive          int     `json:"linksActive"`
	LinksInactive        int     `json:"linksInactive"`
	InactiveRatioApplied float64 `json:"inactiveRatioApplied"`
}

// SeedFixtures bulk-creates campaigns, creators, channels and links for one
// owner. Each creator receives a distinct subset of channels (drawn without
// replacement) so the one-ACTIVE-link-per-triple invariant holds, and a
// configurable fraction of links is created INACTIVE to exercise
// status-filtered paths.
func (s *Seeder) SeedFixtures(ctx context.Context, p FixtureParams) (*FixtureResult, error) {
	owner, err := s.entities.GetOwnerByEmail(ctx, p.OwnerEmail)
	if errors.Is(err, catalog.ErrNotFound) {
		owner = &catalog.Owner{Email: p.OwnerEmail, Name: p.OwnerName, CreatedAt: time.Now()}
		err = s.entities.CreateOwner(ctx, owner)
	}

	if err != nil {
		return nil, fmt.Errorf("seed owner: %w", err)
	}

	now := time.Now()

	campaigns := make([]*catalog.Campaign, 0, p.Campaigns)
	for i := 0; i < p.Campaigns; i++ {
		campaign := &catalog.Campaign{
			OwnerID:     owner.ID,
			Name:        fmt.Sprintf("Campaign %d", i+1),
			Description: "seed",
			LandingURL:  p.LandingURL,
			StartDate:   now.AddDate(0, 0, -30),
			EndDate:     now.AddDate(0, 0, 30),
			Status:      catalog.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.entities.CreateCampaign(ctx, campaign); err != nil {
			return nil, fmt.Errorf("seed campaign: %w", err)
		}

		campaigns = append(campaigns, campaign)
	}

	if len(campaigns) == 0 {
		return nil, fmt.Errorf("at least one campaign is required")
	}

	creators := make([]*catalog.Creator, 0, p.Creators)
	for i := 0; i < p.Creators; i++ {
		creator := &catalog.Creator{
			OwnerID:     owner.ID,
			Name:        fmt.Sprintf("Creator %d", i+1),
			ChannelName: fmt.Sprintf("ChannelName %d", i+1),
			ChannelURL:  fmt.Sprintf("https://example.com/creator/%d", i+1),
			Note:        "seed",
			Status:      catalog.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.entities.CreateCreator(ctx, creator); err != nil {
			return nil, fmt.Errorf("seed creator: %w", err)
		}

		creators = append(creators, creator)
	}

	// Channels come from distinct (platform, placement) combinations, so the
	// requested count is capped at the number of combinations.
	channelCount := p.Channels
	if max := len(platforms) * len(placements); channelCount > max {
		s.logger.Warn("channel count capped at distinct identities",
			zap.Int("requested", p.Channels),
			zap.Int("capped", max),
		)
		channelCount = max
	}

	channels := make([]*catalog.Channel, 0, channelCount)
	for i := 0; i < channelCount; i++ {
		platform := platforms[i/len(placements)]
		placement := placements[i%len(placements)]
		channel := &catalog.Channel{
			OwnerID:     owner.ID,
			Platform:    platform,
			Placement:   placement,
			DisplayName: catalog.DefaultChannelDisplayName(platform, placement),
			Note:        "seed",
			Status:      catalog.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.entities.CreateChannel(ctx, channel); err != nil {
			return nil, fmt.Errorf("seed channel: %w", err)
		}

		channels = append(channels, channel)
	}

	campaign := campaigns[0]

	linksPerCreator := p.LinksPerCreator
	if linksPerCreator > len(channels) {
		s.logger.Warn("links per creator capped at channel count",
			zap.Int("requested", p.LinksPerCreator),
			zap.Int("capped", len(channels)),
		)
		linksPerCreator = len(channels)
	}

	inactiveRatio := min(max(p.InactiveRatio, 0), 0.99)

	var active, inactive int

	buffer := make([]tracking.Link, 0, linkBatchSize)

	for _, creator := range creators {
		// A fresh shuffle per creator; taking the leading subset draws
		// channels without replacement.
		shuffled := make([]*catalog.Channel, len(channels))
		copy(shuffled, channels)
		s.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for j := 0; j < linksPerCreator; j++ {
			status := catalog.StatusActive
			if s.rng.Float64() < inactiveRatio {
				status = catalog.StatusInactive
				inactive++
			} else {
				active++
			}

			buffer = append(buffer, tracking.Link{
				CampaignID:     campaign.ID,
				CreatorID:      creator.ID,
				ChannelID:      shuffled[j].ID,
				Slug:           s.seedSlug(),
				DestinationURL: p.LandingURL,
				Status:         status,
				CreatedAt:      now,
			})

			if len(buffer) >= linkBatchSize {
				if err := s.store.BulkInsertLinks(ctx, buffer); err != nil {
					return nil, fmt.Errorf("seed links: %w", err)
				}

				buffer = buffer[:0]
			}
		}
	}

	if len(buffer) > 0 {
		if err := s.store.BulkInsertLinks(ctx, buffer); err != nil {
			return nil, fmt.Errorf("seed links: %w", err)
		}
	}

	return &FixtureResult{
		OwnerID:              owner.ID,
		CampaignID:           campaign.ID,
		Campaigns:            len(campaigns),
		Creators:             len(creators),
		Channels:             len(channels),
		LinksTotal:           active + inactive,
		LinksActive:          active,
		LinksInactive:        inactive,
		InactiveRatioApplied: inactiveRatio,
	}, nil
}

// ClickParams configures synthetic click generation against an existing
// campaign's ACTIVE links.
type ClickParams struct {
	CampaignID int64
	TotalRows  int
	BatchSize  int
	// Clicks are spread uniformly over days [DaysBackTo, DaysBackFrom] before
	// today, e.g. 90/30 distributes over the 30-to-90-days-ago window.
	DaysBackFrom int
	DaysBackTo   int
	// SkewRatio is the fraction of clicks aimed at the hot subset; the rest
	// draw uniformly from all active links.
	SkewRatio float64
	// HotLinks is the size of the randomly chosen hot subset.
	HotLinks int
}

// ClickResult reports rows inserted and wall time spent.
type ClickResult struct {
	Inserted int64         `json:"inserted"`
	Elapsed  time.Duration `json:"-"`
}

// SeedClicks bulk-inserts click events in fixed-size batches.
func (s *Seeder) SeedClicks(ctx context.Context, p ClickParams) (*ClickResult, error) {
	start := time.Now()

	linkIDs, err := s.store.ActiveLinkIDs(ctx, p.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("load active links: %w", err)
	}

	if len(linkIDs) == 0 {
		return nil, ErrNoActiveLinks
	}

	hot := s.pickHotLinks(linkIDs, p.HotLinks)

	daysFar := max(p.DaysBackFrom, p.DaysBackTo)
	daysNear := min(p.DaysBackFrom, p.DaysBackTo)

	today := s.startOfToday()
	batchSize := max(p.BatchSize, minClickBatch)

	var inserted int64

	for offset := 0; offset < p.TotalRows; offset += batchSize {
		size := min(batchSize, p.TotalRows-offset)
		batch := make([]tracking.ClickEvent, size)

		for i := range batch {
			linkID := linkIDs[s.rng.IntN(len(linkIDs))]
			if p.SkewRatio > 0 && len(hot) > 0 && s.rng.Float64() < p.SkewRatio {
				linkID = hot[s.rng.IntN(len(hot))]
			}

			daysBack := daysNear + s.rng.IntN(daysFar-daysNear+1)
			clickedAt := today.AddDate(0, 0, -daysBack).
				Add(time.Duration(s.rng.IntN(24*60*60)) * time.Second)

			batch[i] = tracking.ClickEvent{LinkID: linkID, ClickedAt: clickedAt}
		}

		n, err := s.store.BulkInsertClicks(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("insert click batch: %w", err)
		}

		inserted += n
	}

	elapsed := time.Since(start)
	s.logger.Info("seeded click events",
		zap.Int64("campaignId", p.CampaignID),
		zap.Int64("inserted", inserted),
		zap.Duration("elapsed", elapsed),
	)

	return &ClickResult{Inserted: inserted, Elapsed: elapsed}, nil
}

// ActiveSlugs lists ACTIVE slugs for load-test clients to hammer.
func (s *Seeder) ActiveSlugs(ctx context.Context, limit int) ([]string, error) {
	return s.store.ActiveSlugs(ctx, limit)
}

// pickHotLinks draws a random subset; over-representing any subset is enough
// to reproduce real-world click skew.
func (s *Seeder) pickHotLinks(linkIDs []int64, k int) []int64 {
	if k <= 0 {
		return nil
	}

	k = min(k, len(linkIDs))

	shuffled := make([]int64, len(linkIDs))
	copy(shuffled, linkIDs)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:k]
}

func (s *Seeder) startOfToday() time.Time {
	now := time.Now().In(s.loc)

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// seedSlug generates slugs long enough that collisions are practically
// impossible, so bulk loads never need retry handling.
func (s *Seeder) seedSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}
