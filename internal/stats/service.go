package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
)

// DefaultTimezone is the business time zone "today" is computed against.
const DefaultTimezone = "Asia/Seoul"

const (
	dateOnly     = "2006-01-02"
	defaultLimit = 10
	maxLimit     = 50
)

// ErrBadRange is returned when from/to are missing or from is after to.
var ErrBadRange = errors.New("invalid date range")

// ClampLimit normalizes a ranking limit: non-positive input defaults to 10,
// anything above 50 is capped at 50.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

// Service is the aggregation engine. It validates inputs, resolves the
// business-time-zone window and authorizes the owner before any query runs.
type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService creates the aggregation service. loc is the business time zone.
func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// KPI returns today/range/total clicks and the ACTIVE link count for a
// campaign over the inclusive date range [from, to].
func (s *Service) KPI(ctx context.Context, campaignID, ownerID int64, from, to time.Time) (*KPI, error) {
	w, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}

	return s.repo.CampaignKPI(ctx, campaignID, w)
}

// Combinations returns one row per (creator, channel) pair with at least one
// ACTIVE link under the campaign, zero-click pairs included.
func (s *Service) Combinations(ctx context.Context, campaignID, ownerID int64, from, to time.Time) ([]CombinationRow, error) {
	w, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}

	return s.repo.CombinationStats(ctx, campaignID, w)
}

// Ranking returns the top-N channels by clicks within the range. Channels
// with zero clicks in range are omitted.
func (s *Service) Ranking(ctx context.Context, campaignID, ownerID int64, from, to time.Time, limit int) ([]ChannelRank, error) {
	w, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}

	return s.repo.ChannelRanking(ctx, campaignID, w, ClampLimit(limit))
}

// CreatorStats returns per-creator click totals for an owner's dashboard.
func (s *Service) CreatorStats(ctx context.Context, ownerID int64) ([]CreatorTotals, error) {
	start, end := s.todayBounds()

	return s.repo.CreatorTotals(ctx, ownerID, start, end)
}

// CampaignStats returns per-campaign click totals for an owner's dashboard.
func (s *Service) CampaignStats(ctx context.Context, ownerID int64) ([]CampaignTotals, error) {
	start, end := s.todayBounds()

	return s.repo.CampaignTotals(ctx, ownerID, start, end)
}

// TodayClicks counts the owner's clicks during the current business day.
func (s *Service) TodayClicks(ctx context.Context, ownerID int64) (int64, error) {
	start, end := s.todayBounds()

	return s.repo.OwnerClicksBetween(ctx, ownerID, start, end)
}

// authorize hides campaigns the owner does not hold (or that are inactive)
// behind a not-found error, never a distinct forbidden.
func (s *Service) authorize(ctx context.Context, campaignID, ownerID int64) error {
	ok, err := s.repo.CampaignOwnedActive(ctx, campaignID, ownerID)
	if err != nil {
		return fmt.Errorf("authorize campaign: %w", err)
	}

	if !ok {
		return catalog.ErrNotFound
	}

	return nil
}

func (s *Service) window(from, to time.Time) (Window, error) {
	if from.IsZero() || to.IsZero() {
		return Window{}, fmt.Errorf("%w: from and to are required", ErrBadRange)
	}

	rangeStart := s.startOfDay(from)
	rangeEnd := s.startOfDay(to).AddDate(0, 0, 1)

	if rangeStart.After(rangeEnd.AddDate(0, 0, -1)) {
		return Window{}, fmt.Errorf("%w: from is after to", ErrBadRange)
	}

	todayStart, tomorrowStart := s.todayBounds()

	return Window{
		TodayStart:    todayStart,
		TomorrowStart: tomorrowStart,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
	}, nil
}

func (s *Service) todayBounds() (time.Time, time.Time) {
	start := s.startOfDay(time.Now().In(s.loc))

	return start, start.AddDate(0, 0, 1)
}

// startOfDay re-anchors a parsed calendar date at midnight in the business
// time zone, regardless of the location it was parsed in.
func (s *Service) startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}
