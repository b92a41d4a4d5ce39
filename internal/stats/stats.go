package stats

import (
	"context"
	"time"
)

// KPI is the top-line click summary for one campaign.
type KPI struct {
	TodayClicks int64 `json:"todayClicks"`
	RangeClicks int64 `json:"rangeClicks"`
	TotalClicks int64 `json:"totalClicks"`
	ActiveLinks int64 `json:"activeLinks"`
}

// CombinationRow is one (creator, channel) cell of the combination matrix.
// Pairs with an ACTIVE link but zero clicks still appear with zero counts.
type CombinationRow struct {
	CreatorID   int64  `json:"creatorId"`
	CreatorName string `json:"creatorName"`
	ChannelID   int64  `json:"channelId"`
	ChannelName string `json:"channelName"`
	TodayClicks int64  `json:"todayClicks"`
	RangeClicks int64  `json:"rangeClicks"`
	TotalClicks int64  `json:"totalClicks"`
}

// ChannelRank is one row of the channel ranking. Channels without clicks in
// range are omitted.
type ChannelRank struct {
	ChannelID   int64  `json:"channelId"`
	ChannelName string `json:"channelName"`
	Clicks      int64  `json:"clicks"`
}

// CreatorTotals is the per-creator owner dashboard row.
type CreatorTotals struct {
	CreatorID   int64  `json:"creatorId"`
	CreatorName string `json:"creatorName"`
	TotalClicks int64  `json:"totalClicks"`
	TodayClicks int64  `json:"todayClicks"`
}

// CampaignTotals is the per-campaign owner dashboard row.
type CampaignTotals struct {
	CampaignID   int64  `json:"campaignId"`
	CampaignName string `json:"campaignName"`
	TotalClicks  int64  `json:"totalClicks"`
	TodayClicks  int64  `json:"todayClicks"`
}

// Window carries materialized half-open time bounds. The service computes all
// of them in the business time zone so every Repository implementation counts
// the same "today".
type Window struct {
	TodayStart    time.Time
	TomorrowStart time.Time
	RangeStart    time.Time
	RangeEnd      time.Time // exclusive: start of the day after "to"
}

// Repository answers the aggregation queries over links and click events.
type Repository interface {
	// CampaignOwnedActive reports whether the owner holds an ACTIVE campaign
	// with the given id.
	CampaignOwnedActive(ctx context.Context, campaignID, ownerID int64) (bool, error)
	CampaignKPI(ctx context.Context, campaignID int64, w Window) (*KPI, error)
	CombinationStats(ctx context.Context, campaignID int64, w Window) ([]CombinationRow, error)
	ChannelRanking(ctx context.Context, campaignID int64, w Window, limit int) ([]ChannelRank, error)

	CreatorTotals(ctx context.Context, ownerID int64, dayStart, dayEnd time.Time) ([]CreatorTotals, error)
	CampaignTotals(ctx context.Context, ownerID int64, dayStart, dayEnd time.Time) ([]CampaignTotals, error)
	OwnerClicksBetween(ctx context.Context, ownerID int64, start, end time.Time) (int64, error)
}
