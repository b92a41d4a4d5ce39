package store

import (
	"context"
	"sort"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/stats"
)

func (m *MemoryStore) CampaignOwnedActive(_ context.Context, campaignID, ownerID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	campaign, ok := m.campaigns[campaignID]

	return ok && campaign.OwnerID == ownerID && campaign.Status == catalog.StatusActive, nil
}

func (m *MemoryStore) CampaignKPI(_ context.Context, campaignID int64, w stats.Window) (*stats.KPI, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var kpi stats.KPI

	campaignLinks := make(map[int64]struct{})

	for _, link := range m.links {
		if link.CampaignID != campaignID {
			continue
		}

		campaignLinks[link.ID] = struct{}{}

		if link.Status == catalog.StatusActive {
			kpi.ActiveLinks++
		}
	}

	for _, click := range m.clicks {
		if _, ok := campaignLinks[click.LinkID]; !ok {
			continue
		}

		kpi.TotalClicks++

		if within(click.ClickedAt, w.TodayStart, w.TomorrowStart) {
			kpi.TodayClicks++
		}

		if within(click.ClickedAt, w.RangeStart, w.RangeEnd) {
			kpi.RangeClicks++
		}
	}

	return &kpi, nil
}

func (m *MemoryStore) CombinationStats(
	_ context.Context, campaignID int64, w stats.Window,
) ([]stats.CombinationRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// One row per ACTIVE link; the combination is unique per active link.
	rowByLink := make(map[int64]*stats.CombinationRow)

	for _, link := range m.links {
		if link.CampaignID != campaignID || link.Status != catalog.StatusActive {
			continue
		}

		creator := m.creators[link.CreatorID]
		channel := m.channels[link.ChannelID]
		rowByLink[link.ID] = &stats.CombinationRow{
			CreatorID:   creator.ID,
			CreatorName: creator.Name,
			ChannelID:   channel.ID,
			ChannelName: channel.DisplayName,
		}
	}

	for _, click := range m.clicks {
		row, ok := rowByLink[click.LinkID]
		if !ok {
			continue
		}

		row.TotalClicks++

		if within(click.ClickedAt, w.TodayStart, w.TomorrowStart) {
			row.TodayClicks++
		}

		if within(click.ClickedAt, w.RangeStart, w.RangeEnd) {
			row.RangeClicks++
		}
	}

	out := make([]stats.CombinationRow, 0, len(rowByLink))
	for _, row := range rowByLink {
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TodayClicks != b.TodayClicks {
			return a.TodayClicks > b.TodayClicks
		}

		if a.RangeClicks != b.RangeClicks {
			return a.RangeClicks > b.RangeClicks
		}

		if a.CreatorID != b.CreatorID {
			return a.CreatorID < b.CreatorID
		}

		return a.ChannelID < b.ChannelID
	})

	return out, nil
}

func (m *MemoryStore) ChannelRanking(
	_ context.Context, campaignID int64, w stats.Window, limit int,
) ([]stats.ChannelRank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clicksByChannel := make(map[int64]int64)

	for _, click := range m.clicks {
		link, ok := m.links[click.LinkID]
		if !ok || link.CampaignID != campaignID || link.Status != catalog.StatusActive {
			continue
		}

		if within(click.ClickedAt, w.RangeStart, w.RangeEnd) {
			clicksByChannel[link.ChannelID]++
		}
	}

	out := make([]stats.ChannelRank, 0, len(clicksByChannel))

	for channelID, clicks := range clicksByChannel {
		channel := m.channels[channelID]
		out = append(out, stats.ChannelRank{
			ChannelID:   channelID,
			ChannelName: channel.DisplayName,
			Clicks:      clicks,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Clicks != out[j].Clicks {
			return out[i].Clicks > out[j].Clicks
		}

		return out[i].ChannelID < out[j].ChannelID
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (m *MemoryStore) CreatorTotals(
	_ context.Context, ownerID int64, dayStart, dayEnd time.Time,
) ([]stats.CreatorTotals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make(map[int64]*stats.CreatorTotals)

	for _, creator := range m.creators {
		if creator.OwnerID == ownerID && creator.Status == catalog.StatusActive {
			rows[creator.ID] = &stats.CreatorTotals{CreatorID: creator.ID, CreatorName: creator.Name}
		}
	}

	for _, click := range m.clicks {
		link, ok := m.links[click.LinkID]
		if !ok {
			continue
		}

		row, ok := rows[link.CreatorID]
		if !ok {
			continue
		}

		row.TotalClicks++

		if within(click.ClickedAt, dayStart, dayEnd) {
			row.TodayClicks++
		}
	}

	out := make([]stats.CreatorTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalClicks != out[j].TotalClicks {
			return out[i].TotalClicks > out[j].TotalClicks
		}

		return out[i].CreatorID < out[j].CreatorID
	})

	return out, nil
}

func (m *MemoryStore) CampaignTotals(
	_ context.Context, ownerID int64, dayStart, dayEnd time.Time,
) ([]stats.CampaignTotals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make(map[int64]*stats.CampaignTotals)

	for _, campaign := range m.campaigns {
		if campaign.OwnerID == ownerID && campaign.Status == catalog.StatusActive {
			rows[campaign.ID] = &stats.CampaignTotals{CampaignID: campaign.ID, CampaignName: campaign.Name}
		}
	}

	for _, click := range m.clicks {
		link, ok := m.links[click.LinkID]
		if !ok {
			continue
		}

		row, ok := rows[link.CampaignID]
		if !ok {
			continue
		}

		row.TotalClicks++

		if within(click.ClickedAt, dayStart, dayEnd) {
			row.TodayClicks++
		}
	}

	out := make([]stats.CampaignTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalClicks != out[j].TotalClicks {
			return out[i].TotalClicks > out[j].TotalClicks
		}

		return out[i].CampaignID < out[j].CampaignID
	})

	return out, nil
}

func (m *MemoryStore) OwnerClicksBetween(
	_ context.Context, ownerID int64, start, end time.Time,
) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for _, click := range m.clicks {
		link, ok := m.links[click.LinkID]
		if !ok || link.Status != catalog.StatusActive {
			continue
		}

		campaign, ok := m.campaigns[link.CampaignID]
		if !ok || campaign.OwnerID != ownerID || campaign.Status != catalog.StatusActive {
			continue
		}

		if within(click.ClickedAt, start, end) {
			count++
		}
	}

	return count, nil
}

// within reports whether t falls in the half-open interval [start, end).
func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
