package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/serroba/linktrack-go/internal/stats"
)

func (p *PostgresStore) CampaignOwnedActive(ctx context.Context, campaignID, ownerID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM campaigns
			WHERE id = $1 AND owner_id = $2 AND status = 'ACTIVE'
		)
	`

	var owned bool

	err := p.pool.QueryRow(ctx, query, campaignID, ownerID).Scan(&owned)

	return owned, err
}

func (p *PostgresStore) CampaignKPI(ctx context.Context, campaignID int64, w stats.Window) (*stats.KPI, error) {
	query := `
		SELECT
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $2 AND c.clicked_at < $3) AS today_clicks,
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $4 AND c.clicked_at < $5) AS range_clicks,
			COUNT(c.id)                                                          AS total_clicks,
			COUNT(DISTINCT l.id) FILTER (WHERE l.status = 'ACTIVE')              AS active_links
		FROM links l
		LEFT JOIN click_events c ON c.link_id = l.id
		WHERE l.campaign_id = $1
	`

	var kpi stats.KPI

	err := p.pool.QueryRow(ctx, query,
		campaignID, w.TodayStart, w.TomorrowStart, w.RangeStart, w.RangeEnd,
	).Scan(&kpi.TodayClicks, &kpi.RangeClicks, &kpi.TotalClicks, &kpi.ActiveLinks)
	if err != nil {
		return nil, err
	}

	return &kpi, nil
}

// CombinationStats anchors on ACTIVE links so every live (creator, channel)
// pair appears even with zero clicks.
func (p *PostgresStore) CombinationStats(
	ctx context.Context, campaignID int64, w stats.Window,
) ([]stats.CombinationRow, error) {
	query := `
		SELECT
			cr.id,
			cr.name,
			ch.id,
			ch.display_name,
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $2 AND c.clicked_at < $3) AS today_clicks,
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $4 AND c.clicked_at < $5) AS range_clicks,
			COUNT(c.id)                                                          AS total_clicks
		FROM links l
		JOIN creators cr ON cr.id = l.creator_id
		JOIN channels ch ON ch.id = l.channel_id
		LEFT JOIN click_events c ON c.link_id = l.id
		WHERE l.campaign_id = $1 AND l.status = 'ACTIVE'
		GROUP BY cr.id, cr.name, ch.id, ch.display_name
		ORDER BY today_clicks DESC, range_clicks DESC, cr.id ASC, ch.id ASC
	`

	rows, err := p.pool.Query(ctx, query,
		campaignID, w.TodayStart, w.TomorrowStart, w.RangeStart, w.RangeEnd,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (stats.CombinationRow, error) {
		var r stats.CombinationRow

		err := row.Scan(
			&r.CreatorID,
			&r.CreatorName,
			&r.ChannelID,
			&r.ChannelName,
			&r.TodayClicks,
			&r.RangeClicks,
			&r.TotalClicks,
		)

		return r, err
	})
}

// ChannelRanking anchors on click events, so channels without clicks in the
// range are omitted entirely. Only clicks on ACTIVE links count.
func (p *PostgresStore) ChannelRanking(
	ctx context.Context, campaignID int64, w stats.Window, limit int,
) ([]stats.ChannelRank, error) {
	query := `
		SELECT ch.id, ch.display_name, COUNT(c.id) AS clicks
		FROM click_events c
		JOIN links l ON l.id = c.link_id
		JOIN channels ch ON ch.id = l.channel_id
		WHERE l.campaign_id = $1 AND l.status = 'ACTIVE'
			AND c.clicked_at >= $2 AND c.clicked_at < $3
		GROUP BY ch.id, ch.display_name
		ORDER BY clicks DESC, ch.id ASC
		LIMIT $4
	`

	rows, err := p.pool.Query(ctx, query, campaignID, w.RangeStart, w.RangeEnd, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (stats.ChannelRank, error) {
		var r stats.ChannelRank

		err := row.Scan(&r.ChannelID, &r.ChannelName, &r.Clicks)

		return r, err
	})
}

func (p *PostgresStore) CreatorTotals(
	ctx context.Context, ownerID int64, dayStart, dayEnd time.Time,
) ([]stats.CreatorTotals, error) {
	query := `
		SELECT
			cr.id,
			cr.name,
			COUNT(c.id)                                                          AS total_clicks,
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $2 AND c.clicked_at < $3) AS today_clicks
		FROM creators cr
		LEFT JOIN links l ON l.creator_id = cr.id
		LEFT JOIN click_events c ON c.link_id = l.id
		WHERE cr.owner_id = $1 AND cr.status = 'ACTIVE'
		GROUP BY cr.id, cr.name
		ORDER BY total_clicks DESC, cr.id ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (stats.CreatorTotals, error) {
		var r stats.CreatorTotals

		err := row.Scan(&r.CreatorID, &r.CreatorName, &r.TotalClicks, &r.TodayClicks)

		return r, err
	})
}

func (p *PostgresStore) CampaignTotals(
	ctx context.Context, ownerID int64, dayStart, dayEnd time.Time,
) ([]stats.CampaignTotals, error) {
	query := `
		SELECT
			cp.id,
			cp.name,
			COUNT(c.id)                                                          AS total_clicks,
			COUNT(c.id) FILTER (WHERE c.clicked_at >= $2 AND c.clicked_at < $3) AS today_clicks
		FROM campaigns cp
		LEFT JOIN links l ON l.campaign_id = cp.id
		LEFT JOIN click_events c ON c.link_id = l.id
		WHERE cp.owner_id = $1 AND cp.status = 'ACTIVE'
		GROUP BY cp.id, cp.name
		ORDER BY total_clicks DESC, cp.id ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (stats.CampaignTotals, error) {
		var r stats.CampaignTotals

		err := row.Scan(&r.CampaignID, &r.CampaignName, &r.TotalClicks, &r.TodayClicks)

		return r, err
	})
}

func (p *PostgresStore) OwnerClicksBetween(
	ctx context.Context, ownerID int64, start, end time.Time,
) (int64, error) {
	query := `
		SELECT COUNT(c.id)
		FROM click_events c
		JOIN links l ON l.id = c.link_id
		JOIN campaigns cp ON cp.id = l.campaign_id
		WHERE cp.owner_id = $1 AND l.status = 'ACTIVE' AND cp.status = 'ACTIVE'
			AND c.clicked_at >= $2 AND c.clicked_at < $3
	`

	var count int64

	err := p.pool.QueryRow(ctx, query, ownerID, start, end).Scan(&count)

	return count, err
}

// Compile-time check.
var _ stats.Repository = (*PostgresStore)(nil)
