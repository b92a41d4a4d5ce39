package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/serroba/linktrack-go/internal/seed"
	"github.com/serroba/linktrack-go/internal/tracking"
)

// Reset truncates every table and restarts identity sequences. Guarded behind
// the test-only admin surface.
func (p *PostgresStore) Reset(ctx context.Context) error {
	query := `
		TRUNCATE click_events, links, channels, creators, campaigns, owners
		RESTART IDENTITY CASCADE
	`

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}

	return nil
}

// BulkInsertLinks loads links via the COPY protocol. Seed slugs are long
// random strings, so collision handling is not needed here.
func (p *PostgresStore) BulkInsertLinks(ctx context.Context, links []tracking.Link) error {
	_, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{"links"},
		[]string{"campaign_id", "creator_id", "channel_id", "slug", "destination_url", "status", "created_at"},
		pgx.CopyFromSlice(len(links), func(i int) ([]any, error) {
			l := links[i]

			return []any{
				l.CampaignID, l.CreatorID, l.ChannelID, l.Slug,
				l.DestinationURL, string(l.Status), l.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy links: %w", err)
	}

	return nil
}

// BulkInsertClicks loads click events via the COPY protocol and returns the
// number of rows written.
func (p *PostgresStore) BulkInsertClicks(ctx context.Context, clicks []tracking.ClickEvent) (int64, error) {
	n, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{"click_events"},
		[]string{"link_id", "clicked_at", "client_ip", "user_agent", "referer"},
		pgx.CopyFromSlice(len(clicks), func(i int) ([]any, error) {
			c := clicks[i]

			return []any{c.LinkID, c.ClickedAt, c.ClientIP, c.UserAgent, c.Referer}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy click events: %w", err)
	}

	return n, nil
}

func (p *PostgresStore) ActiveLinkIDs(ctx context.Context, campaignID int64) ([]int64, error) {
	query := `
		SELECT id FROM links
		WHERE campaign_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (p *PostgresStore) ActiveSlugs(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT slug FROM links
		WHERE status = 'ACTIVE'
		ORDER BY id
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Compile-time check.
var _ seed.Store = (*PostgresStore)(nil)
