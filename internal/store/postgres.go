package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/tracking"
)

const pgUniqueViolation = "23505"

// PostgresStore is the PostgreSQL implementation of the catalog, link and
// click repositories.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) CreateOwner(ctx context.Context, owner *catalog.Owner) error {
	query := `
		INSERT INTO owners (email, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	return p.pool.QueryRow(ctx, query, owner.Email, owner.Name, owner.CreatedAt).Scan(&owner.ID)
}

func (p *PostgresStore) GetOwner(ctx context.Context, id int64) (*catalog.Owner, error) {
	query := `
		SELECT id, email, name, created_at
		FROM owners
		WHERE id = $1
	`

	var owner catalog.Owner

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&owner.ID, &owner.Email, &owner.Name, &owner.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &owner, nil
}

func (p *PostgresStore) GetOwnerByEmail(ctx context.Context, email string) (*catalog.Owner, error) {
	query := `
		SELECT id, email, name, created_at
		FROM owners
		WHERE email = $1
	`

	var owner catalog.Owner

	err := p.pool.QueryRow(ctx, query, email).Scan(
		&owner.ID, &owner.Email, &owner.Name, &owner.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &owner, nil
}

func (p *PostgresStore) CreateCampaign(ctx context.Context, campaign *catalog.Campaign) error {
	query := `
		INSERT INTO campaigns
			(owner_id, name, description, landing_url, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	return p.pool.QueryRow(ctx, query,
		campaign.OwnerID,
		campaign.Name,
		campaign.Description,
		campaign.LandingURL,
		campaign.StartDate,
		campaign.EndDate,
		string(campaign.Status),
		campaign.CreatedAt,
		campaign.UpdatedAt,
	).Scan(&campaign.ID)
}

func (p *PostgresStore) GetCampaign(ctx context.Context, id int64) (*catalog.Campaign, error) {
	query := `
		SELECT id, owner_id, name, description, landing_url, start_date, end_date, status, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var campaign catalog.Campaign

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.OwnerID,
		&campaign.Name,
		&campaign.Description,
		&campaign.LandingURL,
		&campaign.StartDate,
		&campaign.EndDate,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &campaign, nil
}

func (p *PostgresStore) ListActiveCampaigns(ctx context.Context, ownerID int64) ([]catalog.Campaign, error) {
	query := `
		SELECT id, owner_id, name, description, landing_url, start_date, end_date, status, created_at, updated_at
		FROM campaigns
		WHERE owner_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Campaign, error) {
		var campaign catalog.Campaign

		err := row.Scan(
			&campaign.ID,
			&campaign.OwnerID,
			&campaign.Name,
			&campaign.Description,
			&campaign.LandingURL,
			&campaign.StartDate,
			&campaign.EndDate,
			&campaign.Status,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		)

		return campaign, err
	})
}

func (p *PostgresStore) UpdateCampaign(ctx context.Context, campaign *catalog.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $2, description = $3, landing_url = $4, start_date = $5,
		    end_date = $6, status = $7, updated_at = now()
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.Description,
		campaign.LandingURL,
		campaign.StartDate,
		campaign.EndDate,
		string(campaign.Status),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) SetCampaignStatus(ctx context.Context, id int64, status catalog.Status) (bool, error) {
	query := `
		UPDATE campaigns
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2
	`

	tag, err := p.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStore) CreateCreator(ctx context.Context, creator *catalog.Creator) error {
	query := `
		INSERT INTO creators
			(owner_id, name, channel_name, channel_url, note, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	return p.pool.QueryRow(ctx, query,
		creator.OwnerID,
		creator.Name,
		creator.ChannelName,
		creator.ChannelURL,
		creator.Note,
		string(creator.Status),
		creator.CreatedAt,
		creator.UpdatedAt,
	).Scan(&creator.ID)
}

func (p *PostgresStore) GetCreator(ctx context.Context, id int64) (*catalog.Creator, error) {
	query := `
		SELECT id, owner_id, name, channel_name, channel_url, note, status, created_at, updated_at
		FROM creators
		WHERE id = $1
	`

	var creator catalog.Creator

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&creator.ID,
		&creator.OwnerID,
		&creator.Name,
		&creator.ChannelName,
		&creator.ChannelURL,
		&creator.Note,
		&creator.Status,
		&creator.CreatedAt,
		&creator.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &creator, nil
}

func (p *PostgresStore) ListActiveCreators(ctx context.Context, ownerID int64) ([]catalog.Creator, error) {
	query := `
		SELECT id, owner_id, name, channel_name, channel_url, note, status, created_at, updated_at
		FROM creators
		WHERE owner_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Creator, error) {
		var creator catalog.Creator

		err := row.Scan(
			&creator.ID,
			&creator.OwnerID,
			&creator.Name,
			&creator.ChannelName,
			&creator.ChannelURL,
			&creator.Note,
			&creator.Status,
			&creator.CreatedAt,
			&creator.UpdatedAt,
		)

		return creator, err
	})
}

func (p *PostgresStore) UpdateCreator(ctx context.Context, creator *catalog.Creator) error {
	query := `
		UPDATE creators
		SET name = $2, channel_name = $3, channel_url = $4, note = $5, status = $6, updated_at = now()
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		creator.ID,
		creator.Name,
		creator.ChannelName,
		creator.ChannelURL,
		creator.Note,
		string(creator.Status),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) SetCreatorStatus(ctx context.Context, id int64, status catalog.Status) (bool, error) {
	query := `
		UPDATE creators
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2
	`

	tag, err := p.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStore) CreateChannel(ctx context.Context, channel *catalog.Channel) error {
	query := `
		INSERT INTO channels
			(owner_id, platform, placement, display_name, note, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		channel.OwnerID,
		channel.Platform,
		channel.Placement,
		channel.DisplayName,
		channel.Note,
		string(channel.Status),
		channel.CreatedAt,
		channel.UpdatedAt,
	).Scan(&channel.ID)
	if isConstraint(err, "channels_active_identity_idx") {
		return catalog.ErrDuplicateChannel
	}

	return err
}

func (p *PostgresStore) GetChannel(ctx context.Context, id int64) (*catalog.Channel, error) {
	query := `
		SELECT id, owner_id, platform, placement, display_name, note, status, created_at, updated_at
		FROM channels
		WHERE id = $1
	`

	return p.scanChannel(p.pool.QueryRow(ctx, query, id))
}

func (p *PostgresStore) GetChannelByIdentity(
	ctx context.Context, ownerID int64, platform, placement string,
) (*catalog.Channel, error) {
	// Prefer the ACTIVE row; fall back to the most recent INACTIVE one so the
	// service can restore it in place.
	query := `
		SELECT id, owner_id, platform, placement, display_name, note, status, created_at, updated_at
		FROM channels
		WHERE owner_id = $1 AND platform = $2 AND placement = $3
		ORDER BY (status = 'ACTIVE') DESC, updated_at DESC
		LIMIT 1
	`

	return p.scanChannel(p.pool.QueryRow(ctx, query, ownerID, platform, placement))
}

func (p *PostgresStore) ListActiveChannels(ctx context.Context, ownerID int64) ([]catalog.Channel, error) {
	query := `
		SELECT id, owner_id, platform, placement, display_name, note, status, created_at, updated_at
		FROM channels
		WHERE owner_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Channel, error) {
		var channel catalog.Channel

		err := row.Scan(
			&channel.ID,
			&channel.OwnerID,
			&channel.Platform,
			&channel.Placement,
			&channel.DisplayName,
			&channel.Note,
			&channel.Status,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		)

		return channel, err
	})
}

func (p *PostgresStore) UpdateChannel(ctx context.Context, channel *catalog.Channel) error {
	query := `
		UPDATE channels
		SET platform = $2, placement = $3, display_name = $4, note = $5, status = $6, updated_at = now()
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		channel.ID,
		channel.Platform,
		channel.Placement,
		channel.DisplayName,
		channel.Note,
		string(channel.Status),
	)
	if err != nil {
		if isConstraint(err, "channels_active_identity_idx") {
			return catalog.ErrDuplicateChannel
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) ActiveChannelIdentityExists(
	ctx context.Context, ownerID int64, platform, placement string, excludeID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM channels
			WHERE owner_id = $1 AND platform = $2 AND placement = $3
			  AND status = 'ACTIVE' AND id <> $4
		)
	`

	var exists bool

	err := p.pool.QueryRow(ctx, query, ownerID, platform, placement, excludeID).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) SetChannelStatus(ctx context.Context, id int64, status catalog.Status) (bool, error) {
	query := `
		UPDATE channels
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2
	`

	tag, err := p.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStore) scanChannel(row pgx.Row) (*catalog.Channel, error) {
	var channel catalog.Channel

	err := row.Scan(
		&channel.ID,
		&channel.OwnerID,
		&channel.Platform,
		&channel.Placement,
		&channel.DisplayName,
		&channel.Note,
		&channel.Status,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &channel, nil
}

// Insert relies on the partial unique indexes to enforce slug uniqueness and
// the single-ACTIVE-link-per-combination rule in one atomic statement.
func (p *PostgresStore) Insert(ctx context.Context, link *tracking.Link) error {
	query := `
		INSERT INTO links (campaign_id, creator_id, channel_id, slug, destination_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		link.CampaignID,
		link.CreatorID,
		link.ChannelID,
		link.Slug,
		link.DestinationURL,
		string(link.Status),
		link.CreatedAt,
	).Scan(&link.ID)

	switch {
	case isConstraint(err, "links_slug_key"):
		return tracking.ErrSlugTaken
	case isConstraint(err, "links_active_triple_idx"):
		return tracking.ErrDuplicateTriple
	}

	return err
}

func (p *PostgresStore) GetLink(ctx context.Context, id int64) (*tracking.Link, error) {
	query := `
		SELECT id, campaign_id, creator_id, channel_id, slug, destination_url, status, created_at
		FROM links
		WHERE id = $1
	`

	var link tracking.Link

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.CampaignID,
		&link.CreatorID,
		&link.ChannelID,
		&link.Slug,
		&link.DestinationURL,
		&link.Status,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) FindActiveBySlug(ctx context.Context, slug string) (*tracking.Link, error) {
	query := `
		SELECT id, campaign_id, creator_id, channel_id, slug, destination_url, status, created_at
		FROM links
		WHERE slug = $1 AND status = 'ACTIVE'
	`

	var link tracking.Link

	err := p.pool.QueryRow(ctx, query, slug).Scan(
		&link.ID,
		&link.CampaignID,
		&link.CreatorID,
		&link.ChannelID,
		&link.Slug,
		&link.DestinationURL,
		&link.Status,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrInvalidLink
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) ListActiveByCampaign(ctx context.Context, campaignID int64) ([]tracking.Link, error) {
	query := `
		SELECT id, campaign_id, creator_id, channel_id, slug, destination_url, status, created_at
		FROM links
		WHERE campaign_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (tracking.Link, error) {
		var link tracking.Link

		err := row.Scan(
			&link.ID,
			&link.CampaignID,
			&link.CreatorID,
			&link.ChannelID,
			&link.Slug,
			&link.DestinationURL,
			&link.Status,
			&link.CreatedAt,
		)

		return link, err
	})
}

func (p *PostgresStore) DeactivateLink(ctx context.Context, id int64) error {
	query := `
		UPDATE links
		SET status = 'INACTIVE'
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return tracking.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) DeactivateByCreator(ctx context.Context, creatorID int64) (int64, error) {
	query := `
		UPDATE links
		SET status = 'INACTIVE'
		WHERE creator_id = $1 AND status = 'ACTIVE'
	`

	tag, err := p.pool.Exec(ctx, query, creatorID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresStore) DeactivateByChannel(ctx context.Context, channelID int64) (int64, error) {
	query := `
		UPDATE links
		SET status = 'INACTIVE'
		WHERE channel_id = $1 AND status = 'ACTIVE'
	`

	tag, err := p.pool.Exec(ctx, query, channelID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresStore) ExistsActiveByCampaign(ctx context.Context, campaignID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM links
			WHERE campaign_id = $1 AND status = 'ACTIVE'
		)
	`

	var exists bool

	err := p.pool.QueryRow(ctx, query, campaignID).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) DeactivateCampaignIfUnlinked(ctx context.Context, campaignID int64) (bool, error) {
	query := `
		UPDATE campaigns
		SET status = 'INACTIVE', updated_at = now()
		WHERE id = $1 AND status = 'ACTIVE'
			AND NOT EXISTS (
				SELECT 1 FROM links
				WHERE campaign_id = $1 AND status = 'ACTIVE'
			)
	`

	tag, err := p.pool.Exec(ctx, query, campaignID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStore) InsertClick(ctx context.Context, click *tracking.ClickEvent) error {
	query := `
		INSERT INTO click_events (link_id, clicked_at, client_ip, user_agent, referer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return p.pool.QueryRow(ctx, query,
		click.LinkID,
		click.ClickedAt,
		click.ClientIP,
		click.UserAgent,
		click.Referer,
	).Scan(&click.ID)
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}

	return err
}

func isConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == name
}

// Compile-time checks.
var (
	_ catalog.Repository       = (*PostgresStore)(nil)
	_ tracking.LinkRepository  = (*PostgresStore)(nil)
	_ tracking.ClickRepository = (*PostgresStore)(nil)
	_ catalog.LinkGuard        = (*PostgresStore)(nil)
)
