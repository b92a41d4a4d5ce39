package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
	"go.uber.org/zap"
)

// DefaultSlugAttempts bounds the number of slug generations per issuance.
const DefaultSlugAttempts = 5

// IssueRequest describes one link issuance.
type IssueRequest struct {
	CampaignID int64
	CreatorID  int64
	ChannelID  int64
	// DestinationURL overrides the campaign landing URL when set.
	DestinationURL string
	// CallerOwnerID, when non-zero, must match the owner of all three
	// referenced entities.
	CallerOwnerID int64
}

// Issuer creates links. Ownership is re-verified here for every issuance
// regardless of what the caller already validated.
type Issuer struct {
	links        LinkRepository
	entities     catalog.Repository
	generateSlug SlugGenerator
	maxAttempts  int
	logger       *zap.Logger
}

// NewIssuer creates a link issuer. maxAttempts values below 1 fall back to
// DefaultSlugAttempts.
func NewIssuer(
	links LinkRepository,
	entities catalog.Repository,
	generateSlug SlugGenerator,
	maxAttempts int,
	logger *zap.Logger,
) *Issuer {
	if maxAttempts < 1 {
		maxAttempts = DefaultSlugAttempts
	}

	return &Issuer{
		links:        links,
		entities:     entities,
		generateSlug: generateSlug,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// Issue validates the triple and persists a new ACTIVE link. The
// one-ACTIVE-link-per-triple invariant is enforced by the store's insert, not
// by a pre-check, so two concurrent callers cannot both succeed. Slug
// collisions are retried with a fresh slug up to the attempt bound.
func (i *Issuer) Issue(ctx context.Context, req IssueRequest) (*Link, error) {
	campaign, err := i.entities.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	creator, err := i.entities.GetCreator(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}

	channel, err := i.entities.GetChannel(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	if req.CallerOwnerID != 0 {
		if campaign.OwnerID != req.CallerOwnerID ||
			creator.OwnerID != req.CallerOwnerID ||
			channel.OwnerID != req.CallerOwnerID {
			return nil, catalog.ErrOwnerMismatch
		}
	}

	if creator.OwnerID != campaign.OwnerID || channel.OwnerID != campaign.OwnerID {
		return nil, catalog.ErrOwnerMismatch
	}

	destination := req.DestinationURL
	if destination == "" {
		destination = campaign.LandingURL
	}

	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		link := &Link{
			CampaignID:     req.CampaignID,
			CreatorID:      req.CreatorID,
			ChannelID:      req.ChannelID,
			Slug:           i.generateSlug(),
			DestinationURL: destination,
			Status:         catalog.StatusActive,
			CreatedAt:      time.Now(),
		}

		err := i.links.Insert(ctx, link)
		if err == nil {
			return link, nil
		}

		if errors.Is(err, ErrSlugTaken) {
			i.logger.Warn("slug collision, retrying",
				zap.String("slug", link.Slug),
				zap.Int("attempt", attempt),
			)

			continue
		}

		if errors.Is(err, ErrDuplicateTriple) {
			return nil, ErrDuplicateTriple
		}

		return nil, fmt.Errorf("insert link: %w", err)
	}

	return nil, ErrSlugExhausted
}
