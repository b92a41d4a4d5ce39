package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
)

// Link is a short redirect link for one (campaign, creator, channel)
// combination. Slugs are globally unique and immutable; links are never
// deleted, only flipped ACTIVE -> INACTIVE.
type Link struct {
	ID             int64
	CampaignID     int64
	CreatorID      int64
	ChannelID      int64
	Slug           string
	DestinationURL string
	Status         catalog.Status
	CreatedAt      time.Time
}

// ClickEvent is an immutable record of one slug resolution. ClientIP,
// UserAgent and Referer are optional; empty means absent.
type ClickEvent struct {
	ID        int64
	LinkID    int64
	ClickedAt time.Time
	ClientIP  string
	UserAgent string
	Referer   string
}

var (
	// ErrNotFound is returned when a link does not exist.
	ErrNotFound = errors.New("link not found")

	// ErrInvalidLink is returned on redirect when the slug is unknown or the
	// link is inactive. The two cases are deliberately indistinguishable.
	ErrInvalidLink = errors.New("invalid link")

	// ErrSlugTaken is returned by the store when an insert loses the slug
	// uniqueness race. Issuance retries with a fresh slug.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrDuplicateTriple is returned by the store when an ACTIVE link already
	// exists for the (campaign, creator, channel) combination.
	ErrDuplicateTriple = errors.New("active link exists for combination")

	// ErrSlugExhausted is returned when every slug generation attempt
	// collided.
	ErrSlugExhausted = errors.New("slug generation attempts exhausted")
)

// LinkRepository is the durable store for links. Insert must enforce both the
// global slug uniqueness and the single-ACTIVE-link-per-triple invariant
// atomically, so concurrent callers are serialized by the store rather than
// by an application-level pre-check.
type LinkRepository interface {
	// Insert persists the link, assigning its ID. Returns ErrSlugTaken on a
	// slug collision and ErrDuplicateTriple when an ACTIVE link for the same
	// combination already exists.
	Insert(ctx context.Context, link *Link) error
	GetLink(ctx context.Context, id int64) (*Link, error)
	// FindActiveBySlug resolves a slug to its ACTIVE link. Unknown or
	// inactive slugs return ErrInvalidLink.
	FindActiveBySlug(ctx context.Context, slug string) (*Link, error)
	ListActiveByCampaign(ctx context.Context, campaignID int64) ([]Link, error)
	// DeactivateLink flips a single link to INACTIVE. Already-inactive links
	// are a no-op.
	DeactivateLink(ctx context.Context, id int64) error

	DeactivateByCreator(ctx context.Context, creatorID int64) (int64, error)
	DeactivateByChannel(ctx context.Context, channelID int64) (int64, error)
	ExistsActiveByCampaign(ctx context.Context, campaignID int64) (bool, error)
}

// ClickRepository is the append-only store for click events.
type ClickRepository interface {
	InsertClick(ctx context.Context, click *ClickEvent) error
}

// SlugGenerator produces a fresh random slug per call. Implementations must
// be safe for concurrent use.
type SlugGenerator func() string
