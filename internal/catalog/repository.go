package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist. It also obscures
// records owned by a different account, so callers cannot probe for other
// owners' resources.
var ErrNotFound = errors.New("record not found")

// ErrOwnerMismatch is returned when a caller references resources that do not
// all belong to the same owner.
var ErrOwnerMismatch = errors.New("resources belong to different owners")

// ErrDuplicateChannel is returned when an ACTIVE channel with the same
// (platform, placement) identity already exists for the owner.
var ErrDuplicateChannel = errors.New("active channel with same platform and placement exists")

// ErrActiveLinks is returned when a campaign cannot be deactivated because
// ACTIVE tracking links still reference it.
var ErrActiveLinks = errors.New("campaign still has active links")

// Repository is the durable store for owners, campaigns, creators and
// channels.
type Repository interface {
	CreateOwner(ctx context.Context, owner *Owner) error
	GetOwner(ctx context.Context, id int64) (*Owner, error)
	GetOwnerByEmail(ctx context.Context, email string) (*Owner, error)

	CreateCampaign(ctx context.Context, campaign *Campaign) error
	GetCampaign(ctx context.Context, id int64) (*Campaign, error)
	ListActiveCampaigns(ctx context.Context, ownerID int64) ([]Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *Campaign) error
	// SetCampaignStatus flips the status only when the current status differs.
	// It reports whether a row changed.
	SetCampaignStatus(ctx context.Context, id int64, status Status) (bool, error)

	CreateCreator(ctx context.Context, creator *Creator) error
	GetCreator(ctx context.Context, id int64) (*Creator, error)
	ListActiveCreators(ctx context.Context, ownerID int64) ([]Creator, error)
	UpdateCreator(ctx context.Context, creator *Creator) error
	SetCreatorStatus(ctx context.Context, id int64, status Status) (bool, error)

	CreateChannel(ctx context.Context, channel *Channel) error
	GetChannel(ctx context.Context, id int64) (*Channel, error)
	GetChannelByIdentity(ctx context.Context, ownerID int64, platform, placement string) (*Channel, error)
	ListActiveChannels(ctx context.Context, ownerID int64) ([]Channel, error)
	UpdateChannel(ctx context.Context, channel *Channel) error
	// ActiveChannelIdentityExists reports whether another ACTIVE channel
	// (excluding excludeID) already uses the identity.
	ActiveChannelIdentityExists(ctx context.Context, ownerID int64, platform, placement string, excludeID int64) (bool, error)
	SetChannelStatus(ctx context.Context, id int64, status Status) (bool, error)
}

// LinkGuard is the slice of the tracking-link store the catalog needs to keep
// link status consistent with parent status. Defined here so the dependency
// points one way only.
type LinkGuard interface {
	// DeactivateByCreator flips every currently-ACTIVE link of the creator to
	// INACTIVE and returns the number of rows changed.
	DeactivateByCreator(ctx context.Context, creatorID int64) (int64, error)
	DeactivateByChannel(ctx context.Context, channelID int64) (int64, error)
	ExistsActiveByCampaign(ctx context.Context, campaignID int64) (bool, error)
	// DeactivateCampaignIfUnlinked flips the campaign to INACTIVE in one
	// conditional write that leaves it untouched while any ACTIVE link still
	// references it. Reports whether the row changed.
	DeactivateCampaignIfUnlinked(ctx context.Context, campaignID int64) (bool, error)
}
