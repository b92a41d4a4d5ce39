package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service implements the catalog business rules: owner-scoped CRUD plus the
// status-consistency rules between parents and their tracking links.
type Service struct {
	repo   Repository
	links  LinkGuard
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(repo Repository, links LinkGuard, logger *zap.Logger) *Service {
	return &Service{repo: repo, links: links, logger: logger}
}

func (s *Service) CreateOwner(ctx context.Context, email, name string) (*Owner, error) {
	owner := &Owner{
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateOwner(ctx, owner); err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}

	return owner, nil
}

func (s *Service) GetOwner(ctx context.Context, id int64) (*Owner, error) {
	return s.repo.GetOwner(ctx, id)
}

// CampaignInput carries the caller-editable campaign fields.
type CampaignInput struct {
	Name        string
	Description string
	LandingURL  string
	StartDate   time.Time
	EndDate     time.Time
}

func (s *Service) CreateCampaign(ctx context.Context, ownerID int64, in CampaignInput) (*Campaign, error) {
	if _, err := s.repo.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	campaign := &Campaign{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		LandingURL:  in.LandingURL,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	return campaign, nil
}

func (s *Service) GetCampaign(ctx context.Context, id, ownerID int64) (*Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	if campaign.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	return campaign, nil
}

func (s *Service) ListCampaigns(ctx context.Context, ownerID int64) ([]Campaign, error) {
	return s.repo.ListActiveCampaigns(ctx, ownerID)
}

func (s *Service) UpdateCampaign(ctx context.Context, id, ownerID int64, in CampaignInput) (*Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	campaign.Name = in.Name
	campaign.Description = in.Description
	campaign.LandingURL = in.LandingURL
	campaign.StartDate = in.StartDate
	campaign.EndDate = in.EndDate
	campaign.UpdatedAt = time.Now()

	if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	return campaign, nil
}

// DeactivateCampaign soft-deletes a campaign. It refuses with ErrActiveLinks
// while ACTIVE links still reference the campaign: links must be torn down
// explicitly first. Deactivating an already-inactive campaign is a no-op.
func (s *Service) DeactivateCampaign(ctx context.Context, id, ownerID int64) error {
	campaign, err := s.GetCampaign(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if campaign.Status == StatusInactive {
		return nil
	}

	changed, err := s.links.DeactivateCampaignIfUnlinked(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate campaign: %w", err)
	}

	if changed {
		return nil
	}

	// The guarded write declined: either ACTIVE links still reference the
	// campaign or a concurrent call already deactivated it.
	active, err := s.links.ExistsActiveByCampaign(ctx, id)
	if err != nil {
		return fmt.Errorf("check active links: %w", err)
	}

	if active {
		return ErrActiveLinks
	}

	return nil
}

// CreatorInput carries the caller-editable creator fields.
type CreatorInput struct {
	Name        string
	ChannelName string
	ChannelURL  string
	Note        string
}

func (s *Service) CreateCreator(ctx context.Context, ownerID int64, in CreatorInput) (*Creator, error) {
	if _, err := s.repo.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	creator := &Creator{
		OwnerID:     ownerID,
		Name:        in.Name,
		ChannelName: in.ChannelName,
		ChannelURL:  in.ChannelURL,
		Note:        in.Note,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCreator(ctx, creator); err != nil {
		return nil, fmt.Errorf("create creator: %w", err)
	}

	return creator, nil
}

func (s *Service) GetCreator(ctx context.Context, id, ownerID int64) (*Creator, error) {
	creator, err := s.repo.GetCreator(ctx, id)
	if err != nil {
		return nil, err
	}

	if creator.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	return creator, nil
}

func (s *Service) ListCreators(ctx context.Context, ownerID int64) ([]Creator, error) {
	return s.repo.ListActiveCreators(ctx, ownerID)
}

func (s *Service) UpdateCreator(ctx context.Context, id, ownerID int64, in CreatorInput) (*Creator, error) {
	creator, err := s.GetCreator(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	creator.Name = in.Name
	creator.ChannelName = in.ChannelName
	creator.ChannelURL = in.ChannelURL
	creator.Note = in.Note
	creator.UpdatedAt = time.Now()

	if err := s.repo.UpdateCreator(ctx, creator); err != nil {
		return nil, fmt.Errorf("update creator: %w", err)
	}

	return creator, nil
}

// DeactivateCreator soft-deletes a creator and cascades to its links: every
// currently-ACTIVE link of the creator is flipped to INACTIVE before the
// creator itself, so no ACTIVE link ever points at an INACTIVE creator.
// Repeated calls are no-ops.
func (s *Service) DeactivateCreator(ctx context.Context, id, ownerID int64) error {
	if _, err := s.GetCreator(ctx, id, ownerID); err != nil {
		return err
	}

	flipped, err := s.links.DeactivateByCreator(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate creator links: %w", err)
	}

	if flipped > 0 {
		s.logger.Info("deactivated creator links",
			zap.Int64("creatorId", id),
			zap.Int64("links", flipped),
		)
	}

	if _, err := s.repo.SetCreatorStatus(ctx, id, StatusInactive); err != nil {
		return fmt.Errorf("deactivate creator: %w", err)
	}

	return nil
}

// ChannelInput carries the caller-editable channel fields.
type ChannelInput struct {
	Platform    string
	Placement   string
	DisplayName string
	Note        string
}

// CreateChannel creates a channel. A second ACTIVE channel with the same
// (platform, placement) identity is a conflict; an INACTIVE one is restored
// in place instead of duplicated.
func (s *Service) CreateChannel(ctx context.Context, ownerID int64, in ChannelInput) (*Channel, error) {
	if _, err := s.repo.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	displayName := in.DisplayName
	if displayName == "" {
		displayName = DefaultChannelDisplayName(in.Platform, in.Placement)
	}

	existing, err := s.repo.GetChannelByIdentity(ctx, ownerID, in.Platform, in.Placement)
	if err == nil {
		if existing.Status == StatusActive {
			return nil, ErrDuplicateChannel
		}

		existing.DisplayName = displayName
		existing.Note = in.Note
		existing.Status = StatusActive
		existing.UpdatedAt = time.Now()

		if err := s.repo.UpdateChannel(ctx, existing); err != nil {
			return nil, fmt.Errorf("restore channel: %w", err)
		}

		return existing, nil
	}

	now := time.Now()
	channel := &Channel{
		OwnerID:     ownerID,
		Platform:    in.Platform,
		Placement:   in.Placement,
		DisplayName: displayName,
		Note:        in.Note,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateChannel(ctx, channel); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	return channel, nil
}

func (s *Service) GetChannel(ctx context.Context, id, ownerID int64) (*Channel, error) {
	channel, err := s.repo.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}

	if channel.OwnerID != ownerID || channel.Status != StatusActive {
		return nil, ErrNotFound
	}

	return channel, nil
}

func (s *Service) ListChannels(ctx context.Context, ownerID int64) ([]Channel, error) {
	return s.repo.ListActiveChannels(ctx, ownerID)
}

func (s *Service) UpdateChannel(ctx context.Context, id, ownerID int64, in ChannelInput) (*Channel, error) {
	channel, err := s.GetChannel(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	identityChanged := channel.Platform != in.Platform || channel.Placement != in.Placement
	if identityChanged {
		taken, err := s.repo.ActiveChannelIdentityExists(ctx, ownerID, in.Platform, in.Placement, id)
		if err != nil {
			return nil, fmt.Errorf("check channel identity: %w", err)
		}

		if taken {
			return nil, ErrDuplicateChannel
		}
	}

	displayName := in.DisplayName
	if displayName == "" {
		if identityChanged {
			displayName = DefaultChannelDisplayName(in.Platform, in.Placement)
		} else {
			displayName = channel.DisplayName
		}
	}

	channel.Platform = in.Platform
	channel.Placement = in.Placement
	channel.DisplayName = displayName
	channel.Note = in.Note
	channel.UpdatedAt = time.Now()

	if err := s.repo.UpdateChannel(ctx, channel); err != nil {
		return nil, fmt.Errorf("update channel: %w", err)
	}

	return channel, nil
}

// DeactivateChannel soft-deletes a channel, cascading to its ACTIVE links
// first. Repeated calls are no-ops.
func (s *Service) DeactivateChannel(ctx context.Context, id, ownerID int64) error {
	channel, err := s.repo.GetChannel(ctx, id)
	if err != nil {
		return err
	}

	if channel.OwnerID != ownerID {
		return ErrNotFound
	}

	flipped, err := s.links.DeactivateByChannel(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate channel links: %w", err)
	}

	if flipped > 0 {
		s.logger.Info("deactivated channel links",
			zap.Int64("channelId", id),
			zap.Int64("links", flipped),
		)
	}

	if _, err := s.repo.SetChannelStatus(ctx, id, StatusInactive); err != nil {
		return fmt.Errorf("deactivate channel: %w", err)
	}

	return nil
}
