package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktrack-go/internal/catalog"
	"go.uber.org/zap"
)

// CatalogHandler handles owner, campaign, creator and channel management.
type CatalogHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, logger: logger}
}

func (h *CatalogHandler) CreateOwner(ctx context.Context, req *CreateOwnerRequest) (*OwnerResponse, error) {
	owner, err := h.svc.CreateOwner(ctx, req.Body.Email, req.Body.Name)
	if err != nil {
		h.logger.Error("owner creation failed", zap.String("email", req.Body.Email), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create owner")
	}

	return ownerResponse(owner), nil
}

func (h *CatalogHandler) GetOwner(ctx context.Context, req *struct {
	ID int64 `path:"id"`
}) (*OwnerResponse, error) {
	owner, err := h.svc.GetOwner(ctx, req.ID)
	if err != nil {
		return nil, h.mapError(err, "owner")
	}

	return ownerResponse(owner), nil
}

func ownerResponse(owner *catalog.Owner) *OwnerResponse {
	resp := &OwnerResponse{}
	resp.Body.ID = owner.ID
	resp.Body.Email = owner.Email
	resp.Body.Name = owner.Name
	resp.Body.CreatedAt = owner.CreatedAt

	return resp
}

func (h *CatalogHandler) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := h.svc.CreateCampaign(ctx, req.OwnerID, campaignInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "campaign")
	}

	return &CampaignResponse{Body: campaignBody(campaign)}, nil
}

func (h *CatalogHandler) GetCampaign(ctx context.Context, req *GetByIDRequest) (*CampaignResponse, error) {
	campaign, err := h.svc.GetCampaign(ctx, req.ID, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "campaign")
	}

	return &CampaignResponse{Body: campaignBody(campaign)}, nil
}

func (h *CatalogHandler) ListCampaigns(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*CampaignListResponse, error) {
	campaigns, err := h.svc.ListCampaigns(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "campaign")
	}

	resp := &CampaignListResponse{Body: make([]CampaignBody, len(campaigns))}
	for i := range campaigns {
		resp.Body[i] = campaignBody(&campaigns[i])
	}

	return resp, nil
}

func (h *CatalogHandler) UpdateCampaign(ctx context.Context, req *UpdateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := h.svc.UpdateCampaign(ctx, req.ID, req.OwnerID, campaignInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "campaign")
	}

	return &CampaignResponse{Body: campaignBody(campaign)}, nil
}

func (h *CatalogHandler) DeactivateCampaign(ctx context.Context, req *GetByIDRequest) (*struct{}, error) {
	if err := h.svc.DeactivateCampaign(ctx, req.ID, req.OwnerID); err != nil {
		return nil, h.mapError(err, "campaign")
	}

	return nil, nil
}

func campaignInput(body CampaignInputBody) catalog.CampaignInput {
	return catalog.CampaignInput{
		Name:        body.Name,
		Description: body.Description,
		LandingURL:  body.LandingURL,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	}
}

func campaignBody(campaign *catalog.Campaign) CampaignBody {
	return CampaignBody{
		ID:          campaign.ID,
		OwnerID:     campaign.OwnerID,
		Name:        campaign.Name,
		Description: campaign.Description,
		LandingURL:  campaign.LandingURL,
		StartDate:   campaign.StartDate,
		EndDate:     campaign.EndDate,
		Status:      string(campaign.Status),
	}
}

func (h *CatalogHandler) CreateCreator(ctx context.Context, req *CreateCreatorRequest) (*CreatorResponse, error) {
	creator, err := h.svc.CreateCreator(ctx, req.OwnerID, creatorInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "creator")
	}

	return &CreatorResponse{Body: creatorBody(creator)}, nil
}

func (h *CatalogHandler) GetCreator(ctx context.Context, req *GetByIDRequest) (*CreatorResponse, error) {
	creator, err := h.svc.GetCreator(ctx, req.ID, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "creator")
	}

	return &CreatorResponse{Body: creatorBody(creator)}, nil
}

func (h *CatalogHandler) ListCreators(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*CreatorListResponse, error) {
	creators, err := h.svc.ListCreators(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "creator")
	}

	resp := &CreatorListResponse{Body: make([]CreatorBody, len(creators))}
	for i := range creators {
		resp.Body[i] = creatorBody(&creators[i])
	}

	return resp, nil
}

func (h *CatalogHandler) UpdateCreator(ctx context.Context, req *UpdateCreatorRequest) (*CreatorResponse, error) {
	creator, err := h.svc.UpdateCreator(ctx, req.ID, req.OwnerID, creatorInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "creator")
	}

	return &CreatorResponse{Body: creatorBody(creator)}, nil
}

// DeactivateCreator flips the creator INACTIVE after deactivating its links.
func (h *CatalogHandler) DeactivateCreator(ctx context.Context, req *GetByIDRequest) (*struct{}, error) {
	if err := h.svc.DeactivateCreator(ctx, req.ID, req.OwnerID); err != nil {
		return nil, h.mapError(err, "creator")
	}

	return nil, nil
}

func creatorInput(body CreatorInputBody) catalog.CreatorInput {
	return catalog.CreatorInput{
		Name:        body.Name,
		ChannelName: body.ChannelName,
		ChannelURL:  body.ChannelURL,
		Note:        body.Note,
	}
}

func creatorBody(creator *catalog.Creator) CreatorBody {
	return CreatorBody{
		ID:          creator.ID,
		OwnerID:     creator.OwnerID,
		Name:        creator.Name,
		ChannelName: creator.ChannelName,
		ChannelURL:  creator.ChannelURL,
		Note:        creator.Note,
		Status:      string(creator.Status),
	}
}

func (h *CatalogHandler) CreateChannel(ctx context.Context, req *CreateChannelRequest) (*ChannelResponse, error) {
	channel, err := h.svc.CreateChannel(ctx, req.OwnerID, channelInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "channel")
	}

	return &ChannelResponse{Body: channelBody(channel)}, nil
}

func (h *CatalogHandler) GetChannel(ctx context.Context, req *GetByIDRequest) (*ChannelResponse, error) {
	channel, err := h.svc.GetChannel(ctx, req.ID, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "channel")
	}

	return &ChannelResponse{Body: channelBody(channel)}, nil
}

func (h *CatalogHandler) ListChannels(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*ChannelListResponse, error) {
	channels, err := h.svc.ListChannels(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err, "channel")
	}

	resp := &ChannelListResponse{Body: make([]ChannelBody, len(channels))}
	for i := range channels {
		resp.Body[i] = channelBody(&channels[i])
	}

	return resp, nil
}

func (h *CatalogHandler) UpdateChannel(ctx context.Context, req *UpdateChannelRequest) (*ChannelResponse, error) {
	channel, err := h.svc.UpdateChannel(ctx, req.ID, req.OwnerID, channelInput(req.Body))
	if err != nil {
		return nil, h.mapError(err, "channel")
	}

	return &ChannelResponse{Body: channelBody(channel)}, nil
}

// DeactivateChannel flips the channel INACTIVE after deactivating its links.
func (h *CatalogHandler) DeactivateChannel(ctx context.Context, req *GetByIDRequest) (*struct{}, error) {
	if err := h.svc.DeactivateChannel(ctx, req.ID, req.OwnerID); err != nil {
		return nil, h.mapError(err, "channel")
	}

	return nil, nil
}

func channelInput(body ChannelInputBody) catalog.ChannelInput {
	return catalog.ChannelInput{
		Platform:    body.Platform,
		Placement:   body.Placement,
		DisplayName: body.DisplayName,
		Note:        body.Note,
	}
}

func channelBody(channel *catalog.Channel) ChannelBody {
	return ChannelBody{
		ID:          channel.ID,
		OwnerID:     channel.OwnerID,
		Platform:    channel.Platform,
		Placement:   channel.Placement,
		DisplayName: channel.DisplayName,
		Note:        channel.Note,
		Status:      string(channel.Status),
	}
}

func (h *CatalogHandler) mapError(err error, resource string) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return huma.Error404NotFound(resource + " not found")
	case errors.Is(err, catalog.ErrDuplicateChannel):
		return huma.Error409Conflict("an active channel with this platform and placement already exists")
	case errors.Is(err, catalog.ErrActiveLinks):
		return huma.Error409Conflict("campaign still has active links")
	default:
		h.logger.Error("catalog operation failed", zap.String("resource", resource), zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	}
}
