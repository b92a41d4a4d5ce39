package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktrack-go/internal/analytics"
	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/messaging"
	"github.com/serroba/linktrack-go/internal/tracking"
	"go.uber.org/zap"
)

// LinksHandler handles link issuance, redirects and link management.
type LinksHandler struct {
	issuer       *tracking.Issuer
	clicker      *tracking.Clicker
	links        tracking.LinkRepository
	entities     catalog.Repository
	baseURL      string
	publishLink  messaging.Publish[analytics.LinkCreatedEvent]
	publishClick messaging.Publish[analytics.LinkClickedEvent]
	logger       *zap.Logger
}

// NewLinksHandler creates a links handler.
func NewLinksHandler(
	issuer *tracking.Issuer,
	clicker *tracking.Clicker,
	links tracking.LinkRepository,
	entities catalog.Repository,
	baseURL string,
	publishLink messaging.Publish[analytics.LinkCreatedEvent],
	publishClick messaging.Publish[analytics.LinkClickedEvent],
	logger *zap.Logger,
) *LinksHandler {
	return &LinksHandler{
		issuer:       issuer,
		clicker:      clicker,
		links:        links,
		entities:     entities,
		baseURL:      baseURL,
		publishLink:  publishLink,
		publishClick: publishClick,
		logger:       logger,
	}
}

func (h *LinksHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	link, err := h.issuer.Issue(ctx, tracking.IssueRequest{
		CampaignID:     req.Body.CampaignID,
		CreatorID:      req.Body.CreatorID,
		ChannelID:      req.Body.ChannelID,
		DestinationURL: req.Body.DestinationURL,
		CallerOwnerID:  req.Body.OwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return nil, huma.Error404NotFound("campaign, creator or channel not found")
		case errors.Is(err, catalog.ErrOwnerMismatch):
			return nil, huma.Error400BadRequest("campaign, creator and channel must share one owner")
		case errors.Is(err, tracking.ErrDuplicateTriple):
			return nil, huma.Error409Conflict("an active link already exists for this combination")
		default:
			h.logger.Error("link issuance failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to issue link")
		}
	}

	event := &analytics.LinkCreatedEvent{
		LinkID:     link.ID,
		CampaignID: link.CampaignID,
		CreatorID:  link.CreatorID,
		ChannelID:  link.ChannelID,
		Slug:       link.Slug,
		CreatedAt:  link.CreatedAt,
	}
	if err := h.publishLink(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("slug", link.Slug),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{}
	resp.Headers.Location = h.shortURL(link.Slug)
	resp.Body = h.linkBody(link)

	return resp, nil
}

// Redirect resolves a slug, records the click inline and answers 302. The
// analytics event is best effort; the inline click insert is the record of
// truth.
func (h *LinksHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	link, err := h.clicker.Resolve(ctx, req.Slug, tracking.ClickMeta{
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
	})
	if err != nil {
		if errors.Is(err, tracking.ErrInvalidLink) {
			return nil, huma.Error400BadRequest("invalid link")
		}

		h.logger.Error("redirect failed", zap.String("slug", req.Slug), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	event := &analytics.LinkClickedEvent{
		LinkID:     link.ID,
		CampaignID: link.CampaignID,
		Slug:       link.Slug,
		ClickedAt:  time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referer:    meta.Referer,
	}
	if err := h.publishClick(event); err != nil {
		h.logger.Error("failed to publish link clicked event",
			zap.String("slug", link.Slug),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = link.DestinationURL

	return resp, nil
}

func (h *LinksHandler) ListCampaignLinks(ctx context.Context, req *CampaignLinksRequest) (*LinkListResponse, error) {
	if err := h.checkCampaignOwner(ctx, req.CampaignID, req.OwnerID); err != nil {
		return nil, err
	}

	links, err := h.links.ListActiveByCampaign(ctx, req.CampaignID)
	if err != nil {
		h.logger.Error("listing links failed", zap.Int64("campaignId", req.CampaignID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &LinkListResponse{Body: make([]LinkBody, len(links))}
	for i := range links {
		resp.Body[i] = h.linkBody(&links[i])
	}

	return resp, nil
}

func (h *LinksHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*struct{}, error) {
	link, err := h.links.GetLink(ctx, req.LinkID)
	if err != nil {
		if errors.Is(err, tracking.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to load link")
	}

	if err := h.checkCampaignOwner(ctx, link.CampaignID, req.OwnerID); err != nil {
		return nil, err
	}

	if err := h.links.DeactivateLink(ctx, link.ID); err != nil {
		h.logger.Error("link deactivation failed", zap.Int64("linkId", link.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to deactivate link")
	}

	return nil, nil
}

// checkCampaignOwner hides other owners' campaigns behind a 404.
func (h *LinksHandler) checkCampaignOwner(ctx context.Context, campaignID, ownerID int64) error {
	campaign, err := h.entities.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return huma.Error404NotFound("campaign not found")
		}

		return huma.Error500InternalServerError("failed to load campaign")
	}

	if campaign.OwnerID != ownerID {
		return huma.Error404NotFound("campaign not found")
	}

	return nil
}

func (h *LinksHandler) shortURL(slug string) string {
	return fmt.Sprintf("%s/t/%s", h.baseURL, slug)
}

func (h *LinksHandler) linkBody(link *tracking.Link) LinkBody {
	return LinkBody{
		ID:             link.ID,
		CampaignID:     link.CampaignID,
		CreatorID:      link.CreatorID,
		ChannelID:      link.ChannelID,
		Slug:           link.Slug,
		ShortURL:       h.shortURL(link.Slug),
		DestinationURL: link.DestinationURL,
		Status:         string(link.Status),
		CreatedAt:      link.CreatedAt,
	}
}
