package handlers

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktrack-go/internal/seed"
	"go.uber.org/zap"
)

// AdminHandler exposes the load-test endpoints: wiping data, seeding fixtures
// and generating synthetic clicks. Every call must carry the shared test
// token; with no token configured the whole surface is disabled.
type AdminHandler struct {
	seeder *seed.Seeder
	token  string
	logger *zap.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(seeder *seed.Seeder, token string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{seeder: seeder, token: token, logger: logger}
}

func (h *AdminHandler) authorize(token string) error {
	if h.token == "" {
		return huma.Error401Unauthorized("test endpoints are disabled")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		return huma.Error401Unauthorized("invalid test token")
	}

	return nil
}

// ResetRequest wipes all data.
type ResetRequest struct {
	Token string `header:"X-Test-Token"`
}

func (h *AdminHandler) Reset(ctx context.Context, req *ResetRequest) (*struct{}, error) {
	if err := h.authorize(req.Token); err != nil {
		return nil, err
	}

	if err := h.seeder.Reset(ctx); err != nil {
		h.logger.Error("data reset failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to reset data")
	}

	h.logger.Warn("all data wiped via test endpoint")

	return nil, nil
}

// SeedRequest creates fixture data for one owner.
type SeedRequest struct {
	Token string `header:"X-Test-Token"`
	Body  struct {
		OwnerEmail      string  `default:"loadtest@example.com" format:"email" json:"ownerEmail,omitempty"`
		OwnerName       string  `default:"Load Test" json:"ownerName,omitempty"`
		Campaigns       int     `default:"1" json:"campaigns,omitempty" minimum:"1"`
		Creators        int     `default:"50" json:"creators,omitempty" minimum:"1"`
		Channels        int     `default:"25" json:"channels,omitempty" minimum:"1"`
		LinksPerCreator int     `default:"10" json:"linksPerCreator,omitempty" minimum:"1"`
		InactiveRatio   float64 `default:"0.2" json:"inactiveLinkRatio,omitempty" maximum:"0.99" minimum:"0"`
		LandingURL      string  `default:"https://example.com/landing" json:"landingUrl,omitempty"`
	}
}

// SeedResponse reports the created fixtures.
type SeedResponse struct {
	Body seed.FixtureResult
}

func (h *AdminHandler) Seed(ctx context.Context, req *SeedRequest) (*SeedResponse, error) {
	if err := h.authorize(req.Token); err != nil {
		return nil, err
	}

	result, err := h.seeder.SeedFixtures(ctx, seed.FixtureParams{
		OwnerEmail:      req.Body.OwnerEmail,
		OwnerName:       req.Body.OwnerName,
		Campaigns:       req.Body.Campaigns,
		Creators:        req.Body.Creators,
		Channels:        req.Body.Channels,
		LinksPerCreator: req.Body.LinksPerCreator,
		InactiveRatio:   req.Body.InactiveRatio,
		LandingURL:      req.Body.LandingURL,
	})
	if err != nil {
		h.logger.Error("fixture seeding failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to seed fixtures")
	}

	return &SeedResponse{Body: *result}, nil
}

// SeedClicksRequest generates synthetic click traffic for a campaign.
type SeedClicksRequest struct {
	Token string `header:"X-Test-Token"`
	Body  struct {
		CampaignID   int64   `json:"campaignId"`
		TotalRows    int     `default:"100000" json:"totalRows,omitempty" minimum:"1"`
		BatchSize    int     `default:"5000" json:"batchSize,omitempty"`
		DaysBackFrom int     `default:"90" json:"daysBackFrom,omitempty" minimum:"0"`
		DaysBackTo   int     `default:"30" json:"daysBackTo,omitempty" minimum:"0"`
		SkewRatio    float64 `default:"0.7" json:"skewRatio,omitempty" maximum:"1" minimum:"0"`
		HotLinks     int     `default:"5" json:"hotLinkTopK,omitempty" minimum:"0"`
	}
}

// SeedClicksResponse reports inserted rows and elapsed time.
type SeedClicksResponse struct {
	Body struct {
		Inserted  int64 `json:"inserted"`
		ElapsedMs int64 `json:"elapsedMs"`
	}
}

func (h *AdminHandler) SeedClicks(ctx context.Context, req *SeedClicksRequest) (*SeedClicksResponse, error) {
	if err := h.authorize(req.Token); err != nil {
		return nil, err
	}

	result, err := h.seeder.SeedClicks(ctx, seed.ClickParams{
		CampaignID:   req.Body.CampaignID,
		TotalRows:    req.Body.TotalRows,
		BatchSize:    req.Body.BatchSize,
		DaysBackFrom: req.Body.DaysBackFrom,
		DaysBackTo:   req.Body.DaysBackTo,
		SkewRatio:    req.Body.SkewRatio,
		HotLinks:     req.Body.HotLinks,
	})
	if err != nil {
		if errors.Is(err, seed.ErrNoActiveLinks) {
			return nil, huma.Error400BadRequest("campaign has no active links to click")
		}

		h.logger.Error("click seeding failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to seed clicks")
	}

	resp := &SeedClicksResponse{}
	resp.Body.Inserted = result.Inserted
	resp.Body.ElapsedMs = result.Elapsed.Milliseconds()

	return resp, nil
}

// SlugsRequest lists active slugs for load-test clients.
type SlugsRequest struct {
	Token string `header:"X-Test-Token"`
	Limit int    `default:"100" maximum:"10000" minimum:"1" query:"limit"`
}

// SlugsResponse is the slug list.
type SlugsResponse struct {
	Body struct {
		Slugs []string `json:"slugs"`
	}
}

func (h *AdminHandler) Slugs(ctx context.Context, req *SlugsRequest) (*SlugsResponse, error) {
	if err := h.authorize(req.Token); err != nil {
		return nil, err
	}

	slugs, err := h.seeder.ActiveSlugs(ctx, req.Limit)
	if err != nil {
		h.logger.Error("listing slugs failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list slugs")
	}

	resp := &SlugsResponse{}
	resp.Body.Slugs = slugs

	return resp, nil
}
