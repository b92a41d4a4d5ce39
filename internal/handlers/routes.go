package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktrack-go/internal/ratelimit"
)

// writeLimits applies to link issuance and catalog writes.
var writeLimits = []ratelimit.LimitConfig{
	{Window: time.Minute, Max: 60},
	{Window: time.Hour, Max: 1000},
}

// redirectLimits are relaxed; the redirect path is the hot path.
var redirectLimits = []ratelimit.LimitConfig{
	{Window: time.Minute, Max: 5000},
}

func limited(limits []ratelimit.LimitConfig) map[string]any {
	return map[string]any{
		ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: limits},
	}
}

// RegisterRoutes registers the public HTTP surface.
func RegisterRoutes(api huma.API, links *LinksHandler, catalog *CatalogHandler, stats *StatsHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/t/{slug}",
		Summary:     "Redirect a tracking link",
		Description: "Resolves the slug, records the click and redirects to the destination.",
		Tags:        []string{"Links"},
		Metadata:    limited(redirectLimits),
	}, links.Redirect)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/links",
		Summary:       "Issue a tracking link",
		Description:   "Creates a uniquely-slugged link for one campaign, creator and channel.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata:      limited(writeLimits),
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/campaigns/{campaignId}/links",
		Summary: "List a campaign's active links",
		Tags:    []string{"Links"},
	}, links.ListCampaignLinks)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/links/{linkId}",
		Summary:       "Deactivate a link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      limited(writeLimits),
	}, links.DeleteLink)

	registerCatalogRoutes(api, catalog)
	registerStatsRoutes(api, stats)
}

func registerCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/owners",
		Summary:       "Register an owner",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
		Metadata:      limited(writeLimits),
	}, h.CreateOwner)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/owners/{id}",
		Summary: "Get an owner",
		Tags:    []string{"Catalog"},
	}, h.GetOwner)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/campaigns",
		Summary:       "Create a campaign",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
		Metadata:      limited(writeLimits),
	}, h.CreateCampaign)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/campaigns",
		Summary: "List active campaigns",
		Tags:    []string{"Catalog"},
	}, h.ListCampaigns)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/campaigns/{id}",
		Summary: "Get a campaign",
		Tags:    []string{"Catalog"},
	}, h.GetCampaign)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPut,
		Path:     "/api/campaigns/{id}",
		Summary:  "Update a campaign",
		Tags:     []string{"Catalog"},
		Metadata: limited(writeLimits),
	}, h.UpdateCampaign)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/campaigns/{id}",
		Summary:       "Deactivate a campaign",
		Description:   "Refused with a conflict while the campaign still has active links.",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      limited(writeLimits),
	}, h.DeactivateCampaign)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/creators",
		Summary:       "Create a creator",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
		Metadata:      limited(writeLimits),
	}, h.CreateCreator)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/creators",
		Summary: "List active creators",
		Tags:    []string{"Catalog"},
	}, h.ListCreators)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/creators/{id}",
		Summary: "Get a creator",
		Tags:    []string{"Catalog"},
	}, h.GetCreator)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPut,
		Path:     "/api/creators/{id}",
		Summary:  "Update a creator",
		Tags:     []string{"Catalog"},
		Metadata: limited(writeLimits),
	}, h.UpdateCreator)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/creators/{id}",
		Summary:       "Deactivate a creator",
		Description:   "Deactivates the creator's active links first, then the creator.",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      limited(writeLimits),
	}, h.DeactivateCreator)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/channels",
		Summary:       "Create a channel",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
		Metadata:      limited(writeLimits),
	}, h.CreateChannel)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/channels",
		Summary: "List active channels",
		Tags:    []string{"Catalog"},
	}, h.ListChannels)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/channels/{id}",
		Summary: "Get a channel",
		Tags:    []string{"Catalog"},
	}, h.GetChannel)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPut,
		Path:     "/api/channels/{id}",
		Summary:  "Update a channel",
		Tags:     []string{"Catalog"},
		Metadata: limited(writeLimits),
	}, h.UpdateChannel)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/channels/{id}",
		Summary:       "Deactivate a channel",
		Description:   "Deactivates the channel's active links first, then the channel.",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      limited(writeLimits),
	}, h.DeactivateChannel)
}

func registerStatsRoutes(api huma.API, h *StatsHandler) {
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/stats/campaigns/{campaignId}/kpi",
		Summary: "Campaign KPI",
		Tags:    []string{"Stats"},
	}, h.KPI)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/stats/campaigns/{campaignId}/combinations",
		Summary:     "Creator x channel combination matrix",
		Description: "One row per active link's creator and channel pair, zero-click pairs included.",
		Tags:        []string{"Stats"},
	}, h.Combinations)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/stats/campaigns/{campaignId}/channels/ranking",
		Summary: "Channel ranking by clicks in range",
		Tags:    []string{"Stats"},
	}, h.Ranking)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/stats/creators",
		Summary: "Per-creator totals for an owner",
		Tags:    []string{"Stats"},
	}, h.CreatorStats)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/stats/campaigns",
		Summary: "Per-campaign totals for an owner",
		Tags:    []string{"Stats"},
	}, h.CampaignStats)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/stats/today-clicks",
		Summary: "Owner clicks so far today",
		Tags:    []string{"Stats"},
	}, h.TodayClicks)
}

// RegisterAdminRoutes registers the token-guarded load-test endpoints.
func RegisterAdminRoutes(api huma.API, h *AdminHandler) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/test/reset",
		Summary:       "Wipe all data",
		Tags:          []string{"Test"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      limited(writeLimits),
	}, h.Reset)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPost,
		Path:     "/api/test/seed",
		Summary:  "Seed fixture data",
		Tags:     []string{"Test"},
		Metadata: limited(writeLimits),
	}, h.Seed)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPost,
		Path:     "/api/test/seed-clicks",
		Summary:  "Seed synthetic clicks",
		Tags:     []string{"Test"},
		Metadata: limited(writeLimits),
	}, h.SeedClicks)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/test/slugs",
		Summary: "List active slugs",
		Tags:    []string{"Test"},
	}, h.Slugs)
}
