package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/stats"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// StatsHandler handles aggregation queries.
type StatsHandler struct {
	svc    *stats.Service
	logger *zap.Logger
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(svc *stats.Service, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

// KPIResponse carries the campaign headline numbers.
type KPIResponse struct {
	Body stats.KPI
}

// CombinationsResponse carries the creator x channel matrix.
type CombinationsResponse struct {
	Body []stats.CombinationRow
}

// RankingResponse carries the channel ranking.
type RankingResponse struct {
	Body []stats.ChannelRank
}

// CreatorStatsResponse carries the owner's per-creator totals.
type CreatorStatsResponse struct {
	Body []stats.CreatorTotals
}

// CampaignStatsResponse carries the owner's per-campaign totals.
type CampaignStatsResponse struct {
	Body []stats.CampaignTotals
}

// TodayClicksResponse carries the owner's clicks so far today.
type TodayClicksResponse struct {
	Body struct {
		TodayClicks int64 `json:"todayClicks"`
	}
}

func (h *StatsHandler) KPI(ctx context.Context, req *StatsRangeRequest) (*KPIResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	kpi, err := h.svc.KPI(ctx, req.CampaignID, req.OwnerID, from, to)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &KPIResponse{Body: *kpi}, nil
}

func (h *StatsHandler) Combinations(ctx context.Context, req *StatsRangeRequest) (*CombinationsResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	rows, err := h.svc.Combinations(ctx, req.CampaignID, req.OwnerID, from, to)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &CombinationsResponse{Body: rows}, nil
}

func (h *StatsHandler) Ranking(ctx context.Context, req *RankingRequest) (*RankingResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	rows, err := h.svc.Ranking(ctx, req.CampaignID, req.OwnerID, from, to, req.Limit)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &RankingResponse{Body: rows}, nil
}

func (h *StatsHandler) CreatorStats(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*CreatorStatsResponse, error) {
	rows, err := h.svc.CreatorStats(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &CreatorStatsResponse{Body: rows}, nil
}

func (h *StatsHandler) CampaignStats(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*CampaignStatsResponse, error) {
	rows, err := h.svc.CampaignStats(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &CampaignStatsResponse{Body: rows}, nil
}

func (h *StatsHandler) TodayClicks(ctx context.Context, req *struct {
	OwnerID int64 `query:"ownerId"`
}) (*TodayClicksResponse, error) {
	clicks, err := h.svc.TodayClicks(ctx, req.OwnerID)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &TodayClicksResponse{}
	resp.Body.TodayClicks = clicks

	return resp, nil
}

// parseRange parses inclusive from/to dates. Zero values are left zero so the
// service can reject them with a single range error.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time

	if fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return from, to, huma.Error400BadRequest("from must be a YYYY-MM-DD date")
		}

		from = parsed
	}

	if toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return from, to, huma.Error400BadRequest("to must be a YYYY-MM-DD date")
		}

		to = parsed
	}

	return from, to, nil
}

func (h *StatsHandler) mapError(err error) error {
	switch {
	case errors.Is(err, stats.ErrBadRange):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		return huma.Error404NotFound("campaign not found")
	default:
		h.logger.Error("stats query failed", zap.Error(err))

		return huma.Error500InternalServerError("failed to compute stats")
	}
}
