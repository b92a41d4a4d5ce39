package store

import (
	"context"

	"github.com/serroba/linktrack-go/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs the events it receives.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a logging no-op store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created",
		zap.Int64("linkId", event.LinkID),
		zap.Int64("campaignId", event.CampaignID),
		zap.String("slug", event.Slug),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveLinkClicked(_ context.Context, event *analytics.LinkClickedEvent) error {
	n.logger.Info("link clicked",
		zap.Int64("linkId", event.LinkID),
		zap.String("slug", event.Slug),
		zap.Time("clickedAt", event.ClickedAt),
		zap.String("referer", event.Referer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
