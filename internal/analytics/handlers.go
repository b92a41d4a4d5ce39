package analytics

import (
	"context"

	"github.com/serroba/linktrack-go/internal/messaging"
)

// NewLinkCreatedHandler persists link-created events to the store.
func NewLinkCreatedHandler(store Store) messaging.Handler[LinkCreatedEvent] {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		return store.SaveLinkCreated(ctx, event)
	}
}

// NewLinkClickedHandler persists link-clicked events to the store.
func NewLinkClickedHandler(store Store) messaging.Handler[LinkClickedEvent] {
	return func(ctx context.Context, event *LinkClickedEvent) error {
		return store.SaveLinkClicked(ctx, event)
	}
}
