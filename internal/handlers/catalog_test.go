package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/handlers"
	"github.com/serroba/linktrack-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogHandler(t *testing.T) (*handlers.CatalogHandler, *store.MemoryStore) {
	t.Helper()

	memStore := store.NewMemoryStore()
	svc := catalog.NewService(memStore, memStore, zap.NewNop())

	return handlers.NewCatalogHandler(svc, zap.NewNop()), memStore
}

func createTestOwner(t *testing.T, handler *handlers.CatalogHandler) int64 {
	t.Helper()

	req := &handlers.CreateOwnerRequest{}
	req.Body.Email = "owner@example.com"
	req.Body.Name = "Owner"

	resp, err := handler.CreateOwner(context.Background(), req)
	require.NoError(t, err)

	return resp.Body.ID
}

func TestCatalogHandler_Campaigns(t *testing.T) {
	t.Run("creates and fetches a campaign", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)
		ctx := context.Background()
		ownerID := createTestOwner(t, handler)

		now := time.Now()
		create := &handlers.CreateCampaignRequest{OwnerID: ownerID}
		create.Body = handlers.CampaignInputBody{
			Name:       "Summer Launch",
			LandingURL: "https://example.com/landing",
			StartDate:  now,
			EndDate:    now.AddDate(0, 0, 30),
		}

		created, err := handler.CreateCampaign(ctx, create)
		require.NoError(t, err)
		assert.Equal(t, string(catalog.StatusActive), created.Body.Status)

		got, err := handler.GetCampaign(ctx, &handlers.GetByIDRequest{ID: created.Body.ID, OwnerID: ownerID})
		require.NoError(t, err)
		assert.Equal(t, "Summer Launch", got.Body.Name)
	})

	t.Run("returns 404 for another owner's campaign", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)
		ctx := context.Background()
		ownerID := createTestOwner(t, handler)

		create := &handlers.CreateCampaignRequest{OwnerID: ownerID}
		create.Body = handlers.CampaignInputBody{Name: "Private", LandingURL: "https://example.com"}

		created, err := handler.CreateCampaign(ctx, create)
		require.NoError(t, err)

		_, err = handler.GetCampaign(ctx, &handlers.GetByIDRequest{ID: created.Body.ID, OwnerID: ownerID + 1})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("refuses to deactivate a campaign with active links", func(t *testing.T) {
		f := newLinksFixture(t)
		linksHandler := newTestLinksHandler(f)
		svc := catalog.NewService(f.store, f.store, zap.NewNop())
		handler := handlers.NewCatalogHandler(svc, zap.NewNop())
		ctx := context.Background()

		_, err := linksHandler.CreateLink(ctx, f.createRequest())
		require.NoError(t, err)

		_, err = handler.DeactivateCampaign(ctx, &handlers.GetByIDRequest{
			ID:      f.campaign.ID,
			OwnerID: f.owner.ID,
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})
}

func TestCatalogHandler_Channels(t *testing.T) {
	t.Run("defaults the display name", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)
		ctx := context.Background()
		ownerID := createTestOwner(t, handler)

		create := &handlers.CreateChannelRequest{OwnerID: ownerID}
		create.Body = handlers.ChannelInputBody{Platform: "Instagram", Placement: "Story"}

		resp, err := handler.CreateChannel(ctx, create)

		require.NoError(t, err)
		assert.Equal(t, "Instagram Story", resp.Body.DisplayName)
	})

	t.Run("returns 409 for a duplicate active identity", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)
		ctx := context.Background()
		ownerID := createTestOwner(t, handler)

		create := &handlers.CreateChannelRequest{OwnerID: ownerID}
		create.Body = handlers.ChannelInputBody{Platform: "Instagram", Placement: "Story"}

		_, err := handler.CreateChannel(ctx, create)
		require.NoError(t, err)

		_, err = handler.CreateChannel(ctx, create)

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})
}

func TestCatalogHandler_Creators(t *testing.T) {
	t.Run("deactivating a creator cascades to its links", func(t *testing.T) {
		f := newLinksFixture(t)
		linksHandler := newTestLinksHandler(f)
		svc := catalog.NewService(f.store, f.store, zap.NewNop())
		handler := handlers.NewCatalogHandler(svc, zap.NewNop())
		ctx := context.Background()

		created, err := linksHandler.CreateLink(ctx, f.createRequest())
		require.NoError(t, err)

		_, err = handler.DeactivateCreator(ctx, &handlers.GetByIDRequest{
			ID:      f.creator.ID,
			OwnerID: f.owner.ID,
		})
		require.NoError(t, err)

		_, err = linksHandler.Redirect(ctx, &handlers.RedirectRequest{Slug: created.Body.Slug})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("returns 404 for an unknown creator", func(t *testing.T) {
		handler, _ := newCatalogHandler(t)
		ownerID := createTestOwner(t, handler)

		_, err := handler.GetCreator(context.Background(), &handlers.GetByIDRequest{ID: 999, OwnerID: ownerID})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
