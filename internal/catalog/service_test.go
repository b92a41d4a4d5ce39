package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/store"
	"github.com/serroba/linktrack-go/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*catalog.Service, *store.MemoryStore) {
	t.Helper()

	memStore := store.NewMemoryStore()

	return catalog.NewService(memStore, memStore, zap.NewNop()), memStore
}

func createOwner(t *testing.T, svc *catalog.Service) *catalog.Owner {
	t.Helper()

	owner, err := svc.CreateOwner(context.Background(), "owner@example.com", "Owner")
	require.NoError(t, err)

	return owner
}

func campaignInput() catalog.CampaignInput {
	now := time.Now()

	return catalog.CampaignInput{
		Name:       "Summer Launch",
		LandingURL: "https://example.com/landing",
		StartDate:  now.AddDate(0, 0, -7),
		EndDate:    now.AddDate(0, 0, 21),
	}
}

// seedLink inserts an ACTIVE link under the campaign, creating a creator and
// channel to hang it on.
func seedLink(t *testing.T, memStore *store.MemoryStore, owner *catalog.Owner, campaignID int64, n int) *tracking.Link {
	t.Helper()

	ctx := context.Background()

	creator := &catalog.Creator{OwnerID: owner.ID, Name: fmt.Sprintf("Creator %d", n), Status: catalog.StatusActive}
	require.NoError(t, memStore.CreateCreator(ctx, creator))

	channel := &catalog.Channel{
		OwnerID:   owner.ID,
		Platform:  "Blog",
		Placement: fmt.Sprintf("Slot %d", n),
		Status:    catalog.StatusActive,
	}
	require.NoError(t, memStore.CreateChannel(ctx, channel))

	link := &tracking.Link{
		CampaignID: campaignID,
		CreatorID:  creator.ID,
		ChannelID:  channel.ID,
		Slug:       fmt.Sprintf("slug-%d-%d", campaignID, n),
		Status:     catalog.StatusActive,
	}
	require.NoError(t, memStore.Insert(ctx, link))

	return link
}

func TestService_Campaigns(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)

		campaign, err := svc.CreateCampaign(context.Background(), owner.ID, campaignInput())

		require.NoError(t, err)
		assert.Equal(t, catalog.StatusActive, campaign.Status)

		got, err := svc.GetCampaign(context.Background(), campaign.ID, owner.ID)

		require.NoError(t, err)
		assert.Equal(t, "Summer Launch", got.Name)
	})

	t.Run("create requires an existing owner", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CreateCampaign(context.Background(), 42, campaignInput())

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("another owner's campaign reads as not found", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)

		campaign, err := svc.CreateCampaign(context.Background(), owner.ID, campaignInput())
		require.NoError(t, err)

		_, err = svc.GetCampaign(context.Background(), campaign.ID, owner.ID+1)

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("update rewrites the editable fields", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)

		campaign, err := svc.CreateCampaign(context.Background(), owner.ID, campaignInput())
		require.NoError(t, err)

		in := campaignInput()
		in.Name = "Autumn Launch"
		in.LandingURL = "https://example.com/autumn"

		updated, err := svc.UpdateCampaign(context.Background(), campaign.ID, owner.ID, in)

		require.NoError(t, err)
		assert.Equal(t, "Autumn Launch", updated.Name)
		assert.Equal(t, "https://example.com/autumn", updated.LandingURL)
		assert.Equal(t, owner.ID, updated.OwnerID)
	})

	t.Run("list returns only active campaigns", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		first, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		second, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateCampaign(ctx, first.ID, owner.ID))

		campaigns, err := svc.ListCampaigns(ctx, owner.ID)

		require.NoError(t, err)
		require.Len(t, campaigns, 1)
		assert.Equal(t, second.ID, campaigns[0].ID)
	})
}

func TestService_DeactivateCampaign(t *testing.T) {
	t.Run("refuses while active links remain", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		seedLink(t, memStore, owner, campaign.ID, 1)

		err = svc.DeactivateCampaign(ctx, campaign.ID, owner.ID)

		assert.ErrorIs(t, err, catalog.ErrActiveLinks)
	})

	t.Run("succeeds once the links are gone", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		link := seedLink(t, memStore, owner, campaign.ID, 1)
		require.NoError(t, memStore.DeactivateLink(ctx, link.ID))

		require.NoError(t, svc.DeactivateCampaign(ctx, campaign.ID, owner.ID))

		got, err := memStore.GetCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusInactive, got.Status)
	})

	t.Run("repeat deactivation is a no-op", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateCampaign(ctx, campaign.ID, owner.ID))
		require.NoError(t, svc.DeactivateCampaign(ctx, campaign.ID, owner.ID))
	})

	t.Run("a link issued after the existence check still blocks the flip", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		// The existence check and the status flip are one guarded write, so a
		// link present at write time blocks it no matter what any earlier
		// check saw.
		seedLink(t, memStore, owner, campaign.ID, 1)

		changed, err := memStore.DeactivateCampaignIfUnlinked(ctx, campaign.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		got, err := memStore.GetCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusActive, got.Status)

		err = svc.DeactivateCampaign(ctx, campaign.ID, owner.ID)
		assert.ErrorIs(t, err, catalog.ErrActiveLinks)
	})
}

func TestService_Creators(t *testing.T) {
	t.Run("deactivation cascades to the creator's links first", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		link := seedLink(t, memStore, owner, campaign.ID, 1)

		require.NoError(t, svc.DeactivateCreator(ctx, link.CreatorID, owner.ID))

		_, err = memStore.FindActiveBySlug(ctx, link.Slug)
		assert.ErrorIs(t, err, tracking.ErrInvalidLink)

		creator, err := memStore.GetCreator(ctx, link.CreatorID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusInactive, creator.Status)
	})

	t.Run("deactivation leaves other creators' links alone", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		first := seedLink(t, memStore, owner, campaign.ID, 1)
		second := seedLink(t, memStore, owner, campaign.ID, 2)

		require.NoError(t, svc.DeactivateCreator(ctx, first.CreatorID, owner.ID))

		_, err = memStore.FindActiveBySlug(ctx, second.Slug)
		assert.NoError(t, err)
	})

	t.Run("cannot deactivate another owner's creator", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		link := seedLink(t, memStore, owner, campaign.ID, 1)

		err = svc.DeactivateCreator(ctx, link.CreatorID, owner.ID+1)

		assert.ErrorIs(t, err, catalog.ErrNotFound)

		// The cascade must not have run.
		_, err = memStore.FindActiveBySlug(ctx, link.Slug)
		assert.NoError(t, err)
	})

	t.Run("repeat deactivation is a no-op", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		creator, err := svc.CreateCreator(ctx, owner.ID, catalog.CreatorInput{Name: "Creator"})
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateCreator(ctx, creator.ID, owner.ID))
		require.NoError(t, svc.DeactivateCreator(ctx, creator.ID, owner.ID))
	})
}

func TestService_Channels(t *testing.T) {
	channelInput := catalog.ChannelInput{Platform: "Instagram", Placement: "Story"}

	t.Run("create defaults the display name", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)

		channel, err := svc.CreateChannel(context.Background(), owner.ID, channelInput)

		require.NoError(t, err)
		assert.Equal(t, "Instagram Story", channel.DisplayName)
	})

	t.Run("duplicate active identity conflicts", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		_, err := svc.CreateChannel(ctx, owner.ID, channelInput)
		require.NoError(t, err)

		_, err = svc.CreateChannel(ctx, owner.ID, channelInput)

		assert.ErrorIs(t, err, catalog.ErrDuplicateChannel)
	})

	t.Run("same identity under another owner is fine", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		other := &catalog.Owner{Email: "other@example.com", Name: "Other"}
		require.NoError(t, memStore.CreateOwner(ctx, other))

		_, err := svc.CreateChannel(ctx, owner.ID, channelInput)
		require.NoError(t, err)

		_, err = svc.CreateChannel(ctx, other.ID, channelInput)

		assert.NoError(t, err)
	})

	t.Run("recreating an inactive identity restores it in place", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		original, err := svc.CreateChannel(ctx, owner.ID, channelInput)
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateChannel(ctx, original.ID, owner.ID))

		in := channelInput
		in.DisplayName = "IG Stories v2"

		restored, err := svc.CreateChannel(ctx, owner.ID, in)

		require.NoError(t, err)
		assert.Equal(t, original.ID, restored.ID)
		assert.Equal(t, catalog.StatusActive, restored.Status)
		assert.Equal(t, "IG Stories v2", restored.DisplayName)
	})

	t.Run("update to a taken identity conflicts", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		_, err := svc.CreateChannel(ctx, owner.ID, channelInput)
		require.NoError(t, err)

		second, err := svc.CreateChannel(ctx, owner.ID, catalog.ChannelInput{Platform: "YouTube", Placement: "Description"})
		require.NoError(t, err)

		_, err = svc.UpdateChannel(ctx, second.ID, owner.ID, channelInput)

		assert.ErrorIs(t, err, catalog.ErrDuplicateChannel)
	})

	t.Run("deactivation cascades to the channel's links first", func(t *testing.T) {
		svc, memStore := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		campaign, err := svc.CreateCampaign(ctx, owner.ID, campaignInput())
		require.NoError(t, err)

		link := seedLink(t, memStore, owner, campaign.ID, 1)

		require.NoError(t, svc.DeactivateChannel(ctx, link.ChannelID, owner.ID))

		_, err = memStore.FindActiveBySlug(ctx, link.Slug)
		assert.ErrorIs(t, err, tracking.ErrInvalidLink)

		channel, err := memStore.GetChannel(ctx, link.ChannelID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StatusInactive, channel.Status)
	})

	t.Run("inactive channels are hidden from get", func(t *testing.T) {
		svc, _ := newService(t)
		owner := createOwner(t, svc)
		ctx := context.Background()

		channel, err := svc.CreateChannel(ctx, owner.ID, channelInput)
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateChannel(ctx, channel.ID, owner.ID))

		_, err = svc.GetChannel(ctx, channel.ID, owner.ID)

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
