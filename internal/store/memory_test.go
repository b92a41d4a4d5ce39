package store_test

import (
	"context"
	"testing"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/store"
	"github.com/serroba/linktrack-go/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOwner(t *testing.T, m *store.MemoryStore) *catalog.Owner {
	t.Helper()

	owner := &catalog.Owner{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, m.CreateOwner(context.Background(), owner))

	return owner
}

func activeLink(campaignID, creatorID, channelID int64, slug string) *tracking.Link {
	return &tracking.Link{
		CampaignID: campaignID,
		CreatorID:  creatorID,
		ChannelID:  channelID,
		Slug:       slug,
		Status:     catalog.StatusActive,
	}
}

func TestMemoryStore_Owners(t *testing.T) {
	t.Run("assigns ids and finds by email", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)

		assert.NotZero(t, owner.ID)

		found, err := m.GetOwnerByEmail(context.Background(), "owner@example.com")

		require.NoError(t, err)
		assert.Equal(t, owner.ID, found.ID)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		m := store.NewMemoryStore()
		seedOwner(t, m)

		err := m.CreateOwner(context.Background(), &catalog.Owner{Email: "owner@example.com"})

		assert.Error(t, err)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		m := store.NewMemoryStore()

		_, err := m.GetOwnerByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestMemoryStore_LinkInsert(t *testing.T) {
	t.Run("rejects a taken slug", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "abc")))

		err := m.Insert(ctx, activeLink(1, 2, 2, "abc"))

		assert.ErrorIs(t, err, tracking.ErrSlugTaken)
	})

	t.Run("rejects a second active link for the combination", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "abc")))

		err := m.Insert(ctx, activeLink(1, 1, 1, "def"))

		assert.ErrorIs(t, err, tracking.ErrDuplicateTriple)
	})

	t.Run("allows an inactive duplicate of the combination", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "abc")))

		inactive := activeLink(1, 1, 1, "def")
		inactive.Status = catalog.StatusInactive

		assert.NoError(t, m.Insert(ctx, inactive))
	})

	t.Run("slug of an inactive link stays reserved", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		link := activeLink(1, 1, 1, "abc")
		require.NoError(t, m.Insert(ctx, link))
		require.NoError(t, m.DeactivateLink(ctx, link.ID))

		err := m.Insert(ctx, activeLink(1, 2, 2, "abc"))

		assert.ErrorIs(t, err, tracking.ErrSlugTaken)
	})
}

func TestMemoryStore_ChannelIdentity(t *testing.T) {
	newChannel := func(owner *catalog.Owner, status catalog.Status) *catalog.Channel {
		return &catalog.Channel{
			OwnerID:   owner.ID,
			Platform:  "Instagram",
			Placement: "Story",
			Status:    status,
		}
	}

	t.Run("rejects a second active identity", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)
		ctx := context.Background()

		require.NoError(t, m.CreateChannel(ctx, newChannel(owner, catalog.StatusActive)))

		err := m.CreateChannel(ctx, newChannel(owner, catalog.StatusActive))

		assert.ErrorIs(t, err, catalog.ErrDuplicateChannel)
	})

	t.Run("get by identity prefers the active channel", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)
		ctx := context.Background()

		inactive := newChannel(owner, catalog.StatusInactive)
		require.NoError(t, m.CreateChannel(ctx, inactive))

		active := newChannel(owner, catalog.StatusActive)
		require.NoError(t, m.CreateChannel(ctx, active))

		found, err := m.GetChannelByIdentity(ctx, owner.ID, "Instagram", "Story")

		require.NoError(t, err)
		assert.Equal(t, active.ID, found.ID)
	})

	t.Run("reactivating into a taken identity fails", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)
		ctx := context.Background()

		inactive := newChannel(owner, catalog.StatusInactive)
		require.NoError(t, m.CreateChannel(ctx, inactive))

		require.NoError(t, m.CreateChannel(ctx, newChannel(owner, catalog.StatusActive)))

		_, err := m.SetChannelStatus(ctx, inactive.ID, catalog.StatusActive)

		assert.ErrorIs(t, err, catalog.ErrDuplicateChannel)
	})
}

func TestMemoryStore_StatusFlips(t *testing.T) {
	t.Run("set status reports whether a row changed", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)
		ctx := context.Background()

		campaign := &catalog.Campaign{OwnerID: owner.ID, Name: "C", Status: catalog.StatusActive}
		require.NoError(t, m.CreateCampaign(ctx, campaign))

		changed, err := m.SetCampaignStatus(ctx, campaign.ID, catalog.StatusInactive)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = m.SetCampaignStatus(ctx, campaign.ID, catalog.StatusInactive)
		require.NoError(t, err)
		assert.False(t, changed, "same status should not count as a change")
	})

	t.Run("deactivate by creator flips only that creator's active links", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "a")))
		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 2, "b")))
		require.NoError(t, m.Insert(ctx, activeLink(1, 2, 1, "c")))

		flipped, err := m.DeactivateByCreator(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(2), flipped)

		_, err = m.FindActiveBySlug(ctx, "c")
		assert.NoError(t, err)
	})

	t.Run("exists active by campaign", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		link := activeLink(1, 1, 1, "a")
		require.NoError(t, m.Insert(ctx, link))

		active, err := m.ExistsActiveByCampaign(ctx, 1)
		require.NoError(t, err)
		assert.True(t, active)

		require.NoError(t, m.DeactivateLink(ctx, link.ID))

		active, err = m.ExistsActiveByCampaign(ctx, 1)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("guarded campaign deactivation declines while links are active", func(t *testing.T) {
		m := store.NewMemoryStore()
		owner := seedOwner(t, m)
		ctx := context.Background()

		campaign := &catalog.Campaign{OwnerID: owner.ID, Name: "C", Status: catalog.StatusActive}
		require.NoError(t, m.CreateCampaign(ctx, campaign))

		link := activeLink(campaign.ID, 1, 1, "a")
		require.NoError(t, m.Insert(ctx, link))

		changed, err := m.DeactivateCampaignIfUnlinked(ctx, campaign.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		require.NoError(t, m.DeactivateLink(ctx, link.ID))

		changed, err = m.DeactivateCampaignIfUnlinked(ctx, campaign.ID)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = m.DeactivateCampaignIfUnlinked(ctx, campaign.ID)
		require.NoError(t, err)
		assert.False(t, changed, "already inactive")
	})
}

func TestMemoryStore_BulkOperations(t *testing.T) {
	t.Run("bulk insert assigns sequential ids", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		links := []tracking.Link{
			*activeLink(1, 1, 1, "a"),
			*activeLink(1, 1, 2, "b"),
			*activeLink(1, 2, 1, "c"),
		}

		require.NoError(t, m.BulkInsertLinks(ctx, links))

		ids, err := m.ActiveLinkIDs(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("bulk insert rejects slug conflicts", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "a")))

		err := m.BulkInsertLinks(ctx, []tracking.Link{*activeLink(1, 2, 2, "a")})

		assert.ErrorIs(t, err, tracking.ErrSlugTaken)
	})

	t.Run("bulk insert clicks reports the row count", func(t *testing.T) {
		m := store.NewMemoryStore()

		n, err := m.BulkInsertClicks(context.Background(), []tracking.ClickEvent{
			{LinkID: 1}, {LinkID: 1}, {LinkID: 2},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("active slugs honors the limit in id order", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "a")))
		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 2, "b")))

		inactive := activeLink(1, 2, 1, "c")
		inactive.Status = catalog.StatusInactive
		require.NoError(t, m.Insert(ctx, inactive))

		slugs, err := m.ActiveSlugs(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, slugs)
	})

	t.Run("reset wipes everything", func(t *testing.T) {
		m := store.NewMemoryStore()
		ctx := context.Background()
		seedOwner(t, m)
		require.NoError(t, m.Insert(ctx, activeLink(1, 1, 1, "a")))

		require.NoError(t, m.Reset(ctx))

		_, err := m.GetOwnerByEmail(ctx, "owner@example.com")
		assert.ErrorIs(t, err, catalog.ErrNotFound)

		_, err = m.FindActiveBySlug(ctx, "a")
		assert.ErrorIs(t, err, tracking.ErrInvalidLink)
	})
}
