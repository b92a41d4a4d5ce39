package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/seed"
	"github.com/serroba/linktrack-go/internal/stats"
	"github.com/serroba/linktrack-go/internal/tracking"
)

// MemoryStore is an in-memory implementation of every repository interface.
// It mirrors the PostgreSQL store's semantics, including the uniqueness rules
// and aggregation ordering, so services can be tested without a database.
type MemoryStore struct {
	mu sync.RWMutex

	ownerSeq    int64
	campaignSeq int64
	creatorSeq  int64
	channelSeq  int64
	linkSeq     int64
	clickSeq    int64

	owners    map[int64]catalog.Owner
	campaigns map[int64]catalog.Campaign
	creators  map[int64]catalog.Creator
	channels  map[int64]catalog.Channel
	links     map[int64]tracking.Link
	slugIndex map[string]int64
	clicks    []tracking.ClickEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	m.reset()

	return m
}

func (m *MemoryStore) reset() {
	m.owners = make(map[int64]catalog.Owner)
	m.campaigns = make(map[int64]catalog.Campaign)
	m.creators = make(map[int64]catalog.Creator)
	m.channels = make(map[int64]catalog.Channel)
	m.links = make(map[int64]tracking.Link)
	m.slugIndex = make(map[string]int64)
	m.clicks = nil
	m.ownerSeq, m.campaignSeq, m.creatorSeq = 0, 0, 0
	m.channelSeq, m.linkSeq, m.clickSeq = 0, 0, 0
}

func (m *MemoryStore) CreateOwner(_ context.Context, owner *catalog.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.owners {
		if existing.Email == owner.Email {
			return fmt.Errorf("owner email %q already exists", owner.Email)
		}
	}

	m.ownerSeq++
	owner.ID = m.ownerSeq
	m.owners[owner.ID] = *owner

	return nil
}

func (m *MemoryStore) GetOwner(_ context.Context, id int64) (*catalog.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, ok := m.owners[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	return &owner, nil
}

func (m *MemoryStore) GetOwnerByEmail(_ context.Context, email string) (*catalog.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, owner := range m.owners {
		if owner.Email == email {
			found := owner

			return &found, nil
		}
	}

	return nil, catalog.ErrNotFound
}

func (m *MemoryStore) CreateCampaign(_ context.Context, campaign *catalog.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.campaignSeq++
	campaign.ID = m.campaignSeq
	m.campaigns[campaign.ID] = *campaign

	return nil
}

func (m *MemoryStore) GetCampaign(_ context.Context, id int64) (*catalog.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	campaign, ok := m.campaigns[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	return &campaign, nil
}

func (m *MemoryStore) ListActiveCampaigns(_ context.Context, ownerID int64) ([]catalog.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []catalog.Campaign

	for _, campaign := range m.campaigns {
		if campaign.OwnerID == ownerID && campaign.Status == catalog.StatusActive {
			out = append(out, campaign)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStore) UpdateCampaign(_ context.Context, campaign *catalog.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.campaigns[campaign.ID]
	if !ok {
		return catalog.ErrNotFound
	}

	campaign.OwnerID = existing.OwnerID
	campaign.CreatedAt = existing.CreatedAt
	campaign.UpdatedAt = time.Now()
	m.campaigns[campaign.ID] = *campaign

	return nil
}

func (m *MemoryStore) SetCampaignStatus(_ context.Context, id int64, status catalog.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	campaign, ok := m.campaigns[id]
	if !ok || campaign.Status == status {
		return false, nil
	}

	campaign.Status = status
	campaign.UpdatedAt = time.Now()
	m.campaigns[id] = campaign

	return true, nil
}

func (m *MemoryStore) CreateCreator(_ context.Context, creator *catalog.Creator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creatorSeq++
	creator.ID = m.creatorSeq
	m.creators[creator.ID] = *creator

	return nil
}

func (m *MemoryStore) GetCreator(_ context.Context, id int64) (*catalog.Creator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creator, ok := m.creators[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	return &creator, nil
}

func (m *MemoryStore) ListActiveCreators(_ context.Context, ownerID int64) ([]catalog.Creator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []catalog.Creator

	for _, creator := range m.creators {
		if creator.OwnerID == ownerID && creator.Status == catalog.StatusActive {
			out = append(out, creator)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStore) UpdateCreator(_ context.Context, creator *catalog.Creator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.creators[creator.ID]
	if !ok {
		return catalog.ErrNotFound
	}

	creator.OwnerID = existing.OwnerID
	creator.CreatedAt = existing.CreatedAt
	creator.UpdatedAt = time.Now()
	m.creators[creator.ID] = *creator

	return nil
}

func (m *MemoryStore) SetCreatorStatus(_ context.Context, id int64, status catalog.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creator, ok := m.creators[id]
	if !ok || creator.Status == status {
		return false, nil
	}

	creator.Status = status
	creator.UpdatedAt = time.Now()
	m.creators[id] = creator

	return true, nil
}

func (m *MemoryStore) CreateChannel(_ context.Context, channel *catalog.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if channel.Status == catalog.StatusActive &&
		m.activeIdentityExists(channel.OwnerID, channel.Platform, channel.Placement, 0) {
		return catalog.ErrDuplicateChannel
	}

	m.channelSeq++
	channel.ID = m.channelSeq
	m.channels[channel.ID] = *channel

	return nil
}

func (m *MemoryStore) GetChannel(_ context.Context, id int64) (*catalog.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	channel, ok := m.channels[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	return &channel, nil
}

func (m *MemoryStore) GetChannelByIdentity(
	_ context.Context, ownerID int64, platform, placement string,
) (*catalog.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *catalog.Channel

	for id := range m.channels {
		channel := m.channels[id]
		if channel.OwnerID != ownerID || channel.Platform != platform || channel.Placement != placement {
			continue
		}

		if channel.Status == catalog.StatusActive {
			found := channel

			return &found, nil
		}

		if best == nil || channel.UpdatedAt.After(best.UpdatedAt) {
			found := channel
			best = &found
		}
	}

	if best == nil {
		return nil, catalog.ErrNotFound
	}

	return best, nil
}

func (m *MemoryStore) ListActiveChannels(_ context.Context, ownerID int64) ([]catalog.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []catalog.Channel

	for _, channel := range m.channels {
		if channel.OwnerID == ownerID && channel.Status == catalog.StatusActive {
			out = append(out, channel)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStore) UpdateChannel(_ context.Context, channel *catalog.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.channels[channel.ID]
	if !ok {
		return catalog.ErrNotFound
	}

	if channel.Status == catalog.StatusActive &&
		m.activeIdentityExists(existing.OwnerID, channel.Platform, channel.Placement, channel.ID) {
		return catalog.ErrDuplicateChannel
	}

	channel.OwnerID = existing.OwnerID
	channel.CreatedAt = existing.CreatedAt
	channel.UpdatedAt = time.Now()
	m.channels[channel.ID] = *channel

	return nil
}

func (m *MemoryStore) ActiveChannelIdentityExists(
	_ context.Context, ownerID int64, platform, placement string, excludeID int64,
) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.activeIdentityExists(ownerID, platform, placement, excludeID), nil
}

func (m *MemoryStore) SetChannelStatus(_ context.Context, id int64, status catalog.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	channel, ok := m.channels[id]
	if !ok || channel.Status == status {
		return false, nil
	}

	if status == catalog.StatusActive &&
		m.activeIdentityExists(channel.OwnerID, channel.Platform, channel.Placement, id) {
		return false, catalog.ErrDuplicateChannel
	}

	channel.Status = status
	channel.UpdatedAt = time.Now()
	m.channels[id] = channel

	return true, nil
}

// caller holds the lock
func (m *MemoryStore) activeIdentityExists(ownerID int64, platform, placement string, excludeID int64) bool {
	for _, channel := range m.channels {
		if channel.ID != excludeID &&
			channel.OwnerID == ownerID &&
			channel.Platform == platform &&
			channel.Placement == placement &&
			channel.Status == catalog.StatusActive {
			return true
		}
	}

	return false
}

// Insert enforces slug uniqueness and the single-ACTIVE-link-per-combination
// rule under one lock, matching the atomicity the partial unique indexes give
// the PostgreSQL store.
func (m *MemoryStore) Insert(_ context.Context, link *tracking.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.slugIndex[link.Slug]; taken {
		return tracking.ErrSlugTaken
	}

	if link.Status == catalog.StatusActive {
		for _, existing := range m.links {
			if existing.Status == catalog.StatusActive &&
				existing.CampaignID == link.CampaignID &&
				existing.CreatorID == link.CreatorID &&
				existing.ChannelID == link.ChannelID {
				return tracking.ErrDuplicateTriple
			}
		}
	}

	m.linkSeq++
	link.ID = m.linkSeq
	m.links[link.ID] = *link
	m.slugIndex[link.Slug] = link.ID

	return nil
}

func (m *MemoryStore) GetLink(_ context.Context, id int64) (*tracking.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) FindActiveBySlug(_ context.Context, slug string) (*tracking.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, tracking.ErrInvalidLink
	}

	link := m.links[id]
	if link.Status != catalog.StatusActive {
		return nil, tracking.ErrInvalidLink
	}

	return &link, nil
}

func (m *MemoryStore) ListActiveByCampaign(_ context.Context, campaignID int64) ([]tracking.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tracking.Link

	for _, link := range m.links {
		if link.CampaignID == campaignID && link.Status == catalog.StatusActive {
			out = append(out, link)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (m *MemoryStore) DeactivateLink(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return tracking.ErrNotFound
	}

	link.Status = catalog.StatusInactive
	m.links[id] = link

	return nil
}

func (m *MemoryStore) DeactivateByCreator(_ context.Context, creatorID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flipped int64

	for id, link := range m.links {
		if link.CreatorID == creatorID && link.Status == catalog.StatusActive {
			link.Status = catalog.StatusInactive
			m.links[id] = link
			flipped++
		}
	}

	return flipped, nil
}

func (m *MemoryStore) DeactivateByChannel(_ context.Context, channelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flipped int64

	for id, link := range m.links {
		if link.ChannelID == channelID && link.Status == catalog.StatusActive {
			link.Status = catalog.StatusInactive
			m.links[id] = link
			flipped++
		}
	}

	return flipped, nil
}

func (m *MemoryStore) ExistsActiveByCampaign(_ context.Context, campaignID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if link.CampaignID == campaignID && link.Status == catalog.StatusActive {
			return true, nil
		}
	}

	return false, nil
}

// DeactivateCampaignIfUnlinked performs the active-link check and the status
// flip under one lock, matching the single conditional UPDATE in Postgres.
func (m *MemoryStore) DeactivateCampaignIfUnlinked(_ context.Context, campaignID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	campaign, ok := m.campaigns[campaignID]
	if !ok || campaign.Status != catalog.StatusActive {
		return false, nil
	}

	for _, link := range m.links {
		if link.CampaignID == campaignID && link.Status == catalog.StatusActive {
			return false, nil
		}
	}

	campaign.Status = catalog.StatusInactive
	campaign.UpdatedAt = time.Now()
	m.campaigns[campaignID] = campaign

	return true, nil
}

func (m *MemoryStore) InsertClick(_ context.Context, click *tracking.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clickSeq++
	click.ID = m.clickSeq
	m.clicks = append(m.clicks, *click)

	return nil
}

// Compile-time checks.
var (
	_ catalog.Repository       = (*MemoryStore)(nil)
	_ catalog.LinkGuard        = (*MemoryStore)(nil)
	_ tracking.LinkRepository  = (*MemoryStore)(nil)
	_ tracking.ClickRepository = (*MemoryStore)(nil)
	_ seed.Store               = (*MemoryStore)(nil)
	_ stats.Repository         = (*MemoryStore)(nil)
)
