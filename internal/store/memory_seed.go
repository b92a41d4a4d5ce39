package store

import (
	"context"
	"sort"

	"github.com/serroba/linktrack-go/internal/catalog"
	"github.com/serroba/linktrack-go/internal/tracking"
)

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()

	return nil
}

func (m *MemoryStore) BulkInsertLinks(_ context.Context, links []tracking.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, link := range links {
		if _, taken := m.slugIndex[link.Slug]; taken {
			return tracking.ErrSlugTaken
		}

		m.linkSeq++
		link.ID = m.linkSeq
		m.links[link.ID] = link
		m.slugIndex[link.Slug] = link.ID
	}

	return nil
}

func (m *MemoryStore) BulkInsertClicks(_ context.Context, clicks []tracking.ClickEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, click := range clicks {
		m.clickSeq++
		click.ID = m.clickSeq
		m.clicks = append(m.clicks, click)
	}

	return int64(len(clicks)), nil
}

func (m *MemoryStore) ActiveLinkIDs(_ context.Context, campaignID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []int64

	for _, link := range m.links {
		if link.CampaignID == campaignID && link.Status == catalog.StatusActive {
			out = append(out, link.ID)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

func (m *MemoryStore) ActiveSlugs(_ context.Context, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type slugID struct {
		id   int64
		slug string
	}

	var all []slugID

	for _, link := range m.links {
		if link.Status == catalog.StatusActive {
			all = append(all, slugID{id: link.ID, slug: link.Slug})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })

	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.slug
	}

	return out, nil
}
