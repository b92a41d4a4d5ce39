package tracking

import (
	"context"
	"fmt"
	"time"
)

// ClickMeta is the request metadata recorded with a click. All fields are
// optional and copied verbatim.
type ClickMeta struct {
	ClientIP  string
	UserAgent string
	Referer   string
}

// Clicker resolves slugs and records click events. This is the hot path: one
// indexed lookup plus one insert, nothing else.
type Clicker struct {
	links  LinkRepository
	clicks ClickRepository
}

// NewClicker creates a click recorder.
func NewClicker(links LinkRepository, clicks ClickRepository) *Clicker {
	return &Clicker{links: links, clicks: clicks}
}

// Resolve maps a slug to its ACTIVE link, appends one click event and returns
// the link for the caller to redirect to its destination. Unknown and
// inactive slugs both fail with ErrInvalidLink.
func (c *Clicker) Resolve(ctx context.Context, slug string, meta ClickMeta) (*Link, error) {
	link, err := c.links.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	click := &ClickEvent{
		LinkID:    link.ID,
		ClickedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
	}

	if err := c.clicks.InsertClick(ctx, click); err != nil {
		return nil, fmt.Errorf("record click: %w", err)
	}

	return link, nil
}
