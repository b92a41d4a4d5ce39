// Package analytics defines the tracking events published by the server and
// the handlers that persist them. Event delivery is best effort; the click
// record of truth is the click_events table, not this stream.
package analytics

import "time"

// Topics. One event type per topic.
const (
	TopicLinkCreated = "link.created"
	TopicLinkClicked = "link.clicked"
)

// LinkCreatedEvent is emitted after a tracking link is issued.
type LinkCreatedEvent struct {
	LinkID     int64     `json:"linkId"`
	CampaignID int64     `json:"campaignId"`
	CreatorID  int64     `json:"creatorId"`
	ChannelID  int64     `json:"channelId"`
	Slug       string    `json:"slug"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LinkClickedEvent is emitted after a redirect is served.
type LinkClickedEvent struct {
	LinkID     int64     `json:"linkId"`
	CampaignID int64     `json:"campaignId"`
	Slug       string    `json:"slug"`
	ClickedAt  time.Time `json:"clickedAt"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Referer    string    `json:"referer,omitempty"`
}
