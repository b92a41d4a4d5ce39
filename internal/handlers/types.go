package handlers

import "time"

// LinkBody is the wire representation of a tracking link.
type LinkBody struct {
	ID             int64     `json:"id"`
	CampaignID     int64     `json:"campaignId"`
	CreatorID      int64     `json:"creatorId"`
	ChannelID      int64     `json:"channelId"`
	Slug           string    `doc:"Unique redirect slug" example:"Ab3xYz9Q" json:"slug"`
	ShortURL       string    `doc:"Full redirect URL" example:"http://localhost:8888/t/Ab3xYz9Q" json:"shortUrl"`
	DestinationURL string    `json:"destinationUrl"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateLinkRequest is the request for issuing a tracking link.
type CreateLinkRequest struct {
	Body struct {
		OwnerID        int64  `doc:"Calling owner id, checked against all three entities" json:"ownerId"`
		CampaignID     int64  `json:"campaignId"`
		CreatorID      int64  `json:"creatorId"`
		ChannelID      int64  `json:"channelId"`
		DestinationURL string `doc:"Defaults to the campaign landing URL" json:"destinationUrl,omitempty" required:"false"`
	}
}

// CreateLinkResponse is the response for a successfully issued link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The redirect URL" header:"Location"`
	}
	Body LinkBody
}

// RedirectRequest is the request for resolving a slug.
type RedirectRequest struct {
	Slug string `doc:"The link slug" example:"Ab3xYz9Q" path:"slug"`
}

// RedirectResponse redirects the visitor to the link destination.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// CampaignLinksRequest lists the ACTIVE links of a campaign.
type CampaignLinksRequest struct {
	CampaignID int64 `path:"campaignId"`
	OwnerID    int64 `query:"ownerId"`
}

// LinkListResponse is a list of links.
type LinkListResponse struct {
	Body []LinkBody
}

// DeleteLinkRequest deactivates a single link.
type DeleteLinkRequest struct {
	LinkID  int64 `path:"linkId"`
	OwnerID int64 `query:"ownerId"`
}

// CreateOwnerRequest registers an owner account.
type CreateOwnerRequest struct {
	Body struct {
		Email string `format:"email" json:"email"`
		Name  string `json:"name"`
	}
}

// OwnerResponse is the wire representation of an owner.
type OwnerResponse struct {
	Body struct {
		ID        int64     `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
}

// CampaignBody is the wire representation of a campaign.
type CampaignBody struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LandingURL  string    `json:"landingUrl"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"`
}

// CampaignInputBody is the write payload shared by create and update.
type CampaignInputBody struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty" required:"false"`
	LandingURL  string    `format:"uri" json:"landingUrl"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// CreateCampaignRequest creates a campaign for an owner.
type CreateCampaignRequest struct {
	OwnerID int64 `query:"ownerId"`
	Body    CampaignInputBody
}

// CampaignResponse wraps one campaign.
type CampaignResponse struct {
	Body CampaignBody
}

// CampaignListResponse lists the owner's ACTIVE campaigns.
type CampaignListResponse struct {
	Body []CampaignBody
}

// GetByIDRequest addresses one resource scoped to an owner.
type GetByIDRequest struct {
	ID      int64 `path:"id"`
	OwnerID int64 `query:"ownerId"`
}

// UpdateCampaignRequest updates a campaign in place.
type UpdateCampaignRequest struct {
	ID      int64 `path:"id"`
	OwnerID int64 `query:"ownerId"`
	Body    CampaignInputBody
}

// CreatorBody is the wire representation of a creator.
type CreatorBody struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"ownerId"`
	Name        string `json:"name"`
	ChannelName string `json:"channelName,omitempty"`
	ChannelURL  string `json:"channelUrl,omitempty"`
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
}

// CreatorInputBody is the write payload shared by create and update.
type CreatorInputBody struct {
	Name        string `json:"name"`
	ChannelName string `json:"channelName,omitempty" required:"false"`
	ChannelURL  string `json:"channelUrl,omitempty" required:"false"`
	Note        string `json:"note,omitempty" required:"false"`
}

// CreateCreatorRequest creates a creator for an owner.
type CreateCreatorRequest struct {
	OwnerID int64 `query:"ownerId"`
	Body    CreatorInputBody
}

// CreatorResponse wraps one creator.
type CreatorResponse struct {
	Body CreatorBody
}

// CreatorListResponse lists the owner's ACTIVE creators.
type CreatorListResponse struct {
	Body []CreatorBody
}

// UpdateCreatorRequest updates a creator in place.
type UpdateCreatorRequest struct {
	ID      int64 `path:"id"`
	OwnerID int64 `query:"ownerId"`
	Body    CreatorInputBody
}

// ChannelBody is the wire representation of a channel.
type ChannelBody struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"ownerId"`
	Platform    string `json:"platform"`
	Placement   string `json:"placement"`
	DisplayName string `json:"displayName"`
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
}

// ChannelInputBody is the write payload shared by create and update.
type ChannelInputBody struct {
	Platform    string `example:"Instagram" json:"platform"`
	Placement   string `example:"Story" json:"placement"`
	DisplayName string `doc:"Defaults to \"platform placement\"" json:"displayName,omitempty" required:"false"`
	Note        string `json:"note,omitempty" required:"false"`
}

// CreateChannelRequest creates a channel for an owner.
type CreateChannelRequest struct {
	OwnerID int64 `query:"ownerId"`
	Body    ChannelInputBody
}

// ChannelResponse wraps one channel.
type ChannelResponse struct {
	Body ChannelBody
}

// ChannelListResponse lists the owner's ACTIVE channels.
type ChannelListResponse struct {
	Body []ChannelBody
}

// UpdateChannelRequest updates a channel in place.
type UpdateChannelRequest struct {
	ID      int64 `path:"id"`
	OwnerID int64 `query:"ownerId"`
	Body    ChannelInputBody
}

// StatsRangeRequest addresses a campaign stats query over a date range.
type StatsRangeRequest struct {
	CampaignID int64  `path:"campaignId"`
	OwnerID    int64  `query:"ownerId"`
	From       string `doc:"Range start date (inclusive)" example:"2026-08-01" query:"from"`
	To         string `doc:"Range end date (inclusive)" example:"2026-08-31" query:"to"`
}

// RankingRequest adds the result limit to the range query.
type RankingRequest struct {
	CampaignID int64  `path:"campaignId"`
	OwnerID    int64  `query:"ownerId"`
	From       string `example:"2026-08-01" query:"from"`
	To         string `example:"2026-08-31" query:"to"`
	Limit      int    `doc:"Rows to return, clamped to 1..50, default 10" query:"limit" required:"false"`
}
