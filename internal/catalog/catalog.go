package catalog

import "time"

// Status is the soft-delete state shared by all catalog records and the
// tracking links composed from them. Inactive rows are retained but excluded
// from normal reads.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Owner is an advertiser account. Campaigns, creators, channels and links are
// always scoped to exactly one owner.
type Owner struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}

// Campaign is a marketing campaign with a default landing URL for its links.
type Campaign struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	LandingURL  string
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Creator is a content creator an owner collaborates with.
type Creator struct {
	ID          int64
	OwnerID     int64
	Name        string
	ChannelName string
	ChannelURL  string
	Note        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Channel is a distribution surface identified by platform and placement.
// At most one ACTIVE channel per (owner, platform, placement) may exist.
type Channel struct {
	ID          int64
	OwnerID     int64
	Platform    string
	Placement   string
	DisplayName string
	Note        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultChannelDisplayName is used when a channel is created or updated
// without an explicit display name.
func DefaultChannelDisplayName(platform, placement string) string {
	return platform + " " + placement
}
