package domain

import "time"

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Candidate is a CompanyCam project as seen during address search
type Candidate struct {
	ID            string       `json:"id"`
	Name          string       `json:"name,omitempty"`
	StreetAddress string       `json:"streetAddress"`
	City          string       `json:"city,omitempty"`
	State         string       `json:"state,omitempty"`
	PostalCode    string       `json:"postalCode,omitempty"`
	PhotoCount    int          `json:"photoCount"`
	PublicURL     string       `json:"publicUrl,omitempty"`
	Status        string       `json:"status,omitempty"`
	FeatureImage  string       `json:"featureImage,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

// PhotoURI is one rendition of a photo
type PhotoURI struct {
	Type string `json:"type"` // "thumbnail", "web", "original", ...
	URI  string `json:"uri"`
}

// Photo is a project photo as returned by the provider
type Photo struct {
	ID   string     `json:"id"`
	URIs []PhotoURI `json:"uris"`
}

// Thumbnail is the single preview URI chosen for a matched photo
type Thumbnail struct {
	Thumbnail string `json:"thumbnail"`
}

// MatchType records which rule accepted a candidate
type MatchType string

const (
	MatchTypeDigits    MatchType = "digits"
	MatchTypeSubstring MatchType = "substring"
)

// MatchResult is the outcome of an address search.
// Found is false when pages ran out or the time budget was spent.
type MatchResult struct {
	Found         bool        `json:"found"`
	Project       *Candidate  `json:"project,omitempty"`
	Photos        []Thumbnail `json:"photos,omitempty"`
	MatchType     MatchType   `json:"matchType,omitempty"`
	PagesSearched int         `json:"pagesSearched"`
	TimedOut      bool        `json:"timedOut,omitempty"`
}

// MediaType distinguishes gallery entries
type MediaType string

const (
	MediaTypePhoto    MediaType = "photo"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

// MediaItem is a photo, video or document attached to a project
type MediaItem struct {
	ID          string     `json:"id"`
	MediaType   MediaType  `json:"media_type"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	URIs        []PhotoURI `json:"uris,omitempty"`
	CapturedAt  int64      `json:"captured_at,omitempty"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}

// Timestamp is the capture time, falling back to creation time
func (m MediaItem) Timestamp() int64 {
	if m.CapturedAt != 0 {
		return m.CapturedAt
	}
	return m.CreatedAt
}

// Gallery is a project with all of its media, newest first
type Gallery struct {
	Project *Candidate  `json:"project"`
	Media   []MediaItem `json:"media"`
}

// Label is a CompanyCam project label (tag)
type Label struct {
	ID           string `json:"id"`
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value,omitempty"`
	TagType      string `json:"tagType,omitempty"`
}

// ProjectRecord is a synced project stored for the dashboard
type ProjectRecord struct {
	ID            string          `json:"id"` // CompanyCam project id
	Tenant        string          `json:"tenant"`
	Name          string          `json:"name,omitempty"`
	Address       string          `json:"address"`
	City          string          `json:"city,omitempty"`
	State         string          `json:"state,omitempty"`
	PostalCode    string          `json:"postalCode,omitempty"`
	Status        string          `json:"status,omitempty"`
	PhotoCount    int             `json:"photoCount"`
	PublicURL     string          `json:"publicUrl,omitempty"`
	FeatureImage  string          `json:"featureImage,omitempty"`
	Lat           *float64        `json:"lat,omitempty"`
	Lon           *float64        `json:"lon,omitempty"`
	Geohash       string          `json:"geohash,omitempty"`
	CCCreatedAt   *time.Time      `json:"ccCreatedAt,omitempty"`
	CCUpdatedAt   *time.Time      `json:"ccUpdatedAt,omitempty"`
	LastSyncedAt  time.Time       `json:"lastSyncedAt"`
	Tags          []Label         `json:"tags"`
	ProspectCount int             `json:"prospectCount"`
	Prospects     []ProspectBrief `json:"prospects,omitempty"`
}

// ProspectBrief is the slice of a prospect shown on a project row
type ProspectBrief struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	IsHomeowner bool    `json:"isHomeowner"`
	Status      *string `json:"status"`
}

// ProjectQuery filters and pages the dashboard project list
type ProjectQuery struct {
	Tenant       string
	Status       string
	Tag          string
	Address      string
	City         string
	State        string
	Text         string // free text across address, city and state
	HasProspects *bool
	SortBy       string
	SortDesc     bool
	Limit        int
	Offset       int
}

// StreetView is the outcome of a street-view availability lookup
type StreetView struct {
	Available bool    `json:"available"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}
