package domain

import (
	"context"
	"time"
)

// CacheRepository stores JSON-serializable values with a TTL.
// Get decodes into dst and returns ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProjectProvider is the paginated project source searched by address.
// Pages are 1-based.
type ProjectProvider interface {
	ListProjects(ctx context.Context, credential string, page, pageSize int) ([]Candidate, error)
	ListPhotos(ctx context.Context, credential, projectID string, limit int) ([]Photo, error)
}

// Throttler is implemented by providers that rate-limit their upstream calls.
// Reserve waits for a slot for as long as wait allows and returns ctx carrying it.
// Calls made with the returned context do not wait again.
type Throttler interface {
	Reserve(wait, ctx context.Context) (context.Context, error)
}

// MediaProvider serves the full media set of one project
type MediaProvider interface {
	GetProject(ctx context.Context, credential, projectID string) (*Candidate, error)
	ListPhotoPage(ctx context.Context, credential, projectID string, page, perPage int) ([]MediaItem, error)
	ListVideos(ctx context.Context, credential, projectID string) ([]MediaItem, error)
	ListDocuments(ctx context.Context, credential, projectID string) ([]MediaItem, error)
}

// TimelineScraper reads media links from a project's public timeline page
type TimelineScraper interface {
	ScrapeTimeline(ctx context.Context, publicURL string) ([]MediaItem, error)
}

// LabelProvider serves project labels
type LabelProvider interface {
	ListProjectLabels(ctx context.Context, credential, projectID string) ([]Label, error)
}

// TenantDirectory resolves tenant keys to configuration
type TenantDirectory interface {
	Lookup(key string) (*Tenant, error)
	Names() []string
	Credential(t *Tenant) (string, error)
}

// StreetViewProvider geocodes addresses and checks imagery coverage
type StreetViewProvider interface {
	Configured() bool
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
	HasImagery(ctx context.Context, lat, lng float64) (bool, error)
	ImageURL(lat, lng float64) string
}

// LeadRepository persists funnel and gallery leads
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *Lead) error
	ListLeads(ctx context.Context, tenant string, limit int) ([]Lead, error)
}

// BusinessUserRepository persists contractor accounts
type BusinessUserRepository interface {
	CreateBusinessUser(ctx context.Context, user *BusinessUser) error
	UpsertBusinessUser(ctx context.Context, user *BusinessUser) error
	FindBusinessUserByEmail(ctx context.Context, email string) (*BusinessUser, error)
	ListBusinessUsers(ctx context.Context, limit int) ([]BusinessUser, error)
}

// ProspectRepository persists prospects and their call status
type ProspectRepository interface {
	CreateProspect(ctx context.Context, p *Prospect) error
	GetProspect(ctx context.Context, id string) (*Prospect, error)
	ListProspects(ctx context.Context, q ProspectQuery) ([]Prospect, error)
	CountProspects(ctx context.Context, q ProspectQuery) (total int, homeowners int, err error)
	UpdateProspectStatus(ctx context.Context, id string, status *string) error
}

// ProjectRepository persists synced projects and their labels
type ProjectRepository interface {
	UpsertProject(ctx context.Context, p *ProjectRecord) error
	ListProjects(ctx context.Context, q ProjectQuery) ([]ProjectRecord, int, error)
	ListTags(ctx context.Context, tenant string) ([]Label, error)
}

// StatsRepository returns creation times for the activity chart
type StatsRepository interface {
	CreatedSince(ctx context.Context, entity StatsEntity, tenant string, since time.Time) ([]time.Time, error)
}

// TokenIssuer signs and verifies dashboard tokens
type TokenIssuer interface {
	Issue(p Principal) (string, error)
	Verify(token string) (*Principal, error)
}

// PasswordHasher hashes and checks business user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
}
