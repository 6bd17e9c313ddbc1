package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/roofleads/backend/internal/domain"
)

// MockLeadRepository keeps leads in memory
type MockLeadRepository struct {
	leads     []domain.Lead
	createErr error
	lastLimit int
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.leads = append(m.leads, *lead)
	return nil
}

func (m *MockLeadRepository) ListLeads(ctx context.Context, tenant string, limit int) ([]domain.Lead, error) {
	m.lastLimit = limit
	out := []domain.Lead{}
	for _, l := range m.leads {
		if l.Tenant == tenant {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockBusinessUserRepository keeps accounts keyed by email
type MockBusinessUserRepository struct {
	users     map[string]*domain.BusinessUser
	findErr   error
	lastLimit int
}

func newMockUsers(users ...*domain.BusinessUser) *MockBusinessUserRepository {
	m := &MockBusinessUserRepository{users: map[string]*domain.BusinessUser{}}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *MockBusinessUserRepository) CreateBusinessUser(ctx context.Context, user *domain.BusinessUser) error {
	if _, ok := m.users[user.Email]; ok {
		return domain.ErrAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *MockBusinessUserRepository) UpsertBusinessUser(ctx context.Context, user *domain.BusinessUser) error {
	if existing, ok := m.users[user.Email]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	}
	m.users[user.Email] = user
	return nil
}

func (m *MockBusinessUserRepository) FindBusinessUserByEmail(ctx context.Context, email string) (*domain.BusinessUser, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *MockBusinessUserRepository) ListBusinessUsers(ctx context.Context, limit int) ([]domain.BusinessUser, error) {
	m.lastLimit = limit
	out := []domain.BusinessUser{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

// MockProspectRepository keeps prospects by id and records queries
type MockProspectRepository struct {
	prospects  map[string]*domain.Prospect
	lastQuery  domain.ProspectQuery
	total      int
	homeowners int
	updates    map[string]*string
}

func newMockProspects(ps ...*domain.Prospect) *MockProspectRepository {
	m := &MockProspectRepository{prospects: map[string]*domain.Prospect{}, updates: map[string]*string{}}
	for _, p := range ps {
		m.prospects[p.ID] = p
	}
	return m
}

func (m *MockProspectRepository) CreateProspect(ctx context.Context, p *domain.Prospect) error {
	m.prospects[p.ID] = p
	return nil
}

func (m *MockProspectRepository) GetProspect(ctx context.Context, id string) (*domain.Prospect, error) {
	p, ok := m.prospects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProspectRepository) ListProspects(ctx context.Context, q domain.ProspectQuery) ([]domain.Prospect, error) {
	m.lastQuery = q
	out := []domain.Prospect{}
	for _, p := range m.prospects {
		if p.Tenant == q.Tenant {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MockProspectRepository) CountProspects(ctx context.Context, q domain.ProspectQuery) (int, int, error) {
	return m.total, m.homeowners, nil
}

func (m *MockProspectRepository) UpdateProspectStatus(ctx context.Context, id string, status *string) error {
	if _, ok := m.prospects[id]; !ok {
		return domain.ErrNotFound
	}
	m.updates[id] = status
	return nil
}

// MockProjectRepository records upserts and list queries
type MockProjectRepository struct {
	mu        sync.Mutex
	upserted  []*domain.ProjectRecord
	upsertErr map[string]error
	lastQuery domain.ProjectQuery
	records   []domain.ProjectRecord
	total     int
	tags      []domain.Label
}

func (m *MockProjectRepository) UpsertProject(ctx context.Context, p *domain.ProjectRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.upsertErr[p.ID]; err != nil {
		return err
	}
	m.upserted = append(m.upserted, p)
	return nil
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, q domain.ProjectQuery) ([]domain.ProjectRecord, int, error) {
	m.lastQuery = q
	return m.records, m.total, nil
}

func (m *MockProjectRepository) ListTags(ctx context.Context, tenant string) ([]domain.Label, error) {
	return append([]domain.Label(nil), m.tags...), nil
}

// MockStatsRepository returns canned creation times
type MockStatsRepository struct {
	times     []time.Time
	lastSince time.Time
	lastKind  domain.StatsEntity
}

func (m *MockStatsRepository) CreatedSince(ctx context.Context, entity domain.StatsEntity, tenant string, since time.Time) ([]time.Time, error) {
	m.lastKind = entity
	m.lastSince = since
	return m.times, nil
}

// MockTokenIssuer encodes the principal as the token itself
type MockTokenIssuer struct {
	issueErr error
}

func (m *MockTokenIssuer) Issue(p domain.Principal) (string, error) {
	if m.issueErr != nil {
		return "", m.issueErr
	}
	return "token-for-" + p.Email, nil
}

func (m *MockTokenIssuer) Verify(token string) (*domain.Principal, error) {
	if token != "valid" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Principal{UserID: "u1", Slug: "budroofing"}, nil
}

// MockPasswordHasher treats "hash:"+password as the hash of password
type MockPasswordHasher struct{}

func (MockPasswordHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (MockPasswordHasher) Check(hash, password string) bool { return hash == "hash:"+password }

// MockMediaProvider serves a project and its media
type MockMediaProvider struct {
	project    *domain.Candidate
	projectErr error
	photoPages map[int][]domain.MediaItem
	photoErr   error
	videos     []domain.MediaItem
	videoErr   error
	documents  []domain.MediaItem
	docErr     error
	photoCalls []int
}

func (m *MockMediaProvider) GetProject(ctx context.Context, credential, projectID string) (*domain.Candidate, error) {
	if m.projectErr != nil {
		return nil, m.projectErr
	}
	return m.project, nil
}

func (m *MockMediaProvider) ListPhotoPage(ctx context.Context, credential, projectID string, page, perPage int) ([]domain.MediaItem, error) {
	m.photoCalls = append(m.photoCalls, page)
	if m.photoErr != nil {
		return nil, m.photoErr
	}
	return m.photoPages[page], nil
}

func (m *MockMediaProvider) ListVideos(ctx context.Context, credential, projectID string) ([]domain.MediaItem, error) {
	return m.videos, m.videoErr
}

func (m *MockMediaProvider) ListDocuments(ctx context.Context, credential, projectID string) ([]domain.MediaItem, error) {
	return m.documents, m.docErr
}

// MockTimelineScraper returns fixed media and records the pages it was asked for
type MockTimelineScraper struct {
	items []domain.MediaItem
	err   error
	urls  []string
}

func (m *MockTimelineScraper) ScrapeTimeline(ctx context.Context, publicURL string) ([]domain.MediaItem, error) {
	m.urls = append(m.urls, publicURL)
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

// MockLabelProvider returns labels per project id
type MockLabelProvider struct {
	labels map[string][]domain.Label
	errs   map[string]error
}

func (m *MockLabelProvider) ListProjectLabels(ctx context.Context, credential, projectID string) ([]domain.Label, error) {
	if err := m.errs[projectID]; err != nil {
		return nil, err
	}
	return m.labels[projectID], nil
}

// MockStreetViewProvider geocodes from a fixed table
type MockStreetViewProvider struct {
	configured   bool
	geocodeErr   error
	imageryErr   error
	hasImagery   bool
	geocodeCalls int
}

func (m *MockStreetViewProvider) Configured() bool { return m.configured }

func (m *MockStreetViewProvider) Geocode(ctx context.Context, address string) (float64, float64, error) {
	m.geocodeCalls++
	if m.geocodeErr != nil {
		return 0, 0, m.geocodeErr
	}
	return 39.1, -94.5, nil
}

func (m *MockStreetViewProvider) HasImagery(ctx context.Context, lat, lng float64) (bool, error) {
	return m.hasImagery, m.imageryErr
}

func (m *MockStreetViewProvider) ImageURL(lat, lng float64) string {
	return "https://maps.example/streetview?location=39.1,-94.5"
}

// MockCache is a map-backed CacheRepository without expiry
type MockCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMockCache() *MockCache {
	return &MockCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *MockCache) Get(ctx context.Context, key string, dst interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

var errBoom = errors.New("boom")
