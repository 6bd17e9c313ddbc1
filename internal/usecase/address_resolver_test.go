package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/infrastructure/companycam"
	"github.com/roofleads/backend/internal/logging"
)

// MockProjectProvider serves canned pages and records every call
type MockProjectProvider struct {
	mu          sync.Mutex
	pages       map[int][]domain.Candidate
	pageErrs    map[int]error
	photos      []domain.Photo
	photoErr    error
	onList      func(page int)
	listCalls   []int
	photoCalls  []string
	photoLimit  int
	pageSizes   []int
	hadDeadline bool
}

func (m *MockProjectProvider) ListProjects(ctx context.Context, credential string, page, pageSize int) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, m.hadDeadline = ctx.Deadline()
	m.listCalls = append(m.listCalls, page)
	m.pageSizes = append(m.pageSizes, pageSize)
	if m.onList != nil {
		m.onList(page)
	}
	if err := m.pageErrs[page]; err != nil {
		return nil, err
	}
	return m.pages[page], nil
}

func (m *MockProjectProvider) ListPhotos(ctx context.Context, credential, projectID string, limit int) ([]domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.photoCalls = append(m.photoCalls, projectID)
	m.photoLimit = limit
	if m.photoErr != nil {
		return nil, m.photoErr
	}
	return m.photos, nil
}

type slotKey struct{}

// MockThrottledProvider is a rate-limited provider: every call must hold a reserved slot
type MockThrottledProvider struct {
	*MockProjectProvider
	reserveErr  error
	waitBudgets []time.Duration
	unreserved  int
}

func (m *MockThrottledProvider) Reserve(wait, ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if deadline, ok := wait.Deadline(); ok {
		m.waitBudgets = append(m.waitBudgets, time.Until(deadline))
	}
	if m.reserveErr != nil {
		return ctx, m.reserveErr
	}
	return context.WithValue(ctx, slotKey{}, true), nil
}

func (m *MockThrottledProvider) ListProjects(ctx context.Context, credential string, page, pageSize int) ([]domain.Candidate, error) {
	m.countUnreserved(ctx)
	return m.MockProjectProvider.ListProjects(ctx, credential, page, pageSize)
}

func (m *MockThrottledProvider) ListPhotos(ctx context.Context, credential, projectID string, limit int) ([]domain.Photo, error) {
	m.countUnreserved(ctx)
	return m.MockProjectProvider.ListPhotos(ctx, credential, projectID, limit)
}

func (m *MockThrottledProvider) countUnreserved(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Value(slotKey{}) == nil {
		m.unreserved++
	}
}

// MockTenantDirectory resolves a fixed set of tenants
type MockTenantDirectory struct {
	tenants map[string]*domain.Tenant
	tokens  map[string]string
}

func newMockTenants() *MockTenantDirectory {
	return &MockTenantDirectory{
		tenants: map[string]*domain.Tenant{
			"budroofing": {Slug: "budroofing", Name: "Bud Roofing", Domain: "budroofing.com", TokenEnv: "BUD_TOKEN"},
			"notoken":    {Slug: "notoken", Name: "No Token Roofing", TokenEnv: "NO_TOKEN"},
		},
		tokens: map[string]string{"budroofing": "cc-token-1234567890"},
	}
}

func (m *MockTenantDirectory) Lookup(key string) (*domain.Tenant, error) {
	t, ok := m.tenants[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, key)
	}
	return t, nil
}

func (m *MockTenantDirectory) Names() []string {
	return []string{"budroofing", "notoken"}
}

func (m *MockTenantDirectory) Credential(t *domain.Tenant) (string, error) {
	token, ok := m.tokens[t.Slug]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingCredential, t.Slug)
	}
	return token, nil
}

func candidate(id, street string, photos int) domain.Candidate {
	return domain.Candidate{ID: id, StreetAddress: street, City: "Austin", State: "TX", PhotoCount: photos, PublicURL: "https://cc.example/" + id}
}

// fillerPage returns n candidates that never match the addresses used in these tests
func fillerPage(page, n int) []domain.Candidate {
	out := make([]domain.Candidate, n)
	for i := range out {
		out[i] = candidate(fmt.Sprintf("f%d-%d", page, i), "Filler Road", 3)
	}
	return out
}

func newTestResolver(provider domain.ProjectProvider) *AddressResolver {
	return NewAddressResolver(provider, newMockTenants(), ResolverConfig{
		PageSize:       50,
		PhotoLimit:     5,
		MaxSearchTime:  30 * time.Second,
		RequestTimeout: 5 * time.Second,
	}, logging.Discard())
}

func TestResolve_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		address string
		wantErr error
	}{
		{"empty address", "budroofing", "", domain.ErrAddressParameterMissing},
		{"whitespace address", "budroofing", "   \t ", domain.ErrAddressParameterMissing},
		{"missing tenant", "", "123 Oak St", domain.ErrTenantParameterMissing},
		{"unknown tenant", "bogus", "123 Oak St", domain.ErrTenantNotFound},
		{"tenant without credential", "notoken", "123 Oak St", domain.ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProjectProvider{}
			result, err := newTestResolver(provider).Resolve(context.Background(), tt.tenant, tt.address)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, provider.listCalls, "no provider access before validation passes")
		})
	}
}

func TestResolve_Matching(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		page      []domain.Candidate
		wantID    string
		wantType  domain.MatchType
		wantFound bool
	}{
		{
			name:      "digit signature match ignores street suffix",
			query:     "123 Oak Street",
			page:      []domain.Candidate{candidate("p1", "123 Oak St", 4)},
			wantID:    "p1",
			wantType:  domain.MatchTypeDigits,
			wantFound: true,
		},
		{
			name:      "digit signature collision is accepted",
			query:     "12 3rd St",
			page:      []domain.Candidate{candidate("p1", "123 Oak St", 4)},
			wantID:    "p1",
			wantType:  domain.MatchTypeDigits,
			wantFound: true,
		},
		{
			name:      "query contained in candidate",
			query:     "  OAK ST ",
			page:      []domain.Candidate{candidate("p1", "123 Oak St", 4)},
			wantID:    "p1",
			wantType:  domain.MatchTypeSubstring,
			wantFound: true,
		},
		{
			name:      "candidate contained in query",
			query:     "Maple Lane, Austin TX",
			page:      []domain.Candidate{candidate("p1", "Maple Lane", 2)},
			wantID:    "p1",
			wantType:  domain.MatchTypeSubstring,
			wantFound: true,
		},
		{
			name:      "different digits and no containment",
			query:     "12 Oak St",
			page:      []domain.Candidate{candidate("p1", "123 Oak St", 4)},
			wantFound: false,
		},
		{
			name:      "zero-photo project is skipped even on exact address",
			query:     "123 Oak St",
			page:      []domain.Candidate{candidate("p1", "123 Oak St", 0)},
			wantFound: false,
		},
		{
			name:      "project without street address is skipped",
			query:     "123 Oak St",
			page:      []domain.Candidate{candidate("p1", "", 9)},
			wantFound: false,
		},
		{
			name:      "whitespace-only street address is skipped",
			query:     "123 Oak St",
			page:      []domain.Candidate{candidate("p1", "  \t ", 9)},
			wantFound: false,
		},
		{
			name:  "first match in page order wins",
			query: "123 Oak St",
			page: []domain.Candidate{
				candidate("p0", "123 Oak St", 0),
				candidate("p1", "123 Oak Street", 3),
				candidate("p2", "123 Oak St", 8),
			},
			wantID:    "p1",
			wantType:  domain.MatchTypeDigits,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProjectProvider{pages: map[int][]domain.Candidate{1: tt.page}}

			result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", tt.query)

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantFound, result.Found)
			if tt.wantFound {
				require.NotNil(t, result.Project)
				assert.Equal(t, tt.wantID, result.Project.ID)
				assert.Equal(t, tt.wantType, result.MatchType)
				assert.Equal(t, []string{tt.wantID}, provider.photoCalls)
			} else {
				assert.Nil(t, result.Project)
				assert.Empty(t, provider.photoCalls)
			}
		})
	}
}

func TestResolve_EarlierPageWins(t *testing.T) {
	page1 := fillerPage(1, 49)
	page1 = append(page1, candidate("late-on-page-1", "123 Oak St", 2))

	provider := &MockProjectProvider{pages: map[int][]domain.Candidate{
		1: page1,
		2: {candidate("early-on-page-2", "123 Oak St", 7)},
	}}

	result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, "late-on-page-1", result.Project.ID)
	assert.Equal(t, []int{1}, provider.listCalls)
	assert.Equal(t, 1, result.PagesSearched)
}

func TestResolve_Pagination(t *testing.T) {
	t.Run("short first page means exactly one fetch", func(t *testing.T) {
		provider := &MockProjectProvider{pages: map[int][]domain.Candidate{1: fillerPage(1, 12)}}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.False(t, result.Found)
		assert.Equal(t, []int{1}, provider.listCalls)
	})

	t.Run("three full pages then an empty page means four fetches", func(t *testing.T) {
		provider := &MockProjectProvider{pages: map[int][]domain.Candidate{
			1: fillerPage(1, 50),
			2: fillerPage(2, 50),
			3: fillerPage(3, 50),
		}}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.False(t, result.Found)
		assert.False(t, result.TimedOut)
		assert.Equal(t, []int{1, 2, 3, 4}, provider.listCalls)
		assert.Equal(t, 4, result.PagesSearched)
	})

	t.Run("match on a later page", func(t *testing.T) {
		provider := &MockProjectProvider{pages: map[int][]domain.Candidate{
			1: fillerPage(1, 50),
			2: append(fillerPage(2, 10), candidate("p2", "123 Oak St", 1)),
		}}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, "p2", result.Project.ID)
		assert.Equal(t, []int{1, 2}, provider.listCalls)
	})

	t.Run("page size and photo limit are passed through", func(t *testing.T) {
		provider := &MockProjectProvider{pages: map[int][]domain.Candidate{1: {candidate("p1", "123 Oak St", 1)}}}

		_, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.Equal(t, []int{50}, provider.pageSizes)
		assert.Equal(t, 5, provider.photoLimit)
	})

	t.Run("each fetch carries a deadline", func(t *testing.T) {
		provider := &MockProjectProvider{pages: map[int][]domain.Candidate{1: fillerPage(1, 1)}}

		_, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.True(t, provider.hadDeadline)
	})
}

func TestResolve_FetchFailureEndsSearch(t *testing.T) {
	provider := &MockProjectProvider{
		pages:    map[int][]domain.Candidate{1: fillerPage(1, 50), 3: {candidate("p3", "123 Oak St", 1)}},
		pageErrs: map[int]error{2: domain.ErrUpstreamFailure},
	}

	result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

	require.NoError(t, err, "upstream failures are not surfaced")
	assert.False(t, result.Found)
	assert.Equal(t, []int{1, 2}, provider.listCalls, "no retry and no further pages")
	assert.Equal(t, 1, result.PagesSearched)
}

func TestResolve_TimeBudget(t *testing.T) {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	provider := &MockProjectProvider{pages: map[int][]domain.Candidate{}}
	for p := 1; p <= 20; p++ {
		provider.pages[p] = fillerPage(p, 50)
	}
	// every page fetch takes ten seconds of simulated time
	provider.onList = func(page int) { clock = clock.Add(10 * time.Second) }

	resolver := newTestResolver(provider)
	resolver.now = func() time.Time { return clock }

	result, err := resolver.Resolve(context.Background(), "budroofing", "123 Oak St")

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.True(t, result.TimedOut)
	// checks at 0s, 10s, 20s and 30s pass; 40s exceeds the 30s budget
	assert.Equal(t, []int{1, 2, 3, 4}, provider.listCalls)
	assert.Equal(t, 4, result.PagesSearched)
}

func TestResolve_Throttled(t *testing.T) {
	t.Run("slot wait is bounded by the search budget, not the request timeout", func(t *testing.T) {
		provider := &MockThrottledProvider{MockProjectProvider: &MockProjectProvider{
			pages: map[int][]domain.Candidate{1: fillerPage(1, 50), 2: {candidate("p2", "123 Oak St", 1)}},
		}}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Zero(t, provider.unreserved, "every call holds a slot")
		require.Len(t, provider.waitBudgets, 3)
		for _, budget := range provider.waitBudgets {
			assert.Greater(t, budget, 5*time.Second)
		}
	})

	t.Run("no slot before the budget ends is a time out", func(t *testing.T) {
		provider := &MockThrottledProvider{
			MockProjectProvider: &MockProjectProvider{pages: map[int][]domain.Candidate{1: fillerPage(1, 50)}},
			reserveErr:          fmt.Errorf("%w: would exceed deadline", domain.ErrThrottled),
		}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.False(t, result.Found)
		assert.True(t, result.TimedOut)
		assert.Empty(t, provider.listCalls)
	})

	t.Run("no slot for photos still reports the match", func(t *testing.T) {
		provider := &MockThrottledProvider{MockProjectProvider: &MockProjectProvider{
			pages: map[int][]domain.Candidate{1: {candidate("p1", "123 Oak St", 1)}},
		}}
		// the page reservation succeeds, the photo reservation fails
		calls := 0
		throttled := &reserveSequence{MockThrottledProvider: provider, fail: func() bool { calls++; return calls > 1 }}

		result, err := newTestResolver(throttled).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Empty(t, result.Photos)
		assert.Empty(t, provider.photoCalls)
	})
}

// reserveSequence fails reservations once fail reports true
type reserveSequence struct {
	*MockThrottledProvider
	fail func() bool
}

func (r *reserveSequence) Reserve(wait, ctx context.Context) (context.Context, error) {
	if r.fail() {
		return ctx, domain.ErrThrottled
	}
	return r.MockThrottledProvider.Reserve(wait, ctx)
}

func TestResolve_ConcurrentSearchesShareRateLimit(t *testing.T) {
	filler := make([]map[string]any, 50)
	for i := range filler {
		filler[i] = map[string]any{"id": fmt.Sprintf("f-%d", i), "address": map[string]any{"street_address_1": "Filler Road"}}
	}
	match := []map[string]any{{"id": "p2", "address": map[string]any{"street_address_1": "123 Oak St"}, "photo_count": 1}}

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/projects" && r.URL.Query().Get("page") == "1":
			json.NewEncoder(w).Encode(filler)
		case r.URL.Path == "/projects":
			json.NewEncoder(w).Encode(match)
		default:
			w.Write([]byte("[]"))
		}
	}))
	defer server.Close()

	client := companycam.NewClient(companycam.Config{
		BaseURL:        server.URL,
		RequestTimeout: 200 * time.Millisecond,
		RateLimit:      20,
		Burst:          5,
	}, logging.Discard())

	resolver := NewAddressResolver(client, newMockTenants(), ResolverConfig{
		PageSize:       50,
		PhotoLimit:     5,
		MaxSearchTime:  20 * time.Second,
		RequestTimeout: 200 * time.Millisecond,
	}, logging.Discard())

	const searches = 30
	var found atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < searches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := resolver.Resolve(context.Background(), "budroofing", "123 Oak St")
			if assert.NoError(t, err) && result.Found {
				found.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(searches), found.Load(), "queued searches wait for a slot instead of giving up")
	assert.Equal(t, int32(searches*3), requests.Load())
}

func TestResolve_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &MockProjectProvider{pages: map[int][]domain.Candidate{1: fillerPage(1, 50)}}

	_, err := newTestResolver(provider).Resolve(ctx, "budroofing", "123 Oak St")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, provider.listCalls)
}

func TestResolve_Photos(t *testing.T) {
	match := map[int][]domain.Candidate{1: {candidate("p1", "123 Oak St", 6)}}

	t.Run("thumbnail priority and dropping photos without uri", func(t *testing.T) {
		provider := &MockProjectProvider{
			pages: match,
			photos: []domain.Photo{
				{ID: "a", URIs: []domain.PhotoURI{{Type: "original", URI: "o-a"}, {Type: "web", URI: "w-a"}, {Type: "thumbnail", URI: "t-a"}}},
				{ID: "b", URIs: []domain.PhotoURI{{Type: "original", URI: "o-b"}, {Type: "web", URI: "w-b"}}},
				{ID: "c", URIs: []domain.PhotoURI{{Type: "original", URI: "o-c"}}},
				{ID: "d", URIs: nil},
				{ID: "e", URIs: []domain.PhotoURI{{Type: "original", URI: ""}}},
			},
		}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.Equal(t, []domain.Thumbnail{{Thumbnail: "t-a"}, {Thumbnail: "w-b"}, {Thumbnail: "o-c"}}, result.Photos)
	})

	t.Run("photo fetch failure still reports the match", func(t *testing.T) {
		provider := &MockProjectProvider{pages: match, photoErr: errors.New("connection reset")}

		result, err := newTestResolver(provider).Resolve(context.Background(), "budroofing", "123 Oak St")

		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, "p1", result.Project.ID)
		assert.NotNil(t, result.Photos)
		assert.Empty(t, result.Photos)
	})
}

func TestNewAddressResolver_Defaults(t *testing.T) {
	r := NewAddressResolver(&MockProjectProvider{}, newMockTenants(), ResolverConfig{}, logging.Discard())

	assert.Equal(t, 50, r.pageSize)
	assert.Equal(t, 5, r.photoLimit)
	assert.Equal(t, 30*time.Second, r.maxSearchTime)
	assert.Equal(t, 5*time.Second, r.requestTimeout)
}
