package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/roofleads/backend/internal/domain"
)

const (
	defaultLeadLimit     = 100
	defaultPageLimit     = 25
	maxPageLimit         = 500
	defaultStatsDays     = 30
	maxStatsDays         = 365
	maskedTokenUnset     = "Not set"
	maskedTokenMinLength = 12
)

// fieldSearch matches "field:value" and "field=value" in the project search box
var fieldSearch = regexp.MustCompile(`^(\w+)[:=](.+)$`)

// ProspectListParams are the dashboard prospect list query parameters
type ProspectListParams struct {
	Limit          int
	Page           int
	HomeownersOnly bool
	ProjectID      string
	SortBy         string
	SortDir        string
}

// ProjectListParams are the dashboard project list query parameters
type ProjectListParams struct {
	Limit        int
	Page         int
	Search       string
	Status       string
	Tag          string
	HasProspects string
	SortBy       string
	SortDir      string
}

// DashboardService serves the authenticated dashboard. Every read is scoped to the principal's tenant.
type DashboardService struct {
	leads     domain.LeadRepository
	users     domain.BusinessUserRepository
	prospects domain.ProspectRepository
	projects  domain.ProjectRepository
	stats     domain.StatsRepository
	tenants   domain.TenantDirectory
	logger    *slog.Logger
	now       func() time.Time
}

// DashboardRepositories groups the stores the dashboard reads from
type DashboardRepositories struct {
	Leads     domain.LeadRepository
	Users     domain.BusinessUserRepository
	Prospects domain.ProspectRepository
	Projects  domain.ProjectRepository
	Stats     domain.StatsRepository
}

// NewDashboardService creates a dashboard service
func NewDashboardService(repos DashboardRepositories, tenants domain.TenantDirectory, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		leads:     repos.Leads,
		users:     repos.Users,
		prospects: repos.Prospects,
		projects:  repos.Projects,
		stats:     repos.Stats,
		tenants:   tenants,
		logger:    logger.With("component", "dashboard_service"),
		now:       time.Now,
	}
}

// ListLeads returns the tenant's leads, newest first
func (s *DashboardService) ListLeads(ctx context.Context, p *domain.Principal, limit int) ([]domain.Lead, error) {
	leads, err := s.leads.ListLeads(ctx, p.Slug, leadLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// ListBusinessUsers returns contractor sign-ups across all tenants, newest first
func (s *DashboardService) ListBusinessUsers(ctx context.Context, limit int) ([]domain.BusinessUser, error) {
	users, err := s.users.ListBusinessUsers(ctx, leadLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list business users: %w", err)
	}
	return users, nil
}

func leadLimit(limit int) int {
	if limit <= 0 {
		return defaultLeadLimit
	}
	return min(limit, maxPageLimit)
}

// ListProspects returns one page of the tenant's prospects with totals
func (s *DashboardService) ListProspects(ctx context.Context, p *domain.Principal, params ProspectListParams) (*domain.ProspectPage, error) {
	limit, page := pageBounds(params.Limit, params.Page)

	q := domain.ProspectQuery{
		Tenant:         p.Slug,
		ProjectID:      params.ProjectID,
		HomeownersOnly: params.HomeownersOnly,
		SortBy:         params.SortBy,
		SortDesc:       params.SortDir != "asc",
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	prospects, err := s.prospects.ListProspects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}

	total, homeowners, err := s.prospects.CountProspects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to count prospects: %w", err)
	}

	return &domain.ProspectPage{
		Count:      len(prospects),
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Homeowners: homeowners,
		Prospects:  prospects,
	}, nil
}

// UpdateProspectStatus sets or clears the call status of one of the tenant's prospects
func (s *DashboardService) UpdateProspectStatus(ctx context.Context, p *domain.Principal, req *domain.StatusUpdateRequest) (*domain.Prospect, error) {
	if req == nil || strings.TrimSpace(req.ProspectID) == "" {
		return nil, fmt.Errorf("%w: prospectId is required", domain.ErrInvalidRequest)
	}

	var status *string
	if req.Status != nil && *req.Status != "" {
		if !domain.IsValidProspectStatus(*req.Status) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *req.Status)
		}
		status = req.Status
	}

	prospect, err := s.prospects.GetProspect(ctx, req.ProspectID)
	if err != nil {
		return nil, err
	}
	if prospect.Tenant != p.Slug {
		s.logger.Warn("prospect status update denied", "prospect_id", prospect.ID, "tenant", p.Slug)
		return nil, domain.ErrForbidden
	}

	if err := s.prospects.UpdateProspectStatus(ctx, prospect.ID, status); err != nil {
		return nil, err
	}

	prospect.Status = status
	return prospect, nil
}

// ListProjects returns one page of the tenant's synced projects
func (s *DashboardService) ListProjects(ctx context.Context, p *domain.Principal, params ProjectListParams) (*domain.ProjectPage, error) {
	limit, page := pageBounds(params.Limit, params.Page)

	q := domain.ProjectQuery{
		Tenant:       p.Slug,
		Status:       params.Status,
		Tag:          strings.TrimSpace(params.Tag),
		HasProspects: parseYesNo(params.HasProspects),
		SortBy:       params.SortBy,
		SortDesc:     params.SortDir != "asc",
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}
	applySearch(&q, params.Search)

	projects, total, err := s.projects.ListProjects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &domain.ProjectPage{
		Count:      len(projects),
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Projects:   projects,
	}, nil
}

// applySearch reads the search box into q. "field:value" targets one field; anything else
// is free text across address, city and state. Unknown fields are ignored.
func applySearch(q *domain.ProjectQuery, search string) {
	search = strings.TrimSpace(search)
	if search == "" {
		return
	}

	m := fieldSearch.FindStringSubmatch(search)
	if m == nil {
		q.Text = search
		return
	}

	value := strings.TrimSpace(m[2])
	switch strings.ToLower(m[1]) {
	case "address":
		q.Address = value
	case "city":
		q.City = value
	case "state":
		q.State = value
	case "tag":
		q.Tag = value
	case "contacts", "prospects":
		if has := parseYesNo(value); has != nil {
			q.HasProspects = has
		}
	}
}

// parseYesNo maps the accepted spellings of yes and no; anything else is nil
func parseYesNo(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "has", "1":
		v := true
		return &v
	case "no", "false", "none", "0":
		v := false
		return &v
	}
	return nil
}

// ListTags returns the tenant's distinct project tags sorted by display value
func (s *DashboardService) ListTags(ctx context.Context, p *domain.Principal) ([]domain.Label, error) {
	tags, err := s.projects.ListTags(ctx, p.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	slices.SortFunc(tags, func(a, b domain.Label) int {
		return strings.Compare(strings.ToLower(a.DisplayValue), strings.ToLower(b.DisplayValue))
	})
	return tags, nil
}

// Stats counts records created per UTC day over the last days days, oldest first
func (s *DashboardService) Stats(ctx context.Context, p *domain.Principal, entity string, days int) (*domain.ActivityStats, error) {
	kind := domain.StatsEntity(entity)
	switch kind {
	case domain.StatsLeads, domain.StatsProjects, domain.StatsProspects:
	default:
		return nil, fmt.Errorf("%w: unknown stats type %q", domain.ErrInvalidRequest, entity)
	}

	if days <= 0 {
		days = defaultStatsDays
	}
	days = min(days, maxStatsDays)

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	times, err := s.stats.CreatedSince(ctx, kind, p.Slug, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s stats: %w", kind, err)
	}

	return &domain.ActivityStats{
		Type:  kind,
		Days:  days,
		Total: len(times),
		Data:  bucketByDay(times, since, days),
	}, nil
}

// bucketByDay counts times per UTC day for days days starting at since
func bucketByDay(times []time.Time, since time.Time, days int) []domain.DailyCount {
	counts := make(map[string]int, days)
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}

	out := make([]domain.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		out = append(out, domain.DailyCount{
			Date:  key,
			Label: fmt.Sprintf("%d/%d", int(day.Month()), day.Day()),
			Count: counts[key],
		})
	}
	return out
}

// Settings returns the tenant's public settings with the CompanyCam token masked
func (s *DashboardService) Settings(p *domain.Principal) (*domain.TenantSettings, error) {
	tenant, err := s.tenants.Lookup(p.Slug)
	if err != nil {
		return nil, err
	}

	masked := maskedTokenUnset
	if token, err := s.tenants.Credential(tenant); err == nil {
		masked = maskToken(token)
	}

	return &domain.TenantSettings{
		Domain: tenant.Domain,
		Logo:   tenant.Logo,
		APIKey: masked,
		Slug:   p.Slug,
	}, nil
}

// maskToken keeps the first 8 and last 4 characters. Short tokens are hidden entirely.
func maskToken(token string) string {
	if len(token) <= maskedTokenMinLength {
		return strings.Repeat("*", 8)
	}
	return token[:8] + "..." + token[len(token)-4:]
}

func pageBounds(limit, page int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if page <= 0 {
		page = 1
	}
	return min(limit, maxPageLimit), page
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
