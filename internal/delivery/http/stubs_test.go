package http

import (
	"context"
	"fmt"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/usecase"
)

// stubSearcher returns a fixed result or error
type stubSearcher struct {
	result *domain.MatchResult
	err    error
}

func (s *stubSearcher) Resolve(ctx context.Context, tenant, address string) (*domain.MatchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubLeads records the last request it was given
type stubLeads struct {
	err         error
	lastFlowReq *domain.FlowLeadRequest
}

func (s *stubLeads) CreateLead(ctx context.Context, req *domain.LeadRequest) (*domain.Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Lead{ID: "lead-1"}, nil
}

func (s *stubLeads) CreateFlowLead(ctx context.Context, req *domain.FlowLeadRequest) (*domain.Lead, error) {
	s.lastFlowReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Lead{ID: "flow-1", QualifyScore: "hot", UrgencyLevel: "high"}, nil
}

func (s *stubLeads) CreateBusinessUser(ctx context.Context, req *domain.BusinessUserRequest) (*domain.BusinessUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.BusinessUser{ID: "user-1"}, nil
}

// stubAuth accepts the token "valid" for the budroofing tenant
type stubAuth struct {
	loginErr error
}

func (s *stubAuth) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.LoginResult{
		Token: "signed-token",
		User:  &domain.BusinessUser{ID: "user-1", Name: "Bud", Email: req.Email, CompanyName: "Bud Roofing", Slug: "budroofing"},
	}, nil
}

func (s *stubAuth) Authenticate(token string) (*domain.Principal, error) {
	if token != "valid" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Principal{UserID: "user-1", Email: "bud@budroofing.com", Slug: "budroofing"}, nil
}

// stubDashboard serves canned dashboard data
type stubDashboard struct {
	statusErr error
	statsErr  error
	lastLimit int
}

func (s *stubDashboard) ListLeads(ctx context.Context, p *domain.Principal, limit int) ([]domain.Lead, error) {
	s.lastLimit = limit
	return []domain.Lead{{ID: "lead-1", Tenant: p.Slug}}, nil
}

func (s *stubDashboard) ListBusinessUsers(ctx context.Context, limit int) ([]domain.BusinessUser, error) {
	return []domain.BusinessUser{{ID: "user-1"}, {ID: "user-2"}}, nil
}

func (s *stubDashboard) ListProspects(ctx context.Context, p *domain.Principal, params usecase.ProspectListParams) (*domain.ProspectPage, error) {
	return &domain.ProspectPage{Count: 0, Page: 1, Prospects: []domain.Prospect{}}, nil
}

func (s *stubDashboard) UpdateProspectStatus(ctx context.Context, p *domain.Principal, req *domain.StatusUpdateRequest) (*domain.Prospect, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &domain.Prospect{ID: req.ProspectID, Status: req.Status}, nil
}

func (s *stubDashboard) ListProjects(ctx context.Context, p *domain.Principal, params usecase.ProjectListParams) (*domain.ProjectPage, error) {
	return &domain.ProjectPage{Page: 1, Projects: []domain.ProjectRecord{}}, nil
}

func (s *stubDashboard) ListTags(ctx context.Context, p *domain.Principal) ([]domain.Label, error) {
	return []domain.Label{{ID: "1", DisplayValue: "Hail"}}, nil
}

func (s *stubDashboard) Stats(ctx context.Context, p *domain.Principal, entity string, days int) (*domain.ActivityStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &domain.ActivityStats{Type: domain.StatsEntity(entity), Days: days}, nil
}

func (s *stubDashboard) Settings(p *domain.Principal) (*domain.TenantSettings, error) {
	return &domain.TenantSettings{Slug: p.Slug, APIKey: "Not set"}, nil
}

// stubGallery returns a one-photo gallery or an error
type stubGallery struct {
	err error
}

func (s *stubGallery) Gallery(ctx context.Context, tenant, projectID string) (*domain.Gallery, *domain.Tenant, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &domain.Gallery{
		Project: &domain.Candidate{ID: projectID, StreetAddress: "123 Main St"},
		Media:   []domain.MediaItem{{ID: "p1", MediaType: domain.MediaTypePhoto}},
	}, &domain.Tenant{Slug: tenant, Name: "Bud Roofing"}, nil
}

// stubStreetView reports a fixed outcome
type stubStreetView struct {
	view *domain.StreetView
}

func (s *stubStreetView) Lookup(ctx context.Context, address string) (*domain.StreetView, error) {
	if address == "" {
		return nil, domain.ErrAddressParameterMissing
	}
	return s.view, nil
}

// stubTenants knows only budroofing
type stubTenants struct{}

func (stubTenants) Lookup(key string) (*domain.Tenant, error) {
	if key != "budroofing" {
		return nil, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, key)
	}
	return &domain.Tenant{Slug: "budroofing", Name: "Bud Roofing", TokenEnv: "BUD_TOKEN"}, nil
}

func (stubTenants) Names() []string { return []string{"budroofing"} }

func (stubTenants) Credential(t *domain.Tenant) (string, error) { return "token", nil }
