package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roofleads/backend/internal/domain"
)

var (
	leadRequiredFields         = []string{"firstName", "lastName", "email", "phone", "tenant"}
	flowLeadRequiredFields     = []string{"tenant", "flowType", "flowSlug", "name", "email", "phone"}
	businessUserRequiredFields = []string{"name", "email", "phone", "companyName"}
)

// LeadService captures homeowner leads and contractor sign-ups
type LeadService struct {
	leads  domain.LeadRepository
	users  domain.BusinessUserRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewLeadService creates a lead service
func NewLeadService(leads domain.LeadRepository, users domain.BusinessUserRepository, logger *slog.Logger) *LeadService {
	return &LeadService{
		leads:  leads,
		users:  users,
		logger: logger.With("component", "lead_service"),
		now:    time.Now,
	}
}

// CreateLead stores a gallery contact form submission
func (s *LeadService) CreateLead(ctx context.Context, req *domain.LeadRequest) (*domain.Lead, error) {
	if req == nil || anyBlank(req.FirstName, req.LastName, req.Email, req.Phone, req.Tenant) {
		return nil, &domain.MissingFieldsError{Required: leadRequiredFields}
	}

	lead := &domain.Lead{
		ID:        uuid.NewString(),
		Tenant:    req.Tenant,
		Source:    domain.LeadSourceGallery,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		ProjectID: req.ProjectID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.leads.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to save lead: %w", err)
	}

	s.logger.Info("lead saved", "lead_id", lead.ID, "tenant", lead.Tenant, "project_id", lead.ProjectID)
	return lead, nil
}

// CreateFlowLead stores a quiz funnel submission. Missing scores are computed from the answers
// when the flow has a scoring table.
func (s *LeadService) CreateFlowLead(ctx context.Context, req *domain.FlowLeadRequest) (*domain.Lead, error) {
	if req == nil || anyBlank(req.Tenant, req.FlowType, req.FlowSlug, req.Name, req.Email, req.Phone) {
		return nil, &domain.MissingFieldsError{Required: flowLeadRequiredFields}
	}

	first, last := splitName(req.Name)
	lead := &domain.Lead{
		ID:           uuid.NewString(),
		Tenant:       req.Tenant,
		Source:       domain.LeadSourceFlow,
		FirstName:    first,
		LastName:     last,
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		FlowType:     req.FlowType,
		FlowSlug:     req.FlowSlug,
		FlowData:     req.FlowData,
		QualifyScore: req.QualifyScore,
		UrgencyLevel: req.UrgencyLevel,
		UTMSource:    req.UTMSource,
		UTMMedium:    req.UTMMedium,
		UTMCampaign:  req.UTMCampaign,
		CreatedAt:    s.now().UTC(),
	}

	if (lead.QualifyScore == "" || lead.UrgencyLevel == "") && len(lead.FlowData) > 0 {
		s.applyScore(lead)
	}

	if err := s.leads.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to save flow lead: %w", err)
	}

	s.logger.Info("flow lead saved",
		"lead_id", lead.ID,
		"tenant", lead.Tenant,
		"flow", lead.FlowSlug,
		"qualify_score", lead.QualifyScore,
		"urgency", lead.UrgencyLevel,
	)
	return lead, nil
}

// applyScore fills the blank score fields of lead. Client-supplied values are kept.
func (s *LeadService) applyScore(lead *domain.Lead) {
	a, err := Score(lead.FlowSlug, lead.FlowData)
	if err != nil {
		if !errors.Is(err, domain.ErrUnknownFlow) {
			s.logger.Warn("flow scoring failed", "flow", lead.FlowSlug, "error", err)
		}
		return
	}
	if lead.QualifyScore == "" {
		lead.QualifyScore = a.QualifyScore
	}
	if lead.UrgencyLevel == "" {
		lead.UrgencyLevel = a.UrgencyLevel
	}
}

// CreateBusinessUser registers a contractor account pending approval
func (s *LeadService) CreateBusinessUser(ctx context.Context, req *domain.BusinessUserRequest) (*domain.BusinessUser, error) {
	if req == nil || anyBlank(req.Name, req.Email, req.Phone, req.CompanyName) {
		return nil, &domain.MissingFieldsError{Required: businessUserRequiredFields}
	}

	user := &domain.BusinessUser{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Email:       normalizeEmail(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Slug:        strings.TrimSpace(req.Slug),
		Status:      domain.BusinessUserPending,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.users.CreateBusinessUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save business user: %w", err)
	}

	s.logger.Info("business user saved", "user_id", user.ID, "company", user.CompanyName)
	return user, nil
}

// splitName splits a full name on whitespace: the first word is the first name, the rest the last name
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
