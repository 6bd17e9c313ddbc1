package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roofleads/backend/internal/domain"
)

var prospectRequiredFields = []string{"tenant", "projectId", "name"}

// ProspectService records property contacts against synced projects
type ProspectService struct {
	prospects domain.ProspectRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewProspectService creates a prospect service
func NewProspectService(prospects domain.ProspectRepository, logger *slog.Logger) *ProspectService {
	return &ProspectService{
		prospects: prospects,
		logger:    logger.With("component", "prospect_service"),
		now:       time.Now,
	}
}

// AddProspect stores a new prospect without a call status
func (s *ProspectService) AddProspect(ctx context.Context, req *domain.ProspectRequest) (*domain.Prospect, error) {
	if req == nil || anyBlank(req.Tenant, req.ProjectID, req.Name) {
		return nil, &domain.MissingFieldsError{Required: prospectRequiredFields}
	}

	p := &domain.Prospect{
		ID:          uuid.NewString(),
		Tenant:      req.Tenant,
		ProjectID:   req.ProjectID,
		Name:        strings.TrimSpace(req.Name),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       normalizeEmail(req.Email),
		IsHomeowner: req.IsHomeowner,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.prospects.CreateProspect(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save prospect: %w", err)
	}

	s.logger.Info("prospect saved", "prospect_id", p.ID, "tenant", p.Tenant, "project_id", p.ProjectID)
	return p, nil
}
