package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/roofleads/backend/internal/domain"
)

// geohashPrecision gives cells of roughly 150m, enough to group neighbouring houses
const geohashPrecision = 7

// SyncReport summarizes one tenant sync
type SyncReport struct {
	Tenant string        `json:"tenant"`
	Pages  int           `json:"pages"`
	Synced int           `json:"synced"`
	Failed int           `json:"failed"`
	Took   time.Duration `json:"took"`
}

// SyncService copies a tenant's CompanyCam projects and labels into the local store
type SyncService struct {
	projects domain.ProjectProvider
	labels   domain.LabelProvider
	store    domain.ProjectRepository
	tenants  domain.TenantDirectory
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

// NewSyncService creates a sync service. pageSize defaults to 50.
func NewSyncService(
	projects domain.ProjectProvider,
	labels domain.LabelProvider,
	store domain.ProjectRepository,
	tenants domain.TenantDirectory,
	pageSize int,
	logger *slog.Logger,
) *SyncService {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &SyncService{
		projects: projects,
		labels:   labels,
		store:    store,
		tenants:  tenants,
		pageSize: pageSize,
		logger:   logger.With("component", "sync_service"),
		now:      time.Now,
	}
}

// SyncTenant pages through every project of the tenant and upserts it with its labels.
// maxPages <= 0 means no limit. A failed project is counted and skipped; a failed page ends the sync.
func (s *SyncService) SyncTenant(ctx context.Context, tenantKey string, maxPages int) (*SyncReport, error) {
	tenant, err := s.tenants.Lookup(tenantKey)
	if err != nil {
		return nil, err
	}
	token, err := s.tenants.Credential(tenant)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("tenant", tenant.Slug)
	start := s.now()
	report := &SyncReport{Tenant: tenant.Slug}

	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		candidates, err := s.projects.ListProjects(ctx, token, page, s.pageSize)
		if err != nil {
			report.Took = s.now().Sub(start)
			return report, fmt.Errorf("failed to fetch project page %d: %w", page, err)
		}
		report.Pages++

		for _, c := range candidates {
			if err := s.syncProject(ctx, tenant.Slug, token, c); err != nil {
				logger.Warn("project sync failed", "project_id", c.ID, "error", err)
				report.Failed++
				continue
			}
			report.Synced++
		}

		logger.Info("synced project page", "page", page, "projects", len(candidates))
		if len(candidates) < s.pageSize {
			break
		}
	}

	report.Took = s.now().Sub(start)
	logger.Info("project sync finished", "pages", report.Pages, "synced", report.Synced, "failed", report.Failed, "took", report.Took)
	return report, nil
}

func (s *SyncService) syncProject(ctx context.Context, tenant, token string, c domain.Candidate) error {
	labels, err := s.labels.ListProjectLabels(ctx, token, c.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch labels: %w", err)
	}
	return s.store.UpsertProject(ctx, toRecord(tenant, c, labels, s.now().UTC()))
}

// toRecord converts a CompanyCam project into its stored form
func toRecord(tenant string, c domain.Candidate, labels []domain.Label, syncedAt time.Time) *domain.ProjectRecord {
	rec := &domain.ProjectRecord{
		ID:           c.ID,
		Tenant:       tenant,
		Name:         c.Name,
		Address:      c.StreetAddress,
		City:         c.City,
		State:        c.State,
		PostalCode:   c.PostalCode,
		Status:       c.Status,
		PhotoCount:   c.PhotoCount,
		PublicURL:    c.PublicURL,
		FeatureImage: c.FeatureImage,
		CCCreatedAt:  c.CreatedAt,
		CCUpdatedAt:  c.UpdatedAt,
		LastSyncedAt: syncedAt,
		Tags:         labels,
	}
	if rec.Tags == nil {
		rec.Tags = []domain.Label{}
	}

	if co := c.Coordinates; co != nil && !(co.Lat == 0 && co.Lon == 0) {
		lat, lon := co.Lat, co.Lon
		rec.Lat, rec.Lon = &lat, &lon
		rec.Geohash = geohash.EncodeWithPrecision(lat, lon, geohashPrecision)
	}
	return rec
}
