package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roofleads/backend/internal/domain"
)

const (
	galleryPhotosPerPage = 100
	galleryMaxPhotoPages = 50
)

// GalleryService assembles every photo, video and document of a project
type GalleryService struct {
	media    domain.MediaProvider
	tenants  domain.TenantDirectory
	timeline domain.TimelineScraper
	logger   *slog.Logger
}

// NewGalleryService creates a gallery service
func NewGalleryService(media domain.MediaProvider, tenants domain.TenantDirectory, logger *slog.Logger) *GalleryService {
	return &GalleryService{
		media:   media,
		tenants: tenants,
		logger:  logger.With("component", "gallery_service"),
	}
}

// WithTimelineFallback scrapes the project's public timeline when the API returns no media
func (s *GalleryService) WithTimelineFallback(scraper domain.TimelineScraper) *GalleryService {
	s.timeline = scraper
	return s
}

// Gallery loads a project and all of its media sorted newest first.
// A failed project fetch is returned to the caller; failed media listings only shrink the result.
func (s *GalleryService) Gallery(ctx context.Context, tenantKey, projectID string) (*domain.Gallery, *domain.Tenant, error) {
	if tenantKey == "" || projectID == "" {
		return nil, nil, fmt.Errorf("%w: tenant and projectId are required", domain.ErrInvalidRequest)
	}

	tenant, err := s.tenants.Lookup(tenantKey)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tenants.Credential(tenant)
	if err != nil {
		return nil, nil, err
	}

	logger := s.logger.With("tenant", tenant.Slug, "project_id", projectID)

	project, err := s.media.GetProject(ctx, token, projectID)
	if err != nil {
		logger.Warn("project fetch failed", "error", err)
		return nil, nil, err
	}

	media := s.allPhotos(ctx, logger, token, projectID)

	if videos, err := s.media.ListVideos(ctx, token, projectID); err != nil {
		logger.Debug("videos unavailable", "error", err)
	} else {
		media = append(media, tagMedia(videos, domain.MediaTypeVideo)...)
	}

	if docs, err := s.media.ListDocuments(ctx, token, projectID); err != nil {
		logger.Debug("documents unavailable", "error", err)
	} else {
		media = append(media, tagMedia(docs, domain.MediaTypeDocument)...)
	}

	if len(media) == 0 && s.timeline != nil && project.PublicURL != "" {
		scraped, err := s.timeline.ScrapeTimeline(ctx, project.PublicURL)
		if err != nil {
			logger.Warn("timeline scrape failed", "error", err)
		} else {
			logger.Info("using scraped timeline media", "media", len(scraped))
			media = scraped
		}
	}

	slices.SortStableFunc(media, func(a, b domain.MediaItem) int {
		switch ta, tb := a.Timestamp(), b.Timestamp(); {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		}
		return 0
	})

	logger.Info("gallery loaded", "media", len(media))
	return &domain.Gallery{Project: project, Media: media}, tenant, nil
}

// allPhotos pages through photos while pages come back full
func (s *GalleryService) allPhotos(ctx context.Context, logger *slog.Logger, token, projectID string) []domain.MediaItem {
	media := []domain.MediaItem{}
	for page := 1; page <= galleryMaxPhotoPages; page++ {
		photos, err := s.media.ListPhotoPage(ctx, token, projectID, page, galleryPhotosPerPage)
		if err != nil {
			logger.Warn("photo page fetch failed", "page", page, "error", err)
			break
		}
		media = append(media, tagMedia(photos, domain.MediaTypePhoto)...)
		if len(photos) < galleryPhotosPerPage {
			break
		}
	}
	return media
}

func tagMedia(items []domain.MediaItem, t domain.MediaType) []domain.MediaItem {
	for i := range items {
		items[i].MediaType = t
	}
	return items
}
