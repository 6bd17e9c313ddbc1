package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roofleads/backend/internal/domain"
)

// Street view failure reasons shown to the funnel
const (
	ReasonNotConfigured = "API key not configured"
	ReasonNotGeocoded   = "Could not geocode address"
	ReasonNoImagery     = "Street View not available at this location"
	ReasonAPIError      = "API error"
)

// StreetViewService reports whether a street-level image of an address exists.
// Definitive answers are cached; transient API errors are not.
type StreetViewService struct {
	provider domain.StreetViewProvider
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewStreetViewService creates a street view service. cacheTTL defaults to 24h.
func NewStreetViewService(
	provider domain.StreetViewProvider,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *StreetViewService {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &StreetViewService{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "streetview_service"),
	}
}

// Lookup geocodes address and checks imagery coverage there.
// Only a blank address is an error; every upstream problem becomes Available == false with a reason.
func (s *StreetViewService) Lookup(ctx context.Context, address string) (*domain.StreetView, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.ErrAddressParameterMissing
	}

	if !s.provider.Configured() {
		return &domain.StreetView{Available: false, Reason: ReasonNotConfigured}, nil
	}

	key := streetViewCacheKey(address)
	var cached domain.StreetView
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	result, definitive := s.lookup(ctx, address)
	if definitive {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache street view result", "error", err)
		}
	}
	return result, nil
}

func (s *StreetViewService) lookup(ctx context.Context, address string) (*domain.StreetView, bool) {
	lat, lng, err := s.provider.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotGeocoded) {
			return &domain.StreetView{Available: false, Reason: ReasonNotGeocoded}, true
		}
		s.logger.Warn("geocode request failed", "error", err)
		return &domain.StreetView{Available: false, Reason: ReasonAPIError}, false
	}

	ok, err := s.provider.HasImagery(ctx, lat, lng)
	if err != nil {
		s.logger.Warn("street view metadata request failed", "error", err)
		return &domain.StreetView{Available: false, Reason: ReasonAPIError}, false
	}
	if !ok {
		return &domain.StreetView{Available: false, Reason: ReasonNoImagery}, true
	}

	return &domain.StreetView{
		Available: true,
		ImageURL:  s.provider.ImageURL(lat, lng),
		Lat:       lat,
		Lng:       lng,
	}, true
}

// streetViewCacheKey keys results by normalized address
func streetViewCacheKey(address string) string {
	return fmt.Sprintf("streetview:%s", strings.Join(strings.Fields(strings.ToLower(address)), " "))
}
