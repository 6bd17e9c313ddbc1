package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/roofleads/backend/internal/domain"
)

// ResolverConfig holds the address search limits
type ResolverConfig struct {
	PageSize       int
	PhotoLimit     int
	MaxSearchTime  time.Duration // checked before each page fetch
	RequestTimeout time.Duration // bound on each provider call
}

// AddressResolver finds the first CompanyCam project whose street address matches a typed address.
// It pages through the tenant's projects in provider order and stops at the first match.
type AddressResolver struct {
	provider       domain.ProjectProvider
	tenants        domain.TenantDirectory
	pageSize       int
	photoLimit     int
	maxSearchTime  time.Duration
	requestTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewAddressResolver creates a resolver; zero config values fall back to defaults
func NewAddressResolver(
	provider domain.ProjectProvider,
	tenants domain.TenantDirectory,
	config ResolverConfig,
	logger *slog.Logger,
) *AddressResolver {
	if config.PageSize <= 0 {
		config.PageSize = 50
	}
	if config.PhotoLimit <= 0 {
		config.PhotoLimit = 5
	}
	if config.MaxSearchTime <= 0 {
		config.MaxSearchTime = 30 * time.Second
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 5 * time.Second
	}

	return &AddressResolver{
		provider:       provider,
		tenants:        tenants,
		pageSize:       config.PageSize,
		photoLimit:     config.PhotoLimit,
		maxSearchTime:  config.MaxSearchTime,
		requestTimeout: config.RequestTimeout,
		logger:         logger.With("component", "address_resolver"),
		now:            time.Now,
	}
}

// Resolve searches the tenant's projects for rawAddress.
// Not finding a project is not an error: the result has Found == false.
// Errors are returned only for bad input, unknown tenants, missing credentials and caller cancellation.
func (r *AddressResolver) Resolve(ctx context.Context, tenantKey, rawAddress string) (*domain.MatchResult, error) {
	address := strings.TrimSpace(rawAddress)
	if address == "" {
		return nil, domain.ErrAddressParameterMissing
	}
	if tenantKey == "" {
		return nil, domain.ErrTenantParameterMissing
	}

	tenant, err := r.tenants.Lookup(tenantKey)
	if err != nil {
		return nil, err
	}

	token, err := r.tenants.Credential(tenant)
	if err != nil {
		return nil, err
	}

	query := newAddressQuery(address)
	logger := r.logger.With("tenant", tenant.Slug)
	logger.Info("address search started", "address", address, "digits", query.digits)

	start := r.now()
	fetched := 0

	for page := 1; ; page++ {
		elapsed := r.now().Sub(start)
		if elapsed > r.maxSearchTime {
			logger.Warn("address search ran out of time", "elapsed", elapsed, "pages", fetched)
			return &domain.MatchResult{Found: false, PagesSearched: fetched, TimedOut: true}, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := r.listPage(ctx, token, page, r.maxSearchTime-elapsed)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, domain.ErrThrottled) {
				// no upstream slot before the budget ran out
				logger.Warn("address search ran out of time waiting for rate limit", "page", page, "pages", fetched)
				return &domain.MatchResult{Found: false, PagesSearched: fetched, TimedOut: true}, nil
			}
			// A failed page ends the search; earlier pages were already checked.
			logger.Warn("project page fetch failed, ending search", "page", page, "error", err)
			return &domain.MatchResult{Found: false, PagesSearched: fetched}, nil
		}
		fetched++

		if len(candidates) == 0 {
			break
		}

		logger.Debug("searching page", "page", page, "projects", len(candidates))

		for _, c := range candidates {
			if matchType, ok := query.match(c); ok {
				logger.Info("address matched", "project_id", c.ID, "match_type", matchType, "page", page)
				return r.matched(ctx, logger, token, c, matchType, fetched), nil
			}
		}

		if len(candidates) < r.pageSize {
			break
		}
	}

	logger.Info("no project found for address", "pages", fetched)
	return &domain.MatchResult{Found: false, PagesSearched: fetched}, nil
}

// listPage fetches one page. A throttled provider gets up to budget to hand out a slot
// before the per-request timeout starts.
func (r *AddressResolver) listPage(ctx context.Context, token string, page int, budget time.Duration) ([]domain.Candidate, error) {
	ctx, err := r.reserve(ctx, budget)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.requestTimeout)
	defer cancel()
	return r.provider.ListProjects(ctx, token, page, r.pageSize)
}

// reserve takes a rate limit slot when the provider is throttled
func (r *AddressResolver) reserve(ctx context.Context, budget time.Duration) (context.Context, error) {
	throttler, ok := r.provider.(domain.Throttler)
	if !ok {
		return ctx, nil
	}

	wait, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	return throttler.Reserve(wait, ctx)
}

// matched builds the result for an accepted candidate. Photo failures degrade to an empty list.
func (r *AddressResolver) matched(
	ctx context.Context,
	logger *slog.Logger,
	token string,
	c domain.Candidate,
	matchType domain.MatchType,
	pages int,
) *domain.MatchResult {
	result := &domain.MatchResult{
		Found:         true,
		Project:       &c,
		Photos:        []domain.Thumbnail{},
		MatchType:     matchType,
		PagesSearched: pages,
	}

	photoCtx, err := r.reserve(ctx, r.maxSearchTime)
	if err != nil {
		logger.Warn("no rate limit slot for photos, returning match without photos", "project_id", c.ID, "error", err)
		return result
	}

	photoCtx, cancel := context.WithTimeout(photoCtx, r.requestTimeout)
	defer cancel()

	photos, err := r.provider.ListPhotos(photoCtx, token, c.ID, r.photoLimit)
	if err != nil {
		logger.Warn("photo fetch failed, returning match without photos", "project_id", c.ID, "error", err)
		return result
	}

	result.Photos = thumbnails(photos)
	return result
}
