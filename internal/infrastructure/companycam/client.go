package companycam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/roofleads/backend/internal/domain"
)

// DefaultBaseURL is the CompanyCam v2 REST API root
const DefaultBaseURL = "https://api.companycam.com/v2"

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 1024

// Config configures the CompanyCam client
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration // per request, applied on top of the caller's context
	RateLimit      float64       // requests per second, 0 disables limiting
	Burst          int
}

// Client handles communication with the CompanyCam API.
// Credentials are per tenant, so every call takes the bearer token explicitly.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	requestTimeout time.Duration
	rateLimiter    *rate.Limiter
	logger         *slog.Logger
}

// NewClient creates a new CompanyCam API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		httpClient:     &http.Client{},
		baseURL:        cfg.BaseURL,
		requestTimeout: cfg.RequestTimeout,
		rateLimiter:    rate.NewLimiter(limit, cfg.Burst),
		logger:         logger.With("component", "companycam"),
	}
}

// reservedKey marks a context that already holds a rate limiter slot of the client stored under it
type reservedKey struct{}

// Reserve waits for a rate limiter slot for as long as wait allows. A request made with the
// returned context, or one derived from it, spends that slot instead of waiting again.
func (c *Client) Reserve(wait, ctx context.Context) (context.Context, error) {
	if err := c.wait(wait); err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, reservedKey{}, c), nil
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("%w: %w", domain.ErrThrottled, err)
	}
	return nil
}

// ListProjects returns one page of the account's projects
func (c *Client) ListProjects(ctx context.Context, token string, page, pageSize int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))

	var projects []projectDTO
	if err := c.getJSON(ctx, token, "/projects", params, &projects); err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, 0, len(projects))
	for _, p := range projects {
		out = append(out, mapProject(p))
	}

	c.logger.Debug("listed projects", "page", page, "count", len(out))
	return out, nil
}

// GetProject fetches a single project
func (c *Client) GetProject(ctx context.Context, token, projectID string) (*domain.Candidate, error) {
	var project projectDTO
	if err := c.getJSON(ctx, token, "/projects/"+url.PathEscape(projectID), nil, &project); err != nil {
		return nil, err
	}

	candidate := mapProject(project)
	return &candidate, nil
}

// ListPhotos returns up to limit photos of a project
func (c *Client) ListPhotos(ctx context.Context, token, projectID string, limit int) ([]domain.Photo, error) {
	items, err := c.listPhotoDTOs(ctx, token, projectID, 1, limit)
	if err != nil {
		return nil, err
	}

	photos := make([]domain.Photo, 0, len(items))
	for _, item := range items {
		photos = append(photos, mapPhoto(item))
	}
	return photos, nil
}

// ListPhotoPage returns one page of a project's photos as gallery items
func (c *Client) ListPhotoPage(ctx context.Context, token, projectID string, page, perPage int) ([]domain.MediaItem, error) {
	items, err := c.listPhotoDTOs(ctx, token, projectID, page, perPage)
	if err != nil {
		return nil, err
	}
	return mapMediaList(items, domain.MediaTypePhoto), nil
}

// ListVideos returns a project's videos
func (c *Client) ListVideos(ctx context.Context, token, projectID string) ([]domain.MediaItem, error) {
	var items []mediaDTO
	if err := c.getJSON(ctx, token, "/projects/"+url.PathEscape(projectID)+"/videos", nil, &items); err != nil {
		return nil, err
	}
	return mapMediaList(items, domain.MediaTypeVideo), nil
}

// ListDocuments returns a project's documents
func (c *Client) ListDocuments(ctx context.Context, token, projectID string) ([]domain.MediaItem, error) {
	var items []mediaDTO
	if err := c.getJSON(ctx, token, "/projects/"+url.PathEscape(projectID)+"/documents", nil, &items); err != nil {
		return nil, err
	}
	return mapMediaList(items, domain.MediaTypeDocument), nil
}

// ListProjectLabels returns the labels of a project. A 404 means the project has none.
func (c *Client) ListProjectLabels(ctx context.Context, token, projectID string) ([]domain.Label, error) {
	var labels []labelDTO
	err := c.getJSON(ctx, token, "/projects/"+url.PathEscape(projectID)+"/labels", nil, &labels)
	if err != nil {
		var statusErr *domain.UpstreamStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return []domain.Label{}, nil
		}
		return nil, err
	}

	out := make([]domain.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, mapLabel(l))
	}
	return out, nil
}

// ListCompanyTags returns every tag defined on the account
func (c *Client) ListCompanyTags(ctx context.Context, token string) ([]domain.Label, error) {
	var labels []labelDTO
	if err := c.getJSON(ctx, token, "/tags", nil, &labels); err != nil {
		return nil, err
	}

	out := make([]domain.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, mapLabel(l))
	}
	return out, nil
}

func (c *Client) listPhotoDTOs(ctx context.Context, token, projectID string, page, perPage int) ([]mediaDTO, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var items []mediaDTO
	if err := c.getJSON(ctx, token, "/projects/"+url.PathEscape(projectID)+"/photos", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func mapMediaList(items []mediaDTO, kind domain.MediaType) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		out = append(out, mapMedia(item, kind))
	}
	return out
}

// getJSON performs a rate-limited, time-bounded GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, token, path string, params url.Values, out interface{}) error {
	if ctx.Value(reservedKey{}) != c {
		if err := c.wait(ctx); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, token, reqURL)
	if err != nil {
		c.logger.Warn("request failed", "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readLimitedBody(resp.Body, maxErrorBody)
		c.logger.Warn("unexpected status", "path", path, "status", resp.StatusCode, "body", body)
		return fmt.Errorf("GET %s: %w", path, &domain.UpstreamStatusError{Service: "CompanyCam", StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}

	return nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, token, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RoofLeads/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, nil
}

func readLimitedBody(r io.Reader, limit int64) string {
	body, _ := io.ReadAll(io.LimitReader(r, limit))
	return string(body)
}
