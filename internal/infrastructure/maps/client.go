// Package maps proxies the Google Maps geocoding and Street View APIs.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/roofleads/backend/internal/domain"
)

// DefaultBaseURL is the Google Maps API root
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

const (
	imageSize  = "600x400"
	imagePitch = "20" // tilt up to show the roof
)

// Client talks to the Google Maps web services
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a Maps client. An empty apiKey yields an unconfigured client.
func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:      logger.With("component", "maps"),
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type metadataResponse struct {
	Status string `json:"status"`
}

// Geocode resolves an address to coordinates
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/geocode/json", params, &resp); err != nil {
		return 0, 0, err
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		c.logger.Debug("geocode returned no result", "status", resp.Status)
		return 0, 0, domain.ErrAddressNotGeocoded
	}

	loc := resp.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// HasImagery reports whether Street View has a panorama at the location
func (c *Client) HasImagery(ctx context.Context, lat, lng float64) (bool, error) {
	params := url.Values{}
	params.Set("location", formatLocation(lat, lng))
	params.Set("key", c.apiKey)

	var resp metadataResponse
	if err := c.getJSON(ctx, "/streetview/metadata", params, &resp); err != nil {
		return false, err
	}

	return resp.Status == "OK", nil
}

// ImageURL builds the Street View static image URL for the location
func (c *Client) ImageURL(lat, lng float64) string {
	params := url.Values{}
	params.Set("size", imageSize)
	params.Set("location", formatLocation(lat, lng))
	params.Set("pitch", imagePitch)
	params.Set("key", c.apiKey)
	return c.baseURL + "/streetview?" + params.Encode()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status", "path", path, "status", resp.StatusCode)
		return &domain.UpstreamStatusError{Service: "Google Maps", StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}
	return nil
}

func formatLocation(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
