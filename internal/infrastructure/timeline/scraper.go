// Package timeline reads media links from public CompanyCam timeline pages.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/roofleads/backend/internal/domain"
)

// mediaURL matches image and video links served from the CompanyCam CDN
var mediaURL = regexp.MustCompile(`https://img\.companycam\.com/[^\s"'<>]+`)

// Config configures the scraper
type Config struct {
	Timeout     time.Duration
	Parallelism int
}

// Scraper fetches a timeline page and extracts the media it links to.
// The page carries no capture dates, so scraped items keep the page order.
type Scraper struct {
	timeout     time.Duration
	parallelism int
	logger      *slog.Logger
}

// NewScraper creates a scraper
func NewScraper(cfg Config, logger *slog.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 2
	}
	return &Scraper{
		timeout:     cfg.Timeout,
		parallelism: cfg.Parallelism,
		logger:      logger.With("component", "timeline_scraper"),
	}
}

func (s *Scraper) newCollector(ctx context.Context) (*colly.Collector, error) {
	c := colly.NewCollector(colly.AllowURLRevisit(), colly.StdlibContext(ctx))
	c.SetRequestTimeout(s.timeout)

	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: s.parallelism}); err != nil {
		return nil, fmt.Errorf("timeline scraper: failed to set limit rule: %w", err)
	}
	extensions.RandomUserAgent(c)

	return c, nil
}

// ScrapeTimeline returns the unique CDN links on the page as media items
func (s *Scraper) ScrapeTimeline(ctx context.Context, publicURL string) ([]domain.MediaItem, error) {
	c, err := s.newCollector(ctx)
	if err != nil {
		return nil, err
	}

	var (
		items     []domain.MediaItem
		scrapeErr error
	)

	c.OnResponse(func(r *colly.Response) {
		items = extractMedia(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("%w: timeline %s: status %d: %v", domain.ErrUpstreamFailure, publicURL, r.StatusCode, err)
	})

	if err := c.Visit(publicURL); err != nil && scrapeErr == nil {
		scrapeErr = fmt.Errorf("%w: timeline %s: %v", domain.ErrUpstreamFailure, publicURL, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}

	s.logger.Debug("timeline scraped", "url", publicURL, "media", len(items))
	return items, nil
}

// extractMedia pulls CDN links out of the page, first occurrence wins
func extractMedia(body []byte) []domain.MediaItem {
	matches := mediaURL.FindAllString(string(body), -1)

	seen := make(map[string]bool, len(matches))
	items := []domain.MediaItem{}
	for _, u := range matches {
		if seen[u] {
			continue
		}
		seen[u] = true

		kind := domain.MediaTypePhoto
		uriType := "original"
		if isPendingUpload(u) {
			kind = domain.MediaTypeVideo
			uriType = "video"
		}

		items = append(items, domain.MediaItem{
			ID:        "scraped-" + strconv.Itoa(len(items)),
			MediaType: kind,
			URIs:      []domain.PhotoURI{{Type: uriType, URI: u}},
		})
	}
	return items
}

// isPendingUpload reports links to videos still being processed, which point at the pending bucket
func isPendingUpload(u string) bool {
	return strings.Contains(u, "pending.s3") || strings.Contains(u, "companycam-pending")
}
