package timeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/logging"
)

const timelinePage = `<html><body>
<img src="https://img.companycam.com/abc/photo-1.jpg">
<img src='https://img.companycam.com/abc/photo-2.jpg'>
<a href="https://img.companycam.com/abc/photo-1.jpg">again</a>
<video poster="https://img.companycam.com/companycam-pending/vid-1.jpg"></video>
<img src="https://cdn.example.com/logo.png">
</body></html>`

func TestExtractMedia(t *testing.T) {
	items := extractMedia([]byte(timelinePage))

	require.Len(t, items, 3)
	assert.Equal(t, "scraped-0", items[0].ID)
	assert.Equal(t, domain.MediaTypePhoto, items[0].MediaType)
	assert.Equal(t, "https://img.companycam.com/abc/photo-1.jpg", items[0].URIs[0].URI)
	assert.Equal(t, "https://img.companycam.com/abc/photo-2.jpg", items[1].URIs[0].URI)
	assert.Equal(t, domain.MediaTypeVideo, items[2].MediaType)
	assert.Equal(t, "video", items[2].URIs[0].Type)
}

func TestExtractMedia_NoLinks(t *testing.T) {
	items := extractMedia([]byte("<html><body>nothing here</body></html>"))

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestScrapeTimeline(t *testing.T) {
	t.Run("extracts media from the page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(timelinePage))
		}))
		defer server.Close()

		items, err := NewScraper(Config{}, logging.Discard()).ScrapeTimeline(context.Background(), server.URL+"/timeline/abc")

		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("error status is an upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewScraper(Config{}, logging.Discard()).ScrapeTimeline(context.Background(), server.URL+"/timeline/missing")

		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	})
}
