package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-garp-screener/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>news</title>
<item><title>Apple beats estimates on record iPhone sales - Reuters</title><link>https://example.com/a</link><pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate></item>
<item><title>Apple faces antitrust investigation - Bloomberg</title><link>https://example.com/b</link><pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate></item>
<item><title>Undated headline</title><link>https://example.com/c</link></item>
</channel></rss>`

func TestNewsRepository_GetNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "AAPL stock", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	repo := NewNewsRepository(newTestConfig(server.URL), logger.NewNop())

	news, err := repo.GetNews(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, news, 3)
	assert.Equal(t, "Apple faces antitrust investigation", news[0].Title)
	assert.Equal(t, "Bloomberg", news[0].Source)
	assert.Equal(t, "Apple beats estimates on record iPhone sales", news[1].Title)
	assert.Equal(t, "Undated headline", news[2].Title)
	assert.Empty(t, news[2].Source)

	limited, err := repo.GetNews(context.Background(), "AAPL", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestNewsRepository_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := NewNewsRepository(newTestConfig(server.URL), logger.NewNop())
	_, err := repo.GetNews(context.Background(), "AAPL", 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSplitHeadline(t *testing.T) {
	title, source := splitHeadline("Stocks rally - as Fed pauses - CNBC")
	assert.Equal(t, "Stocks rally - as Fed pauses", title)
	assert.Equal(t, "CNBC", source)

	title, source = splitHeadline("  plain  ")
	assert.Equal(t, "plain", title)
	assert.Empty(t, source)
}
