package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/workerpool"
)

func newTestCrawler(t *testing.T, cfg *Config) *Crawler {
	t.Helper()

	pool, err := workerpool.New(&workerpool.Config{Workers: 4}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)

	c, err := New(cfg, pool, nil)
	require.NoError(t, err)
	return c
}

func TestCrawler_Crawl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><script>ignored()</script></head><body><p>Reset the power plan.</p></body></html>`))
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain text page"))
		}
	}))
	defer server.Close()

	c := newTestCrawler(t, &Config{MaxScrapedWebsites: 10})

	links := []string{server.URL + "/ok", server.URL + "/missing", server.URL + "/plain"}
	docs, urls := c.Crawl(context.Background(), links, nil)

	// The failed fetch keeps its slot in the URL list but yields no document.
	assert.Equal(t, links, urls)
	require.Len(t, docs, 2)
	assert.Equal(t, server.URL+"/ok", docs[0].URL)
	assert.Contains(t, docs[0].Content, "Reset the power plan.")
	assert.NotContains(t, docs[0].Content, "ignored")
	assert.Equal(t, "plain text page", docs[1].Content)
}

func TestCrawler_Crawl_RespectsMaxScrapedWebsites(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("page"))
	}))
	defer server.Close()

	c := newTestCrawler(t, &Config{MaxScrapedWebsites: 2})

	links := []string{server.URL + "/1", server.URL + "/2", server.URL + "/3"}
	docs, urls := c.Crawl(context.Background(), links, nil)

	assert.Len(t, urls, 2)
	assert.Len(t, docs, 2)
}

func TestCrawler_Crawl_AllLinksFiltered(t *testing.T) {
	c := newTestCrawler(t, &Config{
		MaxScrapedWebsites: 5,
		ExcludedLinks:      []string{"https://blocked.example"},
	})

	docs, urls := c.Crawl(context.Background(), []string{"https://blocked.example/page"}, nil)
	assert.Nil(t, docs)
	assert.Nil(t, urls)
}

func TestCrawler_Crawl_PDFDisabled(t *testing.T) {
	c := newTestCrawler(t, &Config{MaxScrapedWebsites: 5})

	docs, urls := c.Crawl(context.Background(), []string{"https://a.example/manual.pdf.html.pdf"}, nil)
	// The link survives filtering but the fetch is rejected.
	assert.Len(t, urls, 1)
	assert.Empty(t, docs)
}

func TestExtractText(t *testing.T) {
	text, err := extractText(`<html><body><div>First line</div><div>   </div><p>Second line</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "First line")
	assert.Contains(t, text, "Second line")
}
