// Package crawler fetches search-result pages and converts them to plain
// text ready for chunking. Fetch, retry, and robots handling are kept
// deliberately simple: a page that cannot be fetched is logged and skipped,
// never fatal to the crawl cycle.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/workerpool"
)

// Document is one crawled page reduced to plain text
type Document struct {
	URL     string
	Content string
}

// Config configures a crawler
type Config struct {
	MaxScrapedWebsites int
	ExcludedLinks      []string
	PDFEnabled         bool // route .pdf links to the PDF loader
	Timeout            int  // seconds per fetch
}

// Crawler fetches and cleans pages concurrently over a worker pool
type Crawler struct {
	config *Config
	client *http.Client
	pool   *workerpool.Pool
	logger *logger.Logger
}

// New creates a crawler
func New(cfg *Config, pool *workerpool.Pool, lgr *logger.Logger) (*Crawler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.MaxScrapedWebsites <= 0 {
		return nil, fmt.Errorf("max scraped websites must be positive, got %d", cfg.MaxScrapedWebsites)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if lgr == nil {
		lgr = logger.L()
	}

	return &Crawler{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		pool:   pool,
		logger: lgr.Named("crawler"),
	}, nil
}

// Crawl filters the candidate links, fetches the survivors, and returns the
// cleaned documents alongside the URL list the crawl attempted. The URL
// list, not the document list, defines the crawl's reference numbering:
// a page that fails to fetch keeps its slot so citation numbers stay stable.
func (c *Crawler) Crawl(ctx context.Context, links []string, extraExcluded []string) ([]Document, []string) {
	excluded := make([]string, 0, len(c.config.ExcludedLinks)+len(extraExcluded))
	excluded = append(excluded, c.config.ExcludedLinks...)
	excluded = append(excluded, extraExcluded...)

	urls := dropBinaryLinks(links)
	urls = FilterLinks(urls, excluded)
	if len(urls) > c.config.MaxScrapedWebsites {
		urls = urls[:c.config.MaxScrapedWebsites]
	}
	if len(urls) == 0 {
		return nil, nil
	}

	// Fan the fetches out; slots keep URL order so results stay aligned
	// with the reference numbering.
	type slot struct {
		doc Document
		err error
	}
	results := make([]slot, len(urls))
	channels := make([]<-chan workerpool.TaskResult, len(urls))

	for i, pageURL := range urls {
		pageURL := pageURL
		channels[i] = c.pool.SubmitWithResult(func() (interface{}, error) {
			return c.fetch(ctx, pageURL)
		})
	}

	for i, ch := range channels {
		res := <-ch
		if res.Error != nil {
			results[i] = slot{err: res.Error}
			continue
		}
		results[i] = slot{doc: res.Data.(Document)}
	}

	docs := make([]Document, 0, len(urls))
	for i, r := range results {
		if r.err != nil {
			c.logger.Warn("failed to scrape page",
				zap.String("url", urls[i]),
				zap.Error(r.err))
			continue
		}
		docs = append(docs, r.doc)
	}

	c.logger.Info("crawl completed",
		zap.Int("attempted", len(urls)),
		zap.Int("scraped", len(docs)))

	return docs, urls
}

// fetch loads one URL and reduces it to plain text
func (c *Crawler) fetch(ctx context.Context, pageURL string) (Document, error) {
	if strings.HasSuffix(strings.ToLower(pageURL), ".pdf") {
		if !c.config.PDFEnabled {
			return Document{}, fmt.Errorf("pdf loading disabled for %s", pageURL)
		}
		return c.fetchPDF(ctx, pageURL)
	}

	body, contentType, err := c.get(ctx, pageURL)
	if err != nil {
		return Document{}, err
	}

	content := string(body)
	if strings.Contains(contentType, "text/html") || looksLikeHTML(content) {
		content, err = extractText(content)
		if err != nil {
			return Document{}, fmt.Errorf("failed to extract text from %s: %w", pageURL, err)
		}
	}

	return Document{URL: pageURL, Content: content}, nil
}

// get performs the HTTP fetch and returns body and content type
func (c *Crawler) get(ctx context.Context, pageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; TechieAssistant/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
