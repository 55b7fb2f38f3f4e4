package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/provider"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

// Client executes allow-list restricted searches against a provider.
//
// A search that fails in transport or returns nothing is not an error:
// it yields an empty result list, which callers must treat as a normal
// outcome. Only invalid arguments (unknown engine, empty query) are
// surfaced as errors, before any network call is made.
type Client struct {
	provider   provider.Provider
	engine     types.Engine
	maxResults int
	sites      []string
	logger     *logger.Logger
}

// ClientConfig configures a search client
type ClientConfig struct {
	Engine     types.Engine
	MaxResults int
	Sites      []string // defaults to OfficialSites
}

// NewClient creates a search client over the given provider
func NewClient(p provider.Provider, cfg ClientConfig, lgr *logger.Logger) (*Client, error) {
	if !cfg.Engine.Valid() {
		return nil, types.ErrUnknownEngine
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if len(cfg.Sites) == 0 {
		cfg.Sites = OfficialSites
	}
	if lgr == nil {
		lgr = logger.L()
	}

	return &Client{
		provider:   p,
		engine:     cfg.Engine,
		maxResults: cfg.MaxResults,
		sites:      cfg.Sites,
		logger:     lgr.Named("search"),
	}, nil
}

// Search runs the query, restricted to the allow-list, and returns the
// ranked results. An empty slice means "no results found"; transport and
// parse failures are logged and degrade to that same outcome.
func (c *Client) Search(ctx context.Context, query string) ([]*types.SearchResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	restricted := RestrictQuery(query, c.sites)
	start := time.Now()

	resp, err := c.provider.Search(ctx, &types.SearchRequest{
		Query:      restricted,
		MaxResults: c.maxResults,
		Engine:     c.engine,
	})
	if err != nil {
		if errors.Is(err, types.ErrUnknownEngine) || errors.Is(err, types.ErrEmptyQuery) {
			return nil, err
		}
		// ProviderError carries the raw response body in its message.
		c.logger.Error("search request failed",
			zap.String("query", query),
			zap.Error(err))
		return nil, nil
	}

	if len(resp.Results) == 0 {
		c.logger.Info("no answer found for query",
			zap.String("query", query),
			zap.String("knowledge_graph", resp.KnowledgeGraph))
		return nil, nil
	}

	c.logger.Info("search completed",
		zap.String("query", query),
		zap.Int("results", len(resp.Results)),
		zap.Duration("took", time.Since(start)))

	return resp.Results, nil
}

// Links extracts the result links in rank order
func Links(results []*types.SearchResult) []string {
	links := make([]string, 0, len(results))
	for _, r := range results {
		links = append(links, r.Link)
	}
	return links
}
