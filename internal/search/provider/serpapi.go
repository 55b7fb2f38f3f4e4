package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

// SerpAPIProvider implements the SerpAPI search endpoint.
// Both google and bing share the same wire format; the engine is
// selected per request through the engine query parameter.
type SerpAPIProvider struct {
	*BaseProvider
}

// NewSerpAPIProvider creates a new SerpAPI provider
func NewSerpAPIProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &SerpAPIProvider{BaseProvider: base}, nil
}

// Search executes a search query using the SerpAPI endpoint
func (p *SerpAPIProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}
	if !req.Engine.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEngine, req.Engine)
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = 5
	}

	apiURL := fmt.Sprintf("%s/search.json", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	values := url.Values{}
	values.Set("q", req.Query)
	values.Set("num", strconv.Itoa(maxResults))
	values.Set("engine", string(req.Engine))
	values.Set("api_key", p.GetAPIKey())
	httpReq.URL.RawQuery = values.Encode()
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, &types.ProviderError{
			Provider: p.GetName(),
			Code:     "INVALID_JSON",
			Message:  string(body),
		}
	}

	organic := gjson.GetBytes(body, "organic_results")
	results := make([]*types.SearchResult, 0, len(organic.Array()))
	organic.ForEach(func(_, hit gjson.Result) bool {
		results = append(results, &types.SearchResult{
			Title:   hit.Get("title").String(),
			Snippet: hit.Get("snippet").String(),
			Link:    hit.Get("link").String(),
		})
		return true
	})

	return &types.SearchResponse{
		Query:          req.Query,
		Results:        results,
		KnowledgeGraph: gjson.GetBytes(body, "knowledge_graph.description").String(),
		Took:           time.Since(startTime).Milliseconds(),
	}, nil
}
