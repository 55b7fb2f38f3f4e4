package types

// SearchResponse represents a search response
type SearchResponse struct {
	Query          string          `json:"query"`
	Results        []*SearchResult `json:"results"`
	KnowledgeGraph string          `json:"knowledge_graph,omitempty"`
	Took           int64           `json:"took"` // milliseconds
}

// SearchResult represents a single ranked search hit.
// The list order is the engine rank and becomes the citation order.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}
