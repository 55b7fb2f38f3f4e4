// Package citation implements the reference bookkeeping between numbered
// citation markers emitted by the model and the source URLs they point at.
//
// Reference numbers are dense, 1-based, and valid only for the lifetime of
// one query or crawl cycle. A number from one cycle must never be resolved
// against another cycle's index without remapping.
package citation

import (
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

// NoResultsContext is the sentinel context returned when a search yields
// nothing. It is data, not a fault; callers render a "try again" message.
const NoResultsContext = "Answer not found"

// UnknownReference tags chunks whose source metadata is missing
const UnknownReference = "unknown"

// Index maps 1-based reference numbers to source URLs
type Index struct {
	urls []string
}

// NewIndex builds an index from an ordered URL list
func NewIndex(urls []string) *Index {
	copied := make([]string, len(urls))
	copy(copied, urls)
	return &Index{urls: copied}
}

// IndexFromResults builds an index from ranked search results; the engine
// rank becomes the citation order.
func IndexFromResults(results []*types.SearchResult) *Index {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.Link)
	}
	return &Index{urls: urls}
}

// URL returns the source for reference number n (1-based)
func (idx *Index) URL(n int) (string, bool) {
	if n < 1 || n > len(idx.urls) {
		return "", false
	}
	return idx.urls[n-1], true
}

// Number returns the reference number assigned to url
func (idx *Index) Number(url string) (int, bool) {
	for i, u := range idx.urls {
		if u == url {
			return i + 1, true
		}
	}
	return 0, false
}

// Len returns the number of indexed sources
func (idx *Index) Len() int {
	return len(idx.urls)
}

// URLs returns the sources in reference order
func (idx *Index) URLs() []string {
	copied := make([]string, len(idx.urls))
	copy(copied, idx.urls)
	return copied
}
