package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

// markerPattern matches [reference:n] and its spelling variants: the
// keyword is case-insensitive and an optional space may follow the colon.
// Plain prose such as "reference: see footnote" does not match.
var markerPattern = regexp.MustCompile(`(?i)\[reference: ?(\d+)\]`)

// FormatContext converts ranked results into the numbered context block
// handed to the model:
//
//	[reference:1] title: snippet
//
//	[reference:2] title: snippet
//
// An empty result list yields NoResultsContext.
func FormatContext(results []*types.SearchResult) string {
	if len(results) == 0 {
		return NoResultsContext
	}

	entries := make([]string, len(results))
	for i, r := range results {
		entries[i] = fmt.Sprintf("[reference:%d] %s: %s", i+1, r.Title, r.Snippet)
	}
	return strings.Join(entries, "\n\n")
}

// RenderCitation renders a citation marker as a markdown superscript link
func RenderCitation(n int, url string) string {
	return fmt.Sprintf("[<sup>%d</sup>](%s)", n, url)
}

// Linkify replaces every citation marker in text with a markdown link to
// the nth indexed source. A number beyond the index degrades to a
// dead-link placeholder rather than failing. Text without markers is
// returned unchanged.
func Linkify(text string, idx *Index) string {
	return markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		sub := markerPattern.FindStringSubmatch(marker)
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			// Digits too large for an int; leave the marker as plain text.
			return marker
		}

		url, ok := idx.URL(n)
		if !ok {
			return RenderCitation(n, "#")
		}
		return RenderCitation(n, url)
	})
}
