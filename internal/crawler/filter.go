package crawler

import (
	"net/url"
	"strings"
)

// binarySuffixes are link endings that never contain crawlable text
var binarySuffixes = []string{
	".ico", ".svg", ".jpg", ".jpeg", ".png", ".docx", ".xls", ".xlsx",
}

// normalizeExcluded reduces an excluded entry to host+path, discarding
// scheme, query, and fragment.
func normalizeExcluded(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	return parsed.Host + parsed.Path
}

// FilterLinks drops every candidate whose string form contains any
// normalized excluded entry as a substring. The match is intentionally
// permissive: over-excluding a known-bad host or path is preferred over
// precision. The result has set semantics; ordering of the surviving
// candidates is preserved but deduplicated.
func FilterLinks(candidates []string, excluded []string) []string {
	fragments := make([]string, 0, len(excluded))
	for _, e := range excluded {
		if f := normalizeExcluded(e); f != "" {
			fragments = append(fragments, f)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	filtered := make([]string, 0, len(candidates))

	for _, link := range candidates {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		blocked := false
		for _, fragment := range fragments {
			if strings.Contains(link, fragment) {
				blocked = true
				break
			}
		}
		if !blocked {
			filtered = append(filtered, link)
		}
	}

	return filtered
}

// dropBinaryLinks removes links that end in a non-text suffix
func dropBinaryLinks(links []string) []string {
	kept := make([]string, 0, len(links))
	for _, link := range links {
		binary := false
		lower := strings.ToLower(link)
		for _, suffix := range binarySuffixes {
			if strings.HasSuffix(lower, suffix) {
				binary = true
				break
			}
		}
		if !binary {
			kept = append(kept, link)
		}
	}
	return kept
}
