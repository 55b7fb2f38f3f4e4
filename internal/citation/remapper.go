package citation

import (
	"strings"
)

// RemapToUsedSources renumbers rendered citations in answer to a compact
// 1..k scheme over only the sources the retrieval step actually used.
//
// The answer is expected to already contain rendered citations in the
// original numbering of idx (the index the vector store was built from).
// Each URL in usedURLs receives a new number by order of first appearance;
// every rendered citation for a used URL is rewritten to its compact
// number, leaving the URL untouched. Citations to unused sources are left
// as-is: they still point at valid, just not directly retrieved, pages.
func RemapToUsedSources(answer string, idx *Index, usedURLs []string) string {
	compact := make(map[string]int, len(usedURLs))
	next := 1
	for _, url := range usedURLs {
		if _, seen := compact[url]; seen {
			continue
		}
		compact[url] = next
		next++
	}

	for i, url := range idx.URLs() {
		newNumber, used := compact[url]
		if !used {
			continue
		}
		original := RenderCitation(i+1, url)
		renumbered := RenderCitation(newNumber, url)
		answer = strings.ReplaceAll(answer, original, renumbered)
	}

	return answer
}
