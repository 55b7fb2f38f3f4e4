package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemapToUsedSources(t *testing.T) {
	idx := NewIndex([]string{"https://a.example", "https://b.example", "https://c.example"})

	answer := "First [<sup>1</sup>](https://a.example), " +
		"then [<sup>2</sup>](https://b.example), " +
		"finally [<sup>3</sup>](https://c.example)."

	got := RemapToUsedSources(answer, idx, []string{"https://b.example", "https://c.example"})

	// b and c get compact numbers 1 and 2; a is untouched.
	assert.Contains(t, got, "[<sup>1</sup>](https://b.example)")
	assert.Contains(t, got, "[<sup>2</sup>](https://c.example)")
	assert.Contains(t, got, "[<sup>1</sup>](https://a.example)")
	assert.NotContains(t, got, "[<sup>3</sup>]")
}

func TestRemapToUsedSources_RepeatedCitations(t *testing.T) {
	idx := NewIndex([]string{"https://a.example", "https://b.example"})

	answer := "[<sup>2</sup>](https://b.example) twice: [<sup>2</sup>](https://b.example)"
	got := RemapToUsedSources(answer, idx, []string{"https://b.example"})

	assert.Equal(t, "[<sup>1</sup>](https://b.example) twice: [<sup>1</sup>](https://b.example)", got)
}

func TestRemapToUsedSources_DuplicateUsedURLs(t *testing.T) {
	idx := NewIndex([]string{"https://a.example", "https://b.example"})

	// The retrieval step may return several chunks from the same page.
	got := RemapToUsedSources(
		"[<sup>2</sup>](https://b.example)",
		idx,
		[]string{"https://b.example", "https://b.example", "https://a.example"},
	)
	assert.Equal(t, "[<sup>1</sup>](https://b.example)", got)
}

func TestRemapToUsedSources_NoCitations(t *testing.T) {
	idx := NewIndex([]string{"https://a.example"})
	assert.Equal(t, "plain answer", RemapToUsedSources("plain answer", idx, []string{"https://a.example"}))
}

func TestRemapToUsedSources_EmptyUsedSet(t *testing.T) {
	idx := NewIndex([]string{"https://a.example"})
	answer := "[<sup>1</sup>](https://a.example)"
	assert.Equal(t, answer, RemapToUsedSources(answer, idx, nil))
}
