package citation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

func sampleResults() []*types.SearchResult {
	return []*types.SearchResult{
		{Title: "Battery tips", Snippet: "Reduce brightness", Link: "https://support.example.com/battery"},
		{Title: "Power settings", Snippet: "Check power plan", Link: "https://support.example.com/power"},
		{Title: "BIOS update", Snippet: "Update firmware", Link: "https://support.example.com/bios"},
	}
}

func TestFormatContext_NumbersEveryResult(t *testing.T) {
	results := sampleResults()
	context := FormatContext(results)

	blocks := strings.Split(context, "\n\n")
	require.Len(t, blocks, len(results))
	for i, block := range blocks {
		assert.True(t, strings.HasPrefix(block, fmt.Sprintf("[reference:%d] ", i+1)), block)
	}
	assert.Contains(t, context, "[reference:1] Battery tips: Reduce brightness")
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, NoResultsContext, FormatContext(nil))
	assert.Equal(t, NoResultsContext, FormatContext([]*types.SearchResult{}))
}

func TestLinkify(t *testing.T) {
	idx := IndexFromResults(sampleResults())

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single marker",
			text: "See [reference:2] for details.",
			want: "See [<sup>2</sup>](https://support.example.com/power) for details.",
		},
		{
			name: "capitalized with space",
			text: "Per [Reference: 1] the fix works.",
			want: "Per [<sup>1</sup>](https://support.example.com/battery) the fix works.",
		},
		{
			name: "out of range degrades to placeholder",
			text: "Sources: [reference:7]",
			want: "Sources: [<sup>7</sup>](#)",
		},
		{
			name: "repeated markers",
			text: "[reference:1] and again [reference:1]",
			want: "[<sup>1</sup>](https://support.example.com/battery) and again [<sup>1</sup>](https://support.example.com/battery)",
		},
		{
			name: "no false positive on prose",
			text: "reference: see footnote 3",
			want: "reference: see footnote 3",
		},
		{
			name: "non-numeric marker is plain text",
			text: "[reference:unknown] chunk text",
			want: "[reference:unknown] chunk text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Linkify(tt.text, idx))
		})
	}
}

func TestLinkify_IdempotentWithoutMarkers(t *testing.T) {
	idx := IndexFromResults(sampleResults())
	text := "Nothing to cite here, not even a [link](https://example.com)."
	assert.Equal(t, text, Linkify(text, idx))
}

func TestIndex(t *testing.T) {
	idx := NewIndex([]string{"https://a.example", "https://b.example"})

	url, ok := idx.URL(1)
	assert.True(t, ok)
	assert.Equal(t, "https://a.example", url)

	_, ok = idx.URL(0)
	assert.False(t, ok)
	_, ok = idx.URL(3)
	assert.False(t, ok)

	n, ok := idx.Number("https://b.example")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = idx.Number("https://missing.example")
	assert.False(t, ok)

	assert.Equal(t, 2, idx.Len())
}
