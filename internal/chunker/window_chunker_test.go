package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindowChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *WindowChunkerConfig
		wantErr bool
	}{
		{name: "valid", cfg: &WindowChunkerConfig{Size: 100, Overlap: 20}},
		{name: "zero size", cfg: &WindowChunkerConfig{Size: 0, Overlap: 0}, wantErr: true},
		{name: "negative overlap", cfg: &WindowChunkerConfig{Size: 100, Overlap: -1}, wantErr: true},
		{name: "overlap equals size", cfg: &WindowChunkerConfig{Size: 100, Overlap: 100}, wantErr: true},
		{name: "nil uses defaults", cfg: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindowChunker(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindowChunker_CoverageAndOverlap(t *testing.T) {
	const size, overlap = 50, 10
	c, err := NewWindowChunker(&WindowChunkerConfig{Size: size, Overlap: overlap})
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 23) // 230 characters
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	runes := []rune(text)

	// Full coverage of [0, L) with no gaps.
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(runes), chunks[len(chunks)-1].End)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].Start, chunks[i-1].End, "gap between chunks %d and %d", i-1, i)
	}

	// Every consecutive pair overlaps by exactly the configured amount,
	// except possibly the final chunk.
	for i := 1; i < len(chunks)-1; i++ {
		assert.Equal(t, overlap, chunks[i-1].End-chunks[i].Start)
	}

	// Content matches the recorded offsets.
	for _, ch := range chunks {
		assert.Equal(t, string(runes[ch.Start:ch.End]), ch.Content)
		assert.LessOrEqual(t, ch.End-ch.Start, size)
		assert.Positive(t, ch.TokenCount)
	}
}

func TestWindowChunker_ShortDocument(t *testing.T) {
	c, err := NewWindowChunker(&WindowChunkerConfig{Size: 100, Overlap: 10})
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "tiny")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].Content)
}

func TestWindowChunker_EmptyDocument(t *testing.T) {
	c, err := NewWindowChunker(nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestWindowChunker_ZeroOverlap(t *testing.T) {
	c, err := NewWindowChunker(&WindowChunkerConfig{Size: 4, Overlap: 0})
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "abcdefgh")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "abcd", chunks[0].Content)
	assert.Equal(t, "efgh", chunks[1].Content)
}
