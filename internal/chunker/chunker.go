package chunker

import (
	"context"
)

// Chunker splits text into bounded, overlapping chunks
type Chunker interface {
	// Chunk splits the text
	Chunk(ctx context.Context, text string) ([]*TextChunk, error)

	// ChunkSize returns the configured chunk size in characters
	ChunkSize() int

	// ChunkOverlap returns the configured overlap in characters
	ChunkOverlap() int
}

// TextChunk is one window of a split document
type TextChunk struct {
	Index      int    // chunk ordinal within the document, from 0
	Content    string // chunk text
	TokenCount int    // token count of the content
	Start      int    // start offset in the original text (characters)
	End        int    // end offset in the original text (characters)
}
