package chunker

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// WindowChunker splits text into fixed-size character windows where each
// consecutive pair of windows shares exactly the configured overlap.
// Windows jointly cover the whole document; only the final window may be
// shorter than the configured size.
type WindowChunker struct {
	encoding *tiktoken.Tiktoken
	size     int
	overlap  int
}

// WindowChunkerConfig configures a WindowChunker
type WindowChunkerConfig struct {
	Size     int    // window size in characters
	Overlap  int    // characters shared between consecutive windows
	Encoding string // tiktoken encoding used for token accounting
}

// NewWindowChunker creates a window chunker
func NewWindowChunker(cfg *WindowChunkerConfig) (*WindowChunker, error) {
	if cfg == nil {
		cfg = &WindowChunkerConfig{Size: 1200, Overlap: 240}
	}

	if cfg.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	if cfg.Overlap < 0 {
		return nil, fmt.Errorf("chunk overlap cannot be negative")
	}
	if cfg.Overlap >= cfg.Size {
		return nil, fmt.Errorf("chunk overlap must be less than chunk size")
	}

	if cfg.Encoding == "" {
		cfg.Encoding = "cl100k_base"
	}
	encoding, err := tiktoken.GetEncoding(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}

	return &WindowChunker{
		encoding: encoding,
		size:     cfg.Size,
		overlap:  cfg.Overlap,
	}, nil
}

// Chunk splits the text into overlapping windows
func (c *WindowChunker) Chunk(_ context.Context, text string) ([]*TextChunk, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return []*TextChunk{}, nil
	}

	step := c.size - c.overlap
	chunks := make([]*TextChunk, 0, len(runes)/step+1)

	for start, index := 0, 0; start < len(runes); start, index = start+step, index+1 {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		content := string(runes[start:end])
		chunks = append(chunks, &TextChunk{
			Index:      index,
			Content:    content,
			TokenCount: len(c.encoding.Encode(content, nil, nil)),
			Start:      start,
			End:        end,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

// ChunkSize returns the window size in characters
func (c *WindowChunker) ChunkSize() int {
	return c.size
}

// ChunkOverlap returns the overlap in characters
func (c *WindowChunker) ChunkOverlap() int {
	return c.overlap
}
