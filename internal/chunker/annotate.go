package chunker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/citation"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/crawler"
)

// AnnotatedChunk is a chunk stamped with its source reference.
// The [reference:n] prefix is written into the text itself on purpose:
// structured metadata may be lost downstream, but the textual marker
// travels with the chunk.
type AnnotatedChunk struct {
	ID        string
	Text      string // chunk content with the [reference:n] prefix
	SourceURL string
	Reference int // 1-based number in the crawl's reference index, 0 when unknown
}

// RefTag returns the textual reference tag for the chunk
func (c *AnnotatedChunk) RefTag() string {
	if c.Reference == 0 {
		return citation.UnknownReference
	}
	return fmt.Sprintf("%d", c.Reference)
}

// Annotate chunks every document and stamps each chunk with the reference
// number of its source URL in idx. A document whose URL is absent from the
// index is tagged unknown rather than rejected.
func Annotate(ctx context.Context, ck Chunker, docs []crawler.Document, idx *citation.Index) ([]AnnotatedChunk, error) {
	var annotated []AnnotatedChunk

	for _, doc := range docs {
		chunks, err := ck.Chunk(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk %s: %w", doc.URL, err)
		}

		number, known := idx.Number(doc.URL)
		for _, chunk := range chunks {
			ac := AnnotatedChunk{
				ID:        uuid.NewString(),
				SourceURL: doc.URL,
			}
			if known {
				ac.Reference = number
			}
			ac.Text = fmt.Sprintf("[reference:%s] %s", ac.RefTag(), chunk.Content)
			annotated = append(annotated, ac)
		}
	}

	return annotated, nil
}
