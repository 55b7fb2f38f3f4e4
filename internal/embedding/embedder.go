package embedding

import (
	"context"
)

// Embedder computes vector representations of text.
// Embedding is always delegated to an external service; nothing in this
// repository computes vectors itself.
type Embedder interface {
	// Embed generates the vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed generates vectors for a batch of texts
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimension
	Dimension() int

	// Model returns the model name
	Model() string
}
