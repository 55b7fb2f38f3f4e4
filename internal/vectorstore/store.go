package vectorstore

import (
	"context"
	"errors"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
)

// Store kinds understood by NewStore.
const (
	KindMemory = "memory"
	KindMilvus = "milvus"
)

var (
	// ErrNoIndexToUpdate is returned when an update is requested against a
	// location where no index exists.
	ErrNoIndexToUpdate = errors.New("no index exists at the given location to update")

	// ErrIndexNotLoaded is returned by Retrieve before Create or Load has run.
	ErrIndexNotLoaded = errors.New("no index loaded")

	// ErrEmptyChunks is returned when an index would be built from nothing.
	ErrEmptyChunks = errors.New("no chunks to index")

	// ErrUnknownStoreKind is returned by NewStore for an unrecognized kind.
	ErrUnknownStoreKind = errors.New("store kind must be either memory or milvus")
)

// ScoredChunk is a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk chunker.AnnotatedChunk
	Score float32
}

// Store is a persistent vector index over annotated chunks. A store is bound
// to one location at a time; Create and Load bind it, Retrieve reads from the
// bound index.
type Store interface {
	// Exists reports whether an index is already present at location.
	Exists(ctx context.Context, location string) (bool, error)

	// Create builds a fresh index at location from chunks and binds the
	// store to it.
	Create(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error

	// Load binds the store to the existing index at location.
	Load(ctx context.Context, location string) error

	// Update appends chunks to the index at location. The index must exist.
	Update(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error

	// Retrieve returns up to k chunks most similar to query, dropping any
	// whose score falls below threshold.
	Retrieve(ctx context.Context, query string, k int, threshold float32) ([]ScoredChunk, error)
}
