package vectorstore

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/embedding"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
)

const memoryIndexFile = "index.gob"

// memoryIndex is the on-disk shape of an in-memory index.
type memoryIndex struct {
	Chunks  []chunker.AnnotatedChunk
	Vectors [][]float32
	Model   string
}

// MemoryStore keeps vectors in process memory and persists them as a gob
// file under the location directory. It is the default backend for
// single-machine use where running a vector database is not worth it.
type MemoryStore struct {
	embedder embedding.Embedder
	logger   *logger.Logger

	mu       sync.RWMutex
	location string
	index    memoryIndex
}

// NewMemoryStore creates a memory-backed store.
func NewMemoryStore(embedder embedding.Embedder, lgr *logger.Logger) (*MemoryStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &MemoryStore{
		embedder: embedder,
		logger:   lgr.Named("vectorstore.memory"),
	}, nil
}

func (s *MemoryStore) indexPath(location string) string {
	return filepath.Join(location, memoryIndexFile)
}

// Exists reports whether a persisted index is present at location.
func (s *MemoryStore) Exists(_ context.Context, location string) (bool, error) {
	if location == "" {
		return false, fmt.Errorf("location is required")
	}
	_, err := os.Stat(s.indexPath(location))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat index at %s: %w", location, err)
	}
	return true, nil
}

// Create embeds chunks and writes a fresh index at location.
func (s *MemoryStore) Create(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error {
	if location == "" {
		return fmt.Errorf("location is required")
	}
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = location
	s.index = memoryIndex{
		Chunks:  chunks,
		Vectors: vectors,
		Model:   s.embedder.Model(),
	}
	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Info("index created",
		zap.String("location", location),
		zap.Int("chunks", len(chunks)))
	return nil
}

// Load reads the persisted index at location into memory.
func (s *MemoryStore) Load(_ context.Context, location string) error {
	if location == "" {
		return fmt.Errorf("location is required")
	}

	f, err := os.Open(s.indexPath(location))
	if err != nil {
		return fmt.Errorf("failed to open index at %s: %w", location, err)
	}
	defer f.Close()

	var idx memoryIndex
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return fmt.Errorf("failed to decode index at %s: %w", location, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = location
	s.index = idx

	s.logger.Info("index loaded",
		zap.String("location", location),
		zap.Int("chunks", len(idx.Chunks)))
	return nil
}

// Update appends chunks to the index at location and persists it.
func (s *MemoryStore) Update(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error {
	exists, err := s.Exists(ctx, location)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNoIndexToUpdate
	}
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.location != location {
		return fmt.Errorf("index at %s is not loaded", location)
	}
	s.index.Chunks = append(s.index.Chunks, chunks...)
	s.index.Vectors = append(s.index.Vectors, vectors...)
	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Info("index updated",
		zap.String("location", location),
		zap.Int("added", len(chunks)),
		zap.Int("total", len(s.index.Chunks)))
	return nil
}

// Retrieve returns the k chunks most similar to query by cosine similarity.
func (s *MemoryStore) Retrieve(ctx context.Context, query string, k int, threshold float32) ([]ScoredChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.location == "" {
		return nil, ErrIndexNotLoaded
	}

	scored := make([]ScoredChunk, 0, len(s.index.Chunks))
	for i, vec := range s.index.Vectors {
		score := cosineSimilarity(queryVec, vec)
		if score < threshold {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: s.index.Chunks[i], Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *MemoryStore) embedChunks(ctx context.Context, chunks []chunker.AnnotatedChunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	return vectors, nil
}

// persistLocked writes the current index to disk. Callers hold s.mu.
func (s *MemoryStore) persistLocked() error {
	if err := os.MkdirAll(s.location, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory %s: %w", s.location, err)
	}

	path := s.indexPath(s.location)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(&s.index); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
