package vectorstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/embedding"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
)

// NewStore builds a store of the given kind.
func NewStore(ctx context.Context, kind string, milvusCfg *MilvusConfig, embedder embedding.Embedder, lgr *logger.Logger) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(embedder, lgr)
	case KindMilvus:
		return NewMilvusStore(ctx, milvusCfg, embedder, lgr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreKind, kind)
	}
}

// IndexManager decides whether a retrieval run creates, loads, or extends
// the index at a location.
type IndexManager struct {
	store  Store
	logger *logger.Logger
}

// NewIndexManager creates an IndexManager over store.
func NewIndexManager(store Store, lgr *logger.Logger) (*IndexManager, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &IndexManager{
		store:  store,
		logger: lgr.Named("vectorstore.manager"),
	}, nil
}

// Store returns the managed store.
func (m *IndexManager) Store() Store {
	return m.store
}

// LoadOrCreate readies the index at location for retrieval. With update set,
// the index must already exist and chunks are appended to it; the check runs
// before any mutation so a bad call leaves nothing behind. Without update,
// an existing index is loaded as-is and a missing one is built from chunks.
func (m *IndexManager) LoadOrCreate(ctx context.Context, location string, chunks []chunker.AnnotatedChunk, update bool) error {
	if location == "" {
		return fmt.Errorf("location is required")
	}

	exists, err := m.store.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check index at %s: %w", location, err)
	}

	switch {
	case !exists && update:
		return ErrNoIndexToUpdate
	case !exists:
		m.logger.Info("creating index",
			zap.String("location", location),
			zap.Int("chunks", len(chunks)))
		return m.store.Create(ctx, location, chunks)
	case update:
		if err := m.store.Load(ctx, location); err != nil {
			return err
		}
		m.logger.Info("updating index",
			zap.String("location", location),
			zap.Int("chunks", len(chunks)))
		return m.store.Update(ctx, location, chunks)
	default:
		m.logger.Info("loading existing index", zap.String("location", location))
		return m.store.Load(ctx, location)
	}
}
