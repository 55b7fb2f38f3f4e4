package vectorstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/embedding"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
)

const (
	milvusVectorField = "embedding"
	milvusIDField     = "id"
	milvusTextField   = "text"
	milvusSourceField = "source"
	milvusRefField    = "ref"
)

var collectionNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MilvusConfig configures the Milvus connection.
type MilvusConfig struct {
	Host string
	Port int
}

// Address returns the gRPC address of the Milvus server.
func (c *MilvusConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MilvusStore persists vectors in a Milvus collection. The location is used
// as the collection name; the index uses cosine similarity so scores are
// directly comparable against the configured threshold.
type MilvusStore struct {
	client   *milvusclient.Client
	embedder embedding.Embedder
	logger   *logger.Logger

	collection string
}

// NewMilvusStore connects to Milvus and returns a store.
func NewMilvusStore(ctx context.Context, cfg *MilvusConfig, embedder embedding.Embedder, lgr *logger.Logger) (*MilvusStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("milvus host is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if lgr == nil {
		lgr = logger.L()
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.Address(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address(), err)
	}

	return &MilvusStore{
		client:   client,
		embedder: embedder,
		logger:   lgr.Named("vectorstore.milvus"),
	}, nil
}

// Close releases the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// collectionName turns a location into a legal Milvus collection name.
func collectionName(location string) string {
	name := collectionNameSanitizer.ReplaceAllString(strings.TrimSpace(location), "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "kb_" + name
	}
	return name
}

// Exists reports whether the collection for location already exists.
func (s *MilvusStore) Exists(ctx context.Context, location string) (bool, error) {
	if location == "" {
		return false, fmt.Errorf("location is required")
	}

	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(collectionName(location)))
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return exists, nil
}

// Create builds the collection, inserts the chunks, and loads it for search.
func (s *MilvusStore) Create(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error {
	if location == "" {
		return fmt.Errorf("location is required")
	}
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	coll := collectionName(location)

	schema := entity.NewSchema().
		WithName(coll).
		WithDescription("web retrieval chunk collection").
		WithField(entity.NewField().
			WithName(milvusIDField).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(64).
			WithIsPrimaryKey(true)).
		WithField(entity.NewField().
			WithName(milvusVectorField).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(s.embedder.Dimension()))).
		WithField(entity.NewField().
			WithName(milvusTextField).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535)).
		WithField(entity.NewField().
			WithName(milvusSourceField).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(2048)).
		WithField(entity.NewField().
			WithName(milvusRefField).
			WithDataType(entity.FieldTypeInt64))

	if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(coll, schema)); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", coll, err)
	}

	idx := index.NewAutoIndex(entity.COSINE)
	task, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(coll, milvusVectorField, idx))
	if err != nil {
		return fmt.Errorf("failed to create index on %s: %w", coll, err)
	}
	if err := task.Await(ctx); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", coll, err)
	}

	if err := s.insert(ctx, coll, chunks); err != nil {
		return err
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(coll))
	if err != nil {
		return fmt.Errorf("failed to load collection %s: %w", coll, err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", coll, err)
	}

	s.collection = coll
	s.logger.Info("collection created",
		zap.String("collection", coll),
		zap.Int("chunks", len(chunks)))
	return nil
}

// Load binds the store to an existing collection and loads it for search.
func (s *MilvusStore) Load(ctx context.Context, location string) error {
	if location == "" {
		return fmt.Errorf("location is required")
	}

	coll := collectionName(location)
	task, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(coll))
	if err != nil {
		return fmt.Errorf("failed to load collection %s: %w", coll, err)
	}
	if err := task.Await(ctx); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", coll, err)
	}

	s.collection = coll
	s.logger.Info("collection loaded", zap.String("collection", coll))
	return nil
}

// Update appends chunks to an existing collection.
func (s *MilvusStore) Update(ctx context.Context, location string, chunks []chunker.AnnotatedChunk) error {
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

	coll := collectionName(location)
	if err := s.insert(ctx, coll, chunks); err != nil {
		return err
	}
	s.collection = coll

	s.logger.Info("collection updated",
		zap.String("collection", coll),
		zap.Int("added", len(chunks)))
	return nil
}

// Retrieve searches the bound collection for the chunks closest to query.
func (s *MilvusStore) Retrieve(ctx context.Context, query string, k int, threshold float32) ([]ScoredChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	if s.collection == "" {
		return nil, ErrIndexNotLoaded
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchOpt := milvusclient.NewSearchOption(s.collection, k, []entity.Vector{entity.FloatVector(queryVec)}).
		WithANNSField(milvusVectorField).
		WithOutputFields(milvusTextField, milvusSourceField, milvusRefField)

	resultSets, err := s.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", s.collection, err)
	}
	if len(resultSets) == 0 {
		return nil, nil
	}

	rs := resultSets[0]
	texts := rs.GetColumn(milvusTextField)
	sources := rs.GetColumn(milvusSourceField)
	refs := rs.GetColumn(milvusRefField)

	scored := make([]ScoredChunk, 0, rs.ResultCount)
	for j := 0; j < rs.ResultCount; j++ {
		score := rs.Scores[j]
		if score < threshold {
			continue
		}

		chunk := chunker.AnnotatedChunk{}
		if id, err := rs.IDs.GetAsString(j); err == nil {
			chunk.ID = id
		}
		if texts != nil {
			if v, err := texts.GetAsString(j); err == nil {
				chunk.Text = v
			}
		}
		if sources != nil {
			if v, err := sources.GetAsString(j); err == nil {
				chunk.SourceURL = v
			}
		}
		if refs != nil {
			if v, err := refs.GetAsInt64(j); err == nil {
				chunk.Reference = int(v)
			}
		}

		scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
	}
	return scored, nil
}

func (s *MilvusStore) insert(ctx context.Context, coll string, chunks []chunker.AnnotatedChunk) error {
	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	refs := make([]int64, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
		texts[i] = ch.Text
		sources[i] = ch.SourceURL
		refs[i] = int64(ch.Reference)
	}

	columns := []column.Column{
		column.NewColumnVarChar(milvusIDField, ids),
		column.NewColumnFloatVector(milvusVectorField, s.embedder.Dimension(), vectors),
		column.NewColumnVarChar(milvusTextField, texts),
		column.NewColumnVarChar(milvusSourceField, sources),
		column.NewColumnInt64(milvusRefField, refs),
	}

	if _, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(coll, columns...)); err != nil {
		return fmt.Errorf("failed to insert chunks into %s: %w", coll, err)
	}

	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(coll))
	if err != nil {
		s.logger.Warn("failed to flush collection after insert",
			zap.String("collection", coll),
			zap.Error(err))
		return nil
	}
	if err := flushTask.Await(ctx); err != nil {
		s.logger.Warn("flush did not complete",
			zap.String("collection", coll),
			zap.Error(err))
	}
	return nil
}

func (s *MilvusStore) embedChunks(ctx context.Context, chunks []chunker.AnnotatedChunk) ([][]float32, error) {
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
