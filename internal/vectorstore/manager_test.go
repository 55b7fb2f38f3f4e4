package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
)

// fakeStore records which store operations the manager dispatched.
type fakeStore struct {
	exists bool
	calls  []string
}

func (f *fakeStore) Exists(context.Context, string) (bool, error) {
	f.calls = append(f.calls, "exists")
	return f.exists, nil
}

func (f *fakeStore) Create(context.Context, string, []chunker.AnnotatedChunk) error {
	f.calls = append(f.calls, "create")
	return nil
}

func (f *fakeStore) Load(context.Context, string) error {
	f.calls = append(f.calls, "load")
	return nil
}

func (f *fakeStore) Update(context.Context, string, []chunker.AnnotatedChunk) error {
	f.calls = append(f.calls, "update")
	return nil
}

func (f *fakeStore) Retrieve(context.Context, string, int, float32) ([]ScoredChunk, error) {
	f.calls = append(f.calls, "retrieve")
	return nil, nil
}

func TestIndexManager_LoadOrCreate(t *testing.T) {
	tests := []struct {
		name      string
		exists    bool
		update    bool
		wantCalls []string
		wantErr   error
	}{
		{name: "missing creates", exists: false, update: false, wantCalls: []string{"exists", "create"}},
		{name: "missing with update fails fast", exists: false, update: true, wantCalls: []string{"exists"}, wantErr: ErrNoIndexToUpdate},
		{name: "present loads", exists: true, update: false, wantCalls: []string{"exists", "load"}},
		{name: "present with update appends", exists: true, update: true, wantCalls: []string{"exists", "load", "update"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{exists: tt.exists}
			m, err := NewIndexManager(store, nil)
			require.NoError(t, err)

			err = m.LoadOrCreate(context.Background(), "kb", testChunks(), tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, store.calls)
		})
	}
}

func TestIndexManager_EmptyLocation(t *testing.T) {
	m, err := NewIndexManager(&fakeStore{}, nil)
	require.NoError(t, err)
	assert.Error(t, m.LoadOrCreate(context.Background(), "", nil, false))
}

func TestNewStore_UnknownKind(t *testing.T) {
	_, err := NewStore(context.Background(), "sqlite", nil, testEmbedder(), nil)
	assert.ErrorIs(t, err, ErrUnknownStoreKind)
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "data_my_kb", collectionName("data/my-kb"))
	assert.Equal(t, "kb_1st", collectionName("1st"))
	assert.Equal(t, "kb_", collectionName("  "))
}
