package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIndexStatement(t *testing.T) {
	tests := []struct {
		name      string
		indexType string
		params    map[string]interface{}
		contains  string
		err       string
	}{
		{name: "hnsw defaults", indexType: "hnsw", contains: "hnsw (embedding vector_cosine_ops) WITH (m = 16, ef_construction = 64)"},
		{name: "hnsw params", indexType: "hnsw", params: map[string]interface{}{"m": 32, "ef_construction": 128}, contains: "WITH (m = 32, ef_construction = 128)"},
		{name: "hnsw ignores wrong types", indexType: "hnsw", params: map[string]interface{}{"m": "32"}, contains: "m = 16"},
		{name: "ivfflat defaults", indexType: "ivfflat", contains: "ivfflat (embedding vector_cosine_ops) WITH (lists = 100)"},
		{name: "ivfflat params", indexType: "ivfflat", params: map[string]interface{}{"lists": 200}, contains: "WITH (lists = 200)"},
		{name: "unsupported", indexType: "invalid", err: "unsupported index type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := entityIndexStatement(tt.indexType, tt.params)
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, statement, "CREATE INDEX idx_discourse_entities_embedding ON discourse_entities")
			assert.Contains(t, statement, tt.contains)
		})
	}
}

func TestChangeIndexType(t *testing.T) {
	database := initDB(t)

	_, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, testDimension, true)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("Change index to IVFFlat", func(t *testing.T) {
		err := entitiesDbHandler.ChangeIndexType(ctx, "ivfflat", map[string]interface{}{"lists": 10})
		assert.NoError(t, err)
	})

	t.Run("Change index to HNSW with custom params", func(t *testing.T) {
		err := entitiesDbHandler.ChangeIndexType(ctx, "hnsw", map[string]interface{}{"m": 32, "ef_construction": 128})
		assert.NoError(t, err)
	})

	t.Run("Unsupported index type keeps the existing index", func(t *testing.T) {
		err := entitiesDbHandler.ChangeIndexType(ctx, "invalid", nil)
		assert.ErrorContains(t, err, "unsupported index type")

		var count int
		err = database.Instance.QueryRow(`SELECT COUNT(*) FROM pg_indexes WHERE indexname = $1`, entityEmbeddingIndex).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := entitiesDbHandler.ChangeIndexType(cancelled, "hnsw", nil)
		assert.Error(t, err)
	})

	t.Run("Change index back to HNSW defaults", func(t *testing.T) {
		err := entitiesDbHandler.ChangeIndexType(ctx, "hnsw", nil)
		assert.NoError(t, err)
	})
}
