package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/corefer/helper"
)

const entityEmbeddingIndex = "idx_discourse_entities_embedding"

// ChangeIndexType rebuilds the entity embedding index as "hnsw" or "ivfflat".
// Supported params are "m" and "ef_construction" for hnsw (defaults 16 and 64)
// and "lists" for ivfflat (default 100).
func (h *EntitiesDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	createIndexSQL, err := entityIndexStatement(indexType, params)
	if err != nil {
		return helper.NewError("change index type", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DROP INDEX IF EXISTS `+entityEmbeddingIndex+`;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = tx.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Created %s index with params: %v", indexType, params))

	return nil
}

func entityIndexStatement(indexType string, params map[string]interface{}) (string, error) {
	switch indexType {
	case "hnsw":
		m := 16
		efConstruction := 64
		if v, ok := params["m"].(int); ok {
			m = v
		}
		if v, ok := params["ef_construction"].(int); ok {
			efConstruction = v
		}
		return fmt.Sprintf(
			`CREATE INDEX %s ON discourse_entities USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			entityEmbeddingIndex, m, efConstruction,
		), nil
	case "ivfflat":
		lists := 100
		if v, ok := params["lists"].(int); ok {
			lists = v
		}
		return fmt.Sprintf(
			`CREATE INDEX %s ON discourse_entities USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			entityEmbeddingIndex, lists,
		), nil
	default:
		return "", fmt.Errorf("unsupported index type: %s (use 'hnsw' or 'ivfflat')", indexType)
	}
}
