package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
	loadSql "github.com/siherrmann/corefer/sql"
)

// EntitiesDBHandlerFunctions defines the interface for discourse entity database operations.
type EntitiesDBHandlerFunctions interface {
	InsertEntity(entity *model.EntityRecord) error
	SelectEntity(rid uuid.UUID) (*model.EntityRecord, error)
	SelectEntitiesByDocument(documentRID uuid.UUID) ([]*model.EntityRecord, error)
	SelectEntitiesBySearch(searchTerm string, limit int) ([]*model.EntityRecord, error)
	SelectEntitiesBySimilarity(embedding []float32, limit int, threshold float64, documentRIDs []uuid.UUID) ([]*model.EntityRecord, error)
	UpdateEntityEmbedding(rid uuid.UUID, embedding []float32) error
	DeleteEntity(rid uuid.UUID) error
}

// EntitiesDBHandler handles discourse entity-related database operations
type EntitiesDBHandler struct {
	db *helper.Database
}

// NewEntitiesDBHandler creates a new discourse entities database handler.
// The documents table must exist. embeddingDim is the size of the entity embeddings.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, embeddingDim int, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'discourse_entities' table with its vector index.
// If the table already exists, it does not create it again.
func (h *EntitiesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("init entities", err)
	}

	h.db.Logger.Info("Checked/created table discourse_entities")

	return nil
}

// vector converts an embedding to a query argument, nil for a missing embedding
func vector(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntity(row scanner, entity *model.EntityRecord, extra ...interface{}) error {
	dest := []interface{}{
		&entity.ID,
		&entity.RID,
		&entity.DocumentID,
		&entity.DocumentRID,
		&entity.EntityIndex,
		&entity.Name,
		&entity.NEType,
		&entity.MentionCount,
		pq.Array(&entity.Embedding),
		&entity.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// InsertEntity inserts a new discourse entity. A zero RID is generated by the database.
func (h *EntitiesDBHandler) InsertEntity(entity *model.EntityRecord) error {
	var rid interface{}
	if entity.RID != uuid.Nil {
		rid = entity.RID
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_entity($1, $2, $3, $4, $5, $6, $7)`,
		rid,
		entity.DocumentID,
		entity.EntityIndex,
		entity.Name,
		entity.NEType,
		entity.MentionCount,
		vector(entity.Embedding),
	)

	err := scanEntity(row, entity)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEntity retrieves a discourse entity by RID
func (h *EntitiesDBHandler) SelectEntity(rid uuid.UUID) (*model.EntityRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entity($1)`,
		rid,
	)

	entity := &model.EntityRecord{}
	err := scanEntity(row, entity)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// SelectEntitiesByDocument retrieves the entities of a document ordered by their store handle
func (h *EntitiesDBHandler) SelectEntitiesByDocument(documentRID uuid.UUID) ([]*model.EntityRecord, error) {
	return h.selectEntities(`SELECT * FROM select_entities_by_document($1)`, false, documentRID)
}

// SelectEntitiesBySearch searches entities by name
func (h *EntitiesDBHandler) SelectEntitiesBySearch(searchTerm string, limit int) ([]*model.EntityRecord, error) {
	return h.selectEntities(`SELECT * FROM search_entities($1, $2)`, false, searchTerm, limit)
}

// SelectEntitiesBySimilarity retrieves the entities closest to embedding by cosine similarity.
// Only entities with a similarity of at least threshold are returned.
// An empty documentRIDs searches all documents.
func (h *EntitiesDBHandler) SelectEntitiesBySimilarity(embedding []float32, limit int, threshold float64, documentRIDs []uuid.UUID) ([]*model.EntityRecord, error) {
	if len(embedding) == 0 {
		return nil, helper.NewError("embedding validation", fmt.Errorf("embedding is empty"))
	}

	rids := make([]string, len(documentRIDs))
	for i, rid := range documentRIDs {
		rids[i] = rid.String()
	}

	return h.selectEntities(
		`SELECT * FROM select_entities_by_similarity($1, $2, $3, $4::uuid[])`,
		true,
		pgvector.NewVector(embedding),
		limit,
		threshold,
		pq.Array(rids),
	)
}

func (h *EntitiesDBHandler) selectEntities(query string, withSimilarity bool, args ...interface{}) ([]*model.EntityRecord, error) {
	rows, err := h.db.Instance.Query(query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []*model.EntityRecord
	for rows.Next() {
		entity := &model.EntityRecord{}
		if withSimilarity {
			err = scanEntity(rows, entity, &entity.Similarity)
		} else {
			err = scanEntity(rows, entity)
		}
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

// UpdateEntityEmbedding sets the embedding of an entity
func (h *EntitiesDBHandler) UpdateEntityEmbedding(rid uuid.UUID, embedding []float32) error {
	_, err := h.db.Instance.Exec(
		`SELECT update_entity_embedding($1, $2)`,
		rid,
		vector(embedding),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteEntity deletes a discourse entity by RID
func (h *EntitiesDBHandler) DeleteEntity(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entity($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
