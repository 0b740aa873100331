package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityRecord is a discourse entity of a resolved document as stored in the database
type EntityRecord struct {
	ID           int64     `json:"id"`
	RID          uuid.UUID `json:"rid"`
	DocumentID   int64     `json:"document_id"`
	DocumentRID  uuid.UUID `json:"document_rid"`
	EntityIndex  int       `json:"entity_index"` // handle of the entity in its document store
	Name         string    `json:"name"`
	NEType       string    `json:"ne_type,omitempty"`
	MentionCount int       `json:"mention_count"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	// Similarity is only set by similarity searches
	Similarity float64 `json:"similarity,omitempty"`
}

// NewEntityRecord creates the record of an entity of a document.
// The name is the first proper name mention, or the first mention otherwise.
func NewEntityRecord(documentID int64, e *DiscourseEntity) *EntityRecord {
	r := &EntityRecord{
		RID:          e.RID,
		DocumentID:   documentID,
		EntityIndex:  int(e.ID),
		Name:         e.FirstExtent().Text(),
		MentionCount: e.Len(),
	}

	named := false
	for _, m := range e.extents {
		if !named && strings.HasPrefix(m.HeadTag, "NNP") {
			r.Name = m.Text()
			named = true
		}
		if r.NEType == "" && m.NEType != "" {
			r.NEType = m.NEType
		}
	}
	return r
}

// MentionRecord is a processed mention as stored in the database
type MentionRecord struct {
	ID          int64          `json:"id"`
	DocumentID  int64          `json:"document_id"`
	EntityID    *int64         `json:"entity_id,omitempty"`
	EntityRID   *uuid.UUID     `json:"entity_rid,omitempty"`
	Mention     MentionContext `json:"mention"`
	Status      Status         `json:"status"`
	Resolver    string         `json:"resolver,omitempty"`
	Probability float64        `json:"probability"`
	CreatedAt   time.Time      `json:"created_at"`
}

// DocumentSummary counts the resolution results of a stored document
type DocumentSummary struct {
	DocumentRID    uuid.UUID `json:"document_rid"`
	Entities       int       `json:"entities"`
	Chains         int       `json:"chains"` // entities with more than one mention
	Mentions       int       `json:"mentions"`
	Resolved       int       `json:"resolved"`
	Unresolved     int       `json:"unresolved"`
	NonReferential int       `json:"non_referential"`
}
