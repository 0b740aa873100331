package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
	loadSql "github.com/siherrmann/corefer/sql"
)

// MentionsDBHandlerFunctions defines the interface for mention database operations.
type MentionsDBHandlerFunctions interface {
	InsertMention(mention *model.MentionRecord) error
	SelectMentionsByDocument(documentRID uuid.UUID) ([]*model.MentionRecord, error)
	SelectMentionsByEntity(entityRID uuid.UUID) ([]*model.MentionRecord, error)
	DeleteMentionsByDocument(documentRID uuid.UUID) error
	SelectDocumentSummary(documentRID uuid.UUID) (*model.DocumentSummary, error)
}

// MentionsDBHandler handles mention-related database operations
type MentionsDBHandler struct {
	db *helper.Database
}

// NewMentionsDBHandler creates a new mentions database handler.
// The documents and discourse_entities tables must exist.
// If force is true, it will reload the SQL functions even if they already exist.
func NewMentionsDBHandler(db *helper.Database, force bool) (*MentionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	mentionsDbHandler := &MentionsDBHandler{
		db: db,
	}

	err := loadSql.LoadMentionsSql(mentionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load mentions sql", err)
	}

	err = mentionsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized MentionsDBHandler")

	return mentionsDbHandler, nil
}

// CreateTable creates the 'mentions' table in the database.
// If the table already exists, it does not create it again.
func (h *MentionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_mentions();`)
	if err != nil {
		return helper.NewError("init mentions", err)
	}

	h.db.Logger.Info("Checked/created table mentions")

	return nil
}

// InsertMention inserts a processed mention
func (h *MentionsDBHandler) InsertMention(mention *model.MentionRecord) error {
	contextJSON, err := json.Marshal(mention.Mention)
	if err != nil {
		return helper.NewError("marshaling mention", err)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_mention($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		mention.DocumentID,
		mention.EntityID,
		mention.Mention.SentenceIndex,
		mention.Mention.Span.Start,
		mention.Mention.Span.End,
		mention.Mention.HeadTag,
		contextJSON,
		string(mention.Status),
		mention.Resolver,
		mention.Probability,
	)

	err = row.Scan(
		&mention.ID,
		&mention.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectMentionsByDocument retrieves the mentions of a document in document order
func (h *MentionsDBHandler) SelectMentionsByDocument(documentRID uuid.UUID) ([]*model.MentionRecord, error) {
	return h.selectMentions(`SELECT * FROM select_mentions_by_document($1)`, documentRID)
}

// SelectMentionsByEntity retrieves the mentions of an entity in document order
func (h *MentionsDBHandler) SelectMentionsByEntity(entityRID uuid.UUID) ([]*model.MentionRecord, error) {
	return h.selectMentions(`SELECT * FROM select_mentions_by_entity($1)`, entityRID)
}

func (h *MentionsDBHandler) selectMentions(query string, rid uuid.UUID) ([]*model.MentionRecord, error) {
	rows, err := h.db.Instance.Query(query, rid)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var mentions []*model.MentionRecord
	for rows.Next() {
		mention := &model.MentionRecord{}

		var contextJSON []byte
		var status string
		err := rows.Scan(
			&mention.ID,
			&mention.DocumentID,
			&mention.EntityID,
			&mention.EntityRID,
			&contextJSON,
			&status,
			&mention.Resolver,
			&mention.Probability,
			&mention.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		if err := json.Unmarshal(contextJSON, &mention.Mention); err != nil {
			return nil, helper.NewError("unmarshaling mention", err)
		}
		mention.Status = model.Status(status)

		mentions = append(mentions, mention)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return mentions, nil
}

// DeleteMentionsByDocument deletes all mentions of a document
func (h *MentionsDBHandler) DeleteMentionsByDocument(documentRID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_mentions_by_document($1)`,
		documentRID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectDocumentSummary counts the entities and mention outcomes of a document
func (h *MentionsDBHandler) SelectDocumentSummary(documentRID uuid.UUID) (*model.DocumentSummary, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document_summary($1)`,
		documentRID,
	)

	summary := &model.DocumentSummary{}
	err := row.Scan(
		&summary.DocumentRID,
		&summary.Entities,
		&summary.Chains,
		&summary.Mentions,
		&summary.Resolved,
		&summary.Unresolved,
		&summary.NonReferential,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return summary, nil
}
