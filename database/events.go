package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
	loadSql "github.com/siherrmann/corefer/sql"
)

// EventsDBHandlerFunctions defines the interface for training event database operations.
type EventsDBHandlerFunctions interface {
	InsertEvent(event *model.TrainingEvent) error
	SelectEvents(modelName string, lastID int64, limit int) ([]*model.TrainingEvent, error)
	CountEvents(modelName string) (map[string]int, error)
	DeleteEvents(modelName string) error
}

// EventsDBHandler stores training events. It is an event sink for resolvers in train mode.
type EventsDBHandler struct {
	db         *helper.Database
	documentID *int64
}

// NewEventsDBHandler creates a new training events database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEventsDBHandler(db *helper.Database, force bool) (*EventsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	eventsDbHandler := &EventsDBHandler{
		db: db,
	}

	err := loadSql.LoadEventsSql(eventsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load events sql", err)
	}

	err = eventsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EventsDBHandler")

	return eventsDbHandler, nil
}

// CreateTable creates the 'training_events' table in the database.
// If the table already exists, it does not create it again.
func (h *EventsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_training_events();`)
	if err != nil {
		return helper.NewError("init training events", err)
	}

	h.db.Logger.Info("Checked/created table training_events")

	return nil
}

// ForDocument returns a handler that attributes emitted events to a document
func (h *EventsDBHandler) ForDocument(documentID int64) *EventsDBHandler {
	return &EventsDBHandler{
		db:         h.db,
		documentID: &documentID,
	}
}

// Emit stores event
func (h *EventsDBHandler) Emit(event model.TrainingEvent) error {
	if event.DocumentID == nil {
		event.DocumentID = h.documentID
	}
	return h.InsertEvent(&event)
}

// InsertEvent inserts a training event
func (h *EventsDBHandler) InsertEvent(event *model.TrainingEvent) error {
	var rid interface{}
	if event.RID != uuid.Nil {
		rid = event.RID
	}
	features := []string(event.Features)
	if features == nil {
		features = []string{}
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_training_event($1, $2, $3, $4, $5)`,
		rid,
		event.DocumentID,
		event.Model,
		event.Label,
		pq.Array(features),
	)

	err := row.Scan(
		&event.ID,
		&event.RID,
		&event.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEvents retrieves the events of a model after lastID in insertion order
func (h *EventsDBHandler) SelectEvents(modelName string, lastID int64, limit int) ([]*model.TrainingEvent, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_training_events($1, $2, $3)`,
		modelName,
		lastID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var events []*model.TrainingEvent
	for rows.Next() {
		event := &model.TrainingEvent{}
		var features []string
		err := rows.Scan(
			&event.ID,
			&event.RID,
			&event.DocumentID,
			&event.Model,
			&event.Label,
			pq.Array(&features),
			&event.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		event.Features = features

		events = append(events, event)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return events, nil
}

// CountEvents returns the number of events per label of a model
func (h *EventsDBHandler) CountEvents(modelName string) (map[string]int, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM count_training_events($1)`,
		modelName,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, helper.NewError("scan", err)
		}
		counts[label] = count
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return counts, nil
}

// DeleteEvents deletes all events of a model
func (h *EventsDBHandler) DeleteEvents(modelName string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_training_events($1)`,
		modelName,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
