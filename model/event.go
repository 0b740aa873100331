package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// LabelLink marks a mention/candidate pair that corefers
	LabelLink = "link"
	// LabelNoLink marks a pair that does not corefer
	LabelNoLink = "no-link"
)

// NonReferentialSuffix is appended to a model name for its non-referential model
const NonReferentialSuffix = ".nr"

// TrainingEvent is one labeled feature set for the classifier trainer
type TrainingEvent struct {
	ID         int64     `json:"id"`
	RID        uuid.UUID `json:"rid"`
	DocumentID *int64    `json:"document_id,omitempty"`
	Model      string    `json:"model"` // model the event trains, e.g. "imodel" or "imodel.nr"
	Label      string    `json:"label"`
	Features   Features  `json:"features"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTrainingEvent creates an event for the given model
func NewTrainingEvent(modelName string, label string, features Features) TrainingEvent {
	return TrainingEvent{
		RID:      uuid.New(),
		Model:    modelName,
		Label:    label,
		Features: features,
	}
}
