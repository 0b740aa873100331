package resolver

import (
	"errors"
	"sync"

	"github.com/siherrmann/corefer/model"
)

var (
	// ErrPolicyViolation is returned when a policy or feature extractor fails on input it should handle
	ErrPolicyViolation = errors.New("policy violation")
	// ErrWrongMode is returned when an entry point is called on a resolver built for the other mode
	ErrWrongMode = errors.New("wrong resolver mode")
)

// Policy decides which mention/candidate pairs are scored.
// All methods must be pure functions of their arguments.
type Policy interface {
	// CanResolve is checked once per mention before any candidate search
	CanResolve(mention *model.MentionContext) bool
	// OutOfRange stops the backward scan at entity
	OutOfRange(mention *model.MentionContext, entity *model.DiscourseEntity) bool
	// Excluded skips entity and continues the scan
	Excluded(mention *model.MentionContext, entity *model.DiscourseEntity) bool
	// DifferentCriteria reports whether entity may always be used as a negative training example
	DifferentCriteria(entity *model.DiscourseEntity) bool
}

// FeatureExtractor turns a mention and an optional candidate into features.
// A nil entity yields the base features only.
type FeatureExtractor interface {
	Features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error)
}

// NonReferentialResolver estimates the probability that a mention has no antecedent
type NonReferentialResolver interface {
	NonReferentialProbability(mention *model.MentionContext) (float64, error)
}

// EventSink receives labeled training events
type EventSink interface {
	Emit(event model.TrainingEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface
type EventSinkFunc func(event model.TrainingEvent) error

// Emit calls f
func (f EventSinkFunc) Emit(event model.TrainingEvent) error {
	return f(event)
}

// EventCollector keeps emitted events in memory
type EventCollector struct {
	mu     sync.Mutex
	events []model.TrainingEvent
}

// Emit appends event
func (c *EventCollector) Emit(event model.TrainingEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

// Events returns the collected events, optionally filtered by model name
func (c *EventCollector) Events(modelName string) []model.TrainingEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.TrainingEvent
	for _, e := range c.events {
		if modelName == "" || e.Model == modelName {
			out = append(out, e)
		}
	}
	return out
}
