package model

import (
	"github.com/google/uuid"
)

// EntityID is a stable handle of a DiscourseEntity inside its store
type EntityID int

// NoEntity is the handle returned when no entity is involved
const NoEntity EntityID = -1

// DiscourseEntity is the set of mentions judged coreferent so far
type DiscourseEntity struct {
	ID      EntityID  `json:"id"`
	RID     uuid.UUID `json:"rid"`
	extents []MentionContext
}

// LastExtent returns the most recently added mention
func (e *DiscourseEntity) LastExtent() *MentionContext {
	return &e.extents[len(e.extents)-1]
}

// FirstExtent returns the mention that created the entity
func (e *DiscourseEntity) FirstExtent() *MentionContext {
	return &e.extents[0]
}

// Extents returns a copy of the mentions in the order they were added
func (e *DiscourseEntity) Extents() []MentionContext {
	out := make([]MentionContext, len(e.extents))
	copy(out, e.extents)
	return out
}

// Len returns the number of mentions of the entity
func (e *DiscourseEntity) Len() int {
	return len(e.extents)
}

// HasExtent reports whether any mention of the entity satisfies match
func (e *DiscourseEntity) HasExtent(match func(m *MentionContext) bool) bool {
	for i := range e.extents {
		if match(&e.extents[i]) {
			return true
		}
	}
	return false
}
