package model

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// DiscourseEntityStore is the ordered arena of entities of one document.
// Entities are only ever appended, so handles stay valid for the
// lifetime of the store.
type DiscourseEntityStore struct {
	entities []*DiscourseEntity
	chains   map[int]EntityID
}

// NewDiscourseEntityStore creates an empty store
func NewDiscourseEntityStore() *DiscourseEntityStore {
	return &DiscourseEntityStore{
		chains: make(map[int]EntityID),
	}
}

// Len returns the number of entities
func (s *DiscourseEntityStore) Len() int {
	return len(s.entities)
}

// Create adds a new entity holding only m and returns its handle
func (s *DiscourseEntityStore) Create(m MentionContext) EntityID {
	id := EntityID(len(s.entities))
	s.entities = append(s.entities, &DiscourseEntity{
		ID:      id,
		RID:     uuid.New(),
		extents: []MentionContext{m},
	})
	s.index(id, m)
	return id
}

// Append adds m as the new last extent of the entity id
func (s *DiscourseEntityStore) Append(id EntityID, m MentionContext) error {
	e, err := s.Entity(id)
	if err != nil {
		return err
	}
	e.extents = append(e.extents, m)
	s.index(id, m)
	return nil
}

// Entity returns the entity with handle id
func (s *DiscourseEntityStore) Entity(id EntityID) (*DiscourseEntity, error) {
	if id < 0 || int(id) >= len(s.entities) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return s.entities[id], nil
}

// Entities returns all entities in creation order
func (s *DiscourseEntityStore) Entities() []*DiscourseEntity {
	out := make([]*DiscourseEntity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Candidates yields at most window entities, newest first
func (s *DiscourseEntityStore) Candidates(window int) iter.Seq[*DiscourseEntity] {
	return func(yield func(*DiscourseEntity) bool) {
		last := len(s.entities) - 1
		for i := last; i >= 0 && last-i < window; i-- {
			if !yield(s.entities[i]) {
				return
			}
		}
	}
}

// ChainEntity returns the entity holding a mention of the given gold chain.
// It is used by training only.
func (s *DiscourseEntityStore) ChainEntity(goldID int) (EntityID, bool) {
	if goldID == NoGoldID {
		return NoEntity, false
	}
	id, ok := s.chains[goldID]
	return id, ok
}

func (s *DiscourseEntityStore) index(id EntityID, m MentionContext) {
	if m.GoldID == NoGoldID {
		return
	}
	if _, ok := s.chains[m.GoldID]; !ok {
		s.chains[m.GoldID] = id
	}
}
