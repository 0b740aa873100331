package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mentionAt(sentence, start int, text string, goldID int) MentionContext {
	return MentionContext{
		SentenceIndex: sentence,
		Span:          NewSpan(start, start+1),
		HeadTag:       "NN",
		Tokens:        []Token{{Text: text, Tag: "NN"}},
		GoldID:        goldID,
	}
}

func TestDiscourseEntityStore(t *testing.T) {
	t.Run("Create assigns stable increasing handles", func(t *testing.T) {
		store := NewDiscourseEntityStore()

		first := store.Create(mentionAt(0, 0, "company", NoGoldID))
		second := store.Create(mentionAt(0, 2, "man", NoGoldID))

		assert.Equal(t, EntityID(0), first)
		assert.Equal(t, EntityID(1), second)
		assert.Equal(t, 2, store.Len())

		e, err := store.Entity(first)
		require.NoError(t, err)
		assert.Equal(t, first, e.ID)
		assert.NotEmpty(t, e.RID)
	})

	t.Run("Append updates last extent without moving the entity", func(t *testing.T) {
		store := NewDiscourseEntityStore()
		id := store.Create(mentionAt(0, 0, "Apple", NoGoldID))
		store.Create(mentionAt(0, 3, "Cook", NoGoldID))

		require.NoError(t, store.Append(id, mentionAt(1, 8, "company", NoGoldID)))

		e, err := store.Entity(id)
		require.NoError(t, err)
		assert.Equal(t, 2, e.Len())
		assert.Equal(t, "company", e.LastExtent().HeadText())
		assert.Equal(t, "apple", e.FirstExtent().HeadText())
		assert.Equal(t, id, store.Entities()[0].ID, "Entity position must not change after append")
	})

	t.Run("Unknown handles are rejected", func(t *testing.T) {
		store := NewDiscourseEntityStore()

		_, err := store.Entity(3)
		assert.ErrorIs(t, err, ErrUnknownEntity)
		assert.ErrorIs(t, store.Append(NoEntity, mentionAt(0, 0, "x", NoGoldID)), ErrUnknownEntity)
	})

	t.Run("Candidates are newest first and bounded by window", func(t *testing.T) {
		store := NewDiscourseEntityStore()
		for i := 0; i < 5; i++ {
			store.Create(mentionAt(0, i, "w", NoGoldID))
		}

		var ids []EntityID
		for e := range store.Candidates(3) {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []EntityID{4, 3, 2}, ids)

		ids = nil
		for e := range store.Candidates(10) {
			ids = append(ids, e.ID)
		}
		assert.Len(t, ids, 5)
	})

	t.Run("Chain lookup follows the first entity of a gold chain", func(t *testing.T) {
		store := NewDiscourseEntityStore()
		store.Create(mentionAt(0, 0, "a", NoGoldID))
		id := store.Create(mentionAt(0, 1, "b", 7))

		found, ok := store.ChainEntity(7)
		assert.True(t, ok)
		assert.Equal(t, id, found)

		_, ok = store.ChainEntity(NoGoldID)
		assert.False(t, ok)
		_, ok = store.ChainEntity(8)
		assert.False(t, ok)
	})

	t.Run("HasExtent matches any mention", func(t *testing.T) {
		store := NewDiscourseEntityStore()
		id := store.Create(mentionAt(0, 0, "Apple", NoGoldID))
		e, _ := store.Entity(id)

		assert.True(t, e.HasExtent(func(m *MentionContext) bool { return m.HeadText() == "apple" }))
		assert.False(t, e.HasExtent(func(m *MentionContext) bool { return m.HeadTag == "PRP" }))
	})
}

func TestFeatureSet(t *testing.T) {
	s := NewFeatureSet()
	s.Add("default", "sd=0", "default")
	s.AddPrefixed("l", "pw=,", "pt=,")

	features := s.Features()
	assert.Equal(t, Features{"default", "lpt=,", "lpw=,", "sd=0"}, features)
	assert.Equal(t, 4, s.Len())
	assert.True(t, features.Contains("lpw=,"))
	assert.False(t, features.Contains("rpw=,"))
}
