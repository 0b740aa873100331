package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEntityRecord(t *testing.T) {
	the := Token{Text: "the", Tag: "DT"}
	company := Token{Text: "company", Tag: "NN"}
	acme := Token{Text: "Acme", Tag: "NNP"}

	store := NewDiscourseEntityStore()
	id := store.Create(MentionContext{Span: NewSpan(0, 2), HeadTag: "NN", Tokens: []Token{the, company}, HeadIndex: 1})

	e, err := store.Entity(id)
	assert.NoError(t, err)
	r := NewEntityRecord(7, e)
	assert.Equal(t, "the company", r.Name)
	assert.Equal(t, "", r.NEType)
	assert.Equal(t, 1, r.MentionCount)
	assert.Equal(t, e.RID, r.RID)
	assert.Equal(t, int64(7), r.DocumentID)

	assert.NoError(t, store.Append(id, MentionContext{SentenceIndex: 1, Span: NewSpan(0, 1), HeadTag: "NNP", Tokens: []Token{acme}, NEType: "ORG"}))
	r = NewEntityRecord(7, e)
	assert.Equal(t, "Acme", r.Name)
	assert.Equal(t, "ORG", r.NEType)
	assert.Equal(t, 2, r.MentionCount)
	assert.Equal(t, int(id), r.EntityIndex)
}
