package resolver

import (
	"strings"

	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/model"
)

// sentence is a tagged sentence written as "word/TAG word/TAG ..."
type sentence []model.Token

func parse(tagged string) sentence {
	var s sentence
	for _, wt := range strings.Fields(tagged) {
		i := strings.LastIndex(wt, "/")
		s = append(s, model.Token{Text: wt[:i], Tag: wt[i+1:]})
	}
	return s
}

// mention cuts [start,end) out of the sentence with the head at the last token
func (s sentence) mention(index, start, end int) model.MentionContext {
	m := model.MentionContext{
		SentenceIndex: index,
		Span:          model.NewSpan(start, end),
		Tokens:        append([]model.Token(nil), s[start:end]...),
		HeadIndex:     end - start - 1,
	}
	m.HeadTag = m.Tokens[m.HeadIndex].Tag
	if start > 0 {
		prev := s[start-1]
		m.PreviousToken = &prev
	}
	if end < len(s) {
		next := s[end]
		m.NextToken = &next
	}
	return m
}

// mentionAt builds a mention with filler tokens for span arithmetic tests
func mentionAt(index, start, end int, headTag string) model.MentionContext {
	tokens := make([]model.Token, end-start)
	for i := range tokens {
		tokens[i] = model.Token{Text: "w", Tag: headTag}
	}
	return model.MentionContext{
		SentenceIndex: index,
		Span:          model.NewSpan(start, end),
		HeadTag:       headTag,
		Tokens:        tokens,
		HeadIndex:     len(tokens) - 1,
	}
}

func entityOf(mentions ...model.MentionContext) *model.DiscourseEntity {
	store := model.NewDiscourseEntityStore()
	id := store.Create(mentions[0])
	for _, m := range mentions[1:] {
		_ = store.Append(id, m)
	}
	e, _ := store.Entity(id)
	return e
}

// constant returns the same link probability for every pair
func constant(p float64) classifier.Func {
	return func(model.Features) (classifier.Distribution, error) {
		return classifier.Distribution{model.LabelLink: p, model.LabelNoLink: 1 - p}, nil
	}
}

// counting wraps a classifier and counts its calls
type counting struct {
	classifier.Classifier
	calls int
}

func (c *counting) Eval(f model.Features) (classifier.Distribution, error) {
	c.calls++
	return c.Classifier.Eval(f)
}

// classifierFunc scores the link probability of a feature set
type classifierFunc func(model.Features) float64

func (c classifierFunc) Eval(f model.Features) (classifier.Distribution, error) {
	p := c(f)
	return classifier.Distribution{model.LabelLink: p, model.LabelNoLink: 1 - p}, nil
}
