package pipeline

import (
	"fmt"

	"github.com/siherrmann/corefer/model"
)

// TokenizeFunc splits text into tagged sentences
type TokenizeFunc func(text string) ([]Sentence, error)

// TagFunc returns one part-of-speech tag per token of the sentence
type TagFunc func(sentence Sentence) ([]string, error)

// MentionFunc finds the mention spans of a sentence
type MentionFunc func(sentence Sentence) ([]MentionSpan, error)

// RecognizeFunc finds named entities in the text of a sentence
type RecognizeFunc func(text string) ([]NamedEntity, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Sentence is a tokenized sentence. Offsets are byte offsets of the tokens into Text.
type Sentence struct {
	Index   int
	Text    string
	Tokens  []model.Token
	Offsets []int
}

// MentionSpan is a mention candidate in token positions of its sentence
type MentionSpan struct {
	Span model.Span
	Head int // absolute token index of the head
}

// NamedEntity is a recognized entity in byte offsets [Start, End) of a sentence text
type NamedEntity struct {
	Type  string
	Word  string
	Start int
	End   int
	Score float32
}

// Pipeline turns raw text into the ordered mentions of a document
type Pipeline struct {
	Tokenizer  TokenizeFunc
	Detector   MentionFunc
	Recognizer RecognizeFunc // Optional
	Embedder   EmbedFunc     // Optional
}

// NewPipeline creates a new processing pipeline
func NewPipeline(tokenizer TokenizeFunc, detector MentionFunc) *Pipeline {
	return &Pipeline{
		Tokenizer: tokenizer,
		Detector:  detector,
	}
}

// SetRecognizer sets the named entity recognizer used to type mentions
func (p *Pipeline) SetRecognizer(recognizer RecognizeFunc) {
	p.Recognizer = recognizer
}

// SetEmbedder sets the embedding function
func (p *Pipeline) SetEmbedder(embedder EmbedFunc) {
	p.Embedder = embedder
}

// ProcessingResult contains the sentences and mentions of a text
type ProcessingResult struct {
	Sentences []Sentence
	Mentions  []model.MentionContext
}

// Process returns the mentions of text in document order
func (p *Pipeline) Process(text string) ([]model.MentionContext, error) {
	result, err := p.ProcessWithSentences(text)
	if err != nil {
		return nil, err
	}
	return result.Mentions, nil
}

// ProcessWithSentences returns the mentions of text together with its sentences
func (p *Pipeline) ProcessWithSentences(text string) (*ProcessingResult, error) {
	sentences, err := p.Tokenizer(text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize: %w", err)
	}

	var mentions []model.MentionContext
	for _, s := range sentences {
		spans, err := p.Detector(s)
		if err != nil {
			return nil, fmt.Errorf("failed to detect mentions in sentence %d: %w", s.Index, err)
		}

		var entities []NamedEntity
		if p.Recognizer != nil && len(spans) > 0 {
			entities, err = p.Recognizer(s.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to recognize entities in sentence %d: %w", s.Index, err)
			}
		}

		for _, ms := range spans {
			m, err := s.Mention(ms)
			if err != nil {
				return nil, err
			}
			m.NEType = entityTypeAt(entities, s.Offsets[ms.Head])
			mentions = append(mentions, m)
		}
	}

	return &ProcessingResult{
		Sentences: sentences,
		Mentions:  mentions,
	}, nil
}

// Mention builds the mention context of a span of the sentence
func (s Sentence) Mention(ms MentionSpan) (model.MentionContext, error) {
	if !ms.Span.Valid() || ms.Span.End > len(s.Tokens) || !ms.Span.Contains(ms.Head) {
		return model.MentionContext{}, fmt.Errorf("%w: span %s with head %d outside sentence %d", model.ErrInvalidMention, ms.Span, ms.Head, s.Index)
	}

	m := model.MentionContext{
		SentenceIndex: s.Index,
		Span:          ms.Span,
		HeadTag:       s.Tokens[ms.Head].Tag,
		Tokens:        append([]model.Token(nil), s.Tokens[ms.Span.Start:ms.Span.End]...),
		HeadIndex:     ms.Head - ms.Span.Start,
	}
	if ms.Span.Start > 0 {
		prev := s.Tokens[ms.Span.Start-1]
		m.PreviousToken = &prev
	}
	if ms.Span.End < len(s.Tokens) {
		next := s.Tokens[ms.Span.End]
		m.NextToken = &next
	}
	return m, nil
}

func entityTypeAt(entities []NamedEntity, offset int) string {
	for _, e := range entities {
		if offset >= e.Start && offset < e.End {
			return e.Type
		}
	}
	return ""
}
