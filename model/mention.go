package model

import (
	"fmt"
	"log/slog"
	"strings"
)

// NoGoldID marks a mention without a ground-truth coreference chain.
// Annotated chains are numbered from 1.
const NoGoldID = 0

// Token is a single word of a sentence with its part-of-speech tag
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

func (t Token) String() string {
	return t.Text
}

// MentionContext holds the surface and syntactic facts of one mention.
// It is produced by the upstream pipeline and treated as read-only afterwards.
type MentionContext struct {
	SentenceIndex int     `json:"sentence_index"`
	Span          Span    `json:"span"`
	HeadTag       string  `json:"head_tag"`
	Tokens        []Token `json:"tokens"`
	HeadIndex     int     `json:"head_index"`
	PreviousToken *Token  `json:"previous_token,omitempty"`
	NextToken     *Token  `json:"next_token,omitempty"`
	// GoldID is the annotated coreference chain, only read in training.
	GoldID int    `json:"gold_id"`
	NEType string `json:"ne_type,omitempty"`
}

// Validate checks that the mention is internally consistent
func (m *MentionContext) Validate() error {
	switch {
	case m.HeadTag == "":
		return fmt.Errorf("%w: missing head tag", ErrInvalidMention)
	case m.SentenceIndex < 0:
		return fmt.Errorf("%w: negative sentence index %d", ErrInvalidMention, m.SentenceIndex)
	case !m.Span.Valid():
		return fmt.Errorf("%w: invalid span %s", ErrInvalidMention, m.Span)
	case len(m.Tokens) == 0:
		return fmt.Errorf("%w: no tokens", ErrInvalidMention)
	case len(m.Tokens) != m.Span.Length():
		return fmt.Errorf("%w: span %s covers %d tokens but mention has %d", ErrInvalidMention, m.Span, m.Span.Length(), len(m.Tokens))
	case m.HeadIndex < 0 || m.HeadIndex >= len(m.Tokens):
		return fmt.Errorf("%w: head index %d outside %d tokens", ErrInvalidMention, m.HeadIndex, len(m.Tokens))
	}
	return nil
}

// HeadToken returns the head token of the mention
func (m *MentionContext) HeadToken() Token {
	return m.Tokens[m.HeadIndex]
}

// HeadText returns the lower cased head word
func (m *MentionContext) HeadText() string {
	return strings.ToLower(m.Tokens[m.HeadIndex].Text)
}

// Text returns the mention tokens joined by spaces
func (m *MentionContext) Text() string {
	words := make([]string, len(m.Tokens))
	for i, t := range m.Tokens {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}

// PreviousText returns the text of the previous token or "" if there is none
func (m *MentionContext) PreviousText() string {
	if m.PreviousToken == nil {
		return ""
	}
	return m.PreviousToken.Text
}

// NextText returns the text of the next token or "" if there is none
func (m *MentionContext) NextText() string {
	if m.NextToken == nil {
		return ""
	}
	return m.NextToken.Text
}

func (m MentionContext) String() string {
	return fmt.Sprintf("%q@%d%s", m.Text(), m.SentenceIndex, m.Span)
}

// LogValue defers formatting until a handler actually writes the record
func (m MentionContext) LogValue() slog.Value {
	return slog.StringValue(m.String())
}
