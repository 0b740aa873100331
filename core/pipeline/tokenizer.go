package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siherrmann/corefer/model"
)

// tokenPattern matches abbreviations with their period, words, clitics, double dashes and single punctuation
var tokenPattern = regexp.MustCompile(`(?i:mr|mrs|ms|dr|prof|inc|corp|ltd|co|jr|sr|st|vs)\.|[\p{L}\p{N}]+(?:[-.][\p{L}\p{N}]+)*|['’]\p{L}+|--|[^\s\p{L}\p{N}]`)

// sentenceEnd holds the tokens that close a sentence
var sentenceEnd = map[string]bool{".": true, "!": true, "?": true}

// SentenceTokenizer creates a tokenizer that splits text into sentences at
// terminal punctuation and tags every sentence with tag.
// A nil tag uses LexiconTagger.
func SentenceTokenizer(tag TagFunc) TokenizeFunc {
	if tag == nil {
		tag = LexiconTagger()
	}

	return func(text string) ([]Sentence, error) {
		if strings.TrimSpace(text) == "" {
			return []Sentence{}, nil
		}

		var sentences []Sentence
		matches := tokenPattern.FindAllStringIndex(text, -1)
		begin := 0
		for i, loc := range matches {
			last := i == len(matches)-1
			if !last && !sentenceEnd[text[loc[0]:loc[1]]] {
				continue
			}
			// keep closing quotes and brackets with the sentence
			end := i + 1
			for end < len(matches) && isCloser(text[matches[end][0]:matches[end][1]]) {
				end++
			}
			if end <= begin {
				continue
			}

			s, err := newSentence(len(sentences), text, matches[begin:end], tag)
			if err != nil {
				return nil, err
			}
			sentences = append(sentences, s)
			begin = end
		}

		return sentences, nil
	}
}

func newSentence(index int, text string, matches [][]int, tag TagFunc) (Sentence, error) {
	start, end := matches[0][0], matches[len(matches)-1][1]
	s := Sentence{
		Index:   index,
		Text:    text[start:end],
		Tokens:  make([]model.Token, len(matches)),
		Offsets: make([]int, len(matches)),
	}
	for i, loc := range matches {
		s.Tokens[i] = model.Token{Text: text[loc[0]:loc[1]]}
		s.Offsets[i] = loc[0] - start
	}

	tags, err := tag(s)
	if err != nil {
		return Sentence{}, fmt.Errorf("failed to tag sentence %d: %w", index, err)
	}
	if len(tags) != len(s.Tokens) {
		return Sentence{}, fmt.Errorf("tagger returned %d tags for %d tokens", len(tags), len(s.Tokens))
	}
	for i := range s.Tokens {
		s.Tokens[i].Tag = tags[i]
	}
	return s, nil
}

func isCloser(token string) bool {
	switch token {
	case "\"", "'", "”", "’", ")", "]":
		return true
	}
	return false
}
