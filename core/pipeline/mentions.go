package pipeline

import (
	"strings"

	"github.com/siherrmann/corefer/model"
)

// nounPhraseTags are the tags that may appear inside a base noun phrase
var nounPhraseTags = map[string]bool{
	"DT": true, "PDT": true, "PRP$": true, "CD": true, "JJ": true, "JJR": true, "JJS": true,
	"NN": true, "NNS": true, "NNP": true, "NNPS": true, "POS": true,
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

// NounPhraseDetector creates a mention detector that marks every personal
// pronoun and every maximal base noun phrase. The head of a noun phrase is its
// last noun; a possessive ends the phrase it belongs to.
func NounPhraseDetector() MentionFunc {
	return func(sentence Sentence) ([]MentionSpan, error) {
		var spans []MentionSpan
		tokens := sentence.Tokens

		for i := 0; i < len(tokens); {
			tag := tokens[i].Tag
			if tag == "PRP" {
				spans = append(spans, MentionSpan{Span: model.NewSpan(i, i+1), Head: i})
				i++
				continue
			}
			if !nounPhraseTags[tag] || tag == "POS" {
				i++
				continue
			}

			start, head := i, -1
			for ; i < len(tokens) && nounPhraseTags[tokens[i].Tag]; i++ {
				if tokens[i].Tag == "POS" {
					break
				}
				if isNoun(tokens[i].Tag) {
					head = i
				}
			}
			if head >= 0 {
				spans = append(spans, MentionSpan{Span: model.NewSpan(start, head+1), Head: head})
			}
			if i < len(tokens) && tokens[i].Tag == "POS" {
				i++
			}
		}

		return spans, nil
	}
}
