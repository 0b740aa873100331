package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/corefer/helper"
)

// closedClass maps function words to their Penn Treebank tags
var closedClass = map[string]string{
	"the": "DT", "a": "DT", "an": "DT", "this": "DT", "that": "DT", "these": "DT", "those": "DT",
	"each": "DT", "every": "DT", "some": "DT", "any": "DT", "no": "DT", "all": "PDT", "both": "PDT",
	"i": "PRP", "you": "PRP", "he": "PRP", "she": "PRP", "it": "PRP", "we": "PRP", "they": "PRP",
	"me": "PRP", "him": "PRP", "her": "PRP", "us": "PRP", "them": "PRP",
	"himself": "PRP", "herself": "PRP", "itself": "PRP", "themselves": "PRP",
	"my": "PRP$", "your": "PRP$", "his": "PRP$", "its": "PRP$", "our": "PRP$", "their": "PRP$", "hers": "PRP",
	"of": "IN", "in": "IN", "on": "IN", "at": "IN", "by": "IN", "for": "IN", "with": "IN", "from": "IN",
	"about": "IN", "into": "IN", "over": "IN", "after": "IN", "before": "IN", "under": "IN",
	"between": "IN", "through": "IN", "during": "IN", "without": "IN", "as": "IN", "because": "IN",
	"if": "IN", "while": "IN", "than": "IN",
	"to": "TO", "and": "CC", "or": "CC", "but": "CC", "nor": "CC",
	"is": "VBZ", "are": "VBP", "was": "VBD", "were": "VBD", "be": "VB", "been": "VBN", "being": "VBG",
	"has": "VBZ", "have": "VBP", "had": "VBD", "does": "VBZ", "do": "VBP", "did": "VBD",
	"said": "VBD", "says": "VBZ", "met": "VBD", "made": "VBD", "took": "VBD", "became": "VBD",
	"will": "MD", "would": "MD", "can": "MD", "could": "MD", "should": "MD", "may": "MD",
	"might": "MD", "must": "MD", "shall": "MD",
	"not": "RB", "very": "RB", "also": "RB", "who": "WP", "which": "WDT", "what": "WP", "where": "WRB",
	"when": "WRB", "there": "EX",
	"'s": "POS", "’s": "POS",
}

// punctuationTags maps punctuation tokens to their tags
var punctuationTags = map[string]string{
	",": ",", ".": ".", "!": ".", "?": ".", ":": ":", ";": ":", "--": ":", "-": ":",
	"(": "-LRB-", ")": "-RRB-", "[": "-LRB-", "]": "-RRB-",
	"\"": "``", "“": "``", "”": "''", "'": "''", "$": "$", "%": "NN",
}

// LexiconTagger creates a tagger from a closed-class lexicon and suffix rules.
// Capitalized open-class words become proper nouns.
func LexiconTagger() TagFunc {
	return func(sentence Sentence) ([]string, error) {
		tags := make([]string, len(sentence.Tokens))
		for i, t := range sentence.Tokens {
			tags[i] = lexiconTag(t.Text, i == 0)
		}
		return tags, nil
	}
}

func lexiconTag(word string, sentenceInitial bool) string {
	if tag, ok := punctuationTags[word]; ok {
		return tag
	}
	lower := strings.ToLower(word)
	if tag, ok := closedClass[lower]; ok && (lower == word || sentenceInitial || word == "I") {
		return tag
	}

	runes := []rune(word)
	switch {
	case unicode.IsDigit(runes[0]):
		return "CD"
	case unicode.IsUpper(runes[0]):
		if strings.HasSuffix(word, "s") && len(runes) > 3 && allUpper(runes[:len(runes)-1]) {
			return "NNPS"
		}
		return "NNP"
	case !unicode.IsLetter(runes[0]):
		return "SYM"
	case strings.HasSuffix(lower, "ly"):
		return "RB"
	case strings.HasSuffix(lower, "ing"):
		return "VBG"
	case strings.HasSuffix(lower, "ed"):
		return "VBD"
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(runes) > 3:
		return "NNS"
	}
	return "NN"
}

func allUpper(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// DefaultTagger creates a part-of-speech tagger using a token classification model
// trained on Penn Treebank tags. Words are aligned to the model output by byte offset.
func DefaultTagger() (TagFunc, error) {
	// Prepare model (download if needed)
	modelName := "QCRI/bert-base-multilingual-cased-pos-english"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "pos-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
		},
	}
	posPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create POS pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create POS pipeline: %w", err)
	}

	return func(sentence Sentence) ([]string, error) {
		result, err := posPipeline.RunPipeline([]string{sentence.Text})
		if err != nil {
			return nil, fmt.Errorf("failed to run POS tagging: %w", err)
		}

		tags := make([]string, len(sentence.Tokens))
		for i, t := range sentence.Tokens {
			tags[i] = lexiconTag(t.Text, i == 0)
		}
		if len(result.Entities) == 0 {
			return tags, nil
		}

		for _, group := range result.Entities[0] {
			for i, offset := range sentence.Offsets {
				if offset >= int(group.Start) && offset < int(group.End) {
					tags[i] = normalizeEntityType(group.Entity)
				}
			}
		}
		return tags, nil
	}, nil
}
