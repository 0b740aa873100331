package pipeline

import (
	"testing"

	"github.com/siherrmann/corefer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNounPhraseDetector(t *testing.T) {
	tokenize := SentenceTokenizer(nil)
	detect := NounPhraseDetector()

	tests := []struct {
		name     string
		text     string
		expected []MentionSpan
	}{
		{
			name: "Appositive",
			text: "Tim Cook, the CEO of Apple, resigned.",
			expected: []MentionSpan{
				{Span: model.NewSpan(0, 2), Head: 1},
				{Span: model.NewSpan(3, 5), Head: 4},
				{Span: model.NewSpan(6, 7), Head: 6},
			},
		},
		{
			name: "Pronouns",
			text: "She said it expanded.",
			expected: []MentionSpan{
				{Span: model.NewSpan(0, 1), Head: 0},
				{Span: model.NewSpan(2, 3), Head: 2},
			},
		},
		{
			name: "Possessive splits the phrase",
			text: "The company's CEO resigned.",
			expected: []MentionSpan{
				{Span: model.NewSpan(0, 2), Head: 1},
				{Span: model.NewSpan(3, 4), Head: 3},
			},
		},
		{
			name: "Determiner without noun",
			text: "All resigned.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, err := tokenize(tt.text)
			require.NoError(t, err)
			require.Len(t, sentences, 1)

			spans, err := detect(sentences[0])
			require.NoError(t, err)
			assert.Equal(t, tt.expected, spans)
		})
	}
}
