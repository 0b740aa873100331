package resolver

import (
	"testing"

	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonReferentialResolver(t *testing.T) {
	doc := threeSentences()

	t.Run("Fixed", func(t *testing.T) {
		p, err := FixedNonReferentialResolver(0.3).NonReferentialProbability(&doc[0])
		require.NoError(t, err)
		assert.Equal(t, 0.3, p)
	})

	t.Run("Features match the training events", func(t *testing.T) {
		events := &EventCollector{}
		r, err := NewIsAResolver(model.ModeTrain, WithEventSink(events))
		require.NoError(t, err)
		store := model.NewDiscourseEntityStore()
		store.Create(doc[2])
		_, err = r.Train(store, &doc[3])
		require.NoError(t, err)

		nr := events.Events("imodel" + model.NonReferentialSuffix)
		require.Len(t, nr, 1)

		features, err := NonReferentialFeatures(IsAFeatures{}, &doc[3])
		require.NoError(t, err)
		assert.Equal(t, nr[0].Features, features)
		assert.True(t, features.Contains("pw=,"))
		assert.True(t, features.Contains("mw=the"))
		assert.True(t, features.Contains("hw=company"))
	})

	t.Run("Maxent returns the no-link probability", func(t *testing.T) {
		m, err := classifier.NewModel([]string{model.LabelLink, model.LabelNoLink}, map[string][]float64{
			"mw=the": {0, 2},
		})
		require.NoError(t, err)
		n := NewMaxentNonReferentialResolver(m, IsAFeatures{})

		definite, err := n.NonReferentialProbability(&doc[3])
		require.NoError(t, err)
		bare, err := n.NonReferentialProbability(&doc[0])
		require.NoError(t, err)
		assert.Greater(t, definite, 0.8)
		assert.InDelta(t, 0.5, bare, 1e-9)
	})

	t.Run("Missing model", func(t *testing.T) {
		_, err := LoadNonReferentialResolver(t.TempDir(), "en", "imodel", IsAFeatures{})
		assert.ErrorIs(t, err, classifier.ErrClassifierUnavailable)
	})
}
