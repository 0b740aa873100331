package resolver

import (
	"testing"

	"github.com/siherrmann/corefer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinker(t *testing.T) {
	t.Run("Resolvers must share the mode", func(t *testing.T) {
		resolve, err := NewIsAResolver(model.ModeResolve, WithClassifier(constant(0.9)))
		require.NoError(t, err)
		train, err := NewProperNounResolver(model.ModeTrain, WithEventSink(&EventCollector{}))
		require.NoError(t, err)

		_, err = NewLinker(model.ModeResolve, resolve, train)
		assert.ErrorIs(t, err, ErrWrongMode)

		_, err = NewLinker(model.ModeResolve, nil)
		assert.Error(t, err)
	})

	t.Run("No resolvers creates singletons", func(t *testing.T) {
		linker, err := NewLinker(model.ModeResolve)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(threeSentences())
		require.NoError(t, err)
		assert.Equal(t, 5, linker.Store().Len())
		for _, o := range outcomes {
			assert.Equal(t, model.StatusUnresolved, o.Status)
			assert.True(t, o.HasEntity())
		}
	})

	t.Run("Capable resolvers are tried in order", func(t *testing.T) {
		isa, err := NewIsAResolver(model.ModeResolve, WithClassifier(constant(0.9)))
		require.NoError(t, err)
		pn, err := NewProperNounResolver(model.ModeResolve, WithClassifier(constant(0.9)))
		require.NoError(t, err)
		pronoun, err := NewSingularPronounResolver(model.ModeResolve, WithClassifier(constant(0.9)))
		require.NoError(t, err)
		linker, err := NewLinker(model.ModeResolve, isa, pn, pronoun)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(threeSentences())
		require.NoError(t, err)
		assert.Equal(t, "propernoun", outcomes[0].Resolver)
		assert.Equal(t, "isa", outcomes[1].Resolver)
		assert.Equal(t, "propernoun", outcomes[2].Resolver)
		assert.Equal(t, "isa", outcomes[3].Resolver)
		assert.Equal(t, "singularpronoun", outcomes[4].Resolver)
		assert.Equal(t, outcomes[3].Entity, outcomes[4].Entity)
	})

	t.Run("Comma preceded name links across sentences", func(t *testing.T) {
		isa, err := NewIsAResolver(model.ModeResolve, WithClassifier(constant(0.99)))
		require.NoError(t, err)
		pn, err := NewProperNounResolver(model.ModeResolve, WithClassifier(constant(0.99)))
		require.NoError(t, err)
		linker, err := NewLinker(model.ModeResolve, isa, pn)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(commaSeparatedNames())
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, model.StatusResolved, outcomes[1].Status)
		assert.Equal(t, "propernoun", outcomes[1].Resolver)
		assert.Equal(t, outcomes[0].Entity, outcomes[1].Entity)
		assert.Equal(t, 1, linker.Store().Len())
	})

	t.Run("Single new entity when no resolver finds an antecedent", func(t *testing.T) {
		isa, err := NewIsAResolver(model.ModeResolve, WithClassifier(constant(0.99)))
		require.NoError(t, err)
		pn, err := NewProperNounResolver(model.ModeResolve, WithClassifier(constant(0.01)))
		require.NoError(t, err)
		linker, err := NewLinker(model.ModeResolve, isa, pn)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(commaSeparatedNames())
		require.NoError(t, err)

		assert.Equal(t, model.StatusUnresolved, outcomes[1].Status)
		assert.Equal(t, "isa", outcomes[1].Resolver)
		assert.NotEqual(t, outcomes[0].Entity, outcomes[1].Entity)
		assert.Equal(t, 2, linker.Store().Len())
	})

	t.Run("Non-referential verdict ends the search", func(t *testing.T) {
		isa, err := NewIsAResolver(model.ModeResolve, WithClassifier(constant(0.99)), WithNonReferentialResolver(FixedNonReferentialResolver(0.9)))
		require.NoError(t, err)
		pn, err := NewProperNounResolver(model.ModeResolve, WithClassifier(constant(0.99)))
		require.NoError(t, err)
		linker, err := NewLinker(model.ModeResolve, isa, pn)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(commaSeparatedNames())
		require.NoError(t, err)

		assert.Equal(t, model.StatusNonReferential, outcomes[1].Status)
		assert.Equal(t, "isa", outcomes[1].Resolver)
		assert.Equal(t, 1, linker.Store().Len())
	})

	t.Run("Every capable resolver trains on the mention", func(t *testing.T) {
		events := &EventCollector{}
		isa, err := NewIsAResolver(model.ModeTrain, WithEventSink(events))
		require.NoError(t, err)
		pn, err := NewProperNounResolver(model.ModeTrain, WithEventSink(events))
		require.NoError(t, err)
		linker, err := NewLinker(model.ModeTrain, isa, pn)
		require.NoError(t, err)

		outcomes, err := linker.ProcessAll(commaSeparatedNames())
		require.NoError(t, err)

		assert.Equal(t, model.StatusResolved, outcomes[1].Status)
		assert.Equal(t, "propernoun", outcomes[1].Resolver)
		assert.Equal(t, outcomes[0].Entity, outcomes[1].Entity)
		assert.Equal(t, 1, linker.Store().Len())

		links := events.Events("pnmodel")
		require.Len(t, links, 1)
		assert.Equal(t, model.LabelLink, links[0].Label)
		assert.Empty(t, events.Events("imodel"))
	})

	t.Run("Mentions out of order", func(t *testing.T) {
		linker, err := NewLinker(model.ModeResolve)
		require.NoError(t, err)
		doc := threeSentences()

		_, err = linker.Process(doc[2])
		require.NoError(t, err)
		_, err = linker.Process(doc[0])
		assert.ErrorIs(t, err, model.ErrInvalidMention)
		assert.Equal(t, 1, linker.Store().Len())
	})

	t.Run("ProcessAll keeps progress on error", func(t *testing.T) {
		linker, err := NewLinker(model.ModeResolve)
		require.NoError(t, err)
		doc := threeSentences()
		doc[2].Tokens = nil

		outcomes, err := linker.ProcessAll(doc)
		assert.ErrorIs(t, err, model.ErrInvalidMention)
		assert.ErrorContains(t, err, "mention 2")
		assert.Len(t, outcomes, 2)
		assert.Equal(t, 2, linker.Store().Len())
	})
}

// commaSeparatedNames returns "Apple grew ." followed by "Analysts said , Apple grew ."
func commaSeparatedNames() []model.MentionContext {
	s0 := parse("Apple/NNP grew/VBD ./.")
	s1 := parse("Analysts/NNS said/VBD ,/, Apple/NNP grew/VBD ./.")

	first := s0.mention(0, 0, 1)
	first.GoldID = 1
	second := s1.mention(1, 3, 4)
	second.GoldID = 1
	return []model.MentionContext{first, second}
}
