package database

import (
	"testing"

	"github.com/siherrmann/corefer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsNewEventsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEventsDBHandler", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(database, true)
		require.NoError(t, err)

		eventsDbHandler, err := NewEventsDBHandler(database, true)
		assert.NoError(t, err)
		require.NotNil(t, eventsDbHandler)
	})

	t.Run("Invalid call NewEventsDBHandler with nil database", func(t *testing.T) {
		_, err := NewEventsDBHandler(nil, false)
		assert.ErrorContains(t, err, "database connection is nil")
	})
}

func TestEventsEmitAndSelect(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database, "Events")

	eventsDbHandler, err := NewEventsDBHandler(database, true)
	require.NoError(t, err)

	const modelName = "test-emit"
	t.Cleanup(func() { eventsDbHandler.DeleteEvents(modelName) })

	sink := eventsDbHandler.ForDocument(doc.ID)
	require.NoError(t, sink.Emit(model.NewTrainingEvent(modelName, model.LabelLink, model.Features{"default", "hdmatch=true"})))
	require.NoError(t, sink.Emit(model.NewTrainingEvent(modelName, model.LabelNoLink, model.Features{"default"})))
	require.NoError(t, eventsDbHandler.Emit(model.NewTrainingEvent(modelName, model.LabelNoLink, nil)))
	require.NoError(t, eventsDbHandler.Emit(model.NewTrainingEvent(modelName+model.NonReferentialSuffix, model.LabelLink, model.Features{"default"})))

	t.Run("Select events in insertion order", func(t *testing.T) {
		events, err := eventsDbHandler.SelectEvents(modelName, 0, 10)
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, model.LabelLink, events[0].Label)
		assert.Equal(t, model.Features{"default", "hdmatch=true"}, events[0].Features)
		require.NotNil(t, events[0].DocumentID)
		assert.Equal(t, doc.ID, *events[0].DocumentID)

		assert.Nil(t, events[2].DocumentID, "Expected events emitted without a document to have none")
		assert.Empty(t, events[2].Features)
	})

	t.Run("Select events after an id", func(t *testing.T) {
		events, err := eventsDbHandler.SelectEvents(modelName, 0, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)

		rest, err := eventsDbHandler.SelectEvents(modelName, events[0].ID, 10)
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("Count events per label", func(t *testing.T) {
		counts, err := eventsDbHandler.CountEvents(modelName)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{model.LabelLink: 1, model.LabelNoLink: 2}, counts)

		counts, err = eventsDbHandler.CountEvents(modelName + model.NonReferentialSuffix)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{model.LabelLink: 1}, counts)
	})

	t.Run("Delete events of a model", func(t *testing.T) {
		require.NoError(t, eventsDbHandler.DeleteEvents(modelName+model.NonReferentialSuffix))

		counts, err := eventsDbHandler.CountEvents(modelName + model.NonReferentialSuffix)
		require.NoError(t, err)
		assert.Empty(t, counts)

		counts, err = eventsDbHandler.CountEvents(modelName)
		require.NoError(t, err)
		assert.Len(t, counts, 2)
	})
}
