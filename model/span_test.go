package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	t.Run("Validity and length", func(t *testing.T) {
		assert.True(t, NewSpan(0, 0).Valid())
		assert.True(t, NewSpan(2, 5).Valid())
		assert.False(t, NewSpan(5, 2).Valid())
		assert.False(t, NewSpan(-1, 2).Valid())
		assert.Equal(t, 3, NewSpan(2, 5).Length())
	})

	t.Run("End is exclusive", func(t *testing.T) {
		s := NewSpan(2, 5)
		assert.True(t, s.Contains(2))
		assert.True(t, s.Contains(4))
		assert.False(t, s.Contains(5))
		assert.False(t, s.Contains(1))
	})

	t.Run("Adjacency queries", func(t *testing.T) {
		candidate := NewSpan(0, 5)

		assert.True(t, candidate.EndsBefore(NewSpan(7, 9), 2))
		assert.False(t, candidate.EndsBefore(NewSpan(6, 9), 2))
		assert.True(t, candidate.SharesEnd(NewSpan(2, 5)))
		assert.True(t, NewSpan(0, 6).EndsWithin(NewSpan(0, 4), 2))
		assert.False(t, NewSpan(0, 7).EndsWithin(NewSpan(0, 4), 2))
		assert.True(t, candidate.Before(NewSpan(5, 6)))
		assert.False(t, candidate.Before(NewSpan(4, 6)))
	})

	t.Run("Compare orders by start then end", func(t *testing.T) {
		assert.Equal(t, -1, NewSpan(0, 3).Compare(NewSpan(1, 2)))
		assert.Equal(t, 1, NewSpan(1, 4).Compare(NewSpan(1, 2)))
		assert.Equal(t, 0, NewSpan(1, 2).Compare(NewSpan(1, 2)))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "[7,9)", NewSpan(7, 9).String())
	})
}
