package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("TopIsWorst", func(t *testing.T) {
		pq := NewPriorityQueue(4)
		pq.Push(Candidate{ID: 1, Distance: 2})
		pq.Push(Candidate{ID: 2, Distance: 5})
		pq.Push(Candidate{ID: 3, Distance: 1})

		top, ok := pq.Top()
		require.True(t, ok)
		assert.Equal(t, Candidate{ID: 2, Distance: 5}, top)
		assert.Equal(t, 3, pq.Len())
	})

	t.Run("TieBreakByID", func(t *testing.T) {
		pq := NewPriorityQueue(4)
		pq.Push(Candidate{ID: 3, Distance: 1})
		pq.Push(Candidate{ID: 9, Distance: 1})
		pq.Push(Candidate{ID: 5, Distance: 1})

		top, _ := pq.Top()
		assert.Equal(t, uint64(9), top.ID)
	})

	t.Run("PushBounded", func(t *testing.T) {
		pq := NewPriorityQueue(2)
		assert.True(t, pq.PushBounded(Candidate{ID: 0, Distance: 3}, 2))
		assert.True(t, pq.PushBounded(Candidate{ID: 1, Distance: 1}, 2))
		assert.True(t, pq.PushBounded(Candidate{ID: 2, Distance: 2}, 2))
		// Equal distance, larger ID: loses against the kept ID 2.
		assert.False(t, pq.PushBounded(Candidate{ID: 3, Distance: 2}, 2))
		assert.False(t, pq.PushBounded(Candidate{ID: 4, Distance: 9}, 2))
		assert.False(t, pq.PushBounded(Candidate{ID: 5, Distance: 0}, 0))

		assert.Equal(t, []Candidate{{ID: 1, Distance: 1}, {ID: 2, Distance: 2}}, pq.Sorted())
	})

	t.Run("PopDrainsWorstFirst", func(t *testing.T) {
		pq := NewPriorityQueue(8)
		for i, d := range []float64{4, 1, 3, 2, 5} {
			pq.Push(Candidate{ID: uint64(i), Distance: d})
		}

		var got []float64
		for {
			c, ok := pq.Pop()
			if !ok {
				break
			}
			got = append(got, c.Distance)
		}
		assert.Equal(t, []float64{5, 4, 3, 2, 1}, got)

		_, ok := pq.Top()
		assert.False(t, ok)
	})

	t.Run("Reset", func(t *testing.T) {
		pq := NewPriorityQueue(2)
		pq.Push(Candidate{ID: 1})
		pq.Reset()
		assert.Equal(t, 0, pq.Len())
	})
}

func TestCompare(t *testing.T) {
	assert.Negative(t, Compare(Candidate{ID: 5, Distance: 1}, Candidate{ID: 1, Distance: 2}))
	assert.Negative(t, Compare(Candidate{ID: 1, Distance: 2}, Candidate{ID: 5, Distance: 2}))
	assert.Zero(t, Compare(Candidate{ID: 1, Distance: 2}, Candidate{ID: 1, Distance: 2}))
}
