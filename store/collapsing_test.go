package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapsingLowestCollapsesOnceLimitExceeded(t *testing.T) {
	s := NewCollapsingLowestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 20; key++ {
		s.Add(key, 1)
	}
	assert.True(t, s.IsCollapsed())
	assert.LessOrEqual(t, s.Length(), s.BinLimit())
	assert.Equal(t, float64(20), s.Count())
	assert.Equal(t, float64(20), s.Bins().Sum())
}

func TestCollapsingLowestStickyOnceCollapsed(t *testing.T) {
	s := NewCollapsingLowestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 20; key++ {
		s.Add(key, 1)
	}
	require := s.IsCollapsed()
	assert.True(t, require)

	// inserting an even lower key must not grow the window any further
	s.Add(-1000, 1)
	assert.True(t, s.IsCollapsed())
	assert.LessOrEqual(t, s.Length(), s.BinLimit())
	assert.Equal(t, float64(21), s.Count())
}

func TestCollapsingHighestCollapsesOnceLimitExceeded(t *testing.T) {
	s := NewCollapsingHighestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 20; key++ {
		s.Add(key, 1)
	}
	assert.True(t, s.IsCollapsed())
	assert.LessOrEqual(t, s.Length(), s.BinLimit())
	assert.Equal(t, float64(20), s.Count())
	assert.Equal(t, float64(20), s.Bins().Sum())
}

func TestCollapsingHighestStickyOnceCollapsed(t *testing.T) {
	s := NewCollapsingHighestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 20; key++ {
		s.Add(key, 1)
	}
	assert.True(t, s.IsCollapsed())

	s.Add(1000, 1)
	assert.True(t, s.IsCollapsed())
	assert.LessOrEqual(t, s.Length(), s.BinLimit())
	assert.Equal(t, float64(21), s.Count())
}

func TestCollapsingLowestMergePreservesReceiverBoundary(t *testing.T) {
	a := NewCollapsingLowestDenseStoreWithChunkSize(4, 4)
	for key := 10; key < 20; key++ {
		a.Add(key, 1)
	}

	b := NewCollapsingLowestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 5; key++ {
		b.Add(key, 1)
	}

	totalBefore := a.Count() + b.Count()
	a.Merge(b)
	assert.Equal(t, totalBefore, a.Count())
	assert.Equal(t, totalBefore, a.Bins().Sum())
	// b must not be mutated by the merge
	assert.Equal(t, float64(5), b.Count())
}

func TestCollapsingHighestMergePreservesReceiverBoundary(t *testing.T) {
	a := NewCollapsingHighestDenseStoreWithChunkSize(4, 4)
	for key := 0; key < 10; key++ {
		a.Add(key, 1)
	}

	b := NewCollapsingHighestDenseStoreWithChunkSize(4, 4)
	for key := 20; key < 25; key++ {
		b.Add(key, 1)
	}

	totalBefore := a.Count() + b.Count()
	a.Merge(b)
	assert.Equal(t, totalBefore, a.Count())
	assert.Equal(t, totalBefore, a.Bins().Sum())
	assert.Equal(t, float64(5), b.Count())
}

func TestCollapsingLowestMergeIntoEmptyCopies(t *testing.T) {
	a := NewCollapsingLowestDenseStore(16)
	b := NewCollapsingLowestDenseStore(16)
	b.Add(5, 2)
	b.Add(6, 3)

	a.Merge(b)
	assert.Equal(t, b.Count(), a.Count())
}

func TestCollapsingHighestMergeIntoEmptyCopies(t *testing.T) {
	a := NewCollapsingHighestDenseStore(16)
	b := NewCollapsingHighestDenseStore(16)
	b.Add(5, 2)
	b.Add(6, 3)

	a.Merge(b)
	assert.Equal(t, b.Count(), a.Count())
}

func TestCollapsingDefaultsBinLimitWhenNonPositive(t *testing.T) {
	low := NewCollapsingLowestDenseStore(0)
	assert.Equal(t, DefaultBinLimit, low.BinLimit())

	high := NewCollapsingHighestDenseStore(-5)
	assert.Equal(t, DefaultBinLimit, high.BinLimit())
}
