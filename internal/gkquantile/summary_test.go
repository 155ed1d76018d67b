package gkquantile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summaryFixture builds two independent summaries from fixed weighted
// observations, mirroring the two-buffer setup used throughout the
// teacher's own summary tests: buffer1 sums to weight 45 over values
// -13..21, buffer2 sums to weight 30 over values -7..11.
func summaryFixture(t *testing.T) (*Summary, *Summary) {
	t.Helper()

	b1, err := NewBuffer(20, 100)
	require.NoError(t, err)
	for _, v := range []float64{-13, -8, -4, -2, 0, 3, 5, 9, 15, 21} {
		require.NoError(t, b1.Push(v, 4.5))
	}
	s1 := newSummary()
	s1.buildFromEntries(b1.Drain())

	b2, err := NewBuffer(20, 100)
	require.NoError(t, err)
	for _, v := range []float64{-7, -3, -1, 2, 6, 8, 11} {
		require.NoError(t, b2.Push(v, 30.0/7.0))
	}
	s2 := newSummary()
	s2.buildFromEntries(b2.Drain())

	return s1, s2
}

func TestSummaryBuildFromEntries(t *testing.T) {
	s1, _ := summaryFixture(t)
	require.Equal(t, int64(10), s1.Size())
	assert.InDelta(t, 45, s1.TotalWeight(), 1e-9)
	assert.Equal(t, float64(-13), s1.MinValue())
	assert.Equal(t, float64(21), s1.MaxValue())

	for i, e := range s1.entries {
		assert.InDelta(t, float64(i)*4.5, e.MinRank, 1e-9)
		assert.InDelta(t, float64(i+1)*4.5, e.MaxRank, 1e-9)
	}
}

func TestSummaryMergeSymmetry(t *testing.T) {
	s1, s2 := summaryFixture(t)

	merged1 := newSummary()
	merged1.BuildFromSummaryEntries(s1.entries)
	merged1.Merge(s2)

	merged2 := newSummary()
	merged2.BuildFromSummaryEntries(s2.entries)
	merged2.Merge(s1)

	require.Equal(t, merged1.Size(), merged2.Size())
	assert.InDelta(t, merged1.TotalWeight(), merged2.TotalWeight(), 1e-9)
	for i := range merged1.entries {
		assert.Equal(t, merged1.entries[i].Value, merged2.entries[i].Value)
		assert.InDelta(t, merged1.entries[i].Weight, merged2.entries[i].Weight, 1e-9)
	}
}

func TestSummaryMergeIntoEmpty(t *testing.T) {
	s1, _ := summaryFixture(t)
	empty := newSummary()
	empty.Merge(s1)
	assert.Equal(t, s1.Size(), empty.Size())

	noop := newSummary()
	noop.BuildFromSummaryEntries(s1.entries)
	noop.Merge(newSummary())
	assert.Equal(t, s1.Size(), noop.Size())
}

func TestSummaryCompressShrinksAndBoundsError(t *testing.T) {
	s1, s2 := summaryFixture(t)
	s1.Merge(s2)
	sizeBefore := s1.Size()

	const sizeHint, minEps = 5, 0.01
	s1.Compress(sizeHint, minEps)
	bound := minEps
	if 1.0/float64(sizeHint) > bound {
		bound = 1.0 / float64(sizeHint)
	}
	assert.LessOrEqual(t, s1.Size(), sizeBefore)
	assert.LessOrEqual(t, s1.ApproximationError(), bound+1e-9)
}

func TestSummaryCompressRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := newSummary()
	b, err := NewBuffer(500, 500)
	require.NoError(t, err)
	for i := 0; i < 400; i++ {
		require.NoError(t, b.Push(rng.Float64()*1000, 1))
	}
	s.buildFromEntries(b.Drain())

	const eps = 0.05
	s.Compress(20, eps)
	assert.LessOrEqual(t, s.Size(), int64(22))
	assert.LessOrEqual(t, s.ApproximationError(), eps+1e-9)
}

func TestSummaryGenerateQuantilesMonotonic(t *testing.T) {
	s1, s2 := summaryFixture(t)
	s1.Merge(s2)

	qs := s1.GenerateQuantiles(4)
	require.Len(t, qs, 5)
	for i := 1; i < len(qs); i++ {
		assert.GreaterOrEqual(t, qs[i], qs[i-1])
	}
	assert.Equal(t, s1.MinValue(), qs[0])
	assert.Equal(t, s1.MaxValue(), qs[len(qs)-1])
}

func TestSummaryGenerateBoundaries(t *testing.T) {
	s1, s2 := summaryFixture(t)
	s1.Merge(s2)

	bounds := s1.GenerateBoundaries(4)
	assert.NotEmpty(t, bounds)
	for i := 1; i < len(bounds); i++ {
		assert.GreaterOrEqual(t, bounds[i], bounds[i-1])
	}
}

func TestSummaryClear(t *testing.T) {
	s1, _ := summaryFixture(t)
	s1.Clear()
	assert.Equal(t, int64(0), s1.Size())
	assert.Equal(t, float64(0), s1.TotalWeight())
	assert.Equal(t, float64(0), s1.MinValue())
	assert.Equal(t, float64(0), s1.MaxValue())
}
