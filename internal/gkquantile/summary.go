package gkquantile

import "github.com/pkg/errors"

// Summary is a compressed, rank-annotated view of the values folded into
// it so far: enough to answer approximate quantile/boundary queries and
// to merge with another Summary in linear time.
type Summary struct {
	entries []*SummaryEntry
}

func newSummary() *Summary {
	return &Summary{entries: make([]*SummaryEntry, 0)}
}

// buildFromEntries rebuilds the summary from a freshly drained, sorted
// Buffer: each entry gets the rank band [cumWeight, cumWeight+weight).
func (s *Summary) buildFromEntries(es []entry) {
	s.entries = s.entries[:0]
	var cumWeight float64
	for _, e := range es {
		s.entries = append(s.entries, &SummaryEntry{
			Value:   e.value,
			Weight:  e.weight,
			MinRank: cumWeight,
			MaxRank: cumWeight + e.weight,
		})
		cumWeight += e.weight
	}
}

// BuildFromSummaryEntries replaces this summary's contents with a copy
// of already-rank-annotated entries, as produced by a prior Compress or
// received from PushSummary.
func (s *Summary) BuildFromSummaryEntries(entries []*SummaryEntry) {
	s.entries = make([]*SummaryEntry, len(entries))
	copy(s.entries, entries)
}

// mergeStep is the outcome of comparing the next pending entry from two
// summaries being merged: the rank-annotated entry to emit, and which
// side(s) should advance past it.
type mergeStep struct {
	entry        *SummaryEntry
	advanceLeft  bool
	advanceRight bool
}

// compareEntries decides how one pair of pending entries from two
// summaries being merged contributes to the merged output, given the
// lowest rank already settled on each side (floorLeft/floorRight).
func compareEntries(left, right *SummaryEntry, floorLeft, floorRight float64) mergeStep {
	switch {
	case left.Value < right.Value:
		return mergeStep{
			entry: &SummaryEntry{
				Value: left.Value, Weight: left.Weight,
				MinRank: left.MinRank + floorRight,
				MaxRank: left.MaxRank + right.prevMaxRank(),
			},
			advanceLeft: true,
		}
	case left.Value > right.Value:
		return mergeStep{
			entry: &SummaryEntry{
				Value: right.Value, Weight: right.Weight,
				MinRank: right.MinRank + floorLeft,
				MaxRank: right.MaxRank + left.prevMaxRank(),
			},
			advanceRight: true,
		}
	default:
		return mergeStep{
			entry: &SummaryEntry{
				Value: left.Value, Weight: left.Weight + right.Weight,
				MinRank: left.MinRank + right.MinRank,
				MaxRank: left.MaxRank + right.MaxRank,
			},
			advanceLeft:  true,
			advanceRight: true,
		}
	}
}

// Merge combines other into this summary, maintaining rank bands. The
// two summaries are already sorted by value, so a single left-to-right
// sweep suffices: at each step compareEntries picks the smaller-valued
// pending entry (or folds both together on a tie) and widens its rank
// band by the other summary's settled floor at that point.
func (s *Summary) Merge(other *Summary) {
	if len(other.entries) == 0 {
		return
	}
	if len(s.entries) == 0 {
		s.BuildFromSummaryEntries(other.entries)
		return
	}

	left := s.entries
	right := other.entries
	merged := make([]*SummaryEntry, 0, len(left)+len(right))

	var floorLeft, floorRight float64
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		step := compareEntries(left[i], right[j], floorLeft, floorRight)
		merged = append(merged, step.entry)
		if step.advanceLeft {
			floorLeft = left[i].nextMinRank()
			i++
		}
		if step.advanceRight {
			floorRight = right[j].nextMinRank()
			j++
		}
	}

	for ; i < len(left); i++ {
		merged = append(merged, &SummaryEntry{
			Value: left[i].Value, Weight: left[i].Weight,
			MinRank: left[i].MinRank + floorRight,
			MaxRank: left[i].MaxRank + right[len(right)-1].MaxRank,
		})
	}
	for ; j < len(right); j++ {
		merged = append(merged, &SummaryEntry{
			Value: right[j].Value, Weight: right[j].Weight,
			MinRank: right[j].MinRank + floorLeft,
			MaxRank: right[j].MaxRank + left[len(left)-1].MaxRank,
		})
	}

	s.entries = merged
}

// Compress shrinks the summary to roughly sizeHint entries while
// maintaining the approximation bound minEps. It scans runs of adjacent
// entries whose combined rank gap stays within the allowed error
// budget, keeping only the last entry of each run and spending a
// fractional "budget token" per entry skipped so no single run absorbs
// more than its fair share of the total compaction.
func (s *Summary) Compress(sizeHint int64, minEps float64) {
	sizeHint = maxInt64(sizeHint, 2)
	total := int64(len(s.entries))
	if total <= sizeHint {
		return
	}

	errorBudget := s.TotalWeight() * maxFloat64(1/float64(sizeHint), minEps)
	tokenCost := total

	var tokensSpent int64
	writeAt := 1
	lastRunEnd := writeAt

	for runStart := 0; runStart+1 != int(total); {
		runEnd := runStart + 1
		for runEnd != int(total) && tokensSpent < tokenCost &&
			s.entries[runEnd].prevMaxRank()-s.entries[runStart].nextMinRank() <= errorBudget {
			tokensSpent += sizeHint
			runEnd++
		}

		if s.entries[runStart] == s.entries[runEnd-1] {
			runStart++
		} else {
			runStart = runEnd - 1
		}

		s.entries[writeAt] = s.entries[runStart]
		writeAt++
		lastRunEnd = runStart
		tokensSpent -= tokenCost
	}

	if lastRunEnd+1 != int(total) {
		s.entries[writeAt] = s.entries[total-1]
		writeAt++
	}

	s.entries = s.entries[:writeAt]
}

// QuantileValue answers a single arbitrary rank q in [0, 1] by walking
// forward through the rank bands until one's upper bound covers the
// target rank — the same threshold walk ddsketch.Sketch.Quantile
// performs over its bin-count stores' cumulative counts. It exists
// alongside GenerateQuantiles so this package's two query shapes, many
// evenly spaced ranks amortized into one pass versus a single arbitrary
// rank, both have a direct counterpart to compare against a sketch's
// own quantile answer at the same q.
func (s *Summary) QuantileValue(q float64) (float64, error) {
	if len(s.entries) == 0 {
		return 0, errors.New("summary is empty")
	}
	if q < 0 || q > 1 {
		return 0, errors.New("q must be in [0, 1]")
	}

	target := q * (s.TotalWeight() - 1)
	for _, e := range s.entries {
		if target < e.MaxRank {
			return e.Value, nil
		}
	}
	return s.entries[len(s.entries)-1].Value, nil
}

// GenerateBoundaries returns a sample of values guaranteed to both
// contain at least numBoundaries unique elements and maintain the
// summary's approximation bound, by soft-compressing a copy.
func (s *Summary) GenerateBoundaries(numBoundaries int64) []float64 {
	output := []float64{}
	if len(s.entries) == 0 {
		return output
	}

	copied := &Summary{}
	copied.BuildFromSummaryEntries(s.entries)
	compressionEps := s.ApproximationError() + 1.0/float64(numBoundaries)
	copied.Compress(numBoundaries, compressionEps)

	for _, e := range copied.entries {
		output = append(output, e.Value)
	}
	return output
}

// GenerateQuantiles returns numQuantiles+1 approximate quantile values at
// evenly spaced ranks, in a single O(n) pass over the summary rather
// than numQuantiles independent rank queries. numQuantiles below 2 is
// raised to 2.
func (s *Summary) GenerateQuantiles(numQuantiles int64) []float64 {
	output := []float64{}
	if len(s.entries) == 0 {
		return output
	}
	if numQuantiles < 2 {
		numQuantiles = 2
	}

	curIdx := 0
	for rank := 0.0; rank <= float64(numQuantiles); rank++ {
		d2 := 2 * (rank * s.entries[len(s.entries)-1].MaxRank / float64(numQuantiles))
		nextIdx := curIdx + 1
		for nextIdx < len(s.entries) && d2 >= s.entries[nextIdx].MinRank+s.entries[nextIdx].MaxRank {
			nextIdx++
		}
		curIdx = nextIdx - 1
		if nextIdx == len(s.entries) || d2 < s.entries[curIdx].nextMinRank()+s.entries[nextIdx].prevMaxRank() {
			output = append(output, s.entries[curIdx].Value)
		} else {
			output = append(output, s.entries[nextIdx].Value)
		}
	}
	return output
}

// ApproximationError returns the current worst-case relative rank error
// across the summary.
func (s *Summary) ApproximationError() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	var maxGap float64
	for i := 1; i < len(s.entries); i++ {
		e := s.entries[i]
		if gap := e.MaxRank - e.MinRank - e.Weight; gap > maxGap {
			maxGap = gap
		}
		if gap := e.prevMaxRank() - s.entries[i-1].nextMinRank(); gap > maxGap {
			maxGap = gap
		}
	}
	return maxGap / s.TotalWeight()
}

// MinValue returns the smallest value held by the summary, or 0 if empty.
func (s *Summary) MinValue() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[0].Value
}

// MaxValue returns the largest value held by the summary, or 0 if empty.
func (s *Summary) MaxValue() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].Value
}

// TotalWeight returns the sum of weights folded into the summary.
func (s *Summary) TotalWeight() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].MaxRank
}

// Size returns the number of entries currently held.
func (s *Summary) Size() int64 { return int64(len(s.entries)) }

// Clear empties the summary.
func (s *Summary) Clear() { s.entries = s.entries[:0] }
