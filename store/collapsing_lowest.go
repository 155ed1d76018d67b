package store

import "math"

// CollapsingLowestDenseStore is a dense store bounded to at most
// binLimit bins: once the active key range would need more bins than
// that, the lowest bins are folded into bin 0 and the collapse is
// sticky (is_collapsed), trading accuracy on the lowest quantiles for a
// fail-safe memory bound (cf. spec section 4.3.2 and the VLDB reference
// cited in the original ddsketch.h).
type CollapsingLowestDenseStore struct {
	binList     *BinList
	count       float64
	min, max    int
	chunkSize   int
	off         int
	binLimit    int
	isCollapsed bool
}

// NewCollapsingLowestDenseStore returns an empty store bounded to
// binLimit bins. A non-positive binLimit is replaced with
// DefaultBinLimit, per the documented invalid-parameter fallback in
// spec section 7.
func NewCollapsingLowestDenseStore(binLimit int) *CollapsingLowestDenseStore {
	return NewCollapsingLowestDenseStoreWithChunkSize(binLimit, DefaultChunkSize)
}

// NewCollapsingLowestDenseStoreWithChunkSize is NewCollapsingLowestDenseStore
// with an explicit backing-list growth granularity.
func NewCollapsingLowestDenseStoreWithChunkSize(binLimit, chunkSize int) *CollapsingLowestDenseStore {
	if binLimit <= 0 {
		binLimit = DefaultBinLimit
	}
	return &CollapsingLowestDenseStore{
		binList:   NewBinList(),
		min:       math.MaxInt64,
		max:       math.MinInt64,
		chunkSize: chunkSize,
		binLimit:  binLimit,
	}
}

func (s *CollapsingLowestDenseStore) Length() int    { return s.binList.Size() }
func (s *CollapsingLowestDenseStore) IsEmpty() bool  { return s.Length() == 0 }
func (s *CollapsingLowestDenseStore) Count() float64 { return s.count }
func (s *CollapsingLowestDenseStore) Bins() *BinList { return s.binList }
func (s *CollapsingLowestDenseStore) Offset() int    { return s.off }
func (s *CollapsingLowestDenseStore) MinKey() int    { return s.min }
func (s *CollapsingLowestDenseStore) MaxKey() int    { return s.max }

// BinLimit returns the maximum number of bins this store will grow to.
func (s *CollapsingLowestDenseStore) BinLimit() int { return s.binLimit }

// IsCollapsed reports whether any collapse has happened so far.
func (s *CollapsingLowestDenseStore) IsCollapsed() bool { return s.isCollapsed }

func (s *CollapsingLowestDenseStore) minKey() int           { return s.min }
func (s *CollapsingLowestDenseStore) maxKey() int           { return s.max }
func (s *CollapsingLowestDenseStore) isEmpty() bool         { return s.IsEmpty() }
func (s *CollapsingLowestDenseStore) length() int           { return s.Length() }
func (s *CollapsingLowestDenseStore) offset() int           { return s.off }
func (s *CollapsingLowestDenseStore) setOffset(o int)       { s.off = o }
func (s *CollapsingLowestDenseStore) setRange(min, max int) { s.min, s.max = min, max }
func (s *CollapsingLowestDenseStore) bins() *BinList        { return s.binList }

func (s *CollapsingLowestDenseStore) getNewLength(newMin, newMax int) int {
	return minInt(newLengthForChunks(newMin, newMax, s.chunkSize), s.binLimit)
}

// adjust collapses the lowest bins into bin 0 when the requested range
// no longer fits in the allowed window; otherwise it falls through to
// the same center-and-shift dense stores use.
func (s *CollapsingLowestDenseStore) adjust(newMin, newMax int) {
	if newMax-newMin+1 > s.Length() {
		newMin = newMax - s.Length() + 1

		if newMin >= s.max {
			s.off = newMin
			s.min = newMin
			s.binList.InitializeWithZeros(s.Length())
			s.binList.SetFirst(s.count)
		} else {
			shift := s.off - newMin
			if shift < 0 {
				collapseStart := s.min - s.off
				collapseEnd := newMin - s.off
				collapsed, _ := s.binList.CollapsedCount(collapseStart, collapseEnd)
				s.binList.ReplaceRangeWithZeros(collapseStart, collapseEnd, newMin-s.min)
				s.binList.Add(collapseEnd, collapsed)
				s.min = newMin
				s.off = shiftBins(s.binList, s.off, shift)
			} else {
				s.min = newMin
				s.off = shiftBins(s.binList, s.off, shift)
			}
		}

		s.max = newMax
		s.isCollapsed = true
	} else {
		s.off = centerAndShift(s.binList, s.off, newMin, newMax)
		s.min, s.max = newMin, newMax
	}
}

// getIndex implements spec section 4.3.3 for the collapsing-lowest
// variant: once collapsed, any key below min collapses straight to bin
// 0 without growing the window again.
func (s *CollapsingLowestDenseStore) getIndex(key int) int {
	if key < s.min {
		if s.isCollapsed {
			return 0
		}
		extendRange(s, key, key)
		if s.isCollapsed {
			return 0
		}
	} else if key > s.max {
		extendRange(s, key, key)
	}
	return key - s.off
}

// Add increments the counter for key by weight, collapsing the lowest
// bins if the active range would otherwise exceed BinLimit.
func (s *CollapsingLowestDenseStore) Add(key int, weight float64) {
	idx := s.getIndex(key)
	s.binList.Add(idx, weight)
	s.count += weight
}

// KeyAtRank returns the smallest key whose cumulative count satisfies
// the rank predicate.
func (s *CollapsingLowestDenseStore) KeyAtRank(rank float64, lower bool) int {
	return keyAtRank(s.binList, s.off, s.max, rank, lower)
}

// Merge preserves the receiver's collapse boundary: counts for other's
// keys below the receiver's min_key are folded into bin 0, per spec
// section 4.3.4.
func (s *CollapsingLowestDenseStore) Merge(other Store) {
	o, ok := other.(*CollapsingLowestDenseStore)
	if !ok {
		mergeGeneric(s, other)
		return
	}
	if o.count == 0 {
		return
	}
	if s.count == 0 {
		s.Copy(o)
		return
	}
	if o.min < s.min || o.max > s.max {
		extendRange(s, o.min, o.max)
	}

	collapseEnd := minInt(s.min, o.max+1)
	if collapseEnd > o.min {
		collapsed, _ := o.binList.CollapsedCount(o.min-o.off, collapseEnd-o.off)
		if collapsed > 0 {
			s.binList.Add(0, collapsed)
		}
	} else {
		collapseEnd = o.min
	}

	for key := collapseEnd; key <= o.max; key++ {
		if w := o.binList.At(key - o.off); w != 0 {
			s.binList.Add(key-s.off, w)
		}
	}
	s.count += o.count
}

// Copy deep-duplicates other's state into this store. other must be a
// *CollapsingLowestDenseStore; mismatched types are a contract
// violation.
func (s *CollapsingLowestDenseStore) Copy(other Store) {
	o := other.(*CollapsingLowestDenseStore)
	s.binList = NewBinList()
	s.binList.Copy(o.binList)
	s.min, s.max = o.min, o.max
	s.off = o.off
	s.count = o.count
	s.chunkSize = o.chunkSize
	s.binLimit = o.binLimit
	s.isCollapsed = o.isCollapsed
}
