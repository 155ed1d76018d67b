package store

import "math"

// CollapsingHighestDenseStore mirrors CollapsingLowestDenseStore,
// folding the highest bins into the last bin instead of the lowest bins
// into the first, once the active key range would need more than
// binLimit bins.
type CollapsingHighestDenseStore struct {
	binList     *BinList
	count       float64
	min, max    int
	chunkSize   int
	off         int
	binLimit    int
	isCollapsed bool
}

// NewCollapsingHighestDenseStore returns an empty store bounded to
// binLimit bins. A non-positive binLimit is replaced with
// DefaultBinLimit.
func NewCollapsingHighestDenseStore(binLimit int) *CollapsingHighestDenseStore {
	return NewCollapsingHighestDenseStoreWithChunkSize(binLimit, DefaultChunkSize)
}

// NewCollapsingHighestDenseStoreWithChunkSize is
// NewCollapsingHighestDenseStore with an explicit backing-list growth
// granularity.
func NewCollapsingHighestDenseStoreWithChunkSize(binLimit, chunkSize int) *CollapsingHighestDenseStore {
	if binLimit <= 0 {
		binLimit = DefaultBinLimit
	}
	return &CollapsingHighestDenseStore{
		binList:   NewBinList(),
		min:       math.MaxInt64,
		max:       math.MinInt64,
		chunkSize: chunkSize,
		binLimit:  binLimit,
	}
}

func (s *CollapsingHighestDenseStore) Length() int    { return s.binList.Size() }
func (s *CollapsingHighestDenseStore) IsEmpty() bool  { return s.Length() == 0 }
func (s *CollapsingHighestDenseStore) Count() float64 { return s.count }
func (s *CollapsingHighestDenseStore) Bins() *BinList { return s.binList }
func (s *CollapsingHighestDenseStore) Offset() int    { return s.off }
func (s *CollapsingHighestDenseStore) MinKey() int    { return s.min }
func (s *CollapsingHighestDenseStore) MaxKey() int    { return s.max }

// BinLimit returns the maximum number of bins this store will grow to.
func (s *CollapsingHighestDenseStore) BinLimit() int { return s.binLimit }

// IsCollapsed reports whether any collapse has happened so far.
func (s *CollapsingHighestDenseStore) IsCollapsed() bool { return s.isCollapsed }

func (s *CollapsingHighestDenseStore) minKey() int           { return s.min }
func (s *CollapsingHighestDenseStore) maxKey() int           { return s.max }
func (s *CollapsingHighestDenseStore) isEmpty() bool         { return s.IsEmpty() }
func (s *CollapsingHighestDenseStore) length() int           { return s.Length() }
func (s *CollapsingHighestDenseStore) offset() int           { return s.off }
func (s *CollapsingHighestDenseStore) setOffset(o int)       { s.off = o }
func (s *CollapsingHighestDenseStore) setRange(min, max int) { s.min, s.max = min, max }
func (s *CollapsingHighestDenseStore) bins() *BinList        { return s.binList }

func (s *CollapsingHighestDenseStore) getNewLength(newMin, newMax int) int {
	return minInt(newLengthForChunks(newMin, newMax, s.chunkSize), s.binLimit)
}

// adjust collapses the highest bins into the last bin when the
// requested range no longer fits in the allowed window; otherwise falls
// through to center-and-shift.
func (s *CollapsingHighestDenseStore) adjust(newMin, newMax int) {
	if newMax-newMin+1 > s.Length() {
		newMax = newMin + s.Length() - 1

		if newMax <= s.min {
			s.off = newMin
			s.max = newMax
			s.binList.InitializeWithZeros(s.Length())
			s.binList.SetLast(s.count)
		} else {
			shift := s.off - newMin
			if shift > 0 {
				collapseStart := newMax - s.off + 1
				collapseEnd := s.max - s.off + 1
				collapsed, _ := s.binList.CollapsedCount(collapseStart, collapseEnd)
				s.binList.ReplaceRangeWithZeros(collapseStart, collapseEnd, s.max-newMax)
				s.binList.Add(collapseStart-1, collapsed)
				s.max = newMax
				s.off = shiftBins(s.binList, s.off, shift)
			} else {
				s.max = newMax
				s.off = shiftBins(s.binList, s.off, shift)
			}
		}

		s.min = newMin
		s.isCollapsed = true
	} else {
		s.off = centerAndShift(s.binList, s.off, newMin, newMax)
		s.min, s.max = newMin, newMax
	}
}

// getIndex implements spec section 4.3.3 for the collapsing-highest
// variant: once collapsed, any key above max collapses straight to the
// last bin without growing the window again.
func (s *CollapsingHighestDenseStore) getIndex(key int) int {
	if key > s.max {
		if s.isCollapsed {
			return s.Length() - 1
		}
		extendRange(s, key, key)
		if s.isCollapsed {
			return s.Length() - 1
		}
	} else if key < s.min {
		extendRange(s, key, key)
	}
	return key - s.off
}

// Add increments the counter for key by weight, collapsing the highest
// bins if the active range would otherwise exceed BinLimit.
func (s *CollapsingHighestDenseStore) Add(key int, weight float64) {
	idx := s.getIndex(key)
	s.binList.Add(idx, weight)
	s.count += weight
}

// KeyAtRank returns the smallest key whose cumulative count satisfies
// the rank predicate.
func (s *CollapsingHighestDenseStore) KeyAtRank(rank float64, lower bool) int {
	return keyAtRank(s.binList, s.off, s.max, rank, lower)
}

// Merge preserves the receiver's collapse boundary: counts for other's
// keys above the receiver's max_key are folded into the last bin, per
// spec section 4.3.4.
func (s *CollapsingHighestDenseStore) Merge(other Store) {
	o, ok := other.(*CollapsingHighestDenseStore)
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

	collapseStart := maxInt(s.max+1, o.min)
	collapseEnd := o.max + 1
	if collapseEnd > collapseStart {
		collapsed, _ := o.binList.CollapsedCount(collapseStart-o.off, collapseEnd-o.off)
		if collapsed > 0 {
			s.binList.Add(s.Length()-1, collapsed)
		}
	} else {
		collapseStart = collapseEnd
	}

	for key := o.min; key < collapseStart; key++ {
		if w := o.binList.At(key - o.off); w != 0 {
			s.binList.Add(key-s.off, w)
		}
	}
	s.count += o.count
}

// Copy deep-duplicates other's state into this store. other must be a
// *CollapsingHighestDenseStore; mismatched types are a contract
// violation.
func (s *CollapsingHighestDenseStore) Copy(other Store) {
	o := other.(*CollapsingHighestDenseStore)
	s.binList = NewBinList()
	s.binList.Copy(o.binList)
	s.min, s.max = o.min, o.max
	s.off = o.off
	s.count = o.count
	s.chunkSize = o.chunkSize
	s.binLimit = o.binLimit
	s.isCollapsed = o.isCollapsed
}
