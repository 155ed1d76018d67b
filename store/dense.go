package store

import "math"

// DenseStore is the unbounded dense variant: it keeps every bin between
// the bin for min_key and the bin for max_key, growing without limit.
// Memory-optimal in ingestion cost, at the price of no upper bound on
// size for heavy-tailed data (cf. spec section 4.3).
type DenseStore struct {
	binList   *BinList
	count     float64
	min, max  int
	chunkSize int
	off       int
}

// NewDenseStore returns an empty DenseStore with the default chunk size.
func NewDenseStore() *DenseStore {
	return NewDenseStoreWithChunkSize(DefaultChunkSize)
}

// NewDenseStoreWithChunkSize returns an empty DenseStore that grows its
// backing list in multiples of chunkSize.
func NewDenseStoreWithChunkSize(chunkSize int) *DenseStore {
	return &DenseStore{
		binList:   NewBinList(),
		min:       math.MaxInt64,
		max:       math.MinInt64,
		chunkSize: chunkSize,
	}
}

func (s *DenseStore) Length() int      { return s.binList.Size() }
func (s *DenseStore) IsEmpty() bool    { return s.Length() == 0 }
func (s *DenseStore) Count() float64   { return s.count }
func (s *DenseStore) Bins() *BinList   { return s.binList }
func (s *DenseStore) Offset() int      { return s.off }
func (s *DenseStore) MinKey() int      { return s.min }
func (s *DenseStore) MaxKey() int      { return s.max }

// growable plumbing; see store.go.
func (s *DenseStore) minKey() int              { return s.min }
func (s *DenseStore) maxKey() int              { return s.max }
func (s *DenseStore) isEmpty() bool            { return s.IsEmpty() }
func (s *DenseStore) length() int              { return s.Length() }
func (s *DenseStore) offset() int              { return s.off }
func (s *DenseStore) setOffset(o int)          { s.off = o }
func (s *DenseStore) setRange(min, max int)    { s.min, s.max = min, max }
func (s *DenseStore) bins() *BinList           { return s.binList }
func (s *DenseStore) getNewLength(newMin, newMax int) int {
	return newLengthForChunks(newMin, newMax, s.chunkSize)
}

func (s *DenseStore) adjust(newMin, newMax int) {
	s.off = centerAndShift(s.binList, s.off, newMin, newMax)
	s.min, s.max = newMin, newMax
}

func (s *DenseStore) getIndex(key int) int {
	if key < s.min || key > s.max {
		extendRange(s, key, key)
	}
	return key - s.off
}

// Add increments the counter for key by weight, growing the backing
// window if needed.
func (s *DenseStore) Add(key int, weight float64) {
	idx := s.getIndex(key)
	s.binList.Add(idx, weight)
	s.count += weight
}

// KeyAtRank returns the smallest key whose cumulative count satisfies
// the rank predicate; see spec section 4.3.5.
func (s *DenseStore) KeyAtRank(rank float64, lower bool) int {
	return keyAtRank(s.binList, s.off, s.max, rank, lower)
}

// Merge folds other's counts into this store, equivalent to replaying
// other's adds onto it.
func (s *DenseStore) Merge(other Store) {
	o, ok := other.(*DenseStore)
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
	for key := o.min; key <= o.max; key++ {
		if w := o.binList.At(key - o.off); w != 0 {
			s.binList.Add(key-s.off, w)
		}
	}
	s.count += o.count
}

// Copy deep-duplicates other's state into this store. other must be a
// *DenseStore; mismatched types are a contract violation.
func (s *DenseStore) Copy(other Store) {
	o := other.(*DenseStore)
	s.binList = NewBinList()
	s.binList.Copy(o.binList)
	s.min, s.max = o.min, o.max
	s.off = o.off
	s.count = o.count
	s.chunkSize = o.chunkSize
}
