// Package store implements the dense family of bin-count stores used by
// the ddsketch quantile sketch: a counter array indexed by integer bin
// key via a sliding window offset, with dense (unbounded) and
// bounded-memory collapsing-lowest/collapsing-highest variants.
package store

import "math"

// DefaultChunkSize is the granularity a store's backing BinList grows by
// to amortize allocation cost.
const DefaultChunkSize = 128

// DefaultBinLimit is substituted whenever a collapsing store is
// constructed with a non-positive bin limit.
const DefaultBinLimit = 2048

// Store is the capability every store variant implements. Dense,
// CollapsingLowestDenseStore and CollapsingHighestDenseStore each give a
// complete, independent implementation of this contract; only small
// growth/shift/rank helpers are shared, as free functions in this file.
type Store interface {
	// Add increments the counter for key by weight, growing or
	// collapsing the backing window as needed.
	Add(key int, weight float64)
	// Merge behaves as if Add(k, w) had been called for every
	// (key, weight) pair held by other.
	Merge(other Store)
	// KeyAtRank returns the smallest key K such that the cumulative
	// count over bins with key <= K strictly exceeds rank (lower) or
	// is >= rank+1 (!lower). Returns MaxKey() if rank exceeds the
	// total count.
	KeyAtRank(rank float64, lower bool) int
	Length() int
	IsEmpty() bool
	Count() float64
	// Bins is a read-only view of the backing counters.
	Bins() *BinList
	Offset() int
	MinKey() int
	MaxKey() int
	// Copy deep-duplicates other's state into this store. The
	// argument must be the same concrete type; mismatched types are a
	// contract violation, not a recoverable error.
	Copy(other Store)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// newLengthForChunks is the dense get_new_length: round the desired range
// up to the next multiple of chunkSize.
func newLengthForChunks(newMin, newMax, chunkSize int) int {
	desired := newMax - newMin + 1
	numChunks := int(math.Ceil(float64(desired) / float64(chunkSize)))
	return chunkSize * numChunks
}

// shiftBins shifts the backing list by shift positions (positive pushes
// counters toward higher indices) and returns the updated offset.
func shiftBins(bins *BinList, offset, shift int) int {
	if shift > 0 {
		bins.RemoveTrailingElements(shift)
		bins.ExtendFrontWithZeros(shift)
	} else {
		abs := -shift
		bins.RemoveLeadingElements(abs)
		bins.ExtendBackWithZeros(abs)
	}
	return offset - shift
}

// centerAndShift re-centers the backing list around the midpoint of
// [newMin, newMax] and returns the updated offset.
func centerAndShift(bins *BinList, offset, newMin, newMax int) int {
	middle := newMin + (newMax-newMin+1)/2
	shift := offset + bins.Size()/2 - middle
	return shiftBins(bins, offset, shift)
}

// keyAtRank implements the shared dense scan described in spec section
// 4.3.5, used identically by all three store variants.
func keyAtRank(bins *BinList, offset, maxKey int, rank float64, lower bool) int {
	var running float64
	for idx := 0; idx < bins.Size(); idx++ {
		running += bins.At(idx)
		if (lower && running > rank) || (!lower && running >= rank+1) {
			return idx + offset
		}
	}
	return maxKey
}

// growable is the small surface extendRange needs from a concrete store:
// enough to grow the backing window and delegate to the variant's own
// get_new_length/adjust, without extendRange itself needing to know
// which variant it is growing.
type growable interface {
	minKey() int
	maxKey() int
	isEmpty() bool
	length() int
	offset() int
	setOffset(int)
	setRange(min, max int)
	bins() *BinList
	getNewLength(newMin, newMax int) int
	adjust(newMin, newMax int)
}

// extendRange is the shared window-growth policy from spec section
// 4.3.1: first insertion allocates and centers; subsequent growth either
// just updates min/max in place, or extends the backing list and
// re-adjusts (centering for dense, collapsing for the bounded variants).
func extendRange(g growable, key, secondKey int) {
	newMin := minInt(minInt(key, secondKey), g.minKey())
	newMax := maxInt(maxInt(key, secondKey), g.maxKey())

	switch {
	case g.isEmpty():
		g.bins().InitializeWithZeros(g.getNewLength(newMin, newMax))
		g.setOffset(newMin)
		g.adjust(newMin, newMax)
	case newMin >= g.minKey() && newMax < g.offset()+g.length():
		g.setRange(newMin, newMax)
	default:
		newLength := g.getNewLength(newMin, newMax)
		if newLength > g.length() {
			g.bins().ExtendBackWithZeros(newLength - g.length())
		}
		g.adjust(newMin, newMax)
	}
}

// mergeGeneric folds another Store's bins into dst one key at a time.
// Used only when other is not the same concrete type as dst (e.g. a test
// or caller mixing store variants); the typed Merge implementations in
// dense.go/collapsing_*.go take a much cheaper range-based path.
func mergeGeneric(dst Store, other Store) {
	if other.IsEmpty() {
		return
	}
	bins := other.Bins()
	offset := other.Offset()
	for idx := 0; idx < bins.Size(); idx++ {
		if w := bins.At(idx); w != 0 {
			dst.Add(idx+offset, w)
		}
	}
}
