package store

import "github.com/pkg/errors"

// ErrIndexOutOfBounds is returned by CollapsedCount when either bound
// falls outside the current BinList length.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

// BinList is a double-ended, zero-initializable, integer-indexed sequence
// of real-valued bin counters. It backs the dense family of stores and
// supports the front/back zero-extension and range-collapse operations
// the window/growth policy in dense.go needs.
//
// Implemented as a plain slice: the teacher favors plain slices over
// container abstractions (buffer.go's WeightedQuantilesBuffer is a bare
// []BufferEntry), and a store's active window only ever grows at the
// edges or shrinks by a bulk shift, so amortized-O(1) end growth from
// append is enough without a ring buffer.
type BinList struct {
	data []float64
}

// NewBinList returns an empty BinList.
func NewBinList() *BinList {
	return &BinList{}
}

// InitializeWithZeros resets the list to n zero-valued counters.
func (b *BinList) InitializeWithZeros(n int) {
	b.data = make([]float64, n)
}

// ExtendFrontWithZeros grows the list by n zeros at the front.
func (b *BinList) ExtendFrontWithZeros(n int) {
	if n == 0 {
		return
	}
	grown := make([]float64, len(b.data)+n)
	copy(grown[n:], b.data)
	b.data = grown
}

// ExtendBackWithZeros grows the list by n zeros at the back.
func (b *BinList) ExtendBackWithZeros(n int) {
	if n == 0 {
		return
	}
	b.data = append(b.data, make([]float64, n)...)
}

// RemoveLeadingElements shrinks the list by dropping its first n
// elements. Precondition: n <= Size().
func (b *BinList) RemoveLeadingElements(n int) {
	b.data = b.data[n:]
}

// RemoveTrailingElements shrinks the list by dropping its last n
// elements. Precondition: n <= Size().
func (b *BinList) RemoveTrailingElements(n int) {
	b.data = b.data[:len(b.data)-n]
}

// ReplaceRangeWithZeros deletes elements in [start, end) and inserts n
// zeros at start, used to merge-then-rezero a collapsed band.
func (b *BinList) ReplaceRangeWithZeros(start, end, n int) {
	tail := append([]float64{}, b.data[end:]...)
	b.data = append(b.data[:start], make([]float64, n)...)
	b.data = append(b.data, tail...)
}

// CollapsedCount sums the counters in [start, end).
func (b *BinList) CollapsedCount(start, end int) (float64, error) {
	if start < 0 || end < start || end > len(b.data) {
		return 0, errors.Wrapf(ErrIndexOutOfBounds, "range [%d,%d) over length %d", start, end, len(b.data))
	}
	var sum float64
	for _, v := range b.data[start:end] {
		sum += v
	}
	return sum, nil
}

// Sum returns the total of all counters.
func (b *BinList) Sum() float64 {
	sum, _ := b.CollapsedCount(0, len(b.data))
	return sum
}

// HasOnlyZeros reports whether every counter is zero.
func (b *BinList) HasOnlyZeros() bool {
	for _, v := range b.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// At returns the counter at idx.
func (b *BinList) At(idx int) float64 { return b.data[idx] }

// Set overwrites the counter at idx.
func (b *BinList) Set(idx int, v float64) { b.data[idx] = v }

// Add increments the counter at idx by delta.
func (b *BinList) Add(idx int, delta float64) { b.data[idx] += delta }

// First returns the first counter.
func (b *BinList) First() float64 { return b.data[0] }

// SetFirst overwrites the first counter.
func (b *BinList) SetFirst(v float64) { b.data[0] = v }

// Last returns the last counter.
func (b *BinList) Last() float64 { return b.data[len(b.data)-1] }

// SetLast overwrites the last counter.
func (b *BinList) SetLast(v float64) { b.data[len(b.data)-1] = v }

// Size returns the number of counters.
func (b *BinList) Size() int { return len(b.data) }

// Copy deep-copies another BinList's contents into this one.
func (b *BinList) Copy(other *BinList) {
	b.data = append([]float64(nil), other.data...)
}
