package gkquantile

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrBufferSpec is returned when a Buffer is constructed with a
// non-positive capacity.
var ErrBufferSpec = errors.New("invalid buffer specification")

// ErrBufferFull is returned by Push once the buffer has reached its
// capacity; the caller is expected to drain it into a Summary first.
var ErrBufferFull = errors.New("buffer already full")

// Buffer accumulates raw (value, weight) observations up to a capacity,
// then sorts and deduplicates them into a compact entry list ready to
// fold into a Summary.
type Buffer struct {
	entries []entry
	maxSize int64
}

// NewBuffer returns a Buffer sized from a block size and an overall
// element budget: capacity is min(2*blockSize, maxElements).
func NewBuffer(blockSize, maxElements int64) (*Buffer, error) {
	maxSize := blockSize << 1
	if maxSize > maxElements {
		maxSize = maxElements
	}
	if maxSize <= 0 {
		return nil, errors.Wrapf(ErrBufferSpec, "blockSize=%d maxElements=%d", blockSize, maxElements)
	}
	return &Buffer{maxSize: maxSize}, nil
}

// Push appends a (value, weight) observation. Weights <= 0 are dropped
// silently, matching the teacher semantics of a "no-op" insert rather
// than an error, since a zero-weight observation contributes nothing to
// any quantile.
func (b *Buffer) Push(value, weight float64) error {
	if b.IsFull() {
		return errors.Wrapf(ErrBufferFull, "capacity %d", b.maxSize)
	}
	if weight > 0 {
		b.entries = append(b.entries, entry{value, weight})
	}
	return nil
}

// Drain sorts the buffered entries by value, merges equal values by
// summing their weights, and clears the buffer. Callers should call this
// only once the buffer is full, to amortize the sort.
func (b *Buffer) Drain() []entry {
	pending := b.entries
	b.entries = nil

	if len(pending) == 0 {
		return pending
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].lessThan(pending[j]) })
	return coalesce(pending)
}

// coalesce collapses consecutive equal-valued entries in a sorted slice
// into one entry per distinct value, summing their weights, and reports
// the resulting sub-slice.
func coalesce(sorted []entry) []entry {
	distinct := sorted[:1]
	for _, next := range sorted[1:] {
		last := &distinct[len(distinct)-1]
		if next.value == last.value {
			last.weight += next.weight
			continue
		}
		distinct = append(distinct, next)
	}
	return distinct
}

// Size returns the number of entries currently buffered.
func (b *Buffer) Size() int { return len(b.entries) }

// IsFull reports whether the buffer has reached its capacity.
func (b *Buffer) IsFull() bool { return int64(len(b.entries)) >= b.maxSize }

// Clear discards all buffered entries without draining them.
func (b *Buffer) Clear() { b.entries = nil }
