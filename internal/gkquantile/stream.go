package gkquantile

import (
	"math"

	"github.com/pkg/errors"
)

// ErrStreamFinalized is returned by any mutating Stream method once
// Finalize has been called.
var ErrStreamFinalized = errors.New("Finalize() already called")

// Stream is a streaming, mergeable approximate quantile summary built as
// a hierarchy of Summary levels: a Buffer absorbs raw pushes, each full
// buffer becomes a freshly compressed local Summary, and that local
// Summary is folded upward one level at a time until it lands in a
// level that still satisfies the block-size bound. This mirrors the
// geometric merge-and-compress tree used to cross-check
// ddsketch.Sketch's own rank-based quantile answers against an
// independently derived estimate.
type Stream struct {
	eps          float64
	blockSize    int64
	buffer       *Buffer
	localSummary *Summary
	levels       []*Summary
	finalized    bool
}

// NewStream returns a Stream targeting relative error eps over at most
// maxElements observations.
func NewStream(eps float64, maxElements int64) (*Stream, error) {
	if eps <= 0 {
		return nil, errors.New("an epsilon value of zero is not allowed")
	}

	capacity, err := blockCapacity(eps, maxElements)
	if err != nil {
		return nil, err
	}

	buffer, err := NewBuffer(capacity, maxElements)
	if err != nil {
		return nil, err
	}

	return &Stream{
		eps:          eps,
		blockSize:    capacity,
		buffer:       buffer,
		localSummary: newSummary(),
	}, nil
}

// Push adds a weighted observation, draining the buffer into the
// summary hierarchy once it fills.
func (s *Stream) Push(value, weight float64) error {
	if s.finalized {
		return ErrStreamFinalized
	}
	if err := s.buffer.Push(value, weight); err != nil {
		return err
	}
	if s.buffer.IsFull() {
		return s.drainBuffer()
	}
	return nil
}

func (s *Stream) drainBuffer() error {
	if s.finalized {
		return ErrStreamFinalized
	}
	s.localSummary.buildFromEntries(s.buffer.Drain())
	s.localSummary.Compress(s.blockSize, s.eps)
	return s.foldUpward(0)
}

// PushSummary merges a pre-built list of summary entries into the
// stream, maintaining the same approximation-error invariants as
// repeated Push calls would.
func (s *Stream) PushSummary(entries []*SummaryEntry) error {
	if s.finalized {
		return ErrStreamFinalized
	}
	s.localSummary.BuildFromSummaryEntries(entries)
	s.localSummary.Compress(s.blockSize, s.eps)
	return s.foldUpward(0)
}

// Finalize flushes any buffered observations and merges every summary
// level into one, after which only query methods remain valid.
func (s *Stream) Finalize() error {
	if s.finalized {
		return ErrStreamFinalized
	}

	if err := s.drainBuffer(); err != nil {
		return err
	}

	s.localSummary.Clear()
	for _, level := range s.levels {
		s.localSummary.Merge(level)
	}

	s.levels = nil
	s.finalized = true
	return nil
}

// foldUpward recursively merges the pending local summary into depth's
// level. If that level is still empty or the merged result still fits
// the block-size bound, the merge settles there; otherwise the merged
// result is compressed and the recursion continues one level higher.
// This expresses the teacher's iterative "push up a tower of summaries"
// loop as a tail recursion instead, one call frame per tree level.
func (s *Stream) foldUpward(depth int) error {
	if s.finalized {
		return ErrStreamFinalized
	}
	if s.localSummary.Size() <= 0 {
		return nil
	}

	if depth >= len(s.levels) {
		s.levels = append(s.levels, newSummary())
	}
	level := s.levels[depth]

	s.localSummary.Merge(level)

	if level.Size() == 0 || s.localSummary.Size() <= s.blockSize+1 {
		*level = *s.localSummary
		s.localSummary = newSummary()
		return nil
	}

	s.localSummary.Compress(s.blockSize, s.eps)
	level.Clear()
	return s.foldUpward(depth + 1)
}

// GenerateQuantiles returns numQuantiles+1 approximate quantile values
// (numQuantiles below 2 is raised to 2). Finalize must have been called
// first.
func (s *Stream) GenerateQuantiles(numQuantiles int64) ([]float64, error) {
	if !s.finalized {
		return nil, errors.New("Finalize() must be called before generating quantiles")
	}
	return s.localSummary.GenerateQuantiles(numQuantiles), nil
}

// GenerateBoundaries returns a sample of boundary values that maintain
// the approximation bound without necessarily being exact quantiles.
// Finalize must have been called first.
func (s *Stream) GenerateBoundaries(numBoundaries int64) ([]float64, error) {
	if !s.finalized {
		return nil, errors.New("Finalize() must be called before generating quantiles")
	}
	return s.localSummary.GenerateBoundaries(numBoundaries), nil
}

// QuantileValue returns the single approximate value at rank q,
// resolved by walking the flattened summary's rank bands the same way
// ddsketch.Sketch.Quantile walks its stores' cumulative counts. Unlike
// GenerateQuantiles, which amortizes many evenly spaced rank queries
// into one O(n) pass, this answers one arbitrary q at a time so the
// two estimators can be compared at identical quantile arguments.
// Finalize must have been called first.
func (s *Stream) QuantileValue(q float64) (float64, error) {
	if !s.finalized {
		return 0, errors.New("Finalize() must be called before querying a quantile value")
	}
	return s.localSummary.QuantileValue(q)
}

// ApproximationError returns the approximation error at the given
// summary level, or that of the top-most (most approximated) level if
// level is negative. After Finalize, only the flattened summary's overall
// error is available: it is returned for any level <= 0, and a positive
// level is an error.
func (s *Stream) ApproximationError(level int64) (float64, error) {
	if s.finalized {
		if level > 0 {
			return 0, errors.New("only overall error is available after Finalize()")
		}
		return s.localSummary.ApproximationError(), nil
	}

	if len(s.levels) == 0 {
		return 0, nil
	}

	if level < 0 {
		level = int64(len(s.levels)) - 1
	}
	if level >= int64(len(s.levels)) {
		return 0, errors.New("invalid level")
	}
	return s.levels[level].ApproximationError(), nil
}

// MaxDepth returns the number of active summary levels.
func (s *Stream) MaxDepth() int { return len(s.levels) }

// FinalSummary returns the flattened summary. Finalize must have been
// called first.
func (s *Stream) FinalSummary() (*Summary, error) {
	if !s.finalized {
		return nil, errors.New("Finalize() must be called before generating quantiles")
	}
	return s.localSummary, nil
}

// blockCapacity derives the per-level entry budget that keeps a
// maxElements-observation stream within relative error eps: doubling
// the tree depth at most halves how often any one level needs to
// absorb a merge, so the smallest capacity that empties the bottom
// level often enough to keep the top level from ever overflowing is
// found by growing depth one level at a time until capacity*2^depth
// covers maxElements.
func blockCapacity(eps float64, maxElements int64) (int64, error) {
	if eps < 0 || eps >= 1 {
		return 0, errors.New("eps should be element of [0, 1)")
	}
	if maxElements <= 0 {
		return 0, errors.New("maxElements should be > 0")
	}

	if eps <= math.SmallestNonzeroFloat64 {
		return maxInt64(maxElements, 2), nil
	}

	capacity := int64(2)
	for depth := int64(1); ; depth++ {
		if uint64(1)<<uint64(depth)*uint64(capacity) >= uint64(maxElements) {
			break
		}
		capacity = int64(math.Ceil(float64(depth)/eps) + 1)
	}
	return maxInt64(capacity, 2), nil
}
