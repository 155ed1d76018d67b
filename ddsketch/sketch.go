// Package ddsketch implements the sketch facade: a Mapping plus two
// Stores (positive, negative) and a handful of running scalars, giving a
// relative-error quantile sketch that can be fed values one at a time and
// merged with other sketches built under the same mapping.
package ddsketch

import (
	"math"

	"github.com/pkg/errors"

	"github.com/axiomhq/ddsketch/mapping"
	"github.com/axiomhq/ddsketch/store"
)

// ErrInvalidParameter is returned when a constructor argument is outside
// its valid domain (e.g. a relative accuracy not in (0, 1)).
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrUnequalParameters is returned by Merge when the receiver and its
// argument were built from mappings with different gamma, and therefore
// cannot be combined into one sketch.
var ErrUnequalParameters = errors.New("sketches have unequal mapping parameters")

// ErrInvalidArgument is returned by Add when called with a non-positive
// weight.
var ErrInvalidArgument = errors.New("invalid argument")

// defaultOffset centers every mapping's bin-key origin at zero; nothing
// in this package needs an off-center mapping.
const defaultOffset = 0.0

// Sketch is a relative-error quantile sketch: a mapping from values to
// bounded integer bin keys, plus two Stores tracking the distribution of
// positive and negative values and a handful of scalars for the values
// too small in magnitude for either store to resolve.
//
// A Sketch is not safe for concurrent use; callers needing concurrent
// access must synchronize externally.
type Sketch struct {
	mapping  mapping.IndexMapping
	positive store.Store
	negative store.Store

	zeroCount float64
	count     float64
	sum       float64
	min       float64
	max       float64
}

// New returns a Sketch with unbounded dense stores and a Logarithmic
// mapping, the memory-optimal but slowest-to-evaluate variant.
func New(alpha float64) (*Sketch, error) {
	m, err := mapping.NewLogarithmic(alpha, defaultOffset)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParameter, "ddsketch.New: %v", err)
	}
	return NewWithMapping(m, store.NewDenseStore(), store.NewDenseStore()), nil
}

// NewWithCollapsingLowest returns a Sketch whose stores collapse their
// lowest bins once more than binLimit bins would be needed, bounding
// memory at the cost of accuracy for the smallest-magnitude values seen.
// A non-positive binLimit is replaced with store.DefaultBinLimit.
func NewWithCollapsingLowest(alpha float64, binLimit int) (*Sketch, error) {
	m, err := mapping.NewLogarithmic(alpha, defaultOffset)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParameter, "ddsketch.NewWithCollapsingLowest: %v", err)
	}
	return NewWithMapping(m,
		store.NewCollapsingLowestDenseStore(binLimit),
		store.NewCollapsingLowestDenseStore(binLimit),
	), nil
}

// NewWithCollapsingHighest returns a Sketch whose stores collapse their
// highest bins once more than binLimit bins would be needed. A
// non-positive binLimit is replaced with store.DefaultBinLimit.
func NewWithCollapsingHighest(alpha float64, binLimit int) (*Sketch, error) {
	m, err := mapping.NewLogarithmic(alpha, defaultOffset)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParameter, "ddsketch.NewWithCollapsingHighest: %v", err)
	}
	return NewWithMapping(m,
		store.NewCollapsingHighestDenseStore(binLimit),
		store.NewCollapsingHighestDenseStore(binLimit),
	), nil
}

// NewWithMapping is the escape hatch for callers supplying their own
// mapping/store combination, e.g. a LinearlyInterpolated or
// CubicallyInterpolated mapping paired with a collapsing store.
func NewWithMapping(m mapping.IndexMapping, positive, negative store.Store) *Sketch {
	return &Sketch{
		mapping:  m,
		positive: positive,
		negative: negative,
		min:      math.Inf(1),
		max:      math.Inf(-1),
	}
}

// Add inserts value with the given weight, which must be strictly
// positive.
func (s *Sketch) Add(value, weight float64) error {
	if weight <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "weight %v must be > 0", weight)
	}

	switch {
	case value > s.mapping.MinPossible():
		s.positive.Add(s.mapping.Key(value), weight)
	case value < -s.mapping.MinPossible():
		s.negative.Add(s.mapping.Key(-value), weight)
	default:
		s.zeroCount += weight
	}

	s.count += weight
	s.sum += value * weight
	if value < s.min {
		s.min = value
	}
	if value > s.max {
		s.max = value
	}
	return nil
}

// Quantile returns the approximate value at rank q, within a factor
// (1 +/- RelativeAccuracy) of the true quantile. Returns NaN if q is
// outside [0, 1] or the sketch holds no values.
func (s *Sketch) Quantile(q float64) float64 {
	if q < 0 || q > 1 || s.count == 0 {
		return math.NaN()
	}

	rank := q * (s.count - 1)

	switch {
	case rank < s.negative.Count():
		reversedRank := s.negative.Count() - rank - 1
		key := s.negative.KeyAtRank(reversedRank, false)
		return -s.mapping.Value(key)
	case rank < s.negative.Count()+s.zeroCount:
		return 0
	default:
		key := s.positive.KeyAtRank(rank-s.zeroCount-s.negative.Count(), true)
		return s.mapping.Value(key)
	}
}

// Merge folds other's observations into s, as if every value added to
// other had instead been added directly to s. other is left unmodified.
// Merge fails with ErrUnequalParameters if the two sketches were built
// from mappings with different gamma.
func (s *Sketch) Merge(other *Sketch) error {
	if !s.Mergeable(other) {
		return errors.Wrapf(ErrUnequalParameters, "gamma %v != %v", s.mapping.Gamma(), other.mapping.Gamma())
	}

	if other.count == 0 {
		return nil
	}
	if s.count == 0 {
		s.copyFrom(other)
		return nil
	}

	s.positive.Merge(other.positive)
	s.negative.Merge(other.negative)
	s.zeroCount += other.zeroCount
	s.count += other.count
	s.sum += other.sum
	if other.min < s.min {
		s.min = other.min
	}
	if other.max > s.max {
		s.max = other.max
	}
	return nil
}

// Mergeable reports whether s and other share the same mapping gamma and
// can therefore be combined with Merge.
func (s *Sketch) Mergeable(other *Sketch) bool {
	return other != nil && s.mapping.Equals(other.mapping)
}

// copyFrom deep-duplicates other's entire state into s, used by Merge
// when s holds no observations yet.
func (s *Sketch) copyFrom(other *Sketch) {
	s.positive.Copy(other.positive)
	s.negative.Copy(other.negative)
	s.zeroCount = other.zeroCount
	s.count = other.count
	s.sum = other.sum
	s.min = other.min
	s.max = other.max
}

// NumValues returns the total weight of all values added so far.
func (s *Sketch) NumValues() float64 { return s.count }

// Sum returns the weighted sum of all values added so far.
func (s *Sketch) Sum() float64 { return s.sum }

// Avg returns Sum()/NumValues(), or 0 if no values have been added.
func (s *Sketch) Avg() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / s.count
}

// Min returns the smallest value added so far, or +Inf if none.
func (s *Sketch) Min() float64 { return s.min }

// Max returns the largest value added so far, or -Inf if none.
func (s *Sketch) Max() float64 { return s.max }

// ZeroCount returns the combined weight of values too small in magnitude
// for either store to resolve.
func (s *Sketch) ZeroCount() float64 { return s.zeroCount }

// RelativeAccuracy returns the mapping's configured relative accuracy.
func (s *Sketch) RelativeAccuracy() float64 { return s.mapping.RelativeAccuracy() }

// Copy returns a deep duplicate of s.
func (s *Sketch) Copy() *Sketch {
	cp := &Sketch{
		mapping: s.mapping,
		min:     s.min,
		max:     s.max,
	}
	switch p := s.positive.(type) {
	case *store.DenseStore:
		np := store.NewDenseStore()
		np.Copy(p)
		cp.positive = np
	case *store.CollapsingLowestDenseStore:
		np := store.NewCollapsingLowestDenseStore(p.BinLimit())
		np.Copy(p)
		cp.positive = np
	case *store.CollapsingHighestDenseStore:
		np := store.NewCollapsingHighestDenseStore(p.BinLimit())
		np.Copy(p)
		cp.positive = np
	}
	switch n := s.negative.(type) {
	case *store.DenseStore:
		nn := store.NewDenseStore()
		nn.Copy(n)
		cp.negative = nn
	case *store.CollapsingLowestDenseStore:
		nn := store.NewCollapsingLowestDenseStore(n.BinLimit())
		nn.Copy(n)
		cp.negative = nn
	case *store.CollapsingHighestDenseStore:
		nn := store.NewCollapsingHighestDenseStore(n.BinLimit())
		nn.Copy(n)
		cp.negative = nn
	}
	cp.zeroCount = s.zeroCount
	cp.count = s.count
	cp.sum = s.sum
	return cp
}
