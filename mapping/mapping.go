// Package mapping implements the value<->bin-key mapping used by the
// ddsketch quantile sketch: a pair of pure functions {Key, Value}
// parameterized by a relative accuracy alpha that convert a positive
// floating-point value into a bounded integer bin index and back, such
// that Value(Key(v)) lies within a factor (1 +/- alpha) of v.
package mapping

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidRelativeAccuracy is returned when alpha is not in (0, 1).
var ErrInvalidRelativeAccuracy = errors.New("relative accuracy must be between 0 and 1")

// IndexMapping is the capability every mapping variant implements. The
// sketch and store packages are written against this interface rather
// than a concrete type so that callers can pick a mapping variant at
// construction time without the rest of the module caring which one.
type IndexMapping interface {
	// Key returns the bin key for a positive value. Behavior is
	// undefined for v <= 0; callers route zero/negative values
	// elsewhere (the sketch does this).
	Key(value float64) int
	// Value returns the representative value for a bin key, accurate
	// to within RelativeAccuracy() of any value that mapped to key.
	Value(key int) float64
	RelativeAccuracy() float64
	Gamma() float64
	MinPossible() float64
	MaxPossible() float64
	// Equals reports whether two mappings are interchangeable for
	// merge purposes (same gamma).
	Equals(other IndexMapping) bool
}

// base holds the fields and computation shared by every variant. Each
// variant supplies its own logGamma/powGamma approximations of log_gamma
// and pow_gamma as closures over multiplier, avoiding the C++ original's
// CRTP dispatch: Key and Value live here once, not per variant.
type base struct {
	relativeAccuracy float64
	offset           float64
	gamma            float64
	multiplier       float64
	minPossible      float64
	maxPossible      float64

	logGamma func(value float64) float64
	powGamma func(value float64) float64
}

func newBase(relativeAccuracy, offset float64) (base, error) {
	if relativeAccuracy <= 0.0 || relativeAccuracy >= 1.0 {
		return base{}, errors.Wrapf(ErrInvalidRelativeAccuracy, "got %v", relativeAccuracy)
	}

	gammaMantissa := 2 * relativeAccuracy / (1 - relativeAccuracy)
	gamma := 1.0 + gammaMantissa
	multiplier := 1.0 / math.Log1p(gammaMantissa)

	return base{
		relativeAccuracy: relativeAccuracy,
		offset:           offset,
		gamma:            gamma,
		multiplier:       multiplier,
		minPossible:      math.SmallestNonzeroFloat64 * gamma,
		maxPossible:      math.MaxFloat64 / gamma,
	}, nil
}

func (b *base) Key(value float64) int {
	return int(math.Ceil(b.logGamma(value)) + b.offset)
}

func (b *base) Value(key int) float64 {
	return b.powGamma(float64(key)-b.offset) * (2.0 / (1 + b.gamma))
}

func (b *base) RelativeAccuracy() float64 { return b.relativeAccuracy }
func (b *base) Gamma() float64            { return b.gamma }
func (b *base) MinPossible() float64      { return b.minPossible }
func (b *base) MaxPossible() float64      { return b.maxPossible }

func (b *base) equalsGamma(other IndexMapping) bool {
	return other != nil && b.gamma == other.Gamma()
}
