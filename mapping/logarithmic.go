package mapping

import "math"

// Logarithmic is the memory-optimal mapping: given a target relative
// accuracy, it requires the fewest keys to cover a value range, at the
// cost of an exact logarithm evaluation per Key/Value call.
type Logarithmic struct {
	base
}

// NewLogarithmic builds a Logarithmic mapping for the given relative
// accuracy, with the bin-key origin at the given offset.
func NewLogarithmic(relativeAccuracy, offset float64) (*Logarithmic, error) {
	b, err := newBase(relativeAccuracy, offset)
	if err != nil {
		return nil, err
	}
	b.multiplier *= math.Ln2
	m := &Logarithmic{base: b}
	m.base.logGamma = m.logGamma
	m.base.powGamma = m.powGamma
	return m, nil
}

func (m *Logarithmic) logGamma(value float64) float64 {
	return math.Log2(value) * m.multiplier
}

func (m *Logarithmic) powGamma(value float64) float64 {
	return math.Exp2(value / m.multiplier)
}

// Equals reports whether two mappings share the same gamma.
func (m *Logarithmic) Equals(other IndexMapping) bool {
	return m.equalsGamma(other)
}
