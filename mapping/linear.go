package mapping

import "math"

// LinearlyInterpolated approximates the Logarithmic mapping by extracting
// the binary exponent/mantissa of the IEEE-754 representation and
// linearly interpolating the fractional part of the logarithm, trading a
// small amount of memory density for a much cheaper Key/Value evaluation.
type LinearlyInterpolated struct {
	base
}

// NewLinearlyInterpolated builds a LinearlyInterpolated mapping.
func NewLinearlyInterpolated(relativeAccuracy, offset float64) (*LinearlyInterpolated, error) {
	b, err := newBase(relativeAccuracy, offset)
	if err != nil {
		return nil, err
	}
	m := &LinearlyInterpolated{base: b}
	m.base.logGamma = m.logGamma
	m.base.powGamma = m.powGamma
	return m, nil
}

// log2Approx approximates log2(value) as significand + (exponent - 1),
// where frexp(value) = mantissa * 2**exponent, mantissa in [0.5, 1), and
// significand = 2*mantissa - 1 in [0, 1).
func log2Approx(value float64) float64 {
	mantissa, exponent := math.Frexp(value)
	significand := 2.0*mantissa - 1
	return significand + float64(exponent-1)
}

// exp2Approx is the closed-form inverse of log2Approx.
func exp2Approx(value float64) float64 {
	exponent := math.Floor(value) + 1
	mantissa := (value - exponent + 2) / 2.0
	return math.Ldexp(mantissa, int(exponent))
}

func (m *LinearlyInterpolated) logGamma(value float64) float64 {
	return log2Approx(value) * m.multiplier
}

func (m *LinearlyInterpolated) powGamma(value float64) float64 {
	return exp2Approx(value / m.multiplier)
}

// Equals reports whether two mappings share the same gamma.
func (m *LinearlyInterpolated) Equals(other IndexMapping) bool {
	return m.equalsGamma(other)
}
