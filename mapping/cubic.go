package mapping

import "math"

// cubicA, cubicB, cubicC are the coefficients of the cubic polynomial
// used to interpolate log2 within a binade; see
// https://github.com/DataDog/sketches-java/ for the derivation.
const (
	cubicA = 6.0 / 35
	cubicB = -3.0 / 5
	cubicC = 10.0 / 7
)

// CubicallyInterpolated approximates the Logarithmic mapping with a cubic
// interpolation of the fractional log2, more accurate than
// LinearlyInterpolated for the same cost tier, at the price of inverting
// the cubic via Cardano's formula on Value().
type CubicallyInterpolated struct {
	base
}

// NewCubicallyInterpolated builds a CubicallyInterpolated mapping.
func NewCubicallyInterpolated(relativeAccuracy, offset float64) (*CubicallyInterpolated, error) {
	b, err := newBase(relativeAccuracy, offset)
	if err != nil {
		return nil, err
	}
	b.multiplier /= cubicC
	m := &CubicallyInterpolated{base: b}
	m.base.logGamma = m.logGamma
	m.base.powGamma = m.powGamma
	return m, nil
}

// cubicLog2Approx approximates log2(value) with a cubic polynomial in the
// significand, tighter than the linear approximation near binade edges.
func cubicLog2Approx(value float64) float64 {
	mantissa, exponent := math.Frexp(value)
	significand := 2.0*mantissa - 1

	return ((cubicA*significand+cubicB)*significand+cubicC)*significand + float64(exponent-1)
}

// cubicExp2Approx inverts cubicLog2Approx via Cardano's formula for the
// cubic A*s^3 + B*s^2 + C*s - x = 0 in s, where x is the fractional part
// of value.
func cubicExp2Approx(value float64) float64 {
	n := math.Floor(value)
	x := value - n

	delta0 := cubicB*cubicB - 3*cubicA*cubicC
	delta1 := 2*cubicB*cubicB*cubicB - 9*cubicA*cubicB*cubicC - 27*cubicA*cubicA*x

	cardano := math.Cbrt((delta1 - math.Sqrt(delta1*delta1-4*delta0*delta0*delta0)) / 2.0)

	significandPlusOne := -(cubicB+cardano+delta0/cardano)/(3*cubicA) + 1
	mantissa := significandPlusOne / 2.0

	return math.Ldexp(mantissa, int(n)+1)
}

func (m *CubicallyInterpolated) logGamma(value float64) float64 {
	return cubicLog2Approx(value) * m.multiplier
}

func (m *CubicallyInterpolated) powGamma(value float64) float64 {
	return cubicExp2Approx(value / m.multiplier)
}

// Equals reports whether two mappings share the same gamma.
func (m *CubicallyInterpolated) Equals(other IndexMapping) bool {
	return m.equalsGamma(other)
}
