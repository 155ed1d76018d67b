package datasets

import (
	"github.com/beorn7/perks/quantile"
)

// CrossCheckTargets are the quantiles requested from the perks estimator
// alongside whatever quantiles a caller queries from a Sketch, with the
// epsilon tightened toward zero as q moves from the median into the
// upper tail.
var CrossCheckTargets = map[float64]float64{
	0.5:  0.05,
	0.9:  0.01,
	0.99: 0.001,
}

// PerksStream feeds values into a perks/quantile targeted estimator,
// giving cmd/ddsketch-demo and the test suite an independently grounded
// estimate to compare a Sketch's quantiles against. Grounded on
// beorn7/perks's quantile.NewTargeted/Insert/Query usage.
func PerksStream(values []float64) *quantile.Stream {
	stream := quantile.NewTargeted(CrossCheckTargets)
	for _, v := range values {
		stream.Insert(v)
	}
	return stream
}
