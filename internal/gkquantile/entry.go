// Package gkquantile implements the Greenwald-Khanna/TensorFlow weighted
// quantiles summary: a streaming, merge-friendly quantile approximator
// distinct from the bin-histogram approach in the ddsketch package. It
// is not part of the core sketch; it exists as a second, independently
// grounded estimator that cmd/ddsketch-demo and the dataset-driven tests
// can cross-check ddsketch quantiles against, the same role
// beorn7/perks plays for the same purpose.
package gkquantile

// entry is one observation pending summarization: a value and its
// weight, as pushed into a Buffer before being folded into a Summary.
type entry struct {
	value  float64
	weight float64
}

func (e entry) lessThan(o entry) bool { return e.value < o.value }

// SummaryEntry is one compressed element of a Summary: a distinct value,
// its total weight, and the [minRank, maxRank] band the true rank of any
// observation equal to value is guaranteed to fall within.
type SummaryEntry struct {
	Value   float64
	Weight  float64
	MinRank float64
	MaxRank float64
}

func (e SummaryEntry) prevMaxRank() float64 { return e.MaxRank - e.Weight }
func (e SummaryEntry) nextMinRank() float64 { return e.MinRank + e.Weight }
