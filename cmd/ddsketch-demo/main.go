// Command ddsketch-demo drives one of the internal/datasets generators
// through a ddsketch.Sketch, a beorn7/perks targeted estimator, and a
// gkquantile.Stream, and prints the three estimates side by side.
package main

import (
	"flag"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/axiomhq/ddsketch/ddsketch"
	"github.com/axiomhq/ddsketch/internal/datasets"
	"github.com/axiomhq/ddsketch/internal/gkquantile"
)

func main() {
	var (
		alpha       = flag.Float64("alpha", 0.01, "relative accuracy")
		n           = flag.Int("n", 100000, "number of samples to draw")
		datasetName = flag.String("dataset", "lognormal", "dataset to draw from (see -list)")
		binLimit    = flag.Int("bin-limit", 0, "bound store size; 0 means unbounded dense stores")
		quantiles   = flag.String("quantiles", "0.5,0.9,0.99", "comma-separated quantiles to report")
		list        = flag.Bool("list", false, "list available datasets and exit")
		seed        = flag.Int64("seed", 1, "random seed")
	)
	flag.Parse()

	if *list {
		for _, ds := range datasets.All() {
			log.Printf("dataset: %s", ds.Name())
		}
		return
	}

	qs, err := parseQuantiles(*quantiles)
	if err != nil {
		log.Fatalf("invalid -quantiles: %v", err)
	}

	dataset, err := findDataset(*datasetName)
	if err != nil {
		log.Fatalf("invalid -dataset: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	values := dataset.Generate(*n, rng)

	sketch, err := newSketch(*alpha, *binLimit)
	if err != nil {
		log.Fatalf("failed to build sketch: %v", err)
	}

	stream, err := gkquantile.NewStream(*alpha, int64(len(values)))
	if err != nil {
		log.Fatalf("failed to build cross-check stream: %v", err)
	}

	for _, v := range values {
		if err := sketch.Add(v, 1); err != nil {
			log.Fatalf("sketch.Add: %v", err)
		}
		if err := stream.Push(v, 1); err != nil {
			log.Fatalf("stream.Push: %v", err)
		}
	}
	if err := stream.Finalize(); err != nil {
		log.Fatalf("stream.Finalize: %v", err)
	}

	perksStream := datasets.PerksStream(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	log.Printf("dataset=%s n=%d alpha=%v num_values=%v sum=%v avg=%v",
		dataset.Name(), *n, *alpha, sketch.NumValues(), sketch.Sum(), sketch.Avg())

	for _, q := range qs {
		trueRank := int(q * float64(len(sorted)-1))
		gkValue, err := stream.GenerateQuantiles(100)
		if err != nil {
			log.Fatalf("stream.GenerateQuantiles: %v", err)
		}
		log.Printf("q=%-5v true=%v ddsketch=%v perks=%v gkquantile≈%v",
			q, sorted[trueRank], sketch.Quantile(q), perksStream.Query(q), gkValue[int(q*float64(len(gkValue)-1))])
	}
}

func newSketch(alpha float64, binLimit int) (*ddsketch.Sketch, error) {
	if binLimit <= 0 {
		return ddsketch.New(alpha)
	}
	return ddsketch.NewWithCollapsingLowest(alpha, binLimit)
}

func findDataset(name string) (datasets.Dataset, error) {
	for _, ds := range datasets.All() {
		if ds.Name() == name {
			return ds, nil
		}
	}
	return nil, &unknownDatasetError{name: name}
}

type unknownDatasetError struct{ name string }

func (e *unknownDatasetError) Error() string {
	return "unknown dataset: " + e.name
}

func parseQuantiles(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
