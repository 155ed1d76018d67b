package ddsketch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomhq/ddsketch/ddsketch"
)

// TestExampleQuantilesWithinRelativeAccuracy walks through the package's
// intended usage — build a sketch at a target accuracy, add observations
// one at a time, read quantiles back — and checks the results the way a
// caller would: every reported quantile must fall within the configured
// relative accuracy of the true value, not just "some plausible number".
func TestExampleQuantilesWithinRelativeAccuracy(t *testing.T) {
	const alpha = 0.01

	sketch, err := ddsketch.New(alpha)
	require.NoError(t, err)

	for i := 1; i <= 1000; i++ {
		require.NoError(t, sketch.Add(float64(i), 1))
	}

	cases := []struct {
		q    float64
		want float64
	}{
		{0.5, 500},
		{0.9, 900},
		{0.99, 990},
	}
	for _, c := range cases {
		got := sketch.Quantile(c.q)
		assert.LessOrEqual(t, got, c.want*(1+alpha)+1e-9, "q=%v", c.q)
		assert.GreaterOrEqual(t, got, c.want*(1-alpha)-1e-9, "q=%v", c.q)
	}
}
