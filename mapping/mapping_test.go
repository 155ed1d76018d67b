package mapping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constructors() map[string]func(alpha, offset float64) (IndexMapping, error) {
	return map[string]func(alpha, offset float64) (IndexMapping, error){
		"Logarithmic": func(alpha, offset float64) (IndexMapping, error) {
			return NewLogarithmic(alpha, offset)
		},
		"LinearlyInterpolated": func(alpha, offset float64) (IndexMapping, error) {
			return NewLinearlyInterpolated(alpha, offset)
		},
		"CubicallyInterpolated": func(alpha, offset float64) (IndexMapping, error) {
			return NewCubicallyInterpolated(alpha, offset)
		},
	}
}

func TestNewMappingRejectsInvalidAccuracy(t *testing.T) {
	for name, newMapping := range constructors() {
		t.Run(name, func(t *testing.T) {
			_, err := newMapping(0, 0)
			assert.ErrorIs(t, err, ErrInvalidRelativeAccuracy)

			_, err = newMapping(1, 0)
			assert.ErrorIs(t, err, ErrInvalidRelativeAccuracy)

			_, err = newMapping(-0.1, 0)
			assert.ErrorIs(t, err, ErrInvalidRelativeAccuracy)
		})
	}
}

func TestMappingKeyAtOffsetIsFloorOffset(t *testing.T) {
	for name, newMapping := range constructors() {
		t.Run(name, func(t *testing.T) {
			for _, offset := range []float64{0, 10, -10, 3.7} {
				m, err := newMapping(0.01, offset)
				require.NoError(t, err)
				assert.Equal(t, int(math.Floor(offset)), m.Key(1))
			}
		})
	}
}

func TestMappingValueWithinRelativeAccuracy(t *testing.T) {
	alphas := []float64{0.1, 0.05, 0.01, 0.001}

	for name, newMapping := range constructors() {
		t.Run(name, func(t *testing.T) {
			for _, alpha := range alphas {
				m, err := newMapping(alpha, 0)
				require.NoError(t, err)

				for _, v := range []float64{1e-6, 1e-3, 1, 2, 10, 100, 1e6, 1e12} {
					key := m.Key(v)
					reconstructed := m.Value(key)

					relativeError := math.Abs(reconstructed-v) / v
					assert.LessOrEqualf(t, relativeError, alpha+1e-9,
						"%s alpha=%v v=%v reconstructed=%v", name, alpha, v, reconstructed)
				}
			}
		})
	}
}

func TestMappingKeyIsMonotonic(t *testing.T) {
	for name, newMapping := range constructors() {
		t.Run(name, func(t *testing.T) {
			m, err := newMapping(0.02, 0)
			require.NoError(t, err)

			prevKey := m.Key(1e-9)
			for _, v := range []float64{1e-8, 1e-6, 1e-3, 1, 10, 1000, 1e9} {
				key := m.Key(v)
				assert.GreaterOrEqual(t, key, prevKey)
				prevKey = key
			}
		})
	}
}

func TestMappingEqualsGamma(t *testing.T) {
	a, err := NewLogarithmic(0.02, 0)
	require.NoError(t, err)
	b, err := NewLogarithmic(0.02, 5)
	require.NoError(t, err)
	c, err := NewLogarithmic(0.1, 0)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}

func TestMappingMinMaxPossible(t *testing.T) {
	for name, newMapping := range constructors() {
		t.Run(name, func(t *testing.T) {
			m, err := newMapping(0.02, 0)
			require.NoError(t, err)
			assert.Greater(t, m.MinPossible(), 0.0)
			assert.Greater(t, m.MaxPossible(), m.MinPossible())
		})
	}
}
