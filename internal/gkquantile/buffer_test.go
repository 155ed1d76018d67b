package gkquantile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferSizing(t *testing.T) {
	b, err := NewBuffer(4, 100)
	require.NoError(t, err)
	assert.False(t, b.IsFull())

	_, err = NewBuffer(0, 0)
	assert.Error(t, err)
}

func TestBufferPushAndDrain(t *testing.T) {
	b, err := NewBuffer(10, 100)
	require.NoError(t, err)

	values := []float64{5, 1, 3, 1, 2}
	for _, v := range values {
		require.NoError(t, b.Push(v, 1))
	}
	assert.Equal(t, 5, b.Size())

	drained := b.Drain()
	// two pushes of value 1 should have merged into a single weight-2 entry
	assert.Len(t, drained, 4)
	var total float64
	prev := drained[0].value
	for _, e := range drained {
		assert.GreaterOrEqual(t, e.value, prev)
		prev = e.value
		total += e.weight
	}
	assert.Equal(t, float64(5), total)
	assert.Equal(t, 0, b.Size())
}

func TestBufferDropsNonPositiveWeight(t *testing.T) {
	b, err := NewBuffer(10, 100)
	require.NoError(t, err)

	require.NoError(t, b.Push(1, 0))
	require.NoError(t, b.Push(2, -1))
	require.NoError(t, b.Push(3, 1))
	assert.Equal(t, 1, b.Size())
}

func TestBufferFull(t *testing.T) {
	b, err := NewBuffer(1, 2)
	require.NoError(t, err)

	require.NoError(t, b.Push(1, 1))
	require.NoError(t, b.Push(2, 1))
	assert.True(t, b.IsFull())
	assert.ErrorIs(t, b.Push(3, 1), ErrBufferFull)
}

func TestBufferClear(t *testing.T) {
	b, err := NewBuffer(10, 100)
	require.NoError(t, err)
	require.NoError(t, b.Push(1, 1))
	b.Clear()
	assert.Equal(t, 0, b.Size())
}
