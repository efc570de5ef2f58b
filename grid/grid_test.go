package grid

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStrictlyIncreasing(t *testing.T, nodes []float64) {
	t.Helper()
	assert.True(t, sort.SliceIsSorted(nodes, func(i, j int) bool { return nodes[i] < nodes[j] }))
	for i := 1; i < len(nodes); i++ {
		assert.Less(t, nodes[i-1], nodes[i])
	}
}

func TestUniform(t *testing.T) {
	nodes, err := Uniform(-1, 3, 5)
	require.NoError(t, err)
	require.Len(t, nodes, 5)
	assert.Equal(t, -1., nodes[0])
	assert.Equal(t, 3., nodes[4])
	assert.InDelta(t, 1., nodes[2], 1e-15)
	assertStrictlyIncreasing(t, nodes)
}

func TestUniformBadInput(t *testing.T) {
	_, err := Uniform(1, 1, 5)
	assert.ErrorIs(t, err, ErrBadInterval)

	_, err = Uniform(0, 1, 1)
	assert.ErrorIs(t, err, ErrTooFewNodes)

	_, err = Uniform(math.NaN(), 1, 3)
	assert.ErrorIs(t, err, ErrBadInterval)
}

func TestChebyshev(t *testing.T) {
	nodes, err := Chebyshev(0, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 0., nodes[0])
	assert.Equal(t, 1., nodes[8])
	assertStrictlyIncreasing(t, nodes)
	// Symmetric about the midpoint.
	assert.InDelta(t, 0.5, nodes[4], 1e-12)
	// Denser near the endpoints than in the middle.
	assert.Less(t, nodes[1]-nodes[0], nodes[4]-nodes[3])
}

func TestChebyshevInterior(t *testing.T) {
	nodes, err := ChebyshevInterior(11)
	require.NoError(t, err)
	require.Len(t, nodes, 11)
	assertStrictlyIncreasing(t, nodes)
	for _, node := range nodes {
		assert.Greater(t, node, 0.)
		assert.Less(t, node, 1.)
	}

	_, err = ChebyshevInterior(0)
	assert.ErrorIs(t, err, ErrTooFewNodes)
}

func TestExponential(t *testing.T) {
	nodes, err := Exponential(0, 10, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, 0., nodes[0])
	assert.Equal(t, 10., nodes[5])
	assertStrictlyIncreasing(t, nodes)
	// Spacing grows away from the lower boundary.
	assert.Less(t, nodes[1]-nodes[0], nodes[5]-nodes[4])

	_, err = Exponential(0, 1, 4, 0)
	assert.ErrorIs(t, err, ErrBadInterval)
}

func TestSmolyakUnsupported(t *testing.T) {
	_, err := Smolyak([]float64{0}, []float64{1}, 3)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
