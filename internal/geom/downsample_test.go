package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helio-data/sunprep/internal/cube"
)

func TestDownsampleBlockAverages(t *testing.T) {
	t.Parallel()

	c := &cube.Cube{Shape: []int{2, 4}, Data: []float64{
		1, 3, 5, 7,
		5, 7, 9, 11,
	}}
	out, err := Downsample(c, 2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out.Shape)
	assert.Equal(t, 4.0, out.At(0, 0))
	assert.Equal(t, 8.0, out.At(0, 1))
}

func TestDownsamplePartialEdgeBlocks(t *testing.T) {
	t.Parallel()

	c := &cube.Cube{Shape: []int{3, 3}, Data: []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}}
	out, err := Downsample(c, 2)
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, out.Shape)
	assert.Equal(t, 3.0, out.At(0, 0))  // mean of 1,2,4,5
	assert.Equal(t, 4.5, out.At(0, 1))  // mean of 3,6
	assert.Equal(t, 7.5, out.At(1, 0))  // mean of 7,8
	assert.Equal(t, 9.0, out.At(1, 1))  // lone corner
}

func TestDownsampleSkipsSentinel(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	c := &cube.Cube{Shape: []int{2, 4}, Data: []float64{
		2, nan, nan, nan,
		4, nan, nan, nan,
	}}
	out, err := Downsample(c, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.At(0, 0), "NaN cells are excluded from the block mean")
	assert.True(t, math.IsNaN(out.At(0, 1)), "all-sentinel blocks stay sentinel")
}

func TestDownsampleFactorOneClones(t *testing.T) {
	t.Parallel()

	c := &cube.Cube{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}
	out, err := Downsample(c, 1)
	require.NoError(t, err)
	assert.Equal(t, c.Data, out.Data)
	out.Data[0] = 99
	assert.Equal(t, 1.0, c.Data[0])
}

func TestDownsampleRejectsBadFactor(t *testing.T) {
	t.Parallel()

	_, err := Downsample(cube.New(2, 2), 0)
	require.Error(t, err)
}
