package framelog

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/cube"
	"github.com/helio-data/sunprep/internal/gregor"
)

func testFrames() []*gregor.Frame {
	h := container.NewHeader()
	h.Set("WAVELNTH", 430.7)
	h.Set("CUNIT1", "arcsec")
	h.Set("CDELT1", gregor.PlateScaleX)

	a := &cube.Cube{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}
	b := &cube.Cube{Shape: []int{2, 2}, Data: []float64{5, 6, 7, 8}}
	return []*gregor.Frame{
		{Data: a, Header: h, TimeOffset: 0.25},
		{Data: b, Header: h, TimeOffset: 1.75},
	}
}

func TestWriteReadFramesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frames.cbor")
	frames := testFrames()
	require.NoError(t, WriteFrames(path, "gband", "obs.fits", frames))

	channel, got, err := ReadFrames(path)
	require.NoError(t, err)
	assert.Equal(t, "gband", channel)
	require.Len(t, got, 2)

	for i := range frames {
		assert.Equal(t, frames[i].Data.Shape, got[i].Data.Shape)
		if diff := cmp.Diff(frames[i].Data.Data, got[i].Data.Data); diff != "" {
			t.Errorf("frame %d data mismatch (-want +got):\n%s", i, diff)
		}
		assert.Equal(t, frames[i].TimeOffset, got[i].TimeOffset)
	}
}

func TestReadFramesReconstructsSharedHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frames.cbor")
	require.NoError(t, WriteFrames(path, "gband", "obs.fits", testFrames()))

	_, got, err := ReadFrames(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, got[0].Header, got[1].Header)

	h := got[0].Header
	assert.Equal(t, []string{"WAVELNTH", "CUNIT1", "CDELT1"}, h.Keys(), "keyword order survives the cache")
	wl, ok := h.Float("WAVELNTH")
	require.True(t, ok)
	assert.Equal(t, 430.7, wl)
	unit, ok := h.Get("CUNIT1")
	require.True(t, ok)
	assert.Equal(t, "arcsec", unit)
}

func TestWriteFramesRejectsEmptySequence(t *testing.T) {
	t.Parallel()

	err := WriteFrames(filepath.Join(t.TempDir(), "x.cbor"), "gband", "obs.fits", nil)
	require.Error(t, err)
}

func TestReadFramesRejectsForeignFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cube.cbor")
	require.NoError(t, WriteCube(path, cube.New(2, 2)))

	_, _, err := ReadFrames(path)
	require.Error(t, err, "a bare cube file has no magic")
}

func TestWriteReadCubeRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "result.cbor")
	c := &cube.Cube{Shape: []int{2, 1, 3}, Data: []float64{1, math.NaN(), -1, 0.5, 0, 2}}
	require.NoError(t, WriteCube(path, c))

	got, err := ReadCube(path)
	require.NoError(t, err)
	assert.Equal(t, c.Shape, got.Shape)
	require.Len(t, got.Data, len(c.Data))
	for i, v := range c.Data {
		if math.IsNaN(v) {
			assert.True(t, math.IsNaN(got.Data[i]), "sentinel at %d must survive encoding", i)
			continue
		}
		assert.Equal(t, v, got.Data[i])
	}
}

func TestReadCubeMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadCube(filepath.Join(t.TempDir(), "absent.cbor"))
	require.Error(t, err)
}
