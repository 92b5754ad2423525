package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helio-data/sunprep/internal/catalog"
)

func seededStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, o := range []catalog.Observation{
		{ScanID: "s", Path: "/data/a.fits", Channel: "gband", Wavelength: 430.7, FrameCount: 100, MinTimeOffset: 0, MaxTimeOffset: 9, ScannedAt: time.Now()},
		{ScanID: "s", Path: "/data/a.fits", Channel: "continuum", Wavelength: 450.55, FrameCount: 100, MinTimeOffset: 0, MaxTimeOffset: 9, ScannedAt: time.Now()},
		{ScanID: "s", Path: "/data/b.fits", Channel: "gband", Wavelength: 430.7, FrameCount: 50, MinTimeOffset: 2, MaxTimeOffset: 5, ScannedAt: time.Now()},
	} {
		require.NoError(t, store.Upsert(o))
	}
	return store
}

func TestWriteRendersReport(t *testing.T) {
	store := seededStore(t)
	out := filepath.Join(t.TempDir(), "report.html")

	require.NoError(t, Write(store, out))

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "Frames per file")
	assert.Contains(t, html, "Time-offset span per file")
	assert.Contains(t, html, "gband")
	assert.Contains(t, html, "continuum")
	assert.Contains(t, html, "a.fits")
}

func TestWriteEmptyCatalog(t *testing.T) {
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer store.Close()

	err = Write(store, filepath.Join(t.TempDir(), "report.html"))
	require.Error(t, err)
}

func TestGroupByChannel(t *testing.T) {
	t.Parallel()

	obs := []catalog.Observation{
		{Path: "b.fits", Channel: "gband", FrameCount: 2},
		{Path: "a.fits", Channel: "gband", FrameCount: 1},
		{Path: "a.fits", Channel: "continuum", FrameCount: 3},
	}
	paths, byChannel := groupByChannel(obs)
	assert.Equal(t, []string{"a.fits", "b.fits"}, paths)
	assert.Equal(t, 1, byChannel["gband"]["a.fits"])
	assert.Equal(t, 2, byChannel["gband"]["b.fits"])
	assert.Equal(t, 3, byChannel["continuum"]["a.fits"])
	assert.Zero(t, byChannel["continuum"]["b.fits"], "absent pairs read as zero")
}
