package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmptyPrepConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyPrepConfig()
	assert.Equal(t, "gband", cfg.GetChannel())
	assert.Equal(t, 2560, cfg.GetTargetHeight())
	assert.Equal(t, 2560, cfg.GetTargetWidth())
	assert.Equal(t, -0.4, cfg.GetStretchVMin())
	assert.Equal(t, 1.4, cfg.GetStretchVMax())
	assert.Equal(t, 1, cfg.GetDownsampleFactor())
	assert.Equal(t, 0.0, cfg.GetNaNFill())
	assert.Equal(t, 0, cfg.GetMaxConcurrent())
	assert.Equal(t, "observations.db", cfg.GetCatalogPath())
}

func TestLoadPrepConfigPartial(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "prep.json", `{
		"channel": "continuum",
		"target_height": 1024,
		"max_concurrent": 4
	}`)

	cfg, err := LoadPrepConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "continuum", cfg.GetChannel())
	assert.Equal(t, 1024, cfg.GetTargetHeight())
	assert.Equal(t, 4, cfg.GetMaxConcurrent())
	// Untouched fields fall through to defaults.
	assert.Equal(t, 2560, cfg.GetTargetWidth())
	assert.Equal(t, -0.4, cfg.GetStretchVMin())
}

func TestLoadPrepConfigRejectsNonJSONExtension(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "prep.yaml", `{}`)
	_, err := LoadPrepConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json")
}

func TestLoadPrepConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadPrepConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadPrepConfigInvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "prep.json", `{"channel": `)
	_, err := LoadPrepConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }
	f := func(v float64) *float64 { return &v }

	cases := []struct {
		name    string
		cfg     PrepConfig
		wantErr string
	}{
		{name: "empty is valid", cfg: PrepConfig{}},
		{name: "known channel", cfg: PrepConfig{Channel: str("continuum")}},
		{name: "unknown channel", cfg: PrepConfig{Channel: str("halpha")}, wantErr: "channel"},
		{name: "zero target height", cfg: PrepConfig{TargetHeight: num(0)}, wantErr: "target_height"},
		{name: "negative target width", cfg: PrepConfig{TargetWidth: num(-1)}, wantErr: "target_width"},
		{name: "inverted stretch window", cfg: PrepConfig{StretchVMin: f(1), StretchVMax: f(0)}, wantErr: "stretch_vmax"},
		{name: "vmin alone is fine", cfg: PrepConfig{StretchVMin: f(5)}},
		{name: "zero downsample factor", cfg: PrepConfig{DownsampleFactor: num(0)}, wantErr: "downsample_factor"},
		{name: "negative concurrency", cfg: PrepConfig{MaxConcurrent: num(-1)}, wantErr: "max_concurrent"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadPrepConfigValidates(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "prep.json", `{"channel": "halpha"}`)
	_, err := LoadPrepConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
