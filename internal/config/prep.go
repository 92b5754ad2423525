// Package config holds the JSON configuration for the preprocessing CLIs.
// Fields are pointers so partial configs are safe: omitted fields fall
// back to defaults through the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PrepConfig configures the file-to-array conversion pipeline.
type PrepConfig struct {
	Channel          *string  `json:"channel,omitempty"`
	TargetHeight     *int     `json:"target_height,omitempty"`
	TargetWidth      *int     `json:"target_width,omitempty"`
	StretchVMin      *float64 `json:"stretch_vmin,omitempty"`
	StretchVMax      *float64 `json:"stretch_vmax,omitempty"`
	DownsampleFactor *int     `json:"downsample_factor,omitempty"`
	NaNFill          *float64 `json:"nan_fill,omitempty"`
	MaxConcurrent    *int     `json:"max_concurrent,omitempty"`
	CatalogPath      *string  `json:"catalog_path,omitempty"`
}

// EmptyPrepConfig returns a PrepConfig with all fields unset.
func EmptyPrepConfig() *PrepConfig {
	return &PrepConfig{}
}

// LoadPrepConfig loads a PrepConfig from a JSON file. Omitted fields keep
// their defaults, so partial configs are safe.
func LoadPrepConfig(path string) (*PrepConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPrepConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *PrepConfig) Validate() error {
	if c.Channel != nil {
		switch *c.Channel {
		case "gband", "continuum":
		default:
			return fmt.Errorf("channel must be gband or continuum, got %q", *c.Channel)
		}
	}
	if c.TargetHeight != nil && *c.TargetHeight <= 0 {
		return fmt.Errorf("target_height must be positive, got %d", *c.TargetHeight)
	}
	if c.TargetWidth != nil && *c.TargetWidth <= 0 {
		return fmt.Errorf("target_width must be positive, got %d", *c.TargetWidth)
	}
	if c.StretchVMin != nil && c.StretchVMax != nil && *c.StretchVMax <= *c.StretchVMin {
		return fmt.Errorf("stretch_vmax (%g) must exceed stretch_vmin (%g)", *c.StretchVMax, *c.StretchVMin)
	}
	if c.DownsampleFactor != nil && *c.DownsampleFactor < 1 {
		return fmt.Errorf("downsample_factor must be >= 1, got %d", *c.DownsampleFactor)
	}
	if c.MaxConcurrent != nil && *c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must be non-negative, got %d", *c.MaxConcurrent)
	}
	return nil
}

// GetChannel returns the channel name or the default.
func (c *PrepConfig) GetChannel() string {
	if c.Channel == nil {
		return "gband"
	}
	return *c.Channel
}

// GetTargetHeight returns the pad target height or the default.
func (c *PrepConfig) GetTargetHeight() int {
	if c.TargetHeight == nil {
		return 2560
	}
	return *c.TargetHeight
}

// GetTargetWidth returns the pad target width or the default.
func (c *PrepConfig) GetTargetWidth() int {
	if c.TargetWidth == nil {
		return 2560
	}
	return *c.TargetWidth
}

// GetStretchVMin returns the stretch window minimum or the default.
// The defaults mirror the instrument's calibrated display normalization.
func (c *PrepConfig) GetStretchVMin() float64 {
	if c.StretchVMin == nil {
		return -0.4
	}
	return *c.StretchVMin
}

// GetStretchVMax returns the stretch window maximum or the default.
func (c *PrepConfig) GetStretchVMax() float64 {
	if c.StretchVMax == nil {
		return 1.4
	}
	return *c.StretchVMax
}

// GetDownsampleFactor returns the block-reduce factor or the default (1,
// no reduction).
func (c *PrepConfig) GetDownsampleFactor() int {
	if c.DownsampleFactor == nil {
		return 1
	}
	return *c.DownsampleFactor
}

// GetNaNFill returns the sentinel replacement value or the default.
func (c *PrepConfig) GetNaNFill() float64 {
	if c.NaNFill == nil {
		return 0
	}
	return *c.NaNFill
}

// GetMaxConcurrent returns the per-frame concurrency bound, 0 meaning one
// goroutine per frame.
func (c *PrepConfig) GetMaxConcurrent() int {
	if c.MaxConcurrent == nil {
		return 0
	}
	return *c.MaxConcurrent
}

// GetCatalogPath returns the catalog database path or the default.
func (c *PrepConfig) GetCatalogPath() string {
	if c.CatalogPath == nil {
		return "observations.db"
	}
	return *c.CatalogPath
}
