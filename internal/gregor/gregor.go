// Package gregor loads GREGOR HiFI instrument files. One file multiplexes
// two physically distinct image channels as alternating HDU records; the
// loader deinterleaves the configured channel, repairs the known-wrong
// plate-scale keywords in the primary header, and emits frames in
// time-offset order.
package gregor

import (
	"fmt"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/cube"
)

// Plate scale of the HiFI detector in arcseconds per pixel. The values
// recorded in raw file headers are wrong for this instrument and are
// overwritten, not validated, at load time.
const (
	PlateScaleX = 0.0253 / 2560
	PlateScaleY = 0.0253 / 2160
)

// Header keywords read and written by the loader.
const (
	KeyWavelength = "WAVELNTH"
	KeyTimeOffset = "TIMEOFFS"
)

// Channel identifies one of the two image products multiplexed into a
// HiFI file by its wavelength tag.
type Channel struct {
	Name       string
	Wavelength float64
}

// The two HiFI channels.
var (
	GBand     = Channel{Name: "gband", Wavelength: 430.7}
	Continuum = Channel{Name: "continuum", Wavelength: 450.55}
)

// ChannelByName resolves a channel from its configuration name.
func ChannelByName(name string) (Channel, bool) {
	switch name {
	case GBand.Name:
		return GBand, true
	case Continuum.Name:
		return Continuum, true
	}
	return Channel{}, false
}

// Frame pairs one record's raw pixel array with the corrected primary
// header. All frames from one file share the same Header pointer; the
// header is read-only once loading completes. TimeOffset is captured from
// the frame's own record header before it is discarded.
type Frame struct {
	Data       *cube.Cube
	Header     *container.Header
	TimeOffset float64
}

// MissingMetadataError reports a required header keyword absent from an
// instrument file. The load is aborted; there is no recovery.
type MissingMetadataError struct {
	Path string
	Key  string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("gregor: file %s has no %s keyword", e.Path, e.Key)
}

// UnsupportedFileError reports a file whose first two records match
// neither configured channel wavelength.
type UnsupportedFileError struct {
	Path       string
	Wavelength float64
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("gregor: file %s does not carry wavelength %g in either channel", e.Path, e.Wavelength)
}
