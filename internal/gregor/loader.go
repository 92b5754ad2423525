package gregor

import (
	"fmt"
	"sort"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/container/fits"
	"github.com/helio-data/sunprep/internal/pipeline"
)

// Loader extracts one channel's frame sequence from an interleaved HiFI
// file. Both channels share this implementation; only the configured
// wavelength differs.
type Loader struct {
	channel Channel
	reader  container.Reader
}

// NewLoader builds a Loader for the given channel. A nil reader selects
// the FITS-backed one.
func NewLoader(ch Channel, r container.Reader) *Loader {
	if r == nil {
		r = fits.Reader{}
	}
	return &Loader{channel: ch, reader: r}
}

// Channel returns the configured channel.
func (l *Loader) Channel() Channel { return l.channel }

// Apply implements pipeline.Unit: data is the file path, the result is the
// ordered frame sequence, and the source path becomes visible to later
// units through the "path" metadata update.
func (l *Loader) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	path, ok := data.(string)
	if !ok {
		return nil, nil, fmt.Errorf("gregor: loader wants a file path, got %T", data)
	}
	frames, err := l.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return frames, pipeline.Metadata{"path": path}, nil
}

// Load opens path, selects the channel, corrects the primary header and
// returns the channel's frames sorted ascending by time offset. The sort
// is stable: equal offsets keep container order.
func (l *Loader) Load(path string) ([]*Frame, error) {
	records, err := l.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("gregor: file %s has no records", path)
	}

	primary := records[0].Header
	if !primary.Has(KeyWavelength) {
		return nil, &MissingMetadataError{Path: path, Key: KeyWavelength}
	}

	index, err := l.channelIndex(path, records)
	if err != nil {
		return nil, err
	}

	// The raw header's angular units and per-axis scales are known-wrong
	// for HiFI; overwrite them unconditionally.
	primary.Set("CUNIT1", "arcsec")
	primary.Set("CUNIT2", "arcsec")
	primary.Set("CDELT1", PlateScaleX)
	primary.Set("CDELT2", PlateScaleY)

	var frames []*Frame
	for i := index; i < len(records); i += 2 {
		rec := records[i]
		if rec.Data == nil {
			continue
		}
		offset, _ := rec.Header.Float(KeyTimeOffset)
		frames = append(frames, &Frame{Data: rec.Data, Header: primary, TimeOffset: offset})
	}
	sort.SliceStable(frames, func(a, b int) bool {
		return frames[a].TimeOffset < frames[b].TimeOffset
	})
	return frames, nil
}

// channelIndex decides which of the two interleaved positions holds the
// configured channel by exact wavelength comparison against the first two
// record headers.
func (l *Loader) channelIndex(path string, records []container.Record) (int, error) {
	if wl, ok := records[0].Header.Float(KeyWavelength); ok && wl == l.channel.Wavelength {
		return 0, nil
	}
	if len(records) > 1 {
		if wl, ok := records[1].Header.Float(KeyWavelength); ok && wl == l.channel.Wavelength {
			return 1, nil
		}
	}
	return 0, &UnsupportedFileError{Path: path, Wavelength: l.channel.Wavelength}
}

// FrameData converts a single Frame into its pixel data, exposing the
// shared header to later units through the "header" metadata update.
type FrameData struct{}

// Apply implements pipeline.Unit.
func (FrameData) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	f, ok := data.(*Frame)
	if !ok {
		return nil, nil, fmt.Errorf("gregor: frame data wants *Frame, got %T", data)
	}
	return f.Data, pipeline.Metadata{"header": f.Header}, nil
}
