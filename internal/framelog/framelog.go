// Package framelog caches loaded, corrected frame sequences as CBOR files
// so converted datasets can be reopened without re-parsing FITS.
package framelog

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/cube"
	"github.com/helio-data/sunprep/internal/gregor"
)

const magic = "SUNPREP1"

type envelope struct {
	Magic      string        `cbor:"magic"`
	Channel    string        `cbor:"channel"`
	Source     string        `cbor:"source"`
	HeaderKeys []string      `cbor:"header_keys"`
	HeaderVals []any         `cbor:"header_vals"`
	Frames     []frameRecord `cbor:"frames"`
}

type frameRecord struct {
	Shape      []int     `cbor:"shape"`
	Data       []float64 `cbor:"data"`
	TimeOffset float64   `cbor:"time_offset"`
}

// WriteFrames writes a loaded frame sequence to path. The shared corrected
// header is stored once, in keyword order.
func WriteFrames(path, channel, source string, frames []*gregor.Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("framelog: no frames to write")
	}

	hdr := frames[0].Header
	env := envelope{
		Magic:      magic,
		Channel:    channel,
		Source:     source,
		HeaderKeys: hdr.Keys(),
		Frames:     make([]frameRecord, len(frames)),
	}
	for _, k := range env.HeaderKeys {
		v, _ := hdr.Get(k)
		env.HeaderVals = append(env.HeaderVals, v)
	}
	for i, f := range frames {
		env.Frames[i] = frameRecord{
			Shape:      f.Data.Shape,
			Data:       f.Data.Data,
			TimeOffset: f.TimeOffset,
		}
	}
	return writeCBOR(path, env)
}

// ReadFrames reads a frame sequence written by WriteFrames. All returned
// frames share one reconstructed header, mirroring the load-time contract.
func ReadFrames(path string) (channel string, frames []*gregor.Frame, err error) {
	var env envelope
	if err := readCBOR(path, &env); err != nil {
		return "", nil, err
	}
	if env.Magic != magic {
		return "", nil, fmt.Errorf("framelog: %s is not a frame cache (magic %q)", path, env.Magic)
	}
	if len(env.HeaderKeys) != len(env.HeaderVals) {
		return "", nil, fmt.Errorf("framelog: %s has inconsistent header encoding", path)
	}

	hdr := container.NewHeader()
	for i, k := range env.HeaderKeys {
		hdr.Set(k, env.HeaderVals[i])
	}
	frames = make([]*gregor.Frame, len(env.Frames))
	for i, fr := range env.Frames {
		if wantLen(fr.Shape) != len(fr.Data) {
			return "", nil, fmt.Errorf("framelog: %s frame %d shape %v does not match %d samples", path, i, fr.Shape, len(fr.Data))
		}
		frames[i] = &gregor.Frame{
			Data:       &cube.Cube{Shape: fr.Shape, Data: fr.Data},
			Header:     hdr,
			TimeOffset: fr.TimeOffset,
		}
	}
	return env.Channel, frames, nil
}

// WriteCube writes a single pipeline result array to path.
func WriteCube(path string, c *cube.Cube) error {
	return writeCBOR(path, frameRecord{Shape: c.Shape, Data: c.Data})
}

// ReadCube reads an array written by WriteCube.
func ReadCube(path string) (*cube.Cube, error) {
	var fr frameRecord
	if err := readCBOR(path, &fr); err != nil {
		return nil, err
	}
	if wantLen(fr.Shape) != len(fr.Data) {
		return nil, fmt.Errorf("framelog: %s shape %v does not match %d samples", path, fr.Shape, len(fr.Data))
	}
	return &cube.Cube{Shape: fr.Shape, Data: fr.Data}, nil
}

func wantLen(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if len(shape) == 0 {
		return 0
	}
	return n
}

func writeCBOR(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("framelog: create %s: %w", path, err)
	}
	w := bufio.NewWriterSize(f, 1<<20)
	if err := cbor.NewEncoder(w).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("framelog: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("framelog: flush %s: %w", path, err)
	}
	return f.Close()
}

func readCBOR(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("framelog: open %s: %w", path, err)
	}
	defer f.Close()
	if err := cbor.NewDecoder(bufio.NewReaderSize(f, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("framelog: decode %s: %w", path, err)
	}
	return nil
}
