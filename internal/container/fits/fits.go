// Package fits reads FITS instrument files into container records using
// astrogo/fitsio. Only image HDUs with at least two axes carry pixel data;
// headers are copied for every HDU so keyword lookups stay cheap and the
// fitsio handle can be closed early.
package fits

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/cube"
)

// Reader implements container.Reader over FITS files.
type Reader struct{}

// ReadFile opens path and returns one record per HDU, in file order.
func (Reader) ReadFile(path string) ([]container.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fits: open %s: %w", path, err)
	}
	defer f.Close()

	ff, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("fits: parse %s: %w", path, err)
	}
	defer ff.Close()

	var records []container.Record
	for i, hdu := range ff.HDUs() {
		hdr := hdu.Header()

		h := container.NewHeader()
		for _, key := range hdr.Keys() {
			if card := hdr.Get(key); card != nil {
				h.Set(key, card.Value)
			}
		}

		rec := container.Record{Header: h}
		if img, ok := hdu.(fitsio.Image); ok {
			data, derr := readImage(img, hdr)
			if derr != nil {
				return nil, fmt.Errorf("fits: %s HDU %d: %w", path, i, derr)
			}
			rec.Data = data
		}
		records = append(records, rec)
	}
	return records, nil
}

// readImage converts an image HDU's pixels into a rank-2 Cube with shape
// (NAXIS2, NAXIS1). HDUs without two axes (e.g. a bare primary header)
// yield nil data.
func readImage(img fitsio.Image, hdr *fitsio.Header) (*cube.Cube, error) {
	axes := hdr.Axes()
	if len(axes) < 2 {
		return nil, nil
	}
	w, h := axes[0], axes[1]
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	samples, err := readSamples(img, hdr.Bitpix())
	if err != nil {
		return nil, err
	}
	if len(samples) != h*w {
		return nil, fmt.Errorf("pixel count %d does not match axes %dx%d", len(samples), h, w)
	}
	return &cube.Cube{Shape: []int{h, w}, Data: samples}, nil
}

func readSamples(img fitsio.Image, bitpix int) ([]float64, error) {
	switch bitpix {
	case 8:
		var raw []uint8
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 64:
		var raw []int64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case -64:
		var raw []float64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func toFloat64[T uint8 | int16 | int32 | int64 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}
