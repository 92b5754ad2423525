// Package quicklook renders lightweight visual checks of loaded frames:
// grayscale PNG previews and intensity histograms. It exists for humans
// inspecting a dataset, not for the model input path.
package quicklook

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/helio-data/sunprep/internal/cube"
)

// Stats summarizes the valid (non-sentinel) samples of an array.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Valid  int
	NoData int
}

// Summarize computes summary statistics over the non-NaN samples.
func Summarize(c *cube.Cube) Stats {
	vals := validSamples(c)
	s := Stats{Valid: len(vals), NoData: c.Len() - len(vals)}
	if len(vals) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean = stat.Mean(vals, nil)
	s.StdDev = stat.StdDev(vals, nil)
	if len(vals) == 1 {
		s.StdDev = 0
	}
	return s
}

// WriteHistogramPNG renders a histogram of valid intensities to path.
func WriteHistogramPNG(c *cube.Cube, path string, bins int) error {
	vals := validSamples(c)
	if len(vals) == 0 {
		return fmt.Errorf("quicklook: no valid samples to histogram")
	}
	if bins <= 0 {
		bins = 64
	}

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return fmt.Errorf("quicklook: build histogram: %w", err)
	}
	p := plot.New()
	p.Title.Text = "Intensity distribution"
	p.X.Label.Text = "Intensity"
	p.Y.Label.Text = "Count"
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("quicklook: save histogram: %w", err)
	}
	return nil
}

// WritePreviewPNG renders the first frame of c as a grayscale PNG, scaling
// the valid intensity range to 0-255 and mapping NaN to transparent. When
// maxDim > 0 and the frame is larger, the preview is downscaled to fit.
func WritePreviewPNG(c *cube.Cube, path string, maxDim int) error {
	h, w := c.Dims()
	s := Summarize(c)
	if s.Valid == 0 {
		return fmt.Errorf("quicklook: no valid samples to preview")
	}
	span := s.Max - s.Min
	if span == 0 {
		span = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v float64
			if c.Rank() == 3 {
				v = c.At(0, y, x)
			} else {
				v = c.At(y, x)
			}
			if math.IsNaN(v) {
				img.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			g := uint8(math.Round((v - s.Min) / span * 255))
			img.SetNRGBA(x, y, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}

	out := scaleToFit(img, maxDim)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("quicklook: create %s: %w", path, err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("quicklook: encode %s: %w", path, err)
	}
	return f.Close()
}

func scaleToFit(img *image.NRGBA, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	scale := float64(maxDim) / float64(b.Dx())
	if b.Dy() > b.Dx() {
		scale = float64(maxDim) / float64(b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0,
		int(math.Max(1, math.Round(float64(b.Dx())*scale))),
		int(math.Max(1, math.Round(float64(b.Dy())*scale)))))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func validSamples(c *cube.Cube) []float64 {
	vals := make([]float64, 0, c.Len())
	for _, v := range c.Data {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}
