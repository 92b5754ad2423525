// Package stretch maps raw pixel intensities into the [0,1] range and
// rescales them into the [-1,1] model input range. Stretch functions are a
// capability the Normalize unit depends on; calibration-owned stretches can
// be plugged in alongside the built-in ones.
package stretch

import (
	"fmt"
	"math"

	"github.com/helio-data/sunprep/internal/cube"
	"github.com/helio-data/sunprep/internal/pipeline"
)

// Func maps raw intensities to a [0,1]-normalized array. Implementations
// must return a new Cube and leave the input untouched.
type Func func(*cube.Cube) *cube.Cube

// Linear rescales intensities linearly between VMin and VMax. With Clip set,
// output is clamped to [0,1]; otherwise values outside the window map
// outside the unit interval. NaN samples pass through unchanged.
type Linear struct {
	VMin float64
	VMax float64
	Clip bool
}

// Stretch implements the linear mapping (v - vmin) / (vmax - vmin).
func (l Linear) Stretch(c *cube.Cube) *cube.Cube {
	out := c.Clone()
	span := l.VMax - l.VMin
	for i, v := range out.Data {
		if math.IsNaN(v) {
			continue
		}
		s := (v - l.VMin) / span
		if l.Clip {
			s = math.Min(1, math.Max(0, s))
		}
		out.Data[i] = s
	}
	return out
}

// Asinh applies the inverse hyperbolic sine stretch
// asinh(v/a) / asinh(1/a) over values pre-scaled to [0,1] by (VMin, VMax).
// Smaller A emphasises the faint end harder.
type Asinh struct {
	VMin float64
	VMax float64
	A    float64
}

// Stretch implements the asinh mapping with clipping to [0,1].
func (a Asinh) Stretch(c *cube.Cube) *cube.Cube {
	aa := a.A
	if aa <= 0 {
		aa = 0.1
	}
	norm := math.Asinh(1 / aa)
	lin := Linear{VMin: a.VMin, VMax: a.VMax, Clip: true}.Stretch(c)
	for i, v := range lin.Data {
		if math.IsNaN(v) {
			continue
		}
		lin.Data[i] = math.Asinh(v/aa) / norm
	}
	return lin
}

// Normalize applies a stretch and rescales stretch output from [0,1] into
// [-1,1]: out = stretch(in)*2 - 1. Stretch output 0 maps exactly to -1 and
// 1 exactly to +1.
type Normalize struct {
	Stretch Func
}

// Apply implements pipeline.Unit.
func (n Normalize) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	c, ok := data.(*cube.Cube)
	if !ok {
		return nil, nil, fmt.Errorf("normalize: want *cube.Cube, got %T", data)
	}
	if n.Stretch == nil {
		return nil, nil, fmt.Errorf("normalize: no stretch function configured")
	}
	out := n.Stretch(c)
	for i, v := range out.Data {
		if math.IsNaN(v) {
			continue
		}
		out.Data[i] = v*2 - 1
	}
	return out, nil, nil
}
