// Package cube provides the dense numeric array type shared by all
// preprocessing stages. A Cube is a row-major float64 array of rank 2
// (a single image) or rank 3 (a stack of images sharing one shape).
package cube

import (
	"fmt"
	"math"
)

// Cube is a dense row-major array of pixel samples. The last two axes are
// always (height, width); an optional leading axis indexes stacked frames.
// NaN is the reserved no-data sentinel and is never a valid intensity.
type Cube struct {
	Shape []int
	Data  []float64
}

// New returns a zero-filled Cube with the given shape. It panics if the
// rank is not 2 or 3 or any dimension is non-positive; shape construction
// is always caller-controlled.
func New(shape ...int) *Cube {
	checkShape(shape)
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Cube{Shape: append([]int(nil), shape...), Data: make([]float64, n)}
}

// Full returns a Cube with every sample set to v.
func Full(v float64, shape ...int) *Cube {
	c := New(shape...)
	for i := range c.Data {
		c.Data[i] = v
	}
	return c
}

func checkShape(shape []int) {
	if len(shape) != 2 && len(shape) != 3 {
		panic(fmt.Sprintf("cube: rank must be 2 or 3, got %d", len(shape)))
	}
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("cube: non-positive dimension in shape %v", shape))
		}
	}
}

// Rank returns the number of axes (2 or 3).
func (c *Cube) Rank() int { return len(c.Shape) }

// Dims returns the trailing (height, width) dimensions.
func (c *Cube) Dims() (h, w int) {
	r := c.Rank()
	return c.Shape[r-2], c.Shape[r-1]
}

// Frames returns the leading-axis length, or 1 for a rank-2 Cube.
func (c *Cube) Frames() int {
	if c.Rank() == 3 {
		return c.Shape[0]
	}
	return 1
}

// Len returns the total number of samples.
func (c *Cube) Len() int { return len(c.Data) }

// At returns the sample at (y, x) for rank 2 or (f, y, x) for rank 3.
func (c *Cube) At(idx ...int) float64 {
	return c.Data[c.offset(idx)]
}

// Set stores v at (y, x) for rank 2 or (f, y, x) for rank 3.
func (c *Cube) Set(v float64, idx ...int) {
	c.Data[c.offset(idx)] = v
}

func (c *Cube) offset(idx []int) int {
	if len(idx) != c.Rank() {
		panic(fmt.Sprintf("cube: %d indices for rank-%d cube", len(idx), c.Rank()))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= c.Shape[i] {
			panic(fmt.Sprintf("cube: index %v out of range for shape %v", idx, c.Shape))
		}
		off = off*c.Shape[i] + ix
	}
	return off
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	out := &Cube{Shape: append([]int(nil), c.Shape...), Data: make([]float64, len(c.Data))}
	copy(out.Data, c.Data)
	return out
}

// ExpandDims returns a rank-3 view-copy of a rank-2 Cube with a leading axis
// of length 1. A rank-3 Cube is returned as a clone unchanged.
func (c *Cube) ExpandDims() *Cube {
	out := c.Clone()
	if len(out.Shape) == 2 {
		out.Shape = append([]int{1}, out.Shape...)
	}
	return out
}

// ReplaceNaN returns a copy with every NaN sample replaced by v.
func (c *Cube) ReplaceNaN(v float64) *Cube {
	out := c.Clone()
	for i, s := range out.Data {
		if math.IsNaN(s) {
			out.Data[i] = v
		}
	}
	return out
}

// Concat joins cubes along the leading axis, in argument order. Rank-2
// inputs contribute one frame each. All inputs must share trailing
// (height, width) dimensions.
func Concat(cubes []*Cube) (*Cube, error) {
	if len(cubes) == 0 {
		return nil, fmt.Errorf("cube: concat of zero cubes")
	}
	h0, w0 := cubes[0].Dims()
	frames := 0
	for i, c := range cubes {
		h, w := c.Dims()
		if h != h0 || w != w0 {
			return nil, fmt.Errorf("cube: concat shape mismatch at element %d: (%d,%d) vs (%d,%d)", i, h, w, h0, w0)
		}
		frames += c.Frames()
	}
	out := New(frames, h0, w0)
	off := 0
	for _, c := range cubes {
		copy(out.Data[off:], c.Data)
		off += len(c.Data)
	}
	return out, nil
}
