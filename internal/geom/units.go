package geom

import (
	"fmt"

	"github.com/helio-data/sunprep/internal/cube"
	"github.com/helio-data/sunprep/internal/pipeline"
)

// PadUnit pads pipeline data to a fixed target shape, filling new border
// cells with the no-data sentinel.
type PadUnit struct {
	TargetH int
	TargetW int
}

// Apply implements pipeline.Unit.
func (p PadUnit) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	c, err := asCube("pad", data)
	if err != nil {
		return nil, nil, err
	}
	out, err := Pad(c, p.TargetH, p.TargetW)
	return out, nil, err
}

// UnpadUnit crops pipeline data back to an original shape.
type UnpadUnit struct {
	OrigH int
	OrigW int
}

// Apply implements pipeline.Unit.
func (u UnpadUnit) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	c, err := asCube("unpad", data)
	if err != nil {
		return nil, nil, err
	}
	out, err := Unpad(c, u.OrigH, u.OrigW)
	return out, nil, err
}

// DownsampleUnit block-averages pipeline data by an integer factor.
type DownsampleUnit struct {
	Factor int
}

// Apply implements pipeline.Unit.
func (d DownsampleUnit) Apply(data any, meta pipeline.Metadata) (any, pipeline.Metadata, error) {
	c, err := asCube("downsample", data)
	if err != nil {
		return nil, nil, err
	}
	out, err := Downsample(c, d.Factor)
	return out, nil, err
}

func asCube(op string, data any) (*cube.Cube, error) {
	c, ok := data.(*cube.Cube)
	if !ok {
		return nil, fmt.Errorf("%s: want *cube.Cube, got %T", op, data)
	}
	return c, nil
}
