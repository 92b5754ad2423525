package pipeline

import (
	"fmt"

	"github.com/helio-data/sunprep/internal/cube"
)

// ReplaceNaN substitutes the no-data sentinel with a concrete fill value.
// This is the stage that must run before any numeric reduction downstream;
// padding deliberately fills with NaN rather than zero so that "not sampled"
// stays distinguishable from "dark" until this point.
type ReplaceNaN struct {
	With float64
}

// Apply implements Unit.
func (r ReplaceNaN) Apply(data any, meta Metadata) (any, Metadata, error) {
	c, err := asCube("replace nan", data)
	if err != nil {
		return nil, nil, err
	}
	return c.ReplaceNaN(r.With), nil, nil
}

// ExpandDims lifts a rank-2 image to a rank-3 stack of one frame, the shape
// expected by the concatenation step and by model input layouts.
type ExpandDims struct{}

// Apply implements Unit.
func (ExpandDims) Apply(data any, meta Metadata) (any, Metadata, error) {
	c, err := asCube("expand dims", data)
	if err != nil {
		return nil, nil, err
	}
	return c.ExpandDims(), nil, nil
}

func asCube(op string, data any) (*cube.Cube, error) {
	c, ok := data.(*cube.Cube)
	if !ok {
		return nil, fmt.Errorf("%s: want *cube.Cube, got %T", op, data)
	}
	return c, nil
}
