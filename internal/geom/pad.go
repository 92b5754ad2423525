// Package geom implements symmetric pad/unpad and block-average
// downsampling over the trailing (height, width) axes of a Cube.
package geom

import (
	"fmt"
	"math"

	"github.com/helio-data/sunprep/internal/cube"
)

// split divides delta between the low and high side of one axis. The low
// side gets the smaller share when delta is odd. Pad and Unpad share this
// rule so that unpadding removes exactly what padding added.
func split(delta int) (low, high int) {
	return delta / 2, delta - delta/2
}

// Pad grows the trailing axes of c to (targetH, targetW), centring the
// original data and filling the new border with NaN. The leading frame
// axis, if present, is never padded. A target smaller than the current
// shape on either axis is a hard error, not a silent clip.
func Pad(c *cube.Cube, targetH, targetW int) (*cube.Cube, error) {
	h, w := c.Dims()
	if targetH < h || targetW < w {
		return nil, fmt.Errorf("pad: target (%d,%d) smaller than current (%d,%d)", targetH, targetW, h, w)
	}
	lowY, _ := split(targetH - h)
	lowX, _ := split(targetW - w)

	shape := append([]int(nil), c.Shape...)
	shape[len(shape)-2] = targetH
	shape[len(shape)-1] = targetW
	out := cube.Full(math.NaN(), shape...)

	for f := 0; f < c.Frames(); f++ {
		for y := 0; y < h; y++ {
			srcOff := (f*h + y) * w
			dstOff := (f*targetH+y+lowY)*targetW + lowX
			copy(out.Data[dstOff:dstOff+w], c.Data[srcOff:srcOff+w])
		}
	}
	return out, nil
}

// Unpad is the inverse of Pad: it crops the trailing axes of c back to
// (origH, origW) using the same low/high split, so for any original shape
// componentwise <= the pad target, Unpad(Pad(x, target), orig) == x.
func Unpad(c *cube.Cube, origH, origW int) (*cube.Cube, error) {
	h, w := c.Dims()
	if origH > h || origW > w {
		return nil, fmt.Errorf("unpad: original (%d,%d) larger than current (%d,%d)", origH, origW, h, w)
	}
	lowY, _ := split(h - origH)
	lowX, _ := split(w - origW)

	shape := append([]int(nil), c.Shape...)
	shape[len(shape)-2] = origH
	shape[len(shape)-1] = origW
	out := cube.New(shape...)

	for f := 0; f < c.Frames(); f++ {
		for y := 0; y < origH; y++ {
			srcOff := (f*h+y+lowY)*w + lowX
			dstOff := (f*origH + y) * origW
			copy(out.Data[dstOff:dstOff+origW], c.Data[srcOff:srcOff+origW])
		}
	}
	return out, nil
}
