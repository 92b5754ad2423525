package geom

import (
	"fmt"
	"math"

	"github.com/helio-data/sunprep/internal/cube"
)

// Downsample reduces the trailing axes of c by block-averaging factor×factor
// blocks. Partial blocks at the high edges average over the cells that
// exist. NaN cells are excluded from each block mean; a block with no valid
// cell stays NaN so the no-data sentinel survives reduction.
func Downsample(c *cube.Cube, factor int) (*cube.Cube, error) {
	if factor < 1 {
		return nil, fmt.Errorf("downsample: factor must be >= 1, got %d", factor)
	}
	if factor == 1 {
		return c.Clone(), nil
	}
	h, w := c.Dims()
	outH := (h + factor - 1) / factor
	outW := (w + factor - 1) / factor

	shape := append([]int(nil), c.Shape...)
	shape[len(shape)-2] = outH
	shape[len(shape)-1] = outW
	out := cube.New(shape...)

	for f := 0; f < c.Frames(); f++ {
		for by := 0; by < outH; by++ {
			for bx := 0; bx < outW; bx++ {
				sum, n := 0.0, 0
				for y := by * factor; y < (by+1)*factor && y < h; y++ {
					for x := bx * factor; x < (bx+1)*factor && x < w; x++ {
						v := c.Data[(f*h+y)*w+x]
						if math.IsNaN(v) {
							continue
						}
						sum += v
						n++
					}
				}
				v := math.NaN()
				if n > 0 {
					v = sum / float64(n)
				}
				out.Data[(f*outH+by)*outW+bx] = v
			}
		}
	}
	return out, nil
}
