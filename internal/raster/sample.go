package raster

import (
	"fmt"
	"math"

	"github.com/born-ml/evframe/internal/grid"
)

// SampleAt reads one bilinearly interpolated value per coordinate from a
// raster, the adjoint of splatting. Coordinates at or beyond
// (W-1, H-1) are masked rather than clamped: the coordinate is zeroed
// before flooring, the gather reads cell (0, 0), and the result is
// multiplied back by the mask, mirroring the splat path's convention.
//
// A negative coordinate below the mask's reach fails the batch with a
// *grid.RangeError. A nil backend selects the CPU.
func SampleAt(img *grid.Grid, xs, ys []float64, b grid.Backend) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: xs=%d ys=%d", ErrBatchMismatch, len(xs), len(ys))
	}
	if b == nil {
		b = Config{}.backend()
	}

	size := img.Size()
	clipX, clipY := float64(size.W-1), float64(size.H-1)

	n := len(xs)
	mask := make([]float64, n)
	pxs := make([]int, n)
	pys := make([]int, n)
	dxs := make([]float64, n)
	dys := make([]float64, n)
	for i := 0; i < n; i++ {
		if xs[i] < clipX && ys[i] < clipY {
			mask[i] = 1
		}
		fx := math.Floor(xs[i] * mask[i])
		fy := math.Floor(ys[i] * mask[i])
		if fx < 0 || fy < 0 {
			return nil, rangeError(xs, ys, size)
		}
		pxs[i] = int(fx)
		pys[i] = int(fy)
		dxs[i] = xs[i] - fx
		dys[i] = ys[i] - fy
	}

	out := b.Sample(img, pxs, pys, dxs, dys)
	for i := range out {
		out[i] *= mask[i]
	}
	return out, nil
}
