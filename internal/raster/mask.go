package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

// clipBounds returns the usable coordinate bounds of an output grid.
// Without interpolation or padding the full grid is addressable; in every
// other combination the last row and column are reserved for kernel
// overflow, so the bounds shrink by one.
func clipBounds(img grid.Size, interp Interpolation, padding bool) (clipX, clipY float64) {
	if interp == InterpNone && !padding {
		return float64(img.W), float64(img.H)
	}
	return float64(img.W - 1), float64(img.H - 1)
}

// computeMask returns the per-event validity mask: 1 where the event is
// inside the usable bounds, 0 where it must not contribute. The fast path
// checks upper bounds only; clipNegative adds the lower-bound check.
// Returns nil when clipping is disabled (all events valid).
func computeMask(xs, ys []float64, clipX, clipY float64, clip, clipNegative bool) []float64 {
	if !clip {
		return nil
	}
	mask := make([]float64, len(xs))
	for i := range xs {
		if xs[i] >= clipX || ys[i] >= clipY {
			continue
		}
		if clipNegative && (xs[i] < 0 || ys[i] < 0) {
			continue
		}
		mask[i] = 1
	}
	return mask
}

// decompose splits continuous coordinates into integer bases and
// fractional offsets. Masked events get base (0, 0); their fractional
// offsets are left as-is because their weight is zero anyway. The second
// return is false when an unmasked event has a negative base, which no
// grid can index.
func decompose(xs, ys, mask []float64) (pxs, pys []int, dxs, dys []float64, ok bool) {
	n := len(xs)
	pxs = make([]int, n)
	pys = make([]int, n)
	dxs = make([]float64, n)
	dys = make([]float64, n)
	ok = true
	for i := 0; i < n; i++ {
		fx := math.Floor(xs[i])
		fy := math.Floor(ys[i])
		dxs[i] = xs[i] - fx
		dys[i] = ys[i] - fy
		if mask != nil && mask[i] == 0 {
			continue
		}
		if fx < 0 || fy < 0 {
			ok = false
		}
		pxs[i] = int(fx)
		pys[i] = int(fy)
	}
	return pxs, pys, dxs, dys, ok
}

// applyMask returns ws element-wise multiplied by mask, or a copy of ws
// when mask is nil.
func applyMask(ws, mask []float64) []float64 {
	out := make([]float64, len(ws))
	copy(out, ws)
	if mask != nil {
		floats.Mul(out, mask)
	}
	return out
}

// rangeError builds the diagnostic error for a batch that cannot be
// placed on the grid, carrying the coordinate bounds and attempted shape.
func rangeError(xs, ys []float64, size grid.Size) *grid.RangeError {
	e := &grid.RangeError{Size: size, N: len(xs)}
	if len(xs) > 0 {
		e.MinX, e.MaxX = floats.Min(xs), floats.Max(xs)
		e.MinY, e.MaxY = floats.Min(ys), floats.Max(ys)
	}
	return e
}
