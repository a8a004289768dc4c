package raster

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

// AccumulateGradient rasterizes the batch with the bilinear kernel and,
// when Jacobians are supplied, co-computes the gradient stack: channel c
// accumulates the analytic derivative of the splat with respect to event
// position, chained through jx[c] and jy[c], the caller's per-event
// partials of position with respect to warp parameter c.
//
// The value and gradient rasters share one floor/fraction decomposition,
// so they always describe identical sample placement. Passing nil for
// both jx and jy skips the gradient stack (the returned Stack is nil),
// leaving just the always-bilinear value raster. The grid grows by one
// row and column whenever cfg.Padding is set.
func AccumulateGradient(ev Events, jx, jy [][]float64, cfg Config) (*grid.Grid, *grid.Stack, error) {
	if err := ev.validate(false); err != nil {
		return nil, nil, err
	}

	b := cfg.backend()
	img := cfg.Size
	if cfg.Padding {
		img = cfg.Size.Padded()
	}
	clipX, clipY := clipBounds(img, InterpBilinear, cfg.Padding)
	mask := computeMask(ev.Xs, ev.Ys, clipX, clipY, cfg.ClipOutOfRange, cfg.ClipNegative)

	pxs, pys, dxs, dys, ok := decompose(ev.Xs, ev.Ys, mask)
	if !ok || !splatInBounds(pxs, pys, img) {
		return nil, nil, rangeError(ev.Xs, ev.Ys, img)
	}
	ws := applyMask(ev.Ws, mask)

	value := grid.NewGrid(img, b.Device())
	b.Splat(value, pxs, pys, dxs, dys, ws)

	if jx == nil && jy == nil {
		return value, nil, nil
	}
	if err := checkJacobians(jx, jy, ev.Len()); err != nil {
		return nil, nil, err
	}

	// Responses are the Jacobians pre-multiplied by the masked event
	// weight, so a clipped event's gradient contribution is zero too.
	w1 := make([][]float64, len(jx))
	w2 := make([][]float64, len(jy))
	for c := range jx {
		w1[c] = mulElems(jx[c], ws)
		w2[c] = mulElems(jy[c], ws)
	}

	dimg := grid.NewStack(len(jx), img, b.Device())
	b.SplatDerivative(dimg, pxs, pys, dxs, dys, w1, w2)
	return value, dimg, nil
}

// checkJacobians validates the per-channel Jacobian arrays against the
// batch length.
func checkJacobians(jx, jy [][]float64, n int) error {
	if len(jx) == 0 || len(jx) != len(jy) {
		return fmt.Errorf("%w: %d x-jacobian channels, %d y-jacobian channels", ErrBatchMismatch, len(jx), len(jy))
	}
	for c := range jx {
		if len(jx[c]) != n || len(jy[c]) != n {
			return fmt.Errorf("%w: jacobian channel %d has lengths %d, %d, want %d",
				ErrBatchMismatch, c, len(jx[c]), len(jy[c]), n)
		}
	}
	return nil
}

// mulElems returns a*b element-wise as a fresh slice.
func mulElems(a, b []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	floats.Mul(out, b)
	return out
}
