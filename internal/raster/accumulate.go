package raster

import (
	"github.com/born-ml/evframe/internal/grid"
)

// Accumulate rasterizes the batch into a single grid: img[y, x] += w for
// every event, through either direct integer scatter or the bilinear
// kernel. With cfg.MeanVal the accumulated weight per cell is divided by
// the event count that landed there.
//
// The two interpolation paths treat cfg.Default differently, on purpose:
// direct scatter starts from a Default-filled grid, so touched cells end
// up at Default plus their sum, while the bilinear path accumulates into
// a zero grid and afterwards substitutes Default into cells whose value
// is exactly zero, whether untouched or cancelled out.
func Accumulate(ev Events, cfg Config) (*grid.Grid, error) {
	if err := ev.validate(false); err != nil {
		return nil, err
	}

	b := cfg.backend()
	img := cfg.imageSize()
	clipX, clipY := clipBounds(img, cfg.Interp, cfg.Padding)
	mask := computeMask(ev.Xs, ev.Ys, clipX, clipY, cfg.ClipOutOfRange, cfg.ClipNegative)

	if cfg.Interp == InterpBilinear {
		return accumulateBilinear(ev, cfg, b, img, mask)
	}
	return accumulateDirect(ev, cfg, b, img, mask)
}

func accumulateDirect(ev Events, cfg Config, b grid.Backend, img grid.Size, mask []float64) (*grid.Grid, error) {
	// Zero-then-scatter: masked events land at cell (0, 0) with zero
	// weight instead of being filtered, keeping batch shapes intact.
	xs := applyMask(ev.Xs, mask)
	ys := applyMask(ev.Ys, mask)
	ws := applyMask(ev.Ws, mask)

	if !cfg.MeanVal {
		out := grid.Full(img, cfg.Default, b.Device())
		if err := b.ScatterAdd(out, xs, ys, ws); err != nil {
			return nil, rangeError(ev.Xs, ev.Ys, img)
		}
		return out, nil
	}

	sum := grid.NewGrid(img, b.Device())
	if err := b.ScatterAdd(sum, xs, ys, ws); err != nil {
		return nil, rangeError(ev.Xs, ev.Ys, img)
	}
	cnt := grid.NewGrid(img, b.Device())
	if err := b.ScatterAdd(cnt, xs, ys, countWeights(ev.Len(), mask)); err != nil {
		return nil, rangeError(ev.Xs, ev.Ys, img)
	}
	divideOrDefault(sum, cnt, cfg.Default)
	return sum, nil
}

func accumulateBilinear(ev Events, cfg Config, b grid.Backend, img grid.Size, mask []float64) (*grid.Grid, error) {
	pxs, pys, dxs, dys, ok := decompose(ev.Xs, ev.Ys, mask)
	if !ok || !splatInBounds(pxs, pys, img) {
		return nil, rangeError(ev.Xs, ev.Ys, img)
	}
	ws := applyMask(ev.Ws, mask)

	sum := grid.NewGrid(img, b.Device())
	b.Splat(sum, pxs, pys, dxs, dys, ws)
	substituteZeros(sum, cfg.Default)

	if cfg.MeanVal {
		cnt := grid.NewGrid(img, b.Device())
		b.Splat(cnt, pxs, pys, dxs, dys, countWeights(ev.Len(), mask))
		divideOrDefault(sum, cnt, cfg.Default)
	}
	return sum, nil
}

// countWeights returns the per-event inclusion weight for count grids:
// the clip mask itself, or all ones when clipping is off.
func countWeights(n int, mask []float64) []float64 {
	out := make([]float64, n)
	if mask != nil {
		copy(out, mask)
		return out
	}
	for i := range out {
		out[i] = 1
	}
	return out
}

// splatInBounds reports whether every base cell leaves room for the
// kernel's +1 row and column. The mask stage guarantees this when
// clipping is on; with clipping off it is the caller's contract, checked
// here so a violation surfaces as a range error instead of a panic.
func splatInBounds(pxs, pys []int, img grid.Size) bool {
	for i := range pxs {
		if pxs[i] < 0 || pxs[i]+1 >= img.W || pys[i] < 0 || pys[i]+1 >= img.H {
			return false
		}
	}
	return true
}

// substituteZeros writes def into every cell whose value is exactly zero.
func substituteZeros(g *grid.Grid, def float64) {
	if def == 0 {
		return
	}
	data := g.Data()
	for i, v := range data {
		if v == 0 {
			data[i] = def
		}
	}
}

// divideOrDefault replaces sum with sum/cnt per cell where cnt > 0 and
// def elsewhere. The count guard runs before the division, so a zero
// count never reaches the divide and the output stays finite.
func divideOrDefault(sum, cnt *grid.Grid, def float64) {
	s := sum.Data()
	c := cnt.Data()
	for i := range s {
		if c[i] > 0 {
			s[i] /= c[i]
		} else {
			s[i] = def
		}
	}
}
