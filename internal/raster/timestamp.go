package raster

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

// TimestampSurfaces builds the per-polarity average timestamp images:
// one raster for positive-weight events and one for events with weight
// at or below zero. Both polarities run through the same grid-shaped
// buffers with binary masks, so cell alignment is preserved between the
// paired value and count grids.
//
// Timestamps are normalized per tcfg against the batch's first and last
// entries; each cell of a polarity's surface holds the mean normalized
// timestamp of that polarity's events landing there, or cfg.Default
// where none did. Splatting is always bilinear in this mode.
func TimestampSurfaces(ev Events, cfg Config, tcfg TimestampConfig) (pos, neg *grid.Grid, err error) {
	if err := ev.validate(true); err != nil {
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

	ts := normalizeTimestamps(ev.Ts, tcfg)
	posMask, negMask := polarityMasks(ev.Ws, mask)

	pos = surface(b, img, pxs, pys, dxs, dys, ts, posMask, cfg.Default)
	neg = surface(b, img, pxs, pys, dxs, dys, ts, negMask, cfg.Default)
	return pos, neg, nil
}

// surface runs one mean accumulation: normalized timestamps weighted by
// the polarity's inclusion mask, divided by the matching count grid.
func surface(b grid.Backend, img grid.Size, pxs, pys []int, dxs, dys, ts, incl []float64, def float64) *grid.Grid {
	weights := make([]float64, len(ts))
	copy(weights, ts)
	floats.Mul(weights, incl)

	val := grid.NewGrid(img, b.Device())
	b.Splat(val, pxs, pys, dxs, dys, weights)
	cnt := grid.NewGrid(img, b.Device())
	b.Splat(cnt, pxs, pys, dxs, dys, incl)

	divideOrDefault(val, cnt, def)
	return val
}

// polarityMasks splits the batch into positive (w > 0) and negative
// (w <= 0) inclusion weights, with the clip mask folded in so a clipped
// event is excluded from both surfaces.
func polarityMasks(ws, mask []float64) (pos, neg []float64) {
	pos = make([]float64, len(ws))
	neg = make([]float64, len(ws))
	for i, w := range ws {
		m := 1.0
		if mask != nil {
			m = mask[i]
		}
		if w > 0 {
			pos[i] = m
		} else {
			neg[i] = m
		}
	}
	return pos, neg
}

// normalizeTimestamps maps the batch's timestamps to [0, 1] against its
// first and last entries, with TimestampEps keeping the division finite
// when every timestamp is equal. Reverse flips the direction. Without
// normalization the raw timestamps are used as weights.
func normalizeTimestamps(ts []float64, tcfg TimestampConfig) []float64 {
	out := make([]float64, len(ts))
	if len(ts) == 0 {
		return out
	}
	if !tcfg.Normalize {
		copy(out, ts)
		return out
	}
	t0, tN := ts[0], ts[len(ts)-1]
	span := tN - t0 + TimestampEps
	for i, t := range ts {
		if tcfg.Reverse {
			out[i] = (tN - t) / span
		} else {
			out[i] = (t - t0) / span
		}
	}
	return out
}
