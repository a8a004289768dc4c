package cpu

import (
	"fmt"

	"github.com/born-ml/evframe/internal/grid"
)

// Splat accumulates each weight onto the four cells surrounding its
// continuous coordinate:
//
//	(py,   px)   += w * (1-dx) * (1-dy)
//	(py,   px+1) += w *    dx  * (1-dy)
//	(py+1, px)   += w * (1-dx) *    dy
//	(py+1, px+1) += w *    dx  *    dy
//
// Colliding events sum. A zero weight is the common path for masked-out
// events and costs four no-op adds. The caller guarantees that
// (pys[i]+1, pxs[i]+1) is in bounds for every event.
func (cpu *CPUBackend) Splat(img *grid.Grid, pxs, pys []int, dxs, dys, ws []float64) {
	checkBatch("splat", len(pxs), len(pys), len(dxs), len(dys), len(ws))

	w := img.Size().W
	data := img.Data()
	for i := range ws {
		base := pys[i]*w + pxs[i]
		dx, dy := dxs[i], dys[i]
		wi := ws[i]
		data[base] += wi * (1 - dx) * (1 - dy)
		data[base+1] += wi * dx * (1 - dy)
		data[base+w] += wi * (1 - dx) * dy
		data[base+w+1] += wi * dx * dy
	}
}

// SplatDerivative accumulates the analytic derivative of the bilinear
// basis functions, chained with the caller's Jacobian responses, into
// every channel of dst. For channel c, w1[c] carries the x-derivative
// path and w2[c] the y-derivative path:
//
//	(py,   px)   += w1*(-(1-dy)) + w2*(-(1-dx))
//	(py,   px+1) += w1*( (1-dy)) + w2*(-dx)
//	(py+1, px)   += w1*(-dy)     + w2*( (1-dx))
//	(py+1, px+1) += w1*( dy)     + w2*( dx)
//
// Cell placement is identical to Splat, so value and gradient rasters
// derived from the same decomposition always agree on sample positions.
func (cpu *CPUBackend) SplatDerivative(dst *grid.Stack, pxs, pys []int, dxs, dys []float64, w1, w2 [][]float64) {
	checkBatch("splatderivative", len(pxs), len(pys), len(dxs), len(dys), len(pxs))
	if len(w1) != dst.Channels() || len(w2) != dst.Channels() {
		panic(fmt.Sprintf("splatderivative: %d channels, got %d x-responses and %d y-responses",
			dst.Channels(), len(w1), len(w2)))
	}

	w := dst.Size().W
	for c := 0; c < dst.Channels(); c++ {
		data := dst.Channel(c).Data()
		w1c, w2c := w1[c], w2[c]
		if len(w1c) != len(pxs) || len(w2c) != len(pxs) {
			panic(fmt.Sprintf("splatderivative: channel %d responses have lengths %d, %d, want %d",
				c, len(w1c), len(w2c), len(pxs)))
		}
		for i := range pxs {
			base := pys[i]*w + pxs[i]
			dx, dy := dxs[i], dys[i]
			a, b := w1c[i], w2c[i]
			data[base] += a*(-(1-dy)) + b*(-(1-dx))
			data[base+1] += a*(1-dy) + b*(-dx)
			data[base+w] += a*(-dy) + b*(1-dx)
			data[base+w+1] += a*dy + b*dx
		}
	}
}

// Sample gathers one bilinearly interpolated value per event, the adjoint
// of Splat: a blend of the four surrounding cells with the same
// complementary-fraction weights, read instead of written.
func (cpu *CPUBackend) Sample(img *grid.Grid, pxs, pys []int, dxs, dys []float64) []float64 {
	checkBatch("sample", len(pxs), len(pys), len(dxs), len(dys), len(pxs))

	w := img.Size().W
	data := img.Data()
	out := make([]float64, len(pxs))
	for i := range pxs {
		base := pys[i]*w + pxs[i]
		dx, dy := dxs[i], dys[i]
		out[i] = data[base]*(1-dx)*(1-dy) +
			data[base+1]*dx*(1-dy) +
			data[base+w]*(1-dx)*dy +
			data[base+w+1]*dx*dy
	}
	return out
}

// checkBatch panics when the parallel arrays of one call disagree in length.
func checkBatch(op string, npx, npy, ndx, ndy, nw int) {
	if npx != npy || npx != ndx || npx != ndy || npx != nw {
		panic(fmt.Sprintf("%s: length mismatch: pxs=%d pys=%d dxs=%d dys=%d ws=%d", op, npx, npy, ndx, ndy, nw))
	}
}
