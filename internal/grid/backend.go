package grid

import (
	"errors"
	"fmt"
)

// Backend defines the interface that all rasterization backends must
// implement. Backends handle the actual accumulation and sampling for
// grid operations; the raster engine only prepares the per-event arrays.
//
// Implementations:
//   - backend/cpu: Pure Go vectorized loops
//   - backend/webgpu: Cross-platform GPU compute via WebGPU
//
// Every operation is pure with respect to the backend: backends hold no
// per-call state, so a single backend value may be shared by concurrent
// callers.
type Backend interface {
	// Name returns the backend name.
	Name() string

	// Device returns the compute device the backend allocates grids on.
	Device() Device

	// ScatterAdd accumulates ws[i] into img at the integer cell
	// (ys[i], xs[i]) for every event. Contributions to the same cell sum.
	// Coordinates that do not map into the grid yield a *RangeError
	// carrying the coordinate bounds and the attempted shape.
	ScatterAdd(img *Grid, xs, ys, ws []float64) error

	// Splat distributes ws[i] over the four cells surrounding the
	// continuous coordinate (pxs[i]+dxs[i], pys[i]+dys[i]) using bilinear
	// weights. The caller guarantees (pys[i]+1, pxs[i]+1) is in bounds.
	Splat(img *Grid, pxs, pys []int, dxs, dys, ws []float64)

	// SplatDerivative accumulates the analytic derivative of the bilinear
	// kernel into every channel of dst, using the same cell placement as
	// Splat. w1[c][i] carries channel c's x-Jacobian response for event i
	// and w2[c][i] the y-Jacobian response.
	SplatDerivative(dst *Stack, pxs, pys []int, dxs, dys []float64, w1, w2 [][]float64)

	// Sample gathers one bilinearly interpolated value per event from img,
	// the adjoint of Splat.
	Sample(img *Grid, pxs, pys []int, dxs, dys []float64) []float64
}

// ErrOutOfRange reports coordinates that cannot be mapped onto the grid.
var ErrOutOfRange = errors.New("coordinates out of grid range")

// RangeError provides diagnostic context for a failed scatter: the
// coordinate bounds of the offending batch and the shape it was aimed at.
type RangeError struct {
	Size                   Size
	MinX, MaxX, MinY, MaxY float64
	N                      int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"cannot place %d events into grid %v: x range [%g, %g], y range [%g, %g]",
		e.N, e.Size, e.MinX, e.MaxX, e.MinY, e.MaxY)
}

// Unwrap allows errors.Is(err, ErrOutOfRange).
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
