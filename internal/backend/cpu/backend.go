// Package cpu implements the CPU rasterization backend with pure Go
// vectorized loops over flat buffers.
package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

// CPUBackend implements grid accumulation and sampling on the CPU.
type CPUBackend struct {
	device grid.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: grid.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() grid.Device {
	return cpu.device
}

// ScatterAdd accumulates ws into img at integer cells (ys[i], xs[i]).
// Coordinates are truncated to integers; contributions to the same cell
// sum. Any coordinate that does not map into the grid fails the whole
// batch with a *grid.RangeError, never a silent clamp.
func (cpu *CPUBackend) ScatterAdd(img *grid.Grid, xs, ys, ws []float64) error {
	if len(xs) != len(ys) || len(xs) != len(ws) {
		panic(fmt.Sprintf("scatteradd: length mismatch: xs=%d ys=%d ws=%d", len(xs), len(ys), len(ws)))
	}
	if len(xs) == 0 {
		return nil
	}

	size := img.Size()
	data := img.Data()
	for i := range xs {
		x, y := int(xs[i]), int(ys[i])
		if x < 0 || x >= size.W || y < 0 || y >= size.H {
			return &grid.RangeError{
				Size: size,
				MinX: floats.Min(xs), MaxX: floats.Max(xs),
				MinY: floats.Min(ys), MaxY: floats.Max(ys),
				N: len(xs),
			}
		}
		data[y*size.W+x] += ws[i]
	}
	return nil
}
