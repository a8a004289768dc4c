// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package grid provides the dense 2-D raster buffers produced by the
// raster engine and the Backend interface compute backends implement.
//
// Example:
//
//	g := grid.NewGrid(grid.Size{H: 180, W: 240}, grid.CPU)
//	g.Set(10, 20, 1.5)
//	m := g.Dense() // gonum matrix view for downstream vision code
package grid

import (
	internalgrid "github.com/born-ml/evframe/internal/grid"
)

// Device represents the compute device a grid's buffer lives on.
type Device = internalgrid.Device

// Supported compute devices.
const (
	CPU    = internalgrid.CPU
	WebGPU = internalgrid.WebGPU
)

// Size is the nominal sensor shape, rows (H) by columns (W).
type Size = internalgrid.Size

// Grid is a dense row-major float64 raster addressed [row=y, col=x].
type Grid = internalgrid.Grid

// Stack is a fixed set of equally sized grids, one per gradient channel.
type Stack = internalgrid.Stack

// Backend defines the interface that all rasterization backends must
// implement.
type Backend = internalgrid.Backend

// RangeError provides diagnostic context for a batch that cannot be
// placed on a grid.
type RangeError = internalgrid.RangeError

// ErrOutOfRange reports coordinates that cannot be mapped onto the grid.
var ErrOutOfRange = internalgrid.ErrOutOfRange

// NewGrid allocates a zero-filled grid of the given size.
func NewGrid(size Size, device Device) *Grid {
	return internalgrid.NewGrid(size, device)
}

// Full allocates a grid with every cell set to value.
func Full(size Size, value float64, device Device) *Grid {
	return internalgrid.Full(size, value, device)
}

// FromSlice creates a grid backed by a copy of data, which must hold
// exactly size.NumCells() values in row-major order.
func FromSlice(data []float64, size Size, device Device) (*Grid, error) {
	return internalgrid.FromSlice(data, size, device)
}

// NewStack allocates channels zero-filled grids of the given size.
func NewStack(channels int, size Size, device Device) *Stack {
	return internalgrid.NewStack(channels, size, device)
}
