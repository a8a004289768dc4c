// Package grid provides the dense 2-D raster buffers shared by all
// rasterization backends.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Device represents the compute device a grid's buffer lives on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Size is the nominal sensor shape, rows (H) by columns (W).
type Size struct {
	H, W int
}

// Padded returns the size grown by one row and one column, the shape
// required when a bilinear kernel may spill past the nominal boundary.
func (s Size) Padded() Size {
	return Size{H: s.H + 1, W: s.W + 1}
}

// NumCells returns H*W.
func (s Size) NumCells() int {
	return s.H * s.W
}

// String returns the size as "(H, W)".
func (s Size) String() string {
	return fmt.Sprintf("(%d, %d)", s.H, s.W)
}

// Grid is a dense row-major float64 raster addressed [row=y, col=x].
//
// Grids are plain value buffers: they hold no accumulation state of their
// own and every engine call allocates fresh ones. The zero Grid is not
// usable; construct with NewGrid or Full.
type Grid struct {
	size   Size
	device Device
	data   []float64
}

// NewGrid allocates a zero-filled grid of the given size.
func NewGrid(size Size, device Device) *Grid {
	if size.H <= 0 || size.W <= 0 {
		panic(fmt.Sprintf("grid: invalid size %v", size))
	}
	return &Grid{
		size:   size,
		device: device,
		data:   make([]float64, size.NumCells()),
	}
}

// Full allocates a grid with every cell set to value.
func Full(size Size, value float64, device Device) *Grid {
	g := NewGrid(size, device)
	if value != 0 {
		g.Fill(value)
	}
	return g
}

// FromSlice creates a grid backed by a copy of data, which must hold
// exactly size.NumCells() values in row-major order.
func FromSlice(data []float64, size Size, device Device) (*Grid, error) {
	if size.NumCells() != len(data) {
		return nil, fmt.Errorf("grid: size %v requires %d values, got %d", size, size.NumCells(), len(data))
	}
	g := NewGrid(size, device)
	copy(g.data, data)
	return g, nil
}

// Size returns the grid's shape.
func (g *Grid) Size() Size {
	return g.size
}

// Device returns the compute device the grid is tagged with.
func (g *Grid) Device() Device {
	return g.device
}

// Data returns the grid's backing slice in row-major order.
// The slice directly accesses the underlying memory (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the grid.
func (g *Grid) Data() []float64 {
	return g.data
}

// At returns the cell value at row y, column x.
// Panics if the indices are out of bounds.
func (g *Grid) At(y, x int) float64 {
	return g.data[g.offset(y, x)]
}

// Set writes the cell value at row y, column x.
// Panics if the indices are out of bounds.
func (g *Grid) Set(y, x int, v float64) {
	g.data[g.offset(y, x)] = v
}

func (g *Grid) offset(y, x int) int {
	if y < 0 || y >= g.size.H || x < 0 || x >= g.size.W {
		panic(fmt.Sprintf("grid: index (%d, %d) out of bounds for size %v", y, x, g.size))
	}
	return y*g.size.W + x
}

// Fill sets every cell to value.
func (g *Grid) Fill(value float64) {
	for i := range g.data {
		g.data[i] = value
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.size, g.device)
	copy(c.data, g.data)
	return c
}

// Dense returns a gonum matrix view sharing the grid's backing slice
// (zero-copy), for handing rasters to downstream linear-algebra code.
func (g *Grid) Dense() *mat.Dense {
	return mat.NewDense(g.size.H, g.size.W, g.data)
}

// String returns a short description of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid%v on %s", g.size, g.device)
}

// Stack is a fixed set of equally sized grids, one per gradient channel.
type Stack struct {
	channels []*Grid
}

// NewStack allocates channels zero-filled grids of the given size.
func NewStack(channels int, size Size, device Device) *Stack {
	if channels <= 0 {
		panic(fmt.Sprintf("grid: invalid channel count %d", channels))
	}
	s := &Stack{channels: make([]*Grid, channels)}
	for i := range s.channels {
		s.channels[i] = NewGrid(size, device)
	}
	return s
}

// Channels returns the number of grids in the stack.
func (s *Stack) Channels() int {
	return len(s.channels)
}

// Channel returns the i-th grid.
// Panics if i is out of range.
func (s *Stack) Channel(i int) *Grid {
	if i < 0 || i >= len(s.channels) {
		panic(fmt.Sprintf("grid: channel %d out of range [0, %d)", i, len(s.channels)))
	}
	return s.channels[i]
}

// Size returns the shape shared by every channel.
func (s *Stack) Size() Size {
	return s.channels[0].Size()
}
