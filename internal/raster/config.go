package raster

import (
	"github.com/born-ml/evframe/internal/backend/cpu"
	"github.com/born-ml/evframe/internal/grid"
)

// TimestampEps is added to the timestamp span during normalization so an
// all-equal batch divides by a small constant instead of zero.
const TimestampEps = 1e-6

// Interpolation selects how event weights reach grid cells.
//
// Direct scatter is kept as its own dispatch arm rather than treating it
// as bilinear with zero fractional offset: it skips the four per-event
// kernel weights entirely.
type Interpolation int

// Supported interpolation modes.
const (
	// InterpNone truncates coordinates to integers and scatter-adds
	// directly into single cells.
	InterpNone Interpolation = iota
	// InterpBilinear splats each event over the four surrounding cells.
	InterpBilinear
)

// String returns a human-readable mode name.
func (in Interpolation) String() string {
	switch in {
	case InterpNone:
		return "none"
	case InterpBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// Config controls one rasterization call.
type Config struct {
	// Size is the nominal sensor shape (H, W).
	Size grid.Size

	// Interp selects direct scatter or bilinear splatting.
	Interp Interpolation

	// Padding grows the output grid by one row and column so bilinear
	// spill past the nominal boundary lands on real cells. Only the
	// bilinear kernel pads; direct scatter ignores it (but it still
	// tightens the clip bounds by one, matching the usable range).
	Padding bool

	// ClipOutOfRange masks events whose coordinates reach past the
	// usable bounds. Masked events contribute exactly zero to every
	// output grid.
	ClipOutOfRange bool

	// ClipNegative additionally masks events with negative coordinates.
	// The fast-path mask checks upper bounds only, so with ClipNegative
	// off a negative coordinate is a caller error: the call fails with a
	// *grid.RangeError carrying the batch's coordinate bounds.
	ClipNegative bool

	// MeanVal divides each cell's accumulated weight by the number of
	// events that landed there; zero-count cells yield Default.
	MeanVal bool

	// Default is the value of cells the accumulation never reached.
	Default float64

	// Backend is the compute backend to run on. Nil selects the CPU.
	Backend grid.Backend
}

// DefaultConfig returns the common configuration for a sensor: bilinear
// splatting with padding and clipping, zero default, CPU backend.
func DefaultConfig(size grid.Size) Config {
	return Config{
		Size:           size,
		Interp:         InterpBilinear,
		Padding:        true,
		ClipOutOfRange: true,
	}
}

// TimestampConfig controls timestamp-surface normalization.
type TimestampConfig struct {
	// Normalize maps timestamps to [0, 1] against the batch's first and
	// last entries before accumulation.
	Normalize bool

	// Reverse flips the normalization to (tN - t) / span, for backward
	// warp use cases.
	Reverse bool
}

// backend returns the configured backend, defaulting to the CPU.
func (c Config) backend() grid.Backend {
	if c.Backend != nil {
		return c.Backend
	}
	return cpu.New()
}

// imageSize returns the output shape: padded only when the bilinear
// kernel may write past the nominal boundary.
func (c Config) imageSize() grid.Size {
	if c.Interp == InterpBilinear && c.Padding {
		return c.Size.Padded()
	}
	return c.Size
}
