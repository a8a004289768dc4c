// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package raster converts batches of event-camera samples into dense 2-D
// rasters.
//
// Events arrive as parallel arrays of sub-pixel coordinates, weights and
// optional timestamps; the engine splats them onto a grid with either
// direct integer scatter or a bilinear kernel, under plain-sum,
// count-normalized, per-polarity timestamp, or gradient-propagating
// accumulation. Every call is a pure function allocating fresh output
// buffers, so one configuration may be used from concurrent goroutines.
//
// Example:
//
//	ev := raster.Events{
//	    Xs: []float64{12.3, 40.7},
//	    Ys: []float64{8.1, 22.9},
//	    Ws: []float64{1, -1},
//	}
//	img, err := raster.Accumulate(ev, raster.DefaultConfig(grid.Size{H: 180, W: 240}))
package raster

import (
	internalraster "github.com/born-ml/evframe/internal/raster"

	"github.com/born-ml/evframe/grid"
)

// TimestampEps is added to the timestamp span during normalization so an
// all-equal batch divides by a small constant instead of zero.
const TimestampEps = internalraster.TimestampEps

// Events is a batch of N events as parallel arrays.
type Events = internalraster.Events

// Interpolation selects how event weights reach grid cells.
type Interpolation = internalraster.Interpolation

// Supported interpolation modes.
const (
	InterpNone     = internalraster.InterpNone
	InterpBilinear = internalraster.InterpBilinear
)

// Config controls one rasterization call.
type Config = internalraster.Config

// TimestampConfig controls timestamp-surface normalization.
type TimestampConfig = internalraster.TimestampConfig

// ErrBatchMismatch reports parallel event arrays of unequal length.
var ErrBatchMismatch = internalraster.ErrBatchMismatch

// DefaultConfig returns the common configuration for a sensor: bilinear
// splatting with padding and clipping, zero default, CPU backend.
func DefaultConfig(size grid.Size) Config {
	return internalraster.DefaultConfig(size)
}

// Accumulate rasterizes the batch into a single grid, plain-sum or
// count-normalized per cfg.MeanVal.
func Accumulate(ev Events, cfg Config) (*grid.Grid, error) {
	return internalraster.Accumulate(ev, cfg)
}

// TimestampSurfaces builds the per-polarity average timestamp images.
func TimestampSurfaces(ev Events, cfg Config, tcfg TimestampConfig) (pos, neg *grid.Grid, err error) {
	return internalraster.TimestampSurfaces(ev, cfg, tcfg)
}

// AccumulateGradient rasterizes the batch with the bilinear kernel and,
// when Jacobian channels are supplied, co-computes the gradient stack.
func AccumulateGradient(ev Events, jx, jy [][]float64, cfg Config) (*grid.Grid, *grid.Stack, error) {
	return internalraster.AccumulateGradient(ev, jx, jy, cfg)
}

// SampleAt reads one bilinearly interpolated value per coordinate from a
// raster, the adjoint of splatting. A nil backend selects the CPU.
func SampleAt(img *grid.Grid, xs, ys []float64, b grid.Backend) ([]float64, error) {
	return internalraster.SampleAt(img, xs, ys, b)
}
