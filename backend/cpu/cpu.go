// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU rasterization backend.
package cpu

import (
	internalcpu "github.com/born-ml/evframe/internal/backend/cpu"

	"github.com/born-ml/evframe/grid"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go vectorized implementations of all
// rasterization operations and is the default for every engine call.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements grid.Backend.
var _ grid.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	cfg := raster.DefaultConfig(grid.Size{H: 180, W: 240})
//	cfg.Backend = cpu.New()
//	img, err := raster.Accumulate(ev, cfg)
func New() *Backend {
	return internalcpu.New()
}
