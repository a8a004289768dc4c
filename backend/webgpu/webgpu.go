//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU rasterization backend for
// GPU-accelerated accumulation.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	cfg := raster.DefaultConfig(grid.Size{H: 180, W: 240})
//	cfg.Backend = gpu
//	img, err := raster.Accumulate(ev, cfg)
package webgpu

import (
	internalwebgpu "github.com/born-ml/evframe/internal/backend/webgpu"

	"github.com/born-ml/evframe/grid"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements grid.Backend.
var _ grid.Backend = (*Backend)(nil)

// New creates a WebGPU backend on the first available adapter.
// Fails cleanly when no GPU adapter is present.
func New() (*Backend, error) {
	return internalwebgpu.New()
}
