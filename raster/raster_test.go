// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package raster_test

import (
	"math"
	"testing"

	"github.com/born-ml/evframe/backend/cpu"
	"github.com/born-ml/evframe/grid"
	"github.com/born-ml/evframe/raster"
)

// TestBackendInterface verifies that cpu.Backend implements grid.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ grid.Backend = (*cpu.Backend)(nil)
}

// TestAccumulateAPI verifies the re-exported accumulation API end to end.
func TestAccumulateAPI(t *testing.T) {
	ev := raster.Events{
		Xs: []float64{1.5, 2.0},
		Ys: []float64{1.5, 3.0},
		Ws: []float64{1, -1},
	}

	img, err := raster.Accumulate(ev, raster.DefaultConfig(grid.Size{H: 4, W: 4}))
	if err != nil {
		t.Fatalf("Accumulate failed: %v", err)
	}

	// Padded output shape.
	if got, want := img.Size(), (grid.Size{H: 5, W: 5}); got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}

	// Total mass is the sum of unclipped weights.
	sum := 0.0
	for _, v := range img.Data() {
		sum += v
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("total mass = %v, want 0", sum)
	}
}

// TestInterpolationConstants verifies the re-exported mode constants.
func TestInterpolationConstants(t *testing.T) {
	modes := []struct {
		name string
		mode raster.Interpolation
	}{
		{"none", raster.InterpNone},
		{"bilinear", raster.InterpBilinear},
	}

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			if got := m.mode.String(); got != m.name {
				t.Errorf("String() = %q, want %q", got, m.name)
			}
		})
	}
}

// TestTimestampSurfacesAPI verifies the re-exported timestamp surface API.
func TestTimestampSurfacesAPI(t *testing.T) {
	ev := raster.Events{
		Xs: []float64{1, 2},
		Ys: []float64{1, 2},
		Ws: []float64{1, -1},
		Ts: []float64{0, 10},
	}
	cfg := raster.DefaultConfig(grid.Size{H: 4, W: 4})

	pos, neg, err := raster.TimestampSurfaces(ev, cfg, raster.TimestampConfig{Normalize: true})
	if err != nil {
		t.Fatalf("TimestampSurfaces failed: %v", err)
	}
	if pos == nil || neg == nil {
		t.Fatal("TimestampSurfaces returned nil grid")
	}
	if got := neg.At(2, 2); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("neg.At(2, 2) = %v, want 1.0", got)
	}
}

// TestAccumulateGradientAPI verifies the re-exported gradient API.
func TestAccumulateGradientAPI(t *testing.T) {
	ev := raster.Events{
		Xs: []float64{1.25},
		Ys: []float64{2.75},
		Ws: []float64{1},
	}
	cfg := raster.DefaultConfig(grid.Size{H: 4, W: 4})

	value, dimg, err := raster.AccumulateGradient(ev,
		[][]float64{{1}}, [][]float64{{0}}, cfg)
	if err != nil {
		t.Fatalf("AccumulateGradient failed: %v", err)
	}
	if value == nil {
		t.Fatal("AccumulateGradient returned nil value grid")
	}
	if got := dimg.Channels(); got != 1 {
		t.Errorf("Channels() = %d, want 1", got)
	}
}

// TestSampleAtAPI verifies the re-exported read-out API.
func TestSampleAtAPI(t *testing.T) {
	img := grid.Full(grid.Size{H: 3, W: 3}, 2, grid.CPU)

	got, err := raster.SampleAt(img, []float64{0.5}, []float64{0.5}, cpu.New())
	if err != nil {
		t.Fatalf("SampleAt failed: %v", err)
	}
	if len(got) != 1 || math.Abs(got[0]-2.0) > 1e-12 {
		t.Errorf("SampleAt = %v, want [2]", got)
	}
}

// TestErrBatchMismatch verifies the re-exported sentinel error.
func TestErrBatchMismatch(t *testing.T) {
	ev := raster.Events{Xs: []float64{1, 2}, Ys: []float64{1}, Ws: []float64{1, 1}}

	_, err := raster.Accumulate(ev, raster.DefaultConfig(grid.Size{H: 4, W: 4}))
	if err == nil {
		t.Fatal("Accumulate accepted mismatched batch")
	}
}
