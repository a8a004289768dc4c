// Package raster converts batches of event-camera samples into dense 2-D
// rasters: plain and count-normalized accumulation, per-polarity timestamp
// surfaces, analytic gradient propagation, and the adjoint bilinear
// read-out. All operations are pure input-to-output; nothing is retained
// across calls.
package raster

import (
	"errors"
	"fmt"
)

// ErrBatchMismatch reports parallel event arrays of unequal length.
var ErrBatchMismatch = errors.New("event arrays have mismatched lengths")

// Events is a batch of N events as parallel arrays. Xs, Ys and Ws are
// required; Ts is only consulted by timestamp surfaces. Coordinates may be
// sub-pixel. Ws holds the polarity or an arbitrary per-event weight.
// Array order is meaningful only for the first/last timestamp lookup
// during normalization.
type Events struct {
	Xs, Ys []float64
	Ws     []float64
	Ts     []float64
}

// Len returns the number of events in the batch.
func (ev Events) Len() int {
	return len(ev.Xs)
}

// validate checks array lengths. Ts is checked only when required.
func (ev Events) validate(needTs bool) error {
	n := len(ev.Xs)
	if len(ev.Ys) != n || len(ev.Ws) != n {
		return fmt.Errorf("%w: xs=%d ys=%d ws=%d", ErrBatchMismatch, n, len(ev.Ys), len(ev.Ws))
	}
	if needTs && len(ev.Ts) != n {
		return fmt.Errorf("%w: xs=%d ts=%d", ErrBatchMismatch, n, len(ev.Ts))
	}
	return nil
}
