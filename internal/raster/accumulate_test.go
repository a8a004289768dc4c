package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

func TestAccumulate_BilinearCenterSplit(t *testing.T) {
	// One unit event at (0.5, 0.5) on a 2x2 sensor with padding splits
	// evenly over four cells of the 3x3 output.
	ev := Events{Xs: []float64{0.5}, Ys: []float64{0.5}, Ws: []float64{1}}
	cfg := DefaultConfig(grid.Size{H: 2, W: 2})

	img, err := Accumulate(ev, cfg)
	require.NoError(t, err)
	require.Equal(t, grid.Size{H: 3, W: 3}, img.Size())

	assert.InDelta(t, 0.25, img.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, img.At(0, 1), 1e-12)
	assert.InDelta(t, 0.25, img.At(1, 0), 1e-12)
	assert.InDelta(t, 0.25, img.At(1, 1), 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(img.Data()), 1e-12)
}

func TestAccumulate_DirectScatter(t *testing.T) {
	// Two unit events at integer (1, 2) land on one cell of a 4x4 grid.
	ev := Events{Xs: []float64{1, 1}, Ys: []float64{2, 2}, Ws: []float64{1, 1}}
	cfg := Config{Size: grid.Size{H: 4, W: 4}, Interp: InterpNone, ClipOutOfRange: true}

	img, err := Accumulate(ev, cfg)
	require.NoError(t, err)
	require.Equal(t, grid.Size{H: 4, W: 4}, img.Size())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := 0.0
			if y == 2 && x == 1 {
				want = 2.0
			}
			assert.Equal(t, want, img.At(y, x), "cell (%d, %d)", y, x)
		}
	}
}

func TestAccumulate_ConservesWeight(t *testing.T) {
	// With no masked events, the grid total equals the injected weight.
	ev := Events{
		Xs: []float64{1.2, 3.7, 5.5, 2.25, 4.8},
		Ys: []float64{2.9, 1.1, 3.3, 0.5, 2.2},
		Ws: []float64{1, -0.5, 2.25, 3, -1.75},
	}
	cfg := DefaultConfig(grid.Size{H: 8, W: 8})

	img, err := Accumulate(ev, cfg)
	require.NoError(t, err)
	assert.InDelta(t, floats.Sum(ev.Ws), floats.Sum(img.Data()), 1e-12)
}

func TestAccumulate_IntegerCoordinateEquivalence(t *testing.T) {
	// At exact integer coordinates the bilinear kernel degenerates to
	// direct scatter.
	ev := Events{
		Xs: []float64{0, 1, 2, 1, 0},
		Ys: []float64{0, 2, 1, 2, 0},
		Ws: []float64{1, 2, -1, 0.5, 0.25},
	}
	size := grid.Size{H: 4, W: 4}

	direct, err := Accumulate(ev, Config{Size: size, Interp: InterpNone, ClipOutOfRange: true})
	require.NoError(t, err)
	bilinear, err := Accumulate(ev, Config{Size: size, Interp: InterpBilinear, ClipOutOfRange: true})
	require.NoError(t, err)

	require.Equal(t, direct.Size(), bilinear.Size())
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			assert.InDelta(t, direct.At(y, x), bilinear.At(y, x), 1e-12, "cell (%d, %d)", y, x)
		}
	}
}

func TestAccumulate_DefaultTreatment(t *testing.T) {
	t.Run("DirectStartsFromDefault", func(t *testing.T) {
		ev := Events{Xs: []float64{1}, Ys: []float64{1}, Ws: []float64{2}}
		cfg := Config{Size: grid.Size{H: 3, W: 3}, Interp: InterpNone, ClipOutOfRange: true, Default: -1}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		// Touched cells accumulate on top of the default fill.
		assert.Equal(t, 1.0, img.At(1, 1))
		assert.Equal(t, -1.0, img.At(0, 0))
	})

	t.Run("BilinearSubstitutesZeroCells", func(t *testing.T) {
		ev := Events{Xs: []float64{1}, Ys: []float64{1}, Ws: []float64{2}}
		cfg := Config{
			Size: grid.Size{H: 3, W: 3}, Interp: InterpBilinear,
			Padding: true, ClipOutOfRange: true, Default: -1,
		}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		// Integer coordinate: full weight on the base cell, untouched and
		// zero-valued cells both get the default.
		assert.Equal(t, 2.0, img.At(1, 1))
		assert.Equal(t, -1.0, img.At(0, 0))
		assert.Equal(t, -1.0, img.At(3, 3))
	})
}

func TestAccumulate_MeanMode(t *testing.T) {
	t.Run("DividesByCount", func(t *testing.T) {
		ev := Events{Xs: []float64{1, 1, 2}, Ys: []float64{1, 1, 2}, Ws: []float64{2, 4, 6}}
		cfg := Config{Size: grid.Size{H: 4, W: 4}, Interp: InterpNone, ClipOutOfRange: true, MeanVal: true}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, img.At(1, 1), 1e-12)
		assert.InDelta(t, 6.0, img.At(2, 2), 1e-12)
	})

	t.Run("ZeroCountCellsDefault", func(t *testing.T) {
		ev := Events{Xs: []float64{1}, Ys: []float64{1}, Ws: []float64{5}}
		cfg := Config{
			Size: grid.Size{H: 3, W: 3}, Interp: InterpNone,
			ClipOutOfRange: true, MeanVal: true, Default: 9,
		}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		assert.Equal(t, 5.0, img.At(1, 1))
		assert.Equal(t, 9.0, img.At(0, 0))
	})

	t.Run("EmptyBatchAllDefault", func(t *testing.T) {
		cfg := DefaultConfig(grid.Size{H: 3, W: 3})
		cfg.MeanVal = true
		cfg.Default = 7

		img, err := Accumulate(Events{}, cfg)
		require.NoError(t, err)
		for _, v := range img.Data() {
			assert.Equal(t, 7.0, v)
		}
	})

	t.Run("ZeroWeightBatchFinite", func(t *testing.T) {
		ev := Events{Xs: []float64{1.5, 2.5}, Ys: []float64{1.5, 2.5}, Ws: []float64{0, 0}}
		cfg := DefaultConfig(grid.Size{H: 4, W: 4})
		cfg.MeanVal = true

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		for _, v := range img.Data() {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			assert.Equal(t, 0.0, v)
		}
	})
}

func TestAccumulate_Clipping(t *testing.T) {
	t.Run("MaskedEventContributesNothing", func(t *testing.T) {
		ev := Events{
			Xs: []float64{1, 50},
			Ys: []float64{1, 50},
			Ws: []float64{1, 1},
		}
		cfg := DefaultConfig(grid.Size{H: 4, W: 4})

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, floats.Sum(img.Data()), 1e-12)
	})

	t.Run("MaskedEventDirectMode", func(t *testing.T) {
		ev := Events{Xs: []float64{1, 50}, Ys: []float64{1, 50}, Ws: []float64{1, 1}}
		cfg := Config{Size: grid.Size{H: 4, W: 4}, Interp: InterpNone, ClipOutOfRange: true}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		// The masked event is routed to cell (0, 0) with zero weight.
		assert.Equal(t, 0.0, img.At(0, 0))
		assert.Equal(t, 1.0, img.At(1, 1))
	})

	t.Run("NegativeUnmaskedIsError", func(t *testing.T) {
		// The fast-path mask checks upper bounds only; a negative
		// coordinate is a range error, never a silent clamp.
		ev := Events{Xs: []float64{-1}, Ys: []float64{1}, Ws: []float64{1}}
		cfg := Config{Size: grid.Size{H: 4, W: 4}, Interp: InterpNone, ClipOutOfRange: true}

		_, err := Accumulate(ev, cfg)
		var re *grid.RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, -1.0, re.MinX)
		assert.Equal(t, grid.Size{H: 4, W: 4}, re.Size)
	})

	t.Run("ClipNegativeMasks", func(t *testing.T) {
		ev := Events{Xs: []float64{-1, 1}, Ys: []float64{1, 1}, Ws: []float64{1, 1}}
		cfg := Config{
			Size: grid.Size{H: 4, W: 4}, Interp: InterpNone,
			ClipOutOfRange: true, ClipNegative: true,
		}

		img, err := Accumulate(ev, cfg)
		require.NoError(t, err)
		assert.Equal(t, 1.0, img.At(1, 1))
		assert.Equal(t, 0.0, img.At(0, 0))
	})

	t.Run("NegativeBilinearIsError", func(t *testing.T) {
		ev := Events{Xs: []float64{-0.5}, Ys: []float64{1}, Ws: []float64{1}}
		cfg := DefaultConfig(grid.Size{H: 4, W: 4})

		_, err := Accumulate(ev, cfg)
		require.ErrorIs(t, err, grid.ErrOutOfRange)
	})
}

func TestAccumulate_BatchMismatch(t *testing.T) {
	ev := Events{Xs: []float64{1, 2}, Ys: []float64{1}, Ws: []float64{1, 1}}
	_, err := Accumulate(ev, DefaultConfig(grid.Size{H: 4, W: 4}))
	require.ErrorIs(t, err, ErrBatchMismatch)
}

func TestClipBounds(t *testing.T) {
	img := grid.Size{H: 4, W: 6}

	x, y := clipBounds(img, InterpNone, false)
	assert.Equal(t, 6.0, x)
	assert.Equal(t, 4.0, y)

	x, y = clipBounds(img, InterpBilinear, false)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 3.0, y)

	x, y = clipBounds(img, InterpNone, true)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 3.0, y)
}
