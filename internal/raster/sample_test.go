package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/evframe/internal/grid"
)

func TestSampleAt_IntegerRoundTrip(t *testing.T) {
	// Splatting a unit weight at an integer coordinate puts the whole
	// mass in one cell; reading it back there returns exactly 1.
	cfg := DefaultConfig(grid.Size{H: 5, W: 5})
	ev := Events{Xs: []float64{2}, Ys: []float64{3}, Ws: []float64{1}}
	img, err := Accumulate(ev, cfg)
	require.NoError(t, err)

	got, err := SampleAt(img, []float64{2}, []float64{3}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0])
}

func TestSampleAt_AdjointIdentity(t *testing.T) {
	// Splat and sample are adjoint: for any raster g and coordinate
	// (x, y), <splat(w at x,y), g> == w * sample(g at x,y).
	size := grid.Size{H: 6, W: 6}
	g := grid.NewGrid(size, grid.CPU)
	for i := range g.Data() {
		g.Data()[i] = float64(i%7) - 3
	}

	coords := []struct{ x, y float64 }{
		{0.5, 0.5},
		{2.25, 3.75},
		{4.0, 1.0},
		{0.0, 4.9},
	}
	for _, c := range coords {
		const w = 2.5
		ev := Events{Xs: []float64{c.x}, Ys: []float64{c.y}, Ws: []float64{w}}
		splat, err := Accumulate(ev, Config{
			Size:           size,
			Interp:         InterpBilinear,
			ClipOutOfRange: true,
		})
		require.NoError(t, err)

		inner := 0.0
		for i, v := range splat.Data() {
			inner += v * g.Data()[i]
		}

		sampled, err := SampleAt(g, []float64{c.x}, []float64{c.y}, nil)
		require.NoError(t, err)
		assert.InDelta(t, inner, w*sampled[0], 1e-12, "coordinate (%g, %g)", c.x, c.y)
	}
}

func TestSampleAt_Interpolates(t *testing.T) {
	img, err := grid.FromSlice([]float64{
		0, 2,
		4, 6,
	}, grid.Size{H: 2, W: 2}, grid.CPU)
	require.NoError(t, err)

	got, err := SampleAt(img, []float64{0.5}, []float64{0.5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got[0], 1e-12)
}

func TestSampleAt_BoundaryMasked(t *testing.T) {
	img := grid.Full(grid.Size{H: 4, W: 4}, 7, grid.CPU)

	got, err := SampleAt(img,
		[]float64{3.0, 3.5, 1.0},
		[]float64{1.0, 1.0, 3.2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got[0], "x == W-1 is masked, not clamped")
	assert.Equal(t, 0.0, got[1])
	assert.Equal(t, 0.0, got[2])
}

func TestSampleAt_NegativeCoordinate(t *testing.T) {
	img := grid.NewGrid(grid.Size{H: 4, W: 4}, grid.CPU)

	_, err := SampleAt(img, []float64{-0.5}, []float64{1}, nil)
	require.Error(t, err)
	var re *grid.RangeError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, grid.ErrOutOfRange)
}

func TestSampleAt_LengthMismatch(t *testing.T) {
	img := grid.NewGrid(grid.Size{H: 4, W: 4}, grid.CPU)

	_, err := SampleAt(img, []float64{1, 2}, []float64{1}, nil)
	require.ErrorIs(t, err, ErrBatchMismatch)
}

func TestSampleAt_Empty(t *testing.T) {
	img := grid.NewGrid(grid.Size{H: 4, W: 4}, grid.CPU)

	got, err := SampleAt(img, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
