// Package viz renders rasters to image files for debugging and demos.
// It is a surface around the engine, not part of its contract.
package viz

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/born-ml/evframe/internal/grid"
)

// gridXYZ adapts a Grid to plotter.GridXYZ. Rows map to y, columns to x,
// matching the raster's [row=y, col=x] addressing.
type gridXYZ struct {
	g *grid.Grid
}

func (d gridXYZ) Dims() (c, r int)   { s := d.g.Size(); return s.W, s.H }
func (d gridXYZ) Z(c, r int) float64 { return d.g.At(r, c) }
func (d gridXYZ) X(c int) float64    { return float64(c) }
func (d gridXYZ) Y(r int) float64    { return float64(r) }

// Heatmap renders the grid as a heatmap and saves it to path. The format
// follows the file extension (png, pdf, svg, ...).
func Heatmap(g *grid.Grid, title, path string) error {
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(gridXYZ{g: g}, pal)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save heatmap %q: %w", path, err)
	}
	return nil
}
