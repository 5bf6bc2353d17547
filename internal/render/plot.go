package render

import (
	"bytes"
	"fmt"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/pkg/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const paletteSize = 64

// gridXYZ adapts a models.Grid to plotter.GridXYZ.
type gridXYZ struct {
	g models.Grid
}

func (a gridXYZ) Dims() (c, r int)   { return a.g.Width, a.g.Height }
func (a gridXYZ) Z(c, r int) float64 { return a.g.At(c, r) }
func (a gridXYZ) X(c int) float64    { return a.g.OffsetX + float64(c)*step(a.g.StepX) }
func (a gridXYZ) Y(r int) float64    { return a.g.OffsetZ + float64(r)*step(a.g.StepZ) }

// single-column grids carry a zero step; the heat map still needs a cell width
func step(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// PlotOptions controls HeatmapPNG.
type PlotOptions struct {
	Title  string
	MinDB  float64
	MaxDB  float64
	Width  vg.Length
	Height vg.Length
}

// HeatmapPNG draws g as a labelled heat map with world-coordinate axes.
func HeatmapPNG(g models.Grid, scale classify.Scale, o PlotOptions) ([]byte, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 6 * vg.Inch
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Z (m)"

	h := plotter.NewHeatMap(gridXYZ{g}, scale.Palette(paletteSize))
	if o.MaxDB > o.MinDB {
		h.Min, h.Max = o.MinDB, o.MaxDB
	}
	p.Add(h)

	wt, err := p.WriterTo(o.Width, o.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to draw heat map: %w", err)
	}
	return buf.Bytes(), nil
}
