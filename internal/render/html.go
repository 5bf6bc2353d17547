package render

import (
	"fmt"
	"io"
	"math"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartOptions controls ChartHTML.
type ChartOptions struct {
	Title    string
	Subtitle string
	MinDB    float64
	MaxDB    float64
	// MaxCells caps the number of rendered cells; larger grids are strided.
	MaxCells int
	// AssetsHost overrides where the echarts scripts are loaded from.
	AssetsHost string
}

// ChartHTML writes an interactive page showing the grid as coloured cells and
// the measured points on top.
func ChartHTML(w io.Writer, g models.Grid, points []models.AcousticPoint, scale classify.Scale, o ChartOptions) error {
	if o.MaxCells <= 0 {
		o.MaxCells = 10000
	}
	stride := 1
	if n := g.Width * g.Height; n > o.MaxCells {
		stride = int(math.Ceil(math.Sqrt(float64(n) / float64(o.MaxCells))))
	}

	cells := make([]opts.ScatterData, 0, g.Width*g.Height/(stride*stride)+1)
	for j := 0; j < g.Height; j += stride {
		for i := 0; i < g.Width; i += stride {
			x, z := g.Coord(i, j)
			cells = append(cells, opts.ScatterData{Value: []interface{}{x, z, round1(g.At(i, j))}})
		}
	}
	measured := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		measured = append(measured, opts.ScatterData{Name: p.ID, Value: []interface{}{p.X, p.Z, round1(p.DB)}})
	}

	subtitle := o.Subtitle
	if subtitle == "" {
		subtitle = fmt.Sprintf("cells=%d points=%d stride=%d", len(cells), len(points), stride)
	}

	initOpts := opts.Initialization{PageTitle: o.Title, Width: "900px", Height: "900px"}
	if o.AssetsHost != "" {
		initOpts.AssetsHost = o.AssetsHost
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Z (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(o.MinDB),
			Max:        float32(o.MaxDB),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: scale.Hex()},
		}),
	)
	scatter.AddSeries("field", cells, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("points", measured,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: "#ffffff", BorderWidth: 1}),
	)

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
