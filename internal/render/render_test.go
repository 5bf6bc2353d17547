package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() models.Grid {
	g := models.NewGrid(3, 2, -1, -1, 1, 2)
	copy(g.Values, []float64{30, 65, 100, 200, 0, 65})
	return g
}

func TestRasterize(t *testing.T) {
	img := Rasterize(testGrid(), classify.Classic, 30, 100, 230)

	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{B: 255, A: 230}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 230}, img.RGBAAt(2, 0))
	// out of domain clamps
	assert.Equal(t, color.RGBA{R: 255, A: 230}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 230}, img.RGBAAt(1, 1))
	assert.Equal(t, img.RGBAAt(1, 0), img.RGBAAt(2, 1))
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(Rasterize(testGrid(), classify.Sonar, 45, 95, 255))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestHeatmapPNG(t *testing.T) {
	data, err := HeatmapPNG(testGrid(), classify.Viridis, PlotOptions{Title: "floor", MinDB: 30, MaxDB: 100})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = HeatmapPNG(models.Grid{}, classify.Viridis, PlotOptions{})
	assert.Error(t, err)
}

func TestChartHTML(t *testing.T) {
	var buf bytes.Buffer
	pts := []models.AcousticPoint{{ID: "p1", X: 0, Z: 0, DB: 72.34}}
	err := ChartHTML(&buf, testGrid(), pts, classify.Viridis, ChartOptions{Title: "Sala 1", MinDB: 30, MaxDB: 100})
	require.NoError(t, err)

	html := buf.String()
	assert.True(t, strings.Contains(html, "Sala 1"))
	assert.True(t, strings.Contains(html, "#fde725"))
	assert.True(t, strings.Contains(html, "72.3"))
}

func TestChartHTML_Strides(t *testing.T) {
	g := models.NewGrid(100, 100, 0, 0, 0.1, 0.1)
	var buf bytes.Buffer
	require.NoError(t, ChartHTML(&buf, g, nil, classify.Classic, ChartOptions{MaxCells: 100}))
	assert.Contains(t, buf.String(), "stride=10")
}
