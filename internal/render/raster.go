// Package render turns interpolated grids into images: raw RGBA rasters for
// texturing, annotated PNG heat maps and interactive HTML charts.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Rasterize paints one pixel per grid cell. Row 0 of the grid is the top row
// of the image. Values are coloured over [minDB, maxDB] and clamped.
func Rasterize(g models.Grid, scale classify.Scale, minDB, maxDB float64, alpha uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for j := 0; j < g.Height; j++ {
		for i := 0; i < g.Width; i++ {
			c := scale.ColorAt(g.At(i, j), minDB, maxDB)
			img.SetRGBA(i, j, color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha})
		}
	}
	return img
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
