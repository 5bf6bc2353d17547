package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Sample is a scattered 2D input to the interpolator.
type Sample struct {
	X     float64 `json:"x" doc:"Horizontal coordinate"`
	Z     float64 `json:"z" doc:"Vertical coordinate of the slice"`
	Value float64 `json:"value" doc:"Sample value, usually dB"`
}

// Grid is a dense row-major scalar field over a rectangle of world coordinates.
// Cell (i, j) sits at OffsetX + i*StepX, OffsetZ + j*StepZ.
type Grid struct {
	Width   int       `json:"width" doc:"Number of columns"`
	Height  int       `json:"height" doc:"Number of rows"`
	OffsetX float64   `json:"offset_x" doc:"World X of column 0"`
	OffsetZ float64   `json:"offset_z" doc:"World Z of row 0"`
	StepX   float64   `json:"step_x" doc:"World distance between columns"`
	StepZ   float64   `json:"step_z" doc:"World distance between rows"`
	Values  []float64 `json:"values" doc:"Row-major cell values"`
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int, offsetX, offsetZ, stepX, stepZ float64) Grid {
	return Grid{
		Width:   width,
		Height:  height,
		OffsetX: offsetX,
		OffsetZ: offsetZ,
		StepX:   stepX,
		StepZ:   stepZ,
		Values:  make([]float64, width*height),
	}
}

// At returns the value of column i, row j.
func (g Grid) At(i, j int) float64 {
	return g.Values[j*g.Width+i]
}

// Coord returns the world coordinate of column i, row j.
func (g Grid) Coord(i, j int) (x, z float64) {
	return g.OffsetX + float64(i)*g.StepX, g.OffsetZ + float64(j)*g.StepZ
}

// GridPoint is one evaluated cell in list form.
type GridPoint struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Value float64 `json:"value"`
}

// Points flattens the grid into cells with derived ids.
func (g Grid) Points() []GridPoint {
	out := make([]GridPoint, 0, len(g.Values))
	for j := 0; j < g.Height; j++ {
		for i := 0; i < g.Width; i++ {
			x, z := g.Coord(i, j)
			out = append(out, GridPoint{
				ID:    fmt.Sprintf("interp_%d_%d", i, j),
				X:     x,
				Z:     z,
				Value: g.At(i, j),
			})
		}
	}
	return out
}

// RGB is an 8-bit colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb or rrggbb.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Band is one discrete severity range.
type Band struct {
	Min   float64 `json:"min" doc:"Lower bound in dB"`
	Max   float64 `json:"max" doc:"Upper bound in dB"`
	Color RGB     `json:"color" doc:"Band colour"`
	Label string  `json:"label" doc:"Human-readable label"`
}
