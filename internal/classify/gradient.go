package classify

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/BROKENGroupe/soundmap/pkg/models"
	"gonum.org/v1/plot/palette"
)

// Stop is a colour pinned at a normalized position in [0,1].
type Stop struct {
	At    float64    `json:"at"`
	Color models.RGB `json:"color"`
}

// Scale is a piecewise-linear colour ramp with a default dB domain.
type Scale struct {
	Name  string
	Stops []Stop
	MinDB float64
	MaxDB float64
}

// NewScale spaces colors evenly over [0,1] with the given default domain.
func NewScale(name string, minDB, maxDB float64, colors ...models.RGB) Scale {
	s := Scale{Name: name, MinDB: minDB, MaxDB: maxDB, Stops: make([]Stop, len(colors))}
	for i, c := range colors {
		at := 0.0
		if len(colors) > 1 {
			at = float64(i) / float64(len(colors)-1)
		}
		s.Stops[i] = Stop{At: at, Color: c}
	}
	return s
}

func hexes(hs ...string) []models.RGB {
	out := make([]models.RGB, len(hs))
	for i, h := range hs {
		out[i] = models.MustHex(h)
	}
	return out
}

var (
	// Classic is the four-stop blue, green, yellow, red ramp over 30..100 dB.
	Classic = NewScale("classic", 30, 100, hexes("#0000ff", "#00ff00", "#ffff00", "#ff0000")...)
	// Sonar runs navy to red over 45..95 dB for exterior maps.
	Sonar = NewScale("sonar", 45, 95, hexes("#000080", "#0000ff", "#00ffff", "#00ff00", "#ffff00", "#ff0000")...)
	// Viridis is the perceptual ramp over 30..100 dB.
	Viridis = NewScale("viridis", 30, 100, hexes(
		"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725")...)
	// Shader is the five-colour surface ramp, meant for normalized values.
	Shader = NewScale("shader", 0, 1, hexes("#002266", "#00ff00", "#ffff00", "#ff9900", "#ff0000")...)
)

var scales = map[string]Scale{
	Classic.Name: Classic,
	Sonar.Name:   Sonar,
	Viridis.Name: Viridis,
	Shader.Name:  Shader,
}

// ScaleByName returns a built-in scale.
func ScaleByName(name string) (Scale, error) {
	s, ok := scales[name]
	if !ok {
		return Scale{}, fmt.Errorf("unknown colour scale %q", name)
	}
	return s, nil
}

// ScaleNames lists the built-in scales.
func ScaleNames() []string {
	names := make([]string, 0, len(scales))
	for n := range scales {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Normalize maps db into [0,1] over [minDB, maxDB], clamping outside values.
func Normalize(db, minDB, maxDB float64) float64 {
	if math.IsNaN(db) {
		return 0
	}
	if maxDB <= minDB {
		if db < minDB {
			return 0
		}
		return 1
	}
	t := (db - minDB) / (maxDB - minDB)
	return math.Max(0, math.Min(1, t))
}

// At returns the colour at normalized position t, clamped to [0,1].
func (s Scale) At(t float64) models.RGB {
	if len(s.Stops) == 0 {
		return models.RGB{}
	}
	if math.IsNaN(t) || t <= s.Stops[0].At {
		return s.Stops[0].Color
	}
	last := s.Stops[len(s.Stops)-1]
	if t >= last.At {
		return last.Color
	}
	for i := 1; i < len(s.Stops); i++ {
		hi := s.Stops[i]
		if t > hi.At {
			continue
		}
		lo := s.Stops[i-1]
		span := hi.At - lo.At
		if span <= 0 {
			return hi.Color
		}
		return lerp(lo.Color, hi.Color, (t-lo.At)/span)
	}
	return last.Color
}

// ColorAt normalizes db over [minDB, maxDB] and samples the ramp.
func (s Scale) ColorAt(db, minDB, maxDB float64) models.RGB {
	return s.At(Normalize(db, minDB, maxDB))
}

// Color samples the ramp over its default domain.
func (s Scale) Color(db float64) models.RGB {
	return s.ColorAt(db, s.MinDB, s.MaxDB)
}

// GradientColor samples an evenly spaced ramp of colors at db.
func GradientColor(db, minDB, maxDB float64, colors []models.RGB) models.RGB {
	return NewScale("", minDB, maxDB, colors...).Color(db)
}

func lerp(a, b models.RGB, t float64) models.RGB {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return models.RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

type sampledPalette []color.Color

func (p sampledPalette) Colors() []color.Color { return p }

// Palette samples n evenly spaced colours from the ramp, for gonum heat maps.
func (s Scale) Palette(n int) palette.Palette {
	if n < 2 {
		n = 2
	}
	out := make(sampledPalette, n)
	for i := range out {
		c := s.At(float64(i) / float64(n-1))
		out[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return out
}

// Hex returns the stop colours as #rrggbb strings.
func (s Scale) Hex() []string {
	out := make([]string, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Color.Hex()
	}
	return out
}
