package leakage

import (
	"fmt"
	"math"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// HaloConfig tunes the radial halo variant, which ignores walls and spreads a
// fraction of every loud point to its eight neighbours on the floor plane.
type HaloConfig struct {
	Spread float64
	Factor float64
	MinDB  float64
}

// DefaultHaloConfig returns the editor's halo settings.
func DefaultHaloConfig() HaloConfig {
	return HaloConfig{Spread: 5, Factor: 0.3, MinDB: 10}
}

// Halo emits eight points around each source at +-Spread on X and Z with
// db scaled by Factor.
func Halo(points []models.AcousticPoint, cfg HaloConfig) []models.AcousticPoint {
	s := cfg.Spread
	offsets := [8][2]float64{
		{s, 0}, {-s, 0},
		{0, s}, {0, -s},
		{s, s}, {s, -s},
		{-s, s}, {-s, -s},
	}

	out := make([]models.AcousticPoint, 0, len(points)*len(offsets))
	for _, p := range points {
		if !(p.DB >= cfg.MinDB) {
			continue
		}
		for _, o := range offsets {
			out = append(out, models.AcousticPoint{
				ID: fmt.Sprintf("%s_halo_%g_%g", p.ID, o[0], o[1]),
				X:  p.X + o[0],
				Z:  p.Z + o[1],
				DB: math.Max(p.DB*cfg.Factor, 0),
			})
		}
	}
	return out
}
