package interpolation

import (
	"gonum.org/v1/gonum/floats"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Range returns the minimum and maximum cell values. An empty grid reports 0, 0.
func Range(g models.Grid) (lo, hi float64) {
	if len(g.Values) == 0 {
		return 0, 0
	}
	return floats.Min(g.Values), floats.Max(g.Values)
}

// Normalize rescales a copy of g into [0,1] using the grid's own min and max.
// A flat grid normalizes to all zeros.
func Normalize(g models.Grid) models.Grid {
	out := g
	out.Values = make([]float64, len(g.Values))
	lo, hi := Range(g)
	span := hi - lo
	if span == 0 {
		return out
	}
	copy(out.Values, g.Values)
	floats.AddConst(-lo, out.Values)
	floats.Scale(1/span, out.Values)
	return out
}
