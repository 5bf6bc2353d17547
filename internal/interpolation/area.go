package interpolation

import (
	"errors"
	"fmt"
	"math"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Area is the lattice of world coordinates a grid is evaluated on.
// Column i sits at X(i), row j at Z(j).
type Area struct {
	xs, zs       []float64
	offX, offZ   float64
	stepX, stepZ float64
}

var errEmptyArea = errors.New("area must have at least one column and one row")

// MaxAxis bounds the number of positions a lattice may have per axis.
const MaxAxis = 4096

// StepArea walks [-rangeHalf, rangeHalf] on both axes in increments of step.
// Lattices with more than MaxAxis positions per axis are rejected.
func StepArea(rangeHalf, step float64) (Area, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Area{}, fmt.Errorf("step must be positive and finite, got %v", step)
	}
	if !(rangeHalf >= 0) || math.IsInf(rangeHalf, 0) {
		return Area{}, fmt.Errorf("range must be non-negative and finite, got %v", rangeHalf)
	}
	// tolerate float drift so that e.g. range 1, step 0.1 includes +1
	cols := math.Floor(2*rangeHalf/step+1e-9) + 1
	if !(cols <= MaxAxis) {
		return Area{}, fmt.Errorf("lattice of %.0f positions per axis exceeds %d", cols, MaxAxis)
	}
	n := int(cols)
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = -rangeHalf + float64(i)*step
	}
	return Area{
		xs:    axis,
		zs:    axis,
		offX:  -rangeHalf,
		offZ:  -rangeHalf,
		stepX: step,
		stepZ: step,
	}, nil
}

// PixelArea maps width x height pixels onto the rectangle starting at
// (offsetX, offsetZ) with the given extents. The first and last pixels land
// exactly on the rectangle edges.
func PixelArea(width, height int, offsetX, offsetZ, extentX, extentZ float64) (Area, error) {
	if width < 1 || height < 1 {
		return Area{}, errEmptyArea
	}
	if width > MaxAxis || height > MaxAxis {
		return Area{}, fmt.Errorf("lattice of %dx%d exceeds %d per axis", width, height, MaxAxis)
	}
	a := Area{offX: offsetX, offZ: offsetZ}
	a.xs, a.stepX = pixelAxis(width, offsetX, extentX)
	a.zs, a.stepZ = pixelAxis(height, offsetZ, extentZ)
	return a, nil
}

func pixelAxis(n int, offset, extent float64) ([]float64, float64) {
	axis := make([]float64, n)
	if n == 1 {
		axis[0] = offset
		return axis, 0
	}
	step := extent / float64(n-1)
	for i := range axis {
		axis[i] = offset + float64(i)/float64(n-1)*extent
	}
	return axis, step
}

// Columns returns the number of X positions.
func (a Area) Columns() int { return len(a.xs) }

// Rows returns the number of Z positions.
func (a Area) Rows() int { return len(a.zs) }

// X returns the world X of column i.
func (a Area) X(i int) float64 { return a.xs[i] }

// Z returns the world Z of row j.
func (a Area) Z(j int) float64 { return a.zs[j] }

// Grid allocates a zeroed grid laid out over the area.
func (a Area) Grid() models.Grid {
	return models.NewGrid(a.Columns(), a.Rows(), a.offX, a.offZ, a.stepX, a.stepZ)
}
