// Package interpolation turns scattered SPL samples into dense grids using
// inverse distance weighting (IDW).
//
// The interpolator is planar: it works on (x, z) samples. Walls and other
// planes are handled by remapping 3D points onto a plane first (see Plane).
//
// # Coincident samples
//
// When a query lies within Epsilon of a sample, that sample's value is
// returned as-is. IDW is therefore exact at sample locations and never divides
// by zero.
//
// # Usage
//
//	area, _ := interpolation.PixelArea(512, 512, -5, -5, 16, 16)
//	grid, err := interpolation.Interpolate(ctx, samples, area, interpolation.WithPower(2))
package interpolation

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

const (
	// Epsilon is the distance under which a query snaps to a sample.
	Epsilon = 0.01
	// DefaultPower is the usual IDW exponent.
	DefaultPower = 2.0
)

type options struct {
	power   float64
	workers int
	empty   float64
}

// Option configures Interpolate.
type Option func(*options)

// WithPower sets the distance exponent. Non-positive values keep the default.
func WithPower(p float64) Option {
	return func(o *options) {
		if p > 0 && !math.IsInf(p, 0) {
			o.power = p
		}
	}
}

// WithWorkers bounds the number of rows evaluated concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithEmptyValue sets the value every cell takes when there are no samples.
func WithEmptyValue(v float64) Option {
	return func(o *options) { o.empty = v }
}

// Interpolate evaluates samples over every cell of area. Rows are computed
// in parallel; cancelling ctx abandons the grid and returns ctx.Err().
// Samples with non-finite coordinates or values are ignored.
func Interpolate(ctx context.Context, samples []models.Sample, area Area, opts ...Option) (models.Grid, error) {
	o := options{power: DefaultPower, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if area.Columns() == 0 || area.Rows() == 0 {
		return models.Grid{}, errEmptyArea
	}

	clean := finiteSamples(samples)
	grid := area.Grid()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for j := 0; j < area.Rows(); j++ {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			z := area.Z(j)
			row := grid.Values[j*grid.Width : (j+1)*grid.Width]
			for i := range row {
				row[i] = evaluate(clean, area.X(i), z, o.power, o.empty)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Grid{}, err
	}
	// a cancelled parent may race the last rows; never hand out a partial grid
	if err := ctx.Err(); err != nil {
		return models.Grid{}, err
	}
	return grid, nil
}

// At evaluates the IDW field at a single point. An empty sample set yields 0.
func At(samples []models.Sample, x, z, power float64) float64 {
	if !(power > 0) {
		power = DefaultPower
	}
	return evaluate(finiteSamples(samples), x, z, power, 0)
}

func evaluate(samples []models.Sample, x, z, power, empty float64) float64 {
	if len(samples) == 0 {
		return empty
	}
	var num, den float64
	for _, s := range samples {
		d := math.Hypot(x-s.X, z-s.Z)
		if d < Epsilon {
			return s.Value
		}
		var w float64
		if power == 2 {
			w = 1 / (d * d)
		} else {
			w = 1 / math.Pow(d, power)
		}
		num += w * s.Value
		den += w
	}
	if den == 0 {
		return empty
	}
	return num / den
}

func finiteSamples(samples []models.Sample) []models.Sample {
	out := samples[:0:0]
	for _, s := range samples {
		if isFinite(s.X) && isFinite(s.Z) && isFinite(s.Value) {
			out = append(out, s)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
