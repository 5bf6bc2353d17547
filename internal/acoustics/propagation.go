// Package acoustics holds the sound propagation formulas used to estimate
// received sound pressure levels.
//
// All functions are pure. Distances are floored at MinDistance before any
// logarithm so callers never see -Inf or NaN from a zero distance.
package acoustics

import "math"

const (
	// MinDistance is the distance floor in meters applied before taking logs.
	MinDistance = 0.1
	// SpeedOfSound in air at roughly 20 °C, m/s.
	SpeedOfSound = 343.0

	minDirectivity = 1e-9
)

// FreeFieldAttenuation returns the level at distance meters from a source of
// level db, using spherical spreading: db - 20*log10(distance).
func FreeFieldAttenuation(db, distance float64) float64 {
	return db - 20*math.Log10(floorDistance(distance))
}

// MaterialAbsorptionLoss returns the level that passes a material with the
// given absorption coefficient: db * (1 - absorptivity).
// absorptivity is clamped to [0,1].
func MaterialAbsorptionLoss(db, absorptivity float64) float64 {
	return db * (1 - clamp01(absorptivity))
}

// PointSourceSPL computes Lp = Lw + 10*log10(Q/(4πr²)) - alpha*r for a point
// source of power level lw, directivity q (1 = omnidirectional) and linear
// absorption alpha per meter.
func PointSourceSPL(lw, q, r, alpha float64) float64 {
	r = floorDistance(r)
	if !(q > minDirectivity) {
		q = minDirectivity
	}
	return lw + 10*math.Log10(q/(4*math.Pi*r*r)) - alpha*r
}

func floorDistance(d float64) float64 {
	if !(d >= MinDistance) {
		return MinDistance
	}
	return d
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
