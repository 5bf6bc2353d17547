package acoustics

import (
	"math"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// SabineRT60 returns the reverberation time in seconds for a room of the
// given volume (m³), total surface area (m²) and mean absorption coefficient.
// A room with no absorbing area never decays and reports +Inf.
func SabineRT60(volume, area, avgAbsorption float64) float64 {
	sabins := area * avgAbsorption
	if sabins <= 0 {
		return math.Inf(1)
	}
	return 0.161 * volume / sabins
}

// AbsorptionFunc resolves the absorption coefficient of a wall.
type AbsorptionFunc func(models.WallKey) float64

// RoomRT60 computes the Sabine reverberation time of a room using the
// area-weighted mean absorption of its six surfaces.
func RoomRT60(room models.Room, absorption AbsorptionFunc) float64 {
	var area, sabins float64
	for _, k := range models.AllWalls {
		a := room.WallArea(k)
		area += a
		sabins += a * clamp01(absorption(k))
	}
	if area == 0 {
		return math.Inf(1)
	}
	return SabineRT60(room.Volume(), area, sabins/area)
}

// AxialModeFrequency returns the frequency of the n-th axial mode along a
// room dimension dim for speed of sound c: (c/2)*(n/dim).
func AxialModeFrequency(c, dim float64, n int) float64 {
	if dim <= 0 {
		return 0
	}
	return (c / 2) * (float64(n) / dim)
}

// AxialModes lists the first count axial modes along each room dimension.
func AxialModes(room models.Room, c float64, count int) []models.AxialMode {
	dims := []struct {
		axis string
		size float64
	}{
		{"width", room.Width},
		{"height", room.Height},
		{"depth", room.Depth},
	}

	modes := make([]models.AxialMode, 0, 3*count)
	for _, d := range dims {
		if d.size <= 0 {
			continue
		}
		for n := 1; n <= count; n++ {
			modes = append(modes, models.AxialMode{
				Axis:      d.axis,
				Order:     n,
				Frequency: AxialModeFrequency(c, d.size, n),
			})
		}
	}
	return modes
}
