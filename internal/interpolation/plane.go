package interpolation

import (
	"fmt"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Plane names which two 3D axes become the interpolator's (x, z).
type Plane string

const (
	// PlaneFloor is the horizontal slice: x -> x, z -> z.
	PlaneFloor Plane = "floor"
	// PlaneNorthSouth is the plane of the north and south walls: x -> x, y -> z.
	PlaneNorthSouth Plane = "north_south"
	// PlaneEastWest is the plane of the east and west walls: z -> x, y -> z.
	PlaneEastWest Plane = "east_west"
)

// ParsePlane validates a plane name.
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(s); p {
	case PlaneFloor, PlaneNorthSouth, PlaneEastWest:
		return p, nil
	}
	return "", fmt.Errorf("unknown plane %q", s)
}

// PlaneFor returns the plane a wall lies in.
func PlaneFor(k models.WallKey) Plane {
	switch k {
	case models.WallNorth, models.WallSouth:
		return PlaneNorthSouth
	case models.WallEast, models.WallWest:
		return PlaneEastWest
	}
	return PlaneFloor
}

// SamplesFor projects points onto plane, using db as the sample value.
func SamplesFor(points []models.AcousticPoint, plane Plane) []models.Sample {
	out := make([]models.Sample, len(points))
	for i, p := range points {
		switch plane {
		case PlaneNorthSouth:
			out[i] = models.Sample{X: p.X, Z: p.Y, Value: p.DB}
		case PlaneEastWest:
			out[i] = models.Sample{X: p.Z, Z: p.Y, Value: p.DB}
		default:
			out[i] = models.Sample{X: p.X, Z: p.Z, Value: p.DB}
		}
	}
	return out
}

// WallArea covers a wall surface with width x height pixels in its plane's
// coordinates.
func WallArea(room models.Room, k models.WallKey, width, height int) (Area, error) {
	switch PlaneFor(k) {
	case PlaneNorthSouth:
		return PixelArea(width, height, 0, 0, room.Width, room.Height)
	case PlaneEastWest:
		return PixelArea(width, height, 0, 0, room.Depth, room.Height)
	}
	return PixelArea(width, height, 0, 0, room.Width, room.Depth)
}

// FloorArea covers the floor plane of the room plus pad meters on every side,
// which is where exterior leak points land.
func FloorArea(room models.Room, width, height int, pad float64) (Area, error) {
	return PixelArea(width, height, -pad, -pad, room.Width+2*pad, room.Depth+2*pad)
}
