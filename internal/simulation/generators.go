package simulation

import (
	"fmt"
	"math"

	"github.com/BROKENGroupe/soundmap/internal/acoustics"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

const (
	DefaultGridSize = 20
	// leak points suppress grid samples closer than this on both axes
	leakClearance = 0.6
)

type leak struct {
	x, z, db float64
}

// leaks are the fixed corner and edge hot spots of a room of the given size.
func leaks(w, d float64) []leak {
	return []leak{
		{0.5, 0.5, 95},
		{w - 0.5, 0.5, 93},
		{0.5, d - 0.5, 92},
		{w - 0.5, d - 0.5, 94},
		{w / 2, 0.3, 90},
		{w / 2, d - 0.3, 89},
		{0.3, d / 2, 88},
		{w - 0.3, d / 2, 87},
		{w / 4, 0.4, 85},
		{w * 3 / 4, d - 0.4, 86},
	}
}

// RealisticPoints returns floor-level points for a room: ten leak hot spots
// near corners and edges, then an nGrid x nGrid lattice whose level decays
// from 70 dB at the walls towards 45 dB in the middle. Lattice cells too close
// to a leak are skipped. Each lattice level is nudged by up to ±1.5 dB.
func RealisticPoints(room models.Room, nGrid int, j Jitter) []models.AcousticPoint {
	if nGrid < 2 {
		nGrid = DefaultGridSize
	}
	if j == nil {
		j = NoJitter{}
	}
	w, d := room.Width, room.Depth
	ls := leaks(w, d)

	out := make([]models.AcousticPoint, 0, len(ls)+nGrid*nGrid)
	id := 0
	for _, l := range ls {
		out = append(out, models.AcousticPoint{ID: fmt.Sprintf("fuga%d", id), X: l.x, Z: l.z, DB: l.db})
		id++
	}

	for i := 0; i < nGrid; i++ {
		for k := 0; k < nGrid; k++ {
			x := float64(i) / float64(nGrid-1) * w
			z := float64(k) / float64(nGrid-1) * d
			if nearLeak(ls, x, z) {
				continue
			}
			edge := math.Min(math.Min(x, w-x), math.Min(z, d-z))
			db := 45 + 25*math.Exp(-edge/2) + spread(j, x, z, 3)
			out = append(out, models.AcousticPoint{ID: fmt.Sprintf("p%d", id), X: x, Z: z, DB: db})
			id++
		}
	}
	return out
}

func nearLeak(ls []leak, x, z float64) bool {
	for _, l := range ls {
		if math.Abs(l.x-x) < leakClearance && math.Abs(l.z-z) < leakClearance {
			return true
		}
	}
	return false
}

// EscapeConfig places a door-shaped leak on the exterior plane. The plane
// spans three times the room on each axis, centred on the origin; the door is
// the segment x = DoorX, z in [DoorZ0, DoorZ1].
type EscapeConfig struct {
	Width    float64
	Depth    float64
	Segments int
	DoorX    float64
	DoorZ0   float64
	DoorZ1   float64
}

// DefaultEscapeConfig puts the door near the west side of the room's footprint.
func DefaultEscapeConfig(room models.Room) EscapeConfig {
	return EscapeConfig{
		Width:    room.Width,
		Depth:    room.Depth,
		Segments: 64,
		DoorX:    room.Width / 8,
		DoorZ0:   -room.Depth / 4,
		DoorZ1:   room.Depth / 4,
	}
}

const (
	escapeBaseSPL = 105.0
	escapeMinSPL  = 40.0
)

// EscapeMap estimates the level escaping through the door: 105 dB at the
// door falling by 60 dB per escape radius, minus 40 dB times the wall
// absorption, floored at 40 dB. The radius is 35% of the smaller room side.
func EscapeMap(cfg EscapeConfig, absorption float64, j Jitter) models.Grid {
	if j == nil {
		j = NoJitter{}
	}
	n := cfg.Segments
	if n < 2 {
		n = 2
	}
	extX, extZ := cfg.Width*3, cfg.Depth*3
	g := models.NewGrid(n, n, -extX/2, -extZ/2, extX/float64(n-1), extZ/float64(n-1))

	radius := math.Min(cfg.Width, cfg.Depth) * 0.35
	if !(radius > 0) {
		radius = acoustics.MinDistance
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			x, z := g.Coord(col, row)
			spl := escapeBaseSPL - doorDistance(cfg, x, z)/radius*60 - absorption*40 + 2*j.Sample(x, z)
			g.Values[row*n+col] = math.Max(escapeMinSPL, spl)
		}
	}
	return g
}

func doorDistance(cfg EscapeConfig, x, z float64) float64 {
	if z >= cfg.DoorZ0 && z <= cfg.DoorZ1 {
		return math.Abs(x - cfg.DoorX)
	}
	dz := cfg.DoorZ0 - z
	if z > cfg.DoorZ1 {
		dz = z - cfg.DoorZ1
	}
	return math.Hypot(x-cfg.DoorX, dz)
}

// Source is an idealized point source.
type Source struct {
	Position models.AcousticPoint `json:"position" doc:"Source position; db is ignored"`
	// Lw is the sound power level in dB.
	Lw float64 `json:"lw" doc:"Sound power level in dB"`
	// Q is the directivity factor, 1 for omnidirectional.
	Q     float64 `json:"q" doc:"Directivity factor"`
	Alpha float64 `json:"alpha" doc:"Air absorption in dB per meter"`
}

// FromSource evaluates the point-source level over the floor plane (y = 0)
// of area.
func FromSource(src Source, area interpolation.Area) models.Grid {
	g := area.Grid()
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			x, z := area.X(col), area.Z(row)
			r := math.Sqrt(sq(x-src.Position.X) + sq(src.Position.Y) + sq(z-src.Position.Z))
			g.Values[row*g.Width+col] = acoustics.PointSourceSPL(src.Lw, src.Q, r, src.Alpha)
		}
	}
	return g
}

// Points converts a source field back to floor-level points, useful as
// interpolator input or recommendation input.
func Points(g models.Grid) []models.AcousticPoint {
	gp := g.Points()
	out := make([]models.AcousticPoint, len(gp))
	for i, p := range gp {
		out[i] = models.AcousticPoint{ID: p.ID, X: p.X, Z: p.Z, DB: p.Value}
	}
	return out
}

func sq(v float64) float64 { return v * v }
