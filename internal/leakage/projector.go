// Package leakage derives exterior "leak" points from interior measurements:
// sound that reaches a wall is re-emitted just outside it, attenuated by the
// wall's transmission loss.
package leakage

import (
	"math"

	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Config tunes the projector.
type Config struct {
	// Margin is how close to a wall, in meters, a point must be to leak through it.
	Margin float64
	// Offset places the leak point this far outside the wall.
	Offset float64
	// MinDB skips points quieter than this.
	MinDB float64
}

// DefaultConfig matches the editor's leak heuristics.
func DefaultConfig() Config {
	return Config{Margin: 0.5, Offset: 0.1, MinDB: 10}
}

// Projector generates exterior points. It holds no mutable state.
type Projector struct {
	cfg     Config
	catalog materials.Catalog
}

// NewProjector builds a projector. A nil catalog resolves every material to
// the default absorption.
func NewProjector(cfg Config, catalog materials.Catalog) *Projector {
	return &Projector{cfg: cfg, catalog: catalog}
}

// direction describes one leaking face. The floor is not a leak direction.
type direction struct {
	wall models.WallKey
	near func(p models.AcousticPoint, r models.Room, margin float64) bool
	move func(p *models.AcousticPoint, r models.Room, offset float64)
}

var directions = []direction{
	{
		wall: models.WallWest,
		near: func(p models.AcousticPoint, _ models.Room, m float64) bool { return p.X < m },
		move: func(p *models.AcousticPoint, _ models.Room, o float64) { p.X = -o },
	},
	{
		wall: models.WallEast,
		near: func(p models.AcousticPoint, r models.Room, m float64) bool { return p.X > r.Width-m },
		move: func(p *models.AcousticPoint, r models.Room, o float64) { p.X = r.Width + o },
	},
	{
		wall: models.WallNorth,
		near: func(p models.AcousticPoint, _ models.Room, m float64) bool { return p.Z < m },
		move: func(p *models.AcousticPoint, _ models.Room, o float64) { p.Z = -o },
	},
	{
		wall: models.WallSouth,
		near: func(p models.AcousticPoint, r models.Room, m float64) bool { return p.Z > r.Depth-m },
		move: func(p *models.AcousticPoint, r models.Room, o float64) { p.Z = r.Depth + o },
	},
	{
		wall: models.WallCeiling,
		near: func(p models.AcousticPoint, r models.Room, m float64) bool { return p.Y > r.Height-m },
		move: func(p *models.AcousticPoint, r models.Room, o float64) { p.Y = r.Height + o },
	},
}

// Project returns one exterior point per (point, nearby wall) pair. A point
// in a corner leaks through every adjacent wall.
func (p *Projector) Project(points []models.AcousticPoint, room models.Room, walls models.WallMap) []models.AcousticPoint {
	lossByWall := make(map[models.WallKey]float64, len(directions))
	for _, d := range directions {
		lossByWall[d.wall] = materials.TransmissionLoss(materials.ResolveWall(p.catalog, walls, d.wall))
	}

	var out []models.AcousticPoint
	for _, src := range points {
		if !(src.DB >= p.cfg.MinDB) {
			continue
		}
		for _, d := range directions {
			if !d.near(src, room, p.cfg.Margin) {
				continue
			}
			ext := src
			d.move(&ext, room, p.cfg.Offset)
			ext.DB = math.Max(0, src.DB-lossByWall[d.wall])
			ext.ID = src.ID + "_ext_" + string(d.wall)
			out = append(out, ext)
		}
	}
	return out
}

// ProjectLeakage runs the default projector against the given catalog.
func ProjectLeakage(points []models.AcousticPoint, room models.Room, walls models.WallMap, catalog materials.Catalog) []models.AcousticPoint {
	return NewProjector(DefaultConfig(), catalog).Project(points, room, walls)
}
