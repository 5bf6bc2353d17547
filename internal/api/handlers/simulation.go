package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/simulation"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// SimulationHandler serves synthetic fields for rooms without measurements
type SimulationHandler struct {
	catalog materials.Catalog
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(catalog materials.Catalog) *SimulationHandler {
	return &SimulationHandler{catalog: catalog}
}

// Escape returns the level escaping through a door around the room
func (h *SimulationHandler) Escape(ctx context.Context, req *models.SimulateEscapeRequest) (*models.GridResponse, error) {
	b := req.Body
	if err := b.Room.Validate(); err != nil {
		return nil, huma.Error400BadRequest("Invalid room", err)
	}
	walls, err := models.NormalizeWalls(b.Walls)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid walls", err)
	}

	cfg := simulation.DefaultEscapeConfig(b.Room)
	if b.Segments > 0 {
		cfg.Segments = b.Segments
	}
	if b.DoorX != nil {
		cfg.DoorX = *b.DoorX
	}
	if b.DoorZ0 != nil {
		cfg.DoorZ0 = *b.DoorZ0
	}
	if b.DoorZ1 != nil {
		cfg.DoorZ1 = *b.DoorZ1
	}
	if cfg.DoorZ0 > cfg.DoorZ1 {
		return nil, huma.Error400BadRequest("door_z0 must not exceed door_z1", nil)
	}

	absorption := sideAbsorption(h.catalog, walls)
	if b.Absorption != nil {
		absorption = *b.Absorption
	}

	jitter, err := jitterFor(b.Jitter, b.Seed)
	if err != nil {
		return nil, err
	}

	grid := simulation.EscapeMap(cfg, absorption, jitter)
	log.Info().Int("segments", cfg.Segments).Float64("absorption", absorption).Str("jitter", b.Jitter).Msg("Simulated escape map")
	return &models.GridResponse{Body: grid}, nil
}

// Source returns the floor field of an idealized point source
func (h *SimulationHandler) Source(ctx context.Context, req *models.SimulateSourceRequest) (*models.SimulateSourceResponse, error) {
	b := req.Body
	area, err := interpolation.PixelArea(b.Width, b.Height, b.OffsetX, b.OffsetZ, b.ExtentX, b.ExtentZ)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid lattice", err)
	}
	q := b.Q
	if q <= 0 {
		q = 1
	}

	grid := simulation.FromSource(simulation.Source{
		Position: b.Source,
		Lw:       b.Lw,
		Q:        q,
		Alpha:    b.Alpha,
	}, area)

	resp := &models.SimulateSourceResponse{}
	resp.Body.Grid = grid
	if b.Points {
		resp.Body.Points = simulation.Points(grid)
	}
	return resp, nil
}

// sideAbsorption averages the resolved absorption of the four side walls
func sideAbsorption(c materials.Catalog, walls models.WallMap) float64 {
	sides := []models.WallKey{models.WallNorth, models.WallSouth, models.WallEast, models.WallWest}
	sum := 0.0
	for _, k := range sides {
		sum += materials.ResolveWall(c, walls, k)
	}
	return sum / float64(len(sides))
}

func jitterFor(name string, seed int64) (simulation.Jitter, error) {
	switch name {
	case "", "none":
		return simulation.NoJitter{}, nil
	case "uniform":
		return simulation.NewUniformJitter(seed), nil
	case "perlin":
		return simulation.NewPerlinJitter(seed, 0), nil
	}
	return nil, huma.Error400BadRequest("Unknown jitter "+name, nil)
}
