package processing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/BROKENGroupe/soundmap/internal/acoustics"
	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/internal/leakage"
	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/recommendations"
	"github.com/BROKENGroupe/soundmap/internal/render"
	"github.com/BROKENGroupe/soundmap/internal/repository"
	"github.com/BROKENGroupe/soundmap/internal/storage"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// RenderService turns a pending render into stored heat map artifacts.
type RenderService interface {
	ProcessRender(ctx context.Context, renderID uuid.UUID) error
}

// Settings carries the server-wide render defaults.
type Settings struct {
	Leakage         leakage.Config
	Power           float64
	ThresholdNormal float64
	ThresholdHigh   float64
	// Alpha is the opacity of the raw field image.
	Alpha uint8
}

// DefaultSettings returns the defaults used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Leakage:         leakage.DefaultConfig(),
		Power:           interpolation.DefaultPower,
		ThresholdNormal: recommendations.DefaultThresholdNormal,
		ThresholdHigh:   recommendations.DefaultThresholdHigh,
		Alpha:           255,
	}
}

type renderService struct {
	store    storage.ObjectStore
	scenes   repository.SceneRepository
	renders  repository.RenderRepository
	catalog  materials.Catalog
	settings Settings
}

func NewRenderService(store storage.ObjectStore, scenes repository.SceneRepository, renders repository.RenderRepository, catalog materials.Catalog, settings Settings) RenderService {
	return &renderService{
		store:    store,
		scenes:   scenes,
		renders:  renders,
		catalog:  catalog,
		settings: settings,
	}
}

// ImageKey is where the raw field PNG of a render is stored.
func ImageKey(renderID string) string { return "renders/" + renderID + "/field.png" }

// PlotKey is where the annotated heat map PNG of a render is stored.
func PlotKey(renderID string) string { return "renders/" + renderID + "/plot.png" }

// ProcessRender runs the pipeline. A render whose context is cancelled is
// marked failed with a cancellation message.
func (s *renderService) ProcessRender(ctx context.Context, renderID uuid.UUID) error {
	err := s.process(ctx, renderID)
	if err != nil && ctx.Err() != nil {
		if uerr := s.renders.UpdateError(context.WithoutCancel(ctx), renderID, "Render cancelled"); uerr != nil {
			log.Error().Err(uerr).Str("renderID", renderID.String()).Msg("Failed to record render cancellation")
		}
	}
	return err
}

func (s *renderService) process(ctx context.Context, renderID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.renders.UpdateStatus(ctx, renderID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Load render and scene
	rnd, err := s.renders.GetByID(ctx, renderID)
	if err != nil {
		return err
	}
	sceneID, err := uuid.Parse(rnd.SceneID)
	if err != nil {
		return s.fail(ctx, renderID, "Invalid scene ID", err)
	}
	scene, err := s.scenes.GetByID(ctx, sceneID)
	if err != nil {
		return s.fail(ctx, renderID, "Failed to load scene", err)
	}
	if err := s.renders.UpdateStatus(ctx, renderID, models.StatusProcessing, 20); err != nil {
		return err
	}

	// Step 3: Build samples and the target area
	params := rnd.Params
	points := scene.Points
	var exterior []models.AcousticPoint
	if params.IncludeLeakage {
		exterior = leakage.NewProjector(s.settings.Leakage, s.catalog).Project(scene.Points, scene.Room, scene.Walls)
		points = append(append([]models.AcousticPoint{}, scene.Points...), exterior...)
	}

	plane, area, err := s.areaFor(scene.Room, params)
	if err != nil {
		return s.fail(ctx, renderID, "Invalid render parameters", err)
	}
	samples := interpolation.SamplesFor(points, plane)

	scale, err := classify.ScaleByName(orDefault(params.Scale, "sonar"))
	if err != nil {
		return s.fail(ctx, renderID, "Invalid render parameters", err)
	}

	// Step 4: Interpolate
	if err := s.renders.UpdateStatus(ctx, renderID, models.StatusProcessing, 50); err != nil {
		return err
	}
	power := params.Power
	if !(power > 0) {
		power = s.settings.Power
	}
	grid, err := interpolation.Interpolate(ctx, samples, area, interpolation.WithPower(power))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return s.fail(ctx, renderID, "Interpolation failed", err)
	}

	// Step 5: Render and upload artifacts
	if err := s.renders.UpdateStatus(ctx, renderID, models.StatusProcessing, 80); err != nil {
		return err
	}
	minDB, maxDB := scale.MinDB, scale.MaxDB
	if params.MinDB != nil {
		minDB = *params.MinDB
	}
	if params.MaxDB != nil {
		maxDB = *params.MaxDB
	}

	// the shader ramp is defined over the field's own normalized range
	colored := grid
	if scale.Name == classify.Shader.Name {
		colored = interpolation.Normalize(grid)
		minDB, maxDB = 0, 1
	}

	image, err := render.EncodePNG(render.Rasterize(colored, scale, minDB, maxDB, s.settings.Alpha))
	if err != nil {
		return s.fail(ctx, renderID, "Failed to encode image", err)
	}
	imageKey := ImageKey(rnd.ID)
	if err := s.store.Upload(ctx, imageKey, "image/png", image); err != nil {
		return s.fail(ctx, renderID, "Failed to upload image", err)
	}

	var plotKey string
	plotPNG, err := render.HeatmapPNG(colored, scale, render.PlotOptions{
		Title: scene.Name,
		MinDB: minDB,
		MaxDB: maxDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("renderID", rnd.ID).Msg("Skipping heat map plot")
	} else {
		plotKey = PlotKey(rnd.ID)
		if err := s.store.Upload(ctx, plotKey, "image/png", plotPNG); err != nil {
			return s.fail(ctx, renderID, "Failed to upload plot", err)
		}
	}

	// Step 6: Summarize
	if err := s.renders.UpdateStatus(ctx, renderID, models.StatusProcessing, 90); err != nil {
		return err
	}
	stats := s.summarize(scene, grid, len(samples), len(exterior))

	// Step 7: Mark complete
	return s.renders.Complete(ctx, renderID, imageKey, plotKey, stats)
}

// areaFor picks the plane and pixel area a render covers. A wall narrows a
// wall-plane render to that wall's surface.
func (s *renderService) areaFor(room models.Room, params models.RenderParams) (interpolation.Plane, interpolation.Area, error) {
	res := params.Resolution
	if res < 2 {
		res = 256
	}

	if params.Wall != "" {
		wall, err := models.ParseWallKey(params.Wall)
		if err != nil {
			return "", interpolation.Area{}, err
		}
		area, err := interpolation.WallArea(room, wall, res, res)
		return interpolation.PlaneFor(wall), area, err
	}

	plane, err := interpolation.ParsePlane(orDefault(params.Plane, string(interpolation.PlaneFloor)))
	if err != nil {
		return "", interpolation.Area{}, err
	}
	var area interpolation.Area
	switch plane {
	case interpolation.PlaneNorthSouth:
		area, err = interpolation.WallArea(room, models.WallNorth, res, res)
	case interpolation.PlaneEastWest:
		area, err = interpolation.WallArea(room, models.WallWest, res, res)
	default:
		area, err = interpolation.FloorArea(room, res, res, math.Max(params.Padding, 0))
	}
	return plane, area, err
}

func (s *renderService) summarize(scene *models.Scene, grid models.Grid, sampleCount, exterior int) *models.RenderStats {
	stats := &models.RenderStats{
		SampleCount:    sampleCount,
		ExteriorPoints: exterior,
	}
	if n := len(grid.Values); n > 0 {
		stats.MinDB = floats.Min(grid.Values)
		stats.MaxDB = floats.Max(grid.Values)
		stats.MeanDB = floats.Sum(grid.Values) / float64(n)
	}

	rt60 := acoustics.RoomRT60(scene.Room, func(k models.WallKey) float64 {
		return materials.ResolveWall(s.catalog, scene.Walls, k)
	})
	if !math.IsInf(rt60, 0) && !math.IsNaN(rt60) {
		stats.RT60 = &rt60
	}

	normal, high := s.settings.ThresholdNormal, s.settings.ThresholdHigh
	stats.Warnings = recommendations.Evaluate(scene.Points, recommendations.Options{
		Mode:            scene.Mode,
		ThresholdNormal: &normal,
		ThresholdHigh:   &high,
	})
	return stats
}

// fail records msg on the render and returns the cause.
func (s *renderService) fail(ctx context.Context, renderID uuid.UUID, msg string, cause error) error {
	if err := s.renders.UpdateError(ctx, renderID, msg); err != nil {
		log.Error().Err(err).Str("renderID", renderID.String()).Msg("Failed to record render error")
	}
	return fmt.Errorf("%s: %w", msg, cause)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
