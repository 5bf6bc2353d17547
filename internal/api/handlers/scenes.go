package handlers

import (
	"bytes"
	"context"
	"errors"
	"math"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/internal/leakage"
	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/processing"
	"github.com/BROKENGroupe/soundmap/internal/recommendations"
	"github.com/BROKENGroupe/soundmap/internal/render"
	"github.com/BROKENGroupe/soundmap/internal/repository"
	"github.com/BROKENGroupe/soundmap/internal/simulation"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// SceneHandler handles scene-related HTTP requests
type SceneHandler struct {
	repo     repository.SceneRepository
	catalog  materials.Catalog
	settings processing.Settings
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(repo repository.SceneRepository, catalog materials.Catalog, settings processing.Settings) *SceneHandler {
	return &SceneHandler{
		repo:     repo,
		catalog:  catalog,
		settings: settings,
	}
}

// CreateScene stores a new scene, optionally filled with simulated points
func (h *SceneHandler) CreateScene(ctx context.Context, req *models.CreateSceneRequest) (*models.SceneResponse, error) {
	b := req.Body
	if err := b.Room.Validate(); err != nil {
		return nil, huma.Error400BadRequest("Invalid room", err)
	}
	walls, err := models.NormalizeWalls(b.Walls)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid walls", err)
	}
	if err := validatePoints(b.Points); err != nil {
		return nil, huma.Error400BadRequest("Invalid points", err)
	}

	points := b.Points
	if len(points) == 0 && b.Simulate {
		points = simulation.RealisticPoints(b.Room, simulation.DefaultGridSize, simulation.NewPerlinJitter(b.Seed, 0))
		log.Info().Int("points", len(points)).Int64("seed", b.Seed).Msg("Simulated scene points")
	}

	mode := b.Mode
	if mode == "" {
		mode = models.ModeDay
	}

	now := time.Now()
	scene := &models.Scene{
		ID:        uuid.New().String(),
		Name:      b.Name,
		Room:      b.Room,
		Walls:     walls,
		Points:    points,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, scene); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create scene", err)
	}
	log.Info().Str("sceneID", scene.ID).Str("name", scene.Name).Msg("Scene created")

	return &models.SceneResponse{Body: scene}, nil
}

// GetScene returns a scene
func (h *SceneHandler) GetScene(ctx context.Context, req *models.SceneIDRequest) (*models.SceneResponse, error) {
	scene, err := h.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &models.SceneResponse{Body: scene}, nil
}

// ListScenes returns the newest scenes
func (h *SceneHandler) ListScenes(ctx context.Context, req *models.ListScenesRequest) (*models.ListScenesResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	scenes, err := h.repo.List(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list scenes", err)
	}
	if scenes == nil {
		scenes = []*models.Scene{}
	}
	resp := &models.ListScenesResponse{}
	resp.Body.Scenes = scenes
	return resp, nil
}

// UpdateWalls replaces the wall properties of a scene
func (h *SceneHandler) UpdateWalls(ctx context.Context, req *models.UpdateWallsRequest) (*models.SceneResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scene ID", err)
	}
	walls, err := models.NormalizeWalls(req.Body.Walls)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid walls", err)
	}
	if err := h.repo.UpdateWalls(ctx, id, walls); err != nil {
		return nil, notFoundOr500(err, "Scene not found", "Failed to update walls")
	}
	log.Info().Str("sceneID", req.ID).Int("walls", len(walls)).Msg("Scene walls updated")
	return h.GetScene(ctx, &models.SceneIDRequest{ID: req.ID})
}

// UpdatePoints replaces the points of a scene
func (h *SceneHandler) UpdatePoints(ctx context.Context, req *models.UpdatePointsRequest) (*models.SceneResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scene ID", err)
	}
	if err := validatePoints(req.Body.Points); err != nil {
		return nil, huma.Error400BadRequest("Invalid points", err)
	}
	if err := h.repo.UpdatePoints(ctx, id, req.Body.Points); err != nil {
		return nil, notFoundOr500(err, "Scene not found", "Failed to update points")
	}
	log.Info().Str("sceneID", req.ID).Int("points", len(req.Body.Points)).Msg("Scene points updated")
	return h.GetScene(ctx, &models.SceneIDRequest{ID: req.ID})
}

// SceneRecommendations evaluates the stored points of a scene
func (h *SceneHandler) SceneRecommendations(ctx context.Context, req *models.SceneRecommendationsRequest) (*models.RecommendationsResponse, error) {
	scene, err := h.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	normal, high := h.settings.ThresholdNormal, h.settings.ThresholdHigh
	opts := recommendations.Options{
		Mode:            scene.Mode,
		ThresholdNormal: &normal,
		ThresholdHigh:   &high,
	}
	return &models.RecommendationsResponse{Body: recommendationsBody(scene.Points, opts)}, nil
}

// SceneChart renders the floor field of a scene as an interactive HTML page
func (h *SceneHandler) SceneChart(ctx context.Context, req *models.SceneChartRequest) (*models.HTMLResponse, error) {
	scene, err := h.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	name := req.Scale
	if name == "" {
		name = classify.Sonar.Name
	}
	scale, err := classify.ScaleByName(name)
	if err != nil {
		return nil, huma.Error400BadRequest("Unknown scale", err)
	}
	res := req.Resolution
	if res < 2 {
		res = 64
	}

	exterior := leakage.NewProjector(h.settings.Leakage, h.catalog).Project(scene.Points, scene.Room, scene.Walls)
	points := append(append([]models.AcousticPoint{}, scene.Points...), exterior...)

	area, err := interpolation.FloorArea(scene.Room, res, res, h.settings.Leakage.Offset+1)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid resolution", err)
	}
	grid, err := interpolation.Interpolate(ctx, interpolation.SamplesFor(points, interpolation.PlaneFloor), area,
		interpolation.WithPower(h.settings.Power))
	if err != nil {
		return nil, huma.Error500InternalServerError("Interpolation failed", err)
	}

	if scale.Name == classify.Shader.Name {
		grid = interpolation.Normalize(grid)
	}

	var buf bytes.Buffer
	if err := render.ChartHTML(&buf, grid, scene.Points, scale, render.ChartOptions{
		Title: scene.Name,
		MinDB: scale.MinDB,
		MaxDB: scale.MaxDB,
	}); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}

	return &models.HTMLResponse{ContentType: "text/html; charset=utf-8", Body: buf.Bytes()}, nil
}

func (h *SceneHandler) load(ctx context.Context, rawID string) (*models.Scene, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scene ID", err)
	}
	scene, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr500(err, "Scene not found", "Failed to load scene")
	}
	return scene, nil
}

func validatePoints(points []models.AcousticPoint) error {
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		if p.ID == "" {
			return errors.New("every point needs an id")
		}
		if seen[p.ID] {
			return errors.New("duplicate point id " + p.ID)
		}
		seen[p.ID] = true
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) || !isFinite(p.DB) {
			return errors.New("point " + p.ID + " has a non-finite coordinate or level")
		}
	}
	return nil
}

func notFoundOr500(err error, notFound, internal string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound(notFound, err)
	}
	return huma.Error500InternalServerError(internal, err)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
