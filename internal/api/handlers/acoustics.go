package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/internal/acoustics"
	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/internal/leakage"
	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/processing"
	"github.com/BROKENGroupe/soundmap/internal/recommendations"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// speedOfSound in air at 20 °C, m/s
const speedOfSound = 343.0

// AcousticsHandler serves the stateless engine operations
type AcousticsHandler struct {
	catalog  materials.Catalog
	settings processing.Settings
}

// NewAcousticsHandler creates a new acoustics handler
func NewAcousticsHandler(catalog materials.Catalog, settings processing.Settings) *AcousticsHandler {
	return &AcousticsHandler{
		catalog:  catalog,
		settings: settings,
	}
}

// FreeField returns the level after spherical spreading over a distance
func (h *AcousticsHandler) FreeField(ctx context.Context, req *models.FreeFieldRequest) (*models.ValueResponse, error) {
	resp := &models.ValueResponse{}
	resp.Body.Value = acoustics.FreeFieldAttenuation(req.Body.DB, req.Body.Distance)
	return resp, nil
}

// Absorption returns the level after a material absorbs part of it
func (h *AcousticsHandler) Absorption(ctx context.Context, req *models.AbsorptionRequest) (*models.ValueResponse, error) {
	resp := &models.ValueResponse{}
	resp.Body.Value = acoustics.MaterialAbsorptionLoss(req.Body.DB, req.Body.Absorption)
	return resp, nil
}

// PointSource returns the pressure level at a distance from a point source
func (h *AcousticsHandler) PointSource(ctx context.Context, req *models.PointSourceRequest) (*models.ValueResponse, error) {
	q := req.Body.Q
	if q <= 0 {
		q = 1
	}
	resp := &models.ValueResponse{}
	resp.Body.Value = acoustics.PointSourceSPL(req.Body.Lw, q, req.Body.R, req.Body.Alpha)
	return resp, nil
}

// RoomAcoustics returns the reverberation time and axial modes of a room
func (h *AcousticsHandler) RoomAcoustics(ctx context.Context, req *models.RoomAcousticsRequest) (*models.RoomAcousticsResponse, error) {
	if err := req.Body.Room.Validate(); err != nil {
		return nil, huma.Error400BadRequest("Invalid room", err)
	}
	walls, err := models.NormalizeWalls(req.Body.Walls)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid walls", err)
	}

	resp := &models.RoomAcousticsResponse{}
	if rt60 := acoustics.RoomRT60(req.Body.Room, absorptionOf(h.catalog, walls)); isFinite(rt60) {
		resp.Body.RT60 = &rt60
	}
	resp.Body.Modes = acoustics.AxialModes(req.Body.Room, speedOfSound, req.Body.Modes)
	return resp, nil
}

// ListMaterials returns the material catalog
func (h *AcousticsHandler) ListMaterials(ctx context.Context, req *struct{}) (*models.ListMaterialsResponse, error) {
	resp := &models.ListMaterialsResponse{}
	resp.Body.Materials = h.catalog.List()
	return resp, nil
}

// Leakage projects interior points to the outside of nearby walls
func (h *AcousticsHandler) Leakage(ctx context.Context, req *models.LeakageRequest) (*models.PointsResponse, error) {
	if err := req.Body.Room.Validate(); err != nil {
		return nil, huma.Error400BadRequest("Invalid room", err)
	}
	walls, err := models.NormalizeWalls(req.Body.Walls)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid walls", err)
	}

	cfg := h.settings.Leakage
	if req.Body.Margin != nil {
		cfg.Margin = *req.Body.Margin
	}
	if req.Body.Offset != nil {
		cfg.Offset = *req.Body.Offset
	}
	if cfg.Margin < 0 || cfg.Offset < 0 {
		return nil, huma.Error400BadRequest("Margin and offset must not be negative", nil)
	}

	points := leakage.NewProjector(cfg, h.catalog).Project(req.Body.Points, req.Body.Room, walls)
	if req.Body.Halo {
		points = append(points, leakage.Halo(req.Body.Points, leakage.DefaultHaloConfig())...)
	}
	if points == nil {
		points = []models.AcousticPoint{}
	}

	log.Info().Int("interior", len(req.Body.Points)).Int("exterior", len(points)).Msg("Projected leakage")
	resp := &models.PointsResponse{}
	resp.Body.Points = points
	return resp, nil
}

// Interpolate evaluates IDW over a step lattice or a pixel lattice
func (h *AcousticsHandler) Interpolate(ctx context.Context, req *models.InterpolateRequest) (*models.GridResponse, error) {
	b := req.Body

	var area interpolation.Area
	var err error
	switch {
	case b.Step > 0:
		area, err = interpolation.StepArea(b.Range, b.Step)
		if err == nil && area.Columns()*area.Rows() > maxCells {
			return nil, huma.Error400BadRequest("Lattice too large. Increase step or reduce range.", nil)
		}
	case b.Width > 0 && b.Height > 0:
		area, err = interpolation.PixelArea(b.Width, b.Height, b.OffsetX, b.OffsetZ, b.ExtentX, b.ExtentZ)
	default:
		return nil, huma.Error400BadRequest("Either step or width and height are required", nil)
	}
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid lattice", err)
	}

	power := b.Power
	if !(power > 0) {
		power = h.settings.Power
	}
	grid, err := interpolation.Interpolate(ctx, b.Samples, area, interpolation.WithPower(power))
	if err != nil {
		return nil, huma.Error500InternalServerError("Interpolation failed", err)
	}
	if b.Normalize {
		grid = interpolation.Normalize(grid)
	}
	return &models.GridResponse{Body: grid}, nil
}

// maxCells bounds synchronous interpolation requests
const maxCells = 2048 * 2048

// Classify assigns bands and gradient colours to levels
func (h *AcousticsHandler) Classify(ctx context.Context, req *models.ClassifyRequest) (*models.ClassifyResponse, error) {
	name := req.Body.Scale
	if name == "" {
		name = "classic"
	}
	scale, err := classify.ScaleByName(name)
	if err != nil {
		return nil, huma.Error400BadRequest("Unknown scale, expected one of "+strings.Join(classify.ScaleNames(), ", "), err)
	}
	minDB, maxDB := scale.MinDB, scale.MaxDB
	if req.Body.MinDB != nil {
		minDB = *req.Body.MinDB
	}
	if req.Body.MaxDB != nil {
		maxDB = *req.Body.MaxDB
	}
	colorAt := func(db float64) models.RGB { return scale.ColorAt(db, minDB, maxDB) }
	if len(req.Body.Stops) > 0 {
		if len(req.Body.Stops) < 2 {
			return nil, huma.Error400BadRequest("At least two stops are required", nil)
		}
		stops := make([]models.RGB, len(req.Body.Stops))
		for i, hex := range req.Body.Stops {
			if stops[i], err = models.ParseHex(hex); err != nil {
				return nil, huma.Error400BadRequest("Invalid stop colour", err)
			}
		}
		colorAt = func(db float64) models.RGB { return classify.GradientColor(db, minDB, maxDB, stops) }
	}

	resp := &models.ClassifyResponse{}
	resp.Body.Results = make([]models.Classification, len(req.Body.Values))
	for i, v := range req.Body.Values {
		band := classify.ClassifyBand(v)
		resp.Body.Results[i] = models.Classification{
			DB:        v,
			Band:      band.Label,
			BandColor: band.Color.Hex(),
			Color:     colorAt(v).Hex(),
			Marker:    classify.ColorByDecibel(v).Hex(),
		}
	}
	resp.Body.Bands = classify.DefaultBands
	return resp, nil
}

// Recommendations checks points against the day or night limits
func (h *AcousticsHandler) Recommendations(ctx context.Context, req *models.RecommendationsRequest) (*models.RecommendationsResponse, error) {
	opts := recommendations.Options{
		Mode:            req.Body.Mode,
		ThresholdNormal: orDefault(req.Body.ThresholdNormal, h.settings.ThresholdNormal),
		ThresholdHigh:   orDefault(req.Body.ThresholdHigh, h.settings.ThresholdHigh),
	}
	if normal, high := opts.Limits(); normal > high {
		return nil, huma.Error400BadRequest("threshold_normal must not exceed threshold_high", nil)
	}
	return &models.RecommendationsResponse{Body: recommendationsBody(req.Body.Points, opts)}, nil
}

func recommendationsBody(points []models.AcousticPoint, opts recommendations.Options) models.RecommendationsResponseBody {
	warnings := recommendations.Assess(points, opts)
	messages := recommendations.Evaluate(points, opts)
	body := models.RecommendationsResponseBody{
		Messages: messages,
		AllClear: recommendations.IsAllClear(messages),
	}
	for _, w := range warnings {
		switch w.Level {
		case recommendations.LevelCritical:
			body.Critical++
		case recommendations.LevelElevated:
			body.Elevated++
		}
	}
	return body
}

func absorptionOf(c materials.Catalog, walls models.WallMap) acoustics.AbsorptionFunc {
	return func(k models.WallKey) float64 {
		return materials.ResolveWall(c, walls, k)
	}
}

// orDefault keeps an explicit value, zero included, and falls back to def
// only when the field was omitted.
func orDefault(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	return &def
}
