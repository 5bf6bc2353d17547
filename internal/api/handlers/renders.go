package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/internal/classify"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/internal/repository"
	"github.com/BROKENGroupe/soundmap/internal/storage"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// RenderSubmitter queues a render for background processing
type RenderSubmitter interface {
	Submit(sceneID string, renderID uuid.UUID)
}

// RenderHandler handles render-related HTTP requests
type RenderHandler struct {
	scenes     repository.SceneRepository
	renders    repository.RenderRepository
	store      storage.ObjectStore
	submitter  RenderSubmitter
	resolution int
}

// NewRenderHandler creates a new render handler. resolution is used when a
// request does not set one.
func NewRenderHandler(scenes repository.SceneRepository, renders repository.RenderRepository, store storage.ObjectStore, submitter RenderSubmitter, resolution int) *RenderHandler {
	return &RenderHandler{
		scenes:     scenes,
		renders:    renders,
		store:      store,
		submitter:  submitter,
		resolution: resolution,
	}
}

// CreateRender records a pending render of a scene and starts it
func (h *RenderHandler) CreateRender(ctx context.Context, req *models.CreateRenderRequest) (*models.RenderResponse, error) {
	sceneID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scene ID", err)
	}
	if _, err := h.scenes.GetByID(ctx, sceneID); err != nil {
		return nil, notFoundOr500(err, "Scene not found", "Failed to load scene")
	}

	params := req.Body
	if params.Plane == "" {
		params.Plane = string(interpolation.PlaneFloor)
	}
	if _, err := interpolation.ParsePlane(params.Plane); err != nil {
		return nil, huma.Error400BadRequest("Invalid plane", err)
	}
	if params.Wall != "" {
		wall, err := models.ParseWallKey(params.Wall)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid wall", err)
		}
		params.Wall = string(wall)
		params.Plane = string(interpolation.PlaneFor(wall))
	}
	if params.Scale == "" {
		params.Scale = "sonar"
	}
	if _, err := classify.ScaleByName(params.Scale); err != nil {
		return nil, huma.Error400BadRequest("Unknown scale", err)
	}
	if params.Resolution == 0 {
		params.Resolution = h.resolution
	}
	if params.MinDB != nil && params.MaxDB != nil && *params.MinDB >= *params.MaxDB {
		return nil, huma.Error400BadRequest("min_db must be below max_db", nil)
	}

	now := time.Now()
	rnd := &models.Render{
		ID:        uuid.New().String(),
		SceneID:   sceneID.String(),
		Params:    params,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.renders.Create(ctx, rnd); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create render", err)
	}

	log.Info().Str("renderID", rnd.ID).Str("sceneID", rnd.SceneID).Str("plane", params.Plane).Int("resolution", params.Resolution).Msg("Queueing render")
	h.submitter.Submit(rnd.SceneID, uuid.MustParse(rnd.ID))

	return &models.RenderResponse{Body: h.describe(ctx, rnd)}, nil
}

// GetRender returns the status of a render, with artifact URLs once completed
func (h *RenderHandler) GetRender(ctx context.Context, req *models.RenderIDRequest) (*models.RenderResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid render ID", err)
	}
	rnd, err := h.renders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr500(err, "Render not found", "Failed to load render")
	}
	return &models.RenderResponse{Body: h.describe(ctx, rnd)}, nil
}

// ListRenders returns the renders of a scene, newest first
func (h *RenderHandler) ListRenders(ctx context.Context, req *models.SceneIDRequest) (*models.ListRendersResponse, error) {
	sceneID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scene ID", err)
	}
	renders, err := h.renders.ListByScene(ctx, sceneID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list renders", err)
	}

	resp := &models.ListRendersResponse{}
	resp.Body.Renders = make([]models.RenderResponseBody, 0, len(renders))
	for _, r := range renders {
		resp.Body.Renders = append(resp.Body.Renders, h.describe(ctx, r))
	}
	return resp, nil
}

func (h *RenderHandler) describe(ctx context.Context, r *models.Render) models.RenderResponseBody {
	body := models.RenderResponseBody{
		ID:       r.ID,
		SceneID:  r.SceneID,
		Status:   r.Status,
		Progress: r.Progress,
		Message:  statusMessage(r.Status, r.Progress),
		Stats:    r.Stats,
	}
	if r.ErrorMsg != nil {
		body.Error = *r.ErrorMsg
	}
	if r.Status != models.StatusCompleted {
		return body
	}

	if r.ImageKey != nil {
		url, err := h.store.GenerateDownloadURL(ctx, *r.ImageKey)
		if err != nil {
			log.Error().Err(err).Str("renderID", r.ID).Msg("Failed to sign image URL")
		}
		body.ImageURL = url
	}
	if r.PlotKey != nil {
		url, err := h.store.GenerateDownloadURL(ctx, *r.PlotKey)
		if err != nil {
			log.Error().Err(err).Str("renderID", r.ID).Msg("Failed to sign plot URL")
		}
		body.PlotURL = url
	}
	return body
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Render queued..."
	case models.StatusProcessing:
		if progress < 25 {
			return "Loading scene..."
		} else if progress < 50 {
			return "Projecting leakage..."
		} else if progress < 80 {
			return "Interpolating field..."
		} else {
			return "Drawing heat map..."
		}
	case models.StatusCompleted:
		return "Render complete!"
	case models.StatusFailed:
		return "Render failed. Please try again."
	default:
		return "Unknown status"
	}
}
