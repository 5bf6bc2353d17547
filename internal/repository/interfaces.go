package repository

import (
	"context"
	"errors"

	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// SceneRepository defines the interface for scene data operations
type SceneRepository interface {
	Create(ctx context.Context, scene *models.Scene) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error)
	List(ctx context.Context, limit int) ([]*models.Scene, error)
	UpdateWalls(ctx context.Context, id uuid.UUID, walls models.WallMap) error
	UpdatePoints(ctx context.Context, id uuid.UUID, points []models.AcousticPoint) error
}

// RenderRepository defines the interface for render job operations
type RenderRepository interface {
	Create(ctx context.Context, render *models.Render) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Render, error)
	ListByScene(ctx context.Context, sceneID uuid.UUID) ([]*models.Render, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	Complete(ctx context.Context, id uuid.UUID, imageKey, plotKey string, stats *models.RenderStats) error
}
