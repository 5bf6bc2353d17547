package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BROKENGroupe/soundmap/internal/repository"
	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/google/uuid"
)

// PostgresRenderRepository implements RenderRepository for PostgreSQL
type PostgresRenderRepository struct {
	db *sql.DB
}

// NewPostgresRenderRepository creates a new PostgreSQL render repository
func NewPostgresRenderRepository(db *sql.DB) repository.RenderRepository {
	return &PostgresRenderRepository{db: db}
}

const renderColumns = `id, scene_id, params, status, progress, image_key, plot_key, stats, error_message, created_at, updated_at, completed_at`

// Create inserts a new render record
func (r *PostgresRenderRepository) Create(ctx context.Context, render *models.Render) error {
	params, err := json.Marshal(render.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal render params: %w", err)
	}

	query := `
		INSERT INTO renders (id, scene_id, params, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		render.ID,
		render.SceneID,
		string(params),
		render.Status,
		render.Progress,
		render.CreatedAt,
		render.UpdatedAt)

	return err
}

// GetByID retrieves a render by ID
func (r *PostgresRenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Render, error) {
	query := `SELECT ` + renderColumns + ` FROM renders WHERE id = $1`

	render, err := scanRender(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return render, err
}

// ListByScene retrieves the renders of a scene, newest first
func (r *PostgresRenderRepository) ListByScene(ctx context.Context, sceneID uuid.UUID) ([]*models.Render, error) {
	query := `SELECT ` + renderColumns + ` FROM renders WHERE scene_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sceneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []*models.Render
	for rows.Next() {
		render, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, render)
	}
	return renders, rows.Err()
}

// UpdateStatus updates the status and progress of a render
func (r *PostgresRenderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE renders
		SET status = $1, progress = $2, updated_at = NOW()
		WHERE id = $3`

	return expectOne(r.db.ExecContext(ctx, query, status, progress, id))
}

// UpdateError marks a render as failed
func (r *PostgresRenderRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE renders
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return expectOne(r.db.ExecContext(ctx, query, errorMsg, id))
}

// Complete stores the artifacts and summary of a finished render
func (r *PostgresRenderRepository) Complete(ctx context.Context, id uuid.UUID, imageKey, plotKey string, stats *models.RenderStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal render stats: %w", err)
	}

	query := `
		UPDATE renders
		SET status = 'completed', progress = 100, image_key = $1, plot_key = NULLIF($2, ''),
		    stats = $3, updated_at = NOW(), completed_at = NOW()
		WHERE id = $4`

	return expectOne(r.db.ExecContext(ctx, query, imageKey, plotKey, string(data), id))
}

func scanRender(row rowScanner) (*models.Render, error) {
	var render models.Render
	var params []byte
	var imageKey, plotKey, errorMsg sql.NullString
	var stats []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&render.ID,
		&render.SceneID,
		&params,
		&render.Status,
		&render.Progress,
		&imageKey,
		&plotKey,
		&stats,
		&errorMsg,
		&render.CreatedAt,
		&render.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(params, &render.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render params: %w", err)
	}
	if len(stats) > 0 {
		render.Stats = &models.RenderStats{}
		if err := json.Unmarshal(stats, render.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal render stats: %w", err)
		}
	}
	if imageKey.Valid {
		render.ImageKey = &imageKey.String
	}
	if plotKey.Valid {
		render.PlotKey = &plotKey.String
	}
	if errorMsg.Valid {
		render.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		render.CompletedAt = &completedAt.Time
	}
	return &render, nil
}
