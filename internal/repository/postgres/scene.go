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

// PostgresSceneRepository implements SceneRepository for PostgreSQL
type PostgresSceneRepository struct {
	db *sql.DB
}

// NewPostgresSceneRepository creates a new PostgreSQL scene repository
func NewPostgresSceneRepository(db *sql.DB) repository.SceneRepository {
	return &PostgresSceneRepository{db: db}
}

const sceneColumns = `id, name, width, height, depth, walls, points, mode, created_at, updated_at`

// Create inserts a new scene
func (r *PostgresSceneRepository) Create(ctx context.Context, scene *models.Scene) error {
	walls, err := marshalWalls(scene.Walls)
	if err != nil {
		return err
	}
	points, err := marshalPoints(scene.Points)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scenes (` + sceneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		scene.ID,
		scene.Name,
		scene.Room.Width,
		scene.Room.Height,
		scene.Room.Depth,
		walls,
		points,
		string(scene.Mode),
		scene.CreatedAt,
		scene.UpdatedAt)

	return err
}

// GetByID retrieves a scene by ID
func (r *PostgresSceneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes WHERE id = $1`

	scene, err := scanScene(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return scene, err
}

// List returns the most recently created scenes first
func (r *PostgresSceneRepository) List(ctx context.Context, limit int) ([]*models.Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*models.Scene
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, rows.Err()
}

// UpdateWalls replaces the wall properties of a scene
func (r *PostgresSceneRepository) UpdateWalls(ctx context.Context, id uuid.UUID, walls models.WallMap) error {
	data, err := marshalWalls(walls)
	if err != nil {
		return err
	}
	query := `UPDATE scenes SET walls = $1, updated_at = NOW() WHERE id = $2`
	return expectOne(r.db.ExecContext(ctx, query, data, id))
}

// UpdatePoints replaces the point list of a scene
func (r *PostgresSceneRepository) UpdatePoints(ctx context.Context, id uuid.UUID, points []models.AcousticPoint) error {
	data, err := marshalPoints(points)
	if err != nil {
		return err
	}
	query := `UPDATE scenes SET points = $1, updated_at = NOW() WHERE id = $2`
	return expectOne(r.db.ExecContext(ctx, query, data, id))
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScene(row rowScanner) (*models.Scene, error) {
	var scene models.Scene
	var walls, points []byte
	var mode string

	err := row.Scan(
		&scene.ID,
		&scene.Name,
		&scene.Room.Width,
		&scene.Room.Height,
		&scene.Room.Depth,
		&walls,
		&points,
		&mode,
		&scene.CreatedAt,
		&scene.UpdatedAt)
	if err != nil {
		return nil, err
	}

	scene.Mode = models.Mode(mode)
	if err := json.Unmarshal(walls, &scene.Walls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal walls: %w", err)
	}
	if err := json.Unmarshal(points, &scene.Points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal points: %w", err)
	}
	return &scene, nil
}

func marshalWalls(walls models.WallMap) (string, error) {
	if walls == nil {
		walls = models.WallMap{}
	}
	data, err := json.Marshal(walls)
	if err != nil {
		return "", fmt.Errorf("failed to marshal walls: %w", err)
	}
	return string(data), nil
}

func marshalPoints(points []models.AcousticPoint) (string, error) {
	if points == nil {
		points = []models.AcousticPoint{}
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("failed to marshal points: %w", err)
	}
	return string(data), nil
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
