package processing

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/repository"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// MockSceneRepository implements repository.SceneRepository for testing
type MockSceneRepository struct {
	mock.Mock
}

func (m *MockSceneRepository) Create(ctx context.Context, scene *models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}

func (m *MockSceneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	args := m.Called(ctx, id)
	scene, _ := args.Get(0).(*models.Scene)
	return scene, args.Error(1)
}

func (m *MockSceneRepository) List(ctx context.Context, limit int) ([]*models.Scene, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Scene), args.Error(1)
}

func (m *MockSceneRepository) UpdateWalls(ctx context.Context, id uuid.UUID, walls models.WallMap) error {
	args := m.Called(ctx, id, walls)
	return args.Error(0)
}

func (m *MockSceneRepository) UpdatePoints(ctx context.Context, id uuid.UUID, points []models.AcousticPoint) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

// MockRenderRepository implements repository.RenderRepository for testing
type MockRenderRepository struct {
	mock.Mock
}

func (m *MockRenderRepository) Create(ctx context.Context, render *models.Render) error {
	args := m.Called(ctx, render)
	return args.Error(0)
}

func (m *MockRenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Render, error) {
	args := m.Called(ctx, id)
	render, _ := args.Get(0).(*models.Render)
	return render, args.Error(1)
}

func (m *MockRenderRepository) ListByScene(ctx context.Context, sceneID uuid.UUID) ([]*models.Render, error) {
	args := m.Called(ctx, sceneID)
	return args.Get(0).([]*models.Render), args.Error(1)
}

func (m *MockRenderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockRenderRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockRenderRepository) Complete(ctx context.Context, id uuid.UUID, imageKey, plotKey string, stats *models.RenderStats) error {
	args := m.Called(ctx, id, imageKey, plotKey, stats)
	return args.Error(0)
}

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testScene() *models.Scene {
	glass := 0.1
	return &models.Scene{
		ID:   uuid.New().String(),
		Name: "Sala",
		Room: models.Room{Width: 6, Height: 3, Depth: 5},
		Walls: models.WallMap{
			models.WallWest: {Material: "glass", Absorption: &glass},
		},
		Points: []models.AcousticPoint{
			{ID: "a", X: 0.2, Y: 1, Z: 2, DB: 90},
			{ID: "b", X: 3, Y: 1, Z: 2.5, DB: 60},
		},
		Mode: models.ModeDay,
	}
}

func testRender(sceneID string, params models.RenderParams) *models.Render {
	return &models.Render{
		ID:      uuid.New().String(),
		SceneID: sceneID,
		Params:  params,
		Status:  models.StatusPending,
	}
}

func TestProcessRender_Success(t *testing.T) {
	scene := testScene()
	rnd := testRender(scene.ID, models.RenderParams{Plane: "floor", Scale: "sonar", Resolution: 16, Padding: 1, IncludeLeakage: true})
	id := uuid.MustParse(rnd.ID)

	scenes := new(MockSceneRepository)
	renders := new(MockRenderRepository)
	store := new(MockObjectStore)

	for _, p := range []int{10, 20, 50, 80, 90} {
		renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, p).Return(nil).Once()
	}
	renders.On("GetByID", mock.Anything, id).Return(rnd, nil)
	scenes.On("GetByID", mock.Anything, uuid.MustParse(scene.ID)).Return(scene, nil)
	store.On("Upload", mock.Anything, ImageKey(rnd.ID), "image/png", mock.Anything).Return(nil)
	store.On("Upload", mock.Anything, PlotKey(rnd.ID), "image/png", mock.Anything).Return(nil)

	var stats *models.RenderStats
	renders.On("Complete", mock.Anything, id, ImageKey(rnd.ID), PlotKey(rnd.ID), mock.AnythingOfType("*models.RenderStats")).
		Run(func(args mock.Arguments) { stats = args.Get(4).(*models.RenderStats) }).
		Return(nil)

	svc := NewRenderService(store, scenes, renders, materials.Default(), DefaultSettings())
	require.NoError(t, svc.ProcessRender(context.Background(), id))

	renders.AssertExpectations(t)
	store.AssertExpectations(t)

	require.NotNil(t, stats)
	// point a sits 0.2 m from the west wall and leaks through it
	assert.Equal(t, 1, stats.ExteriorPoints)
	assert.Equal(t, 3, stats.SampleCount)
	assert.LessOrEqual(t, stats.MinDB, stats.MeanDB)
	assert.LessOrEqual(t, stats.MeanDB, stats.MaxDB)
	assert.LessOrEqual(t, stats.MaxDB, 90.0)
	require.NotNil(t, stats.RT60)
	assert.Greater(t, *stats.RT60, 0.0)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "Punto crítico")
}

func TestProcessRender_ShaderUsesFieldRange(t *testing.T) {
	scene := testScene()
	rnd := testRender(scene.ID, models.RenderParams{Plane: "floor", Scale: "shader", Resolution: 12, Padding: 1})
	id := uuid.MustParse(rnd.ID)

	scenes := new(MockSceneRepository)
	renders := new(MockRenderRepository)
	store := new(MockObjectStore)

	renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.Anything).Return(nil)
	renders.On("GetByID", mock.Anything, id).Return(rnd, nil)
	scenes.On("GetByID", mock.Anything, mock.Anything).Return(scene, nil)
	var field []byte
	store.On("Upload", mock.Anything, ImageKey(rnd.ID), "image/png", mock.Anything).
		Run(func(args mock.Arguments) { field = args.Get(3).([]byte) }).
		Return(nil)
	store.On("Upload", mock.Anything, PlotKey(rnd.ID), "image/png", mock.Anything).Return(nil)
	renders.On("Complete", mock.Anything, id, ImageKey(rnd.ID), PlotKey(rnd.ID), mock.Anything).Return(nil)

	svc := NewRenderService(store, scenes, renders, materials.Default(), DefaultSettings())
	require.NoError(t, svc.ProcessRender(context.Background(), id))

	img, err := png.Decode(bytes.NewReader(field))
	require.NoError(t, err)
	seen := map[color.RGBA]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			seen[color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)] = true
		}
	}
	// quietest and loudest cells land on the first and last shader stops
	assert.True(t, seen[color.RGBA{R: 0x00, G: 0x22, B: 0x66, A: 0xff}])
	assert.True(t, seen[color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}])
}

func TestProcessRender_SceneMissing(t *testing.T) {
	rnd := testRender(uuid.New().String(), models.RenderParams{})
	id := uuid.MustParse(rnd.ID)

	scenes := new(MockSceneRepository)
	renders := new(MockRenderRepository)
	store := new(MockObjectStore)

	renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, 10).Return(nil)
	renders.On("GetByID", mock.Anything, id).Return(rnd, nil)
	scenes.On("GetByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	renders.On("UpdateError", mock.Anything, id, "Failed to load scene").Return(nil)

	svc := NewRenderService(store, scenes, renders, materials.Default(), DefaultSettings())
	err := svc.ProcessRender(context.Background(), id)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	renders.AssertExpectations(t)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRender_UploadFails(t *testing.T) {
	scene := testScene()
	rnd := testRender(scene.ID, models.RenderParams{Plane: "north_south", Resolution: 8})
	id := uuid.MustParse(rnd.ID)

	scenes := new(MockSceneRepository)
	renders := new(MockRenderRepository)
	store := new(MockObjectStore)

	renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.Anything).Return(nil)
	renders.On("GetByID", mock.Anything, id).Return(rnd, nil)
	scenes.On("GetByID", mock.Anything, mock.Anything).Return(scene, nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))
	renders.On("UpdateError", mock.Anything, id, "Failed to upload image").Return(nil)

	svc := NewRenderService(store, scenes, renders, nil, DefaultSettings())
	err := svc.ProcessRender(context.Background(), id)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
	renders.AssertExpectations(t)
	renders.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRender_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params models.RenderParams
	}{
		{name: "unknown plane", params: models.RenderParams{Plane: "diagonal"}},
		{name: "unknown wall", params: models.RenderParams{Wall: "roof"}},
		{name: "unknown scale", params: models.RenderParams{Scale: "rainbow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := testScene()
			rnd := testRender(scene.ID, tt.params)
			id := uuid.MustParse(rnd.ID)

			scenes := new(MockSceneRepository)
			renders := new(MockRenderRepository)

			renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.Anything).Return(nil)
			renders.On("GetByID", mock.Anything, id).Return(rnd, nil)
			scenes.On("GetByID", mock.Anything, mock.Anything).Return(scene, nil)
			renders.On("UpdateError", mock.Anything, id, "Invalid render parameters").Return(nil)

			svc := NewRenderService(new(MockObjectStore), scenes, renders, nil, DefaultSettings())
			assert.Error(t, svc.ProcessRender(context.Background(), id))
			renders.AssertExpectations(t)
		})
	}
}

func TestProcessRender_Cancelled(t *testing.T) {
	id := uuid.New()
	renders := new(MockRenderRepository)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	renders.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, 10).Return(context.Canceled)
	renders.On("UpdateError", mock.Anything, id, "Render cancelled").Return(nil)

	svc := NewRenderService(new(MockObjectStore), new(MockSceneRepository), renders, nil, DefaultSettings())
	assert.ErrorIs(t, svc.ProcessRender(ctx, id), context.Canceled)
	renders.AssertExpectations(t)
}

// blockingService waits for cancellation on the first render it sees.
type blockingService struct {
	mu        sync.Mutex
	started   chan uuid.UUID
	cancelled []uuid.UUID
	completed []uuid.UUID
	block     uuid.UUID
}

func (b *blockingService) ProcessRender(ctx context.Context, id uuid.UUID) error {
	b.started <- id
	if id == b.block {
		<-ctx.Done()
		b.mu.Lock()
		b.cancelled = append(b.cancelled, id)
		b.mu.Unlock()
		return ctx.Err()
	}
	b.mu.Lock()
	b.completed = append(b.completed, id)
	b.mu.Unlock()
	return nil
}

type countingTracker struct {
	mu       sync.Mutex
	statuses []string
}

func (c *countingTracker) RenderStarted() func(string) {
	return func(status string) {
		c.mu.Lock()
		c.statuses = append(c.statuses, status)
		c.mu.Unlock()
	}
}

func TestScheduler_LatestWins(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	svc := &blockingService{started: make(chan uuid.UUID, 2), block: first}
	tracker := &countingTracker{}
	s := NewScheduler(svc, 0, tracker)

	s.Submit("scene-1", first)
	select {
	case got := <-svc.started:
		require.Equal(t, first, got)
	case <-time.After(5 * time.Second):
		t.Fatal("first render never started")
	}

	s.Submit("scene-1", second)
	s.Wait()

	assert.Equal(t, []uuid.UUID{first}, svc.cancelled)
	assert.Equal(t, []uuid.UUID{second}, svc.completed)
	assert.ElementsMatch(t, []string{"cancelled", models.StatusCompleted}, tracker.statuses)
}

func TestScheduler_IndependentScenes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := &blockingService{started: make(chan uuid.UUID, 2)}
	s := NewScheduler(svc, time.Minute, nil)

	s.Submit("scene-a", a)
	s.Submit("scene-b", b)
	s.Wait()

	assert.ElementsMatch(t, []uuid.UUID{a, b}, svc.completed)
}

func TestScheduler_Shutdown(t *testing.T) {
	id := uuid.New()
	svc := &blockingService{started: make(chan uuid.UUID, 1), block: id}
	s := NewScheduler(svc, 0, nil)

	s.Submit("scene", id)
	<-svc.started
	s.Shutdown()

	assert.Equal(t, []uuid.UUID{id}, svc.cancelled)
}
