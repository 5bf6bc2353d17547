package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/BROKENGroupe/soundmap/internal/api/handlers"
)

// Handlers groups the handlers behind the API
type Handlers struct {
	Acoustics  *handlers.AcousticsHandler
	Scenes     *handlers.SceneHandler
	Renders    *handlers.RenderHandler
	Simulation *handlers.SimulationHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, h Handlers) {
	registerAcoustics(api, h.Acoustics)
	registerScenes(api, h.Scenes)
	registerRenders(api, h.Renders)
	registerSimulation(api, h.Simulation)
}

func registerAcoustics(api huma.API, h *handlers.AcousticsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "freeFieldAttenuation",
		Method:      http.MethodPost,
		Path:        "/api/propagation/free-field",
		Summary:     "Free-field attenuation",
		Description: "Returns the level after spherical spreading over a distance",
		Tags:        []string{"Propagation"},
	}, h.FreeField)

	huma.Register(api, huma.Operation{
		OperationID: "materialAbsorption",
		Method:      http.MethodPost,
		Path:        "/api/propagation/absorption",
		Summary:     "Material absorption loss",
		Description: "Returns the level left after a material absorbs part of it",
		Tags:        []string{"Propagation"},
	}, h.Absorption)

	huma.Register(api, huma.Operation{
		OperationID: "pointSourceSPL",
		Method:      http.MethodPost,
		Path:        "/api/propagation/point-source",
		Summary:     "Point source pressure level",
		Description: "Returns Lp at a distance from a source of power level Lw",
		Tags:        []string{"Propagation"},
	}, h.PointSource)

	huma.Register(api, huma.Operation{
		OperationID: "roomAcoustics",
		Method:      http.MethodPost,
		Path:        "/api/room-acoustics",
		Summary:     "Room reverberation and modes",
		Description: "Returns the Sabine RT60 and axial modes of a room",
		Tags:        []string{"Propagation"},
	}, h.RoomAcoustics)

	huma.Register(api, huma.Operation{
		OperationID: "listMaterials",
		Method:      http.MethodGet,
		Path:        "/api/materials",
		Summary:     "List materials",
		Description: "Returns the material catalog",
		Tags:        []string{"Materials"},
	}, h.ListMaterials)

	huma.Register(api, huma.Operation{
		OperationID: "projectLeakage",
		Method:      http.MethodPost,
		Path:        "/api/leakage",
		Summary:     "Project leakage",
		Description: "Projects interior points to exterior points outside nearby walls",
		Tags:        []string{"Field"},
	}, h.Leakage)

	huma.Register(api, huma.Operation{
		OperationID: "interpolate",
		Method:      http.MethodPost,
		Path:        "/api/interpolate",
		Summary:     "Interpolate samples",
		Description: "Evaluates inverse distance weighting over a lattice",
		Tags:        []string{"Field"},
	}, h.Interpolate)

	huma.Register(api, huma.Operation{
		OperationID: "classify",
		Method:      http.MethodPost,
		Path:        "/api/classify",
		Summary:     "Classify levels",
		Description: "Returns severity bands and gradient colours for levels",
		Tags:        []string{"Field"},
	}, h.Classify)

	huma.Register(api, huma.Operation{
		OperationID: "recommendations",
		Method:      http.MethodPost,
		Path:        "/api/recommendations",
		Summary:     "Evaluate noise limits",
		Description: "Checks points against day or night limits and returns warnings",
		Tags:        []string{"Recommendations"},
	}, h.Recommendations)
}

func registerScenes(api huma.API, h *handlers.SceneHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "createScene",
		Method:        http.MethodPost,
		Path:          "/api/scenes",
		Summary:       "Create a scene",
		Description:   "Stores a room with its walls and points",
		Tags:          []string{"Scenes"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateScene)

	huma.Register(api, huma.Operation{
		OperationID: "listScenes",
		Method:      http.MethodGet,
		Path:        "/api/scenes",
		Summary:     "List scenes",
		Description: "Returns the most recently created scenes",
		Tags:        []string{"Scenes"},
	}, h.ListScenes)

	huma.Register(api, huma.Operation{
		OperationID: "getScene",
		Method:      http.MethodGet,
		Path:        "/api/scenes/{id}",
		Summary:     "Get a scene",
		Tags:        []string{"Scenes"},
	}, h.GetScene)

	huma.Register(api, huma.Operation{
		OperationID: "updateSceneWalls",
		Method:      http.MethodPut,
		Path:        "/api/scenes/{id}/walls",
		Summary:     "Replace wall properties",
		Tags:        []string{"Scenes"},
	}, h.UpdateWalls)

	huma.Register(api, huma.Operation{
		OperationID: "updateScenePoints",
		Method:      http.MethodPut,
		Path:        "/api/scenes/{id}/points",
		Summary:     "Replace points",
		Tags:        []string{"Scenes"},
	}, h.UpdatePoints)

	huma.Register(api, huma.Operation{
		OperationID: "sceneRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/scenes/{id}/recommendations",
		Summary:     "Evaluate a scene",
		Description: "Checks the stored points of a scene against its limit set",
		Tags:        []string{"Scenes", "Recommendations"},
	}, h.SceneRecommendations)

	huma.Register(api, huma.Operation{
		OperationID: "sceneChart",
		Method:      http.MethodGet,
		Path:        "/api/scenes/{id}/chart",
		Summary:     "Interactive heat map",
		Description: "Returns an HTML page with the floor field and measured points",
		Tags:        []string{"Scenes"},
	}, h.SceneChart)
}

func registerRenders(api huma.API, h *handlers.RenderHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "createRender",
		Method:        http.MethodPost,
		Path:          "/api/scenes/{id}/renders",
		Summary:       "Start a render",
		Description:   "Queues a heat map render; a newer render of the same scene supersedes a running one",
		Tags:          []string{"Renders"},
		DefaultStatus: http.StatusAccepted,
	}, h.CreateRender)

	huma.Register(api, huma.Operation{
		OperationID: "listRenders",
		Method:      http.MethodGet,
		Path:        "/api/scenes/{id}/renders",
		Summary:     "List renders of a scene",
		Tags:        []string{"Renders"},
	}, h.ListRenders)

	huma.Register(api, huma.Operation{
		OperationID: "getRender",
		Method:      http.MethodGet,
		Path:        "/api/renders/{id}",
		Summary:     "Get render status",
		Description: "Returns progress, and artifact URLs once completed",
		Tags:        []string{"Renders"},
	}, h.GetRender)
}

func registerSimulation(api huma.API, h *handlers.SimulationHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "simulateEscape",
		Method:      http.MethodPost,
		Path:        "/api/simulate/escape",
		Summary:     "Door escape field",
		Description: "Estimates the level escaping through a door over the area around a room",
		Tags:        []string{"Simulation"},
	}, h.Escape)

	huma.Register(api, huma.Operation{
		OperationID: "simulateSource",
		Method:      http.MethodPost,
		Path:        "/api/simulate/source",
		Summary:     "Point source field",
		Description: "Evaluates an idealized point source over the floor plane",
		Tags:        []string{"Simulation"},
	}, h.Source)
}
