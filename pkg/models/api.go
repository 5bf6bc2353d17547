package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status   string    `json:"status" example:"healthy" doc:"Service health status"`
		Version  string    `json:"version" example:"1.0.0" doc:"API version"`
		Database string    `json:"database" example:"ok" doc:"Database reachability"`
		Time     time.Time `json:"time" doc:"Current server time"`
	}
}

// ValueResponse carries a single computed level
type ValueResponse struct {
	Body struct {
		Value float64 `json:"value" doc:"Result in dB"`
	}
}

// FreeFieldRequest asks for spherical-spreading attenuation
type FreeFieldRequest struct {
	Body struct {
		DB       float64 `json:"db" doc:"Source level in dB"`
		Distance float64 `json:"distance" doc:"Distance in meters, floored at 0.1"`
	}
}

// AbsorptionRequest asks for the level after a material
type AbsorptionRequest struct {
	Body struct {
		DB         float64 `json:"db" doc:"Incident level in dB"`
		Absorption float64 `json:"absorption" doc:"Absorption coefficient, clamped to [0,1]"`
	}
}

// PointSourceRequest asks for Lp at distance r from a point source
type PointSourceRequest struct {
	Body struct {
		Lw    float64 `json:"lw" doc:"Sound power level in dB"`
		Q     float64 `json:"q,omitempty" default:"1" doc:"Directivity factor"`
		R     float64 `json:"r" doc:"Distance in meters, floored at 0.1"`
		Alpha float64 `json:"alpha" doc:"Linear absorption in dB per meter"`
	}
}

// RoomAcousticsRequest asks for reverberation and modes of a room
type RoomAcousticsRequest struct {
	Body struct {
		Room  Room    `json:"room" doc:"Room dimensions"`
		Walls WallMap `json:"walls,omitempty" doc:"Per-wall materials"`
		Modes int     `json:"modes,omitempty" minimum:"0" maximum:"20" default:"3" doc:"Axial modes per dimension"`
	}
}

// RoomAcousticsResponse returns reverberation and modes
type RoomAcousticsResponse struct {
	Body struct {
		RT60  *float64    `json:"rt60,omitempty" doc:"Sabine RT60 in seconds, absent when the room has no absorption"`
		Modes []AxialMode `json:"modes" doc:"Axial room modes"`
	}
}

// ListMaterialsResponse lists the material catalog
type ListMaterialsResponse struct {
	Body struct {
		Materials []MaterialEntry `json:"materials" doc:"Known materials sorted by id"`
	}
}

// LeakageRequest asks for exterior points projected through the walls
type LeakageRequest struct {
	Body struct {
		Points []AcousticPoint `json:"points" doc:"Interior points"`
		Room   Room            `json:"room" doc:"Room dimensions"`
		Walls  WallMap         `json:"walls,omitempty" doc:"Per-wall materials"`
		Margin *float64        `json:"margin,omitempty" doc:"Distance from a wall that counts as near, meters"`
		Offset *float64        `json:"offset,omitempty" doc:"How far outside the wall leak points land, meters"`
		Halo   bool            `json:"halo,omitempty" doc:"Add a ring of attenuated points around each interior point"`
	}
}

// PointsResponse returns a list of points
type PointsResponse struct {
	Body struct {
		Points []AcousticPoint `json:"points" doc:"Resulting points"`
	}
}

// InterpolateRequest asks for an IDW grid. Either Step > 0 selects a square
// lattice over [-Range, Range], or Width/Height select a pixel lattice over
// the given rectangle.
type InterpolateRequest struct {
	Body struct {
		Samples   []Sample `json:"samples" doc:"Scattered input samples"`
		Power     float64  `json:"power,omitempty" doc:"IDW power, defaults to 2"`
		Range     float64  `json:"range,omitempty" doc:"Half extent of the square lattice"`
		Step      float64  `json:"step,omitempty" doc:"Lattice spacing"`
		Width     int      `json:"width,omitempty" maximum:"2048" doc:"Pixel columns"`
		Height    int      `json:"height,omitempty" maximum:"2048" doc:"Pixel rows"`
		OffsetX   float64  `json:"offset_x,omitempty" doc:"World X of the first column"`
		OffsetZ   float64  `json:"offset_z,omitempty" doc:"World Z of the first row"`
		ExtentX   float64  `json:"extent_x,omitempty" doc:"World width covered"`
		ExtentZ   float64  `json:"extent_z,omitempty" doc:"World depth covered"`
		Normalize bool     `json:"normalize,omitempty" doc:"Rescale the result into [0,1] by its own min and max"`
	}
}

// GridResponse returns an interpolated grid
type GridResponse struct {
	Body Grid
}

// ClassifyRequest asks for band and gradient colours of levels
type ClassifyRequest struct {
	Body struct {
		Values []float64 `json:"values" doc:"Levels in dB"`
		Scale  string    `json:"scale,omitempty" enum:"classic,sonar,viridis,shader" default:"classic" doc:"Gradient to sample"`
		MinDB  *float64  `json:"min_db,omitempty" doc:"Gradient domain lower bound"`
		MaxDB  *float64  `json:"max_db,omitempty" doc:"Gradient domain upper bound"`
		Stops  []string  `json:"stops,omitempty" doc:"Custom evenly spaced #rrggbb stops, replacing the scale"`
	}
}

// Classification is the colouring of one level
type Classification struct {
	DB        float64 `json:"db" doc:"Input level"`
	Band      string  `json:"band" doc:"Severity band label"`
	BandColor string  `json:"band_color" doc:"Band colour"`
	Color     string  `json:"color" doc:"Gradient colour"`
	Marker    string  `json:"marker" doc:"Quick four-colour marker"`
}

// ClassifyResponse returns per-value colours
type ClassifyResponse struct {
	Body struct {
		Results []Classification `json:"results"`
		Bands   []Band           `json:"bands" doc:"Bands in effect"`
	}
}

// RecommendationsRequest evaluates points against noise limits
type RecommendationsRequest struct {
	Body struct {
		Points          []AcousticPoint `json:"points" doc:"Points to evaluate"`
		Mode            Mode            `json:"mode,omitempty" enum:"day,night" default:"day" doc:"Limit set"`
		ThresholdNormal *float64        `json:"threshold_normal,omitempty" doc:"Elevated level, defaults to 65"`
		ThresholdHigh   *float64        `json:"threshold_high,omitempty" doc:"Critical level, defaults to 85"`
	}
}

// RecommendationsResponseBody is the body of a recommendations response
type RecommendationsResponseBody struct {
	Messages []string `json:"messages" doc:"User-facing warnings, or the single all-clear message"`
	AllClear bool     `json:"all_clear" doc:"True when no point exceeds a limit"`
	Critical int      `json:"critical" doc:"Number of critical points"`
	Elevated int      `json:"elevated" doc:"Number of elevated points"`
}

// RecommendationsResponse returns warnings
type RecommendationsResponse struct {
	Body RecommendationsResponseBody
}

// CreateSceneRequest creates a scene
type CreateSceneRequest struct {
	Body struct {
		Name     string          `json:"name" minLength:"1" maxLength:"120" required:"true" doc:"Display name"`
		Room     Room            `json:"room" required:"true" doc:"Room dimensions"`
		Walls    WallMap         `json:"walls,omitempty" doc:"Per-wall materials; legacy names are accepted"`
		Points   []AcousticPoint `json:"points,omitempty" doc:"Initial points"`
		Mode     Mode            `json:"mode,omitempty" enum:"day,night" default:"day" doc:"Noise limit set"`
		Simulate bool            `json:"simulate,omitempty" doc:"Fill the scene with simulated points when none are given"`
		Seed     int64           `json:"seed,omitempty" doc:"Seed for simulated jitter"`
	}
}

// SceneIDRequest addresses a scene
type SceneIDRequest struct {
	ID string `path:"id" doc:"Scene ID"`
}

// ListScenesRequest pages scenes
type ListScenesRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum scenes to return"`
}

// ListScenesResponse lists scenes
type ListScenesResponse struct {
	Body struct {
		Scenes []*Scene `json:"scenes"`
	}
}

// SceneResponse returns a scene
type SceneResponse struct {
	Body *Scene
}

// UpdateWallsRequest replaces a scene's wall properties
type UpdateWallsRequest struct {
	ID   string `path:"id" doc:"Scene ID"`
	Body struct {
		Walls WallMap `json:"walls" doc:"Per-wall materials"`
	}
}

// UpdatePointsRequest replaces a scene's points
type UpdatePointsRequest struct {
	ID   string `path:"id" doc:"Scene ID"`
	Body struct {
		Points []AcousticPoint `json:"points" doc:"Replacement point list"`
	}
}

// CreateRenderRequest queues a render of a scene
type CreateRenderRequest struct {
	ID   string `path:"id" doc:"Scene ID"`
	Body RenderParams
}

// RenderIDRequest addresses a render
type RenderIDRequest struct {
	ID string `path:"id" doc:"Render ID"`
}

// RenderResponseBody is the body of a render response
type RenderResponseBody struct {
	ID       string       `json:"id" doc:"Render ID"`
	SceneID  string       `json:"scene_id" doc:"Scene ID"`
	Status   string       `json:"status" enum:"pending,processing,completed,failed" doc:"Render status"`
	Progress int          `json:"progress" minimum:"0" maximum:"100" doc:"Progress percentage"`
	Message  string       `json:"message,omitempty" doc:"Human-readable status message"`
	ImageURL string       `json:"image_url,omitempty" doc:"Pre-signed URL of the raster texture"`
	PlotURL  string       `json:"plot_url,omitempty" doc:"Pre-signed URL of the annotated heat map"`
	Stats    *RenderStats `json:"stats,omitempty" doc:"Summary once completed"`
	Error    string       `json:"error,omitempty" doc:"Failure reason"`
}

// RenderResponse returns a render
type RenderResponse struct {
	Body RenderResponseBody
}

// SceneChartRequest asks for an interactive chart of a scene
type SceneChartRequest struct {
	ID         string `path:"id" doc:"Scene ID"`
	Scale      string `query:"scale" enum:"classic,sonar,viridis,shader" default:"sonar" doc:"Colour scale"`
	Resolution int    `query:"resolution" minimum:"2" maximum:"256" default:"64" doc:"Cells per side"`
}

// HTMLResponse is a raw HTML page
type HTMLResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// SceneRecommendationsRequest evaluates a stored scene
type SceneRecommendationsRequest struct {
	ID string `path:"id" doc:"Scene ID"`
}

// ListRendersResponse lists the renders of a scene
type ListRendersResponse struct {
	Body struct {
		Renders []RenderResponseBody `json:"renders"`
	}
}

// SimulateEscapeRequest asks for the level escaping through a door around a room
type SimulateEscapeRequest struct {
	Body struct {
		Room       Room     `json:"room" doc:"Room dimensions"`
		Walls      WallMap  `json:"walls,omitempty" doc:"Per-wall materials"`
		Absorption *float64 `json:"absorption,omitempty" minimum:"0" maximum:"1" doc:"Override of the mean side wall absorption"`
		Segments   int      `json:"segments,omitempty" minimum:"0" maximum:"512" default:"64" doc:"Cells per side"`
		DoorX      *float64 `json:"door_x,omitempty" doc:"X of the door segment, defaults to width/8"`
		DoorZ0     *float64 `json:"door_z0,omitempty" doc:"Start of the door segment along Z"`
		DoorZ1     *float64 `json:"door_z1,omitempty" doc:"End of the door segment along Z"`
		Jitter     string   `json:"jitter,omitempty" enum:"none,uniform,perlin" default:"none" doc:"Noise added to each cell"`
		Seed       int64    `json:"seed,omitempty" doc:"Noise seed"`
	}
}

// SimulateSourceRequest asks for the floor field of an idealized point source
type SimulateSourceRequest struct {
	Body struct {
		Source  AcousticPoint `json:"source" doc:"Source position; db is ignored"`
		Lw      float64       `json:"lw" doc:"Sound power level in dB"`
		Q       float64       `json:"q,omitempty" default:"1" doc:"Directivity factor"`
		Alpha   float64       `json:"alpha,omitempty" doc:"Air absorption in dB per meter"`
		Width   int           `json:"width" minimum:"1" maximum:"512" doc:"Pixel columns"`
		Height  int           `json:"height" minimum:"1" maximum:"512" doc:"Pixel rows"`
		OffsetX float64       `json:"offset_x,omitempty" doc:"World X of the first column"`
		OffsetZ float64       `json:"offset_z,omitempty" doc:"World Z of the first row"`
		ExtentX float64       `json:"extent_x" doc:"World width covered"`
		ExtentZ float64       `json:"extent_z" doc:"World depth covered"`
		Points  bool          `json:"points,omitempty" doc:"Also return the cells as points"`
	}
}

// SimulateSourceResponse returns a source field
type SimulateSourceResponse struct {
	Body struct {
		Grid   Grid            `json:"grid" doc:"Evaluated field"`
		Points []AcousticPoint `json:"points,omitempty" doc:"Cells as floor-level points"`
	}
}
