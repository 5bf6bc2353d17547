package models

import (
	"fmt"
	"time"
)

// Render lifecycle states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AxialMode is one standing-wave resonance between two parallel surfaces.
type AxialMode struct {
	Axis      string  `json:"axis" enum:"width,height,depth" doc:"Room dimension"`
	Order     int     `json:"order" doc:"Mode number"`
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
}

// Scene is a persisted room with its wall materials and SPL points.
type Scene struct {
	ID        string          `json:"id" doc:"Scene unique identifier"`
	Name      string          `json:"name" doc:"Display name"`
	Room      Room            `json:"room" doc:"Room dimensions"`
	Walls     WallMap         `json:"walls" doc:"Per-wall acoustic properties"`
	Points    []AcousticPoint `json:"points" doc:"Measured or simulated SPL points"`
	Mode      Mode            `json:"mode" enum:"day,night" doc:"Noise limit set"`
	CreatedAt time.Time       `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time       `json:"updated_at" doc:"Last modification timestamp"`
}

// RenderParams selects what a render computes.
type RenderParams struct {
	Plane          string   `json:"plane,omitempty" enum:"floor,north_south,east_west" default:"floor" doc:"Slice to interpolate"`
	Wall           string   `json:"wall,omitempty" doc:"Restrict a wall-plane render to one wall's surface"`
	Scale          string   `json:"scale,omitempty" enum:"classic,sonar,viridis,shader" default:"sonar" doc:"Colour scale"`
	Resolution     int      `json:"resolution,omitempty" minimum:"2" maximum:"2048" default:"256" doc:"Pixels per side"`
	Padding        float64  `json:"padding,omitempty" minimum:"0" default:"5" doc:"Meters of exterior around the room on the floor plane"`
	Power          float64  `json:"power,omitempty" doc:"IDW power, defaults to 2"`
	IncludeLeakage bool     `json:"include_leakage,omitempty" default:"true" doc:"Project exterior leak points before interpolating"`
	MinDB          *float64 `json:"min_db,omitempty" doc:"Colour domain lower bound, defaults to the scale's"`
	MaxDB          *float64 `json:"max_db,omitempty" doc:"Colour domain upper bound, defaults to the scale's"`
}

// RenderStats summarizes a finished render.
type RenderStats struct {
	MinDB          float64  `json:"min_db" doc:"Lowest interpolated level"`
	MaxDB          float64  `json:"max_db" doc:"Highest interpolated level"`
	MeanDB         float64  `json:"mean_db" doc:"Mean interpolated level"`
	SampleCount    int      `json:"sample_count" doc:"Samples fed to the interpolator"`
	ExteriorPoints int      `json:"exterior_points" doc:"Leak points projected outside the room"`
	RT60           *float64 `json:"rt60,omitempty" doc:"Sabine reverberation time in seconds"`
	Warnings       []string `json:"warnings" doc:"Recommendation messages"`
}

// Render is one asynchronous heat map computation of a scene.
type Render struct {
	ID          string       `json:"id"`
	SceneID     string       `json:"scene_id"`
	Params      RenderParams `json:"params"`
	Status      string       `json:"status"`
	Progress    int          `json:"progress"`
	ImageKey    *string      `json:"image_key,omitempty"`
	PlotKey     *string      `json:"plot_key,omitempty"`
	Stats       *RenderStats `json:"stats,omitempty"`
	ErrorMsg    *string      `json:"error_message,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// NormalizeWalls rewrites legacy wall names to canonical keys. A wall named
// twice under different aliases is an error.
func NormalizeWalls(in WallMap) (WallMap, error) {
	out := make(WallMap, len(in))
	for k, v := range in {
		key, err := ParseWallKey(string(k))
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("wall %q given more than once", key)
		}
		if v.Absorption != nil && !(*v.Absorption >= 0 && *v.Absorption <= 1) {
			return nil, fmt.Errorf("wall %q: absorption %v outside [0,1]", key, *v.Absorption)
		}
		if v.Color != "" {
			if _, err := ParseHex(v.Color); err != nil {
				return nil, fmt.Errorf("wall %q: %w", key, err)
			}
		}
		out[key] = v
	}
	return out, nil
}

// Validate checks the room is a non-degenerate box.
func (r Room) Validate() error {
	if !(r.Width > 0) || !(r.Height > 0) || !(r.Depth > 0) {
		return fmt.Errorf("room dimensions must be positive, got %vx%vx%v", r.Width, r.Height, r.Depth)
	}
	return nil
}
