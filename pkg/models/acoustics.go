package models

import (
	"fmt"
	"strings"
)

// AcousticPoint is a single SPL measurement or simulated sample at a 3D position.
// Points are values: editing a point means replacing it in its owning slice.
type AcousticPoint struct {
	ID string  `json:"id" doc:"Point identifier, unique within a collection"`
	X  float64 `json:"x" doc:"X position in meters"`
	Y  float64 `json:"y" doc:"Y (height) position in meters"`
	Z  float64 `json:"z" doc:"Z position in meters"`
	DB float64 `json:"db" doc:"Sound pressure level in dB"`
}

// WallKey identifies one of the six room surfaces.
type WallKey string

const (
	WallNorth   WallKey = "north"
	WallSouth   WallKey = "south"
	WallEast    WallKey = "east"
	WallWest    WallKey = "west"
	WallFloor   WallKey = "floor"
	WallCeiling WallKey = "ceiling"
)

// AllWalls lists every wall in a stable order.
var AllWalls = []WallKey{WallNorth, WallSouth, WallEast, WallWest, WallFloor, WallCeiling}

// legacy editor names (left/right/front/back/top) map onto the canonical keys
var wallAliases = map[string]WallKey{
	"north":   WallNorth,
	"south":   WallSouth,
	"east":    WallEast,
	"west":    WallWest,
	"floor":   WallFloor,
	"ceiling": WallCeiling,
	"left":    WallWest,
	"right":   WallEast,
	"front":   WallNorth,
	"back":    WallSouth,
	"top":     WallCeiling,
}

// ParseWallKey resolves a canonical or legacy wall name.
func ParseWallKey(s string) (WallKey, error) {
	k, ok := wallAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown wall %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the canonical keys.
func (k WallKey) Valid() bool {
	switch k {
	case WallNorth, WallSouth, WallEast, WallWest, WallFloor, WallCeiling:
		return true
	}
	return false
}

// WallProperties holds the user-editable acoustic settings of a wall.
// Absorption, when set, takes precedence over the catalog value of Material.
type WallProperties struct {
	Material   string   `json:"material,omitempty" doc:"Material identifier from the catalog"`
	Absorption *float64 `json:"absorption,omitempty" minimum:"0" maximum:"1" doc:"Explicit absorption coefficient [0,1]"`
	Color      string   `json:"color,omitempty" doc:"Display colour as #rrggbb"`
}

// WallMap holds the properties of each configured wall.
type WallMap map[WallKey]WallProperties

// Room is an axis-aligned box spanning [0,Width]x[0,Height]x[0,Depth] in meters.
type Room struct {
	Width  float64 `json:"width" minimum:"0" doc:"Room width along X in meters"`
	Height float64 `json:"height" minimum:"0" doc:"Room height along Y in meters"`
	Depth  float64 `json:"depth" minimum:"0" doc:"Room depth along Z in meters"`
}

// Volume returns the room volume in cubic meters.
func (r Room) Volume() float64 {
	return r.Width * r.Height * r.Depth
}

// WallArea returns the surface area of a wall in square meters.
func (r Room) WallArea(k WallKey) float64 {
	switch k {
	case WallNorth, WallSouth:
		return r.Width * r.Height
	case WallEast, WallWest:
		return r.Depth * r.Height
	case WallFloor, WallCeiling:
		return r.Width * r.Depth
	}
	return 0
}

// MaterialEntry is one row of the material catalog.
type MaterialEntry struct {
	ID         string  `json:"id" yaml:"id" doc:"Material identifier"`
	Name       string  `json:"name" yaml:"name" doc:"Display name"`
	Absorption float64 `json:"absorption" yaml:"absorption" doc:"Absorption coefficient [0,1]"`
}

// Mode selects day or night noise limits.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeNight Mode = "night"
)
