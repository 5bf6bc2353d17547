// Package recommendations checks measured or simulated points against day
// and night noise limits and phrases the findings for the user.
package recommendations

import (
	"fmt"
	"strconv"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

const (
	DefaultThresholdNormal = 65.0
	DefaultThresholdHigh   = 85.0
	// NightAdjustment is added to both thresholds in night mode.
	NightAdjustment = -10.0
)

// AllClear is the single message returned when no point exceeds a limit.
const AllClear = "✅ Todos los puntos están dentro de los límites permitidos."

// Level grades a warning.
type Level string

const (
	LevelElevated Level = "elevated"
	LevelCritical Level = "critical"
)

// Options configures an evaluation. Nil thresholds fall back to the defaults;
// an explicit zero is a real limit.
type Options struct {
	Mode            models.Mode `json:"mode,omitempty" enum:"day,night" doc:"Limit set to apply"`
	ThresholdNormal *float64    `json:"threshold_normal,omitempty" doc:"Elevated level in dB before night adjustment"`
	ThresholdHigh   *float64    `json:"threshold_high,omitempty" doc:"Critical level in dB before night adjustment"`
}

// Limits returns the effective elevated and critical thresholds.
func (o Options) Limits() (normal, high float64) {
	normal, high = DefaultThresholdNormal, DefaultThresholdHigh
	if o.ThresholdNormal != nil {
		normal = *o.ThresholdNormal
	}
	if o.ThresholdHigh != nil {
		high = *o.ThresholdHigh
	}
	if o.Mode == models.ModeNight {
		normal += NightAdjustment
		high += NightAdjustment
	}
	return normal, high
}

// Warning is a structured finding for one point.
type Warning struct {
	Level   Level   `json:"level" doc:"elevated or critical"`
	PointID string  `json:"point_id" doc:"Offending point"`
	DB      float64 `json:"db" doc:"Measured level"`
	Message string  `json:"message" doc:"User-facing message"`
}

// Assess returns one warning per point at or above the elevated limit, in
// input order. Points below it produce nothing.
func Assess(points []models.AcousticPoint, opts Options) []Warning {
	normal, high := opts.Limits()

	var out []Warning
	for _, p := range points {
		switch {
		case p.DB >= high:
			out = append(out, Warning{
				Level:   LevelCritical,
				PointID: p.ID,
				DB:      p.DB,
				Message: fmt.Sprintf("🚨 Punto crítico en %s con %s dB. Requiere aislamiento reforzado.", position(p), num(p.DB)),
			})
		case p.DB >= normal:
			out = append(out, Warning{
				Level:   LevelElevated,
				PointID: p.ID,
				DB:      p.DB,
				Message: fmt.Sprintf("⚠️ Nivel elevado en %s: %s dB. Evaluar tratamiento acústico.", position(p), num(p.DB)),
			})
		}
	}
	return out
}

// Evaluate renders Assess as messages, or returns []string{AllClear}.
func Evaluate(points []models.AcousticPoint, opts Options) []string {
	ws := Assess(points, opts)
	if len(ws) == 0 {
		return []string{AllClear}
	}
	msgs := make([]string, len(ws))
	for i, w := range ws {
		msgs[i] = w.Message
	}
	return msgs
}

// IsAllClear reports whether msgs is the all-clear result.
func IsAllClear(msgs []string) bool {
	return len(msgs) == 1 && msgs[0] == AllClear
}

func position(p models.AcousticPoint) string {
	return "(" + num(p.X) + ", " + num(p.Y) + ", " + num(p.Z) + ")"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
