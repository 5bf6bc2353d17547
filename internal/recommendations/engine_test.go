package recommendations

import (
	"strings"
	"testing"

	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(dbs ...float64) []models.AcousticPoint {
	out := make([]models.AcousticPoint, len(dbs))
	for i, db := range dbs {
		out[i] = models.AcousticPoint{ID: string(rune('a' + i)), X: 1, Y: 1.5, Z: 2.25, DB: db}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestAssess_Day(t *testing.T) {
	ws := Assess(pts(90, 70, 50), Options{Mode: models.ModeDay, ThresholdNormal: ptr(65), ThresholdHigh: ptr(85)})
	require.Len(t, ws, 2)

	assert.Equal(t, LevelCritical, ws[0].Level)
	assert.Equal(t, "a", ws[0].PointID)
	assert.Equal(t, "🚨 Punto crítico en (1, 1.5, 2.25) con 90 dB. Requiere aislamiento reforzado.", ws[0].Message)

	assert.Equal(t, LevelElevated, ws[1].Level)
	assert.Equal(t, 70.0, ws[1].DB)
	assert.Equal(t, "⚠️ Nivel elevado en (1, 1.5, 2.25): 70 dB. Evaluar tratamiento acústico.", ws[1].Message)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		points    []models.AcousticPoint
		opts      Options
		wantClear bool
		wantLen   int
	}{
		{"below limits", pts(50), Options{Mode: models.ModeDay}, true, 1},
		{"no points", nil, Options{}, true, 1},
		{"60 in day mode", pts(60), Options{Mode: models.ModeDay}, true, 1},
		{"60 in night mode", pts(60), Options{Mode: models.ModeNight}, false, 1},
		{"boundary is inclusive", pts(65, 85), Options{}, false, 2},
		{"custom thresholds", pts(50), Options{ThresholdNormal: ptr(45), ThresholdHigh: ptr(55)}, false, 1},
		{"explicit zero threshold", pts(20), Options{Mode: models.ModeDay, ThresholdNormal: ptr(0), ThresholdHigh: ptr(50)}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := Evaluate(tt.points, tt.opts)
			assert.Len(t, msgs, tt.wantLen)
			assert.Equal(t, tt.wantClear, IsAllClear(msgs))
		})
	}
}

func TestEvaluate_NightShiftsBoth(t *testing.T) {
	msgs := Evaluate(pts(75), Options{Mode: models.ModeNight})
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], "🚨"))

	normal, high := Options{Mode: models.ModeNight}.Limits()
	assert.Equal(t, 55.0, normal)
	assert.Equal(t, 75.0, high)
}

func TestAssess_ZeroThresholdIsHonoured(t *testing.T) {
	ws := Assess(pts(20), Options{Mode: models.ModeDay, ThresholdNormal: ptr(0), ThresholdHigh: ptr(50)})
	require.Len(t, ws, 1)
	assert.Equal(t, LevelElevated, ws[0].Level)

	normal, high := Options{ThresholdNormal: ptr(0)}.Limits()
	assert.Equal(t, 0.0, normal)
	assert.Equal(t, DefaultThresholdHigh, high)
}

func TestIsAllClear(t *testing.T) {
	assert.True(t, IsAllClear([]string{AllClear}))
	assert.False(t, IsAllClear(nil))
	assert.False(t, IsAllClear([]string{AllClear, AllClear}))
}
