package acoustics

import (
	"math"
	"testing"

	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeFieldAttenuation(t *testing.T) {
	tests := []struct {
		name     string
		db       float64
		distance float64
		want     float64
	}{
		{"one meter is unchanged", 90, 1, 90},
		{"ten meters loses 20 dB", 90, 10, 70},
		{"hundred meters loses 40 dB", 90, 100, 50},
		{"zero distance is floored", 90, 0, 110},
		{"negative distance is floored", 90, -3, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FreeFieldAttenuation(tt.db, tt.distance), 1e-9)
		})
	}
}

func TestFreeFieldAttenuation_Monotonic(t *testing.T) {
	prev := FreeFieldAttenuation(80, 0.05)
	for d := 0.1; d < 200; d *= 1.3 {
		got := FreeFieldAttenuation(80, d)
		assert.LessOrEqual(t, got, prev, "distance %v", d)
		prev = got
	}
}

func TestFreeFieldAttenuation_NaN(t *testing.T) {
	got := FreeFieldAttenuation(80, math.NaN())
	assert.False(t, math.IsNaN(got))
}

func TestMaterialAbsorptionLoss(t *testing.T) {
	for _, db := range []float64{0, 35, 90, 130, -5} {
		assert.Equal(t, db, MaterialAbsorptionLoss(db, 0))
		assert.Equal(t, 0.0, MaterialAbsorptionLoss(db, 1))
	}
	assert.InDelta(t, 63.0, MaterialAbsorptionLoss(90, 0.3), 1e-9)
	// out of range coefficients are clamped
	assert.Equal(t, 90.0, MaterialAbsorptionLoss(90, -0.5))
	assert.Equal(t, 0.0, MaterialAbsorptionLoss(90, 2))
}

func TestPointSourceSPL(t *testing.T) {
	// Lw 100, omnidirectional, 1 m, no absorption: 100 + 10*log10(1/4π)
	want := 100 + 10*math.Log10(1/(4*math.Pi))
	assert.InDelta(t, want, PointSourceSPL(100, 1, 1, 0), 1e-9)

	// below the floor the result equals the floor value
	assert.Equal(t, PointSourceSPL(100, 1, 0.1, 0.5), PointSourceSPL(100, 1, 0, 0.5))
	assert.Equal(t, PointSourceSPL(100, 1, 0.1, 0.5), PointSourceSPL(100, 1, 0.01, 0.5))

	// doubling distance drops about 6 dB without linear absorption
	assert.InDelta(t, 6.02, PointSourceSPL(100, 1, 2, 0)-PointSourceSPL(100, 1, 4, 0), 0.01)

	// hemispherical directivity adds 3 dB
	assert.InDelta(t, 3.01, PointSourceSPL(100, 2, 3, 0)-PointSourceSPL(100, 1, 3, 0), 0.01)

	assert.False(t, math.IsInf(PointSourceSPL(100, 0, 1, 0), 0))
}

func TestPointSourceSPL_NonIncreasing(t *testing.T) {
	for _, alpha := range []float64{0, 0.01, 0.5} {
		prev := math.Inf(1)
		for r := 0.0; r < 50; r += 0.25 {
			got := PointSourceSPL(95, 1, r, alpha)
			require.LessOrEqual(t, got, prev, "alpha %v r %v", alpha, r)
			prev = got
		}
	}
}

func TestSabineRT60(t *testing.T) {
	// 6x3x6 room, all surfaces 0.2
	room := models.Room{Width: 6, Height: 3, Depth: 6}
	rt := RoomRT60(room, func(models.WallKey) float64 { return 0.2 })
	area := 2*6*3.0 + 2*6*3.0 + 2*6*6.0
	assert.InDelta(t, 0.161*108/(area*0.2), rt, 1e-9)

	assert.True(t, math.IsInf(SabineRT60(100, 50, 0), 1))
	assert.True(t, math.IsInf(RoomRT60(models.Room{}, func(models.WallKey) float64 { return 0.5 }), 1))
}

func TestAxialModes(t *testing.T) {
	assert.InDelta(t, 57.1667, AxialModeFrequency(SpeedOfSound, 3, 1), 1e-3)
	assert.Equal(t, 0.0, AxialModeFrequency(SpeedOfSound, 0, 1))

	modes := AxialModes(models.Room{Width: 5, Height: 2.5, Depth: 0}, SpeedOfSound, 3)
	require.Len(t, modes, 6)
	assert.Equal(t, "width", modes[0].Axis)
	assert.InDelta(t, 34.3, modes[0].Frequency, 1e-9)
	assert.Equal(t, 3, modes[5].Order)
	assert.Equal(t, "height", modes[5].Axis)
}
