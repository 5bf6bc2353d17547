package interpolation

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []models.Sample{
	{X: 0, Z: 0, Value: 90},
	{X: 2, Z: 0, Value: 60},
	{X: 0, Z: 2, Value: 40},
	{X: -1.5, Z: -1.5, Value: 75},
}

func TestStepArea(t *testing.T) {
	a, err := StepArea(1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5, a.Columns())
	assert.Equal(t, 5, a.Rows())
	assert.Equal(t, -1.0, a.X(0))
	assert.Equal(t, 1.0, a.X(4))

	// 0.1 does not divide evenly in binary but +range must still be included
	a, err = StepArea(1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 21, a.Columns())
	assert.InDelta(t, 1.0, a.X(20), 1e-9)

	_, err = StepArea(1, 0)
	assert.Error(t, err)
	_, err = StepArea(-1, 0.1)
	assert.Error(t, err)
}

func TestStepArea_RejectsOversizedLattices(t *testing.T) {
	tests := []struct {
		name      string
		rangeHalf float64
		step      float64
	}{
		{"too many positions", 5e4, 1e-3},
		{"range overflows int", math.MaxFloat64 / 4, 1},
		{"infinite range", math.Inf(1), 1},
		{"infinite step", 1, math.Inf(1)},
		{"nan range", math.NaN(), 1},
		{"one past the limit", float64(MaxAxis) / 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StepArea(tt.rangeHalf, tt.step)
			assert.Error(t, err)
		})
	}

	a, err := StepArea(float64(MaxAxis-1)/2, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxAxis, a.Columns())
}

func TestPixelArea(t *testing.T) {
	a, err := PixelArea(5, 3, -5, -5, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, -5.0, a.X(0))
	assert.Equal(t, 11.0, a.X(4))
	assert.Equal(t, 3.0, a.Z(1))
	assert.Equal(t, 11.0, a.Z(2))

	a, err = PixelArea(1, 1, 2, 3, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, a.X(0))
	assert.Equal(t, 3.0, a.Z(0))

	_, err = PixelArea(0, 10, 0, 0, 1, 1)
	assert.Error(t, err)

	_, err = PixelArea(MaxAxis+1, 1, 0, 0, 1, 1)
	assert.Error(t, err)
	_, err = PixelArea(1, math.MaxInt32, 0, 0, 1, 1)
	assert.Error(t, err)
}

func TestInterpolate_ExactAtSamples(t *testing.T) {
	a, err := StepArea(2, 0.5)
	require.NoError(t, err)

	g, err := Interpolate(context.Background(), samples, a)
	require.NoError(t, err)

	for _, s := range samples {
		i := int(math.Round((s.X + 2) / 0.5))
		j := int(math.Round((s.Z + 2) / 0.5))
		x, z := g.Coord(i, j)
		require.InDelta(t, s.X, x, 1e-9)
		require.InDelta(t, s.Z, z, 1e-9)
		assert.InDelta(t, s.Value, g.At(i, j), 1e-9, "sample at (%v,%v)", s.X, s.Z)
	}

	// within epsilon snaps to the sample value
	assert.Equal(t, 90.0, At(samples, 0.005, -0.005, 2))
}

func TestInterpolate_ConvexCombination(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var pts []models.Sample
	for i := 0; i < 30; i++ {
		pts = append(pts, models.Sample{X: rng.Float64()*10 - 5, Z: rng.Float64()*10 - 5, Value: 20 + rng.Float64()*90})
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}

	a, err := PixelArea(40, 40, -6, -6, 12, 12)
	require.NoError(t, err)

	for _, power := range []float64{0.5, 1, 2, 3.5} {
		g, err := Interpolate(context.Background(), pts, a, WithPower(power), WithWorkers(3))
		require.NoError(t, err)
		for _, v := range g.Values {
			require.GreaterOrEqual(t, v, lo-1e-9)
			require.LessOrEqual(t, v, hi+1e-9)
		}
	}
}

func TestInterpolate_MidpointIsAverage(t *testing.T) {
	two := []models.Sample{{X: -1, Z: 0, Value: 40}, {X: 1, Z: 0, Value: 80}}
	assert.InDelta(t, 60.0, At(two, 0, 0, 2), 1e-9)
	assert.InDelta(t, 60.0, At(two, 0, 5, 3), 1e-9)
}

func TestInterpolate_Empty(t *testing.T) {
	a, err := StepArea(1, 1)
	require.NoError(t, err)

	g, err := Interpolate(context.Background(), nil, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0}, g.Values)

	g, err = Interpolate(context.Background(), nil, a, WithEmptyValue(30))
	require.NoError(t, err)
	for _, v := range g.Values {
		assert.Equal(t, 30.0, v)
	}

	assert.Equal(t, 0.0, At(nil, 1, 1, 2))
}

func TestInterpolate_IgnoresNonFinite(t *testing.T) {
	pts := []models.Sample{
		{X: 0, Z: 0, Value: 50},
		{X: math.NaN(), Z: 0, Value: 90},
		{X: 1, Z: 1, Value: math.Inf(1)},
	}
	v := At(pts, 3, 3, 2)
	assert.Equal(t, 50.0, v)
}

func TestInterpolate_PowerFallback(t *testing.T) {
	a, err := StepArea(1, 0.5)
	require.NoError(t, err)

	want, err := Interpolate(context.Background(), samples, a)
	require.NoError(t, err)
	got, err := Interpolate(context.Background(), samples, a, WithPower(-3), WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, want.Values, got.Values)
}

func TestInterpolate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := PixelArea(64, 64, 0, 0, 10, 10)
	require.NoError(t, err)

	_, err = Interpolate(ctx, samples, a)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterpolate_GridLayout(t *testing.T) {
	a, err := PixelArea(4, 2, 0, 0, 3, 1)
	require.NoError(t, err)

	g, err := Interpolate(context.Background(), []models.Sample{{X: 3, Z: 1, Value: 99}, {X: 0, Z: 0, Value: 11}}, a)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, 11.0, g.At(0, 0))
	assert.Equal(t, 99.0, g.At(3, 1))

	pts := g.Points()
	require.Len(t, pts, 8)
	assert.Equal(t, "interp_3_1", pts[7].ID)
	assert.Equal(t, 99.0, pts[7].Value)
}
