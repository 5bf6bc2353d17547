package simulation

import (
	"math"
	"testing"

	"github.com/BROKENGroupe/soundmap/internal/acoustics"
	"github.com/BROKENGroupe/soundmap/internal/interpolation"
	"github.com/BROKENGroupe/soundmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var room = models.Room{Width: 6, Height: 3, Depth: 6}

func TestJitter_Range(t *testing.T) {
	jitters := map[string]Jitter{
		"uniform": NewUniformJitter(1),
		"perlin":  NewPerlinJitter(1, 0.7),
		"none":    NoJitter{},
	}
	for name, j := range jitters {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				v := j.Sample(float64(i)*0.37, float64(i)*0.11)
				require.GreaterOrEqual(t, v, 0.0)
				require.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestJitter_Seeded(t *testing.T) {
	a, b := NewUniformJitter(42), NewUniformJitter(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Sample(0, 0), b.Sample(0, 0))
	}

	p, q := NewPerlinJitter(9, 0), NewPerlinJitter(9, 0)
	assert.Equal(t, p.Sample(1.3, 2.7), q.Sample(1.3, 2.7))
}

func TestRealisticPoints(t *testing.T) {
	pts := RealisticPoints(room, 20, NoJitter{})

	require.Greater(t, len(pts), 10)
	assert.Equal(t, "fuga0", pts[0].ID)
	assert.Equal(t, 95.0, pts[0].DB)
	assert.Equal(t, "fuga9", pts[9].ID)

	ls := leaks(room.Width, room.Depth)
	ids := map[string]bool{}
	for _, p := range pts {
		require.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		assert.Zero(t, p.Y)
	}
	for _, p := range pts[10:] {
		assert.False(t, nearLeak(ls, p.X, p.Z), "lattice point %s too close to a leak", p.ID)
		assert.GreaterOrEqual(t, p.DB, 45.0)
		assert.LessOrEqual(t, p.DB, 70.0)
	}
}

func TestRealisticPoints_Reproducible(t *testing.T) {
	a := RealisticPoints(room, 12, NewUniformJitter(5))
	b := RealisticPoints(room, 12, NewUniformJitter(5))
	assert.Equal(t, a, b)

	c := RealisticPoints(room, 12, NewUniformJitter(6))
	assert.NotEqual(t, a, c)

	assert.Equal(t, RealisticPoints(room, 0, nil), RealisticPoints(room, DefaultGridSize, NoJitter{}))
}

func TestEscapeMap(t *testing.T) {
	cfg := EscapeConfig{Width: 4, Depth: 4, Segments: 13, DoorX: 0, DoorZ0: -1, DoorZ1: 1}
	g := EscapeMap(cfg, 0.2, NoJitter{})

	require.Equal(t, 13, g.Width)
	require.Equal(t, 13, g.Height)
	x, z := g.Coord(6, 6)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, z, 1e-9)
	assert.InDelta(t, 105-0.2*40+1, g.At(6, 6), 1e-9)
	assert.Equal(t, 40.0, g.At(0, 0))

	for _, v := range g.Values {
		require.GreaterOrEqual(t, v, 40.0)
	}

	more := EscapeMap(cfg, 0.9, NoJitter{})
	assert.Less(t, more.At(6, 6), g.At(6, 6))
}

func TestFromSource(t *testing.T) {
	area, err := interpolation.StepArea(2, 1)
	require.NoError(t, err)

	g := FromSource(Source{Lw: 100, Q: 1}, area)
	require.Equal(t, 5, g.Width)

	assert.InDelta(t, 100+10*math.Log10(1/(4*math.Pi)), g.At(3, 2), 1e-9)
	assert.Equal(t, g.At(3, 2), g.At(1, 2))
	assert.Equal(t, acoustics.PointSourceSPL(100, 1, 0, 0), g.At(2, 2))
	assert.Greater(t, g.At(2, 2), g.At(4, 4))

	pts := Points(g)
	require.Len(t, pts, 25)
	assert.Equal(t, g.At(0, 0), pts[0].DB)
}
