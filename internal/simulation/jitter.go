// Package simulation synthesizes sample points and fields for rooms that have
// no measurements yet. Randomness enters only through a Jitter so every
// generator is reproducible under a fixed seed.
package simulation

import (
	"math"
	"math/rand"
	"sync"

	"github.com/aquilax/go-perlin"
)

// Jitter returns a value in [0,1] for a world position.
type Jitter interface {
	Sample(x, z float64) float64
}

// NoJitter always returns 0.5, the midpoint of every jitter range.
type NoJitter struct{}

func (NoJitter) Sample(float64, float64) float64 { return 0.5 }

// UniformJitter draws independent uniform values from a seeded source.
// It is safe for concurrent use.
type UniformJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformJitter seeds a uniform jitter source.
func NewUniformJitter(seed int64) *UniformJitter {
	return &UniformJitter{rng: rand.New(rand.NewSource(seed))}
}

func (u *UniformJitter) Sample(float64, float64) float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rng.Float64()
}

// PerlinJitter varies smoothly with position, so neighbouring points drift
// together instead of speckling.
type PerlinJitter struct {
	noise *perlin.Perlin
	scale float64
}

// NewPerlinJitter builds coherent noise with the given seed. scale is the
// number of noise periods per meter; non-positive values default to 0.5.
func NewPerlinJitter(seed int64, scale float64) *PerlinJitter {
	if !(scale > 0) {
		scale = 0.5
	}
	return &PerlinJitter{noise: perlin.NewPerlin(2, 2, 3, seed), scale: scale}
}

func (p *PerlinJitter) Sample(x, z float64) float64 {
	v := (p.noise.Noise2D(x*p.scale, z*p.scale) + 1) / 2
	return math.Max(0, math.Min(1, v))
}

// spread maps a jitter sample onto [-amp/2, amp/2].
func spread(j Jitter, x, z, amp float64) float64 {
	return (j.Sample(x, z) - 0.5) * amp
}
