package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

type Body struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
	Radius   float32
	Color    [4]float32
}

// CloudConfig controls the random particle cloud spawned at startup.
type CloudConfig struct {
	Count  int
	StdDev float64 // of the centered normal position distribution
	Radius float32
	Color  [4]float32
	Seed   int64
}

func DefaultCloudConfig() CloudConfig {
	return CloudConfig{
		Count:  1000,
		StdDev: 0.5,
		Radius: 0.005,
		Color:  [4]float32{1, 1, 1, 1},
	}
}

// NewCloud samples body positions from a normal distribution centered on
// the origin. The same seed always produces the same cloud.
func NewCloud(cfg CloudConfig) []Body {
	rng := rand.New(rand.NewSource(cfg.Seed))
	bodies := make([]Body, cfg.Count)
	for i := range bodies {
		bodies[i] = Body{
			Position: mgl32.Vec2{
				float32(rng.NormFloat64() * cfg.StdDev),
				float32(rng.NormFloat64() * cfg.StdDev),
			},
			Radius: cfg.Radius,
			Color:  cfg.Color,
		}
	}
	return bodies
}
