package scrollscene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minParticlePhase = 1.0
	maxParticlePhase = 1.5
)

// ParticleCloudComponent is a fixed point cloud. Positions never change after
// spawn; Colors are rewritten every frame and Dirty tells the renderer to
// upload them.
type ParticleCloudComponent struct {
	Positions []mgl32.Vec3
	Colors    [][3]float32
	// Phases desynchronize the shimmer between particles, one per particle in
	// [1.0, 1.5] with a 0.1 step.
	Phases []float32
	Dirty  bool
}

// NewParticleCloud scatters count points over a box spread[0] wide on X and
// spread[1] deep on Z (all behind the origin), spanning from one spacing above
// the first section to past the last one.
func NewParticleCloud(count int, spread [2]float32, spacing float32, sections int, rng *rand.Rand) ParticleCloudComponent {
	cloud := ParticleCloudComponent{
		Positions: make([]mgl32.Vec3, count),
		Colors:    make([][3]float32, count),
		Phases:    make([]float32, count),
		Dirty:     true,
	}

	span := spacing * float32(sections+2)
	for i := 0; i < count; i++ {
		cloud.Positions[i] = mgl32.Vec3{
			(rng.Float32() - 0.5) * spread[0],
			(spacing + 1) - rng.Float32()*span,
			(rng.Float32() - 1) * spread[1],
		}
		cloud.Colors[i] = [3]float32{1, 1, 1}
		cloud.Phases[i] = quantizePhase(rng.Float64())
	}
	return cloud
}

// quantizePhase maps r in [0, 1) to a phase in [1.0, 1.5] rounded to one
// decimal.
func quantizePhase(r float64) float32 {
	p := math.Round((r*(maxParticlePhase-minParticlePhase)+minParticlePhase)*10) / 10
	return float32(p)
}

// ShimmerChannel is one color channel of a particle at time elapsed:
// min(sin(max(elapsed, minElapsed)*phase - offset)^2, ceiling).
func ShimmerChannel(elapsed, minElapsed float64, phase float32, offset float64, ceiling float32) float32 {
	s := math.Sin(math.Max(elapsed, minElapsed)*float64(phase) - offset)
	return float32(math.Min(s*s, float64(ceiling)))
}

// Shimmer recolors every particle for the given time and marks the cloud dirty.
func (p *ParticleCloudComponent) Shimmer(elapsed float64, cfg ShimmerConfig) {
	for i, phase := range p.Phases {
		for c := 0; c < 3; c++ {
			p.Colors[i][c] = ShimmerChannel(elapsed, cfg.MinElapsed, phase, cfg.Offsets[c], cfg.Cap)
		}
	}
	p.Dirty = true
}
