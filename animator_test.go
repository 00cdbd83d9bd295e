package scrollscene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headlessConfig keeps the particle count small and the layout reproducible.
func headlessConfig() Config {
	cfg := DefaultConfig()
	cfg.Scene.Particles.Count = 64
	cfg.Scene.Seed = 1
	cfg.Log.Prefix = "test"
	return cfg
}

type manualClock struct {
	now float64
}

func (c *manualClock) source() float64 { return c.now }

func TestParallaxStep_ConvergesMonotonically(t *testing.T) {
	target := mgl32.Vec2{-0.25, 0.25}
	for _, delta := range []float32{0.001, 1.0 / 60, 0.05, 0.1, 0.19, 0.2, 0.3, 0.5, 2} {
		current := mgl32.Vec2{0.3, -0.4}
		prev := target.Sub(current).Len()
		for i := 0; i < 50; i++ {
			current = ParallaxStep(current, target, 5, delta)
			dist := target.Sub(current).Len()
			require.LessOrEqual(t, dist, prev, "delta %v frame %d", delta, i)
			if dist < 1e-6 {
				break
			}
			require.Less(t, dist, prev, "delta %v frame %d", delta, i)
			prev = dist
		}
	}

	landed := ParallaxStep(mgl32.Vec2{}, target, 5, 0.5)
	assert.InDelta(t, -0.25, landed.X(), 1e-6, "a long frame lands on the target")
	assert.InDelta(t, 0.25, landed.Y(), 1e-6)

	still := ParallaxStep(mgl32.Vec2{0.1, 0.2}, mgl32.Vec2{1, 1}, 5, 0)
	assert.Equal(t, mgl32.Vec2{0.1, 0.2}, still, "zero delta does not move")
}

func TestAnimator_EndToEndParallax(t *testing.T) {
	clock := &manualClock{}
	app := BuildHeadlessApp(headlessConfig(), clock.source)
	camera := Resource[CameraRig](app)
	tracker := Resource[Tracker](app)
	require.NotNil(t, camera)
	require.NotNil(t, tracker)

	require.True(t, app.Step())
	assert.Equal(t, mgl32.Vec2{0, 0}, camera.Parallax)

	tracker.OnPointerMove(1, 1, 1, 1)
	clock.now = 0.1
	require.True(t, app.Step())

	assert.InDelta(t, -0.125, camera.Parallax.X(), 1e-6)
	assert.InDelta(t, 0.125, camera.Parallax.Y(), 1e-6)
}

func TestAnimator_CameraFollowsScroll(t *testing.T) {
	clock := &manualClock{}
	app := BuildHeadlessApp(headlessConfig(), clock.source)
	camera := Resource[CameraRig](app)
	tracker := Resource[Tracker](app)

	tracker.OnScroll(tracker.Viewport.Height * 1.5)
	app.Step()
	assert.InDelta(t, -15, camera.Height, 1e-5)
	assert.InDelta(t, -15, camera.Eye().Y(), 1e-5)
	assert.Equal(t, float32(7), camera.Eye().Z())
}

func TestAnimator_SpinAndSectionTween(t *testing.T) {
	clock := &manualClock{}
	app := BuildHeadlessApp(headlessConfig(), clock.source)
	scene := Resource[SceneState](app)
	tracker := Resource[Tracker](app)
	cmd := app.Commands()
	require.Len(t, scene.Sections, 3)

	app.Step()
	clock.now = 1
	app.Step()

	first := GetComponent[TransformComponent](cmd, scene.Sections[0])
	require.NotNil(t, first)
	assert.InDelta(t, 0.3, first.Rotation.X(), 1e-5)
	assert.InDelta(t, 0.5, first.Rotation.Y(), 1e-5)

	tracker.OnScroll(tracker.Viewport.Height)
	for _, now := range []float64{1.5, 2, 2.5, 3, 3.5} {
		clock.now = now
		app.Step()
	}

	second := GetComponent[TransformComponent](cmd, scene.Sections[1])
	assert.InDelta(t, 3.5*0.3+3, second.Rotation.X(), 1e-4)
	assert.InDelta(t, 3.5*0.5+6, second.Rotation.Y(), 1e-4)
	assert.InDelta(t, 0, second.Rotation.Z(), 1e-6)
	assert.Equal(t, 0, Resource[TweenSet](app).Len())

	third := GetComponent[TransformComponent](cmd, scene.Sections[2])
	assert.InDelta(t, 3.5*0.3, third.Rotation.X(), 1e-4, "only the scrolled-to section tweens")
}

func TestAnimator_ParticlesShimmer(t *testing.T) {
	clock := &manualClock{now: 0.05}
	cfg := headlessConfig()
	app := BuildHeadlessApp(cfg, clock.source)
	scene := Resource[SceneState](app)
	cmd := app.Commands()

	app.Step()
	cloud := GetComponent[ParticleCloudComponent](cmd, scene.Particles)
	require.NotNil(t, cloud)
	require.Len(t, cloud.Colors, 64)

	for i, c := range cloud.Colors {
		phase := float64(cloud.Phases[i])
		for ch, offset := range cfg.Animation.Shimmer.Offsets {
			s := math.Sin(0.3*phase - offset)
			assert.InDelta(t, math.Min(s*s, 0.5), c[ch], 1e-6, "elapsed is floored at 0.3")
		}
	}

	for _, now := range []float64{1, 7.3, 42, 1000} {
		clock.now = now
		app.Step()
		for _, c := range cloud.Colors {
			for _, v := range c {
				require.GreaterOrEqual(t, v, float32(0))
				require.LessOrEqual(t, v, float32(0.5))
			}
		}
	}
}
