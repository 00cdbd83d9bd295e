package scrollscene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AnimatorSettings is the per-frame animation tuning shared by the animator
// systems.
type AnimatorSettings struct {
	ObjectSpacing float32
	Animation     AnimationConfig
}

// AnimatorModule drives the scene every frame, after input was handled and
// before the frame is rendered:
//   - the camera travels down one section spacing per viewport of scroll
//   - the parallax group eases toward the pointer
//   - particles shimmer
//   - section meshes spin and run their section tweens
type AnimatorModule struct {
	Config Config
}

func (m AnimatorModule) Install(app *App, cmd *Commands) {
	if Resource[Tracker](app) == nil {
		panic("AnimatorModule requires the TrackerModule")
	}

	cmd.AddResources(&AnimatorSettings{
		ObjectSpacing: m.Config.Scene.ObjectSpacing,
		Animation:     m.Config.Animation,
	})

	for _, system := range []systemFn{
		cameraScrollSystem,
		parallaxSystem,
		particleShimmerSystem,
		spinSystem,
		tweenSystem,
	} {
		app.UseSystem(System(system).InStage(Update).RunAlways())
	}
}

func cameraScrollSystem(tracker *Tracker, camera *CameraRig, settings *AnimatorSettings) {
	if tracker.Viewport.Height <= 0 {
		return
	}
	camera.Height = -float32(tracker.ScrollY/tracker.Viewport.Height) * settings.ObjectSpacing
}

func parallaxSystem(clock *Clock, tracker *Tracker, camera *CameraRig, settings *AnimatorSettings) {
	p := settings.Animation.Parallax
	target := mgl32.Vec2{
		-tracker.Pointer.X() * p.Strength,
		tracker.Pointer.Y() * p.Strength,
	}
	camera.followParallax(target, p.Rate, clock.Delta)
}

func particleShimmerSystem(cmd *Commands, clock *Clock, settings *AnimatorSettings) {
	MakeQuery1[ParticleCloudComponent](cmd).Map(func(_ EntityId, cloud *ParticleCloudComponent) bool {
		cloud.Shimmer(clock.Elapsed, settings.Animation.Shimmer)
		return true
	})
}

func spinSystem(cmd *Commands, clock *Clock) {
	dt := float32(clock.Delta)
	MakeQuery2[TransformComponent, SpinComponent](cmd).Map(func(_ EntityId, t *TransformComponent, spin *SpinComponent) bool {
		t.Rotation[0] += dt * spin.X
		t.Rotation[1] += dt * spin.Y
		return true
	})
}

func tweenSystem(cmd *Commands, clock *Clock, tweens *TweenSet) {
	tweens.Advance(clock.Elapsed, func(eid EntityId) *mgl32.Vec3 {
		t := GetComponent[TransformComponent](cmd, eid)
		if t == nil {
			return nil
		}
		return &t.Rotation
	})
}
