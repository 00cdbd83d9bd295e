package scrollscene

import (
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// clipRemap turns an OpenGL style clip space (z in [-w, w]) into the WebGPU
// one (z in [0, w]).
var clipRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// CameraRig is the perspective camera wrapped in a parallax group. The
// camera sits at Height on Y and Distance on Z inside the group; the group
// itself is offset by Parallax.
type CameraRig struct {
	Fov      float32
	Aspect   float32
	Near     float32
	Far      float32
	Distance float32
	Height   float32
	Parallax mgl32.Vec2

	spring        bool
	springFreq    float64
	springDamping float64
	velocity      [2]float64
}

func NewCameraRig(cfg CameraConfig) *CameraRig {
	return &CameraRig{
		Fov:      cfg.Fov,
		Aspect:   1,
		Near:     cfg.Near,
		Far:      cfg.Far,
		Distance: cfg.Distance,
	}
}

func (c *CameraRig) Eye() mgl32.Vec3 {
	return mgl32.Vec3{c.Parallax.X(), c.Parallax.Y() + c.Height, c.Distance}
}

// View looks down -Z from Eye with Y up.
func (c *CameraRig) View() mgl32.Mat4 {
	eye := c.Eye()
	return mgl32.LookAtV(eye, eye.Sub(mgl32.Vec3{0, 0, 1}), mgl32.Vec3{0, 1, 0})
}

func (c *CameraRig) Projection() mgl32.Mat4 {
	return clipRemap.Mul4(mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far))
}

func (c *CameraRig) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// UseSpring makes the parallax follow its target with a damped spring
// instead of the first-order lag.
func (c *CameraRig) UseSpring(frequency, damping float64) {
	c.spring = true
	c.springFreq = frequency
	c.springDamping = damping
}

// ParallaxStep moves current toward target by rate*delta of the remaining
// distance, capped at the whole distance so long frames land on the target
// instead of overshooting it.
func ParallaxStep(current, target mgl32.Vec2, rate, delta float32) mgl32.Vec2 {
	k := min(rate*delta, 1)
	return current.Add(target.Sub(current).Mul(k))
}

func (c *CameraRig) followParallax(target mgl32.Vec2, rate float32, delta float64) {
	if !c.spring {
		c.Parallax = ParallaxStep(c.Parallax, target, rate, float32(delta))
		return
	}
	if delta <= 0 {
		return
	}

	// harmonica springs are built for a fixed step, so one is made per frame.
	s := harmonica.NewSpring(delta, c.springFreq, c.springDamping)
	x, vx := s.Update(float64(c.Parallax.X()), c.velocity[0], float64(target.X()))
	y, vy := s.Update(float64(c.Parallax.Y()), c.velocity[1], float64(target.Y()))
	c.Parallax = mgl32.Vec2{float32(x), float32(y)}
	c.velocity = [2]float64{vx, vy}
}
