package scrollscene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent places an entity in world space. Rotation holds Euler
// angles in radians, applied in X, Y, Z order.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

func (t *TransformComponent) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z())).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// SpinComponent rotates an entity continuously, in radians per second.
type SpinComponent struct {
	X float32
	Y float32
}

// SectionComponent marks a mesh that owns a scroll section.
type SectionComponent struct {
	Index int
}
