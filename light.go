package scrollscene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLightComponent lights the scene from the direction of its
// entity's position toward the origin.
type DirectionalLightComponent struct {
	Color     [3]float32
	Intensity float32
}

// MaterialComponent shades a mesh with a toon gradient lookup.
type MaterialComponent struct {
	Color    [4]float32
	Gradient AssetId
}

type MeshComponent struct {
	Mesh AssetId
}

// lightDirection returns the unit vector pointing from the scene toward the
// light, or +Y when the light sits on the origin.
func lightDirection(position mgl32.Vec3) mgl32.Vec3 {
	if position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return position.Normalize()
}
