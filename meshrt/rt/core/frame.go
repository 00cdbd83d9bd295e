package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Globals matches the WGSL Globals uniform shared by all passes.
type Globals struct {
	ViewProj mgl32.Mat4
	// LightDir points from the scene toward the light; w is unused.
	LightDir [4]float32
	// LightColor is linear RGB with the intensity in w.
	LightColor [4]float32
}

// Vertex matches the toon shader vertex attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// MeshInstance matches the toon shader instance attributes.
type MeshInstance struct {
	Model mgl32.Mat4
	Color [4]float32
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint16
}

// MeshDraw is one instance of an uploaded mesh.
type MeshDraw struct {
	Mesh     string
	Instance MeshInstance
}

// PointCloud is a static set of points whose colors may change per frame.
type PointCloud struct {
	Positions [][3]float32
	Colors    [][3]float32
	// ColorsDirty requests a color upload this frame.
	ColorsDirty bool
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Globals    Globals
	ClearColor [4]float64
	Meshes     []MeshDraw
	Points     *PointCloud
}

func NewGlobals(viewProj mgl32.Mat4, lightDir mgl32.Vec3, lightColor [3]float32, intensity float32) Globals {
	return Globals{
		ViewProj:   viewProj,
		LightDir:   [4]float32{lightDir.X(), lightDir.Y(), lightDir.Z(), 0},
		LightColor: [4]float32{lightColor[0], lightColor[1], lightColor[2], intensity},
	}
}

// SortDraws groups draws by mesh so every mesh is drawn with one instanced call.
func SortDraws(draws []MeshDraw) (order []string, byMesh map[string][]MeshInstance) {
	byMesh = make(map[string][]MeshInstance)
	for _, d := range draws {
		if _, ok := byMesh[d.Mesh]; !ok {
			order = append(order, d.Mesh)
		}
		byMesh[d.Mesh] = append(byMesh[d.Mesh], d.Instance)
	}
	return order, byMesh
}
