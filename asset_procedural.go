package scrollscene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shapes understood by CreateShapeMesh.
const (
	ShapeTorus     = "torus"
	ShapeCone      = "cone"
	ShapeTorusKnot = "torus_knot"
)

// CreateShapeMesh builds a named shape. Params per shape:
//   - torus:      radius, tube, radialSegments, tubularSegments
//   - cone:       radius, height, radialSegments, heightSegments
//   - torus_knot: radius, tube, tubularSegments, radialSegments, p, q
func (server AssetServer) CreateShapeMesh(shape string, params []float32) (AssetId, error) {
	param := func(i int, def float32) float32 {
		if i < len(params) {
			return params[i]
		}
		return def
	}

	var vertices []MeshVertex
	var indices []uint16
	switch shape {
	case ShapeTorus:
		vertices, indices = TorusMesh(param(0, 1), param(1, 0.4), int(param(2, 12)), int(param(3, 48)))
	case ShapeCone:
		vertices, indices = ConeMesh(param(0, 1), param(1, 1), int(param(2, 32)), int(param(3, 1)))
	case ShapeTorusKnot:
		vertices, indices = TorusKnotMesh(param(0, 1), param(1, 0.4), int(param(2, 64)), int(param(3, 8)), int(param(4, 2)), int(param(5, 3)))
	default:
		return "", fmt.Errorf("unknown shape %q", shape)
	}

	if len(vertices) > math.MaxUint16+1 {
		return "", fmt.Errorf("%s mesh has %d vertices, more than 16-bit indices can address", shape, len(vertices))
	}
	return server.CreateMesh(vertices, indices), nil
}

// TorusMesh is a ring of the given radius around Z, with a tube of radius
// tube. radial splits the tube cross-section, tubular splits the ring.
func TorusMesh(radius, tube float32, radial, tubular int) ([]MeshVertex, []uint16) {
	radial, tubular = max(radial, 3), max(tubular, 3)
	vertices := make([]MeshVertex, 0, (radial+1)*(tubular+1))

	for j := 0; j <= radial; j++ {
		v := float64(j) / float64(radial) * 2 * math.Pi
		for i := 0; i <= tubular; i++ {
			u := float64(i) / float64(tubular) * 2 * math.Pi
			ring := float64(radius) + float64(tube)*math.Cos(v)
			pos := mgl32.Vec3{
				float32(ring * math.Cos(u)),
				float32(ring * math.Sin(u)),
				float32(float64(tube) * math.Sin(v)),
			}
			center := mgl32.Vec3{radius * float32(math.Cos(u)), radius * float32(math.Sin(u)), 0}
			vertices = append(vertices, MeshVertex{Position: pos, Normal: pos.Sub(center).Normalize()})
		}
	}

	return vertices, gridIndices(radial, tubular)
}

// ConeMesh is a cone along Y centered on the origin, apex up, with a closed base.
func ConeMesh(radius, height float32, radialSegments, heightSegments int) ([]MeshVertex, []uint16) {
	radialSegments, heightSegments = max(radialSegments, 3), max(heightSegments, 1)
	half := height / 2
	slope := radius / height
	var vertices []MeshVertex

	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		r := v * radius
		for x := 0; x <= radialSegments; x++ {
			theta := float64(x) / float64(radialSegments) * 2 * math.Pi
			sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
			vertices = append(vertices, MeshVertex{
				Position: mgl32.Vec3{r * sin, half - v*height, r * cos},
				Normal:   mgl32.Vec3{sin, slope, cos}.Normalize(),
			})
		}
	}
	indices := gridIndices(heightSegments, radialSegments)

	// base cap, facing -Y
	center := uint16(len(vertices))
	down := mgl32.Vec3{0, -1, 0}
	vertices = append(vertices, MeshVertex{Position: mgl32.Vec3{0, -half, 0}, Normal: down})
	ring := uint16(len(vertices))
	for x := 0; x <= radialSegments; x++ {
		theta := float64(x) / float64(radialSegments) * 2 * math.Pi
		vertices = append(vertices, MeshVertex{
			Position: mgl32.Vec3{radius * float32(math.Sin(theta)), -half, radius * float32(math.Cos(theta))},
			Normal:   down,
		})
	}
	for x := uint16(0); x < uint16(radialSegments); x++ {
		indices = append(indices, center, ring+x+1, ring+x)
	}

	return vertices, indices
}

// TorusKnotMesh winds a tube p times around the axis of rotational symmetry
// and q times around a circle in the torus interior.
func TorusKnotMesh(radius, tube float32, tubularSegments, radialSegments, p, q int) ([]MeshVertex, []uint16) {
	tubularSegments, radialSegments = max(tubularSegments, 3), max(radialSegments, 3)
	if p == 0 {
		p = 2
	}
	vertices := make([]MeshVertex, 0, (tubularSegments+1)*(radialSegments+1))

	curve := func(u float64) mgl32.Vec3 {
		quOverP := float64(q) / float64(p) * u
		cs := math.Cos(quOverP)
		r := float64(radius)
		return mgl32.Vec3{
			float32(r * (2 + cs) * 0.5 * math.Cos(u)),
			float32(r * (2 + cs) * 0.5 * math.Sin(u)),
			float32(r * math.Sin(quOverP) * 0.5),
		}
	}

	for i := 0; i <= tubularSegments; i++ {
		u := float64(i) / float64(tubularSegments) * float64(p) * 2 * math.Pi
		p1, p2 := curve(u), curve(u+0.01)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b, n = b.Normalize(), n.Normalize()

		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * math.Pi
			cx := -tube * float32(math.Cos(v))
			cy := tube * float32(math.Sin(v))
			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			vertices = append(vertices, MeshVertex{Position: pos, Normal: pos.Sub(p1).Normalize()})
		}
	}

	return vertices, gridIndices(tubularSegments, radialSegments)
}

// gridIndices triangulates a (rows+1) x (cols+1) vertex grid laid out row by row.
func gridIndices(rows, cols int) []uint16 {
	indices := make([]uint16, 0, rows*cols*6)
	stride := cols + 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := uint16(r*stride + c)
			b := uint16((r+1)*stride + c)
			d := uint16(r*stride + c + 1)
			e := uint16((r+1)*stride + c + 1)
			indices = append(indices, a, b, d, b, e, d)
		}
	}
	return indices
}
