package scrollscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMeshWellFormed(t *testing.T, vertices []MeshVertex, indices []uint16) {
	t.Helper()
	require.NotEmpty(t, vertices)
	require.Zero(t, len(indices)%3, "indices should form triangles")
	for _, i := range indices {
		require.Less(t, int(i), len(vertices))
	}
	for i, v := range vertices {
		require.InDelta(t, 1.0, v.Normal.Len(), 1e-4, "normal of vertex %d", i)
	}
}

func TestTorusMesh(t *testing.T) {
	vertices, indices := TorusMesh(1, 0.5, 32, 32)

	assert.Len(t, vertices, 33*33)
	assert.Len(t, indices, 32*32*6)
	assertMeshWellFormed(t, vertices, indices)

	for _, v := range vertices {
		assert.LessOrEqual(t, v.Position.Len(), float32(1.5+1e-4))
		assert.GreaterOrEqual(t, v.Position.Len(), float32(0.5-1e-4))
	}
}

func TestConeMesh(t *testing.T) {
	vertices, indices := ConeMesh(1, 2, 32, 32)

	assert.Len(t, vertices, 33*33+1+33)
	assert.Len(t, indices, 32*32*6+32*3)
	assertMeshWellFormed(t, vertices, indices)

	assert.InDelta(t, 1.0, vertices[0].Position.Y(), 1e-6, "apex sits at half height")
	assert.InDelta(t, -1.0, vertices[len(vertices)-1].Position.Y(), 1e-6, "base ring sits at minus half height")
}

func TestTorusKnotMesh(t *testing.T) {
	vertices, indices := TorusKnotMesh(1, 0.4, 32, 32, 2, 3)

	assert.Len(t, vertices, 33*33)
	assert.Len(t, indices, 32*32*6)
	assertMeshWellFormed(t, vertices, indices)
}

func TestCreateShapeMesh(t *testing.T) {
	server := NewAssetServer()

	for _, shape := range []string{ShapeTorus, ShapeCone, ShapeTorusKnot} {
		id, err := server.CreateShapeMesh(shape, nil)
		require.NoError(t, err, shape)
		_, ok := server.Mesh(id)
		assert.True(t, ok, shape)
	}

	_, err := server.CreateShapeMesh("sphere", nil)
	assert.EqualError(t, err, `unknown shape "sphere"`)

	_, err = server.CreateShapeMesh(ShapeTorus, []float32{1, 0.4, 300, 300})
	assert.ErrorContains(t, err, "more than 16-bit indices can address")
}
