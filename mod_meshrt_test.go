package scrollscene

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gekko3d/scrollscene/meshrt/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFrame(t *testing.T) {
	clock := &manualClock{now: 1}
	app := BuildHeadlessApp(headlessConfig(), clock.source)
	app.Step()

	cmd := app.Commands()
	camera := Resource[CameraRig](app)
	scene := Resource[SceneState](app)

	var frame core.Frame
	var points core.PointCloud
	buildFrame(cmd, camera, scene, &frame, &points)

	assert.Equal(t, scene.ClearColor, frame.ClearColor)
	assert.Equal(t, camera.ViewProjection(), frame.Globals.ViewProj)
	assert.InDelta(t, 0.7071, frame.Globals.LightDir[0], 1e-4)
	assert.InDelta(t, 0.7071, frame.Globals.LightDir[1], 1e-4)
	assert.Equal(t, float32(1), frame.Globals.LightColor[3])

	require.Len(t, frame.Meshes, 3)
	order, byMesh := core.SortDraws(frame.Meshes)
	assert.Len(t, order, 3, "every section has its own mesh")
	for _, eid := range scene.Sections {
		mesh := GetComponent[MeshComponent](cmd, eid)
		tr := GetComponent[TransformComponent](cmd, eid)
		require.Len(t, byMesh[string(mesh.Mesh)], 1)
		assert.Equal(t, tr.Matrix(), byMesh[string(mesh.Mesh)][0].Model)
	}

	require.Same(t, &points, frame.Points)
	assert.Len(t, points.Positions, 64)
	assert.True(t, points.ColorsDirty)

	cloud := GetComponent[ParticleCloudComponent](cmd, scene.Particles)
	assert.Equal(t, [3]float32(cloud.Positions[5]), points.Positions[5])

	clearParticleDirty(cmd)
	assert.False(t, cloud.Dirty)

	points.ColorsDirty = false
	buildFrame(cmd, camera, scene, &frame, &points)
	assert.False(t, points.ColorsDirty, "a clean cloud is not uploaded again")
	assert.Len(t, frame.Meshes, 3, "draws are rebuilt, not appended")
}

func TestMeshData(t *testing.T) {
	vertices, indices := TorusMesh(1, 0.5, 8, 8)
	data := meshData(MeshAsset{Vertices: vertices, Indices: indices})

	require.Len(t, data.Vertices, len(vertices))
	assert.Equal(t, [3]float32(vertices[3].Position), data.Vertices[3].Position)
	assert.Equal(t, [3]float32(vertices[3].Normal), data.Vertices[3].Normal)
	assert.Equal(t, indices, data.Indices)
}

func TestFrameGradient(t *testing.T) {
	clock := &manualClock{}
	app := BuildHeadlessApp(headlessConfig(), clock.source)
	cmd := app.Commands()
	scene := Resource[SceneState](app)

	material := GetComponent[MaterialComponent](cmd, scene.Sections[0])
	assert.Equal(t, material.Gradient, frameGradient(cmd))
}

type fakeUploader struct {
	meshes   map[string]core.MeshData
	attempts map[string]int
	err      error
}

func (u *fakeUploader) HasMesh(key string) bool {
	_, ok := u.meshes[key]
	return ok
}

func (u *fakeUploader) UploadMesh(key string, data core.MeshData) error {
	u.attempts[key]++
	if u.err != nil {
		return u.err
	}
	u.meshes[key] = data
	return nil
}

func TestUploadMeshes(t *testing.T) {
	assets := NewAssetServer()
	vertices, indices := TorusMesh(1, 0.5, 8, 8)
	torus := assets.CreateMesh(vertices, indices)
	draws := []core.MeshDraw{{Mesh: string(torus)}, {Mesh: string(torus)}}

	uploader := &fakeUploader{meshes: map[string]core.MeshData{}, attempts: map[string]int{}}
	failed := set[AssetId]{}
	uploadMeshes(uploader, assets, draws, failed, NewNopLogger())
	uploadMeshes(uploader, assets, draws, failed, NewNopLogger())

	assert.Equal(t, 1, uploader.attempts[string(torus)], "uploaded once and reused")
	assert.Len(t, uploader.meshes[string(torus)].Indices, len(indices))
	assert.Empty(t, failed)
}

func TestUploadMeshes_FailureIsLoggedOnce(t *testing.T) {
	assets := NewAssetServer()
	vertices, indices := ConeMesh(1, 2, 8, 1)
	cone := assets.CreateMesh(vertices, indices)
	draws := []core.MeshDraw{{Mesh: string(cone)}, {Mesh: "missing"}}

	uploader := &fakeUploader{meshes: map[string]core.MeshData{}, attempts: map[string]int{}, err: errors.New("out of memory")}
	failed := set[AssetId]{}
	var out bytes.Buffer
	logger := newLoggerTo(&out, &out, "test", false)
	for frame := 0; frame < 3; frame++ {
		uploadMeshes(uploader, assets, draws, failed, logger)
	}

	assert.Equal(t, 1, uploader.attempts[string(cone)])
	assert.Zero(t, uploader.attempts["missing"])
	assert.Len(t, failed, 2)
	assert.Equal(t, 1, strings.Count(out.String(), "out of memory"))
	assert.Equal(t, 1, strings.Count(out.String(), "mesh missing: unknown mesh asset"))
}
