package scrollscene

import (
	"fmt"

	rtapp "github.com/gekko3d/scrollscene/meshrt/rt/app"
	"github.com/gekko3d/scrollscene/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshRenderer bridges the ECS to the mesh renderer. It is also the Surface
// the Tracker resizes.
type MeshRenderer struct {
	rt       *rtapp.App
	frame    core.Frame
	points   core.PointCloud
	gradient AssetId
	failed   set[AssetId]
	logger   Logger
}

type meshUploader interface {
	HasMesh(key string) bool
	UploadMesh(key string, data core.MeshData) error
}

func (r *MeshRenderer) SetSize(width, height int) {
	r.rt.Resize(width, height)
}

// Frame returns the frame built by the last render.
func (r *MeshRenderer) Frame() *core.Frame {
	return &r.frame
}

const meshRendererName = "meshrt"

type MeshRendererModule struct{}

func (MeshRendererModule) Install(app *App, cmd *Commands) {
	if !claimRenderer(app, meshRendererName) {
		return
	}
	ws := Resource[WindowState](app)
	if ws == nil {
		panic("MeshRendererModule requires the PlatformWindowModule")
	}
	if Resource[AssetServer](app) == nil {
		panic("MeshRendererModule requires the AssetServerModule")
	}

	rt := rtapp.NewApp(ws.Window())
	if err := rt.Init(); err != nil {
		panic(fmt.Sprintf("failed to initialize renderer: %v", err))
	}
	cmd.AddResources(&MeshRenderer{rt: rt, logger: app.Logger()})

	app.UseSystem(System(meshRenderSystem).InStage(Render).RunAlways())
	if app.stateful {
		app.UseSystem(System(meshRendererReleaseSystem).InStage(Render).InState(OnExit(StateExiting)))
	}
}

func meshRenderSystem(cmd *Commands, r *MeshRenderer, assets *AssetServer, camera *CameraRig, scene *SceneState) {
	buildFrame(cmd, camera, scene, &r.frame, &r.points)

	if r.failed == nil {
		r.failed = set[AssetId]{}
	}
	uploadMeshes(r.rt, assets, r.frame.Meshes, r.failed, r.logger)

	if gradient := frameGradient(cmd); gradient != "" && gradient != r.gradient {
		if tex, ok := assets.Texture(gradient); ok {
			if err := r.rt.SetGradient(tex.Texels, tex.Width); err != nil {
				r.logger.Errorf("gradient %s: %v", gradient, err)
			} else {
				r.gradient = gradient
			}
		}
	}

	r.rt.Render(&r.frame)
	clearParticleDirty(cmd)
}

func meshRendererReleaseSystem(r *MeshRenderer) {
	r.rt.Release()
	r.logger.Debugf("renderer released")
}

// uploadMeshes uploads every drawn mesh the renderer does not hold yet. A
// mesh that fails is recorded in failed and not retried.
func uploadMeshes(uploader meshUploader, assets *AssetServer, draws []core.MeshDraw, failed set[AssetId], logger Logger) {
	for _, draw := range draws {
		id := AssetId(draw.Mesh)
		if _, ok := failed[id]; ok || uploader.HasMesh(draw.Mesh) {
			continue
		}
		mesh, ok := assets.Mesh(id)
		if !ok {
			failed[id] = struct{}{}
			logger.Errorf("mesh %s: unknown mesh asset", id)
			continue
		}
		if err := uploader.UploadMesh(draw.Mesh, meshData(mesh)); err != nil {
			failed[id] = struct{}{}
			logger.Errorf("mesh %s: %v", id, err)
		}
	}
}

func meshData(mesh MeshAsset) core.MeshData {
	data := core.MeshData{
		Vertices: make([]core.Vertex, len(mesh.Vertices)),
		Indices:  mesh.Indices,
	}
	for i, v := range mesh.Vertices {
		data.Vertices[i] = core.Vertex{Position: v.Position, Normal: v.Normal}
	}
	return data
}

// buildFrame snapshots the camera, the light, every mesh instance and the
// particle cloud into frame. points is reused across frames.
func buildFrame(cmd *Commands, camera *CameraRig, scene *SceneState, frame *core.Frame, points *core.PointCloud) {
	frame.ClearColor = scene.ClearColor
	frame.Meshes = frame.Meshes[:0]
	frame.Points = nil

	lightDir := mgl32.Vec3{0, 1, 0}
	lightColor := [3]float32{1, 1, 1}
	var intensity float32 = 1
	MakeQuery2[TransformComponent, DirectionalLightComponent](cmd).Map(
		func(_ EntityId, t *TransformComponent, l *DirectionalLightComponent) bool {
			lightDir = lightDirection(t.Position)
			lightColor = l.Color
			intensity = l.Intensity
			return false
		})
	frame.Globals = core.NewGlobals(camera.ViewProjection(), lightDir, lightColor, intensity)

	MakeQuery3[TransformComponent, MeshComponent, MaterialComponent](cmd).Map(
		func(_ EntityId, t *TransformComponent, m *MeshComponent, mat *MaterialComponent) bool {
			frame.Meshes = append(frame.Meshes, core.MeshDraw{
				Mesh:     string(m.Mesh),
				Instance: core.MeshInstance{Model: t.Matrix(), Color: mat.Color},
			})
			return true
		})

	MakeQuery1[ParticleCloudComponent](cmd).Map(func(_ EntityId, p *ParticleCloudComponent) bool {
		if len(points.Positions) != len(p.Positions) {
			points.Positions = make([][3]float32, len(p.Positions))
			for i, pos := range p.Positions {
				points.Positions[i] = pos
			}
		}
		points.Colors = p.Colors
		points.ColorsDirty = points.ColorsDirty || p.Dirty
		frame.Points = points
		return false
	})
}

// frameGradient returns the gradient of the first material found.
func frameGradient(cmd *Commands) AssetId {
	var gradient AssetId
	MakeQuery1[MaterialComponent](cmd).Map(func(_ EntityId, m *MaterialComponent) bool {
		gradient = m.Gradient
		return false
	})
	return gradient
}

func clearParticleDirty(cmd *Commands) {
	MakeQuery1[ParticleCloudComponent](cmd).Map(func(_ EntityId, p *ParticleCloudComponent) bool {
		p.Dirty = false
		return true
	})
}
