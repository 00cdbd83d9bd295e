package scrollscene

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneDef defines the initial state of the scene.
type SceneDef struct {
	// Meshes become the scroll sections, in order.
	Meshes          []MeshDef
	Light           LightDef
	Particles       ParticleCloudDef
	Spacing         float32
	Spin            SpinComponent
	MaterialColor   [4]float32
	GradientTexture string
	ClearColor      [4]float64
	Seed            int64
}

type MeshDef struct {
	Shape    string
	Params   []float32
	Position mgl32.Vec3
}

type LightDef struct {
	Position  mgl32.Vec3
	Color     [3]float32
	Intensity float32
}

type ParticleCloudDef struct {
	Count  int
	Spread [2]float32
}

// SceneState is what the scene spawned, for the systems that drive it.
type SceneState struct {
	Sections   []EntityId
	Particles  EntityId
	ClearColor [4]float64
}

// DefaultSceneDef lays out a torus, a cone and a torus knot one section apart,
// alternating between the left and right side of the view.
func DefaultSceneDef(cfg Config) SceneDef {
	s := cfg.Scene
	spacing := s.ObjectSpacing

	lr, lg, lb := mustColor(s.Light.Color).LinearRgb()
	mr, mg, mb := mustColor(s.Material.Color).LinearRgb()
	br, bg, bb := mustColor(s.Background).LinearRgb()

	return SceneDef{
		Meshes: []MeshDef{
			{Shape: ShapeTorus, Params: []float32{1, 0.5, 32, 32}, Position: mgl32.Vec3{-3, 0, 0}},
			{Shape: ShapeCone, Params: []float32{1, 2, 32, 32}, Position: mgl32.Vec3{3, -spacing, 0}},
			{Shape: ShapeTorusKnot, Params: []float32{1, 0.4, 32, 32, 2, 3}, Position: mgl32.Vec3{-3, -2 * spacing, 0}},
		},
		Light: LightDef{
			Position:  mgl32.Vec3(s.Light.Position),
			Color:     [3]float32{float32(lr), float32(lg), float32(lb)},
			Intensity: s.Light.Intensity,
		},
		Particles:       ParticleCloudDef{Count: s.Particles.Count, Spread: s.Particles.Spread},
		Spacing:         spacing,
		Spin:            SpinComponent{X: cfg.Animation.Spin.X, Y: cfg.Animation.Spin.Y},
		MaterialColor:   [4]float32{float32(mr), float32(mg), float32(mb), 1},
		GradientTexture: s.Material.GradientTexture,
		ClearColor:      [4]float64{br, bg, bb, 1},
		Seed:            s.Seed,
	}
}

// LoadScene spawns the meshes, the light and the particle cloud.
func LoadScene(cmd *Commands, assets *AssetServer, def SceneDef) (*SceneState, error) {
	if len(def.Meshes) == 0 {
		return nil, ErrNoSections
	}

	logger := cmd.Logger()
	gradient := assets.GradientOrBuiltin(def.GradientTexture, logger)
	state := &SceneState{ClearColor: def.ClearColor}

	for i, m := range def.Meshes {
		mesh, err := assets.CreateShapeMesh(m.Shape, m.Params)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		eid := cmd.AddEntity(
			&TransformComponent{Position: m.Position, Scale: mgl32.Vec3{1, 1, 1}},
			&MeshComponent{Mesh: mesh},
			&MaterialComponent{Color: def.MaterialColor, Gradient: gradient},
			&SectionComponent{Index: i},
		)
		if def.Spin != (SpinComponent{}) {
			cmd.AddComponents(eid, &SpinComponent{X: def.Spin.X, Y: def.Spin.Y})
		}
		state.Sections = append(state.Sections, eid)
	}

	cmd.AddEntity(
		&TransformComponent{Position: def.Light.Position, Scale: mgl32.Vec3{1, 1, 1}},
		&DirectionalLightComponent{Color: def.Light.Color, Intensity: def.Light.Intensity},
	)

	seed := def.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cloud := NewParticleCloud(def.Particles.Count, def.Particles.Spread, def.Spacing, len(def.Meshes), rand.New(rand.NewSource(seed)))
	state.Particles = cmd.AddEntity(&TransformComponent{Scale: mgl32.Vec3{1, 1, 1}}, &cloud)

	logger.Infof("scene: %d sections, %d particles (seed %d)", len(state.Sections), def.Particles.Count, seed)
	return state, nil
}

type SceneModule struct {
	Config Config
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	assets := Resource[AssetServer](app)
	if assets == nil {
		panic("SceneModule requires the AssetServerModule")
	}

	camera := NewCameraRig(m.Config.Scene.Camera)
	if m.Config.Animation.Parallax.Mode == ParallaxModeSpring {
		camera.UseSpring(m.Config.Animation.Parallax.SpringFrequency, m.Config.Animation.Parallax.SpringDamping)
	}

	state, err := LoadScene(cmd, assets, DefaultSceneDef(m.Config))
	if err != nil {
		panic(fmt.Sprintf("failed to load scene: %v", err))
	}
	cmd.AddResources(camera, state)
}
