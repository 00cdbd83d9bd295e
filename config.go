package scrollscene

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoSections    = errors.New("no scroll sections")
)

// Config is the whole runtime configuration. Files only need to name the
// fields they change; everything else keeps the DefaultConfig value.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Scene     SceneConfig     `yaml:"scene"`
	Animation AnimationConfig `yaml:"animation"`
	Input     InputConfig     `yaml:"input"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type SceneConfig struct {
	// ObjectSpacing is the vertical world distance between two sections.
	ObjectSpacing float32         `yaml:"object_spacing"`
	Camera        CameraConfig    `yaml:"camera"`
	Background    string          `yaml:"background"`
	Light         LightConfig     `yaml:"light"`
	Material      MaterialConfig  `yaml:"material"`
	Particles     ParticlesConfig `yaml:"particles"`
	// Seed for the particle layout. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type CameraConfig struct {
	Fov      float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"`
}

type LightConfig struct {
	Color     string     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
}

type MaterialConfig struct {
	Color string `yaml:"color"`
	// GradientTexture is an image whose columns, dark to bright, are the toon bands.
	// Empty selects the built-in three band gradient.
	GradientTexture string `yaml:"gradient_texture"`
}

type ParticlesConfig struct {
	Count int `yaml:"count"`
	// Spread is the extent of the cloud along X and Z.
	Spread [2]float32 `yaml:"spread"`
}

type AnimationConfig struct {
	Parallax ParallaxConfig `yaml:"parallax"`
	Spin     SpinConfig     `yaml:"spin"`
	Shimmer  ShimmerConfig  `yaml:"shimmer"`
	Section  SectionConfig  `yaml:"section"`
}

type ParallaxConfig struct {
	Strength float32 `yaml:"strength"`
	Rate     float32 `yaml:"rate"`
	// Mode is "lag" for the first-order smoothing or "spring" for a damped spring.
	Mode            string  `yaml:"mode"`
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`
}

type SpinConfig struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

type ShimmerConfig struct {
	MinElapsed float64    `yaml:"min_elapsed"`
	Cap        float32    `yaml:"cap"`
	Offsets    [3]float64 `yaml:"offsets"`
}

type SectionConfig struct {
	Rotation        [3]float32      `yaml:"rotation"`
	DurationSeconds float64         `yaml:"duration_seconds"`
	Ease            string          `yaml:"ease"`
	Retrigger       RetriggerPolicy `yaml:"retrigger"`
}

type InputConfig struct {
	WheelStep     float64 `yaml:"wheel_step"`
	KeyStep       float64 `yaml:"key_step"`
	RestoreScroll bool    `yaml:"restore_scroll"`
}

type LogConfig struct {
	Debug  bool   `yaml:"debug"`
	Prefix string `yaml:"prefix"`
}

const (
	ParallaxModeLag    = "lag"
	ParallaxModeSpring = "spring"
)

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "scrollscene"},
		Scene: SceneConfig{
			ObjectSpacing: 10,
			Camera:        CameraConfig{Fov: 50, Near: 0.1, Far: 1000, Distance: 7},
			Background:    "#1e1a20",
			Light:         LightConfig{Color: "#ffffff", Intensity: 1, Position: [3]float32{1, 1, 0}},
			Material:      MaterialConfig{Color: "#ffeded"},
			Particles:     ParticlesConfig{Count: 20000, Spread: [2]float32{50, 30}},
		},
		Animation: AnimationConfig{
			Parallax: ParallaxConfig{
				Strength:        0.5,
				Rate:            5,
				Mode:            ParallaxModeLag,
				SpringFrequency: 6,
				SpringDamping:   1,
			},
			Spin: SpinConfig{X: 0.3, Y: 0.5},
			Shimmer: ShimmerConfig{
				MinElapsed: 0.3,
				Cap:        0.5,
				Offsets:    [3]float64{0.05, 0.07, 0.10},
			},
			Section: SectionConfig{
				Rotation:        [3]float32{3, 6, 0},
				DurationSeconds: 2,
				Ease:            EaseSmoothstep,
				Retrigger:       RetriggerStack,
			},
		},
		Input: InputConfig{WheelStep: 100, KeyStep: 40, RestoreScroll: true},
		Log:   LogConfig{Prefix: "scrollscene"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// YAML renders the configuration in the same format LoadConfig reads.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	s := c.Scene
	if s.ObjectSpacing <= 0 {
		return invalid("scene.object_spacing must be positive, got %v", s.ObjectSpacing)
	}
	if s.Camera.Fov <= 0 || s.Camera.Fov >= 180 {
		return invalid("scene.camera.fov must be in (0, 180), got %v", s.Camera.Fov)
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		return invalid("scene.camera needs 0 < near < far, got near=%v far=%v", s.Camera.Near, s.Camera.Far)
	}
	for _, field := range []struct{ name, hex string }{
		{"scene.background", s.Background},
		{"scene.light.color", s.Light.Color},
		{"scene.material.color", s.Material.Color},
	} {
		if _, err := colorful.Hex(field.hex); err != nil {
			return invalid("%s: %v", field.name, err)
		}
	}
	if s.Light.Intensity < 0 {
		return invalid("scene.light.intensity must not be negative, got %v", s.Light.Intensity)
	}
	if s.Particles.Count < 0 {
		return invalid("scene.particles.count must not be negative, got %d", s.Particles.Count)
	}

	a := c.Animation
	if a.Parallax.Rate < 0 {
		return invalid("animation.parallax.rate must not be negative, got %v", a.Parallax.Rate)
	}
	switch a.Parallax.Mode {
	case ParallaxModeLag:
	case ParallaxModeSpring:
		if a.Parallax.SpringFrequency <= 0 || a.Parallax.SpringDamping < 0 {
			return invalid("animation.parallax spring needs frequency > 0 and damping >= 0")
		}
	default:
		return invalid("animation.parallax.mode %q is not one of lag, spring", a.Parallax.Mode)
	}
	if a.Shimmer.MinElapsed < 0 {
		return invalid("animation.shimmer.min_elapsed must not be negative, got %v", a.Shimmer.MinElapsed)
	}
	if a.Shimmer.Cap < 0 || a.Shimmer.Cap > 1 {
		return invalid("animation.shimmer.cap must be in [0, 1], got %v", a.Shimmer.Cap)
	}
	if a.Section.DurationSeconds <= 0 {
		return invalid("animation.section.duration_seconds must be positive, got %v", a.Section.DurationSeconds)
	}
	if _, ok := eases[a.Section.Ease]; !ok {
		return invalid("animation.section.ease %q is unknown", a.Section.Ease)
	}
	if _, err := ParseRetriggerPolicy(string(a.Section.Retrigger)); err != nil {
		return invalid("animation.section.retrigger: %v", err)
	}

	if c.Input.WheelStep <= 0 || c.Input.KeyStep <= 0 {
		return invalid("input steps must be positive, got wheel=%v key=%v", c.Input.WheelStep, c.Input.KeyStep)
	}
	return nil
}

// mustColor parses a hex color that Validate already accepted. Unparseable
// input yields black.
func mustColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
