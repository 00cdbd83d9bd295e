package scrollscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ViewportSource reports the size of the visible page. ViewportSize is in
// the units pointer and scroll events use; FramebufferSize in surface pixels.
type ViewportSource interface {
	ViewportSize() (width, height int)
	FramebufferSize() (width, height int)
}

// Surface is the render target that follows the viewport size.
type Surface interface {
	SetSize(width, height int)
}

type Viewport struct {
	Width  float64
	Height float64
}

// Tracker holds the input state of the page: pointer, scroll offset and the
// active section. Its handlers only write state; the animator reads it once
// per frame.
type Tracker struct {
	// Pointer is the cursor position relative to the viewport center, each
	// component in [-0.5, 0.5].
	Pointer mgl32.Vec2
	// ScrollY is the page offset from the top in window pixels.
	ScrollY       float64
	ActiveSection int
	Viewport      Viewport

	sections []EntityId
	camera   *CameraRig
	clock    *Clock
	tweens   *TweenSet
	source   ViewportSource
	surface  Surface
	surfaceW int
	surfaceH int
	logger   Logger
}

func NewTracker(sections []EntityId, camera *CameraRig, clock *Clock, tweens *TweenSet, logger Logger) *Tracker {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Tracker{
		sections: sections,
		camera:   camera,
		clock:    clock,
		tweens:   tweens,
		logger:   logger,
	}
}

// Attach binds the tracker to a viewport source and an optional surface and
// applies the current size.
func (t *Tracker) Attach(source ViewportSource, surface Surface) {
	t.source = source
	t.surface = surface
	t.OnResize()
}

func (t *Tracker) Sections() []EntityId {
	return t.sections
}

// SectionIndex is round(offset / height), rounding halves away from zero.
func SectionIndex(offset, height float64) int {
	if height <= 0 {
		return 0
	}
	return int(math.Round(offset / height))
}

// OnResize reads the viewport size, updates the camera aspect ratio and
// resizes the surface. A zero sized (minimized) viewport is ignored.
func (t *Tracker) OnResize() {
	if t.source == nil {
		return
	}

	w, h := t.source.ViewportSize()
	if w <= 0 || h <= 0 {
		return
	}
	t.Viewport = Viewport{Width: float64(w), Height: float64(h)}
	if t.camera != nil {
		t.camera.Aspect = float32(w) / float32(h)
	}

	fw, fh := t.source.FramebufferSize()
	if t.surface == nil || fw <= 0 || fh <= 0 {
		return
	}
	if fw == t.surfaceW && fh == t.surfaceH {
		return
	}
	t.surfaceW, t.surfaceH = fw, fh
	t.surface.SetSize(fw, fh)
	t.logger.Debugf("viewport %dx%d, surface %dx%d", w, h, fw, fh)
}

// OnScroll stores the offset and, when the section under it changed, starts
// the section tween on that section's mesh. The section is clamped to the
// existing meshes.
func (t *Tracker) OnScroll(newOffset float64) {
	t.ScrollY = newOffset

	section := SectionIndex(newOffset, t.Viewport.Height)
	if section == t.ActiveSection {
		return
	}
	if n := len(t.sections); section < 0 || section >= n {
		clamped := max(0, min(section, n-1))
		t.logger.Debugf("section %d out of range, clamped to %d", section, clamped)
		section = clamped
		if section == t.ActiveSection {
			return
		}
	}

	t.ActiveSection = section
	if len(t.sections) == 0 || t.tweens == nil {
		return
	}

	var now float64
	if t.clock != nil {
		now = t.clock.Elapsed
	}
	if t.tweens.Trigger(t.sections[section], now) {
		t.logger.Debugf("section %d active, tween started", section)
	} else {
		t.logger.Debugf("section %d active, tween already running", section)
	}
}

// OnPointerMove normalizes a cursor position into [-0.5, 0.5] on both axes.
func (t *Tracker) OnPointerMove(clientX, clientY, viewportWidth, viewportHeight float64) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return
	}
	t.Pointer = mgl32.Vec2{
		float32(clientX/viewportWidth - 0.5),
		float32(clientY/viewportHeight - 0.5),
	}
}

// MaxScroll is the offset at which the last section is centered: one viewport
// of page per section.
func (t *Tracker) MaxScroll() float64 {
	if len(t.sections) == 0 {
		return 0
	}
	return float64(len(t.sections)-1) * t.Viewport.Height
}

// ScrollTo scrolls to offset, clamped to the page.
func (t *Tracker) ScrollTo(offset float64) {
	t.OnScroll(math.Max(0, math.Min(offset, t.MaxScroll())))
}

func (t *Tracker) ScrollBy(delta float64) {
	t.ScrollTo(t.ScrollY + delta)
}

// TrackerModule installs the Tracker and the TweenSet it feeds. It needs the
// scene, camera and clock; a window and a surface are picked up when present.
type TrackerModule struct {
	Config Config
}

func (m TrackerModule) Install(app *App, cmd *Commands) {
	scene := Resource[SceneState](app)
	camera := Resource[CameraRig](app)
	clock := Resource[Clock](app)
	if scene == nil || camera == nil || clock == nil {
		panic("TrackerModule requires the TimeModule and the SceneModule")
	}

	tweens := NewTweenSet(m.Config.Animation.Section)
	tracker := NewTracker(scene.Sections, camera, clock, tweens, app.Logger())

	w, h := m.Config.Window.Width, m.Config.Window.Height
	tracker.Viewport = Viewport{Width: float64(w), Height: float64(h)}
	camera.Aspect = float32(w) / float32(h)

	var source ViewportSource
	if ws := Resource[WindowState](app); ws != nil {
		source = ws
	}
	surface, _ := findResource[Surface](app)
	tracker.Attach(source, surface)

	cmd.AddResources(tweens, tracker)
}
