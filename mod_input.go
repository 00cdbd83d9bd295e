package scrollscene

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InputModule forwards GLFW window events to the Tracker: wheel and keyboard
// scroll the page, cursor moves update the pointer, resizes call OnResize.
// Closing the window or pressing Escape moves the App to StateExiting.
type InputModule struct {
	Config InputConfig
}

func (m InputModule) Install(app *App, cmd *Commands) {
	ws := Resource[WindowState](app)
	tracker := Resource[Tracker](app)
	if ws == nil || tracker == nil {
		panic("InputModule requires the PlatformWindowModule and the TrackerModule")
	}

	cfg := m.Config
	win := ws.Window()

	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		tracker.ScrollBy(-yoff * cfg.WheelStep)
	})
	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		width, height := w.GetSize()
		tracker.OnPointerMove(x, y, float64(width), float64(height))
	})
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		tracker.OnResize()
	})
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		tracker.OnResize()
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		if key == glfw.KeyEscape {
			ws.RequestClose()
			return
		}
		scrollForKey(key, mods, tracker, cfg)
	})

	app.UseSystem(
		System(pollEventsSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// scrollForKey applies browser-like keyboard scrolling and reports whether
// the key was handled.
func scrollForKey(key glfw.Key, mods glfw.ModifierKey, tracker *Tracker, cfg InputConfig) bool {
	page := tracker.Viewport.Height
	switch key {
	case glfw.KeyDown:
		tracker.ScrollBy(cfg.KeyStep)
	case glfw.KeyUp:
		tracker.ScrollBy(-cfg.KeyStep)
	case glfw.KeyPageDown:
		tracker.ScrollBy(page)
	case glfw.KeyPageUp:
		tracker.ScrollBy(-page)
	case glfw.KeySpace:
		if mods&glfw.ModShift != 0 {
			tracker.ScrollBy(-page)
		} else {
			tracker.ScrollBy(page)
		}
	case glfw.KeyHome:
		tracker.ScrollTo(0)
	case glfw.KeyEnd:
		tracker.ScrollTo(tracker.MaxScroll())
	default:
		return false
	}
	return true
}

func pollEventsSystem(cmd *Commands, ws *WindowState) {
	glfw.PollEvents()

	if ws.ShouldClose() && cmd.app.stateful && cmd.app.State() == StateRunning {
		cmd.ChangeState(StateExiting)
	}
}
