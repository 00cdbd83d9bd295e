package scrollscene

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window shared by the renderer and the input module.
type WindowState struct {
	windowGlfw *glfw.Window
	title      string
}

func createWindowState(width int, height int, title string) (*WindowState, error) {
	// GLFW calls must stay on the main thread.
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	return &WindowState{windowGlfw: win, title: title}, nil
}

// Window exposes the GLFW window to the renderer.
func (s *WindowState) Window() *glfw.Window {
	return s.windowGlfw
}

func (s *WindowState) ViewportSize() (int, int) {
	return s.windowGlfw.GetSize()
}

func (s *WindowState) FramebufferSize() (int, int) {
	return s.windowGlfw.GetFramebufferSize()
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

func (s *WindowState) RequestClose() {
	s.windowGlfw.SetShouldClose(true)
}

func (s *WindowState) release() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}

// PlatformWindowModule creates the WindowState resource. Install is a no-op
// when one already exists.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if Resource[WindowState](app) != nil {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		panic(err)
	}
	app.Logger().Infof("window %q created (%dx%d)", m.Title, m.Width, m.Height)
	cmd.AddResources(ws)

	if app.stateful {
		app.UseSystem(System(windowReleaseSystem).InStage(Finale).InState(OnExit(StateExiting)))
	}
}

func windowReleaseSystem(ws *WindowState) {
	ws.release()
}
