package scrollscene

import (
	"fmt"
)

// RendererTag names the renderer that owns the window surface. Only one
// renderer may present to a window.
type RendererTag struct {
	Name string
}

// claimRenderer records name as the App's renderer. It reports false when
// the same renderer was already installed and panics when another one was.
func claimRenderer(app *App, name string) bool {
	tag := Resource[RendererTag](app)
	if tag == nil {
		app.addResources(&RendererTag{Name: name})
		return true
	}
	if tag.Name != name {
		app.Logger().Errorf("multiple renderers installed: %s and %s", tag.Name, name)
		panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
	}
	return false
}
