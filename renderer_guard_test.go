package scrollscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimRenderer(t *testing.T) {
	app := newApp()

	assert.True(t, claimRenderer(app, "meshrt"))
	assert.False(t, claimRenderer(app, "meshrt"), "installing the same renderer twice is a no-op")
	assert.Equal(t, "meshrt", Resource[RendererTag](app).Name)

	assert.PanicsWithValue(t, "multiple renderers installed: meshrt and other", func() {
		claimRenderer(app, "other")
	})
}
