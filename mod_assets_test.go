package scrollscene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradient.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestAssetServer_MeshAndTexture(t *testing.T) {
	server := NewAssetServer()

	meshId := server.CreateMesh([]MeshVertex{{}, {}, {}}, []uint16{0, 1, 2})
	mesh, ok := server.Mesh(meshId)
	require.True(t, ok)
	assert.Len(t, mesh.Vertices, 3)

	texId := server.CreateTexture([]uint8{1, 2, 3, 4}, 1, 1)
	tex, ok := server.Texture(texId)
	require.True(t, ok)
	assert.Equal(t, uint32(1), tex.Width)

	assert.NotEqual(t, meshId, texId)
	_, ok = server.Mesh("missing")
	assert.False(t, ok)
}

func TestAssetServer_LoadGradientTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	bands := []uint8{0x20, 0x80, 0x80, 0xff}
	for x, v := range bands {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
		}
	}

	server := NewAssetServer()
	id, err := server.LoadGradientTexture(writePNG(t, img))
	require.NoError(t, err)

	tex, ok := server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	for x, v := range bands {
		assert.Equal(t, v, tex.Texels[x*4], "band %d", x)
	}
}

func TestAssetServer_LoadGradientTexture_DownsamplesWithHardEdges(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 512, 1))
	for x := 256; x < 512; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0xff})
	}

	server := NewAssetServer()
	id, err := server.LoadGradientTexture(writePNG(t, img))
	require.NoError(t, err)

	tex, _ := server.Texture(id)
	require.Equal(t, uint32(maxGradientWidth), tex.Width)
	for x := 0; x < maxGradientWidth; x++ {
		want := uint8(0)
		if x >= maxGradientWidth/2 {
			want = 0xff
		}
		require.Equal(t, want, tex.Texels[x*4], "texel %d", x)
	}
}

func TestAssetServer_GradientOrBuiltin(t *testing.T) {
	server := NewAssetServer()
	var out, errOut bytes.Buffer
	logger := newLoggerTo(&out, &errOut, "test", false)

	id := server.GradientOrBuiltin("", logger)
	tex, ok := server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(len(builtinGradient)), tex.Width)
	assert.Empty(t, errOut.String())

	id = server.GradientOrBuiltin(filepath.Join(t.TempDir(), "missing.png"), logger)
	tex, ok = server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(len(builtinGradient)), tex.Width)
	assert.Contains(t, errOut.String(), "[test] WARN: failed to open gradient texture")

	notAnImage := filepath.Join(t.TempDir(), "gradient.png")
	require.NoError(t, os.WriteFile(notAnImage, []byte("not an image"), 0o644))
	_, err := server.LoadGradientTexture(notAnImage)
	assert.ErrorContains(t, err, "failed to decode gradient texture")
}
