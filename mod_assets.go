package scrollscene

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type AssetId string

// MeshVertex is the GPU vertex layout of lit meshes.
type MeshVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

type MeshAsset struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// TextureAsset holds tightly packed RGBA8 texels.
type TextureAsset struct {
	Texels []uint8
	Width  uint32
	Height uint32
}

// maxGradientWidth bounds the toon lookup strip.
const maxGradientWidth = 256

// builtinGradient is the three band fallback used when no gradient image is
// configured or it fails to load.
var builtinGradient = []color.RGBA{
	{R: 0x50, G: 0x50, B: 0x50, A: 0xff},
	{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

type AssetServer struct {
	meshes   map[AssetId]MeshAsset
	textures map[AssetId]TextureAsset
}

type AssetServerModule struct{}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:   make(map[AssetId]MeshAsset),
		textures: make(map[AssetId]TextureAsset),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func (server AssetServer) CreateMesh(vertices []MeshVertex, indices []uint16) AssetId {
	id := makeAssetId()
	server.meshes[id] = MeshAsset{Vertices: vertices, Indices: indices}
	return id
}

func (server AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

func (server AssetServer) CreateTexture(texels []uint8, width, height uint32) AssetId {
	id := makeAssetId()
	server.textures[id] = TextureAsset{Texels: texels, Width: width, Height: height}
	return id
}

func (server AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	t, ok := server.textures[id]
	return t, ok
}

// LoadGradientTexture decodes an image (PNG, JPEG, GIF, BMP or WebP) and
// resamples it with nearest-neighbour filtering into a one texel high strip
// at most maxGradientWidth wide, so band edges stay hard.
func (server AssetServer) LoadGradientTexture(path string) (AssetId, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open gradient texture: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode gradient texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return "", fmt.Errorf("gradient texture %q is empty (%s)", path, format)
	}
	strip := gradientStrip(img)
	return server.CreateTexture(strip.Pix, uint32(strip.Bounds().Dx()), 1), nil
}

func gradientStrip(img image.Image) *image.RGBA {
	width := min(img.Bounds().Dx(), maxGradientWidth)
	strip := image.NewRGBA(image.Rect(0, 0, width, 1))
	draw.NearestNeighbor.Scale(strip, strip.Bounds(), img, img.Bounds(), draw.Src, nil)
	return strip
}

func (server AssetServer) CreateBuiltinGradient() AssetId {
	texels := make([]uint8, 0, len(builtinGradient)*4)
	for _, c := range builtinGradient {
		texels = append(texels, c.R, c.G, c.B, c.A)
	}
	return server.CreateTexture(texels, uint32(len(builtinGradient)), 1)
}

// GradientOrBuiltin loads path, falling back to the built-in gradient when
// path is empty or unusable.
func (server AssetServer) GradientOrBuiltin(path string, logger Logger) AssetId {
	if path == "" {
		return server.CreateBuiltinGradient()
	}
	id, err := server.LoadGradientTexture(path)
	if err != nil {
		logger.Warnf("%v; using the built-in gradient", err)
		return server.CreateBuiltinGradient()
	}
	logger.Debugf("loaded gradient texture %s", path)
	return id
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
