package background

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

	"github.com/nvr-ai/go-vbg/catalog"
)

func pngBytes(t *testing.T, w, h int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolveNone(t *testing.T) {
	res, err := Resolve(Config{Kind: catalog.KindNone}, nil)
	require.NoError(t, err)
	assert.Equal(t, catalog.KindNone, res.Descriptor.Kind)
	assert.Nil(t, res.Still)
}

func TestResolveBlur(t *testing.T) {
	res, err := Resolve(Config{Kind: catalog.KindBlur, BlurStrength: 14}, nil)
	require.NoError(t, err)
	assert.Equal(t, catalog.KindBlur, res.Descriptor.Kind)
	assert.Equal(t, 14, res.BlurRadius)
	assert.Equal(t, "14", res.Descriptor.Value)
}

func TestResolveBlurDefaultStrength(t *testing.T) {
	for _, strength := range []int{0, -3} {
		res, err := Resolve(Config{Kind: catalog.KindBlur, BlurStrength: strength}, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultBlurStrength, res.BlurRadius)
	}
}

func TestResolveColor(t *testing.T) {
	res, err := Resolve(Config{Kind: catalog.KindColor, Color: "#1e3a8a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 255}, res.Fill)
	assert.Equal(t, "#1e3a8a", res.Descriptor.Value)
}

func TestResolveColorRejectsInvalidHex(t *testing.T) {
	// Bad colors must fail at configuration time, never during a tick.
	for _, bad := range []string{"", "red", "#12345", "#gggggg"} {
		_, err := Resolve(Config{Kind: catalog.KindColor, Color: bad}, nil)
		assert.Error(t, err, "color %q must be rejected", bad)
	}
}

func TestResolveImageFromCatalog(t *testing.T) {
	cat := catalog.New()
	desc, err := cat.AddImage("mural", pngBytes(t, 20, 10, color.RGBA{R: 90, G: 40, B: 200, A: 255}))
	require.NoError(t, err)

	res, err := Resolve(Config{Kind: catalog.KindImage, ImageRef: desc.ID}, cat)
	require.NoError(t, err)
	assert.Equal(t, desc.ID, res.Descriptor.ID)
	require.NotNil(t, res.Still)
	assert.Equal(t, 20, res.Still.Bounds().Dx())
}

func TestResolveImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 12, 9, color.RGBA{R: 30, G: 30, B: 30, A: 255}), 0o644))

	res, err := Resolve(Config{Kind: catalog.KindImage, ImageRef: path}, catalog.New())
	require.NoError(t, err)
	assert.Equal(t, catalog.KindImage, res.Descriptor.Kind)
	assert.Equal(t, path, res.Descriptor.Value)
	require.NotNil(t, res.Still)
	assert.Equal(t, 9, res.Still.Bounds().Dy())
}

func TestResolveImageMissingReference(t *testing.T) {
	_, err := Resolve(Config{Kind: catalog.KindImage}, catalog.New())
	assert.Error(t, err)

	_, err = Resolve(Config{Kind: catalog.KindImage, ImageRef: "/nonexistent/path.png"}, catalog.New())
	assert.Error(t, err)
}

func TestResolveVideoDeferred(t *testing.T) {
	_, err := Resolve(Config{Kind: catalog.KindVideo, VideoRef: "clip.mp4"}, nil)
	assert.ErrorIs(t, err, ErrVideoBackgroundsDeferred)
}

func TestResolveUnknownKind(t *testing.T) {
	_, err := Resolve(Config{Kind: catalog.Kind("hologram")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized kind")
}
