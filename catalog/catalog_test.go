package catalog

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodePNG produces raw PNG bytes for a small solid-color image.
func encodePNG(t *testing.T, w, h int, fill color.RGBA) []byte {
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

func TestNewSeedsBuiltins(t *testing.T) {
	c := New()
	entries := c.List()
	require.NotEmpty(t, entries)

	kinds := map[Kind]int{}
	for _, d := range entries {
		assert.True(t, d.IsBuiltin(), "seeded entry %s must be built-in", d.ID)
		kinds[d.Kind]++
	}
	assert.Equal(t, 1, kinds[KindNone])
	assert.Equal(t, 2, kinds[KindBlur])
	assert.Equal(t, 3, kinds[KindColor])

	none, err := c.Get("builtin-none")
	require.NoError(t, err)
	assert.Equal(t, KindNone, none.Kind)
	assert.Empty(t, none.Value)
}

func TestGetUnknownID(t *testing.T) {
	c := New()
	_, err := c.Get("no-such-entry")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddImage(t *testing.T) {
	c := New()
	before := len(c.List())

	desc, err := c.AddImage("beach", encodePNG(t, 32, 24, color.RGBA{R: 200, G: 180, B: 90, A: 255}))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(desc.ID, UserIDPrefix))
	assert.False(t, desc.IsBuiltin())
	assert.Equal(t, "beach", desc.Name)
	assert.Equal(t, KindImage, desc.Kind)
	assert.Equal(t, desc.ID, desc.Value)
	assert.True(t, strings.HasPrefix(desc.Thumbnail, "data:image/png;base64,"))
	assert.Len(t, c.List(), before+1)

	img, err := c.Image(desc.ID)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 32, bounds.Dx())
	assert.Equal(t, 24, bounds.Dy())
}

func TestAddImageRejectsGarbage(t *testing.T) {
	c := New()
	_, err := c.AddImage("broken", []byte("not an image"))
	require.Error(t, err)
	assert.Len(t, c.List(), len(builtins()))
}

func TestRemove(t *testing.T) {
	c := New()
	desc, err := c.AddImage("temp", encodePNG(t, 8, 8, color.RGBA{A: 255}))
	require.NoError(t, err)

	require.NoError(t, c.Remove(desc.ID))
	_, err = c.Get(desc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Image(desc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveBuiltinRejected(t *testing.T) {
	c := New()
	err := c.Remove("builtin-blur-light")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuiltinRemoval))

	// The entry must survive the rejected removal.
	_, err = c.Get("builtin-blur-light")
	assert.NoError(t, err)
}

func TestRemoveUnknownID(t *testing.T) {
	c := New()
	err := c.Remove("user-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsSnapshot(t *testing.T) {
	c := New()
	snapshot := c.List()
	snapshot[0].Name = "mutated"

	fresh := c.List()
	assert.NotEqual(t, "mutated", fresh[0].Name)
}

func TestLoadDirectoryImages(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sunset.png"),
		encodePNG(t, 16, 16, color.RGBA{R: 240, G: 120, B: 40, A: 255}), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "office.png"),
		encodePNG(t, 16, 16, color.RGBA{R: 60, G: 60, B: 70, A: 255}), 0o644))
	// Wrong extension and undecodable bytes must both be skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.png"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	c := New()
	added, err := c.LoadDirectoryImages(dir)
	require.NoError(t, err)
	require.Len(t, added, 2)

	names := []string{added[0].Name, added[1].Name}
	assert.ElementsMatch(t, []string{"sunset", "office"}, names)
	for _, d := range added {
		assert.Equal(t, KindImage, d.Kind)
		assert.True(t, strings.HasPrefix(d.ID, UserIDPrefix))
	}
}

func TestLoadDirectoryImagesMissingDir(t *testing.T) {
	c := New()
	_, err := c.LoadDirectoryImages(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
