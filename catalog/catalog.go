// Package catalog - Owns the list of selectable backgrounds (built-in
// presets plus user-added images) and their metadata.
package catalog

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// Kind identifies how a background descriptor is rendered.
type Kind string

const (
	// KindNone passes the raw frame through untouched.
	KindNone Kind = "none"
	// KindBlur blurs the live frame itself; Value is the radius in pixels.
	KindBlur Kind = "blur"
	// KindColor fills with a flat color; Value is a "#rrggbb" hex string.
	KindColor Kind = "color"
	// KindImage scales a decoded still to fill the frame; Value references it.
	KindImage Kind = "image"
	// KindVideo is accepted in the configuration surface but deferred.
	KindVideo Kind = "video"
)

// UserIDPrefix distinguishes removable user entries from built-ins.
const UserIDPrefix = "user-"

// thumbnailMaxDim bounds the longest side of generated thumbnails.
const thumbnailMaxDim = 96

// Descriptor identifies a selectable background and its rendering
// parameters. Immutable once created.
type Descriptor struct {
	// ID uniquely identifies the entry; user entries carry UserIDPrefix.
	ID string `json:"id"`
	// Name is the human-readable label shown in pickers.
	Name string `json:"name"`
	// Kind selects the rendering policy.
	Kind Kind `json:"kind"`
	// Value holds the kind-specific parameter: blur radius, hex color, or
	// image reference. Empty for KindNone.
	Value string `json:"value,omitempty"`
	// Thumbnail is an optional base64 PNG data URI for picker previews.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// IsBuiltin reports whether the descriptor is a seeded preset.
func (d Descriptor) IsBuiltin() bool {
	return !strings.HasPrefix(d.ID, UserIDPrefix)
}

// ErrBuiltinRemoval is returned when a caller tries to remove a seeded preset.
var ErrBuiltinRemoval = errors.New("catalog: built-in backgrounds cannot be removed")

// ErrNotFound is returned when a descriptor id is not in the catalog.
var ErrNotFound = errors.New("catalog: background not found")

// Catalog is an owned, explicitly-scoped collection of background
// descriptors. Entries are append/remove only; built-ins are seeded at
// construction and never removed.
type Catalog struct {
	mu      sync.RWMutex
	entries []Descriptor
	// decoded keeps the pre-decoded still for each user image entry so the
	// renderer never touches disk or decodes during a tick.
	decoded map[string]image.Image
}

// New returns a catalog seeded with the built-in presets.
func New() *Catalog {
	return &Catalog{
		entries: builtins(),
		decoded: make(map[string]image.Image),
	}
}

// builtins returns the seeded presets. IDs are stable across restarts so
// external selection persistence can reference them.
func builtins() []Descriptor {
	return []Descriptor{
		{ID: "builtin-none", Name: "None", Kind: KindNone},
		{ID: "builtin-blur-light", Name: "Slight blur", Kind: KindBlur, Value: "8"},
		{ID: "builtin-blur-strong", Name: "Strong blur", Kind: KindBlur, Value: "16"},
		{ID: "builtin-color-slate", Name: "Slate", Kind: KindColor, Value: "#475569"},
		{ID: "builtin-color-forest", Name: "Forest", Kind: KindColor, Value: "#14532d"},
		{ID: "builtin-color-navy", Name: "Navy", Kind: KindColor, Value: "#1e3a8a"},
	}
}

// List returns a snapshot of all descriptors in insertion order.
func (c *Catalog) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the descriptor with the given id.
func (c *Catalog) Get(id string) (Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.entries {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, errors.Wrap(ErrNotFound, id)
}

// Image returns the pre-decoded still backing an image descriptor.
func (c *Catalog) Image(id string) (image.Image, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.decoded[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	return img, nil
}

// AddImage decodes raw image bytes, stores the decoded still, and appends a
// new user descriptor with a generated thumbnail.
//
// Arguments:
//   - name: Human-readable label for the entry.
//   - data: Raw encoded image bytes (PNG, JPEG, GIF, TIFF, BMP).
//
// Returns:
//   - Descriptor: The new entry, with a UserIDPrefix id.
//   - error: An error if the bytes cannot be decoded.
func (c *Catalog) AddImage(name string, data []byte) (Descriptor, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Descriptor{}, errors.Wrap(err, "catalog: decode image background")
	}

	id := UserIDPrefix + ksuid.New().String()
	desc := Descriptor{
		ID:        id,
		Name:      name,
		Kind:      KindImage,
		Value:     id,
		Thumbnail: thumbnailDataURI(img),
	}

	c.mu.Lock()
	c.entries = append(c.entries, desc)
	c.decoded[id] = img
	c.mu.Unlock()
	return desc, nil
}

// Remove deletes a user-added descriptor by id. Built-ins are rejected.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.entries {
		if d.ID != id {
			continue
		}
		if d.IsBuiltin() {
			return ErrBuiltinRemoval
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		delete(c.decoded, id)
		return nil
	}
	return errors.Wrap(ErrNotFound, id)
}

// thumbnailDataURI shrinks the image to picker size and encodes it as a
// base64 PNG data URI. Thumbnail failures are non-fatal; an empty string
// simply means no preview.
func thumbnailDataURI(img image.Image) string {
	thumb := resize.Thumbnail(thumbnailMaxDim, thumbnailMaxDim, img, resize.Bilinear)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
