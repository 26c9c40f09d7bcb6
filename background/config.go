// Package background - Per-kind background rendering for the compositing
// pipeline, plus the configuration surface that selects a background.
package background

import (
	"image"
	"image/color"
	"strconv"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-vbg/catalog"
	"github.com/nvr-ai/go-vbg/images"
)

// DefaultBlurStrength is the pixel radius used when a blur config omits one.
const DefaultBlurStrength = 10

// ErrVideoBackgroundsDeferred is returned for the accepted-but-unimplemented
// video kind.
var ErrVideoBackgroundsDeferred = errors.New("background: video backgrounds are not implemented")

// Config is the transient request object used to derive a background for a
// session. It is validated and resolved before it ever reaches the renderer;
// nothing here is persisted.
type Config struct {
	// Kind selects the rendering policy.
	Kind catalog.Kind `json:"kind"`
	// BlurStrength is the blur radius in pixels (KindBlur only).
	BlurStrength int `json:"blurStrength,omitempty"`
	// Color is a "#rrggbb" hex string (KindColor only).
	Color string `json:"color,omitempty"`
	// ImageRef references a decoded still: a catalog entry id or a file path
	// (KindImage only).
	ImageRef string `json:"imageReference,omitempty"`
	// VideoRef is accepted but deferred (KindVideo only).
	VideoRef string `json:"videoReference,omitempty"`
}

// Resolved is a fully validated background: the session descriptor plus the
// parsed parameters the renderer consumes. All parsing and decoding happens
// at configuration time so render ticks can never fail on bad input.
type Resolved struct {
	Descriptor catalog.Descriptor
	// BlurRadius is the pixel radius for KindBlur.
	BlurRadius int
	// Fill is the parsed flat color for KindColor.
	Fill color.RGBA
	// Still is the pre-decoded image for KindImage.
	Still image.Image
}

// Resolve validates the config and produces the renderer inputs. Image
// references are resolved against the catalog first and fall back to the
// filesystem; the decode completes (or fails) here, before the background
// can become current.
func Resolve(cfg Config, cat *catalog.Catalog) (Resolved, error) {
	switch cfg.Kind {
	case catalog.KindNone:
		return Resolved{
			Descriptor: catalog.Descriptor{ID: "session-none", Name: "None", Kind: catalog.KindNone},
		}, nil

	case catalog.KindBlur:
		radius := cfg.BlurStrength
		if radius <= 0 {
			radius = DefaultBlurStrength
		}
		return Resolved{
			Descriptor: catalog.Descriptor{
				ID:    "session-blur",
				Name:  "Blur",
				Kind:  catalog.KindBlur,
				Value: strconv.Itoa(radius),
			},
			BlurRadius: radius,
		}, nil

	case catalog.KindColor:
		fill, err := images.ParseHexColor(cfg.Color)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{
			Descriptor: catalog.Descriptor{
				ID:    "session-color",
				Name:  "Color",
				Kind:  catalog.KindColor,
				Value: cfg.Color,
			},
			Fill: fill,
		}, nil

	case catalog.KindImage:
		if cfg.ImageRef == "" {
			return Resolved{}, errors.New("background: image config requires an image reference")
		}
		still, desc, err := resolveStill(cfg.ImageRef, cat)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Descriptor: desc, Still: still}, nil

	case catalog.KindVideo:
		return Resolved{}, ErrVideoBackgroundsDeferred

	default:
		return Resolved{}, errors.Errorf("background: unrecognized kind %q", cfg.Kind)
	}
}

// resolveStill looks the reference up in the catalog, then tries it as a
// file path.
func resolveStill(ref string, cat *catalog.Catalog) (image.Image, catalog.Descriptor, error) {
	if cat != nil {
		if desc, err := cat.Get(ref); err == nil {
			img, imgErr := cat.Image(ref)
			if imgErr != nil {
				return nil, catalog.Descriptor{}, imgErr
			}
			return img, desc, nil
		}
	}

	img, err := LoadImageFile(ref)
	if err != nil {
		return nil, catalog.Descriptor{}, err
	}
	desc := catalog.Descriptor{
		ID:    "session-image",
		Name:  "Image",
		Kind:  catalog.KindImage,
		Value: ref,
	}
	return img, desc, nil
}
