// Package images - Stateless pixel-level color-space conversions and
// heuristics used by the segmentation stage.
package images

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Skin-tone classification bounds in HSV space. Hue is in degrees [0, 360),
// saturation and value are byte-scaled [0, 255]. Tunable constants; the
// defaults approximate common webcam skin tones under indoor lighting.
const (
	SkinHueMax = 50.0
	SkinSatMin = 20
	SkinValMin = 70
)

// RGBToHSV converts an 8-bit RGB triple to HSV with hue in degrees [0, 360)
// and saturation/value byte-scaled to [0, 255]. Grayscale inputs (R=G=B)
// yield hue 0.
func RGBToHSV(r, g, b uint8) (h float32, s, v uint8) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}

	v = maxC
	delta := float32(maxC) - float32(minC)
	if maxC == 0 || delta == 0 {
		return 0, 0, v
	}
	s = uint8(delta / float32(maxC) * 255)

	switch maxC {
	case r:
		h = 60 * (float32(g) - float32(b)) / delta
	case g:
		h = 60 * (2 + (float32(b)-float32(r))/delta)
	default:
		h = 60 * (4 + (float32(r)-float32(g))/delta)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// IsSkinTone reports whether the RGB triple falls inside the HSV skin-tone
// band used by the heuristic segmenter.
func IsSkinTone(r, g, b uint8) bool {
	h, s, v := RGBToHSV(r, g, b)
	return h <= SkinHueMax && s >= SkinSatMin && v >= SkinValMin
}

// Luminance returns the ITU-R BT.601 luma of the RGB triple in [0, 255].
func Luminance(r, g, b uint8) float32 {
	return 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
}

// ParseHexColor parses a hex color string of the form "#rrggbb" into a fully
// opaque RGBA value. The error is descriptive so configuration failures can
// be surfaced to the caller verbatim.
func ParseHexColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid background color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
