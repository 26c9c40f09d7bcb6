package images

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRGBToHSVGrayscaleHueIsZero covers the conversion boundary case: for
// all grayscale triples (R=G=B) the derived hue must be 0.
func TestRGBToHSVGrayscaleHueIsZero(t *testing.T) {
	for v := 0; v <= 255; v += 5 {
		h, s, _ := RGBToHSV(uint8(v), uint8(v), uint8(v))
		assert.Equal(t, float32(0), h, "hue for gray %d", v)
		assert.Equal(t, uint8(0), s, "saturation for gray %d", v)
	}
}

func TestRGBToHSVPrimaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		hue     float32
		sat     uint8
		val     uint8
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 120, 255, 255},
		{"blue", 0, 0, 255, 240, 255, 255},
		{"yellow", 255, 255, 0, 60, 255, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.hue, h, 0.01)
			assert.Equal(t, tt.sat, s)
			assert.Equal(t, tt.val, v)
		})
	}
}

func TestIsSkinTone(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		skin    bool
	}{
		{"light skin", 220, 170, 140, true},
		{"medium skin", 200, 150, 120, true},
		{"pure red is inside the hue band", 255, 0, 0, true},
		{"gray has no saturation", 128, 128, 128, false},
		{"dark pixel below value floor", 40, 25, 20, false},
		{"green is outside the hue band", 0, 255, 0, false},
		{"blue is outside the hue band", 30, 60, 220, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.skin, IsSkinTone(tt.r, tt.g, tt.b))
		})
	}
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 255.0, Luminance(255, 255, 255), 0.01)
	assert.InDelta(t, 0.0, Luminance(0, 0, 0), 0.01)
	// BT.601 weights: green dominates.
	assert.InDelta(t, 0.587*255, Luminance(0, 255, 0), 0.01)
	assert.InDelta(t, 0.299*255, Luminance(255, 0, 0), 0.01)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, c)

	c, err = ParseHexColor("#00ff00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, c)

	_, err = ParseHexColor("not-a-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-color")

	_, err = ParseHexColor("")
	require.Error(t, err)
}
