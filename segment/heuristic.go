package segment

import (
	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-vbg/images"
)

// HeuristicConfig contains the tunable constants of the color/position
// heuristic. Skin-tone bounds live in the images package alongside the HSV
// conversion they parameterize.
type HeuristicConfig struct {
	// CenterFalloff scales how quickly confidence drops with distance from
	// frame center.
	CenterFalloff float32
	// CenterWeightMin is the weight below which a non-skin pixel is treated
	// as background outright.
	CenterWeightMin float32
	// CenterGain maps a passing center weight onto a mask value.
	CenterGain float32
	// LumaMin and LumaMax bound the luminance band accepted for non-skin
	// foreground; pixels outside are crushed blacks or blown highlights.
	LumaMin float32
	LumaMax float32
}

// DefaultHeuristicConfig returns the constants tuned for webcam framing.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		CenterFalloff:   0.7,
		CenterWeightMin: 0.3,
		CenterGain:      180,
		LumaMin:         30,
		LumaMax:         230,
	}
}

// HeuristicEstimator classifies foreground without a trained model: a pixel
// is foreground if it looks like skin, or if it sits near the frame center
// with mid-range luminance. Skin tone plus center bias approximates "subject
// is a person roughly centered in frame", which is adequate for webcam
// framing. The documented algorithm is the contract; its accuracy under
// non-centered subjects or non-skin-dominant scenes is unverified.
type HeuristicEstimator struct {
	config HeuristicConfig
}

// NewHeuristicEstimator creates the heuristic estimator.
func NewHeuristicEstimator(config HeuristicConfig) *HeuristicEstimator {
	return &HeuristicEstimator{config: config}
}

// Name identifies the implementation for logging.
func (e *HeuristicEstimator) Name() string {
	return "heuristic"
}

// Estimate produces the foreground-confidence mask for one frame.
//
// Per pixel: skin-like (HSV band) scores 255; otherwise a center weight
// max(0, 1 - normalizedCenterDistance*falloff) is computed, and pixels with
// weight above the threshold and luminance inside the accepted band score
// floor(weight * gain); everything else scores 0.
func (e *HeuristicEstimator) Estimate(frame *images.Frame) (*images.Mask, error) {
	w := frame.Width
	h := frame.Height
	mask := images.NewMask(w, h)

	cx := float32(w) / 2
	cy := float32(h) / 2
	// Normalize center distance by the distance to the corner so it spans [0, 1].
	maxDist := math32.Sqrt(cx*cx + cy*cy)
	if maxDist == 0 {
		return mask, nil
	}

	cfg := e.config
	for y := 0; y < h; y++ {
		dy := float32(y) - cy
		rowOff := y * frame.Stride()
		maskOff := y * w
		for x := 0; x < w; x++ {
			off := rowOff + x*4
			r := frame.Pix[off]
			g := frame.Pix[off+1]
			b := frame.Pix[off+2]

			if images.IsSkinTone(r, g, b) {
				mask.Pix[maskOff+x] = 255
				continue
			}

			dx := float32(x) - cx
			dist := math32.Sqrt(dx*dx+dy*dy) / maxDist
			weight := 1 - dist*cfg.CenterFalloff
			if weight <= cfg.CenterWeightMin {
				continue
			}

			luma := images.Luminance(r, g, b)
			if luma > cfg.LumaMin && luma < cfg.LumaMax {
				mask.Pix[maskOff+x] = uint8(weight * cfg.CenterGain)
			}
		}
	}

	return mask, nil
}
