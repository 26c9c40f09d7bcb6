// Package composite - Alpha-blends the raw frame and the rendered background
// using the refined mask as a per-pixel alpha channel.
package composite

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-vbg/images"
)

// Composite blends frame over background through the mask and writes the
// result into out. The blend is a straight linear interpolation per channel,
//
//	out[c] = frame[c]*alpha + background[c]*(1-alpha), alpha = mask/255
//
// with no gamma correction — matching the precision of the heuristic mask.
// The output alpha channel is always fully opaque regardless of input. All
// three buffers must share dimensions; a mismatch is a caller bug surfaced
// as an error rather than a torn composite.
func Composite(frame, background *images.Frame, mask *images.Mask, out *images.Frame) error {
	if frame.Width != background.Width || frame.Height != background.Height ||
		frame.Width != mask.Width || frame.Height != mask.Height ||
		frame.Width != out.Width || frame.Height != out.Height {
		return errors.Errorf(
			"composite: dimension mismatch frame=%dx%d background=%dx%d mask=%dx%d out=%dx%d",
			frame.Width, frame.Height, background.Width, background.Height,
			mask.Width, mask.Height, out.Width, out.Height,
		)
	}

	fp := frame.Pix
	bp := background.Pix
	op := out.Pix
	for i, a := range mask.Pix {
		off := i * 4
		alpha := uint32(a)
		inv := 255 - alpha
		// +127 rounds the /255 so a fully-set mask reproduces the frame
		// byte-exact and a zero mask reproduces the background byte-exact.
		op[off+0] = uint8((uint32(fp[off+0])*alpha + uint32(bp[off+0])*inv + 127) / 255)
		op[off+1] = uint8((uint32(fp[off+1])*alpha + uint32(bp[off+1])*inv + 127) / 255)
		op[off+2] = uint8((uint32(fp[off+2])*alpha + uint32(bp[off+2])*inv + 127) / 255)
		op[off+3] = 255
	}
	return nil
}
