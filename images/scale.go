// Package images - Scaling helpers for background stills.
package images

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// AspectFill scales src so it exactly covers width x height, cropping
// whichever dimension overflows. The source aspect ratio is not preserved in
// the output; coverage of the full target is guaranteed, which is what the
// background renderer needs (no letterboxing behind the subject).
func AspectFill(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst
	}

	srcBounds := src.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return dst
	}

	// Scale by the larger ratio so the scaled image covers the target, then
	// center-crop the overflow by offsetting the source rectangle.
	scaleX := float64(width) / float64(srcW)
	scaleY := float64(height) / float64(srcH)
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	cropW := int(float64(width) / scale)
	cropH := int(float64(height) / scale)
	if cropW > srcW {
		cropW = srcW
	}
	if cropH > srcH {
		cropH = srcH
	}
	cropX := srcBounds.Min.X + (srcW-cropW)/2
	cropY := srcBounds.Min.Y + (srcH-cropH)/2
	cropRect := image.Rect(cropX, cropY, cropX+cropW, cropY+cropH)

	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, cropRect, xdraw.Src, nil)
	return dst
}

// ScaleFrame resizes a frame to the given dimensions with bilinear
// interpolation. Used to shrink live frames down to model input size.
func ScaleFrame(src *Frame, width, height int) *Frame {
	if src.Width == width && src.Height == height {
		return src.Clone()
	}
	img := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	copy(img.Pix, src.Pix)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	out := NewFrame(width, height)
	copy(out.Pix, dst.Pix)
	return out
}
