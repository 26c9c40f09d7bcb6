package kernels

import (
	"image/color"
	"testing"

	"github.com/nvr-ai/go-vbg/images"
)

// Benchmarks cover the two per-tick kernels at VGA webcam size; both must
// fit comfortably inside a 33ms tick on commodity CPUs.

func benchFrame(w, h int) *images.Frame {
	f := images.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return f
}

func BenchmarkBoxBlurVGA(b *testing.B) {
	src := benchFrame(640, 480)
	dst := images.NewFrame(640, 480)
	var pool Pool

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BoxBlur(src, dst, Options{Radius: 10, Edge: EdgeClamp, Pool: &pool, Parallel: true})
	}
}

func BenchmarkBoxBlurVGASerial(b *testing.B) {
	src := benchFrame(640, 480)
	dst := images.NewFrame(640, 480)
	var pool Pool

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BoxBlur(src, dst, Options{Radius: 10, Edge: EdgeClamp, Pool: &pool})
	}
}

func BenchmarkRefineVGA(b *testing.B) {
	mask := images.NewMask(640, 480)
	for i := range mask.Pix {
		mask.Pix[i] = uint8(i % 256)
	}
	r := NewRefiner()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Refine(mask)
	}
}
