// Package kernels - Performance-critical spatial filters for the
// compositing pipeline: the background blur and the mask refiner.
package kernels

import (
	"sync"

	"github.com/nvr-ai/go-vbg/images"
)

// EdgeMode defines how sampling behaves outside the frame bounds.
// - Clamp: repeats edge pixels (fast, common, can darken edges slightly).
// - Mirror: reflects coordinates (better edge energy preservation).
// - Wrap: tiles the frame (for periodic patterns).
type EdgeMode int

const (
	EdgeClamp EdgeMode = iota
	EdgeMirror
	EdgeWrap
)

// Options configures the blur call. Keeping this extensible reduces churn later.
type Options struct {
	Radius   int      // Blur radius (window size = 2*Radius + 1). Must be >= 0.
	Edge     EdgeMode // Edge sampling mode.
	Pool     *Pool    // Optional buffer pool for intermediate reuse.
	Parallel bool     // Enable row/column parallelism (good for 1080p+).
}

// Pool lets callers reuse large buffers to reduce GC pressure at 30-60 FPS
// video rates.
type Pool struct {
	frames sync.Pool // *images.Frame
}

// GetFrame returns a pooled frame of the requested dimensions, allocating a
// fresh one when the pool is empty or holds a mismatched size.
func (p *Pool) GetFrame(width, height int) *images.Frame {
	if p == nil {
		return images.NewFrame(width, height)
	}
	if v := p.frames.Get(); v != nil {
		f := v.(*images.Frame)
		if f.Width == width && f.Height == height {
			return f
		}
	}
	return images.NewFrame(width, height)
}

// PutFrame returns a frame to the pool. Contents are not cleared; the next
// writer fully overwrites.
func (p *Pool) PutFrame(f *images.Frame) {
	if p == nil || f == nil {
		return
	}
	p.frames.Put(f)
}

// BoxBlur applies a fast, separable box blur to src and writes the result
// into dst. Both frames must share dimensions.
//
// The implementation is tuned for the per-tick budget of a live pipeline:
//   - Operates on raw RGBA bytes, no per-pixel interface calls.
//   - Uses a sliding window per row/column for O(1) updates per pixel, so a
//     pass is O(W*H) independent of the radius.
//   - Avoids float math in the hot loops.
//
// Quality is lower than Gaussian; the live background blur does not need
// Gaussian fidelity, and three chained box passes approximate it when it does.
func BoxBlur(src, dst *images.Frame, opt Options) {
	r := opt.Radius
	if r <= 0 {
		dst.CopyFrom(src)
		return
	}

	tmp := opt.Pool.GetFrame(src.Width, src.Height)
	boxBlurHoriz(src, tmp, r, opt.Edge, opt.Parallel)
	boxBlurVert(tmp, dst, r, opt.Edge, opt.Parallel)
	opt.Pool.PutFrame(tmp)
}

// boxBlurHoriz applies horizontal blur into dst using a sliding window.
// The window sum is initialized over [-r..+r] and then updated per step by
// subtracting the pixel leaving on the left and adding the one entering on
// the right, keeping cost constant per pixel.
func boxBlurHoriz(src, dst *images.Frame, r int, edge EdgeMode, parallel bool) {
	w := src.Width
	h := src.Height
	if w == 0 || h == 0 {
		return
	}

	window := uint32(2*r + 1)
	stride := src.Stride()
	rowTask := func(y int) {
		rowStart := y * stride

		load := func(x int) (r, g, b, a uint32) {
			off := rowStart + mapCoord(x, w, edge)*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dx := -r; dx <= r; dx++ {
			r8, g8, b8, a8 := load(dx)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for x := 0; x < w; x++ {
			off := rowStart + x*4
			dst.Pix[off+0] = uint8((sumR + window/2) / window)
			dst.Pix[off+1] = uint8((sumG + window/2) / window)
			dst.Pix[off+2] = uint8((sumB + window/2) / window)
			dst.Pix[off+3] = uint8((sumA + window/2) / window)

			lr, lg, lb, la := load(x - r)
			rr, rg, rb, ra := load(x + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	if !parallel || h < 4 {
		for y := 0; y < h; y++ {
			rowTask(y)
		}
		return
	}

	// Chunked rows: few goroutines, cache-friendly spans.
	chunk := chooseChunk(h)
	var wg sync.WaitGroup
	for start := 0; start < h; start += chunk {
		end := start + chunk
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for y := s; y < e; y++ {
				rowTask(y)
			}
		}(start, end)
	}
	wg.Wait()
}

// boxBlurVert mirrors the horizontal pass along columns, striding by the row
// width per window step.
func boxBlurVert(src, dst *images.Frame, r int, edge EdgeMode, parallel bool) {
	w := src.Width
	h := src.Height
	if w == 0 || h == 0 {
		return
	}

	window := uint32(2*r + 1)
	stride := src.Stride()
	colTask := func(x int) {
		load := func(y int) (r, g, b, a uint32) {
			off := mapCoord(y, h, edge)*stride + x*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dy := -r; dy <= r; dy++ {
			r8, g8, b8, a8 := load(dy)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for y := 0; y < h; y++ {
			off := y*stride + x*4
			dst.Pix[off+0] = uint8((sumR + window/2) / window)
			dst.Pix[off+1] = uint8((sumG + window/2) / window)
			dst.Pix[off+2] = uint8((sumB + window/2) / window)
			dst.Pix[off+3] = uint8((sumA + window/2) / window)

			lr, lg, lb, la := load(y - r)
			rr, rg, rb, ra := load(y + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	if !parallel || w < 4 {
		for x := 0; x < w; x++ {
			colTask(x)
		}
		return
	}
	chunk := chooseChunk(w)
	var wg sync.WaitGroup
	for start := 0; start < w; start += chunk {
		end := start + chunk
		if end > w {
			end = w
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for x := s; x < e; x++ {
				colTask(x)
			}
		}(start, end)
	}
	wg.Wait()
}

// mapCoord maps an index i to [0, n) according to edge mode.
// Designed to be inlineable and branch-light.
func mapCoord(i, n int, mode EdgeMode) int {
	switch mode {
	case EdgeMirror:
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	case EdgeWrap:
		if n == 0 {
			return 0
		}
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default: // EdgeClamp
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}

// chooseChunk picks a work chunk size that balances goroutine overhead and
// cache locality. Tunable per CPU; this heuristic works well for 480p-4K.
func chooseChunk(n int) int {
	switch {
	case n >= 2048:
		return 128
	case n >= 512:
		return 64
	default:
		return 32
	}
}
