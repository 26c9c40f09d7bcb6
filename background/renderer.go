package background

import (
	"sync"

	"github.com/nvr-ai/go-vbg/catalog"
	"github.com/nvr-ai/go-vbg/images"
	"github.com/nvr-ai/go-vbg/images/kernels"
)

// Renderer draws the currently active background variant into a buffer sized
// to the frame. Only Set swaps the active background; Render is called once
// per tick from the pipeline goroutine.
type Renderer struct {
	mu      sync.RWMutex
	current Resolved

	// scaled caches the aspect-filled still at the current output size so
	// the per-tick image path is a memcpy, not a rescale.
	scaled *images.Frame

	pool kernels.Pool
}

// NewRenderer returns a renderer with the pass-through (none) background
// active.
func NewRenderer() *Renderer {
	return &Renderer{
		current: Resolved{
			Descriptor: catalog.Descriptor{ID: "session-none", Name: "None", Kind: catalog.KindNone},
		},
	}
}

// Set swaps the active background. The Resolved value is already validated
// and decoded, so the swap itself cannot fail and never disturbs a tick in
// flight.
func (r *Renderer) Set(res Resolved) {
	r.mu.Lock()
	r.current = res
	r.scaled = nil
	r.mu.Unlock()
}

// Current returns the active background descriptor.
func (r *Renderer) Current() catalog.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Descriptor
}

// Kind returns the active background kind.
func (r *Renderer) Kind() catalog.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Descriptor.Kind
}

// Render draws the active background into dst, sized to dst's dimensions.
//
// Policy per kind:
//   - None: no-op; the pipeline short-circuits to a raw frame copy upstream.
//   - Blur: box blur of the live frame itself at the configured radius.
//   - Color: flat fill with the pre-parsed RGB value.
//   - Image: aspect-fill scale of the pre-decoded still, cached per size.
func (r *Renderer) Render(frame, dst *images.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.current.Descriptor.Kind {
	case catalog.KindBlur:
		kernels.BoxBlur(frame, dst, kernels.Options{
			Radius:   r.current.BlurRadius,
			Edge:     kernels.EdgeClamp,
			Pool:     &r.pool,
			Parallel: true,
		})

	case catalog.KindColor:
		dst.Fill(r.current.Fill)

	case catalog.KindImage:
		if r.scaled == nil || r.scaled.Width != dst.Width || r.scaled.Height != dst.Height {
			r.scaled = images.FrameFromImage(images.AspectFill(r.current.Still, dst.Width, dst.Height))
		}
		dst.CopyFrom(r.scaled)

	default:
		// KindNone: nothing to draw.
	}
}
