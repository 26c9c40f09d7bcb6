// Package pipeline - Owns the continuous capture→segment→refine→render→
// composite loop, canvas sizing, and the start/stop lifecycle, and exposes
// the result as an output stream with the original audio re-attached.
package pipeline

import "github.com/nvr-ai/go-vbg/images"

// FrameSource is a live video frame source (a decoded camera feed). The
// pipeline pulls exactly one frame per tick; Dimensions reflects the
// source's current size and may change mid-session.
type FrameSource interface {
	// Read captures the next frame. The returned frame is owned by the
	// pipeline for the duration of one pass.
	Read() (*images.Frame, error)
	// Dimensions returns the source's current width and height in pixels.
	Dimensions() (width, height int)
}

// AudioTrack is an opaque handle to an input audio track. This subsystem
// never reads or processes audio; tracks are copied across to the output
// stream unchanged.
type AudioTrack interface {
	ID() string
}

// InputStream bundles a live frame source with its native audio tracks.
type InputStream struct {
	Video FrameSource
	Audio []AudioTrack
}

// OutputStream is the processed media stream: a real-time video frame
// channel produced by the pipeline plus the input's audio tracks, untouched.
type OutputStream struct {
	frames <-chan *images.Frame
	audio  []AudioTrack
}

// Frames returns the processed video frames. Frames are dropped, not
// queued, when the consumer falls behind a tick.
func (s *OutputStream) Frames() <-chan *images.Frame {
	return s.frames
}

// AudioTracks returns the audio tracks passed through from the input.
func (s *OutputStream) AudioTracks() []AudioTrack {
	out := make([]AudioTrack, len(s.audio))
	copy(out, s.audio)
	return out
}
