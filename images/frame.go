// Package images - Pixel buffer definitions for the compositing pipeline.
package images

import (
	"image"
	"image/color"
	"image/draw"
)

// Frame is a fixed-size rectangular RGBA pixel buffer captured once per tick
// from the live source. 8 bits per channel, 4 channels per pixel. A Frame is
// read-only for the duration of one pipeline pass.
type Frame struct {
	// Pix holds the pixel data in R, G, B, A order, length Width*Height*4.
	Pix []uint8
	// Width is the frame width in pixels.
	Width int
	// Height is the frame height in pixels.
	Height int
}

// Mask is a single-channel buffer of per-pixel foreground confidence.
// Values range 0-255 where 255 means definitely foreground.
type Mask struct {
	// Pix holds the confidence values, length Width*Height.
	Pix []uint8
	// Width is the mask width in pixels.
	Width int
	// Height is the mask height in pixels.
	Height int
}

// NewFrame allocates a zeroed RGBA frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// NewMask allocates a zeroed mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// Stride returns the number of bytes per frame row.
func (f *Frame) Stride() int {
	return f.Width * 4
}

// Offset returns the Pix index of the pixel at (x, y).
func (f *Frame) Offset(x, y int) int {
	return (y*f.Width + x) * 4
}

// RGBAAt returns the color of the pixel at (x, y).
func (f *Frame) RGBAAt(x, y int) color.RGBA {
	i := f.Offset(x, y)
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// SetRGBA writes the color of the pixel at (x, y).
func (f *Frame) SetRGBA(x, y int, c color.RGBA) {
	i := f.Offset(x, y)
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
	f.Pix[i+3] = c.A
}

// Fill sets every pixel of the frame to the given color.
func (f *Frame) Fill(c color.RGBA) {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = c.R
		f.Pix[i+1] = c.G
		f.Pix[i+2] = c.B
		f.Pix[i+3] = c.A
	}
}

// CopyFrom copies the pixel data of src into f. Both frames must have the
// same dimensions.
func (f *Frame) CopyFrom(src *Frame) {
	copy(f.Pix, src.Pix)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Width, f.Height)
	copy(out.Pix, f.Pix)
	return out
}

// ToImage converts the frame into a standard library *image.RGBA sharing no
// memory with the frame.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)
	return img
}

// FrameFromImage converts any image.Image into a Frame. The fast path copies
// raw bytes from *image.RGBA with the canonical stride; everything else goes
// through the color model.
func FrameFromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := NewFrame(width, height)

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		copy(out.Pix, rgba.Pix)
		return out
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	copy(out.Pix, rgba.Pix)
	return out
}

// Offset returns the Pix index of the mask value at (x, y).
func (m *Mask) Offset(x, y int) int {
	return y*m.Width + x
}

// At returns the confidence value at (x, y).
func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Set writes the confidence value at (x, y).
func (m *Mask) Set(x, y int, v uint8) {
	m.Pix[y*m.Width+x] = v
}

// Fill sets every value of the mask to v.
func (m *Mask) Fill(v uint8) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}
