package camera

import (
	"image"
	"image/color"
	"image/draw"
)

// Frame is a single captured image: RGBA pixels, 4 bytes per pixel,
// row-major with no padding.
//
// Frames are immutable by contract. Code that receives a frame it does
// not own (work callbacks, the frame store) must not modify Pix; use
// Clone first. Every frame returned by a stream accessor is already an
// independent copy and may be mutated freely.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame allocates a zeroed frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// Empty reports whether the frame holds no pixel data.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Pix) == 0
}

// ToImage wraps the frame's pixels as an *image.RGBA.
// The returned image shares the frame's buffer; Clone first if the
// image will outlive the frame or be drawn over.
func (f *Frame) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// FromImage converts any image.Image into a Frame, copying the pixels.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Fast path: already RGBA with a tight stride.
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*4 && bounds.Min == image.Pt(0, 0) {
		f := &Frame{Width: w, Height: h, Pix: make([]byte, len(rgba.Pix))}
		copy(f.Pix, rgba.Pix)
		return f
	}

	f := NewFrame(w, h)
	draw.Draw(f.ToImage(), image.Rect(0, 0, w, h), img, bounds.Min, draw.Src)
	return f
}

// At returns the pixel at (x, y). Intended for tests and filters;
// per-pixel access is not the fast path.
func (f *Frame) At(x, y int) color.RGBA {
	i := (y*f.Width + x) * 4
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// Set writes the pixel at (x, y).
func (f *Frame) Set(x, y int, c color.RGBA) {
	i := (y*f.Width + x) * 4
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
	f.Pix[i+3] = c.A
}
