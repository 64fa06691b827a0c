package camera

import (
	"image"
	"image/color"
	"testing"
)

func TestFrame_CloneIsIndependent(t *testing.T) {
	orig := testFrame(4, 4, 42)
	clone := orig.Clone()

	clone.Set(0, 0, color.RGBA{R: 99, A: 255})

	if orig.At(0, 0).R != 42 {
		t.Errorf("Mutating clone changed original: got %d", orig.At(0, 0).R)
	}
}

func TestFrame_CloneNil(t *testing.T) {
	var f *Frame
	if f.Clone() != nil {
		t.Error("Expected nil clone of nil frame")
	}
	if !f.Empty() {
		t.Error("Expected nil frame to be empty")
	}
}

func TestFromImage_RGBAFastPathCopies(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 7, G: 8, B: 9, A: 255})

	f := FromImage(src)
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", f.Width, f.Height)
	}
	if got := f.At(1, 1); got.R != 7 || got.G != 8 || got.B != 9 {
		t.Errorf("Pixel mismatch: %+v", got)
	}

	// The frame must not alias the source image.
	src.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	if f.At(1, 1).R != 7 {
		t.Error("Frame aliases source image pixels")
	}
}

func TestFromImage_NonRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(0, 1, color.Gray{Y: 128})

	f := FromImage(src)
	if got := f.At(0, 1); got.R != 128 || got.G != 128 || got.B != 128 {
		t.Errorf("Expected gray 128 expanded to RGB, got %+v", got)
	}
}
