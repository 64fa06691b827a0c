package filters

import (
	"image/color"
	"testing"

	"github.com/camkit/go-camstream/pkg/camera"
)

func TestGrayscale(t *testing.T) {
	f := camera.NewFrame(2, 1)
	f.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	f.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	out := Grayscale(f)

	// Pure red maps to the BT.601 red weight.
	if c := out.At(0, 0); c.R != 76 || c.G != 76 || c.B != 76 {
		t.Errorf("Red pixel: expected gray 76, got %+v", c)
	}
	// White stays white.
	if c := out.At(1, 0); c.R != 255 {
		t.Errorf("White pixel: expected 255, got %+v", c)
	}
	if c := out.At(0, 0); c.A != 255 {
		t.Errorf("Alpha must be preserved, got %d", c.A)
	}
}

func TestInvert(t *testing.T) {
	f := camera.NewFrame(1, 1)
	f.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	out := Invert(f)

	if c := out.At(0, 0); c.R != 245 || c.G != 235 || c.B != 225 || c.A != 255 {
		t.Errorf("Expected inverted RGB with alpha untouched, got %+v", c)
	}
}

func TestInvert_RoundTrips(t *testing.T) {
	f := camera.NewFrame(1, 1)
	f.Set(0, 0, color.RGBA{R: 77, G: 88, B: 99, A: 255})

	out := Invert(Invert(f))
	if c := out.At(0, 0); c.R != 77 || c.G != 88 || c.B != 99 {
		t.Errorf("Double invert must be identity, got %+v", c)
	}
}
