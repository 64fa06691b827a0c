// Package filters provides stock filter callbacks for a stream's
// filter chain. Each function satisfies stream.FilterFunc: it owns the
// frame it receives and may transform it in place.
package filters

import (
	"gocv.io/x/gocv"

	"github.com/camkit/go-camstream/pkg/camera"
)

// Grayscale converts the frame to luminance in place using the
// BT.601 weights.
func Grayscale(f *camera.Frame) *camera.Frame {
	for i := 0; i+3 < len(f.Pix); i += 4 {
		r, g, b := int(f.Pix[i]), int(f.Pix[i+1]), int(f.Pix[i+2])
		y := byte((299*r + 587*g + 114*b) / 1000)
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = y, y, y
	}
	return f
}

// Invert inverts the frame colors in place. Alpha is left alone.
func Invert(f *camera.Frame) *camera.Frame {
	for i := 0; i+3 < len(f.Pix); i += 4 {
		f.Pix[i] = 255 - f.Pix[i]
		f.Pix[i+1] = 255 - f.Pix[i+1]
		f.Pix[i+2] = 255 - f.Pix[i+2]
	}
	return f
}

// Edges runs Canny edge detection over the frame. On any conversion
// failure the input frame is returned unchanged.
func Edges(f *camera.Frame) *camera.Frame {
	src, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC4, f.Pix)
	if err != nil {
		return f
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	img, err := edges.ToImage()
	if err != nil {
		return f
	}
	return camera.FromImage(img)
}
