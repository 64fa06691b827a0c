package camera

import (
	"errors"

	"gocv.io/x/gocv"
)

// webcam adapts gocv.VideoCapture to the Device interface.
// A reusable Mat avoids reallocating native memory on every read.
type webcam struct {
	id     int
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

// OpenWebcam opens a local capture device through OpenCV.
// It is the default OpenFunc used by the stream.
func OpenWebcam(id int) (Device, error) {
	cap, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, &OpenError{Device: id, Err: err}
	}
	return &webcam{id: id, cap: cap, mat: gocv.NewMat()}, nil
}

func (w *webcam) IsOpened() bool {
	return !w.closed && w.cap.IsOpened()
}

func (w *webcam) Read() (*Frame, error) {
	if w.closed {
		return nil, &ReadError{Device: w.id, Err: errors.New("device closed")}
	}
	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return nil, &ReadError{Device: w.id, Err: errors.New("no frame returned")}
	}
	img, err := w.mat.ToImage()
	if err != nil {
		return nil, &ReadError{Device: w.id, Err: err}
	}
	return FromImage(img), nil
}

func (w *webcam) SetBufferSize(frames int) {
	if !w.closed {
		w.cap.Set(gocv.VideoCaptureBufferSize, float64(frames))
	}
}

func (w *webcam) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.cap.Close()
}
