package camera

import (
	"errors"
	"image/color"
)

// fakeDevice is an in-memory Device for tests.
type fakeDevice struct {
	id         int
	opened     bool
	readErr    error
	frame      *Frame
	bufferSize int
	closeCalls int
}

func (d *fakeDevice) IsOpened() bool { return d.opened }

func (d *fakeDevice) Read() (*Frame, error) {
	if d.readErr != nil {
		return nil, &ReadError{Device: d.id, Err: d.readErr}
	}
	return d.frame.Clone(), nil
}

func (d *fakeDevice) SetBufferSize(frames int) { d.bufferSize = frames }

func (d *fakeDevice) Close() error {
	d.opened = false
	d.closeCalls++
	return nil
}

// testFrame builds a small frame with a marker pixel at (0, 0).
func testFrame(w, h int, marker byte) *Frame {
	f := NewFrame(w, h)
	f.Set(0, 0, color.RGBA{R: marker, A: 255})
	return f
}

// fakeOpen returns an OpenFunc that opens the given ids.
// Devices for other ids fail with an OpenError.
func fakeOpen(devices map[int]*fakeDevice) OpenFunc {
	return func(id int) (Device, error) {
		dev, ok := devices[id]
		if !ok {
			return nil, &OpenError{Device: id, Err: errors.New("no such device")}
		}
		dev.opened = true
		return dev, nil
	}
}
