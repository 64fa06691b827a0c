package camera

import (
	"errors"
	"fmt"

	"github.com/camkit/go-camstream/internal/log"
)

// bufferSizeHint bounds the driver's internal frame queue so reads
// return recent frames instead of stale buffered ones.
const bufferSizeHint = 3

// Camera manages the lifecycle of a single capture device: open,
// validate, read, release. Open and read failures are reported to the
// caller and never fatal; the acquisition loop retries later.
//
// Camera is not internally synchronized. It is owned by the stream's
// acquisition loop, which guards cross-thread access with its own lock.
type Camera struct {
	open OpenFunc
	dev  Device
	id   int
	dims Dimensions
}

// New creates a Camera that opens devices with the given OpenFunc.
// A nil open falls back to OpenWebcam.
func New(open OpenFunc) *Camera {
	if open == nil {
		open = OpenWebcam
	}
	return &Camera{open: open, id: -1}
}

// Open switches to the given device. Any previously held device is
// released first. On success the probe frame's size is recorded as the
// camera dimensions and the capture buffer hint is applied. On any
// failure the device is released and all state cleared.
func (c *Camera) Open(id int) (Dimensions, error) {
	c.Release()

	dev, err := c.open(id)
	if err != nil {
		var oe *OpenError
		if !errors.As(err, &oe) {
			err = &OpenError{Device: id, Err: err}
		}
		return Dimensions{}, err
	}

	if !dev.IsOpened() {
		dev.Close()
		return Dimensions{}, &OpenError{Device: id, Err: errors.New("device reports not opened")}
	}

	// One probe read both validates the device and derives dimensions.
	probe, err := dev.Read()
	if err != nil {
		dev.Close()
		return Dimensions{}, &OpenError{Device: id, Err: fmt.Errorf("probe read: %w", err)}
	}

	dev.SetBufferSize(bufferSizeHint)

	c.dev = dev
	c.id = id
	c.dims = Dimensions{Width: probe.Width, Height: probe.Height}
	log.Info("camera opened", "device", id, "width", c.dims.Width, "height", c.dims.Height)
	return c.dims, nil
}

// Read captures the next frame from the open device.
func (c *Camera) Read() (*Frame, error) {
	if c.dev == nil {
		return nil, &ReadError{Device: c.id, Err: errors.New("no device open")}
	}
	return c.dev.Read()
}

// Release closes the held device, if any, and clears dimensions and
// the active id. Idempotent.
func (c *Camera) Release() {
	if c.dev != nil {
		c.dev.Close()
		c.dev = nil
		log.Debug("camera released", "device", c.id)
	}
	c.id = -1
	c.dims = Dimensions{}
}

// Connected reports whether a device is held and reports itself open.
func (c *Camera) Connected() bool {
	return c.dev != nil && c.dev.IsOpened()
}

// Dimensions returns the frame size derived at open time.
// ok is false when no device is open.
func (c *Camera) Dimensions() (dims Dimensions, ok bool) {
	if c.dev == nil {
		return Dimensions{}, false
	}
	return c.dims, true
}

// ActiveID returns the id of the open device.
// ok is false when no device is open.
func (c *Camera) ActiveID() (id int, ok bool) {
	if c.dev == nil {
		return 0, false
	}
	return c.id, true
}
