// Package camera provides capture device access for go-camstream:
// the Frame type, a Device abstraction over capture drivers, the
// gocv-backed webcam implementation, a single-device lifecycle
// manager, and a device probe.
package camera

import "fmt"

// Device is a capture handle as exposed by the underlying driver.
// Implementations are not required to be safe for concurrent use;
// the stream's acquisition loop is the only caller during capture.
type Device interface {
	// IsOpened reports whether the device handle is usable.
	IsOpened() bool

	// Read captures the next frame. It returns a ReadError when the
	// device yields no frame (transient or permanent device loss).
	Read() (*Frame, error)

	// SetBufferSize hints the driver's internal frame queue length,
	// bounding memory and capture latency.
	SetBufferSize(frames int)

	// Close releases the device. Safe to call more than once.
	Close() error
}

// OpenFunc opens the capture device with the given id.
type OpenFunc func(id int) (Device, error)

// Dimensions is the frame size reported by an open device.
type Dimensions struct {
	Width  int
	Height int
}

// OpenError reports a device that is absent or failed to open.
type OpenError struct {
	Device int
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("camera: open device %d: %v", e.Device, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError reports an open device that yielded no frame.
type ReadError struct {
	Device int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("camera: read device %d: %v", e.Device, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
