package stream

import (
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/camkit/go-camstream/pkg/camera"
)

// roster simulates a set of pluggable capture devices. Marking a
// device unavailable makes open fail and live handles error on read,
// like a yanked USB camera.
type roster struct {
	mu        sync.Mutex
	available map[int]bool
	frames    map[int]*camera.Frame
	opens     int
}

func newRoster() *roster {
	return &roster{
		available: make(map[int]bool),
		frames:    make(map[int]*camera.Frame),
	}
}

func (r *roster) addDevice(id int, frame *camera.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available[id] = true
	r.frames[id] = frame
}

func (r *roster) setAvailable(id int, v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available[id] = v
}

func (r *roster) openCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opens
}

func (r *roster) open(id int) (camera.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.available[id] {
		return nil, &camera.OpenError{Device: id, Err: errors.New("unplugged")}
	}
	r.opens++
	return &rosterDevice{roster: r, id: id}, nil
}

type rosterDevice struct {
	roster *roster
	id     int
	closed bool
}

func (d *rosterDevice) IsOpened() bool {
	if d.closed {
		return false
	}
	d.roster.mu.Lock()
	defer d.roster.mu.Unlock()
	return d.roster.available[d.id]
}

func (d *rosterDevice) Read() (*camera.Frame, error) {
	d.roster.mu.Lock()
	defer d.roster.mu.Unlock()
	if d.closed || !d.roster.available[d.id] {
		return nil, &camera.ReadError{Device: d.id, Err: errors.New("device gone")}
	}
	return d.roster.frames[d.id].Clone(), nil
}

func (d *rosterDevice) SetBufferSize(int) {}

func (d *rosterDevice) Close() error {
	d.closed = true
	return nil
}

// solidFrame builds a frame filled with one color.
func solidFrame(w, h int, c color.RGBA) *camera.Frame {
	f := camera.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

// testConfig returns a Config tuned for fast tests.
func testConfig(open camera.OpenFunc) Config {
	return Config{
		FPS:          500,
		ReadCooldown: 5 * time.Millisecond,
		StopTimeout:  time.Second,
		Open:         open,
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}
