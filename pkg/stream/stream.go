// Package stream implements the threaded frame acquisition core of
// go-camstream: a single background goroutine pulls frames from a
// capture device at a capped rate, commits them to a shared frame
// store, and runs consumer-registered work and filter callbacks once
// per frame. Any number of other goroutines read the latest frames or
// poke small control fields; none of them ever block the loop on a
// per-frame basis.
package stream

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/camkit/go-camstream/internal/log"
	"github.com/camkit/go-camstream/pkg/camera"
)

var (
	// ErrRequestPending is returned by RequestCamera while an earlier
	// request has not yet been consumed by the acquisition loop.
	ErrRequestPending = errors.New("stream: camera request already pending")

	// ErrStopTimeout is returned by Stop when the acquisition loop does
	// not exit within Config.StopTimeout. The stop flag stays set, so
	// the loop will still exit (and release the device) on its own.
	ErrStopTimeout = errors.New("stream: acquisition loop did not stop in time")
)

// Config holds the tunable parameters of a Stream.
type Config struct {
	// FPS is the target capture rate. The loop admits at most one tick
	// per 1/FPS seconds; it never catches up on missed ticks.
	FPS int

	// ReadCooldown is how long the loop backs off after a failed frame
	// read before ticking again.
	ReadCooldown time.Duration

	// StopTimeout bounds how long Stop waits for the loop to exit.
	StopTimeout time.Duration

	// Open opens capture devices. Nil means camera.OpenWebcam.
	// Tests inject fakes here.
	Open camera.OpenFunc
}

// DefaultConfig returns the stock stream configuration.
func DefaultConfig() Config {
	return Config{
		FPS:          24,
		ReadCooldown: time.Second,
		StopTimeout:  2 * time.Second,
	}
}

// Stream is the public face of the acquisition core. All methods are
// safe for concurrent use. A Stream starts paused with no device; call
// RequestCamera to connect one and SetPaused(false) to begin capture.
type Stream struct {
	cfg Config

	fps     atomic.Int32
	paused  atomic.Bool
	running atomic.Bool

	// camMu guards cam against concurrent access: the loop goroutine is
	// the only writer (open/release), accessors take the read side.
	camMu sync.RWMutex
	cam   *camera.Camera

	// request is the single-slot camera switch mailbox. The controller
	// try-sends, the loop receives. A full slot rejects the send.
	request chan int

	store   *frameStore
	work    *workPipeline
	filters *filterPipeline

	// loopMu serializes Start/Stop; done is closed by the loop on exit.
	loopMu sync.Mutex
	done   chan struct{}
}

// New creates a Stream with the given configuration. Zero fields are
// filled from DefaultConfig.
func New(cfg Config) *Stream {
	def := DefaultConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.ReadCooldown <= 0 {
		cfg.ReadCooldown = def.ReadCooldown
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = def.StopTimeout
	}

	s := &Stream{
		cfg:     cfg,
		cam:     camera.New(cfg.Open),
		request: make(chan int, 1),
		store:   newFrameStore(),
		work:    &workPipeline{},
		filters: &filterPipeline{},
	}
	s.fps.Store(int32(cfg.FPS))
	s.paused.Store(true)
	return s
}

// Start spawns the acquisition loop. Starting a running stream is a
// logged no-op.
func (s *Stream) Start() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.loopActive() {
		log.Warn("stream already running, start ignored")
		return
	}
	s.running.Store(true)
	s.done = make(chan struct{})
	go s.loop(s.done)
	log.Info("acquisition loop starting", "fps", s.fps.Load())
}

// Stop signals the loop to exit and waits up to Config.StopTimeout for
// it to finish. The loop releases the device on its way out. Stopping
// a stopped stream is a logged no-op.
func (s *Stream) Stop() error {
	s.loopMu.Lock()
	if !s.loopActive() {
		s.loopMu.Unlock()
		log.Warn("stream not running, stop ignored")
		return nil
	}
	done := s.done
	s.running.Store(false)
	s.loopMu.Unlock()

	// Wake WaitForNewFrame callers so they can observe the stop.
	s.store.wake()

	select {
	case <-done:
		log.Info("acquisition loop stopped")
		return nil
	case <-time.After(s.cfg.StopTimeout):
		log.Error("acquisition loop did not exit in time", "timeout", s.cfg.StopTimeout)
		return ErrStopTimeout
	}
}

// loopActive reports whether a loop goroutine is live. Caller must
// hold loopMu.
func (s *Stream) loopActive() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Running reports whether the acquisition loop has been started and
// not yet told to stop.
func (s *Stream) Running() bool { return s.running.Load() }

// RequestCamera asks the loop to switch to the given device on its
// next tick. Connecting can take over a second, which is why it runs
// inside the loop rather than on the caller. While a request is
// pending, further requests are rejected with ErrRequestPending.
// The stream is started if it is not running.
func (s *Stream) RequestCamera(id int) error {
	select {
	case s.request <- id:
	default:
		log.Warn("camera request rejected, another is pending", "device", id)
		return ErrRequestPending
	}
	if !s.Running() {
		s.Start()
	}
	log.Info("camera switch requested", "device", id)
	return nil
}

// SetPaused pauses or resumes capture. Resuming starts the loop if it
// is not running. While paused the loop keeps ticking but skips
// capture, so camera requests are still consumed.
func (s *Stream) SetPaused(paused bool) {
	if !paused && !s.Running() {
		s.Start()
	}
	s.paused.Store(paused)
}

// Paused reports whether capture is paused.
func (s *Stream) Paused() bool { return s.paused.Load() }

// SetRate changes the target capture rate. It takes effect at the
// loop's next gate check. Non-positive rates are ignored.
func (s *Stream) SetRate(fps int) {
	if fps <= 0 {
		log.Warn("ignoring invalid rate", "fps", fps)
		return
	}
	s.fps.Store(int32(fps))
}

// Rate returns the current target capture rate.
func (s *Stream) Rate() int { return int(s.fps.Load()) }

// IsConnected reports whether a capture device is held and reports
// itself open.
func (s *Stream) IsConnected() bool {
	s.camMu.RLock()
	defer s.camMu.RUnlock()
	return s.cam.Connected()
}

// Dimensions returns the frame size of the connected device.
func (s *Stream) Dimensions() (camera.Dimensions, bool) {
	s.camMu.RLock()
	defer s.camMu.RUnlock()
	return s.cam.Dimensions()
}

// ActiveDevice returns the id of the connected device.
func (s *Stream) ActiveDevice() (int, bool) {
	s.camMu.RLock()
	defer s.camMu.RUnlock()
	return s.cam.ActiveID()
}

// LatestFrame returns an independent copy of the most recent raw
// frame, or nil if none has been captured yet. During a device outage
// it keeps returning the last known-good frame.
func (s *Stream) LatestFrame() *camera.Frame { return s.store.latestRaw() }

// LatestFiltered returns the sequence counter and an independent copy
// of the most recent filtered frame (nil if none yet).
func (s *Stream) LatestFiltered() (int, *camera.Frame) { return s.store.latestFiltered() }

// History returns copies of the recent raw frames, newest first.
func (s *Stream) History() []*camera.Frame { return s.store.historySnapshot() }

// Sequence returns the wrapping frame counter. It changes on every
// committed frame and is useful only to detect that a new frame
// arrived.
func (s *Stream) Sequence() int { return s.store.sequence() }

// WaitForNewFrame blocks until a frame is committed after the call, or
// until the stream stops. On a stream that is not running it returns
// immediately.
func (s *Stream) WaitForNewFrame() {
	s.store.waitChange(func() bool { return s.running.Load() })
}

// AddWork registers a work callback, executed once per captured frame
// in registration order, before any filters run. The returned handle
// removes exactly this registration; adding the same function again
// creates a second, independent registration.
func (s *Stream) AddWork(fn WorkFunc) Handle {
	return s.work.add(fn)
}

// RemoveWork unregisters a work callback. Unknown handles are ignored.
func (s *Stream) RemoveWork(h Handle) {
	if !s.work.remove(h) {
		log.Debug("work handle not registered", "handle", string(h))
	}
}

// AddFilter appends a filter to the chain that produces the filtered
// frame. The returned handle removes exactly this registration.
func (s *Stream) AddFilter(fn FilterFunc) Handle {
	return s.filters.add(fn)
}

// RemoveFilter removes a filter from the chain. Unknown handles are
// ignored.
func (s *Stream) RemoveFilter(h Handle) {
	if !s.filters.remove(h) {
		log.Debug("filter handle not registered", "handle", string(h))
	}
}

// loop is the acquisition loop. It owns the camera: nothing else opens,
// reads, or releases the device while the loop is alive. Device errors
// are logged and retried; only the stop flag terminates the loop.
func (s *Stream) loop(done chan struct{}) {
	defer close(done)
	defer func() {
		s.camMu.Lock()
		s.cam.Release()
		s.camMu.Unlock()
	}()

	log.Info("acquisition loop started")
	gate := newRateGate(func() time.Duration {
		return time.Second / time.Duration(s.fps.Load())
	})

	// Device to re-open after a read failure, -1 when none. Lets the
	// stream reconnect by itself once the device comes back, without an
	// external restart.
	retry := -1

	for s.running.Load() {
		gate.wait()

		// Consume a pending camera request. The request slot is cleared
		// whether or not the open succeeds; a failed requested open waits
		// for the next request rather than retrying.
		select {
		case id := <-s.request:
			if s.switchCamera(id) == nil {
				retry = -1
			}
		default:
		}

		if s.paused.Load() {
			continue
		}

		id, ok := s.activeOrRetry(&retry)
		if !ok {
			continue
		}

		frame, err := s.cam.Read()
		if err != nil {
			log.Error("frame read failed", "device", id, "error", err)
			if s.switchCamera(id) == nil {
				retry = -1
			} else {
				retry = id
			}
			time.Sleep(s.cfg.ReadCooldown)
			continue
		}

		s.store.commit(frame)
		s.work.run(frame)
		s.store.commitFiltered(s.filters.run(frame))
	}

	log.Info("acquisition loop exited")
}

// activeOrRetry returns the device id to read from this tick. With no
// device open it attempts the recorded read-failure recovery, if any,
// and otherwise reports the tick as idle.
func (s *Stream) activeOrRetry(retry *int) (int, bool) {
	if id, ok := s.cam.ActiveID(); ok {
		return id, true
	}
	if *retry < 0 {
		return 0, false
	}
	if s.switchCamera(*retry) != nil {
		time.Sleep(s.cfg.ReadCooldown)
		return 0, false
	}
	id := *retry
	*retry = -1
	return id, true
}

// switchCamera opens the given device, releasing the current one
// first. Called only from the loop goroutine.
func (s *Stream) switchCamera(id int) error {
	log.Info("switching camera", "device", id)
	s.camMu.Lock()
	_, err := s.cam.Open(id)
	s.camMu.Unlock()
	if err != nil {
		log.Error("camera open failed", "device", id, "error", err)
	}
	return err
}
