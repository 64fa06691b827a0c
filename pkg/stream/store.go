package stream

import (
	"sync"

	"github.com/camkit/go-camstream/pkg/camera"
)

const (
	// historyCap bounds the recency buffer of raw frames.
	historyCap = 10

	// seqCeiling wraps the frame sequence counter. The counter is a
	// change detector, not a frame id, so a small ceiling is enough.
	seqCeiling = 100
)

// frameStore holds the shared frame state of a stream.
//
// The raw fields (latest, history, seq) form one lock domain. The
// filtered frame is a second, independent domain so a slow filter
// chain never blocks raw commits or raw readers. The two locks are
// never held at the same time.
type frameStore struct {
	mu      sync.Mutex
	cond    *sync.Cond
	latest  *camera.Frame
	history []*camera.Frame
	seq     int

	filteredMu sync.Mutex
	filtered   *camera.Frame
}

func newFrameStore() *frameStore {
	st := &frameStore{}
	st.cond = sync.NewCond(&st.mu)
	return st
}

// commit stores frame as the latest raw frame, pushes a copy onto the
// front of the history, advances the wrapping sequence counter and
// wakes anyone blocked in waitChange. The store keeps the frame
// instance itself; the caller must not mutate it afterwards.
func (st *frameStore) commit(frame *camera.Frame) {
	st.mu.Lock()
	st.latest = frame
	st.history = append([]*camera.Frame{frame.Clone()}, st.history...)
	if len(st.history) > historyCap {
		st.history = st.history[:historyCap]
	}
	st.seq = (st.seq + 1) % seqCeiling
	st.cond.Broadcast()
	st.mu.Unlock()
}

// latestRaw returns an independent copy of the latest raw frame, or
// nil if nothing has been committed yet.
func (st *frameStore) latestRaw() *camera.Frame {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.latest.Clone()
}

// historySnapshot returns copies of the recent raw frames, newest
// first. A concurrent commit is observed either fully or not at all.
func (st *frameStore) historySnapshot() []*camera.Frame {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*camera.Frame, len(st.history))
	for i, f := range st.history {
		out[i] = f.Clone()
	}
	return out
}

// sequence returns the current value of the wrapping frame counter.
func (st *frameStore) sequence() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.seq
}

// commitFiltered stores the output of the filter chain. The store
// keeps the instance; the caller must not mutate it afterwards.
func (st *frameStore) commitFiltered(frame *camera.Frame) {
	st.filteredMu.Lock()
	st.filtered = frame
	st.filteredMu.Unlock()
}

// latestFiltered returns the sequence counter and an independent copy
// of the latest filtered frame (nil if none yet).
func (st *frameStore) latestFiltered() (int, *camera.Frame) {
	st.mu.Lock()
	seq := st.seq
	st.mu.Unlock()

	st.filteredMu.Lock()
	f := st.filtered.Clone()
	st.filteredMu.Unlock()
	return seq, f
}

// waitChange blocks until the sequence counter moves past its value at
// call time, or until alive() reports false after a wake-up.
func (st *frameStore) waitChange(alive func() bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	last := st.seq
	for st.seq == last && alive() {
		st.cond.Wait()
	}
}

// wake releases all waitChange callers so they can re-check alive().
func (st *frameStore) wake() {
	st.mu.Lock()
	st.cond.Broadcast()
	st.mu.Unlock()
}
