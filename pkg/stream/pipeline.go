package stream

import (
	"sync"

	"github.com/google/uuid"

	"github.com/camkit/go-camstream/pkg/camera"
)

// Handle identifies one registered callback. Registration returns a
// handle and removal takes one; callbacks themselves are never
// compared. (Go func values are not comparable, and closures built
// from the same literal share a code pointer, so callable identity is
// not a usable key.)
type Handle string

func newHandle() Handle { return Handle(uuid.NewString()) }

// WorkFunc is a side-effecting per-frame callback. It receives the
// committed raw frame itself and must neither mutate nor retain it.
// Work callbacks run with their pipeline lock held and must return
// promptly; a slow callback stalls the whole capture tick.
type WorkFunc func(frame *camera.Frame)

// FilterFunc is one stage of the filter chain. It owns the frame it
// receives and returns the transformed frame, which may be its input
// modified in place. The same promptness obligation as WorkFunc
// applies.
type FilterFunc func(frame *camera.Frame) *camera.Frame

type workEntry struct {
	handle Handle
	fn     WorkFunc
}

// workPipeline is an ordered collection of work callbacks. The lock is
// held for the full duration of a run, so add/remove block while the
// callbacks execute.
type workPipeline struct {
	mu      sync.Mutex
	entries []workEntry
}

// add appends fn and returns its handle.
func (p *workPipeline) add(fn WorkFunc) Handle {
	h := newHandle()
	p.mu.Lock()
	p.entries = append(p.entries, workEntry{handle: h, fn: fn})
	p.mu.Unlock()
	return h
}

// remove deletes the entry with the given handle, preserving the order
// of the remaining entries. Removing an unknown or already-removed
// handle is a no-op, which makes removal idempotent.
func (p *workPipeline) remove(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.entries {
		if e.handle == h {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (p *workPipeline) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// run invokes every callback in registration order against frame.
func (p *workPipeline) run(frame *camera.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		e.fn(frame)
	}
}

type filterEntry struct {
	handle Handle
	fn     FilterFunc
}

// filterPipeline is an ordered chain of filter callbacks with the same
// locking discipline as workPipeline.
type filterPipeline struct {
	mu      sync.Mutex
	entries []filterEntry
}

func (p *filterPipeline) add(fn FilterFunc) Handle {
	h := newHandle()
	p.mu.Lock()
	p.entries = append(p.entries, filterEntry{handle: h, fn: fn})
	p.mu.Unlock()
	return h
}

func (p *filterPipeline) remove(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.entries {
		if e.handle == h {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (p *filterPipeline) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// run chains the filters over a copy of raw: the first filter receives
// the copy, each output feeds the next. With no filters registered the
// result is simply the copy. A filter returning nil is skipped.
func (p *filterPipeline) run(raw *camera.Frame) *camera.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := raw.Clone()
	for _, e := range p.entries {
		if next := e.fn(out); next != nil {
			out = next
		}
	}
	return out
}
