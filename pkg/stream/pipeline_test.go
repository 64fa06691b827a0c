package stream

import (
	"testing"

	"github.com/camkit/go-camstream/pkg/camera"
)

func TestWorkPipeline_RunsInRegistrationOrder(t *testing.T) {
	p := &workPipeline{}

	var order []int
	p.add(func(*camera.Frame) { order = append(order, 1) })
	p.add(func(*camera.Frame) { order = append(order, 2) })
	p.add(func(*camera.Frame) { order = append(order, 3) })

	p.run(camera.NewFrame(1, 1))
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("Expected registration order [1 2 3], got %v", order)
	}
}

func TestWorkPipeline_HandlesAreUnique(t *testing.T) {
	p := &workPipeline{}

	fn := func(*camera.Frame) {}
	h1 := p.add(fn)
	h2 := p.add(fn)

	if h1 == h2 {
		t.Error("Each registration must get its own handle")
	}
	if p.size() != 2 {
		t.Errorf("Expected 2 entries, got %d", p.size())
	}
}

func TestWorkPipeline_RemoveIsIdempotent(t *testing.T) {
	p := &workPipeline{}

	var order []int
	h1 := p.add(func(*camera.Frame) { order = append(order, 1) })
	p.add(func(*camera.Frame) { order = append(order, 2) })
	p.add(func(*camera.Frame) { order = append(order, 3) })

	if !p.remove(h1) {
		t.Fatal("Expected removal of a registered handle to succeed")
	}
	if p.remove(h1) {
		t.Error("Removing an already-removed handle must be a no-op")
	}
	if p.remove(Handle("bogus")) {
		t.Error("Removing an unknown handle must be a no-op")
	}

	// Relative order of the survivors is preserved.
	p.run(camera.NewFrame(1, 1))
	if len(order) != 2 || order[0] != 2 || order[1] != 3 {
		t.Errorf("Expected remaining order [2 3], got %v", order)
	}
}

func TestFilterPipeline_ChainsInOrder(t *testing.T) {
	p := &filterPipeline{}

	p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0] *= 2
		return f
	})
	p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0] += 5
		return f
	})

	raw := camera.NewFrame(1, 1)
	raw.Pix[0] = 10

	// f2(f1(10)) == 25; the reverse order would give 30.
	out := p.run(raw)
	if out.Pix[0] != 25 {
		t.Errorf("Expected f2(f1(10)) == 25, got %d", out.Pix[0])
	}
	if raw.Pix[0] != 10 {
		t.Errorf("Filter chain mutated the raw frame: %d", raw.Pix[0])
	}
}

func TestFilterPipeline_RemoveMiddleStage(t *testing.T) {
	p := &filterPipeline{}

	p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0] *= 2
		return f
	})
	h := p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0] += 100
		return f
	})
	p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0]++
		return f
	})

	p.remove(h)

	raw := camera.NewFrame(1, 1)
	raw.Pix[0] = 3

	if out := p.run(raw); out.Pix[0] != 7 {
		t.Errorf("Expected 3*2+1 == 7 after removing middle stage, got %d", out.Pix[0])
	}
}

func TestFilterPipeline_EmptyReturnsCopy(t *testing.T) {
	p := &filterPipeline{}

	raw := camera.NewFrame(1, 1)
	raw.Pix[0] = 9

	out := p.run(raw)
	if out.Pix[0] != 9 {
		t.Fatalf("Expected copy of raw, got %d", out.Pix[0])
	}
	out.Pix[0] = 1
	if raw.Pix[0] != 9 {
		t.Error("Empty-chain output aliases the raw frame")
	}
}

func TestFilterPipeline_NilOutputSkipped(t *testing.T) {
	p := &filterPipeline{}

	p.add(func(*camera.Frame) *camera.Frame { return nil })
	p.add(func(f *camera.Frame) *camera.Frame {
		f.Pix[0]++
		return f
	})

	raw := camera.NewFrame(1, 1)
	raw.Pix[0] = 1

	out := p.run(raw)
	if out == nil || out.Pix[0] != 2 {
		t.Errorf("Expected nil filter output to be skipped, got %v", out)
	}
}
