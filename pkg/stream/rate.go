package stream

import "time"

// rateGate paces the acquisition loop: at most one tick per target
// interval. Missed ticks are skipped, never queued; after a slow tick
// the gate simply schedules the next one interval ahead.
type rateGate struct {
	interval func() time.Duration
	next     time.Time
}

// newRateGate creates a gate. interval is re-evaluated on every wait,
// so rate changes take effect from the next gate check.
func newRateGate(interval func() time.Duration) *rateGate {
	return &rateGate{interval: interval}
}

// wait blocks until the pending tick is due, then schedules the next.
func (g *rateGate) wait() {
	if d := time.Until(g.next); d > 0 {
		time.Sleep(d)
	}
	g.next = time.Now().Add(g.interval())
}
