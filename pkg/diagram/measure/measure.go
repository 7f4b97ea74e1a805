// Package measure implements the recompute protocol between the
// rendering layer (which measures node sizes asynchronously) and the
// geometry core (which must not compute with missing or stale sizes).
//
// The flow is: a topology or display-mode change calls [Tracker.Expect]
// with the node IDs that need fresh measurement, which invalidates all
// previous sizes and bumps the epoch. The rendering layer reports sizes
// back via [Tracker.SetMeasured]. Once every expected node has reported,
// the tracker schedules a single delayed recompute through its
// [Scheduler] and notifies subscribers. Until then, geometry consumers
// see unmeasured nodes and skip their edges.
//
// This is the only place asynchrony appears in the geometry core: one
// cancelable one-shot timer, no polling and no animation loop.
package measure

import (
	"sync"
	"time"

	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// DefaultSettleDelay is how long the tracker waits after the last
// measurement before triggering a recompute, letting the rendering
// layer finish a burst of size reports.
const DefaultSettleDelay = 75 * time.Millisecond

// Scheduler arms a single one-shot recompute timer. Scheduling again
// before the timer fires cancels the previous one, so only the newest
// snapshot is ever recomputed. Stop must be called on teardown to keep
// a stale timer from firing after the diagram is gone.
type Scheduler struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewScheduler creates a scheduler with the given settle delay.
// A non-positive delay falls back to DefaultSettleDelay.
func NewScheduler(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	return &Scheduler{delay: delay}
}

// Schedule arms the timer to run fn after the settle delay, replacing
// any recompute still pending. Cancellation is never a correctness
// hazard: a superseded fn would have recomputed from inputs the newer
// call already covers.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels any pending recompute. Safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Tracker collects asynchronous size measurements for one diagram and
// fires a recompute once a measurement pass completes.
type Tracker struct {
	scheduler *Scheduler

	mu       sync.Mutex
	epoch    uint64
	pending  map[string]struct{}
	sizes    map[string]geo.Size
	onReady  []func(epoch uint64)
}

// NewTracker creates a tracker that schedules recomputes on sched.
// A nil scheduler gets the default settle delay.
func NewTracker(sched *Scheduler) *Tracker {
	if sched == nil {
		sched = NewScheduler(0)
	}
	return &Tracker{
		scheduler: sched,
		pending:   make(map[string]struct{}),
		sizes:     make(map[string]geo.Size),
	}
}

// Expect starts a new measurement pass for the given node IDs. All
// previously reported sizes are discarded and the epoch advances, so a
// recompute scheduled for an older pass is superseded.
func (t *Tracker) Expect(nodeIDs []string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.epoch++
	t.pending = make(map[string]struct{}, len(nodeIDs))
	t.sizes = make(map[string]geo.Size, len(nodeIDs))
	for _, id := range nodeIDs {
		t.pending[id] = struct{}{}
	}
	t.scheduler.Stop()
	return t.epoch
}

// SetMeasured reports a node's rendered size. Reports for nodes not in
// the current pass are ignored; they belong to a superseded epoch. When
// the last pending node reports, the recompute timer is armed and all
// subscribers run after the settle delay.
func (t *Tracker) SetMeasured(nodeID string, size geo.Size) {
	t.mu.Lock()
	if _, ok := t.pending[nodeID]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.pending, nodeID)
	t.sizes[nodeID] = size
	complete := len(t.pending) == 0
	epoch := t.epoch
	subs := append([]func(uint64){}, t.onReady...)
	t.mu.Unlock()

	if complete {
		t.scheduler.Schedule(func() {
			for _, fn := range subs {
				fn(epoch)
			}
		})
	}
}

// OnReady subscribes fn to measurement completion. fn receives the
// epoch the completed pass belongs to; subscribers comparing it against
// Epoch can discard callbacks that were superseded while the settle
// timer ran.
func (t *Tracker) OnReady(fn func(epoch uint64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = append(t.onReady, fn)
}

// Epoch returns the current measurement epoch. It changes on every
// Expect call and never repeats.
func (t *Tracker) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

// Size returns the measured size for a node in the current pass.
func (t *Tracker) Size(nodeID string) (geo.Size, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sizes[nodeID]
	return s, ok
}

// Complete reports whether every node in the current pass has measured.
func (t *Tracker) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) == 0
}

// Close tears the tracker down, canceling any pending recompute.
func (t *Tracker) Close() {
	t.scheduler.Stop()
}
