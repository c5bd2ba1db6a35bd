// Package viewport implements the production sensing technology for the
// visibility scheduler: a sensor that measures tracked handles against a
// scrolling or static root region using plain rectangle math.
//
// The scheduler stays agnostic of how intersections are detected; this
// package supplies [Factory] as its [visibility.SensorFactory]. The root
// passed to the scheduler must implement [Geometry] (both [ScrollRegion]
// and [StaticRegion] do), and every tracked handle must implement
// [Bounded] so the sensor can read its rectangle.
//
// # Evaluation
//
// The sensor re-measures whenever its root notifies a window change, and
// reports a handle only when its state changed since the last report: on
// first measurement, when intersection flips, or when the visible
// fraction crosses a configured threshold. Hosts trigger the initial
// measurement by pumping the region after content is mounted:
//
//	region := viewport.NewScrollRegion(geometry.AxisVertical, size, contentHeight)
//	scheduler.AttachRoot(region)
//	region.Pump()
package viewport

import (
	"fmt"
	"sync"

	"github.com/go-drift/inview/pkg/errors"
	"github.com/go-drift/inview/pkg/geometry"
	"github.com/go-drift/inview/pkg/visibility"
)

// Factory builds a viewport sensor. Pass it as
// [visibility.Config.SensorFactory]; the root attached to the scheduler
// must implement [Geometry].
func Factory(root visibility.Region, opts visibility.SensorOptions, sink visibility.TickSink) (visibility.Sensor, error) {
	geom, ok := root.(Geometry)
	if !ok {
		return nil, fmt.Errorf("viewport sensor requires a root exposing window geometry, got %T", root)
	}
	return New(geom, opts, sink), nil
}

// observation is the sensor's last reported state for one handle.
type observation struct {
	provider     Bounded
	reported     bool
	intersecting bool
	thresholdIdx int
}

// Sensor measures observed handles against a root region's window and
// delivers batched intersection changes to its sink.
type Sensor struct {
	root       Geometry
	margin     visibility.Margin
	thresholds []float64
	sink       visibility.TickSink

	mu           sync.Mutex
	observations map[visibility.Handle]*observation
	order        []visibility.Handle
	unsubscribe  func()
	disconnected bool

	// evaluating and dirty absorb re-entrant window changes: a sink
	// callback that scrolls the root marks the pass dirty instead of
	// starting a nested one.
	evaluating bool
	dirty      bool
}

// New creates a sensor measuring against root and reporting to sink.
// Empty thresholds default to a single 0, meaning any overlap counts.
func New(root Geometry, opts visibility.SensorOptions, sink visibility.TickSink) *Sensor {
	thresholds := append([]float64(nil), opts.Thresholds...)
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	s := &Sensor{
		root:         root,
		margin:       opts.Margin,
		thresholds:   thresholds,
		sink:         sink,
		observations: make(map[visibility.Handle]*observation),
	}
	s.unsubscribe = root.AddListener(s.evaluate)
	return s
}

// Observe starts watching a handle. The handle must implement [Bounded];
// anything else is reported to the error handler and ignored. The new
// handle is measured on the next evaluation, not synchronously.
func (s *Sensor) Observe(handle visibility.Handle) {
	provider, ok := handle.(Bounded)
	if !ok {
		errors.Report(&errors.InviewError{
			Op:   "viewport.Observe",
			Kind: errors.KindSensor,
			Err:  fmt.Errorf("handle %T does not expose visibility bounds", handle),
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disconnected {
		return
	}
	if _, exists := s.observations[handle]; exists {
		return
	}
	s.observations[handle] = &observation{provider: provider, thresholdIdx: -1}
	s.order = append(s.order, handle)
	if s.evaluating {
		s.dirty = true
	}
}

// Unobserve stops watching a handle.
func (s *Sensor) Unobserve(handle visibility.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.observations[handle]; !exists {
		return
	}
	delete(s.observations, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Disconnect stops watching all handles and unsubscribes from the root.
// Disconnecting twice is safe.
func (s *Sensor) Disconnect() {
	s.mu.Lock()
	if s.disconnected {
		s.mu.Unlock()
		return
	}
	s.disconnected = true
	s.observations = nil
	s.order = nil
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Flush forces an evaluation pass outside a root notification. Hosts
// normally pump the region instead; Flush exists for callers holding the
// sensor directly.
func (s *Sensor) Flush() {
	s.evaluate()
}

// evaluate runs measurement passes until the observed state is clean.
// Changes made while the sink runs (a callback scrolling the root, or
// tracking a new handle) mark the pass dirty and are picked up by the
// next iteration instead of recursing.
func (s *Sensor) evaluate() {
	s.mu.Lock()
	if s.disconnected {
		s.mu.Unlock()
		return
	}
	if s.evaluating {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.evaluating = true
	for {
		s.dirty = false
		batch := s.collectLocked()
		if len(batch) > 0 {
			s.mu.Unlock()
			s.sink.HandleTick(batch)
			s.mu.Lock()
		}
		if s.disconnected || !s.dirty {
			break
		}
	}
	s.evaluating = false
	s.mu.Unlock()
}

// collectLocked measures every observed handle against the current
// window and returns the handles whose state changed. Callers hold s.mu.
func (s *Sensor) collectLocked() []visibility.Intersection {
	window := s.root.Window()
	expanded := window.Expand(s.margin.Resolve(window.Size()))

	var batch []visibility.Intersection
	for _, handle := range s.order {
		obs := s.observations[handle]
		ratio := intersectionRatio(expanded, obs.provider.VisibilityBounds())
		intersecting := ratio > 0
		idx := thresholdIndex(s.thresholds, ratio)
		if obs.reported && intersecting == obs.intersecting && idx == obs.thresholdIdx {
			continue
		}
		obs.reported = true
		obs.intersecting = intersecting
		obs.thresholdIdx = idx
		batch = append(batch, visibility.Intersection{Handle: handle, Intersecting: intersecting})
	}
	return batch
}

// intersectionRatio returns the fraction of bounds covered by window, in
// [0, 1]. Degenerate bounds (zero area) count as fully visible when they
// lie inside the window and invisible otherwise.
func intersectionRatio(window, bounds geometry.Rect) float64 {
	if bounds.IsEmpty() {
		if window.Contains(bounds) {
			return 1
		}
		return 0
	}
	overlap := window.Intersect(bounds)
	if overlap.IsEmpty() {
		return 0
	}
	return overlap.Area() / bounds.Area()
}

// thresholdIndex returns the index of the highest threshold the ratio
// has reached, or -1 below the lowest. Thresholds are sorted ascending.
func thresholdIndex(thresholds []float64, ratio float64) int {
	idx := -1
	for i, t := range thresholds {
		if ratio >= t {
			idx = i
		}
	}
	return idx
}
