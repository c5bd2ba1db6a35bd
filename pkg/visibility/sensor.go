package visibility

import "github.com/go-drift/inview/pkg/geometry"

// Handle identifies one tracked element. Handles are opaque to the
// scheduler; any comparable value works, typically a pointer to the
// host's row or element object.
type Handle = any

// Callback receives visibility transitions for one tracked element.
// visible reports whether the element currently intersects the
// (margin-expanded) viewport.
type Callback func(visible bool)

// Intersection is one raw sensor observation.
type Intersection struct {
	Handle       Handle
	Intersecting bool
}

// Region is the root a sensor measures against. The scheduler itself
// only needs scrollability, to validate the configured margin; concrete
// sensors type-assert richer interfaces of their own.
type Region interface {
	// CanScroll reports whether the region scrolls along the given axis.
	CanScroll(axis geometry.Axis) bool
}

// TickSink receives observation batches from a sensor.
// [Scheduler.HandleTick] is the production sink.
type TickSink interface {
	// HandleTick delivers one batch of observations. The whole batch is
	// applied before the next tick starts.
	HandleTick(batch []Intersection)
}

// Sensor watches a set of handles against one root region and reports
// intersection changes to its sink in batches.
//
// Sensors deliver ticks asynchronously with respect to Observe and
// Unobserve: a tick must never be raised from inside either call. The
// scheduler relies on this to keep every batch atomic.
type Sensor interface {
	// Observe starts watching a handle. Observing a handle twice is a
	// no-op.
	Observe(handle Handle)
	// Unobserve stops watching a handle. Unknown handles are ignored.
	Unobserve(handle Handle)
	// Disconnect stops watching all handles and releases the sensor.
	// A disconnected sensor delivers no further ticks.
	Disconnect()
}

// SensorOptions carries the observation geometry a sensor is built with.
type SensorOptions struct {
	// Margin expands (or, when negative, shrinks) the root's window
	// before intersection testing.
	Margin Margin
	// Thresholds are the visibility fractions at which transitions are
	// reported, sorted ascending, each in [0, 1].
	Thresholds []float64
}

// SensorFactory constructs a sensor bound to root, reporting to sink.
// The scheduler calls it once per attach or reconfiguration. The factory
// must not call back into the scheduler.
type SensorFactory func(root Region, opts SensorOptions, sink TickSink) (Sensor, error)
