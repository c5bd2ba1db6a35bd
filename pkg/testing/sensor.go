package testing

import (
	"sync"

	"github.com/go-drift/inview/pkg/visibility"
)

// FakeSensor is a scriptable [visibility.Sensor]. It records observe and
// unobserve calls and delivers whatever batches the test scripts through
// [FakeSensor.Tick].
type FakeSensor struct {
	// Root and Options capture what the sensor was built with, for
	// assertions on the scheduler's sensor construction.
	Root    visibility.Region
	Options visibility.SensorOptions

	sink visibility.TickSink

	mu           sync.Mutex
	observed     []visibility.Handle
	observeCalls map[visibility.Handle]int
	disconnected bool
}

// NewFakeSensor creates a sensor delivering to sink.
func NewFakeSensor(sink visibility.TickSink) *FakeSensor {
	return &FakeSensor{sink: sink, observeCalls: make(map[visibility.Handle]int)}
}

// Observe implements [visibility.Sensor].
func (f *FakeSensor) Observe(handle visibility.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disconnected {
		return
	}
	f.observeCalls[handle]++
	for _, h := range f.observed {
		if h == handle {
			return
		}
	}
	f.observed = append(f.observed, handle)
}

// Unobserve implements [visibility.Sensor].
func (f *FakeSensor) Unobserve(handle visibility.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disconnected {
		return
	}
	for i, h := range f.observed {
		if h == handle {
			f.observed = append(f.observed[:i], f.observed[i+1:]...)
			return
		}
	}
}

// Disconnect implements [visibility.Sensor].
func (f *FakeSensor) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
	f.observed = nil
}

// Tick delivers one batch to the sink, as the real sensing mechanism
// would. Ticks on a disconnected sensor are dropped, matching the
// sensor contract.
func (f *FakeSensor) Tick(batch ...visibility.Intersection) {
	f.mu.Lock()
	disconnected := f.disconnected
	sink := f.sink
	f.mu.Unlock()
	if disconnected || sink == nil {
		return
	}
	sink.HandleTick(batch)
}

// Observed returns the currently observed handles, oldest first.
func (f *FakeSensor) Observed() []visibility.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]visibility.Handle(nil), f.observed...)
}

// IsObserving reports whether handle is currently observed.
func (f *FakeSensor) IsObserving(handle visibility.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.observed {
		if h == handle {
			return true
		}
	}
	return false
}

// ObserveCount reports how many times handle was observed over the
// sensor's lifetime, including re-observations after unobserve.
func (f *FakeSensor) ObserveCount(handle visibility.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.observeCalls[handle]
}

// Disconnected reports whether Disconnect has been called.
func (f *FakeSensor) Disconnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnected
}

// FakeSensorFactory builds fake sensors and remembers them, so tests
// can drive whichever sensor the scheduler currently holds.
type FakeSensorFactory struct {
	mu      sync.Mutex
	sensors []*FakeSensor
	err     error
}

// Create is a [visibility.SensorFactory].
func (f *FakeSensorFactory) Create(root visibility.Region, opts visibility.SensorOptions, sink visibility.TickSink) (visibility.Sensor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sensor := NewFakeSensor(sink)
	sensor.Root = root
	sensor.Options = opts
	f.sensors = append(f.sensors, sensor)
	return sensor, nil
}

// FailWith makes subsequent Create calls fail with err. Pass nil to
// build sensors again.
func (f *FakeSensorFactory) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Latest returns the most recently created sensor, or nil.
func (f *FakeSensorFactory) Latest() *FakeSensor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sensors) == 0 {
		return nil
	}
	return f.sensors[len(f.sensors)-1]
}

// Created reports how many sensors the factory has built.
func (f *FakeSensorFactory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sensors)
}
