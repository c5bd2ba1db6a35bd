// Package visibility provides the observation scheduler that tracks
// which elements of a host UI currently intersect a viewport.
//
// One [Scheduler] owns one underlying [Sensor] and multiplexes it across
// many tracked targets. Consumers register a handle and a callback;
// sensor ticks arrive as batches and the scheduler delivers each batch
// atomically, so a fast scroll that flips many elements at once never
// produces interleaved intermediate states.
//
// # Pipeline
//
// A registration flows through four stages:
//
//	Track -> registry (+ pending queue while no sensor exists)
//	AttachRoot -> sensor construction, queue flush in arrival order
//	sensor tick -> HandleTick resolves each pair against the registry
//	callback(visible), one-shot targets retire after their first hit
//
// Targets registered before the root exists simply wait; attaching the
// root observes them in the order they arrived. Detaching the root keeps
// every registration and re-observes it on the next attach.
//
// # One-shot targets
//
// A target tracked with once set hears visible(true) exactly once and is
// then removed from the registry and the sensor. Reports of
// non-intersection never retire a target, whatever its flags.
//
// # Bootstrap grants
//
// To avoid a flash of placeholder content on first paint, a scheduler
// can be configured with a pool of initial-visibility grants
// ([Config.InitiallyVisible]). The first consumers to claim through
// [Watcher.InitiallyVisible] start out visible without any sensor
// involvement; a claiming one-shot consumer never touches the sensor at
// all. Claims are cached per watcher, so re-renders do not drain the
// pool.
//
// # Sensing technology
//
// The sensor is swappable: anything implementing [Sensor] and built by a
// [SensorFactory] can drive the scheduler. The viewport package provides
// the production sensor; the testing package provides a scripted fake.
//
// # Consumer setup
//
//	scope := visibility.NewScope()
//	visible, attach := visibility.UseVisibility(scope, scheduler, onChange, true)
//	// mount:   attach(handle)
//	// unmount: attach(nil)
//	// gone:    scope.Dispose()
package visibility
