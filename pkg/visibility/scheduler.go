package visibility

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-drift/inview/pkg/errors"
	"github.com/go-drift/inview/pkg/geometry"
)

// target is one registry entry.
type target struct {
	handle   Handle
	callback Callback
	once     bool
	// seq preserves registration order across queue flushes.
	seq uint64
	// ticket guards releases so a stale ticket can never evict a fresh
	// registration of the same handle.
	ticket uint64
}

// Scheduler multiplexes one sensor across many tracked targets. It owns
// the target registry, queues registrations that arrive before a sensor
// exists, dispatches sensor ticks as atomic batches, and hands out the
// initial-visibility grants.
//
// All methods are safe for concurrent use. Callbacks run without
// internal locks held, so they may track, release, and reconfigure
// freely.
type Scheduler struct {
	factory    SensorFactory
	grants     *grantCounter
	margin     Margin
	thresholds []float64

	mu      sync.Mutex
	targets map[Handle]*target
	// pending holds targets awaiting a sensor, oldest first. Empty
	// whenever a sensor is live.
	pending    []*target
	root       Region
	sensor     Sensor
	nextSeq    uint64
	nextTicket uint64

	// dispatchMu serializes ticks so each batch lands atomically.
	dispatchMu sync.Mutex
}

// New creates a scheduler from cfg. The scheduler starts without a root;
// targets tracked before [Scheduler.AttachRoot] queue until a sensor
// exists. Invalid configuration returns a config error.
func New(cfg Config) (*Scheduler, error) {
	if cfg.SensorFactory == nil {
		return nil, configError("visibility.New", fmt.Errorf("sensor factory is required"))
	}
	margin, err := ParseMargin(cfg.RootMargin)
	if err != nil {
		return nil, configError("visibility.New", err)
	}
	thresholds, err := normalizeThresholds(cfg.Thresholds)
	if err != nil {
		return nil, configError("visibility.New", err)
	}
	if cfg.InitiallyVisible < 0 {
		return nil, configError("visibility.New", fmt.Errorf("initially visible count %d is negative", cfg.InitiallyVisible))
	}
	return &Scheduler{
		factory:    cfg.SensorFactory,
		grants:     newGrantCounter(cfg.InitiallyVisible),
		margin:     margin,
		thresholds: thresholds,
		targets:    make(map[Handle]*target),
	}, nil
}

func configError(op string, err error) *errors.InviewError {
	return &errors.InviewError{Op: op, Kind: errors.KindConfig, Err: err}
}

// Track registers handle for observation. fn runs on every reported
// transition; with once set the target retires itself after its first
// intersecting report. The returned ticket releases the registration.
//
// Tracking an already-tracked handle is a no-op and returns the zero
// Ticket, as does a nil handle or callback.
func (s *Scheduler) Track(handle Handle, fn Callback, once bool) Ticket {
	if handle == nil || fn == nil {
		return Ticket{}
	}
	s.mu.Lock()
	if _, exists := s.targets[handle]; exists {
		s.mu.Unlock()
		return Ticket{}
	}
	s.nextSeq++
	s.nextTicket++
	tgt := &target{
		handle:   handle,
		callback: fn,
		once:     once,
		seq:      s.nextSeq,
		ticket:   s.nextTicket,
	}
	s.targets[handle] = tgt
	sensor := s.sensor
	if sensor == nil {
		s.pending = append(s.pending, tgt)
	}
	s.mu.Unlock()

	if sensor != nil {
		sensor.Observe(handle)
	}
	return Ticket{scheduler: s, handle: handle, id: tgt.ticket}
}

// Untrack removes the registration for handle, if any. Hosts that key
// strictly by handle can use this instead of holding tickets.
func (s *Scheduler) Untrack(handle Handle) {
	if handle == nil {
		return
	}
	s.mu.Lock()
	if _, exists := s.targets[handle]; !exists {
		s.mu.Unlock()
		return
	}
	delete(s.targets, handle)
	sensor := s.sensor
	s.mu.Unlock()

	if sensor != nil {
		sensor.Unobserve(handle)
	}
}

// release removes the registration handle was issued id for. A mismatch
// means the target already retired or was re-registered; either way the
// stale ticket releases nothing.
func (s *Scheduler) release(handle Handle, id uint64) {
	s.mu.Lock()
	tgt, exists := s.targets[handle]
	if !exists || tgt.ticket != id {
		s.mu.Unlock()
		return
	}
	delete(s.targets, handle)
	sensor := s.sensor
	s.mu.Unlock()

	if sensor != nil {
		sensor.Unobserve(handle)
	}
}

// AttachRoot binds the scheduler to root and starts sensing. A nil root
// detaches, like [Scheduler.DetachRoot]. Targets tracked while detached
// are observed now, oldest registration first. Attaching while already
// attached replaces the sensor and re-observes every live target.
//
// A margin with a positive component along an axis requires a root that
// can scroll that axis; violations return a config error and leave the
// previous state untouched. A factory failure returns a sensor error and
// leaves the scheduler detached.
func (s *Scheduler) AttachRoot(root Region) error {
	if root == nil {
		s.DetachRoot()
		return nil
	}

	s.mu.Lock()
	if err := validateMargin("visibility.AttachRoot", s.margin, root); err != nil {
		s.mu.Unlock()
		return err
	}
	s.teardownLocked()
	opts := SensorOptions{
		Margin:     s.margin,
		Thresholds: append([]float64(nil), s.thresholds...),
	}
	sensor, err := s.factory(root, opts, s)
	if err != nil {
		s.mu.Unlock()
		return &errors.InviewError{Op: "visibility.AttachRoot", Kind: errors.KindSensor, Err: err}
	}
	s.root = root
	s.sensor = sensor
	flush := s.drainPendingLocked()
	s.mu.Unlock()

	for _, handle := range flush {
		sensor.Observe(handle)
	}
	return nil
}

// DetachRoot tears the sensor down. Registrations survive: live targets
// queue again, oldest first, and the next attach re-observes them.
func (s *Scheduler) DetachRoot() {
	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()
}

// Reconfigure replaces the root margin and thresholds. While attached
// this tears down the sensor, builds a fresh one, and re-observes every
// live target; while detached the new geometry applies on the next
// attach. Invalid values return a config error and change nothing.
func (s *Scheduler) Reconfigure(rootMargin string, thresholds []float64) error {
	margin, err := ParseMargin(rootMargin)
	if err != nil {
		return configError("visibility.Reconfigure", err)
	}
	normalized, err := normalizeThresholds(thresholds)
	if err != nil {
		return configError("visibility.Reconfigure", err)
	}

	s.mu.Lock()
	root := s.root
	if root != nil {
		if err := validateMargin("visibility.Reconfigure", margin, root); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.margin = margin
	s.thresholds = normalized
	s.mu.Unlock()

	if root == nil {
		return nil
	}
	return s.AttachRoot(root)
}

// HandleTick applies one sensor batch. Each pair resolves against the
// registry at dispatch time: handles no longer tracked are dropped
// silently. A target with once set retires after its callback returns
// from an intersecting report; non-intersecting reports never retire.
// Ticks are serialized end to end, so a batch is never observably
// interleaved with another.
//
// HandleTick implements [TickSink] and is the sensor's entry point;
// consumer callbacks must not deliver ticks of their own.
func (s *Scheduler) HandleTick(batch []Intersection) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	for _, entry := range batch {
		s.mu.Lock()
		tgt, exists := s.targets[entry.Handle]
		if !exists {
			s.mu.Unlock()
			continue
		}
		fn := tgt.callback
		s.mu.Unlock()

		invokeCallback(entry.Handle, fn, entry.Intersecting)

		if entry.Intersecting && tgt.once {
			s.retire(entry.Handle, tgt)
		}
	}
}

// invokeCallback isolates consumer panics so one bad callback cannot
// starve the rest of a batch.
func invokeCallback(handle Handle, fn Callback, visible bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportCallbackError(&errors.CallbackError{
				Target:     fmt.Sprintf("%T", handle),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	fn(visible)
}

// retire removes a once target after its first intersecting report. The
// identity check keeps a callback that released and re-tracked the same
// handle from losing its fresh registration.
func (s *Scheduler) retire(handle Handle, tgt *target) {
	s.mu.Lock()
	current, exists := s.targets[handle]
	if !exists || current != tgt {
		s.mu.Unlock()
		return
	}
	delete(s.targets, handle)
	sensor := s.sensor
	s.mu.Unlock()

	if sensor != nil {
		sensor.Unobserve(handle)
	}
}

// Tracked reports the number of registered targets.
func (s *Scheduler) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}

// Pending reports the number of live targets queued for the next sensor.
// It is zero whenever a sensor is attached.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, tgt := range s.pending {
		if s.targets[tgt.handle] == tgt {
			n++
		}
	}
	return n
}

// GrantsRemaining reports the initial-visibility grants not yet claimed.
func (s *Scheduler) GrantsRemaining() int {
	return s.grants.left()
}

// teardownLocked disconnects the live sensor, if any, and queues every
// live target for the next one in registration order.
func (s *Scheduler) teardownLocked() {
	if s.sensor == nil {
		return
	}
	s.sensor.Disconnect()
	s.sensor = nil
	s.root = nil

	live := make([]*target, 0, len(s.targets))
	for _, tgt := range s.targets {
		live = append(live, tgt)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })
	s.pending = live
}

// drainPendingLocked empties the queue, returning the handles of entries
// still registered, oldest first. Entries released while queued are
// skipped.
func (s *Scheduler) drainPendingLocked() []Handle {
	if len(s.pending) == 0 {
		return nil
	}
	handles := make([]Handle, 0, len(s.pending))
	for _, tgt := range s.pending {
		if s.targets[tgt.handle] == tgt {
			handles = append(handles, tgt.handle)
		}
	}
	s.pending = nil
	return handles
}

func validateMargin(op string, margin Margin, root Region) *errors.InviewError {
	for _, axis := range []geometry.Axis{geometry.AxisVertical, geometry.AxisHorizontal} {
		if margin.HasPositive(axis) && !root.CanScroll(axis) {
			return &errors.InviewError{
				Op:   op,
				Kind: errors.KindConfig,
				Err:  fmt.Errorf("positive %s margin requires a root scrollable on the %s axis", axis, axis),
			}
		}
	}
	return nil
}

// Ticket identifies one Track registration. The zero Ticket is valid and
// releases nothing.
type Ticket struct {
	scheduler *Scheduler
	handle    Handle
	id        uint64
}

// Active reports whether the ticket still points at a live registration.
func (t Ticket) Active() bool {
	if t.scheduler == nil {
		return false
	}
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	tgt, exists := t.scheduler.targets[t.handle]
	return exists && tgt.ticket == t.id
}

// Release removes the registration the ticket was issued for. It is a
// no-op on the zero Ticket, after the target retired itself, and after
// the handle was re-registered under a newer ticket.
func (t Ticket) Release() {
	if t.scheduler == nil {
		return
	}
	t.scheduler.release(t.handle, t.id)
}
