package visibility

import "sync"

// Watcher ties one consumer to a scheduler. It carries the consumer's
// callback and once flag, claims the initial-visibility grant at most
// once, and tracks whichever handle the consumer currently presents.
//
// A consumer typically creates one watcher per mounted element, calls
// [Watcher.Attach] with the element's handle on mount and with nil on
// unmount, and disposes the watcher when the element goes away for good.
type Watcher struct {
	scheduler *Scheduler
	callback  Callback
	once      bool

	mu       sync.Mutex
	claimed  bool
	claim    bool
	ticket   Ticket
	disposed bool
}

// NewWatcher creates a watcher for one consumer of s.
func NewWatcher(s *Scheduler, fn Callback, once bool) *Watcher {
	return &Watcher{scheduler: s, callback: fn, once: once}
}

// InitiallyVisible claims an initial-visibility grant the first time it
// is called and returns the cached result afterwards, so re-renders of
// the same consumer never re-decrement the pool.
func (w *Watcher) InitiallyVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.claimed {
		w.claimed = true
		w.claim = w.scheduler.grants.claim()
	}
	return w.claim
}

// Attach points the watcher at handle, replacing any previous
// registration. A nil handle detaches: exactly this watcher's target is
// removed and no others. A watcher that claimed a grant with once set
// counts as already visible and never registers at all. Attach after
// Dispose is ignored.
func (w *Watcher) Attach(handle Handle) {
	w.mu.Lock()
	if w.disposed || (w.claimed && w.claim && w.once) {
		w.mu.Unlock()
		return
	}
	prev := w.ticket
	w.ticket = Ticket{}
	w.mu.Unlock()

	prev.Release()
	if handle == nil {
		return
	}

	ticket := w.scheduler.Track(handle, w.callback, w.once)

	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		ticket.Release()
		return
	}
	w.ticket = ticket
	w.mu.Unlock()
}

// Dispose detaches the watcher permanently. Safe to call more than once.
func (w *Watcher) Dispose() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	w.disposed = true
	ticket := w.ticket
	w.ticket = Ticket{}
	w.mu.Unlock()

	ticket.Release()
}
