package visibility

import "sync"

// Scope ties watcher lifetimes to a host lifecycle. Hosts create one
// scope per mounted component, register cleanups with OnDispose, and
// dispose the scope on teardown; cleanups run in reverse order.
type Scope struct {
	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

// NewScope returns a live scope.
func NewScope() *Scope {
	return &Scope{}
}

// OnDispose registers a cleanup function to be called when the scope is
// disposed. Returns an unregister function that removes the cleanup.
// A cleanup registered on an already-disposed scope runs immediately.
func (sc *Scope) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.disposed {
		cleanup()
		return func() {}
	}

	index := len(sc.disposers)
	sc.disposers = append(sc.disposers, cleanup)

	return func() {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		if index < len(sc.disposers) {
			sc.disposers[index] = nil
		}
	}
}

// Dispose runs all registered cleanups in reverse order (LIFO). Calling
// it again is a no-op.
func (sc *Scope) Dispose() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.disposed {
		return
	}
	sc.disposed = true

	for i := len(sc.disposers) - 1; i >= 0; i-- {
		if sc.disposers[i] != nil {
			sc.disposers[i]()
		}
	}
	sc.disposers = nil
}

// IsDisposed reports whether the scope has been disposed.
func (sc *Scope) IsDisposed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.disposed
}
