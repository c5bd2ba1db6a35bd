package visibility

import (
	"fmt"

	"github.com/go-drift/inview/pkg/errors"
)

// UseVisibility wires a consumer into the scheduler for the scope's
// lifetime. It claims the initial-visibility grant for this consumer,
// prepares a watcher for fn, and registers the watcher's disposal with
// the scope.
//
// It returns the grant result and the attach function: call attach with
// the consumer's handle on mount and with nil on unmount. Call
// UseVisibility once per consumer instance, during setup.
//
// Panics with a usage error if scope or s is nil, since a consumer
// without a live scheduler scope cannot be observed.
//
// Example:
//
//	visible, attach := visibility.UseVisibility(scope, scheduler, func(v bool) {
//	    row.SetLoaded(v)
//	}, true)
//	row.SetLoaded(visible)
//	attach(row) // no-op when the grant already settled a one-shot consumer
func UseVisibility(scope *Scope, s *Scheduler, fn Callback, once bool) (bool, func(Handle)) {
	if scope == nil || s == nil {
		panic(&errors.InviewError{
			Op:   "visibility.UseVisibility",
			Kind: errors.KindUsage,
			Err:  fmt.Errorf("UseVisibility requires a live scope and scheduler"),
		})
	}
	w := NewWatcher(s, fn, once)
	scope.OnDispose(w.Dispose)
	return w.InitiallyVisible(), w.Attach
}
