package testing

import (
	"sync"

	"github.com/go-drift/inview/pkg/visibility"
)

// Transition is one recorded callback invocation.
type Transition struct {
	Handle  visibility.Handle
	Visible bool
}

// TransitionLog records callback invocations so tests can assert on
// delivery counts and payloads. The zero value is ready to use.
type TransitionLog struct {
	mu      sync.Mutex
	entries []Transition
}

// Callback returns a [visibility.Callback] that records under handle.
func (l *TransitionLog) Callback(handle visibility.Handle) visibility.Callback {
	return func(visible bool) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.entries = append(l.entries, Transition{Handle: handle, Visible: visible})
	}
}

// Entries returns a copy of everything recorded, oldest first.
func (l *TransitionLog) Entries() []Transition {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Transition(nil), l.entries...)
}

// CountFor reports the number of invocations recorded for handle.
func (l *TransitionLog) CountFor(handle visibility.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Handle == handle {
			n++
		}
	}
	return n
}

// Len reports the total number of invocations recorded.
func (l *TransitionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset clears the log.
func (l *TransitionLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
