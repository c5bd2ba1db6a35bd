package visibility

import "sync/atomic"

// grantCounter hands out the initial-visibility grants. The scheduler
// owns one counter and shares it by reference with every watcher; claims
// use check-and-decrement so re-entrant callers can never overdraw the
// pool.
type grantCounter struct {
	remaining atomic.Int64
}

func newGrantCounter(n int) *grantCounter {
	c := &grantCounter{}
	c.remaining.Store(int64(n))
	return c
}

// claim takes one grant if any remain.
func (c *grantCounter) claim() bool {
	for {
		n := c.remaining.Load()
		if n <= 0 {
			return false
		}
		if c.remaining.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// left reports the grants not yet claimed.
func (c *grantCounter) left() int {
	n := c.remaining.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
