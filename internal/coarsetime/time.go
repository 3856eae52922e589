// Package coarsetime is a cheap clock for pool bookkeeping. The time it
// returns lags the real clock by at most one tick (50ms).
package coarsetime

import (
	"sync/atomic"
	"time"
)

const tick = 50 * time.Millisecond

var now atomic.Pointer[time.Time]

func init() {
	t := time.Now()
	now.Store(&t)

	go func() {
		for t := range time.Tick(tick) {
			now.Store(&t)
		}
	}()
}

// Now returns the last recorded time.
func Now() time.Time {
	return *now.Load()
}
