//go:build !tinygo

package core

import "sync/atomic"

var systemMillis uint32

// getSystemMillis returns the current millisecond count. The ticker
// goroutine and pollers run on different OS threads, so the load is atomic.
func getSystemMillis() uint32 {
	return atomic.LoadUint32(&systemMillis)
}

// setSystemMillis sets the millisecond count
func setSystemMillis(ms uint32) {
	atomic.StoreUint32(&systemMillis, ms)
}
