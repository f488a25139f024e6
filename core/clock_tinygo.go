//go:build tinygo

package core

import "sync/atomic"

var systemMillisValue uint32

// getSystemMillis returns the current millisecond count
func getSystemMillis() uint32 {
	return atomic.LoadUint32(&systemMillisValue)
}

// setSystemMillis sets the millisecond count
func setSystemMillis(ms uint32) {
	atomic.StoreUint32(&systemMillisValue, ms)
}
