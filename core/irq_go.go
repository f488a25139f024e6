//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On regular Go the tick runs in a goroutine rather than an interrupt
// handler, so the critical section must be a real lock.
var irqMu sync.Mutex

// disableInterrupts enters the shared-state critical section
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts leaves the shared-state critical section
func restoreInterrupts(state State) {
	irqMu.Unlock()
}
