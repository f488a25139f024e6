//go:build rp2040

package main

import (
	"device/arm"
	"machine"

	"knurl/core"
)

// The knob is serviced directly from the SysTick handler so the decode
// cadence holds even while the main loop is stuck in a display redraw.
// Service never blocks, so it is safe in interrupt context; the drains in
// the main loop synchronize against it through the interrupt-masked
// critical section.

var (
	msTicks  uint32
	sysTicks = make(chan struct{}, 1)
)

// launchSystick arms the ARM system timer at the knob service rate.
func launchSystick() {
	err := arm.SetupSystemTimer(machine.CPUFrequency() / core.TickHz)
	if err != nil {
		println("error launching systick timer")
	}
}

//go:export SysTick_Handler
func handleSystick() {
	msTicks++
	core.SetTimeMS(msTicks)
	if knob != nil {
		knob.Service()
	}
	select {
	case sysTicks <- struct{}{}:
	default:
	}
}
