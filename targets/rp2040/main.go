//go:build rp2040

package main

import (
	"machine"
	"time"

	"knurl/core"
	"knurl/wire"
)

// Default wiring for the reference board. A and B are the quadrature
// phases, the button shorts to ground when pressed. GPIO4/GPIO5 are the
// readout's I2C0 pair and must stay clear of the input pins.
const (
	pinA   = core.GPIOPin(2)
	pinB   = core.GPIOPin(3)
	pinBtn = core.GPIOPin(6)

	stepsPerNotch = 4
	activeLow     = true

	displayIntervalMS = 100
)

// knob is serviced from the SysTick handler; main only drains it.
var knob *core.Knob

var buttonLabels = map[core.ButtonState]string{
	core.ButtonHeld:          "held",
	core.ButtonReleased:      "released",
	core.ButtonClicked:       "clicked",
	core.ButtonDoubleClicked: "double",
}

func buttonWireCode(s core.ButtonState) int32 {
	switch s {
	case core.ButtonHeld:
		return wire.ButtonHeld
	case core.ButtonReleased:
		return wire.ButtonReleased
	case core.ButtonClicked:
		return wire.ButtonClicked
	case core.ButtonDoubleClicked:
		return wire.ButtonDoubleClicked
	}
	return 0
}

func main() {
	core.SetGPIODriver(NewRPGPIODriver())

	k, err := core.NewKnob(pinA, pinB, pinBtn, stepsPerNotch, activeLow)
	if err != nil {
		// Pin configuration cannot fail on this target; treat it as fatal.
		for {
			println("knob init failed:", err.Error())
			time.Sleep(time.Second)
		}
	}

	pulser := NewActivityPulser(0, 0)
	if err := pulser.Init(machine.LED); err != nil {
		println("pio pulser unavailable:", err.Error())
		pulser = nil
	}

	readout := InitReadout()

	// Publish the knob to the tick handler last, once all pin muxing
	// (including the readout's I2C pair) is settled.
	knob = k
	launchSystick()

	var (
		total         int32
		lastButton    string
		lastHeld      bool
		frame         []byte
		nextDisplayMS uint32 = displayIntervalMS
	)

	// Decode runs in the tick handler; this loop only drains accumulated
	// state, so a slow display redraw delays reports without losing
	// quadrature transitions.
	for range sysTicks {
		frame = frame[:0]

		if notches := knob.Value(); notches != 0 {
			total += int32(notches)
			frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventRotate, Value: int32(notches)})
			if pulser != nil {
				pulser.Pulse(int(notches))
			}
		}

		switch state := knob.Button(); state {
		case core.ButtonOpen:
		case core.ButtonHeld:
			// Held is sticky; report the edge once.
			if !lastHeld {
				lastHeld = true
				lastButton = buttonLabels[state]
				frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventButton, Value: buttonWireCode(state)})
			}
		default:
			lastHeld = false
			lastButton = buttonLabels[state]
			frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventButton, Value: buttonWireCode(state)})
		}

		if len(frame) > 0 {
			machine.Serial.Write(frame)
		}

		if now := core.GetTimeMS(); now >= nextDisplayMS {
			nextDisplayMS = now + displayIntervalMS
			readout.Show(total, lastButton)
		}
	}
}
