// Debounced button classification: click, double click, hold.
package core

// ButtonState is the externally visible classification of the push button.
// Clicked, DoubleClicked and Released are one-shot reports; Held persists
// across polls until the physical release.
type ButtonState uint8

const (
	ButtonOpen ButtonState = iota
	ButtonHeld
	ButtonReleased
	ButtonClicked
	ButtonDoubleClicked
)

// Button timing, in milliseconds
const (
	buttonIntervalMS = 10 // sampling interval, also the debounce time

	defaultHoldTimeMS    = 1000
	defaultDoubleClickMS = 600

	// singleClickOnly is the armed-countdown sentinel used when double-click
	// detection is disabled: the next countdown decrement fires a plain
	// click immediately instead of waiting out the double-click window.
	singleClickOnly = 1
)

// buttonFSM is the debounce state machine. The raw line is trusted once per
// sampling interval; everything shorter is discarded as contact noise.
type buttonFSM struct {
	state         ButtonState
	downTicks     uint16 // consecutive intervals the input has read pressed
	pendingTicks  uint16 // double-click countdown, in sampling intervals
	lastCheckMS   uint32
	holdTimeMS    uint16
	doubleClickMS uint16
	doubleClickOn bool
	heldOn        bool
}

func newButtonFSM() buttonFSM {
	return buttonFSM{
		state:         ButtonOpen,
		holdTimeMS:    defaultHoldTimeMS,
		doubleClickMS: defaultDoubleClickMS,
		doubleClickOn: true,
		heldOn:        true,
	}
}

// due reports whether a sampling interval has elapsed, advancing the gate
// when it has. Between intervals the button path is a no-op.
func (b *buttonFSM) due(nowMS uint32) bool {
	if nowMS-b.lastCheckMS < buttonIntervalMS {
		return false
	}
	b.lastCheckMS = nowMS
	return true
}

// sample advances the state machine by one sampling interval.
func (b *buttonFSM) sample(pressed bool) {
	if pressed {
		b.downTicks++
		if b.heldOn && b.downTicks > b.holdTimeMS/buttonIntervalMS {
			b.state = ButtonHeld
		}
	} else {
		// Require a full prior interval of "pressed" so sub-interval
		// transients never classify as a click.
		if b.downTicks > 1 {
			if b.state == ButtonHeld {
				// A completed hold swallows any pending double-click
				// countdown; its release is not a click.
				b.state = ButtonReleased
				b.pendingTicks = 0
			} else if b.pendingTicks > singleClickOnly {
				if b.pendingTicks < b.doubleClickMS/buttonIntervalMS {
					b.state = ButtonDoubleClicked
					b.pendingTicks = 0
				}
			} else {
				if b.doubleClickOn {
					b.pendingTicks = b.doubleClickMS / buttonIntervalMS
				} else {
					b.pendingTicks = singleClickOnly
				}
			}
		}
		b.downTicks = 0
	}

	// Countdown decay runs every interval; expiry reports the armed press
	// as a plain click.
	if b.pendingTicks > 0 {
		b.pendingTicks--
		if b.pendingTicks == 0 {
			b.state = ButtonClicked
		}
	}
}

// poll returns the visible state and consumes one-shot reports. Held is
// sticky: a caller may sample repeatedly during a long hold without losing
// the signal.
func (b *buttonFSM) poll() ButtonState {
	ret := b.state
	if b.state != ButtonHeld && ret != ButtonOpen {
		b.state = ButtonOpen
	}
	return ret
}
