// Rotary click-encoder device: quadrature decode with velocity-based
// acceleration plus a debounced click/hold button, serviced from a 1kHz tick
// and drained asynchronously by application code.
package core

// Knob is one rotary click-encoder. Service runs in the tick context
// (interrupt handler on hardware, ticker goroutine on host Go); Value and
// Button may be called at any cadence from application code. The shared
// accumulator and button state are only touched inside the interrupt-masked
// critical section, so drains are atomic with respect to the tick.
type Knob struct {
	pinA   GPIOPin
	pinB   GPIOPin
	pinBtn GPIOPin

	activeLow bool
	steps     uint8 // steps per notch: 1, 2 or 4
	mode      DecodeMode
	accelOn   bool

	last  uint8 // phase history, written only by Service
	delta int16 // step accumulator, drained by Value
	accel uint16

	button buttonFSM
}

// NewKnob configures a full encoder-plus-button device. Either channel may
// be disabled by passing NoPin. stepsPerNotch must be 1, 2 or 4; anything
// else falls back to 1. Active-low wiring gets internal pull-ups,
// active-high gets pull-downs.
func NewKnob(pinA, pinB, pinButton GPIOPin, stepsPerNotch uint8, activeLow bool) (*Knob, error) {
	k := &Knob{
		pinA:      pinA,
		pinB:      pinB,
		pinBtn:    pinButton,
		activeLow: activeLow,
		steps:     stepsPerNotch,
		accelOn:   true,
		button:    newButtonFSM(),
	}
	if k.steps != 2 && k.steps != 4 {
		k.steps = 1
	}

	for _, pin := range []GPIOPin{pinA, pinB, pinButton} {
		if pin == NoPin {
			continue
		}
		var err error
		if activeLow {
			err = MustGPIO().ConfigureInputPullUp(pin)
		} else {
			err = MustGPIO().ConfigureInputPullDown(pin)
		}
		if err != nil {
			return nil, err
		}
	}

	if k.hasEncoder() {
		k.last = seedPhase(k.mode, k.readActive(k.pinA), k.readActive(k.pinB))
	}
	return k, nil
}

// NewButton configures a button-only device with no encoder channel.
func NewButton(pinButton GPIOPin, activeLow bool) (*Knob, error) {
	return NewKnob(NoPin, NoPin, pinButton, 1, activeLow)
}

func (k *Knob) hasEncoder() bool {
	return k.pinA != NoPin && k.pinB != NoPin
}

// readActive reads a pin as a logical "at its active level" boolean.
func (k *Knob) readActive(pin GPIOPin) bool {
	return MustGPIO().ReadPin(pin) != k.activeLow
}

// Service advances the decoder, the acceleration tracker and (once per
// sampling interval) the button state machine. Call it once per millisecond
// from the platform tick source. It never blocks and has no failure path:
// glitchy input decodes as "no event".
func (k *Knob) Service() {
	if k.hasEncoder() {
		a := k.readActive(k.pinA)
		b := k.readActive(k.pinB)

		state := disableInterrupts()
		step := decodeStep(k.mode, &k.last, a, b)
		if step != 0 {
			k.delta += int16(step)
		}
		k.accel = accelTick(k.accel, step != 0)
		restoreInterrupts(state)
	}

	if k.pinBtn != NoPin && k.button.due(GetTimeMS()) {
		pressed := k.readActive(k.pinBtn)

		state := disableInterrupts()
		k.button.sample(pressed)
		restoreInterrupts(state)
	}
}

// Value drains the step accumulator and reports the rotation since the last
// call, collapsed to direction: -(1+bonus), 0, or +(1+bonus), where bonus is
// the acceleration level scaled into 0..12. Residual sub-notch steps are
// retained across calls so slow rotation between polls is never lost.
func (k *Knob) Value() int16 {
	state := disableInterrupts()
	val := k.delta
	switch k.steps {
	case 2:
		k.delta = val & 1
	case 4:
		k.delta = val & 3
	default:
		k.delta = 0
	}
	var bonus int16
	if k.accelOn {
		bonus = int16(k.accel >> 8)
	}
	restoreInterrupts(state)

	switch k.steps {
	case 2:
		val >>= 1
	case 4:
		val >>= 2
	}

	switch {
	case val < 0:
		return -(1 + bonus)
	case val > 0:
		return 1 + bonus
	}
	return 0
}

// Button returns the current button classification and consumes it; see
// ButtonState for the one-shot/sticky split.
func (k *Knob) Button() ButtonState {
	state := disableInterrupts()
	ret := k.button.poll()
	restoreInterrupts(state)
	return ret
}

// SetDecodeMode switches the decode algorithm and reseeds the phase history
// from the live pin levels so the switch itself is not read as motion.
func (k *Knob) SetDecodeMode(mode DecodeMode) {
	if !k.hasEncoder() {
		return
	}
	a := k.readActive(k.pinA)
	b := k.readActive(k.pinB)

	state := disableInterrupts()
	k.mode = mode
	k.last = seedPhase(mode, a, b)
	restoreInterrupts(state)
}

// SetAccelerationEnabled toggles the velocity bonus. The level keeps
// decaying while disabled, so re-enabling never reports stale velocity.
func (k *Knob) SetAccelerationEnabled(on bool) {
	state := disableInterrupts()
	k.accelOn = on
	restoreInterrupts(state)
}

// SetDoubleClickEnabled toggles double-click detection. When off, a short
// press reports Clicked on the next sampling interval instead of waiting
// out the double-click window.
func (k *Knob) SetDoubleClickEnabled(on bool) {
	state := disableInterrupts()
	k.button.doubleClickOn = on
	restoreInterrupts(state)
}

// SetHeldEnabled toggles hold detection.
func (k *Knob) SetHeldEnabled(on bool) {
	state := disableInterrupts()
	k.button.heldOn = on
	restoreInterrupts(state)
}

// SetHoldTime sets the press duration, in milliseconds, after which the
// button reports Held.
func (k *Knob) SetHoldTime(ms uint16) {
	state := disableInterrupts()
	k.button.holdTimeMS = ms
	restoreInterrupts(state)
}

// SetDoubleClickTime sets the window, in milliseconds, within which a second
// press reports DoubleClicked.
func (k *Knob) SetDoubleClickTime(ms uint16) {
	state := disableInterrupts()
	k.button.doubleClickMS = ms
	restoreInterrupts(state)
}
