package core

import (
	"testing"
)

func TestKnobSingleNotch(t *testing.T) {
	h := newHarness(t, 4)
	h.knob.SetAccelerationEnabled(false)

	// Four valid quarter-transitions form one detent; intermediate polls
	// must report nothing and must not lose the sub-notch progress.
	for i := 0; i < 3; i++ {
		h.setPhases(cwCycle[i][0], cwCycle[i][1])
		h.tick(1)
		if got := h.knob.Value(); got != 0 {
			t.Fatalf("after %d quarter steps: Value() = %d, want 0", i+1, got)
		}
	}
	h.setPhases(cwCycle[3][0], cwCycle[3][1])
	h.tick(1)

	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d, want 1 after full detent", got)
	}
	if got := h.knob.Value(); got != 0 {
		t.Errorf("Value() = %d, want 0 after drain", got)
	}
}

func TestKnobReverseNotch(t *testing.T) {
	h := newHarness(t, 4)
	h.knob.SetAccelerationEnabled(false)

	h.rotate(ccwCycle, 4)
	if got := h.knob.Value(); got != -1 {
		t.Errorf("Value() = %d, want -1", got)
	}
}

func TestKnobResidualAcrossDrains(t *testing.T) {
	h := newHarness(t, 4)
	h.knob.SetAccelerationEnabled(false)

	h.rotate(cwCycle, 2)
	if got := h.knob.Value(); got != 0 {
		t.Fatalf("Value() = %d mid-detent, want 0", got)
	}
	// The two residual steps survived the drain; two more complete the detent.
	for i := 2; i < 4; i++ {
		h.setPhases(cwCycle[i][0], cwCycle[i][1])
		h.tick(1)
	}
	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d, want 1 (residual steps retained)", got)
	}
}

func TestKnobStepsPerNotchOne(t *testing.T) {
	h := newHarness(t, 1)
	h.knob.SetAccelerationEnabled(false)

	h.setPhases(cwCycle[0][0], cwCycle[0][1])
	h.tick(1)
	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d, want 1 per step with stepsPerNotch=1", got)
	}
}

func TestKnobAccelerationBonus(t *testing.T) {
	h := newHarness(t, 1)

	// Continuous same-direction motion for 160 ticks saturates the
	// acceleration level; the drained value carries the velocity bonus.
	h.rotate(cwCycle, 160)
	fast := h.knob.Value()
	if fast <= 1 {
		t.Errorf("Value() = %d after sustained motion, want > 1", fast)
	}
	if fast > 13 {
		t.Errorf("Value() = %d exceeds maximum bonus of +12", fast)
	}

	// An isolated step reports without bonus.
	h2 := newHarness(t, 1)
	h2.setPhases(cwCycle[0][0], cwCycle[0][1])
	h2.tick(1)
	if got := h2.knob.Value(); got != 1 {
		t.Errorf("isolated step Value() = %d, want 1", got)
	}
	if fast <= h2.knob.Value() {
		t.Errorf("sustained motion did not outpace a single detent")
	}
}

func TestKnobAccelerationFullyDecays(t *testing.T) {
	h := newHarness(t, 1)

	h.rotate(cwCycle, 160)
	h.knob.Value()

	// 1536 idle ticks drain any level back to zero.
	h.tick(1536)
	if h.knob.accel != 0 {
		t.Fatalf("acceleration level = %d after decay window, want 0", h.knob.accel)
	}

	h.setPhases(cwCycle[0][0], cwCycle[0][1])
	h.tick(1)
	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d after full decay, want 1", got)
	}
}

func TestKnobAccelerationDisabledAtRead(t *testing.T) {
	h := newHarness(t, 1)

	h.rotate(cwCycle, 160)
	h.knob.SetAccelerationEnabled(false)
	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d with acceleration off, want 1", got)
	}
}

func TestKnobFirstTickAfterSeedIsQuiet(t *testing.T) {
	gpio := newMockGPIO()
	SetGPIODriver(gpio)
	SetTimeMS(0)

	// Construct with the shaft resting mid-phase: the seed must absorb the
	// levels so the first tick reports no motion.
	gpio.set(testPinA, true)
	gpio.set(testPinB, true)
	k, err := NewKnob(testPinA, testPinB, NoPin, 1, false)
	if err != nil {
		t.Fatalf("NewKnob failed: %v", err)
	}
	k.Service()
	if got := k.Value(); got != 0 {
		t.Errorf("Value() = %d on first tick, want 0", got)
	}
}

func TestKnobFlakyMode(t *testing.T) {
	h := newHarness(t, 4)
	h.knob.SetAccelerationEnabled(false)
	h.knob.SetDecodeMode(DecodeFlaky)

	h.rotate(cwCycle, 4)
	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d in flaky mode, want 1", got)
	}
}

func TestKnobButtonHoldThroughTickGate(t *testing.T) {
	h := newHarness(t, 4)

	h.setButton(true)
	h.tick(1100)
	if got := h.knob.Button(); got != ButtonHeld {
		t.Fatalf("Button() = %d after 1.1s press, want Held", got)
	}
	if got := h.knob.Button(); got != ButtonHeld {
		t.Errorf("repeated Button() = %d, want Held", got)
	}

	h.setButton(false)
	h.tick(30)
	if got := h.knob.Button(); got != ButtonReleased {
		t.Errorf("Button() = %d after release, want Released", got)
	}
	if got := h.knob.Button(); got != ButtonOpen {
		t.Errorf("Button() = %d, want Open", got)
	}
}

func TestKnobButtonDoubleClickTiming(t *testing.T) {
	h := newHarness(t, 4)

	h.setButton(true)
	h.tick(50)
	h.setButton(false)
	h.tick(100)
	h.setButton(true)
	h.tick(50)
	h.setButton(false)
	h.tick(30)

	if got := h.knob.Button(); got != ButtonDoubleClicked {
		t.Errorf("Button() = %d, want DoubleClicked", got)
	}
	h.tick(1300)
	if got := h.knob.Button(); got != ButtonOpen {
		t.Errorf("Button() = %d, want Open (no trailing click)", got)
	}
}

func TestButtonOnlyDevice(t *testing.T) {
	gpio := newMockGPIO()
	SetGPIODriver(gpio)
	SetTimeMS(0)

	k, err := NewButton(testPinBtn, false)
	if err != nil {
		t.Fatalf("NewButton failed: %v", err)
	}

	var now uint32
	tick := func(n int) {
		for i := 0; i < n; i++ {
			now++
			SetTimeMS(now)
			k.Service()
		}
	}

	gpio.set(testPinBtn, true)
	tick(50)
	gpio.set(testPinBtn, false)
	tick(700)

	if got := k.Button(); got != ButtonClicked {
		t.Errorf("Button() = %d, want Clicked", got)
	}
	if got := k.Value(); got != 0 {
		t.Errorf("Value() = %d on button-only device, want 0", got)
	}
}

func TestKnobActiveLowPullups(t *testing.T) {
	gpio := newMockGPIO()
	SetGPIODriver(gpio)
	SetTimeMS(0)

	// Active-low wiring: lines idle high through internal pull-ups.
	gpio.set(testPinA, true)
	gpio.set(testPinB, true)
	gpio.set(testPinBtn, true)

	k, err := NewKnob(testPinA, testPinB, testPinBtn, 1, true)
	if err != nil {
		t.Fatalf("NewKnob failed: %v", err)
	}
	for _, pin := range []GPIOPin{testPinA, testPinB, testPinBtn} {
		if !gpio.pullUps[pin] {
			t.Errorf("pin %d not configured with pull-up", pin)
		}
	}

	k.Service()
	if got := k.Value(); got != 0 {
		t.Errorf("Value() = %d at rest, want 0", got)
	}

	// Pulling phase B low is the first active-low quarter step.
	gpio.set(testPinB, false)
	k.Service()
	k.SetAccelerationEnabled(false)
	if got := k.Value(); got == 0 {
		t.Errorf("active-low transition not decoded")
	}
}

func TestKnobDelayedDrainLosesNothing(t *testing.T) {
	h := newHarness(t, 4)
	h.knob.SetAccelerationEnabled(false)

	// Two full detents and a completed click, serviced every tick but not
	// drained until long afterwards. A consumer stalled for hundreds of
	// ticks (a slow display redraw, a busy host) must still see the
	// rotation direction and the pending click report.
	h.rotate(cwCycle, 8)
	h.setButton(true)
	h.tick(50)
	h.setButton(false)
	h.tick(700)

	if got := h.knob.Value(); got != 1 {
		t.Errorf("Value() = %d after delayed drain, want 1", got)
	}
	if got := h.knob.Value(); got != 0 {
		t.Errorf("Value() = %d after drain, want 0", got)
	}
	if got := h.knob.Button(); got != ButtonClicked {
		t.Errorf("Button() = %d after delayed poll, want Clicked", got)
	}
}

func TestKnobConcurrentDrain(t *testing.T) {
	h := newHarness(t, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.rotate(cwCycle, 400)
	}()

	// Poll concurrently with the tick goroutine; every drained value must
	// stay within the direction-plus-bonus envelope.
	for i := 0; i < 200; i++ {
		v := h.knob.Value()
		if v < -13 || v > 13 {
			t.Fatalf("torn read: Value() = %d", v)
		}
	}
	<-done
}
