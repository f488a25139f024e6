package core

import "testing"

// mockGPIODriver is a test implementation of GPIODriver
type mockGPIODriver struct {
	levels    map[GPIOPin]bool
	pullUps   map[GPIOPin]bool
	pullDowns map[GPIOPin]bool
}

func newMockGPIO() *mockGPIODriver {
	return &mockGPIODriver{
		levels:    make(map[GPIOPin]bool),
		pullUps:   make(map[GPIOPin]bool),
		pullDowns: make(map[GPIOPin]bool),
	}
}

func (m *mockGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	m.pullUps[pin] = true
	return nil
}

func (m *mockGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	m.pullDowns[pin] = true
	return nil
}

func (m *mockGPIODriver) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

func (m *mockGPIODriver) set(pin GPIOPin, level bool) {
	m.levels[pin] = level
}

const (
	testPinA   GPIOPin = 2
	testPinB   GPIOPin = 3
	testPinBtn GPIOPin = 4
)

// knobHarness drives a Knob with scripted pin levels and scripted time.
// Tests use active-high wiring so pin level == logical active.
type knobHarness struct {
	t    *testing.T
	gpio *mockGPIODriver
	knob *Knob
	now  uint32
}

func newHarness(t *testing.T, stepsPerNotch uint8) *knobHarness {
	t.Helper()
	gpio := newMockGPIO()
	SetGPIODriver(gpio)
	SetTimeMS(0)

	k, err := NewKnob(testPinA, testPinB, testPinBtn, stepsPerNotch, false)
	if err != nil {
		t.Fatalf("NewKnob failed: %v", err)
	}
	return &knobHarness{t: t, gpio: gpio, knob: k}
}

// tick advances time by n milliseconds, servicing the knob once per
// millisecond like the hardware tick source does.
func (h *knobHarness) tick(n int) {
	for i := 0; i < n; i++ {
		h.now++
		SetTimeMS(h.now)
		h.knob.Service()
	}
}

func (h *knobHarness) setPhases(a, b bool) {
	h.gpio.set(testPinA, a)
	h.gpio.set(testPinB, b)
}

func (h *knobHarness) setButton(pressed bool) {
	h.gpio.set(testPinBtn, pressed)
}

// One full quadrature cycle per direction, starting and ending at rest
// (both phases inactive). Each transition is one valid step.
var (
	cwCycle = [4][2]bool{{false, true}, {true, true}, {true, false}, {false, false}}

	ccwCycle = [4][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}
)

// rotate plays quadrature transitions from the cycle, one per tick.
func (h *knobHarness) rotate(cycle [4][2]bool, transitions int) {
	for i := 0; i < transitions; i++ {
		step := cycle[i%len(cycle)]
		h.setPhases(step[0], step[1])
		h.tick(1)
	}
}
