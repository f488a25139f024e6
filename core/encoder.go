// Quadrature decode and acceleration tracking for the rotary input.
// Timer-driven decode scheme after Peter Dannegger's Drehgeber driver.
package core

// DecodeMode selects the quadrature decode algorithm.
type DecodeMode uint8

const (
	// DecodeNormal is the two-bit Gray difference decode for clean hardware.
	DecodeNormal DecodeMode = iota

	// DecodeFlaky validates transitions against a four-bit history table,
	// tolerating contact chatter at half the angular resolution.
	DecodeFlaky

	// DecodeFlakyHalf fires on only two history codes, halving the reported
	// resolution again for very noisy mechanisms.
	DecodeFlakyHalf
)

// Acceleration tuning (for 1kHz Service calls)
const (
	accelMax uint16 = 3072 // ceiling; read-side bonus is level >> 8, so max +12
	accelInc uint16 = 25   // growth per moved tick
	accelDec uint16 = 2    // decay per tick
)

// flakyTable maps a four-bit transition history (previous two-bit phase code
// shifted left, OR'd with the current code) to a validated step. Zero entries
// are indeterminate transitions and decode as no step.
var flakyTable = [16]int8{0, 1, -1, 0, -1, 0, 0, 1, 1, 0, 0, -1, 0, -1, 1, 0}

// flakyHalfTable is the half-resolution variant of flakyTable.
var flakyHalfTable = [16]int8{0, 0, -1, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, -1, 0, 0}

// phaseCode packs the two phase readings into the two-bit code used by
// DecodeNormal: bit1 = A, bit0 = A XOR B. Adjacent detent states then differ
// in exactly one bit.
func phaseCode(a, b bool) uint8 {
	var code uint8
	if a {
		code = 3
	}
	if b {
		code ^= 1
	}
	return code
}

// historyCode packs the raw phase readings for the table modes: bit1 = A, bit0 = B.
func historyCode(a, b bool) uint8 {
	var code uint8
	if a {
		code |= 2
	}
	if b {
		code |= 1
	}
	return code
}

// decodeStep advances the phase history and returns the validated step for
// this tick: +1, -1, or 0. Transitions where both bits flipped at once, or
// that land on an indeterminate table entry, never register as movement;
// at the 1kHz re-sample rate a missed step is cheaper than a spurious one.
func decodeStep(mode DecodeMode, last *uint8, a, b bool) int8 {
	switch mode {
	case DecodeFlaky:
		*last = (*last<<2)&0x0F | historyCode(a, b)
		return flakyTable[*last]
	case DecodeFlakyHalf:
		*last = (*last<<2)&0x0F | historyCode(a, b)
		return flakyHalfTable[*last]
	default:
		curr := phaseCode(a, b)
		diff := *last - curr
		if diff&1 == 0 {
			return 0
		}
		*last = curr
		return int8(diff&2) - 1
	}
}

// seedPhase returns the initial phase history for the given mode, read from
// the live pin levels so the first Service tick is not decoded as motion.
func seedPhase(mode DecodeMode, a, b bool) uint8 {
	if mode == DecodeNormal {
		return phaseCode(a, b)
	}
	return historyCode(a, b)
}

// accelTick applies the per-tick decay and, on a moved tick, the growth to
// the acceleration level. Decay always runs, so a moving tick nets +23 and
// the level is a proxy for recent angular velocity: it saturates after
// roughly 130 consecutive moving ticks and fully drains after 1536 idle ones.
func accelTick(level uint16, moved bool) uint16 {
	if level >= accelDec {
		level -= accelDec
	} else {
		level = 0
	}
	if moved && level <= accelMax-accelInc {
		level += accelInc
	}
	return level
}
