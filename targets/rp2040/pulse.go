//go:build rp2040

package main

// PIO activity pulser. Each detent queues one command word and the state
// machine flashes the activity LED without any CPU involvement, so the
// service loop keeps its 1ms cadence even while the LED is lit.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Command word format:
//
//	Bits 0-15: flash count
//	Bits 16-23: gap cycles between flashes
//
// buildPulseProgram creates the flasher PIO program using AssemblerV0
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),        // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(), // 1: out x, 16 (flash count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),  // 2: out y, 8 (gap cycles)
		// flash_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 3: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 4: set pins, 0
		// gap_loop:
		asm.Jmp(5, rp2pio.JmpYNZeroDec).Encode(), // 5: jmp y--, 5
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(), // 6: jmp x--, 3
		// .wrap
	}
}

const pulsePIOOrigin = 0 // Load at offset 0 for correct jump addresses

// ActivityPulser drives an LED from a PIO state machine, one flash per
// queued detent.
type ActivityPulser struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	ledPin machine.Pin
	offset uint8
}

// NewActivityPulser claims a state machine on the given PIO block.
func NewActivityPulser(pioNum, smNum uint8) *ActivityPulser {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &ActivityPulser{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the flasher program and starts the state machine.
func (p *ActivityPulser) Init(ledPin machine.Pin) error {
	p.ledPin = ledPin

	p.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := p.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		return err
	}
	p.offset = offset

	p.ledPin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.ledPin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// Slow clock so each flash is visible: ~1.9kHz, 8 cycles high per flash.
	cfg.SetClkDivIntFrac(65500, 0)

	p.sm.Init(offset, cfg)

	p.sm.SetPindirsConsecutive(p.ledPin, 1, true)
	p.sm.SetPinsConsecutive(p.ledPin, 1, false)

	p.sm.SetEnabled(true)
	return nil
}

// Pulse queues one flash per notch moved. Dropped when the FIFO is full
// rather than stalling the service loop.
func (p *ActivityPulser) Pulse(notches int) {
	if notches < 0 {
		notches = -notches
	}
	if notches == 0 || notches > 0xFFFF {
		return
	}
	if p.sm.IsTxFIFOFull() {
		return
	}
	// gap of 32 cycles between flashes
	p.sm.TxPut(uint32(notches) | (32 << 16))
}
