// Package wire implements the framed event stream a knurl firmware reports
// knob activity on: one small frame per rotation or button event, with a
// length prefix and CRC16 trailer so a host can resynchronize mid-stream.
package wire

// EventType identifies a frame's payload.
type EventType uint8

const (
	// EventRotate carries a signed notch count including the acceleration
	// bonus, as drained from the device.
	EventRotate EventType = 1

	// EventButton carries a button classification code.
	EventButton EventType = 2
)

// Button classification codes carried by EventButton frames. These mirror
// the device-side enumeration; Open is never reported.
const (
	ButtonHeld          = 1
	ButtonReleased      = 2
	ButtonClicked       = 3
	ButtonDoubleClicked = 4
)

// Framing constants
const (
	FrameMin = 4  // length + type + 16-bit CRC
	FrameMax = 12 // generous upper bound; the longest VLQ payload is five bytes
)

// Event is one decoded knob event.
type Event struct {
	Type  EventType
	Value int32
}
