// Package monitor turns the firmware's framed event stream into typed knob
// events for host-side consumers.
package monitor

import (
	"fmt"
	"io"

	"knurl/wire"
)

// KnobEvent is the host-side view of one device event, shaped for JSON
// consumers of the websocket endpoint.
type KnobEvent struct {
	Kind    string `json:"kind"` // "rotate" or "button"
	Notches int32  `json:"notches,omitempty"`
	Button  string `json:"button,omitempty"`
}

// buttonNames maps wire button codes to their JSON names.
var buttonNames = map[int32]string{
	wire.ButtonHeld:          "held",
	wire.ButtonReleased:      "released",
	wire.ButtonClicked:       "clicked",
	wire.ButtonDoubleClicked: "double_clicked",
}

// fromWire converts a decoded frame. Unknown event types and unknown button
// codes are dropped, not errored: the stream may come from newer firmware.
func fromWire(e wire.Event) (KnobEvent, bool) {
	switch e.Type {
	case wire.EventRotate:
		return KnobEvent{Kind: "rotate", Notches: e.Value}, true
	case wire.EventButton:
		name, ok := buttonNames[e.Value]
		if !ok {
			return KnobEvent{}, false
		}
		return KnobEvent{Kind: "button", Button: name}, true
	}
	return KnobEvent{}, false
}

// Monitor drains a firmware event stream and hands each decoded event to
// the sink, in order, from a single goroutine.
type Monitor struct {
	r    io.Reader
	sink func(KnobEvent)
	dec  wire.Decoder
}

// New creates a monitor reading from r. The sink is called inline from Run.
func New(r io.Reader, sink func(KnobEvent)) *Monitor {
	return &Monitor{r: r, sink: sink}
}

// Run reads until the stream ends. A clean EOF returns nil; any other read
// error is returned wrapped. Decode errors never surface here — the wire
// decoder resynchronizes internally.
func (m *Monitor) Run() error {
	buf := make([]byte, 64)
	for {
		n, err := m.r.Read(buf)
		if n > 0 {
			for _, ev := range m.dec.Feed(buf[:n]) {
				if ke, ok := fromWire(ev); ok {
					m.sink(ke)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("event stream read: %w", err)
		}
	}
}
