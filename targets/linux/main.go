//go:build linux && !tinygo

// knurl-linux runs the knob device against sysfs GPIO lines and reports
// events as wire frames on stdout. Useful on single-board computers where
// the encoder hangs off the SoC's own GPIO header.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"knurl/core"
	"knurl/wire"
)

var cli struct {
	PinA      uint32 `default:"17" help:"GPIO number of quadrature phase A."`
	PinB      uint32 `default:"27" help:"GPIO number of quadrature phase B."`
	PinButton uint32 `default:"22" help:"GPIO number of the push button."`
	NoButton  bool   `help:"Run without a button line."`
	Steps     uint8  `default:"4" enum:"1,2,4" help:"Quadrature steps per detent."`
	ActiveLow bool   `default:"true" negatable:"" help:"Lines read low at the active position."`
	Flaky     bool   `help:"Use the lookup-table decoder for noisy contacts."`
	Verbose   bool   `help:"Log every event to stderr."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("knurl-linux"),
		kong.Description("Rotary knob reader for sysfs GPIO."),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	driver := NewSysfsGPIODriver()
	defer driver.Close()
	core.SetGPIODriver(driver)

	pinBtn := core.GPIOPin(cli.PinButton)
	if cli.NoButton {
		pinBtn = core.NoPin
	}

	knob, err := core.NewKnob(core.GPIOPin(cli.PinA), core.GPIOPin(cli.PinB), pinBtn, cli.Steps, cli.ActiveLow)
	kctx.FatalIfErrorf(err)

	if cli.Flaky {
		knob.SetDecodeMode(core.DecodeFlaky)
	}

	ticker, err := NewTicker()
	kctx.FatalIfErrorf(err)
	defer ticker.Close()

	logger.Info("servicing knob",
		"pin_a", cli.PinA, "pin_b", cli.PinB, "button", !cli.NoButton,
		"steps", cli.Steps, "active_low", cli.ActiveLow)

	var (
		frame    []byte
		lastHeld bool
	)
	err = ticker.Run(func() {
		knob.Service()

		frame = frame[:0]

		if notches := knob.Value(); notches != 0 {
			frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventRotate, Value: int32(notches)})
			logger.Debug("rotate", "notches", notches)
		}

		switch state := knob.Button(); state {
		case core.ButtonOpen:
		case core.ButtonHeld:
			if !lastHeld {
				lastHeld = true
				frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventButton, Value: int32(wire.ButtonHeld)})
				logger.Debug("button", "state", "held")
			}
		default:
			lastHeld = false
			frame = wire.AppendFrame(frame, wire.Event{Type: wire.EventButton, Value: buttonCode(state)})
			logger.Debug("button", "state", state)
		}

		if len(frame) > 0 {
			os.Stdout.Write(frame)
		}
	})
	kctx.FatalIfErrorf(err)
}

func buttonCode(s core.ButtonState) int32 {
	switch s {
	case core.ButtonReleased:
		return wire.ButtonReleased
	case core.ButtonClicked:
		return wire.ButtonClicked
	case core.ButtonDoubleClicked:
		return wire.ButtonDoubleClicked
	}
	return 0
}
