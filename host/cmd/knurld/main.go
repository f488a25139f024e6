// knurld bridges a knurl firmware to desktop consumers: it decodes the
// serial event stream and re-broadcasts each knob event as JSON over a
// websocket endpoint.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"knurl/host/config"
	"knurl/host/hub"
	"knurl/host/monitor"
	"knurl/host/serial"
)

var cli struct {
	Config  string `help:"Path to yaml config file." type:"path"`
	Device  string `help:"Serial device path (overrides config)."`
	Baud    int    `help:"Serial baud rate (overrides config)."`
	Listen  string `help:"Websocket listen address (overrides config)."`
	Verbose bool   `help:"Log every knob event."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("knurld"),
		kong.Description("Knob event daemon for knurl firmware."),
	)

	cfg := config.Default()
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		kctx.FatalIfErrorf(err)
		cfg = loaded
	}
	if cli.Device != "" {
		cfg.Device = cli.Device
	}
	if cli.Baud != 0 {
		cfg.Baud = cli.Baud
	}
	if cli.Listen != "" {
		cfg.Listen = cli.Listen
	}
	if cli.Verbose {
		cfg.Verbose = true
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	serialCfg := serial.DefaultConfig(cfg.Device)
	serialCfg.Baud = cfg.Baud
	port, err := serial.Open(serialCfg)
	kctx.FatalIfErrorf(err)
	defer port.Close()

	h := hub.New(logger)
	defer h.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())
	go func() {
		logger.Info("websocket endpoint listening", "addr", cfg.Listen)
		if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
			logger.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	logger.Info("reading knob events", "device", cfg.Device)
	mon := monitor.New(port, func(ev monitor.KnobEvent) {
		if ev.Kind == "rotate" {
			ev.Notches *= int32(cfg.StepScale)
		}
		logger.Debug("knob event", "kind", ev.Kind, "notches", ev.Notches, "button", ev.Button)
		h.Broadcast(ev)
	})
	kctx.FatalIfErrorf(mon.Run())
	logger.Info("event stream ended")
}
