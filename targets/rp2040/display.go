//go:build rp2040

package main

import (
	"image/color"
	"machine"
	"strconv"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Readout shows the running notch total and the last button event on a
// 128x32 I2C OLED.
type Readout struct {
	dev     ssd1306.Device
	enabled bool
}

// InitReadout configures I2C0 and the display. A missing display is not an
// error; the readout just stays disabled.
func InitReadout() *Readout {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GPIO4,
		SCL:       machine.GPIO5,
	})
	if err != nil {
		return &Readout{}
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{
		Width:   128,
		Height:  32,
		Address: 0x3C,
	})
	dev.ClearDisplay()

	return &Readout{dev: dev, enabled: true}
}

// Show redraws the readout. Called from the main loop at a slow cadence,
// never from the tick path.
func (r *Readout) Show(total int32, lastButton string) {
	if !r.enabled {
		return
	}

	r.dev.ClearBuffer()
	font := &proggy.TinySZ8pt7b
	tinyfont.WriteLine(&r.dev, font, 0, 10, "pos "+strconv.Itoa(int(total)), white)
	if lastButton != "" {
		tinyfont.WriteLine(&r.dev, font, 0, 24, lastButton, white)
	}
	r.dev.Display()
}
