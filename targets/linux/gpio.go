//go:build linux && !tinygo

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"knurl/core"
)

const gpioRoot = "/sys/class/gpio"

// SysfsGPIODriver reads pins through the kernel sysfs GPIO interface. Sysfs
// exposes no bias control, so the pull resistor requested by core must come
// from the board wiring or the device tree; the configure calls only export
// the line and set it to input.
type SysfsGPIODriver struct {
	valueFiles map[core.GPIOPin]*os.File
}

func NewSysfsGPIODriver() *SysfsGPIODriver {
	return &SysfsGPIODriver{
		valueFiles: make(map[core.GPIOPin]*os.File),
	}
}

func (d *SysfsGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configureInput(pin)
}

func (d *SysfsGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configureInput(pin)
}

func (d *SysfsGPIODriver) configureInput(pin core.GPIOPin) error {
	if _, exists := d.valueFiles[pin]; exists {
		return nil
	}

	num := strconv.Itoa(int(pin))
	pinDir := filepath.Join(gpioRoot, "gpio"+num)

	if _, err := os.Stat(pinDir); os.IsNotExist(err) {
		if err := os.WriteFile(filepath.Join(gpioRoot, "export"), []byte(num), 0o200); err != nil {
			return fmt.Errorf("failed to export gpio%s: %w", num, err)
		}
		// The kernel needs a moment to create the pin directory and fix
		// its permissions after export.
		time.Sleep(50 * time.Millisecond)
	}

	if err := os.WriteFile(filepath.Join(pinDir, "direction"), []byte("in"), 0o200); err != nil {
		return fmt.Errorf("failed to set gpio%s direction: %w", num, err)
	}

	f, err := os.Open(filepath.Join(pinDir, "value"))
	if err != nil {
		return fmt.Errorf("failed to open gpio%s value: %w", num, err)
	}
	d.valueFiles[pin] = f
	return nil
}

func (d *SysfsGPIODriver) ReadPin(pin core.GPIOPin) bool {
	f, exists := d.valueFiles[pin]
	if !exists {
		return false
	}

	var buf [1]byte
	if _, err := f.ReadAt(buf[:], 0); err != nil {
		return false
	}
	return buf[0] == '1'
}

// Close releases the open value files. The pins stay exported.
func (d *SysfsGPIODriver) Close() {
	for _, f := range d.valueFiles {
		f.Close()
	}
}
