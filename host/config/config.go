// Package config loads the knurld daemon configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the knurld daemon configuration. Zero values mean "use the
// default"; flags may override individual fields after loading.
type Config struct {
	// Device is the serial device the knurl firmware is attached to.
	Device string `yaml:"device"`

	// Baud is the serial baud rate (ignored by USB CDC links).
	Baud int `yaml:"baud"`

	// Listen is the HTTP listen address for the websocket endpoint.
	Listen string `yaml:"listen"`

	// StepScale multiplies reported notch counts before broadcast, for
	// consumers that map one notch to more than one unit.
	StepScale int `yaml:"step_scale"`

	// Verbose enables per-event debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads and parses a yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses yaml configuration data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(c *Config) {
	if c.Device == "" {
		c.Device = "/dev/ttyACM0"
	}
	if c.Baud == 0 {
		c.Baud = 115200
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8337"
	}
	if c.StepScale == 0 {
		c.StepScale = 1
	}
}
