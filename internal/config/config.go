// Package config loads the YAML configuration of the matrix commands.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/ledmatrix"
)

// SPI selects the bus the chip chain is wired to.
type SPI struct {
	Port    string `yaml:"port,omitempty"` // periph.io port name, e.g. SPI0.0
	Bus     int    `yaml:"bus"`            // spidev bus, used when Port is empty
	Device  int    `yaml:"device"`         // spidev chip enable
	SpeedHz uint32 `yaml:"speed_hz"`       // e.g. 1000000
	CS      string `yaml:"cs,omitempty"`   // optional GPIO chip select, e.g. GPIO8
}

type Config struct {
	Chips     int           `yaml:"chips"`
	Offset    int           `yaml:"offset"`
	Intensity uint8         `yaml:"intensity"`
	Invert    bool          `yaml:"invert"`
	Interval  time.Duration `yaml:"interval"`

	Text   string `yaml:"text,omitempty"`   // printed on every update
	Scroll int    `yaml:"scroll,omitempty"` // columns scrolled per update
	Clock  string `yaml:"clock,omitempty"`  // time layout, replaces Text when set

	SPI SPI `yaml:"spi"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Chips:     ledmatrix.DefaultConfig.Chips,
		Intensity: ledmatrix.DefaultConfig.Intensity,
		Interval:  time.Second,
		SPI: SPI{
			Bus:     ledmatrix.DefaultSPIConfig.Bus,
			Device:  ledmatrix.DefaultSPIConfig.Device,
			SpeedHz: ledmatrix.DefaultSPIConfig.SpeedHz,
		},
	}
}

// Load reads a configuration file, missing values are taken from Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Matrix is the display configuration.
func (c *Config) Matrix() *ledmatrix.Config {
	return &ledmatrix.Config{
		Chips:     c.Chips,
		Offset:    c.Offset,
		Intensity: c.Intensity,
		Invert:    c.Invert,
	}
}

// SPIConfig is the spidev configuration, without a chip select pin.
func (c *Config) SPIConfig() *ledmatrix.SPIConfig {
	return &ledmatrix.SPIConfig{
		Bus:     c.SPI.Bus,
		Device:  c.SPI.Device,
		SpeedHz: c.SPI.SpeedHz,
	}
}
