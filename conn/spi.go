// Package conn provides raw access to Linux spidev devices.
package conn

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotSupported is returned on platforms without spidev.
var ErrNotSupported = errors.New("conn: spidev not supported")

// Definitions from <spi/spidev.h>
const (
	spiCPHA = 0x01
	spiCPOL = 0x02
)

type SPIMode uint8

const (
	SPIMode0 SPIMode = (0 | 0)             //nolint:staticcheck
	SPIMode1 SPIMode = (0 | spiCPHA)       //nolint:staticcheck
	SPIMode2 SPIMode = (spiCPOL | 0)       //nolint:staticcheck
	SPIMode3 SPIMode = (spiCPOL | spiCPHA) //nolint:staticcheck
)

func (m SPIMode) String() string {
	return fmt.Sprintf("mode%d", uint8(m&(spiCPOL|spiCPHA)))
}

// SPI implements the spidev interface.
type SPI struct {
	f           *os.File
	path        string
	mode        SPIMode
	lsbFirst    bool
	bitsPerWord uint8
	maxSpeedHz  uint32
}

// DevicePath returns the spidev device node for the numbered bus and device.
func DevicePath(bus, device int) string {
	return fmt.Sprintf("%s%d.%d", spiDevPath, bus, device)
}

func (c *SPI) Close() error {
	return c.f.Close()
}

func (c *SPI) String() string {
	order := "MSB"
	if c.lsbFirst {
		order = "LSB"
	}
	return fmt.Sprintf("%s %s %s first bits per word=%d max speed=%dHz", c.path, c.mode, order, c.bitsPerWord, c.maxSpeedHz)
}

func (c *SPI) Mode() SPIMode {
	return c.mode
}

func (c *SPI) LSBFirst() bool {
	return c.lsbFirst
}

func (c *SPI) BitsPerWord() uint8 {
	return c.bitsPerWord
}

func (c *SPI) MaxSpeed() int {
	return int(c.maxSpeedHz)
}

// Write sends b in a single transfer, the chip enable line stays asserted for all of it.
func (c *SPI) Write(b []byte) (n int, err error) {
	return c.f.Write(b)
}
