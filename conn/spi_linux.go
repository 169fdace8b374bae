//go:build linux

package conn

import (
	"fmt"
	"os"

	"github.com/BeatGlow/ledmatrix/internal/ioctl"
)

const spiDevPath = "/dev/spidev"

// spidev ioctl numbers, type 'k'.
const (
	spiIOCMagic       = 0x6b
	spiIOCMode        = 0x01
	spiIOCLSBFirst    = 0x02
	spiIOCBitsPerWord = 0x03
	spiIOCMaxSpeedHz  = 0x04
)

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	path := DevicePath(bus, device)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &SPI{
		f:    f,
		path: path,
	}
	if err = c.readSettings(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, nil
}

func (c *SPI) readSettings() error {
	fd := c.f.Fd()
	mode, err := ioctl.Read8(fd, spiIOCMagic, spiIOCMode)
	if err != nil {
		return err
	}
	lsb, err := ioctl.Read8(fd, spiIOCMagic, spiIOCLSBFirst)
	if err != nil {
		return err
	}
	if c.bitsPerWord, err = ioctl.Read8(fd, spiIOCMagic, spiIOCBitsPerWord); err != nil {
		return err
	}
	if c.maxSpeedHz, err = ioctl.Read32(fd, spiIOCMagic, spiIOCMaxSpeedHz); err != nil {
		return err
	}
	c.mode = SPIMode(mode)
	c.lsbFirst = lsb != 0
	return nil
}

func (c *SPI) SetMode(mode SPIMode) error {
	mode &= 0x0f

	fd := c.f.Fd()
	if err := ioctl.Write8(fd, spiIOCMagic, spiIOCMode, uint8(mode)); err != nil {
		return err
	}

	test, err := ioctl.Read8(fd, spiIOCMagic, spiIOCMode)
	if err != nil {
		return err
	}
	if SPIMode(test) != mode {
		return fmt.Errorf("conn: SPI attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	c.mode = mode
	return nil
}

func (c *SPI) SetLSBFirst(lsb bool) error {
	var v uint8
	if lsb {
		v = 1
	}
	if err := ioctl.Write8(c.f.Fd(), spiIOCMagic, spiIOCLSBFirst, v); err != nil {
		return err
	}
	c.lsbFirst = lsb
	return nil
}

func (c *SPI) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", bits)
	}

	if c.bitsPerWord != bits {
		if err := ioctl.Write8(c.f.Fd(), spiIOCMagic, spiIOCBitsPerWord, bits); err != nil {
			return err
		}
		c.bitsPerWord = bits
	}

	return nil
}

func (c *SPI) SetMaxSpeed(v int) error {
	if v < 0 {
		return nil
	}

	u := uint32(v)
	if c.maxSpeedHz != u {
		if err := ioctl.Write32(c.f.Fd(), spiIOCMagic, spiIOCMaxSpeedHz, u); err != nil {
			return err
		}
		c.maxSpeedHz = u
	}

	return nil
}
