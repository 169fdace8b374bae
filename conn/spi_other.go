//go:build !linux

package conn

const spiDevPath = "/dev/spidev"

func OpenSPI(_, _ int) (*SPI, error) {
	return nil, ErrNotSupported
}

func (c *SPI) SetMode(SPIMode) error {
	return ErrNotSupported
}

func (c *SPI) SetLSBFirst(bool) error {
	return ErrNotSupported
}

func (c *SPI) SetBitsPerWord(uint8) error {
	return ErrNotSupported
}

func (c *SPI) SetMaxSpeed(int) error {
	return ErrNotSupported
}
