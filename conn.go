package ledmatrix

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/ledmatrix/conn"
)

// Conn is the connection interface for communicating with the chip chain.
//
// Bytes written between Enable and Disable form one chip select window: the chips
// latch the last command shifted into them when chip select is released.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Enable opens a chip select window.
	Enable() error

	// Disable sends the bytes written since Enable and closes the window.
	Disable() error

	// WriteByte adds one byte, most significant bit first, to the open window.
	WriteByte(byte) error
}

// MaxSpeed is the fastest serial clock the MAX7219 supports.
const MaxSpeed = 10 * physic.MegaHertz

// window collects the bytes of one chip select window.
type window struct {
	open   bool
	closed bool
	buf    []byte
}

func (w *window) enable() error {
	if w.closed {
		return ErrClosed
	}
	if w.open {
		return ErrBusBusy
	}
	w.open = true
	w.buf = w.buf[:0]
	return nil
}

func (w *window) WriteByte(b byte) error {
	if !w.open {
		return ErrBusIdle
	}
	w.buf = append(w.buf, b)
	return nil
}

func (w *window) release() ([]byte, error) {
	if !w.open {
		return nil, ErrBusIdle
	}
	w.open = false
	return w.buf, nil
}

type portConn struct {
	window
	conn spi.Conn
}

// NewSPI connects to the chip chain on a periph.io SPI port.
//
// The port is used in Mode0 with 8-bit words, most significant bit first. A zero
// speed selects 1MHz, speeds above MaxSpeed are reduced to MaxSpeed.
func NewSPI(p spi.Port, speed physic.Frequency) (Conn, error) {
	if speed <= 0 {
		speed = physic.Frequency(DefaultSPIConfig.SpeedHz) * physic.Hertz
	} else if speed > MaxSpeed {
		speed = MaxSpeed
	}

	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ledmatrix: %w", err)
	}
	return &portConn{conn: c}, nil
}

func (c *portConn) String() string {
	return fmt.Sprintf("SPI port %s", c.conn)
}

// Close the connection, the port itself is owned by the caller.
func (c *portConn) Close() error {
	c.closed = true
	return nil
}

func (c *portConn) Enable() error {
	return c.enable()
}

func (c *portConn) Disable() error {
	w, err := c.release()
	if err != nil || len(w) == 0 {
		return err
	}
	return c.conn.Tx(w, nil)
}

// SPIConfig describes the spidev bus configuration.
type SPIConfig struct {
	// Bus is the spidev bus number.
	Bus int

	// Device is the spidev device (chip enable) number.
	Device int

	// SpeedHz is the serial clock speed.
	SpeedHz uint32

	// CS is an optional chip select pin, driven low for the duration of a window. The
	// chip enable line of the spidev device frames every transfer regardless.
	CS gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:     0,
	Device:  0,
	SpeedHz: 1_000_000,
}

// ValidSPISpeeds are common valid SPI bus speeds for the MAX7219.
var ValidSPISpeeds = []uint32{
	100_000,
	250_000,
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	5_000_000,
	8_000_000,
	10_000_000,
}

type spiBus interface {
	io.WriteCloser
	String() string
}

type spiConn struct {
	window
	bus spiBus
	cs  gpio.PinOut
}

// OpenSPI opens a spidev device connected to the chip chain.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}

	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("ledmatrix: invalid SPI speed %dHz", config.SpeedHz)
	}

	c, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = setupSPI(c, config); err != nil {
		_ = c.Close()
		return nil, err
	}

	if config.CS != nil {
		if err = config.CS.Out(gpio.High); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("ledmatrix: chip select %s: %w", config.CS, err)
		}
	}

	return &spiConn{
		bus: c,
		cs:  config.CS,
	}, nil
}

func setupSPI(c *conn.SPI, config *SPIConfig) (err error) {
	if err = c.SetMode(conn.SPIMode0); err != nil {
		return
	}
	if err = c.SetLSBFirst(false); err != nil {
		return
	}
	if err = c.SetBitsPerWord(8); err != nil {
		return
	}
	return c.SetMaxSpeed(int(config.SpeedHz))
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	c.closed = true
	return c.bus.Close()
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Enable() (err error) {
	if err = c.enable(); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		c.open = false
	}
	return
}

func (c *spiConn) Disable() (err error) {
	var w []byte
	if w, err = c.release(); err != nil {
		return
	}
	if len(w) > 0 {
		_, err = c.bus.Write(w)
	}
	if csErr := c.updateCS(gpio.High); err == nil {
		err = csErr
	}
	return
}
