package ledmatrix

import (
	"fmt"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/BeatGlow/ledmatrix/font"
	"github.com/BeatGlow/ledmatrix/pixel"
)

// Matrix is a chain of MAX7219 chips driving 8x8 LED matrices.
//
// Matrix is not safe for concurrent use: drawing, Update and Refresh must all
// happen on the same goroutine.
type Matrix struct {
	c         Conn
	log       zerolog.Logger
	buf       *pixel.MonoVerticalLSBImage
	chips     int
	offset    int
	intensity uint8
	invert    bool
	writer    Writer
	maxX      int // rightmost column drawn since the last Clear
	stepsLeft int // accumulated ScrollLeft steps
	halted    bool
}

// MAX7219 sets up a chain of MAX7219 chips on conn and powers it on.
func MAX7219(conn Conn, config *Config) (*Matrix, error) {
	c := DefaultConfig
	if config != nil {
		c = *config
	}
	config = &c

	log := zlog.Logger
	if config.Logger != nil {
		log = *config.Logger
	}
	log = log.With().Str("driver", "max7219").Logger()
	config.normalize(log)

	d := &Matrix{
		c:         conn,
		log:       log,
		chips:     config.Chips,
		offset:    config.Offset,
		intensity: config.Intensity,
		invert:    config.Invert,
		writer:    config.Writer,
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Matrix) init() (err error) {
	d.log.Info().Int("chips", d.chips).Int("offset", d.offset).Msg("setting up")

	d.buf = pixel.NewMonoVerticalLSBImage((d.chips+d.offset)*font.Size, Height)
	d.stepsLeft = 0

	for _, command := range [][2]byte{
		{max7219ScanLimit, max7219ScanAllDigits},
		{max7219DecodeMode, max7219DecodeNone},
		{max7219DisplayTest, max7219TestOff},
		{max7219Intensity, d.intensity},
	} {
		if err = d.broadcast(command[0], command[1]); err != nil {
			return
		}
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

func (d *Matrix) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("MAX7219 %d chips %dx%d", d.chips, bounds.Dx(), bounds.Dy())
}

// LogConfig logs the effective configuration.
func (d *Matrix) LogConfig() {
	d.log.Info().
		Int("chips", d.chips).
		Uint8("intensity", d.intensity).
		Int("offset", d.offset).
		Bool("invert", d.invert).
		Stringer("conn", d.c).
		Msg("MAX7219")
}

// Chips is the number of wired chips.
func (d *Matrix) Chips() int { return d.chips }

// Offset is the number of virtual chips after the wired chips.
func (d *Matrix) Offset() int { return d.offset }

// Intensity is the brightness register value.
func (d *Matrix) Intensity() uint8 { return d.intensity }

// Inverted reports if invert mode is active.
func (d *Matrix) Inverted() bool { return d.invert }

// MaxX is the rightmost column drawn since the last Clear.
func (d *Matrix) MaxX() int { return d.maxX }

// Close powers the chips down and closes the connection.
func (d *Matrix) Close() error {
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	return d.c.Close()
}

// Show toggles the chips between shutdown and normal operation.
func (d *Matrix) Show(show bool) error {
	if show {
		return d.broadcast(max7219Shutdown, max7219PowerUp)
	}
	return d.broadcast(max7219Shutdown, max7219PowerDown)
}

// SetIntensity sets the brightness of all chips, levels above 15 are reduced to 15.
func (d *Matrix) SetIntensity(level uint8) error {
	if level > MaxIntensity {
		level = MaxIntensity
	}
	if err := d.broadcast(max7219Intensity, level); err != nil {
		return err
	}
	d.intensity = level
	return nil
}

// TestDisplay toggles display test mode, which lights every LED at full brightness.
func (d *Matrix) TestDisplay(on bool) error {
	if on {
		return d.broadcast(max7219DisplayTest, max7219TestOn)
	}
	return d.broadcast(max7219DisplayTest, max7219TestOff)
}

// Invert sets invert mode. It applies to subsequent Clear and SetPixel calls.
func (d *Matrix) Invert(on bool) {
	d.invert = on
}

// ToggleInvert flips invert mode.
func (d *Matrix) ToggleInvert() {
	d.invert = !d.invert
}

// Refresh sends the buffer columns of every wired chip to the chain.
func (d *Matrix) Refresh() error {
	var pixels [font.Size]byte
	for chip := 0; chip < d.chips; chip++ {
		copy(pixels[:], d.buf.Pix[chip*font.Size:])
		if err := d.writeChip(chip, &pixels); err != nil {
			return err
		}
	}
	d.log.Debug().Msg("refresh")
	return nil
}

// writeChip sends 8 columns of pixels to one chip as 8 digit register writes. Every
// write is padded with no-ops so the preceding and following chips keep their state.
func (d *Matrix) writeChip(chip int, pixels *[font.Size]byte) error {
	for row := 0; row < Height; row++ {
		data := transpose(pixels, row)
		if err := d.transmit(func() error {
			for i := 0; i < chip; i++ {
				if err := d.send(max7219NoOp, max7219NoOp); err != nil {
					return err
				}
			}
			if err := d.send(max7219Digit0+byte(row), data); err != nil {
				return err
			}
			for i := 0; i < d.chips-chip-1; i++ {
				if err := d.send(max7219NoOp, max7219NoOp); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("ledmatrix: chip %d row %d: %w", chip, row, err)
		}
		if debug {
			d.log.Debug().Int("chip", chip).Int("row", row).Uint8("data", data).Msg("write")
		}
	}
	return nil
}

// transpose builds display row r from 8 buffer columns: bit 7-i is pixel r of column i.
func transpose(cols *[font.Size]byte, r int) (b byte) {
	for i, col := range cols {
		b |= (col >> uint(r) & 1) << uint(7-i)
	}
	return
}

// broadcast writes the same value to a control register of every chip.
func (d *Matrix) broadcast(register, value byte) error {
	if err := d.transmit(func() error {
		for i := 0; i < d.chips; i++ {
			if err := d.send(register, value); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("ledmatrix: register %#02x: %w", register, err)
	}
	return nil
}

// transmit runs fn inside a chip select window. The window is always closed.
func (d *Matrix) transmit(fn func() error) (err error) {
	if err = d.c.Enable(); err != nil {
		return
	}
	defer func() {
		if disableErr := d.c.Disable(); err == nil {
			err = disableErr
		}
	}()
	return fn()
}

func (d *Matrix) send(register, data byte) error {
	if err := d.c.WriteByte(register); err != nil {
		return err
	}
	return d.c.WriteByte(data)
}

// Interface checks.
var (
	_ Display = (*Matrix)(nil)
)
