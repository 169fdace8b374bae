// Package ledmatrix drives chains of MAX7219 LED dot matrix driver chips.
//
// The driver keeps an in-memory buffer with one byte per display column, where bit 0
// is the top pixel, and translates it into the row oriented digit registers of the
// chips when the display is refreshed. Chips are wired in series and share a single
// serial line, so every write to one chip is padded with no-op commands for the
// others.
package ledmatrix

import (
	"errors"
	"image"
	"image/color"
	"os"

	"github.com/rs/zerolog"
)

var debug bool

func init() {
	debug = os.Getenv("LEDMATRIX_DEBUG") != ""
}

// Errors
var (
	ErrBusBusy = errors.New("ledmatrix: chip select window already open")
	ErrBusIdle = errors.New("ledmatrix: no chip select window open")
	ErrClosed  = errors.New("ledmatrix: connection closed")
)

// Chain limits.
const (
	// MaxChips is the longest chain that can be addressed, including offset chips.
	MaxChips = 31

	// MaxIntensity is the brightest intensity register value.
	MaxIntensity = 15

	// Height of the display in pixels.
	Height = 8
)

// Display is a LED display.
type Display interface {
	// Close the display driver.
	Close() error

	// Clear the display buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// Show toggles the display on or off.
	Show(bool) error

	// SetIntensity adjusts the brightness level.
	SetIntensity(level uint8) error

	// Refresh redraws the display.
	Refresh() error
}

// Writer draws a frame, it is called by Update after the buffer has been cleared.
type Writer func(*Matrix)

// Config is the display configuration.
type Config struct {
	// Chips is the number of chips wired in the chain.
	Chips int

	// Offset is the number of virtual chips reserved in the buffer after the wired
	// chips. Chips and Offset together are limited to MaxChips.
	Offset int

	// Intensity is the brightness register value (0-15).
	Intensity uint8

	// Invert toggles pixels when they are turned on and clears to all on.
	Invert bool

	// Writer is called on every Update, it is optional.
	Writer Writer

	// Logger for diagnostics, uses the global zerolog logger if nil.
	Logger *zerolog.Logger
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Chips:     1,
	Intensity: MaxIntensity,
}

// normalize clamps the configuration to what the chain can address.
func (config *Config) normalize(log zerolog.Logger) {
	if config.Chips == 0 {
		config.Chips = DefaultConfig.Chips
	}
	if config.Chips < 1 || config.Chips > MaxChips {
		chips := config.Chips
		if config.Chips < 1 {
			config.Chips = 1
		} else {
			config.Chips = MaxChips
		}
		log.Warn().Int("chips", chips).Int("effective", config.Chips).Msg("number of chips out of range")
	}
	if config.Offset < 0 {
		config.Offset = 0
	}
	if config.Offset+config.Chips > MaxChips {
		offset := config.Offset
		config.Offset = MaxChips - config.Chips
		log.Warn().Int("offset", offset).Int("effective", config.Offset).Msg("offset is reduced to prevent buffer overflow")
	}
	if config.Intensity > MaxIntensity {
		intensity := config.Intensity
		config.Intensity = MaxIntensity
		log.Warn().Uint8("intensity", intensity).Uint8("effective", config.Intensity).Msg("intensity out of range")
	}
}
