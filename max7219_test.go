package ledmatrix

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/ledmatrix/font"
)

var errTest = errors.New("test: bus fault")

// recordConn keeps every chip select window written to it.
type recordConn struct {
	window
	windows [][]byte
	closes  int

	// failAfter makes WriteByte fail once this many bytes were written, if positive.
	failAfter int
	written   int
}

func (c *recordConn) String() string { return "record" }

func (c *recordConn) Close() error {
	c.closes++
	c.closed = true
	return nil
}

func (c *recordConn) Enable() error { return c.enable() }

func (c *recordConn) Disable() error {
	buf, err := c.release()
	if err != nil {
		return err
	}
	c.windows = append(c.windows, append([]byte(nil), buf...))
	return nil
}

func (c *recordConn) WriteByte(b byte) error {
	if c.failAfter > 0 && c.written >= c.failAfter {
		return errTest
	}
	c.written++
	return c.window.WriteByte(b)
}

func (c *recordConn) reset() {
	c.windows = nil
}

func testMatrix(t *testing.T, config *Config) (*Matrix, *recordConn) {
	t.Helper()
	if config.Logger == nil {
		logger := zerolog.Nop()
		config.Logger = &logger
	}
	c := new(recordConn)
	m, err := MAX7219(c, config)
	require.NoError(t, err)
	c.reset()
	return m, c
}

func TestMAX7219Setup(t *testing.T) {
	c := new(recordConn)
	logger := zerolog.Nop()
	m, err := MAX7219(c, &Config{Chips: 2, Intensity: 7, Logger: &logger})
	require.NoError(t, err)

	want := [][]byte{
		{0x0b, 0x07, 0x0b, 0x07},
		{0x09, 0x00, 0x09, 0x00},
		{0x0f, 0x00, 0x0f, 0x00},
		{0x0a, 0x07, 0x0a, 0x07},
	}
	for chip := 0; chip < 2; chip++ {
		for row := byte(1); row <= 8; row++ {
			if chip == 0 {
				want = append(want, []byte{row, 0x00, 0x00, 0x00})
			} else {
				want = append(want, []byte{0x00, 0x00, row, 0x00})
			}
		}
	}
	want = append(want, []byte{0x0c, 0x01, 0x0c, 0x01})
	assert.Equal(t, want, c.windows)

	assert.Equal(t, 2, m.Chips())
	assert.Equal(t, 0, m.Offset())
	assert.Equal(t, uint8(7), m.Intensity())
	assert.Equal(t, 16, m.Bounds().Dx())
	assert.Equal(t, Height, m.Bounds().Dy())
	assert.Equal(t, "MAX7219 2 chips 16x8", m.String())
}

func TestMAX7219DefaultConfig(t *testing.T) {
	c := new(recordConn)
	m, err := MAX7219(c, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.Chips, m.Chips())
	assert.Equal(t, DefaultConfig.Intensity, m.Intensity())
	assert.Len(t, c.windows, 13)
}

func TestMAX7219SetupError(t *testing.T) {
	c := &recordConn{failAfter: 3}
	logger := zerolog.Nop()
	_, err := MAX7219(c, &Config{Chips: 1, Logger: &logger})
	require.ErrorIs(t, err, errTest)
	assert.False(t, c.open, "chip select left active")
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   Config
		warn   string
	}{
		{"defaults", Config{}, Config{Chips: 1}, ""},
		{"chips too many", Config{Chips: 40}, Config{Chips: MaxChips}, "number of chips out of range"},
		{"chips negative", Config{Chips: -2}, Config{Chips: 1}, "number of chips out of range"},
		{"offset fits", Config{Chips: 4, Offset: 27}, Config{Chips: 4, Offset: 27}, ""},
		{"offset overflow", Config{Chips: 30, Offset: 5}, Config{Chips: 30, Offset: 1}, "offset is reduced to prevent buffer overflow"},
		{"offset negative", Config{Chips: 2, Offset: -1}, Config{Chips: 2}, ""},
		{"intensity", Config{Chips: 1, Intensity: 16}, Config{Chips: 1, Intensity: MaxIntensity}, "intensity out of range"},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			var out bytes.Buffer
			config := test.config
			config.normalize(zerolog.New(&out))
			assert.Equal(it, test.want, config)
			if test.warn == "" {
				assert.Empty(it, out.String())
			} else {
				assert.Contains(it, out.String(), test.warn)
				assert.Contains(it, out.String(), `"level":"warn"`)
			}
		})
	}
}

func TestMAX7219KeepsCallerConfig(t *testing.T) {
	logger := zerolog.Nop()
	config := &Config{Chips: 40, Offset: 5, Intensity: 99, Logger: &logger}
	m, _ := testMatrix(t, config)

	assert.Equal(t, MaxChips, m.Chips())
	assert.Equal(t, 0, m.Offset())
	assert.Equal(t, uint8(MaxIntensity), m.Intensity())
	assert.Equal(t, 40, config.Chips)
	assert.Equal(t, 5, config.Offset)
	assert.Equal(t, uint8(99), config.Intensity)
}

func TestMAX7219OffsetClamp(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out)
	m, _ := testMatrix(t, &Config{Chips: 30, Offset: 5, Logger: &logger})
	assert.Equal(t, 1, m.Offset())
	assert.Len(t, m.buf.Pix, 31*8)
	assert.Contains(t, out.String(), "offset is reduced to prevent buffer overflow")
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		name string
		cols [8]byte
		rows [8]byte
	}{
		{"blank", [8]byte{}, [8]byte{}},
		{"top left", [8]byte{0x01}, [8]byte{0x80}},
		{"bottom right", [8]byte{7: 0x80}, [8]byte{7: 0x01}},
		{
			"checkerboard",
			[8]byte{0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55},
			[8]byte{0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa},
		},
		{
			"glyph A",
			[8]byte{0x7c, 0x7e, 0x13, 0x13, 0x7e, 0x7c, 0x00, 0x00},
			[8]byte{0x30, 0x78, 0xcc, 0xcc, 0xfc, 0xcc, 0xcc, 0x00},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			var rows [8]byte
			for r := range rows {
				rows[r] = transpose(&test.cols, r)
			}
			assert.Equal(it, test.rows, rows)
		})
	}
}

func TestMAX7219GlyphRoundTrip(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 1})
	g, ok := font.Lookup('A')
	require.True(t, ok)

	m.DrawGlyph(0, g)
	require.NoError(t, m.Refresh())

	require.Len(t, c.windows, 8)
	rows := []byte{0x30, 0x78, 0xcc, 0xcc, 0xfc, 0xcc, 0xcc, 0x00}
	for r, window := range c.windows {
		assert.Equal(t, []byte{byte(r + 1), rows[r]}, window, "row %d", r)
	}
}

func TestMAX7219ChainAddressing(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 3})

	for chip := 0; chip < 3; chip++ {
		c.reset()
		pixels := [8]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
		require.NoError(t, m.writeChip(chip, &pixels))
		require.Len(t, c.windows, 8, "chip %d", chip)
		for r, window := range c.windows {
			want := make([]byte, 6)
			want[chip*2] = byte(r + 1)
			want[chip*2+1] = 0xff
			assert.Equal(t, want, window, "chip %d row %d", chip, r)
		}
	}
}

func TestMAX7219RefreshIgnoresOffsetChips(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 2, Offset: 2})
	for i := range m.buf.Pix {
		m.buf.Pix[i] = 0xff
	}
	require.NoError(t, m.Refresh())
	assert.Len(t, c.windows, 16)
	for _, window := range c.windows {
		assert.Len(t, window, 4)
	}
}

func TestMAX7219TransmitError(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 2})
	c.failAfter = c.written + 3

	err := m.Refresh()
	require.ErrorIs(t, err, errTest)
	assert.Contains(t, err.Error(), "chip 0 row 0")
	assert.False(t, c.open, "chip select left active")
}

func TestMAX7219SetIntensity(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 2})

	require.NoError(t, m.SetIntensity(3))
	assert.Equal(t, uint8(3), m.Intensity())
	require.NoError(t, m.SetIntensity(200))
	assert.Equal(t, uint8(MaxIntensity), m.Intensity())

	assert.Equal(t, [][]byte{
		{0x0a, 0x03, 0x0a, 0x03},
		{0x0a, 0x0f, 0x0a, 0x0f},
	}, c.windows)
}

func TestMAX7219ShowAndTest(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 1})

	require.NoError(t, m.Show(false))
	require.NoError(t, m.Show(true))
	require.NoError(t, m.TestDisplay(true))
	require.NoError(t, m.TestDisplay(false))

	assert.Equal(t, [][]byte{
		{0x0c, 0x00},
		{0x0c, 0x01},
		{0x0f, 0x01},
		{0x0f, 0x00},
	}, c.windows)
}

func TestMAX7219Close(t *testing.T) {
	m, c := testMatrix(t, &Config{Chips: 2})

	require.NoError(t, m.Close())
	assert.Equal(t, [][]byte{{0x0c, 0x00, 0x0c, 0x00}}, c.windows)
	assert.Equal(t, 1, c.closes)

	require.NoError(t, m.Close())
	assert.Len(t, c.windows, 1, "powered down twice")
	assert.Equal(t, 2, c.closes)

	assert.ErrorIs(t, m.Refresh(), ErrClosed)
}

func TestMAX7219Update(t *testing.T) {
	var calls int
	m, c := testMatrix(t, &Config{
		Chips: 2,
		Writer: func(m *Matrix) {
			calls++
			m.SetPixel(0, 0, true)
		},
	})

	m.SetPixel(9, 3, true)
	require.NoError(t, m.Update())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, m.buf.Pix)
	require.Len(t, c.windows, 16)
	assert.Equal(t, []byte{0x01, 0x80, 0x00, 0x00}, c.windows[0])

	m.writer = nil
	require.NoError(t, m.Update())
	assert.Equal(t, make([]byte, 16), m.buf.Pix)
}
