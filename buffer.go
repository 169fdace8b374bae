package ledmatrix

import (
	"image"
	"image/color"

	"github.com/BeatGlow/ledmatrix/font"
	"github.com/BeatGlow/ledmatrix/pixel"
)

// Bounds covers the wired and the offset chips.
func (d *Matrix) Bounds() image.Rectangle {
	return d.buf.Bounds()
}

func (d *Matrix) ColorModel() color.Model {
	return pixel.MonoModel
}

// At returns pixel.On or pixel.Off, or color.Transparent when (x, y) is out of bounds.
func (d *Matrix) At(x, y int) color.Color {
	return d.buf.At(x, y)
}

// Set turns the pixel on for any color that converts to pixel.On.
func (d *Matrix) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, pixel.IsOn(c))
}

// SetPixel changes one pixel, out of bounds coordinates are ignored.
//
// In invert mode turning a pixel on toggles it, turning it off always clears it.
func (d *Matrix) SetPixel(x, y int, on bool) {
	if !(image.Point{X: x, Y: y}.In(d.buf.Rect)) {
		return
	}
	offset, mask := d.buf.PixOffset(x, y)
	switch {
	case !on:
		d.buf.Pix[offset] &^= mask
	case d.invert:
		d.buf.Pix[offset] ^= mask
	default:
		d.buf.Pix[offset] |= mask
	}
	if x > d.maxX {
		d.maxX = x
	}
}

// Clear turns all pixels off, or on in invert mode, and forgets the drawn extent.
func (d *Matrix) Clear() {
	if d.invert {
		d.buf.Fill(pixel.On)
	} else {
		d.buf.Clear()
	}
	d.maxX = 0
}

// Update clears the buffer, calls the Writer and refreshes the display.
func (d *Matrix) Update() error {
	d.Clear()
	if d.writer != nil {
		d.writer(d)
	}
	return d.Refresh()
}

// DrawGlyph copies the columns of g into the buffer at chip slot chip. Slots outside
// the buffer are ignored.
func (d *Matrix) DrawGlyph(chip int, g font.Glyph) {
	if chip < 0 || chip >= len(d.buf.Pix)/font.Size {
		return
	}
	copy(d.buf.Pix[chip*font.Size:], g[:])
}

// DrawChar draws the glyph for r at chip slot chip. It reports false, leaving the
// buffer unchanged, when the font has no glyph for r.
func (d *Matrix) DrawChar(chip int, r rune) bool {
	g, ok := font.Lookup(r)
	if ok {
		d.DrawGlyph(chip, g)
	}
	return ok
}
