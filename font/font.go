// Package font holds the fixed 8x8 glyph table used to render text on LED dot matrix
// displays, and exposes it as a [golang.org/x/image/font.Face].
package font

// Size is the width and height of every glyph in pixels.
const Size = 8

// Glyph is an 8x8 bitmap stored column by column: byte i is column i, counted from
// the left, and bit r of that byte is the pixel in row r, counted from the top.
//
// This is the layout of one chip's worth of display buffer, so a glyph can be copied
// into the buffer verbatim.
type Glyph [Size]byte

// On reports whether the pixel at (x, y) is lit.
func (g Glyph) On(x, y int) bool {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return false
	}
	return g[x]>>uint(y)&1 != 0
}

// Space is the blank glyph used to pad text.
var Space = glyphs[' ']

// Lookup returns the glyph for r, if the table has one.
func Lookup(r rune) (Glyph, bool) {
	g, ok := glyphs[r]
	return g, ok
}
