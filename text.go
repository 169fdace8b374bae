package ledmatrix

import (
	"fmt"
	"image"
	"time"
	"unicode/utf8"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/ledmatrix/font"
	"github.com/BeatGlow/ledmatrix/pixel"
)

// MaxTextLen is the longest formatted string in bytes that Printf and Strftime print.
const MaxTextLen = 63

// PrintAt draws one glyph per character of s, starting at chip slot pos. The wired
// chips after the text are blanked with spaces. Characters without a glyph leave their
// slot untouched.
func (d *Matrix) PrintAt(pos int, s string) {
	if pos < 0 {
		pos = 0
	}
	chip := pos
	for _, r := range s {
		if chip >= d.chips {
			break
		}
		d.DrawChar(chip, r)
		chip++
	}
	for ; chip < d.chips; chip++ {
		d.DrawGlyph(chip, font.Space)
	}
}

// Print draws s starting at the first chip.
func (d *Matrix) Print(s string) {
	d.PrintAt(0, s)
}

// Printf formats according to format and prints the result at chip slot pos. Output
// longer than MaxTextLen bytes is truncated.
func (d *Matrix) Printf(pos int, format string, args ...interface{}) {
	if s := bounded(fmt.Sprintf(format, args...)); s != "" {
		d.PrintAt(pos, s)
	}
}

// bounded truncates s to at most MaxTextLen bytes without splitting a character.
func bounded(s string) string {
	if len(s) <= MaxTextLen {
		return s
	}
	s = s[:MaxTextLen]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// TimeFormatter formats a point in time, time.Time implements it.
type TimeFormatter interface {
	Format(layout string) string
}

var _ TimeFormatter = time.Time{}

// Strftime prints t formatted with layout at chip slot pos. Nothing is printed if the
// result is empty or longer than MaxTextLen bytes.
func (d *Matrix) Strftime(pos int, layout string, t TimeFormatter) {
	s := t.Format(layout)
	if s == "" || len(s) > MaxTextLen {
		return
	}
	d.PrintAt(pos, s)
}

// DrawText draws s with its left edge at column x, unlike PrintAt characters are not
// aligned to chips and may span two of them. It returns the column after the text.
func (d *Matrix) DrawText(x int, s string) int {
	drawer := &xfont.Drawer{
		Dst:  d,
		Src:  image.NewUniform(pixel.On),
		Face: font.Face,
		Dot:  fixed.P(x, Height),
	}
	drawer.DrawString(s)
	return drawer.Dot.X.Round()
}
