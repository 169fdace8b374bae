package font

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Face is the glyph table as a font face. Glyphs are Size pixels wide, sit on the
// baseline and have no descent or kerning.
var Face font.Face = newFace()

type face struct {
	mask  *image.Alpha
	index map[rune]int
}

func newFace() *face {
	codes := make([]rune, 0, len(glyphs))
	for r := range glyphs {
		codes = append(codes, r)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	f := &face{
		mask:  image.NewAlpha(image.Rect(0, 0, len(codes)*Size, Size)),
		index: make(map[rune]int, len(codes)),
	}
	for i, r := range codes {
		f.index[r] = i
		g := glyphs[r]
		for x := 0; x < Size; x++ {
			for y := 0; y < Size; y++ {
				if g.On(x, y) {
					f.mask.SetAlpha(i*Size+x, y, color.Alpha{A: 0xff})
				}
			}
		}
	}
	return f
}

func (f *face) Close() error { return nil }

func (f *face) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	i, ok := f.index[r]
	if !ok {
		return
	}
	x, y := dot.X.Round(), dot.Y.Round()
	return image.Rect(x, y-Size, x+Size, y), f.mask, image.Pt(i*Size, 0), fixed.I(Size), true
}

func (f *face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	if _, ok = f.index[r]; !ok {
		return
	}
	return fixed.R(0, -Size, Size, 0), fixed.I(Size), true
}

func (f *face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	if _, ok = f.index[r]; !ok {
		return
	}
	return fixed.I(Size), true
}

func (f *face) Kern(_, _ rune) fixed.Int26_6 { return 0 }

func (f *face) Metrics() font.Metrics {
	return font.Metrics{
		Height:     fixed.I(Size),
		Ascent:     fixed.I(Size),
		XHeight:    fixed.I(5),
		CapHeight:  fixed.I(7),
		CaretSlope: image.Pt(0, 1),
	}
}
