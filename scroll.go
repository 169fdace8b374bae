package ledmatrix

import "github.com/BeatGlow/ledmatrix/font"

// ScrollMargin is the number of blank columns appended to the scroll window.
const ScrollMargin = 3

// scrollWindow is the number of leading buffer columns that ScrollLeft rotates.
func (d *Matrix) scrollWindow() int {
	n := d.maxX
	if wired := d.chips * font.Size; n < wired {
		n = wired
	}
	n += ScrollMargin
	if n > len(d.buf.Pix) {
		n = len(d.buf.Pix)
	}
	return n
}

// ScrollLeft rotates the scroll window left by the steps requested so far, including
// the ones of previous calls. Once the total reaches the window size it starts over at
// zero and nothing is rotated. The window, and so the reset threshold, never exceeds
// the buffer length. Columns beyond the window are not touched.
//
// ScrollLeft only changes the buffer, use Refresh to show the result.
func (d *Matrix) ScrollLeft(steps int) {
	if steps < 0 {
		steps = 0
	}
	n := d.scrollWindow()
	total := 0
	if steps < n-d.stepsLeft {
		total = d.stepsLeft + steps
	}
	d.stepsLeft = total

	d.log.Debug().Int("window", n).Int("steps", total).Msg("scroll")
	if total == 0 {
		return
	}
	window := d.buf.Pix[:n]
	rotated := make([]byte, 0, n)
	rotated = append(rotated, window[total:]...)
	rotated = append(rotated, window[:total]...)
	copy(window, rotated)
}

// ScrollSteps is the number of steps accumulated by ScrollLeft.
func (d *Matrix) ScrollSteps() int { return d.stepsLeft }
