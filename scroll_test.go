package ledmatrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillSequence(m *Matrix) {
	for i := range m.buf.Pix {
		m.buf.Pix[i] = byte(i + 1)
	}
}

func TestMatrixScrollLeft(t *testing.T) {
	m, _ := testMatrix(t, &Config{Chips: 1, Offset: 1})
	fillSequence(m)
	m.maxX = 8
	assert.Equal(t, 11, m.scrollWindow())

	m.ScrollLeft(6)
	assert.Equal(t, 6, m.ScrollSteps())
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 1, 2, 3, 4, 5, 6, 12, 13, 14, 15, 16}, m.buf.Pix)

	// the accumulated 12 steps reach the window size and start over
	m.ScrollLeft(6)
	assert.Equal(t, 0, m.ScrollSteps())
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 1, 2, 3, 4, 5, 6, 12, 13, 14, 15, 16}, m.buf.Pix)
}

func TestMatrixScrollLeftAccumulates(t *testing.T) {
	m, _ := testMatrix(t, &Config{Chips: 1, Offset: 1})
	fillSequence(m)
	m.maxX = 8

	m.ScrollLeft(2)
	assert.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9, 10, 11, 1, 2}, m.buf.Pix[:11])

	// rotates by the total of both calls
	m.ScrollLeft(3)
	assert.Equal(t, 5, m.ScrollSteps())
	assert.Equal(t, []byte{8, 9, 10, 11, 1, 2, 3, 4, 5, 6, 7}, m.buf.Pix[:11])

	m.ScrollLeft(0)
	assert.Equal(t, 5, m.ScrollSteps())
	m.ScrollLeft(-4)
	assert.Equal(t, 5, m.ScrollSteps())
}

func TestMatrixScrollWindow(t *testing.T) {
	tests := []struct {
		name          string
		chips, offset int
		maxX          int
		want          int
	}{
		{"wired chips", 2, 2, 0, 19},
		{"drawn extent", 2, 2, 20, 23},
		{"clamped to buffer", 2, 0, 15, 16},
		{"no offset", 4, 0, 0, 32},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			m, _ := testMatrix(it, &Config{Chips: test.chips, Offset: test.offset})
			m.maxX = test.maxX
			assert.Equal(it, test.want, m.scrollWindow())
		})
	}
}

func TestMatrixScrollLeftClamped(t *testing.T) {
	m, _ := testMatrix(t, &Config{Chips: 2})
	fillSequence(m)
	m.SetPixel(15, 0, true)

	m.ScrollLeft(1)
	assert.Equal(t, []byte{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 17, 1}, m.buf.Pix)
}

func TestMatrixScrollLeftHugeSteps(t *testing.T) {
	m, _ := testMatrix(t, &Config{Chips: 1, Offset: 1})
	fillSequence(m)
	m.maxX = 8

	m.ScrollLeft(1)
	assert.Equal(t, []byte{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 1}, m.buf.Pix[:11])

	m.ScrollLeft(math.MaxInt)
	assert.Equal(t, 0, m.ScrollSteps())
	assert.Equal(t, []byte{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 1}, m.buf.Pix[:11])
}

func TestMatrixScrollLeftShrunkWindow(t *testing.T) {
	m, _ := testMatrix(t, &Config{Chips: 1, Offset: 2})
	m.maxX = 20
	m.ScrollLeft(15)
	assert.Equal(t, 15, m.ScrollSteps())

	// the window is back to 11 columns after Clear
	m.Clear()
	m.ScrollLeft(0)
	assert.Equal(t, 0, m.ScrollSteps())
}
