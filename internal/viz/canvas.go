package viz

import (
	"math/bits"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

// cellLevels maps an intensity level 0..8 to the braille pattern with that
// many dots raised. Dots fill from the bottom row up, so a cell reads like a
// tiny thermometer.
var cellLevels = [9]rune{
	0x00,
	0x40,
	0xC0,
	0xC4,
	0xE4,
	0xE6,
	0xF6,
	0xF7,
	0xFF,
}

// Canvas is a grid of braille cells. Each cell packs a 2x4 dot matrix into a
// single terminal character, so a scalar intensity can be drawn as dot
// density from empty (0) to full (8).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase // Empty braille char
		}
	}
	return c
}

// SetLevel fills the cell at (col, row) with the given dot density.
// Levels outside 0..8 are clamped; out-of-range cells are ignored.
func (c *Canvas) SetLevel(col, row, level int) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	if level < 0 {
		level = 0
	}
	if level > 8 {
		level = 8
	}
	c.Grid[row][col] = brailleBase + cellLevels[level]
}

// Level reports the number of raised dots in the cell at (col, row).
func (c *Canvas) Level(col, row int) int {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return bits.OnesCount8(uint8(c.Grid[row][col] - brailleBase))
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
