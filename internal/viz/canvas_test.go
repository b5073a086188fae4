package viz

import (
	"strings"
	"testing"
)

func TestCanvas_LevelsAreMonotonic(t *testing.T) {
	c := NewCanvas(9, 1)
	for lvl := 0; lvl <= 8; lvl++ {
		c.SetLevel(lvl, 0, lvl)
		if got := c.Level(lvl, 0); got != lvl {
			t.Errorf("level %d renders %d dots", lvl, got)
		}
	}
}

func TestCanvas_SetLevel(t *testing.T) {
	c := NewCanvas(4, 2)

	c.SetLevel(0, 0, 0)
	if got := c.Grid[0][0]; got != brailleBase {
		t.Errorf("level 0 cell = %U, want empty braille cell", got)
	}

	c.SetLevel(1, 0, 8)
	if got := c.Grid[0][1]; got != '⣿' {
		t.Errorf("level 8 cell = %U, want U+28FF", got)
	}
}

func TestCanvas_LevelClamping(t *testing.T) {
	c := NewCanvas(2, 1)

	c.SetLevel(0, 0, -5)
	if got := c.Level(0, 0); got != 0 {
		t.Errorf("negative level renders %d dots, want 0", got)
	}

	c.SetLevel(1, 0, 99)
	if got := c.Level(1, 0); got != 8 {
		t.Errorf("oversized level renders %d dots, want 8", got)
	}
}

func TestCanvas_OutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 2)

	c.SetLevel(-1, 0, 8)
	c.SetLevel(0, 5, 8)
	if got := c.Level(-1, 0); got != 0 {
		t.Errorf("out-of-range Level = %d, want 0", got)
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			if c.Level(col, row) != 0 {
				t.Fatalf("cell (%d,%d) modified by out-of-range SetLevel", col, row)
			}
		}
	}
}

func TestCanvas_StringAndClear(t *testing.T) {
	c := NewCanvas(3, 2)
	c.SetLevel(0, 0, 8)

	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("String produced %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "⣿") {
		t.Errorf("first line = %q, want leading full cell", lines[0])
	}

	c.Clear()
	if got := c.Level(0, 0); got != 0 {
		t.Errorf("Clear left %d dots", got)
	}
}
