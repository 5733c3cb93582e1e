package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.PixelWidth() != 8 || c.PixelHeight() != 8 {
		t.Fatalf("pixel size %dx%d", c.PixelWidth(), c.PixelHeight())
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(0x2800|0x1|0x80) {
		t.Errorf("cell = %U", c.Grid[0][0])
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				t.Fatalf("cell not cleared: %U", r)
			}
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 5, 19, 5)
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 5) {
			t.Fatalf("pixel (%d,5) not set", x)
		}
	}
}

func TestCanvasCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 10)
	for _, p := range [][2]int{{30, 20}, {10, 20}, {20, 10}, {20, 30}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("circle missing pixel %v", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("outline should leave the centre empty")
	}

	c.Clear()
	c.FillCircle(20, 20, 3)
	if !c.IsSet(20, 20) || !c.IsSet(23, 20) || c.IsSet(24, 20) {
		t.Error("filled circle has wrong extent")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 3 {
		t.Errorf("unexpected rendering %q", c.String())
	}
}
