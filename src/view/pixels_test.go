package view

import (
	"image/color"
	"testing"

	"bitlife/src/simulation"
)

func TestFillFrameRGBA(t *testing.T) {
	f := simulation.Frame{Width: 3, Height: 2, Words: []uint64{1<<1 | 1<<5}}
	buf := make([]byte, 4*f.Width*f.Height)
	fillFrameRGBA(buf, f, color.Black, color.White)
	for i := 0; i < f.Width*f.Height; i++ {
		alive := i == 1 || i == 5
		expected := byte(0xff)
		if alive {
			expected = 0
		}
		if buf[i*4] != expected || buf[i*4+3] != 0xff {
			t.Fatalf("pixel %v: %v", i, buf[i*4:i*4+4])
		}
	}
}

func TestCellAt(t *testing.T) {
	f := simulation.Frame{Width: 10, Height: 5}
	cases := []struct {
		x, y     int
		row, col int
		ok       bool
	}{
		{0, 0, 0, 0, true},
		{13, 7, 1, 3, true},
		{39, 19, 4, 9, true},
		{40, 0, 0, 0, false},
		{0, 20, 0, 0, false},
		{-1, 0, 0, 0, false},
	}
	for _, c := range cases {
		row, col, ok := cellAt(c.x, c.y, 4, f)
		if ok != c.ok || row != c.row || col != c.col {
			t.Errorf("(%v, %v): got (%v, %v, %v)", c.x, c.y, row, col, ok)
		}
	}
}
