package view

import (
	"image/color"

	"bitlife/src/simulation"
)

// fillFrameRGBA converts the frame into RGBA pixels in buf, one pixel per cell
func fillFrameRGBA(buf []byte, f simulation.Frame, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			base := (row*f.Width + col) * 4
			if f.Alive(row, col) {
				buf[base+0] = uint8(rOn >> 8)
				buf[base+1] = uint8(gOn >> 8)
				buf[base+2] = uint8(bOn >> 8)
				buf[base+3] = uint8(aOn >> 8)
				continue
			}
			buf[base+0] = uint8(rOff >> 8)
			buf[base+1] = uint8(gOff >> 8)
			buf[base+2] = uint8(bOff >> 8)
			buf[base+3] = uint8(aOff >> 8)
		}
	}
}

// cellAt translates the window position into the cell coordinates
func cellAt(x int, y int, scale int, f simulation.Frame) (row int, col int, ok bool) {
	if scale <= 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	row, col = y/scale, x/scale
	if row >= f.Height || col >= f.Width {
		return 0, 0, false
	}
	return row, col, true
}
