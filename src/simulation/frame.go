package simulation

import "bitlife/src/universe"

// Frame is the copy of the universe data taken at concrete moment
// Words keeps the engine layout: cell (row, col) is bit (row*Width+col)%64 of word (row*Width+col)/64
type Frame struct {
	Width  int
	Height int
	Words  []uint64
}

func newFrame(u *universe.Universe) Frame {
	cells := u.Cells()
	words := make([]uint64, len(cells))
	copy(words, cells)
	return Frame{Width: int(u.Width()), Height: int(u.Height()), Words: words}
}

// Alive returns the cell state, the cells outside the frame are dead
func (f Frame) Alive(row int, col int) bool {
	if row < 0 || col < 0 || row >= f.Height || col >= f.Width {
		return false
	}
	idx := row*f.Width + col
	mask := uint64(1) << (idx % 64)
	return f.Words[idx/64]&mask == mask
}
