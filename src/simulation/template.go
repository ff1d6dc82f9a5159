package simulation

import "bitlife/src/universe"

// Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string          // template name
	Descr       string          // template descr
	Coordinates []universe.Cell // cells relative to the top left corner
}

// StampTemplate is placed by the viewers at the pointed cell
const StampTemplate = "glider-nw"

// Templates are available in every simulation
var Templates = []Template{
	{"glider", "the glider moving to the south east", []universe.Cell{at(0, 1), at(1, 2), at(2, 0), at(2, 1), at(2, 2)}},
	{"glider-nw", "the glider moving to the north west", []universe.Cell{at(0, 0), at(0, 1), at(0, 2), at(1, 0), at(2, 1)}},
	{"block", "2x2 still life", []universe.Cell{at(0, 0), at(0, 1), at(1, 0), at(1, 1)}},
	{"blinker", "period 2 oscillator", []universe.Cell{at(0, 1), at(1, 1), at(2, 1)}},
	{"sample", "the test sample with 3 stable patterns", []universe.Cell{
		at(1, 1), at(2, 1),
		at(1, 2), at(2, 2),
		at(3, 3),
		at(2, 4),
		at(3, 4),
		at(3, 5),
	}},
}

func at(row uint32, col uint32) universe.Cell {
	return universe.Cell{Row: row, Col: col}
}
