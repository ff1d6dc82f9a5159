package universe

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// default dimensions
const (
	DefWidth  = 120
	DefHeight = 120
)

// Cell addresses a single position of the grid
type Cell struct {
	Row uint32
	Col uint32
}

// RandomSource provides uniform draws in [0,1)
// *rand.Rand from math/rand/v2 satisfies it
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function to RandomSource
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 {
	return f()
}

/*
	Universe is the grid engine
	cells are packed row-major into a bit set: bit i is the cell (i / width, i % width)
	the grid has no edges, every neighbor coordinate is taken modulo its dimension

	Universe does no locking, the caller owns it exclusively
*/
type Universe struct {
	width      uint32
	height     uint32
	cells      *bitset.BitSet
	rnd        RandomSource
	generation uint64
	stable     bool
	debug      *log.Logger
}

// New creates the universe with default dimensions and random data
func New(rnd RandomSource) *Universe {
	return NewWithSize(DefWidth, DefHeight, rnd)
}

// NewWithSize creates the universe of width x height cells and seeds it with random data
// nil rnd falls back to the process-wide generator
func NewWithSize(width uint32, height uint32, rnd RandomSource) *Universe {
	if rnd == nil {
		rnd = RandomFunc(rand.Float64)
	}
	u := &Universe{
		rnd:   rnd,
		debug: log.New(io.Discard, "", 0),
	}
	u.SetDimensions(width, height)
	u.Reseed()
	return u
}

// SetDebugLogger sets the logger receiving the raw dumps, nil discards them
func (u *Universe) SetDebugLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	u.debug = l
}

func (u *Universe) Width() uint32 {
	return u.width
}

func (u *Universe) Height() uint32 {
	return u.height
}

// Cells returns the packed grid as 64-bit words, bit i of the grid is bit i%64 of word i/64
// the slice is the live storage and must not be modified
func (u *Universe) Cells() []uint64 {
	return u.cells.Bytes()
}

// Generation returns the number of steps done since the last resize
func (u *Universe) Generation() uint64 {
	return u.generation
}

// Stable reports whether the last step left the grid unchanged
func (u *Universe) Stable() bool {
	return u.stable
}

// Index returns the bit position of the cell
// row and col must be inside the grid, otherwise it panics
func (u *Universe) Index(row uint32, col uint32) uint {
	if row >= u.height || col >= u.width {
		panic(fmt.Sprintf("universe: cell (%d, %d) is outside of %dx%d grid", row, col, u.width, u.height))
	}
	return uint(row*u.width + col)
}

// Alive returns the state of the cell
func (u *Universe) Alive(row uint32, col uint32) bool {
	return u.cells.Test(u.Index(row, col))
}

// LiveCells returns the count of live cells
func (u *Universe) LiveCells() int {
	return int(u.cells.Count())
}

// LiveNeighborCount counts live cells among the 8 neighbors of (row, col)
// height-1 and width-1 stand for -1: the unsigned sum wraps around after the modulo
func (u *Universe) LiveNeighborCount(row uint32, col uint32) uint8 {
	var count uint8
	for _, dr := range [3]uint32{u.height - 1, 0, 1} {
		for _, dc := range [3]uint32{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			nr := wrapAdd(row, dr, u.height)
			nc := wrapAdd(col, dc, u.width)
			if u.cells.Test(uint(nr*u.width + nc)) {
				count++
			}
		}
	}
	return count
}

// wrapAdd returns (coord + delta) % dim
// the sum is taken in 64 bits, a single dimension may exceed 2^31
func wrapAdd(coord uint32, delta uint32, dim uint32) uint32 {
	return uint32((uint64(coord) + uint64(delta)) % uint64(dim))
}

// Step calculates the next generation
// all states are calculated from the current grid into the new buffer which then replaces the current one
func (u *Universe) Step() {
	next := bitset.New(u.cells.Len())
	for row := uint32(0); row < u.height; row++ {
		for col := uint32(0); col < u.width; col++ {
			idx := uint(row*u.width + col)
			next.SetTo(idx, nextState(u.cells.Test(idx), u.LiveNeighborCount(row, col)))
		}
	}
	u.stable = next.Equal(u.cells)
	u.cells = next
	u.generation++
}

// nextState applies the rules to one cell
func nextState(alive bool, neighbors uint8) bool {
	switch {
	case alive && neighbors < 2:
		// underpopulation
		return false
	case alive && (neighbors == 2 || neighbors == 3):
		return true
	case alive && neighbors > 3:
		// overpopulation
		return false
	case !alive && neighbors == 3:
		// reproduction
		return true
	}
	return alive
}

// SetDimensions resizes the grid, all cells become dead
// panics if width*height does not fit into uint32
func (u *Universe) SetDimensions(width uint32, height uint32) {
	if uint64(width)*uint64(height) > math.MaxUint32 {
		panic(fmt.Sprintf("universe: %dx%d grid overflows the cell index", width, height))
	}
	cells := bitset.New(uint(width * height))
	u.width, u.height, u.cells = width, height, cells
	u.generation = 0
	u.stable = false
}

// ToggleCell inverts the cell state
func (u *Universe) ToggleCell(row uint32, col uint32) {
	u.cells.Flip(u.Index(row, col))
	u.debug.Printf("cells: %s", u.Dump())
}

// KillCell makes the cell ALIVE
// the name is kept from the web front-end which stamps patterns with it;
// callers expecting it to kill the cell should use SetCell(row, col, false)
func (u *Universe) KillCell(row uint32, col uint32) {
	u.cells.Set(u.Index(row, col))
}

// SetCell sets the cell state
func (u *Universe) SetCell(row uint32, col uint32, alive bool) {
	u.cells.SetTo(u.Index(row, col), alive)
}

// Clear kills all cells
func (u *Universe) Clear() {
	u.cells.ClearAll()
}

// Reseed makes every cell alive with probability 0.5
func (u *Universe) Reseed() {
	for i := uint(0); i < u.cells.Len(); i++ {
		u.cells.SetTo(i, u.rnd.Float64() > 0.5)
	}
}

// SetCells makes all listed cells alive, other cells are untouched
func (u *Universe) SetCells(cells []Cell) {
	for _, c := range cells {
		u.cells.Set(u.Index(c.Row, c.Col))
	}
}

// Dump renders the raw words of the grid
func (u *Universe) Dump() string {
	var b strings.Builder
	for _, w := range u.cells.Bytes() {
		fmt.Fprintf(&b, " %d", w)
	}
	return b.String()
}

// String renders the grid one row per line
func (u *Universe) String() string {
	var b strings.Builder
	for row := uint32(0); row < u.height; row++ {
		for col := uint32(0); col < u.width; col++ {
			if u.cells.Test(uint(row*u.width + col)) {
				b.WriteString("■")
			} else {
				b.WriteString("□")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
