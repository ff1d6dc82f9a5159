package universe

import (
	"bytes"
	"log"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

var (
	dead = RandomFunc(func() float64 { return 0 })

	glider = []Cell{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
)

func emptyUniverse(width uint32, height uint32) *Universe {
	return NewWithSize(width, height, dead)
}

func randomUniverse(width uint32, height uint32, seed uint64) *Universe {
	return NewWithSize(width, height, rand.New(rand.NewPCG(seed, 0)))
}

// liveSet collects the coordinates of all live cells
func liveSet(u *Universe) map[Cell]bool {
	live := make(map[Cell]bool)
	for row := uint32(0); row < u.Height(); row++ {
		for col := uint32(0); col < u.Width(); col++ {
			if u.Alive(row, col) {
				live[Cell{row, col}] = true
			}
		}
	}
	return live
}

func assertLive(t *testing.T, u *Universe, expected []Cell) {
	t.Helper()
	got := liveSet(u)
	if len(got) != len(expected) {
		t.Fatalf("live cells: got %v, expected %v\n%s", len(got), len(expected), u)
	}
	for _, c := range expected {
		if !got[c] {
			t.Fatalf("cell %v expected to be alive\n%s", c, u)
		}
	}
}

func TestNew_DefaultDimensions(t *testing.T) {
	u := New(nil)
	if u.Width() != DefWidth || u.Height() != DefHeight {
		t.Fatalf("got %vx%v, expected %vx%v", u.Width(), u.Height(), DefWidth, DefHeight)
	}
	if words := len(u.Cells()); words != (DefWidth*DefHeight+63)/64 {
		t.Fatalf("unexpected words count: %v", words)
	}
}

func TestReseed_UsesThreshold(t *testing.T) {
	draws := []float64{0.5, 0.51, 0.0, 0.99}
	i := 0
	u := NewWithSize(2, 2, RandomFunc(func() float64 {
		d := draws[i%len(draws)]
		i++
		return d
	}))
	assertLive(t, u, []Cell{{0, 1}, {1, 1}})
}

func TestStep_Deterministic(t *testing.T) {
	a := randomUniverse(17, 11, 42)
	b := randomUniverse(17, 11, 42)
	a.Step()
	b.Step()
	if a.Dump() != b.Dump() {
		t.Fatalf("the same grids diverged after the step")
	}
}

func TestStep_Block(t *testing.T) {
	block := []Cell{{2, 2}, {2, 3}, {3, 2}, {3, 3}}
	u := emptyUniverse(6, 6)
	u.SetCells(block)
	for _, c := range block {
		if n := u.LiveNeighborCount(c.Row, c.Col); n != 3 {
			t.Fatalf("block cell %v has %v neighbors", c, n)
		}
	}
	u.Step()
	assertLive(t, u, block)
	if !u.Stable() {
		t.Fatalf("still life is not reported as stable")
	}
}

func TestStep_Blinker(t *testing.T) {
	vertical := []Cell{{1, 2}, {2, 2}, {3, 2}}
	horizontal := []Cell{{2, 1}, {2, 2}, {2, 3}}
	u := emptyUniverse(5, 5)
	u.SetCells(vertical)
	u.Step()
	assertLive(t, u, horizontal)
	if u.Stable() {
		t.Fatalf("oscillator is reported as stable")
	}
	u.Step()
	assertLive(t, u, vertical)
}

func TestStep_Glider(t *testing.T) {
	u := emptyUniverse(8, 8)
	u.SetCells(glider)

	u.Step()
	assertLive(t, u, []Cell{{1, 0}, {1, 2}, {2, 1}, {2, 2}, {3, 1}})

	for i := 0; i < 3; i++ {
		u.Step()
	}
	assertLive(t, u, []Cell{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}})
	if u.Generation() != 4 {
		t.Fatalf("generation: got %v, expected 4", u.Generation())
	}
}

func TestStep_Spaceship(t *testing.T) {
	input := emptyUniverse(6, 6)
	input.SetCells([]Cell{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}})
	expected := emptyUniverse(6, 6)
	expected.SetCells([]Cell{{2, 1}, {2, 3}, {3, 2}, {3, 3}, {4, 2}})

	input.Step()
	if input.Dump() != expected.Dump() {
		t.Fatalf("got\n%s\nexpected\n%s", input, expected)
	}
}

func TestStep_GliderWrapsAround(t *testing.T) {
	u := emptyUniverse(8, 8)
	u.SetCells(glider)
	// every 4 steps the glider moves by one cell on both axes
	for i := 0; i < 32; i++ {
		u.Step()
	}
	assertLive(t, u, glider)
}

// tiledCount counts neighbors of (row, col) on the 3x3 tiling of the grid without any wrapping
func tiledCount(u *Universe, row uint32, col uint32) uint8 {
	w, h := int(u.Width()), int(u.Height())
	tile := make([][]bool, 3*h)
	for y := range tile {
		tile[y] = make([]bool, 3*w)
		for x := range tile[y] {
			tile[y][x] = u.Alive(uint32(y%h), uint32(x%w))
		}
	}
	var count uint8
	cy, cx := int(row)+h, int(col)+w
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if tile[cy+dy][cx+dx] {
				count++
			}
		}
	}
	return count
}

func TestLiveNeighborCount_Toroidal(t *testing.T) {
	sizes := [][2]uint32{{2, 2}, {3, 2}, {5, 7}, {9, 4}}
	for i, s := range sizes {
		u := randomUniverse(s[0], s[1], uint64(i))
		for row := uint32(0); row < u.Height(); row++ {
			for col := uint32(0); col < u.Width(); col++ {
				if got, expected := u.LiveNeighborCount(row, col), tiledCount(u, row, col); got != expected {
					t.Fatalf("%vx%v cell (%v, %v): got %v, expected %v", s[0], s[1], row, col, got, expected)
				}
			}
		}
	}
}

func TestLiveNeighborCount_RowRotation(t *testing.T) {
	u := randomUniverse(6, 5, 7)
	rotated := emptyUniverse(6, 5)
	h := u.Height()
	for row := uint32(0); row < h; row++ {
		for col := uint32(0); col < u.Width(); col++ {
			// row 0 becomes the last row
			rotated.SetCell((row+h-1)%h, col, u.Alive(row, col))
		}
	}
	for col := uint32(0); col < u.Width(); col++ {
		if u.LiveNeighborCount(0, col) != rotated.LiveNeighborCount(h-1, col) {
			t.Fatalf("column %v: counts differ after rotation", col)
		}
	}
}

func TestLiveNeighborCount_Bound(t *testing.T) {
	for w := uint32(1); w <= 4; w++ {
		for h := uint32(1); h <= 4; h++ {
			full := NewWithSize(w, h, RandomFunc(func() float64 { return 1 }))
			random := randomUniverse(w, h, uint64(w*10+h))
			for _, u := range []*Universe{full, random} {
				for row := uint32(0); row < h; row++ {
					for col := uint32(0); col < w; col++ {
						if n := u.LiveNeighborCount(row, col); n > 8 {
							t.Fatalf("%vx%v cell (%v, %v) has %v neighbors", w, h, row, col, n)
						}
					}
				}
			}
		}
	}
}

func TestSetDimensions_ClearsCells(t *testing.T) {
	u := randomUniverse(10, 10, 3)
	u.Step()
	u.SetDimensions(7, 3)
	if u.Width() != 7 || u.Height() != 3 {
		t.Fatalf("got %vx%v, expected 7x3", u.Width(), u.Height())
	}
	if u.LiveCells() != 0 {
		t.Fatalf("resized grid has %v live cells", u.LiveCells())
	}
	if len(u.Cells()) != 1 {
		t.Fatalf("21 cells expected in one word, got %v words", len(u.Cells()))
	}
	if u.Generation() != 0 {
		t.Fatalf("generation is not reset")
	}
}

func TestSetDimensions_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("overflowing dimensions were accepted")
		}
	}()
	emptyUniverse(1, 1).SetDimensions(1<<16, 1<<16)
}

func TestSetCells_Idempotent(t *testing.T) {
	cells := []Cell{{0, 0}, {3, 2}, {0, 0}, {1, 4}}
	once := randomUniverse(5, 5, 11)
	twice := randomUniverse(5, 5, 11)
	before := liveSet(once)

	once.SetCells(cells)
	twice.SetCells(cells)
	twice.SetCells(cells)
	if once.Dump() != twice.Dump() {
		t.Fatalf("the second call changed the grid")
	}

	listed := map[Cell]bool{}
	for _, c := range cells {
		listed[c] = true
	}
	after := liveSet(once)
	for row := uint32(0); row < 5; row++ {
		for col := uint32(0); col < 5; col++ {
			c := Cell{row, col}
			if !listed[c] && before[c] != after[c] {
				t.Fatalf("cell %v is not listed but changed", c)
			}
		}
	}
}

func TestToggleCell(t *testing.T) {
	var out bytes.Buffer
	u := emptyUniverse(4, 4)
	u.SetDebugLogger(log.New(&out, "", 0))

	u.ToggleCell(1, 2)
	assertLive(t, u, []Cell{{1, 2}})
	if !strings.Contains(out.String(), "cells:  64") {
		t.Fatalf("unexpected debug dump: %q", out.String())
	}
	u.ToggleCell(1, 2)
	assertLive(t, u, nil)
}

func TestKillCell_SetsAlive(t *testing.T) {
	u := emptyUniverse(3, 3)
	u.KillCell(2, 1)
	u.KillCell(2, 1)
	assertLive(t, u, []Cell{{2, 1}})
}

func TestClear(t *testing.T) {
	u := randomUniverse(9, 9, 5)
	u.Clear()
	if u.LiveCells() != 0 {
		t.Fatalf("%v cells survived", u.LiveCells())
	}
}

func TestIndex_OutOfRange(t *testing.T) {
	u := emptyUniverse(3, 3)
	for _, c := range []Cell{{3, 0}, {0, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("cell %v outside the grid was accepted", c)
				}
			}()
			u.ToggleCell(c.Row, c.Col)
		}()
	}
	if u.Index(2, 1) != 7 {
		t.Fatalf("unexpected index")
	}
}

func TestCells_Layout(t *testing.T) {
	u := emptyUniverse(10, 10)
	u.SetCells([]Cell{{0, 0}, {6, 4}, {9, 9}})
	words := u.Cells()
	if words[0] != 1 {
		t.Fatalf("word 0: %b", words[0])
	}
	// cell 64 is (6, 4), cell 99 is (9, 9)
	if words[1] != 1|1<<35 {
		t.Fatalf("word 1: %b", words[1])
	}
}

func TestString(t *testing.T) {
	u := emptyUniverse(3, 2)
	u.SetCells([]Cell{{0, 1}, {1, 2}})
	if s := u.String(); s != "□■□\n□□■\n" {
		t.Fatalf("unexpected rendering:\n%s", s)
	}
}

func TestWrapAdd(t *testing.T) {
	cases := []struct {
		coord, delta, dim, expected uint32
	}{
		{0, 4, 5, 4},
		{4, 1, 5, 0},
		{2, 4, 5, 1},
		{3_000_000_000 - 1, 1, 3_000_000_000, 0},
		{3_000_000_000 - 1, 3_000_000_000 - 1, 3_000_000_000, 3_000_000_000 - 2},
		{math.MaxUint32 - 1, math.MaxUint32 - 1, math.MaxUint32, math.MaxUint32 - 2},
	}
	for _, c := range cases {
		if got := wrapAdd(c.coord, c.delta, c.dim); got != c.expected {
			t.Errorf("wrapAdd(%v, %v, %v): got %v, expected %v", c.coord, c.delta, c.dim, got, c.expected)
		}
	}
}

func TestLiveNeighborCount_TallGrid(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates a 3e9 cells grid")
	}
	const h = 3_000_000_000
	u := emptyUniverse(1, 1)
	u.SetDimensions(1, h)
	u.SetCell(h-2, 0, true)
	// the single column makes the west and east neighbors the cells of the same column
	if n := u.LiveNeighborCount(h-1, 0); n != 3 {
		t.Fatalf("got %v neighbors, expected 3", n)
	}
	if n := u.LiveNeighborCount(0, 0); n != 0 {
		t.Fatalf("row 0: got %v neighbors, expected 0", n)
	}
}
