//go:build ebiten

package view

import (
	"errors"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"bitlife/src/simulation"
)

// Window is the graphical viewer
// click toggles the cell, ctrl+click places the north west glider, +/- change the steps per tick
type Window struct {
	c        simulation.Controller
	scale    int
	img      *ebiten.Image
	buf      []byte
	w, h     int
	onColor  color.Color
	offColor color.Color
}

// NewWindow creates the window viewer, every cell takes scale x scale pixels
func NewWindow(scale int) (*Window, error) {
	if scale <= 0 {
		scale = 5
	}
	return &Window{scale: scale, onColor: color.Black, offColor: color.White}, nil
}

func (w *Window) Register(c simulation.Controller) {
	w.c = c
}

// Refresh does nothing, the frame is taken on every draw
func (w *Window) Refresh() {}

// Start opens the window and blocks until it is closed
func (w *Window) Start() {
	if err := w.Open(); err != nil {
		log.Panicln(err)
	}
}

// Open runs the window loop
func (w *Window) Open() error {
	o := w.c.Options()
	ebiten.SetWindowTitle("bitlife")
	ebiten.SetWindowSize(o.Width*w.scale, o.Height*w.scale)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if w.c.Status().RunningMode == simulation.RunningStateRun {
			w.c.Stop()
		} else {
			w.c.Run()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		w.c.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.c.SettleWithRandomData()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.c.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		w.c.SetStepsPerTick(w.c.Options().StepsPerTick + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		w.c.SetStepsPerTick(w.c.Options().StepsPerTick - 1)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if row, col, ok := cellAt(x, y, w.scale, w.c.Frame()); ok {
			if ebiten.IsKeyPressed(ebiten.KeyControl) {
				w.c.Stamp(simulation.StampTemplate, row, col)
			} else {
				w.c.InverseCell(row, col)
			}
		}
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	f := w.c.Frame()
	if w.img == nil || f.Width != w.w || f.Height != w.h {
		w.w, w.h = f.Width, f.Height
		w.img = ebiten.NewImage(f.Width, f.Height)
		w.buf = make([]byte, 4*f.Width*f.Height)
	}
	fillFrameRGBA(w.buf, f, w.onColor, w.offColor)
	w.img.WritePixels(w.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)
	ebitenutil.DebugPrint(screen, statusLine(w.c.Status(), w.c.Options()))
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	f := w.c.Frame()
	return f.Width * w.scale, f.Height * w.scale
}
