package view

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"bitlife/src/simulation"
)

const (
	fieldView    = "field"
	panelView    = "panel"
	keysView     = "keys"
	tooSmallView = "tooSmall"

	panelWidth = 36
	keysHeight = 2
)

// binding ties the key to the action, the empty view means the key works everywhere
type binding struct {
	key    interface{}
	label  string
	help   string
	view   string
	action func(v *gocui.View) error
}

// ConsoleUI is the interactive terminal viewer
// the field takes one char per cell, the side panel shows the generation and the tick rate
type ConsoleUI struct {
	c        simulation.Controller
	g        *gocui.Gui
	bindings []binding
	alive    string
	dead     string
}

var modeNames = map[simulation.RunningState]string{
	simulation.RunningStateManual:   aurora.Blue("paused").String(),
	simulation.RunningStateStep:     aurora.Yellow("stepping").String(),
	simulation.RunningStateRun:      aurora.Cyan("running").String(),
	simulation.RunningStateFinished: aurora.Red("finished").String(),
}

func NewViewTerminal() *ConsoleUI {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	g.Mouse = true
	t := &ConsoleUI{
		g:     g,
		alive: aurora.BrightGreen("█").String(),
		dead:  "·",
	}
	t.bindings = []binding{
		{gocui.KeySpace, "SPACE", "run/pause", "", t.toggleRun},
		{'n', "N", "step", "", t.do(func() { t.c.Step() })},
		{'+', "+", "more steps/tick", "", t.changeStepsPerTick(1)},
		{'-', "-", "fewer steps/tick", "", t.changeStepsPerTick(-1)},
		{'r', "R", "random", "", t.do(func() { t.c.SettleWithRandomData() })},
		{'c', "C", "clear", "", t.do(func() { t.c.Clear() })},
		{'f', "F", "fit field to screen", "", t.fitField},
		{'g', "G", "glider at cursor", fieldView, t.stampAtCursor},
		{gocui.MouseLeft, "MOUSE", "toggle cell", fieldView, t.toggleAtCursor},
		{'q', "Q", "quit", "", quit},
		{gocui.KeyCtrlC, "^C", "quit", "", quit},
	}
	g.SetManagerFunc(t.layout)
	for _, b := range t.bindings {
		action := b.action
		if err := g.SetKeybinding(b.view, b.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return action(v) }); err != nil {
			log.Panicln(err)
		}
	}
	return t
}

func (t *ConsoleUI) Register(c simulation.Controller) {
	t.c = c
}

// Start runs the terminal loop until quit
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

// Refresh is called from the simulation goroutine, the drawing is passed to the gui one
func (t *ConsoleUI) Refresh() {
	t.g.Update(func(g *gocui.Gui) error {
		t.draw(g)
		return nil
	})
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if maxX < panelWidth+12 || maxY < 12 {
		for _, name := range []string{fieldView, panelView, keysView} {
			_ = g.DeleteView(name)
		}
		v, _, err := setView(g, tooSmallView, 0, 0, maxX-1, maxY-1, "")
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprintf(v, "the terminal %vx%v is too small", maxX, maxY)
		return nil
	}
	_ = g.DeleteView(tooSmallView)

	if _, _, err := setView(g, fieldView, 0, 0, maxX-panelWidth-2, maxY-keysHeight-2, ""); err != nil {
		return err
	}
	if _, _, err := setView(g, panelView, maxX-panelWidth-1, 0, maxX-1, maxY-keysHeight-2, "Statistics"); err != nil {
		return err
	}
	keys, created, err := setView(g, keysView, -1, maxY-keysHeight-1, maxX, maxY, "")
	if err != nil {
		return err
	}
	if created {
		keys.Frame = false
		keys.Wrap = true
		writeKeys(keys, t.bindings)
	}
	t.draw(g)
	return nil
}

// setView places the view and reports whether it has been created by the call
func setView(g *gocui.Gui, name string, x0, y0, x1, y1 int, title string) (*gocui.View, bool, error) {
	v, err := g.SetView(name, x0, y0, x1, y1)
	if err == nil {
		return v, false, nil
	}
	if err != gocui.ErrUnknownView {
		return nil, false, err
	}
	v.Title = title
	return v, true, nil
}

// draw redraws the field and the statistics, must run on the gui goroutine
func (t *ConsoleUI) draw(g *gocui.Gui) {
	if v, err := g.View(fieldView); err == nil {
		f := t.c.Frame()
		w, h := v.Size()
		v.Clear()
		v.Title = fieldTitle(f, w, h)
		writeField(v, f, w, h, t.alive, t.dead)
	}
	if v, err := g.View(panelView); err == nil {
		v.Clear()
		writePanel(v, t.c.Status(), t.c.Options())
	}
}

func fieldTitle(f simulation.Frame, w int, h int) string {
	if f.Width > w || f.Height > h {
		return fmt.Sprintf("Field %vx%v (showing %vx%v)", f.Width, f.Height, min(w, f.Width), min(h, f.Height))
	}
	return fmt.Sprintf("Field %vx%v", f.Width, f.Height)
}

// writeField writes the top left w x h part of the frame
func writeField(out io.Writer, f simulation.Frame, w int, h int, alive string, dead string) {
	var b strings.Builder
	for row := 0; row < f.Height && row < h; row++ {
		for col := 0; col < f.Width && col < w; col++ {
			if f.Alive(row, col) {
				b.WriteString(alive)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(out, b.String())
}

func writePanel(out io.Writer, st simulation.Status, o simulation.Options) {
	prop := func(name string, value interface{}) {
		fmt.Fprintf(out, " %s %v\n", aurora.Green(fmt.Sprintf("%-15s", name)), value)
	}
	prop("Mode", modeNames[st.RunningMode])
	prop("Generation", st.IterationNum)
	prop("Live cells", st.LiveCells)
	if st.Stable {
		prop("Stable", aurora.Yellow("yes"))
	} else {
		prop("Stable", "no")
	}
	prop("Step time", st.IterationTime.Round(time.Microsecond))
	fmt.Fprintln(out)
	prop("Steps per tick", o.StepsPerTick)
	if r, ok := st.TickRate(); ok {
		prop("Ticks/s", fmt.Sprintf("%.1f", r.Latest))
		prop("  mean", fmt.Sprintf("%.1f", r.Mean))
		prop("  min / max", fmt.Sprintf("%.1f / %.1f", r.Min, r.Max))
		prop("  samples", r.Samples)
	} else {
		prop("Ticks/s", "-")
	}
	fmt.Fprintln(out)
	prop("Field", fmt.Sprintf("%v x %v", o.Width, o.Height))
	prop("Interval", o.Interval)
	prop("Max steps", o.MaxSteps)
	prop("Seed", o.Advanced["seed"])
}

func writeKeys(out io.Writer, bindings []binding) {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, aurora.Bold(b.label).String()+" "+b.help)
	}
	_, _ = io.WriteString(out, strings.Join(parts, "  "))
}

func quit(_ *gocui.View) error {
	return gocui.ErrQuit
}

// do wraps the controller call which needs no cursor
func (t *ConsoleUI) do(f func()) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		f()
		return nil
	}
}

func (t *ConsoleUI) toggleRun(_ *gocui.View) error {
	if t.c.Status().RunningMode == simulation.RunningStateRun {
		t.c.Stop()
	} else {
		t.c.Run()
	}
	return nil
}

func (t *ConsoleUI) changeStepsPerTick(delta int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		t.c.SetStepsPerTick(t.c.Options().StepsPerTick + delta)
		return nil
	}
}

// fitField resizes the universe to the visible part of the field
func (t *ConsoleUI) fitField(_ *gocui.View) error {
	v, err := t.g.View(fieldView)
	if err != nil {
		return nil
	}
	w, h := v.Size()
	t.c.Resize(w, h)
	return nil
}

func (t *ConsoleUI) toggleAtCursor(v *gocui.View) error {
	col, row := v.Cursor()
	t.c.InverseCell(row, col)
	return nil
}

func (t *ConsoleUI) stampAtCursor(v *gocui.View) error {
	col, row := v.Cursor()
	t.c.Stamp(simulation.StampTemplate, row, col)
	return nil
}
