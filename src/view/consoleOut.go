package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"bitlife/src/simulation"
)

// ConsoleOut prints the simulation progress without any interaction
type ConsoleOut struct {
	c         simulation.Controller
	w         io.Writer
	startTime time.Time
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{w: os.Stdout}
}

func (c *ConsoleOut) Refresh() {
	st := c.c.Status()
	if st.RunningMode == simulation.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Stable":         st.Stable,
		}
		if r, ok := st.TickRate(); ok {
			resultData["Tick rate"] = r
		}
		fmt.Fprintln(c.w, aurora.Red("\nFinished:"))
		c.printHashData(resultData)
	} else if st.RunningMode == simulation.RunningStateRun {
		if st.IterationNum%10 != 0 {
			return
		}
		if r, ok := st.TickRate(); ok {
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v, ticks: %.1f/s\n", st.IterationNum, st.LiveCells, r.Latest)
		} else {
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(ctrl simulation.Controller) {
	c.c = ctrl
	o := c.c.Options()
	fmt.Fprintln(c.w, aurora.Green("Running configuration:"))
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	fmt.Fprintf(c.w, "  Steps per tick: %v\n", o.StepsPerTick)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, aurora.Cyan("\nSimulation started..."))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
