package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"bitlife/src/simulation"
	"bitlife/src/view"
)

type EnvOptions struct {
	interactive bool
	window      bool
	randomData  bool
	debug       bool
	template    string
	scale       int
}

func main() {
	eo, so := initOptions()

	logger := log.New(os.Stderr, "bitlife: ", log.LstdFlags)
	if eo.debug {
		so.Logger = logger
	}

	var stateCh chan simulation.Status
	if !eo.interactive && !eo.window {
		stateCh = make(chan simulation.Status, 10) // the buffered channel to getting the simulation status
	}

	s := simulation.New(so, stateCh)

	switch {
	case eo.window:
		w, err := view.NewWindow(eo.scale)
		if err != nil {
			logger.Fatalln(err)
		}
		s.RegisterViewer(w)
		settle(s, eo)
		w.Start()
		s.Close()
	case eo.interactive:
		v := view.NewViewTerminal()
		s.RegisterViewer(v)
		settle(s, eo)
		v.Start()
		s.Close()
	default:
		c := view.NewConsoleOut()
		s.RegisterViewer(c)
		settle(s, eo)
		c.Start()
		if err := runHeadless(s, stateCh); err != nil {
			logger.Fatalln(err)
		}
	}
}

// settle populates the universe with the random data or with the template
func settle(s *simulation.Simulation, eo *EnvOptions) {
	if eo.randomData {
		s.SettleWithRandomData()
	} else {
		s.SettleTemplate(eo.template)
	}
}

// runHeadless runs the simulation until it is finished or interrupted
func runHeadless(s *simulation.Simulation, stateCh chan simulation.Status) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	startTime := time.Now()
	s.Run()
	g.Go(func() error {
		for {
			select {
			case st := <-stateCh:
				if st.RunningMode == simulation.RunningStateFinished {
					totalTime := time.Since(startTime).Round(time.Millisecond)
					fmt.Printf("Finished, iteration is: %v, total running time: %v\n", st.IterationNum, totalTime)
					if r, ok := st.TickRate(); ok {
						fmt.Printf("Tick rate: %v\n", r)
					}
					cancel()
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		if s.Status().RunningMode == simulation.RunningStateRun {
			s.Stop()
			return fmt.Errorf("interrupted at iteration %v", s.Status().IterationNum)
		}
		return nil
	})
	err := g.Wait()
	s.Close()
	return err
}

func initOptions() (eo *EnvOptions, so *simulation.Options) {
	o := simulation.DefaultOptions
	so = &o
	eo = &EnvOptions{template: "sample", scale: 5}

	templateNames := make([]string, 0, len(simulation.Templates))
	for _, t := range simulation.Templates {
		templateNames = append(templateNames, t.Name)
	}
	sort.Strings(templateNames)

	flaggy.SetName("bitlife")
	flaggy.SetDescription("\"The Life\" game on the toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&so.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&so.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&so.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int(&so.StepsPerTick, "k", "stepsPerTick", "Generations calculated per tick of the running simulation")
	flaggy.UInt64(&so.Seed, "", "seed", "Random seed, 0 takes the seed from the clock")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.window, "w", "window", "Start graphical mode")
	flaggy.Int(&eo.scale, "", "scale", "Cell size in pixels for the graphical mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Bool(&eo.debug, "d", "debug", "Log the raw cell data on every change")
	flaggy.String(&eo.template, "t", "template", "Template to settle with ["+strings.Join(templateNames, "|")+"]")

	flaggy.Parse()

	if !simulation.ValidDimensions(so.Width, so.Height) {
		flaggy.ShowHelpAndExit("width and height must be positive and the field must fit into 2^32 cells")
	}
	if so.StepsPerTick < 1 {
		flaggy.ShowHelpAndExit("stepsPerTick must be positive")
	}
	if i := sort.SearchStrings(templateNames, eo.template); i == len(templateNames) || templateNames[i] != eo.template {
		flaggy.ShowHelpAndExit("unknown template")
	}

	if !eo.interactive && !eo.window {
		flaggy.ShowHelp("")
	}

	return
}
