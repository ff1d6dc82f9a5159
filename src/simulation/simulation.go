package simulation

import (
	"io"
	"log"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"bitlife/src/universe"
)

// Options represents the Simulation's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	StepsPerTick    int                    // generations calculated per tick of the running simulation
	Seed            uint64                 // random seed, 0 means the seed is taken from the clock
	Logger          *log.Logger            // warnings and engine dumps, nil discards them
	Advanced        map[string]interface{} // advanced options
}

// Status represents the status of the Simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Stable        bool                   // the last step left the universe unchanged
	Details       map[string]interface{} // replaced as a whole on update, never modified in place
}

// Viewer is the interface to any Viewer - the object who can display simulation data or control the simulation
type Viewer interface {
	Refresh()
	Register(c Controller)
	Start()
}

// The simulation running status at the concrete moment
type RunningState int

// default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = universe.DefWidth
	DefHeight             = universe.DefHeight
	DefMaxSkippedTicks    = 5
	DefStepsPerTick       = 1
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	StepsPerTick:    DefStepsPerTick,
}

// Simulation owns the universe and serializes all access to it
// commands changing the running state are executed by the main loop goroutine
// implements Controller interface
type Simulation struct {
	options Options
	state   struct {
		Status
		runID uint64 // the running loop owning the simulation
		sync.Mutex
	}
	grid struct {
		*universe.Universe
		sync.Mutex
	}
	logger    *log.Logger
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
}

// New creates the Simulation instance
// the universe is created empty, use SettleWithRandomData or SettleTemplate to populate it
func New(o *Options, stateCh chan Status) *Simulation {
	if o == nil {
		d := DefaultOptions
		o = &d
	}
	opts := *o
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if !ValidDimensions(opts.Width, opts.Height) {
		logger.Printf("invalid dimensions %vx%v, using %vx%v", opts.Width, opts.Height, DefWidth, DefHeight)
		opts.Width, opts.Height = DefWidth, DefHeight
	}
	if opts.StepsPerTick < 1 {
		opts.StepsPerTick = DefStepsPerTick
	}
	opts.Advanced = map[string]interface{}{}
	for k, v := range o.Advanced {
		opts.Advanced[k] = v
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts.Advanced["seed"] = seed

	s := Simulation{
		options:   opts,
		logger:    logger,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	for _, tmpl := range Templates {
		s.templates[tmpl.Name] = tmpl
	}
	s.state.Details = make(map[string]interface{})

	s.grid.Universe = universe.NewWithSize(uint32(opts.Width), uint32(opts.Height), rand.New(rand.NewPCG(seed, 0)))
	s.grid.SetDebugLogger(opts.Logger)
	s.grid.Clear()
	go s.mainLoop()
	return &s
}

// AddTemplate adds the seeding template to the internal storage
// the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(tmpl Template) {
	s.grid.Lock()
	s.templates[tmpl.Name] = tmpl
	s.grid.Unlock()
}

// Settle makes alive all cells from the list
func (s *Simulation) Settle(cells []universe.Cell) {
	s.grid.Lock()
	s.settle(cells)
	s.grid.Unlock()
	s.updateLiveCells()
	s.refreshView()
}

// SettleTemplate populates the universe with the seeding template
func (s *Simulation) SettleTemplate(name string) {
	s.Stamp(name, 0, 0)
}

// Stamp places the template with its top left corner at row, col
// the template wraps around the grid edges
func (s *Simulation) Stamp(name string, row int, col int) {
	s.grid.Lock()
	tmpl, ok := s.templates[name]
	if !ok {
		s.grid.Unlock()
		return
	}
	w, h := int(s.grid.Width()), int(s.grid.Height())
	if w > 0 && h > 0 {
		for _, c := range tmpl.Coordinates {
			r, cl := wrap(row+int(c.Row), h), wrap(col+int(c.Col), w)
			s.grid.KillCell(uint32(r), uint32(cl))
		}
	}
	s.grid.Unlock()
	s.updateLiveCells()
	s.refreshView()
}

// SettleWithRandomData populates the universe with random data
func (s *Simulation) SettleWithRandomData() {
	if mode := s.Status().RunningMode; mode == RunningStateManual || mode == RunningStateFinished {
		s.controlCh <- s.clear
		s.controlCh <- func() {
			s.grid.Lock()
			s.grid.Reseed()
			s.grid.Unlock()
			s.updateLiveCells()
			s.refreshView()
		}
	}
}

// InverseCell inverses the cell state at row, col
// the coordinates outside the universe are ignored
func (s *Simulation) InverseCell(row int, col int) {
	s.grid.Lock()
	if row < 0 || col < 0 || row >= int(s.grid.Height()) || col >= int(s.grid.Width()) {
		s.grid.Unlock()
		return
	}
	s.grid.ToggleCell(uint32(row), uint32(col))
	s.grid.Unlock()
	s.updateLiveCells()
	s.refreshView()
}

// Resize changes the universe dimensions, all cells are killed and counters are reset
// returns immediately
func (s *Simulation) Resize(width int, height int) {
	if !ValidDimensions(width, height) {
		s.logger.Printf("resize to %vx%v is ignored: invalid dimensions", width, height)
		return
	}
	s.controlCh <- func() {
		s.grid.Lock()
		s.grid.SetDimensions(uint32(width), uint32(height))
		s.grid.Unlock()
		s.state.Lock()
		s.options.Width, s.options.Height = width, height
		s.state.Unlock()
		s.clear()
	}
}

// RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) {
	v.Register(s)
	s.grid.Lock()
	s.views = append(s.views, v)
	s.grid.Unlock()
}

// SetStepsPerTick sets the count of generations calculated per tick, values below 1 mean 1
// the running simulation picks it up on the next tick
func (s *Simulation) SetStepsPerTick(n int) {
	if n < 1 {
		n = 1
	}
	s.state.Lock()
	s.options.StepsPerTick = n
	s.state.Unlock()
}

// StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

// Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

// Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	s.state.Lock()
	defer s.state.Unlock()
	return s.options
}

// Frame returns the copy of the current universe data
func (s *Simulation) Frame() Frame {
	s.grid.Lock()
	defer s.grid.Unlock()
	return newFrame(s.grid.Universe)
}

// Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.controlCh <- s.run
}

// Stop stops the simulation, returns immediately
// the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.controlCh <- s.stop
}

// Step do one simulation step, returns immediately
// the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.controlCh <- s.step
}

// Clear clears the universe (kill all cells and reset all counters), returns immediately
// the Status struct will be written to the stateCh on finish
func (s *Simulation) Clear() {
	s.controlCh <- s.clear
}

// Close stops the main loop, returns immediately
func (s *Simulation) Close() {
	s.closeCh <- true
}

// mainLoop - the main cycle, should start as a goroutine
// waits for command and executes
func (s *Simulation) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case c = <-s.closeCh:
		}
	}
}

// settle makes alive the cells inside the universe, others are skipped
func (s *Simulation) settle(cells []universe.Cell) {
	for _, c := range cells {
		if c.Row >= s.grid.Height() || c.Col >= s.grid.Width() {
			continue
		}
		s.grid.SetCells([]universe.Cell{c})
	}
}

func (s *Simulation) updateLiveCells() {
	s.grid.Lock()
	live := s.grid.LiveCells()
	s.grid.Unlock()
	s.state.Lock()
	s.state.LiveCells = live
	s.state.Unlock()
}

// switchRunningState switch the state of the simulation to RunningState
// also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		s.stateCh <- st
	}
}

// run starts the simulation unless it is already running
// simulation will stop on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	s.state.Lock()
	if mode := s.state.RunningMode; mode == RunningStateRun || mode == RunningStateStep {
		s.state.Unlock()
		return
	}
	s.state.runID++
	id := s.state.runID
	s.state.Unlock()
	s.switchRunningState(RunningStateRun)
	go s.runLoop(id)
}

// runLoop sends the tick command every Interval while the loop owns the running simulation
func (s *Simulation) runLoop(id uint64) {
	skipped := 0
	rates := newRateWindow()
	done := make(chan bool)
	defer close(done)
	for {
		mode, owner := s.runningMode(id)
		if !owner || (mode != RunningStateRun && mode != RunningStateStep) {
			return
		}
		o := s.Options()
		if skipped > o.MaxSkippedTicks {
			s.logger.Printf("simulation is too slow: %v ticks skipped at iteration %v, finishing", skipped, s.Status().IterationNum)
			s.switchRunningState(RunningStateFinished)
			return
		}
		// skip the tick if the simulation is still in the calculation mode
		if mode != RunningStateStep {
			skipped = 0
			s.controlCh <- func() {
				s.tick(rates, o.StepsPerTick)
				done <- true
			}
			<-done
		} else {
			skipped++
		}
		if o.Interval > 0 {
			time.Sleep(o.Interval)
		}
	}
}

// runningMode returns the running mode and whether the loop id still owns the simulation
func (s *Simulation) runningMode(id uint64) (RunningState, bool) {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode, s.state.runID == id
}

// tick records the tick rate and calculates up to n generations
func (s *Simulation) tick(rates *rateWindow, n int) {
	if n < 1 {
		n = 1
	}
	if rates.tick(time.Now()) {
		s.state.Lock()
		details := make(map[string]interface{}, len(s.state.Details)+2)
		for k, v := range s.state.Details {
			details[k] = v
		}
		details[DetailTickRate] = rates.rate()
		details[DetailStepsPerTick] = n
		s.state.Details = details
		s.state.Unlock()
	}
	// the simulation may be stopped between the steps or before the queued tick
	for i := 0; i < n && s.Status().RunningMode == RunningStateRun; i++ {
		s.step()
	}
}

// stop stops the simulation running cycle
func (s *Simulation) stop() {
	if s.Status().RunningMode == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

// step calculates the next generation of the universe
func (s *Simulation) step() {
	finished := false
	s.state.Lock()
	rm := s.state.RunningMode
	s.state.IterationNum++
	iter := s.state.IterationNum
	s.state.Unlock()
	maxIter := s.Options().MaxSteps
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	if maxIter != 0 && iter >= maxIter {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)

	s.grid.Lock()
	start := time.Now()
	s.grid.Step()
	elapsed := time.Since(start)
	live := s.grid.LiveCells()
	stable := s.grid.Stable()
	s.grid.Unlock()

	s.state.Lock()
	s.state.LiveCells = live
	s.state.IterationTime = elapsed
	s.state.Stable = stable
	s.state.Unlock()
	if live == 0 || stable {
		finished = true
	}
}

// clear clears the universe data, reset all counters
func (s *Simulation) clear() {
	s.state.Lock()
	s.grid.Lock()

	s.state.IterationNum = 0
	s.state.LiveCells = 0
	s.state.Stable = false
	s.grid.Clear()
	s.state.RunningMode = RunningStateManual
	s.grid.Unlock()
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

// refreshView calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	s.grid.Lock()
	views := s.views
	s.grid.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}

// wrap normalizes the coordinate into [0, n)
func wrap(v int, n int) int {
	return ((v % n) + n) % n
}

// ValidDimensions reports whether the universe of width x height cells can be created
func ValidDimensions(width int, height int) bool {
	if width <= 0 || height <= 0 || uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return false
	}
	return uint64(width)*uint64(height) <= math.MaxUint32
}
