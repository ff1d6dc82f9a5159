package simulation

import "bitlife/src/universe"

// Controller is the simulation surface used by the viewers and the command line
type Controller interface {
	Status() Status
	Options() Options
	Frame() Frame
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string)
	Stamp(name string, row int, col int)
	SettleWithRandomData()
	Settle(cells []universe.Cell)
	InverseCell(row int, col int)
	Resize(width int, height int)
	SetStepsPerTick(n int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
