//go:build !ebiten

package view

import (
	"errors"

	"bitlife/src/simulation"
)

// Window is a placeholder for the builds without the ebiten tag
type Window struct{}

// NewWindow reports that the graphical viewer is not built in
func NewWindow(int) (*Window, error) {
	return nil, errors.New("the window viewer requires building with the 'ebiten' tag")
}

func (w *Window) Register(simulation.Controller) {}
func (w *Window) Refresh()                       {}
func (w *Window) Start()                         {}
func (w *Window) Open() error                    { return nil }
