// This file is part of GopherPVR.
//
// GopherPVR is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPVR is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPVR.  If not, see <https://www.gnu.org/licenses/>.

package ebitenrend

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrQuit can be returned by the step function to close the window without
// error.
var ErrQuit = errors.New("ebitenrend: quit")

// Window is an implementation of the ebiten.Game interface. It displays the
// most recent frame drawn by the backend.
type Window struct {
	backend *Ebiten

	// called once per tick from the ebiten goroutine
	step func() error

	// the number of frames presented
	frames int
}

// NewWindow is the preferred method of initialisation for the Window type.
func NewWindow(backend *Ebiten, step func() error) *Window {
	return &Window{
		backend: backend,
		step:    step,
	}
}

// Run opens the window and blocks until it is closed or until the step
// function returns an error. ErrQuit is not returned as an error.
func (win *Window) Run(title string) error {
	ebiten.SetWindowSize(NativeWindowSize())
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	err := ebiten.RunGame(win)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// NativeWindowSize returns the default size of the window.
func NativeWindowSize() (int, int) {
	return 640, 480
}

// Update implements the ebiten.Game interface.
func (win *Window) Update() error {
	if win.step == nil {
		return nil
	}
	return win.step()
}

// Draw implements the ebiten.Game interface.
func (win *Window) Draw(screen *ebiten.Image) {
	img := win.backend.Image()
	if img == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	if win.backend.scale > 1 {
		s := 1 / float64(win.backend.scale)
		op.GeoM.Scale(s, s)
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(img, op)
	win.frames++
}

// Layout implements the ebiten.Game interface.
func (win *Window) Layout(_, _ int) (int, int) {
	return NativeWindowSize()
}

// Frames returns the number of frames presented.
func (win *Window) Frames() int {
	return win.frames
}
