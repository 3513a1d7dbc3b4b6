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

// Package sdlwindow opens an SDL window with an OpenGL 3.2 core context. It
// is used to present the frames drawn by the gl32 rendering backend.
//
// The window must be created and serviced from the same goroutine. The
// NewWindow() function locks the calling goroutine to the OS thread.
package sdlwindow

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gopherpvr/gopherpvr/logger"
)

// Window is an SDL window with a current OpenGL context.
type Window struct {
	window  *sdl.Window
	context sdl.GLContext

	// called for every key press. the argument is the name of the key as
	// returned by SDL
	OnKey func(key string)
}

// NewWindow is the preferred method of initialisation for the Window type.
func NewWindow(title string, width int32, height int32) (*Window, error) {
	// the SDL package calls LockOSThread() but we call it here too. it can't
	// hurt and we never unlock it in any case
	runtime.LockOSThread()

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	var sdlVersion sdl.Version
	sdl.VERSION(&sdlVersion)
	logger.Logf(logger.Allow, "sdl", "version %d.%d.%d", sdlVersion.Major, sdlVersion.Minor, sdlVersion.Patch)

	win := &Window{}

	win.window, err = sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		width, height,
		sdl.WINDOW_OPENGL|sdl.WINDOW_ALLOW_HIGHDPI|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	win.context, err = win.window.GLCreateContext()
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = win.window.GLMakeCurrent(win.context)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	// synchronise with the monitor. failure is not fatal
	_ = sdl.GLSetSwapInterval(1)

	return win, nil
}

// Destroy closes the window. The OpenGL context is no longer valid after this
// function returns.
func (win *Window) Destroy() {
	if win.context != nil {
		sdl.GLDeleteContext(win.context)
		win.context = nil
	}
	if win.window != nil {
		if err := win.window.Destroy(); err != nil {
			logger.Logf(logger.Allow, "sdl", "%v", err)
		}
		win.window = nil
	}
	sdl.Quit()
}

// Service processes pending SDL events. Returns false if the window has been
// closed by the user.
func (win *Window) Service() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN {
				continue // for loop
			}
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
			if win.OnKey != nil {
				win.OnKey(sdl.GetKeyName(ev.Keysym.Sym))
			}
		}
	}
	return true
}

// DrawableSize returns the dimensions of the OpenGL drawable area, which may
// be different to the window size on high DPI displays.
func (win *Window) DrawableSize() (int32, int32) {
	return win.window.GLGetDrawableSize()
}

// Swap presents the default framebuffer.
func (win *Window) Swap() {
	win.window.GLSwap()
}

// SetTitle changes the title of the window.
func (win *Window) SetTitle(title string) {
	win.window.SetTitle(title)
}
