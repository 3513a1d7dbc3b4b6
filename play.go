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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/sync/errgroup"

	"github.com/gopherpvr/gopherpvr/easyterm"
	"github.com/gopherpvr/gopherpvr/gui/sdlwindow"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/modalflag"
	"github.com/gopherpvr/gopherpvr/pvr/core"
	"github.com/gopherpvr/gopherpvr/pvr/limiter"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/render/ebitenrend"
	"github.com/gopherpvr/gopherpvr/pvr/render/gl32"
	"github.com/gopherpvr/gopherpvr/pvr/render/software"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/screenshot"
	"github.com/gopherpvr/gopherpvr/statsview"
	"github.com/gopherpvr/gopherpvr/streamfile"
	"github.com/gopherpvr/gopherpvr/version"
)

// unavailable is returned by a backend candidate that could not be created. it
// always fails to initialise
type unavailable struct {
	*render.Null
	err error
}

func (u unavailable) Init() error {
	return u.err
}

// session is a single playback of a stream file
type session struct {
	pth  string
	prf  *render.Preferences
	lmtr *limiter.Limiter
	term *easyterm.Terminal

	queue *render.Queue
	core  *core.Core
	drv   *render.Driver

	backend render.Renderer
	name    string
	win     *sdlwindow.Window
}

func play(md *modalflag.Modes) error {
	md.NewMode()

	backend := md.AddString("backend", "", "comma separated list of backends to try. the preference is used if empty")
	scale := md.AddFloat64("scale", 0.0, "render scale")
	fpsCap := md.AddBool("fpscap", true, "limit playback to the refresh rate")
	rate := md.AddString("rate", "NTSC", "refresh rate: NTSC, PAL, VGA")
	step := md.AddBool("step", false, "wait for a key press before every frame")
	stats := md.AddBool("stats", false, fmt.Sprintf("run stats server (%s)", statsviewAvailability()))
	savePrefs := md.AddBool("saveprefs", false, "save render preferences on exit")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setLogging(*log)

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("stream file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	s := &session{
		pth:  md.GetArg(0),
		lmtr: limiter.NewLimiter(),
	}

	s.prf, err = render.NewPreferences()
	if err != nil {
		return err
	}

	if *scale > 0.0 {
		err = s.prf.Scale.Set(*scale)
		if err != nil {
			return err
		}
	}
	if *backend != "" {
		err = s.prf.Backend.Set(*backend)
		if err != nil {
			return err
		}
	}

	switch strings.ToUpper(*rate) {
	case "NTSC":
		s.lmtr.SetRate(limiter.RefreshNTSC)
	case "PAL":
		s.lmtr.SetRate(limiter.RefreshPAL)
	case "VGA":
		s.lmtr.SetRate(limiter.RefreshVGA)
	default:
		return fmt.Errorf("unknown refresh rate: %s", *rate)
	}
	s.lmtr.Active.Store(*fpsCap)

	if *stats && statsview.Available() {
		stop := statsview.Launch(md.Output)
		defer stop()
	}

	if *step {
		s.term, err = easyterm.NewTerminal(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		err = s.term.CBreakMode()
		if err != nil {
			return err
		}
		defer s.term.CleanUp()
		s.term.Print("press any key to advance one frame. q to quit\r\n")
	}

	err = s.selectBackend()
	if err != nil {
		return err
	}
	defer s.backend.Term()
	if s.win != nil {
		defer s.win.Destroy()
	}

	s.queue = render.NewQueue(ta.NewPool())
	s.queue.AutoSkip = s.lmtr.FastEnough
	s.drv = render.NewDriver(s.queue, s.backend, s.prf)
	s.core = core.NewCore(s.queue, nil)
	defer s.core.Terminate()

	switch s.name {
	case "gl32":
		err = s.runGL()
	case "ebiten":
		err = s.runEbiten()
	default:
		err = s.runHeadless()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "core: %v\nqueue: %v\ndriver: %v\n", s.core.Stats(), s.queue.Stats(), s.drv.Stats())

	if *savePrefs {
		return s.prf.Save()
	}

	return nil
}

func statsviewAvailability() string {
	if statsview.Available() {
		return "available"
	}
	return "not available in this build"
}

func (s *session) title() string {
	v, _, _ := version.Version()
	return fmt.Sprintf("%s %s", version.ApplicationName, v)
}

func (s *session) selectBackend() error {
	scale := int(s.prf.RenderScale())

	var candidates []render.Candidate
	for _, name := range s.prf.Backends() {
		switch name {
		case "gl32":
			candidates = append(candidates, render.Candidate{
				Name: name,
				New: func() render.Renderer {
					w, h := ebitenrend.NativeWindowSize()
					win, err := sdlwindow.NewWindow(s.title(), int32(w), int32(h))
					if err != nil {
						return unavailable{Null: render.NewNull(), err: err}
					}
					s.win = win
					return gl32.New(scale)
				},
			})
		case "ebiten":
			candidates = append(candidates, render.Candidate{
				Name: name,
				New: func() render.Renderer {
					return ebitenrend.New(scale)
				},
			})
		case "software":
			candidates = append(candidates, render.Candidate{
				Name: name,
				New: func() render.Renderer {
					return software.New(scale)
				},
			})
		default:
			logger.Logf(logger.Allow, "play", "unknown backend: %s", name)
		}
	}

	var err error
	s.backend, s.name, err = render.SelectBackend(candidates)
	if err != nil {
		return err
	}

	// the window is only required by the gl32 backend
	if s.name != "gl32" && s.win != nil {
		s.win.Destroy()
		s.win = nil
	}

	return nil
}

// produce plays the stream file into the core. the queue paces the producer
// to the speed of the render goroutine
func (s *session) produce(ctx context.Context) error {
	f, err := os.Open(s.pth)
	if err != nil {
		return err
	}
	defer f.Close()

	rd, err := streamfile.NewReader(bufio.NewReader(f))
	if err != nil {
		return err
	}

	var keys <-chan rune
	if s.term != nil {
		keys = s.term.Keys()
	}

	return streamfile.Play(rd, s.core, func() bool {
		s.lmtr.CheckFrame()
		if keys != nil {
			select {
			case <-ctx.Done():
				return false
			case k := <-keys:
				if k == 'q' || k == 'Q' {
					return false
				}
			}
		}
		return ctx.Err() == nil
	})
}

// wait until the last queued context has been taken by the render goroutine
func (s *session) drain(ctx context.Context) {
	tck := time.NewTicker(10 * time.Millisecond)
	defer tck.Stop()
	for {
		st := s.queue.Stats()
		if st.Frames >= st.Queued {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-tck.C:
		}
	}
}

// the render goroutine is the calling goroutine. the driver is called by the
// window loop
func (s *session) runWindowed(loop func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.produce(gctx)
	})

	err := loop(gctx)

	// unblock the producer if it is waiting for the queue
	cancel()
	s.queue.Shutdown()

	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		return werr
	}
	return err
}

func (s *session) runGL() error {
	rnd := s.backend.(*gl32.GL)

	s.win.OnKey = func(key string) {
		if key == "S" {
			s.screenshot(rnd, true)
		}
	}

	return s.runWindowed(func(ctx context.Context) error {
		for s.win.Service() {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := s.drv.Step(); err != nil {
				return err
			}
			rnd.Present(s.win.DrawableSize())
			s.win.Swap()
		}
		return nil
	})
}

func (s *session) runEbiten() error {
	rnd := s.backend.(*ebitenrend.Ebiten)

	return s.runWindowed(func(ctx context.Context) error {
		win := ebitenrend.NewWindow(rnd, func() error {
			if ctx.Err() != nil {
				return ebitenrend.ErrQuit
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyS) {
				s.screenshot(rnd, false)
			}
			_, err := s.drv.Step()
			return err
		})
		return win.Run(s.title())
	})
}

func (s *session) runHeadless() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.drv.Run(gctx)
	})

	g.Go(func() error {
		err := s.produce(gctx)
		if err != nil {
			return err
		}
		s.drain(gctx)
		cancel()
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// save the most recent frame of the backend. gl32 frames are stored with the
// bottom row first
func (s *session) screenshot(f render.Frame, flip bool) {
	w, h := f.FrameSize()
	pix := f.Frame()
	if len(pix) < w*h*4 {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		src := y
		if flip {
			src = h - 1 - y
		}
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], pix[src*w*4:(src+1)*w*4])
	}

	format := s.prf.ScreenshotFormat.String()
	err := screenshot.Save(img, screenshot.Filename("", format), format)
	if err != nil {
		logger.Log(logger.Allow, "play", err)
	}
}
