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
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/gopherpvr/gopherpvr/dump"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/modalflag"
	"github.com/gopherpvr/gopherpvr/pvr/core"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/render/digest"
	"github.com/gopherpvr/gopherpvr/pvr/render/software"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/screenshot"
	"github.com/gopherpvr/gopherpvr/streamfile"
	"github.com/gopherpvr/gopherpvr/streamscript"
	"github.com/gopherpvr/gopherpvr/version"
)

// the windowing and graphics libraries require that they are used from the
// main thread
func init() {
	runtime.LockOSThread()
}

// #mainthread
func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("PLAY", "DIGEST", "SHOT", "DUMP", "SCRIPT", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md)

	case "DIGEST":
		err = digestMode(md)

	case "SHOT":
		err = shot(md)

	case "DUMP":
		err = dumpMode(md)

	case "SCRIPT":
		err = script(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// replay the stream file through the backend in the calling goroutine. the
// backend must have been initialised. onFrame is called every time the backend
// produces a frame and can be nil. replay stops early if onFrame returns false
func replay(pth string, backend render.Renderer, prf *render.Preferences, onFrame func(frame int) (bool, error)) (*render.Driver, error) {
	f, err := os.Open(pth)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd, err := streamfile.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}

	queue := render.NewQueue(ta.NewPool())
	drv := render.NewDriver(queue, backend, prf)
	c := core.NewCore(queue, nil)
	defer c.Terminate()

	var frame int
	var stepErr error

	err = streamfile.Play(rd, c, func() bool {
		ok, err := drv.Step()
		if err != nil {
			stepErr = err
			return false
		}
		if !ok {
			return true
		}
		frame++
		if onFrame == nil {
			return true
		}
		cont, err := onFrame(frame - 1)
		if err != nil {
			stepErr = err
			return false
		}
		return cont
	})
	if err != nil {
		return drv, err
	}

	return drv, stepErr
}

// preferences for the modes that must produce the same output regardless of
// the preferences saved by the user
func defaultPreferences() (*render.Preferences, error) {
	prf, err := render.NewPreferences()
	if err != nil {
		return nil, err
	}
	prf.SetDefaults()
	return prf, nil
}

func setLogging(log bool) {
	if log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}
}

type digester interface {
	render.Renderer
	digest.Digest
	Frames() int
}

func digestMode(md *modalflag.Modes) error {
	md.NewMode()

	video := md.AddBool("video", false, "digest the rendered image rather than the geometry")
	scale := md.AddInt("scale", 1, "render scale for the video digest")
	perFrame := md.AddBool("frames", false, "print the digest after every frame")
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
		prf, err := defaultPreferences()
		if err != nil {
			return err
		}

		var dig digester
		if *video {
			v, err := digest.NewVideo(software.New(*scale))
			if err != nil {
				return err
			}
			dig = v
		} else {
			dig = digest.NewGeometry()
		}

		err = dig.Init()
		if err != nil {
			return err
		}
		defer dig.Term()

		var onFrame func(int) (bool, error)
		if *perFrame {
			onFrame = func(n int) (bool, error) {
				fmt.Fprintf(md.Output, "%d: %s\n", n, dig.Hash())
				return true, nil
			}
		}

		_, err = replay(md.GetArg(0), dig, prf, onFrame)
		if err != nil {
			return err
		}

		fmt.Fprintf(md.Output, "%s (%d frames)\n", dig.Hash(), dig.Frames())

	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}

func shot(md *modalflag.Modes) error {
	md.NewMode()

	frame := md.AddInt("frame", -1, "frame to save. the last frame if negative")
	format := md.AddString("format", "", "image format: png, webp, tga. the preference is used if empty")
	scaled := md.AddBool("scaled", false, "save the frame at the render scale rather than the native resolution")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setLogging(*log)

	if len(md.RemainingArgs()) < 1 {
		return fmt.Errorf("stream file required for %s mode", md)
	}
	if len(md.RemainingArgs()) > 2 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	prf, err := render.NewPreferences()
	if err != nil {
		return err
	}

	if *format == "" {
		*format = prf.ScreenshotFormat.String()
	}

	sw := software.New(int(prf.RenderScale()))
	err = sw.Init()
	if err != nil {
		return err
	}
	defer sw.Term()

	var saved bool
	drv, err := replay(md.GetArg(0), sw, prf, func(n int) (bool, error) {
		if n != *frame {
			return true, nil
		}
		saved = true
		return false, nil
	})
	if err != nil {
		return err
	}

	if drv.Stats().Rendered == 0 {
		return fmt.Errorf("no frames in stream")
	}
	if *frame >= 0 && !saved {
		return fmt.Errorf("stream has only %d frames", drv.Stats().Rendered)
	}

	img := sw.Image()
	if *scaled {
		img = sw.ScaledImage()
	}

	pth := md.GetArg(1)
	if pth == "" {
		pth = screenshot.Filename(strings.TrimSuffix(baseName(md.GetArg(0)), ".gpvr"), *format)
	}

	err = screenshot.Save(img, pth, *format)
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "saved %s\n", pth)

	return nil
}

func baseName(pth string) string {
	if i := strings.LastIndexAny(pth, `/\`); i >= 0 {
		return pth[i+1:]
	}
	return pth
}

// dumper is a backend that draws nothing but writes a description of the
// contexts it is given
type dumper struct {
	*render.Null

	output io.Writer

	// frame to dump. every frame if negative
	frame int

	// only contexts bound to the address are dumped if byAddress is true
	address   uint32
	byAddress bool

	// filename for the graph of the frame. no graph if empty
	graph string
	limit int
}

func (d *dumper) Process(ctx *ta.Context) error {
	err := d.Null.Process(ctx)
	if err != nil {
		return err
	}

	n := d.Processed - 1
	if d.frame >= 0 && n != d.frame {
		return nil
	}
	if d.byAddress && ctx.Address != d.address {
		return nil
	}

	fmt.Fprintf(d.output, "--- frame %d\n", n)
	err = dump.Summary(d.output, ctx)
	if err != nil {
		return err
	}

	if d.graph == "" {
		return nil
	}

	f, err := os.Create(d.graph)
	if err != nil {
		return err
	}
	dump.Graph(f, ctx, d.limit)
	return f.Close()
}

func dumpMode(md *modalflag.Modes) error {
	md.NewMode()

	frame := md.AddInt("frame", -1, "frame to dump. every frame if negative")
	address := md.AddAddress("address", 0, "only dump contexts bound to the address")
	graph := md.AddString("graph", "", "write a graphviz file of the frame")
	limit := md.AddInt("limit", dump.DefaultGraphLimit, "number of entries of each list in the graph")
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
		if *graph != "" && *frame < 0 {
			return fmt.Errorf("graph requires a frame number")
		}

		prf, err := defaultPreferences()
		if err != nil {
			return err
		}

		d := &dumper{
			Null:    render.NewNull(),
			output:  md.Output,
			frame:   *frame,
			address: *address,
			graph:   *graph,
			limit:   *limit,
		}
		md.Visit(func(flag string) {
			if flag == "address" {
				d.byAddress = true
			}
		})

		drv, err := replay(md.GetArg(0), d, prf, func(n int) (bool, error) {
			return *frame < 0 || n < *frame, nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(md.Output, "--- %v\n", drv.Stats())

	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}

func script(md *modalflag.Modes) error {
	md.NewMode()

	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setLogging(*log)

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("lua script and output file required for %s mode", md)
	}

	f, err := os.Create(md.GetArg(1))
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := streamscript.NewScript(f)
	if err != nil {
		return err
	}

	err = s.DoFile(md.GetArg(0))
	if err != nil {
		_ = s.Close()
		return err
	}

	err = s.Close()
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%d renders written to %s\n", s.Renders, md.GetArg(1))

	return f.Close()
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		if r == "" {
			r = "no revision information"
		}
		fmt.Fprintln(md.Output, r)
	}

	return nil
}
