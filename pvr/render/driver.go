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

package render

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gopherpvr/gopherpvr/assert"
	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/prefs"
	"github.com/gopherpvr/gopherpvr/pvr/passes"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// DriverStats are the counters of a Driver.
type DriverStats struct {
	// frames produced by the backend
	Rendered uint64

	// contexts that the backend did not produce a frame for
	NotRendered uint64

	// render passes abandoned by the parser
	ParseErrors uint64
}

func (s DriverStats) String() string {
	return fmt.Sprintf("rendered %d, not rendered %d, parse errors %d", s.Rendered, s.NotRendered, s.ParseErrors)
}

// Driver takes contexts from the Queue and renders them with the backend.
type Driver struct {
	queue   *Queue
	backend Renderer
	prefs   *Preferences

	// Present is called after the backend has produced a frame. Can be nil
	Present func()

	// the goroutine that called Step() most recently. only used when built
	// with the assertions tag
	goroutine uint64

	rendered    atomic.Uint64
	notRendered atomic.Uint64
	parseErrors atomic.Uint64
}

// NewDriver is the preferred method of initialisation for the Driver type. The
// backend must have been initialised. The frame skip and auto skip preferences
// are applied to the queue. When auto skip is enabled, any AutoSkip predicate
// already set on the queue decides whether the emulation is fast enough. If
// there is no predicate the emulation is assumed to be fast enough.
func NewDriver(queue *Queue, backend Renderer, p *Preferences) *Driver {
	d := &Driver{
		queue:   queue,
		backend: backend,
		prefs:   p,
	}

	queue.SkipFrame.Store(int32(p.SkipFrame.Get().(int)))
	p.SkipFrame.SetHookPost(func(v prefs.Value) error {
		queue.SkipFrame.Store(int32(v.(int)))
		return nil
	})

	autoskip := queue.AutoSkip
	queue.AutoSkip = func() bool {
		if !p.AutoSkip.Get().(bool) {
			return false
		}
		return autoskip == nil || autoskip()
	}

	return d
}

// Backend returns the backend used by the driver.
func (d *Driver) Backend() Renderer {
	return d.backend
}

// Run calls Step() every time a context is queued. Returns when the context is
// cancelled or the queue is shut down. The queue is shut down when Run()
// returns.
func (d *Driver) Run(ctx context.Context) error {
	defer d.queue.Shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.queue.Done():
			return nil
		case <-d.queue.Ready():
		}

		if _, err := d.Step(); err != nil {
			return err
		}
	}
}

// Step renders the context waiting in the queue. Returns true if the backend
// produced a frame. Returns false with no error if the queue is empty. Step()
// never blocks waiting for a context.
func (d *Driver) Step() (bool, error) {
	tactx := d.queue.DequeueRender()
	if tactx == nil {
		return false, nil
	}

	defer d.queue.FinishRender(tactx)

	// the first call to Step() decides the render goroutine
	if assertions {
		if d.goroutine == 0 {
			d.goroutine = assert.GetGoRoutineID()
		}
		assert.SameGoRoutine(d.goroutine, "render driver")
	}

	errs := ta.Parse(tactx, ta.ParseOptions{Textures: d.backend})
	d.parseErrors.Add(uint64(len(errs)))

	passes.Build(&tactx.Rend, passes.Options{
		RenderScale:      d.prefs.RenderScale(),
		PerStripSort:     d.prefs.PerStripSorting.Get().(bool),
		PrimitiveRestart: d.prefs.PrimitiveRestart.Get().(bool),
	})

	if err := d.backend.Process(tactx); err != nil {
		return false, curated.Errorf("render: %v", err)
	}

	ok, err := d.backend.Render()
	if err != nil {
		return false, curated.Errorf("render: %v", err)
	}

	if !ok {
		d.notRendered.Add(1)
		return false, nil
	}

	d.rendered.Add(1)
	if d.Present != nil {
		d.Present()
	}

	return true, nil
}

// Stats returns the counters of the driver.
func (d *Driver) Stats() DriverStats {
	return DriverStats{
		Rendered:    d.rendered.Load(),
		NotRendered: d.notRendered.Load(),
		ParseErrors: d.parseErrors.Load(),
	}
}

// Candidate is a named backend for SelectBackend().
type Candidate struct {
	Name string
	New  func() Renderer
}

// SelectBackend returns the first candidate that initialises without error.
// Failed candidates are logged.
func SelectBackend(candidates []Candidate) (Renderer, string, error) {
	for _, c := range candidates {
		r := c.New()
		if err := r.Init(); err != nil {
			logger.Logf(logger.Allow, "render", "%s backend: %v", c.Name, err)
			continue
		}
		logger.Logf(logger.Allow, "render", "using %s backend", c.Name)
		return r, c.Name, nil
	}
	return nil, "", curated.Errorf(NoBackend, fmt.Sprintf("tried %d candidates", len(candidates)))
}
