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

// Package core is the emulation side of the tile accelerator. It receives the
// data written to the TA FIFO, keeps track of the lists being submitted so that
// list end interrupts can be raised at the right time, and hands completed
// contexts to the render queue when the emulation starts a render.
package core

import (
	"fmt"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// UnalignedWrite is returned by Write() if the data is not a whole number of
// parameter words.
const UnalignedWrite = "core: write of %d bytes is not a multiple of 32"

// Interrupts is implemented by the interrupt controller of the emulation.
type Interrupts interface {
	// ListEnd is raised when the TA has processed the end of a list
	ListEnd(list ta.ListType)
}

// StartOptions for the StartRender() function.
type StartOptions struct {
	// region information for the render. can be nil
	Regions ta.Regions

	// the background polygon vertex
	Background ta.Vertex

	// addresses of further contexts that are rendered with the first
	Chain []uint32
}

// Stats are the counters of a Core.
type Stats struct {
	// calls to StartRender()
	Starts int

	// renders abandoned because the context was not found or overran
	Abandoned int

	// renders accepted by the queue
	Queued int
}

func (s Stats) String() string {
	return fmt.Sprintf("starts %d, abandoned %d, queued %d", s.Starts, s.Abandoned, s.Queued)
}

// Core receives TA data for the emulation. It is not safe to use from more than
// one goroutine. The render queue is the only point of contact with the render
// goroutine.
type Core struct {
	pool    *ta.Pool
	queue   *render.Queue
	tracker *ta.Tracker
	irq     Interrupts

	// the address of the context receiving TA data
	address uint32

	// frame number used to stamp contexts as they are started
	frame uint64

	stats Stats
}

// NewCore is the preferred method of initialisation for the Core type. The irq
// argument can be nil.
func NewCore(queue *render.Queue, irq Interrupts) *Core {
	return &Core{
		pool:    queue.Pool(),
		queue:   queue,
		tracker: ta.NewTracker(),
		irq:     irq,
	}
}

func (c *Core) String() string {
	return fmt.Sprintf("address %#08x: %v", c.address, c.stats)
}

// SetAddress changes the address of the context that receives TA data. This
// happens when the emulation writes the TA list init register.
func (c *Core) SetAddress(address uint32) {
	c.address = address
	c.pool.SetCurrent(address)
	c.tracker.Reset()
}

// Address returns the address of the context receiving TA data.
func (c *Core) Address() uint32 {
	return c.address
}

func (c *Core) current() *ta.Context {
	if ctx := c.pool.Current(); ctx != nil {
		return ctx
	}
	return c.pool.SetCurrent(c.address)
}

// Write TA data to the current context. List end interrupts are raised as the
// data is written.
//
// If the context arena is full the context is marked as overrun and the
// ArenaOverrun error is returned. The write is still tracked and interrupts
// raised so the emulation is not stalled.
func (c *Core) Write(data []byte) error {
	if len(data)%ta.ParamSize != 0 {
		return curated.Errorf(UnalignedWrite, len(data))
	}

	ctx := c.current()
	overrunBefore := ctx.Overrun()
	err := ctx.Write(data)
	if err != nil && !overrunBefore {
		logger.Logf(logger.Allow, "ta", "%v: %v", ctx, err)
	}

	for i := 0; i < len(data); i += ta.ParamSize {
		if l := c.tracker.Block(data[i : i+ta.ParamSize]); l != ta.ListNone {
			if c.irq != nil {
				c.irq.ListEnd(l)
			}
		}
	}

	return err
}

// ListCont starts a new render pass in the current context. This happens when
// the emulation writes the TA list continuation register.
//
// A continuation beyond the pass limit is logged and the error returned.
func (c *Core) ListCont() error {
	c.tracker.Reset()
	ctx := c.current()
	if err := ctx.MarkPass(); err != nil {
		logger.Logf(logger.Allow, "ta", "%v: %v", ctx, err)
		return err
	}
	return nil
}

// SoftReset discards the data written to the current context.
func (c *Core) SoftReset() {
	c.tracker.Reset()
	if ctx := c.pool.Current(); ctx != nil {
		ctx.Reset()
	}
}

// StartRender takes the context bound to the address, and any contexts in the
// chain, and passes it to the render queue. Returns true if the context was
// queued.
//
// The render is abandoned if no context is bound to the address or if any
// context in the chain has overrun its arena. An abandoned context is recycled
// without being rendered.
func (c *Core) StartRender(address uint32, opts StartOptions) bool {
	c.stats.Starts++
	c.frame++

	ctx := c.pool.Pop(address)
	if ctx == nil {
		c.stats.Abandoned++
		logger.Logf(logger.Allow, "ta", "start render: no context for %#08x", address)
		return false
	}

	if address == c.address {
		c.tracker.Reset()
	}

	overrun := ctx.Overrun()
	tail := ctx
	for _, a := range opts.Chain {
		next := c.pool.Pop(a)
		if next == nil {
			logger.Logf(logger.Allow, "ta", "start render: no context for chained %#08x", a)
			continue
		}
		overrun = overrun || next.Overrun()
		tail.NextContext = next
		tail = next
	}

	if overrun {
		c.stats.Abandoned++
		logger.Logf(logger.Allow, "ta", "start render: %v: abandoned because of overrun", ctx)
		c.pool.Recycle(ctx)
		return false
	}

	ctx.Regions = opts.Regions
	ctx.Rend.Background = opts.Background
	ctx.LastFrameUsed = c.frame

	if !c.queue.QueueRender(ctx) {
		return false
	}
	c.stats.Queued++

	return true
}

// Stats returns the counters of the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Terminate releases all contexts. It is safe to call Terminate() while the
// render goroutine is running. Contexts in flight are recycled when the render
// goroutine has finished with them.
func (c *Core) Terminate() {
	c.queue.Shutdown()
	c.pool.Terminate()
	c.tracker.Reset()
}
