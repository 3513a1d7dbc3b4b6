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

package ta

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gopherpvr/gopherpvr/logger"
)

// MaxSpareContexts is the maximum number of recycled contexts kept by a Pool.
// Contexts recycled beyond this number are destroyed.
const MaxSpareContexts = 2

// PoolStats are the lifetime statistics of a Pool.
type PoolStats struct {
	Created   int
	Destroyed int
	Bound     int
	Spare     int
}

// Pool owns all contexts. Contexts are bound to an address while they are
// receiving TA data and are detached with Pop() when rendering starts.
//
// All functions are safe to call from more than one goroutine.
type Pool struct {
	crit sync.Mutex

	bound []*Context
	spare []*Context

	// the context currently receiving TA data. always one of the bound contexts
	current *Context

	created   int
	destroyed int
}

// NewPool is the preferred method of initialisation for the Pool type.
func NewPool() *Pool {
	return &Pool{
		bound: make([]*Context, 0, 4),
		spare: make([]*Context, 0, MaxSpareContexts),
	}
}

// Alloc returns an empty context. A spare context is used if one is available.
// The returned context is not bound to an address.
func (p *Pool) Alloc() *Context {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.alloc()
}

func (p *Pool) alloc() *Context {
	var ctx *Context
	if n := len(p.spare); n > 0 {
		ctx = p.spare[n-1]
		p.spare = p.spare[:n-1]
	} else {
		ctx = newContext()
		p.created++
	}
	ctx.Reset()
	return ctx
}

// Find the context bound to the address. If no context is bound to the address
// and allocNew is true then a new context is allocated and bound. Returns nil
// if no context is found and allocNew is false.
func (p *Pool) Find(address uint32, allocNew bool) *Context {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.find(address, allocNew)
}

func (p *Pool) find(address uint32, allocNew bool) *Context {
	for _, ctx := range p.bound {
		if ctx.Address == address {
			return ctx
		}
	}
	if !allocNew {
		return nil
	}

	ctx := p.alloc()
	ctx.Address = address
	p.bound = append(p.bound, ctx)
	return ctx
}

// SetCurrent makes the context bound to the address the current context,
// allocating and binding a context if necessary.
func (p *Pool) SetCurrent(address uint32) *Context {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.current = p.find(address, true)
	return p.current
}

// Current returns the context currently receiving TA data. Returns nil if
// there is no current context.
func (p *Pool) Current() *Context {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.current
}

// Pop detaches the context bound to the address. If it was the current context
// then there is no longer a current context. Returns nil if no context is bound
// to the address.
func (p *Pool) Pop(address uint32) *Context {
	p.crit.Lock()
	defer p.crit.Unlock()

	for i, ctx := range p.bound {
		if ctx.Address == address {
			p.bound = append(p.bound[:i], p.bound[i+1:]...)
			if p.current == ctx {
				p.current = nil
			}
			return ctx
		}
	}
	return nil
}

// Recycle returns the context, and every context chained to it, to the pool.
// Contexts beyond MaxSpareContexts are destroyed. Recycling a context that is
// bound, spare or destroyed panics.
func (p *Pool) Recycle(ctx *Context) {
	p.crit.Lock()
	defer p.crit.Unlock()

	for ctx != nil {
		next := ctx.NextContext
		ctx.NextContext = nil
		p.recycle(ctx)
		ctx = next
	}
}

func (p *Pool) recycle(ctx *Context) {
	if ctx.tad.data == nil {
		panic(fmt.Sprintf("context pool: recycling destroyed context: %v", ctx))
	}
	if slices.Contains(p.bound, ctx) {
		panic(fmt.Sprintf("context pool: recycling bound context: %v", ctx))
	}
	if slices.Contains(p.spare, ctx) {
		panic(fmt.Sprintf("context pool: context recycled twice: %v", ctx))
	}

	if len(p.spare) >= MaxSpareContexts {
		p.destroy(ctx)
		return
	}
	ctx.Reset()
	p.spare = append(p.spare, ctx)
}

// the context is not used again. buffers are released for the garbage
// collector
func (p *Pool) destroy(ctx *Context) {
	ctx.tad.data = nil
	ctx.Rend = Rend{}
	p.destroyed++
}

// Terminate destroys all contexts, bound and spare. The current context is
// detached first. Contexts that have been popped are not affected and may
// still be recycled safely.
func (p *Pool) Terminate() {
	p.crit.Lock()
	defer p.crit.Unlock()

	p.current = nil

	n := len(p.bound) + len(p.spare)
	for _, ctx := range p.bound {
		p.destroy(ctx)
	}
	for _, ctx := range p.spare {
		p.destroy(ctx)
	}
	p.bound = p.bound[:0]
	p.spare = p.spare[:0]

	if n > 0 {
		logger.Logf(logger.Allow, "tactx", "terminated %d contexts", n)
	}
}

// Stats returns the current statistics for the pool.
func (p *Pool) Stats() PoolStats {
	p.crit.Lock()
	defer p.crit.Unlock()
	return PoolStats{
		Created:   p.created,
		Destroyed: p.destroyed,
		Bound:     len(p.bound),
		Spare:     len(p.spare),
	}
}
