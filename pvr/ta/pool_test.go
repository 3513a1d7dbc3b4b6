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

package ta_test

import (
	"testing"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestPoolBound(t *testing.T) {
	pool := ta.NewPool()

	var ctxs []*ta.Context
	for i := 0; i < 5; i++ {
		ctxs = append(ctxs, pool.Alloc())
	}
	test.ExpectEquality(t, pool.Stats().Created, 5)

	for i, ctx := range ctxs {
		pool.Recycle(ctx)
		test.ExpectSuccess(t, pool.Stats().Spare <= ta.MaxSpareContexts, i)
	}

	st := pool.Stats()
	test.ExpectEquality(t, st.Spare, ta.MaxSpareContexts)
	test.ExpectEquality(t, st.Destroyed, 5-ta.MaxSpareContexts)

	// spare contexts are reused before new contexts are created
	pool.Alloc()
	pool.Alloc()
	pool.Alloc()
	st = pool.Stats()
	test.ExpectEquality(t, st.Spare, 0)
	test.ExpectEquality(t, st.Created, 6)
}

func TestPoolRecycleChain(t *testing.T) {
	pool := ta.NewPool()

	a := pool.Alloc()
	a.NextContext = pool.Alloc()
	a.NextContext.NextContext = pool.Alloc()

	pool.Recycle(a)
	st := pool.Stats()
	test.ExpectEquality(t, st.Spare, 2)
	test.ExpectEquality(t, st.Destroyed, 1)
	test.ExpectSuccess(t, a.NextContext == nil)
}

// f is expected to panic
func expectPanic(t *testing.T, f func(), tag string) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic", tag)
		}
	}()
	f()
}

func TestPoolRecycleMisuse(t *testing.T) {
	pool := ta.NewPool()

	// a context that is still bound to an address
	bound := pool.Find(0x1000, true)
	expectPanic(t, func() { pool.Recycle(bound) }, "bound")
	test.ExpectEquality(t, pool.Stats().Bound, 1)
	test.ExpectEquality(t, pool.Stats().Spare, 0)

	// a context already waiting in the spare list
	a := pool.Alloc()
	pool.Recycle(a)
	expectPanic(t, func() { pool.Recycle(a) }, "twice")
	test.ExpectEquality(t, pool.Stats().Spare, 1)

	// a context destroyed because the spare list was full
	b := pool.Alloc()
	c := pool.Alloc()
	d := pool.Alloc()
	pool.Recycle(b)
	pool.Recycle(c)
	pool.Recycle(d)
	test.ExpectEquality(t, pool.Stats().Destroyed, 1)
	expectPanic(t, func() { pool.Recycle(d) }, "destroyed")
	test.ExpectEquality(t, pool.Stats().Spare, ta.MaxSpareContexts)
}

func TestPoolFindAndPop(t *testing.T) {
	pool := ta.NewPool()

	test.ExpectSuccess(t, pool.Find(0x1000, false) == nil)

	ctx := pool.Find(0x1000, true)
	test.DemandSuccess(t, ctx != nil)
	test.ExpectEquality(t, ctx.Address, 0x1000)
	test.ExpectEquality(t, pool.Find(0x1000, false), ctx)
	test.ExpectEquality(t, pool.Find(0x1000, true), ctx)
	test.ExpectEquality(t, pool.Stats().Bound, 1)

	test.ExpectSuccess(t, pool.Pop(0x2000) == nil)
	test.ExpectEquality(t, pool.Pop(0x1000), ctx)
	test.ExpectSuccess(t, pool.Pop(0x1000) == nil)
	test.ExpectEquality(t, pool.Stats().Bound, 0)
}

func TestPoolCurrent(t *testing.T) {
	pool := ta.NewPool()
	test.ExpectSuccess(t, pool.Current() == nil)

	a := pool.SetCurrent(0x1000)
	test.ExpectEquality(t, pool.Current(), a)

	b := pool.SetCurrent(0x2000)
	test.ExpectEquality(t, pool.Current(), b)
	test.ExpectInequality(t, a, b)

	// popping a context that is not current does not change the current context
	test.ExpectEquality(t, pool.Pop(0x1000), a)
	test.ExpectEquality(t, pool.Current(), b)

	test.ExpectEquality(t, pool.Pop(0x2000), b)
	test.ExpectSuccess(t, pool.Current() == nil)
}

func TestPoolTerminate(t *testing.T) {
	pool := ta.NewPool()
	pool.SetCurrent(0x1000)
	pool.Find(0x2000, true)
	inflight := pool.SetCurrent(0x3000)
	test.ExpectEquality(t, pool.Pop(0x3000), inflight)
	pool.Recycle(pool.Alloc())

	pool.Terminate()
	st := pool.Stats()
	test.ExpectSuccess(t, pool.Current() == nil)
	test.ExpectEquality(t, st.Bound, 0)
	test.ExpectEquality(t, st.Spare, 0)
	test.ExpectEquality(t, st.Destroyed, 3)

	// a context that was in flight during termination can still be recycled
	pool.Recycle(inflight)
	test.ExpectEquality(t, pool.Stats().Spare, 1)
}

func TestContextWrite(t *testing.T) {
	pool := ta.NewPool()
	ctx := pool.Alloc()

	test.ExpectSuccess(t, ctx.Write(make([]byte, ta.ArenaSize-ta.ParamSize)))
	test.ExpectEquality(t, ctx.Overrun(), false)

	err := ctx.Write(make([]byte, ta.ParamSize*2))
	test.ExpectSuccess(t, curated.Is(err, ta.ArenaOverrun))
	test.ExpectEquality(t, ctx.Overrun(), true)
	test.ExpectEquality(t, ctx.Len(), ta.ArenaSize)

	ctx.Reset()
	test.ExpectEquality(t, ctx.Overrun(), false)
	test.ExpectEquality(t, ctx.Len(), 0)
}

func TestContextPasses(t *testing.T) {
	pool := ta.NewPool()
	ctx := pool.Alloc()

	test.ExpectEquality(t, len(ctx.Passes()), 1)

	test.ExpectSuccess(t, ctx.Write(make([]byte, 64)))
	test.ExpectSuccess(t, ctx.MarkPass())
	test.ExpectSuccess(t, ctx.Write(make([]byte, 32)))

	p := ctx.Passes()
	test.DemandEquality(t, len(p), 2)
	test.ExpectEquality(t, p[0], [2]int{0, 64})
	test.ExpectEquality(t, p[1], [2]int{64, 96})

	for i := 1; i < ta.MaxPasses; i++ {
		test.ExpectSuccess(t, ctx.MarkPass())
	}
	err := ctx.MarkPass()
	test.ExpectSuccess(t, curated.Is(err, ta.TooManyPasses))
	test.ExpectEquality(t, len(ctx.Passes()), ta.MaxPasses+1)
}
