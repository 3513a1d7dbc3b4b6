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
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/prefs"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/pvr/ta/tastream"
	"github.com/gopherpvr/gopherpvr/test"
)

func testPreferences(t *testing.T) *Preferences {
	t.Helper()
	p, err := newPreferences(filepath.Join(t.TempDir(), prefs.DefaultPrefsFile))
	test.DemandSuccess(t, err)
	return p
}

// a context with two opaque strips and one translucent strip
func testContext(t *testing.T, pool *ta.Pool) *ta.Context {
	t.Helper()

	b := tastream.New()
	b.PolyHeader(ta.ListOpaque, 0, 0, 0, 0)
	b.VertexPacked(0, 0, 1, 0xffffffff, false)
	b.VertexPacked(10, 0, 1, 0xffffffff, false)
	b.VertexPacked(0, 10, 1, 0xffffffff, true)
	b.PolyHeader(ta.ListOpaque, 0, 0, 1, 0)
	b.VertexPacked(0, 0, 1, 0xffffffff, false)
	b.VertexPacked(10, 0, 1, 0xffffffff, false)
	b.VertexPacked(0, 10, 1, 0xffffffff, true)
	b.EndOfList()
	b.PolyHeader(ta.ListTranslucent, 0, 0, 0, 0)
	b.VertexPacked(0, 0, 1, 0x80ffffff, false)
	b.VertexPacked(10, 0, 1, 0x80ffffff, false)
	b.VertexPacked(0, 10, 1, 0x80ffffff, true)
	b.EndOfList()

	ctx := pool.Alloc()
	test.DemandSuccess(t, ctx.Write(b.Bytes()))
	return ctx
}

func TestDriverStep(t *testing.T) {
	pool := ta.NewPool()
	q := NewQueue(pool)
	null := NewNull()
	d := NewDriver(q, null, testPreferences(t))

	var presented int
	d.Present = func() { presented++ }

	ok, err := d.Step()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)

	test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
	ok, err = d.Step()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, ok)

	test.ExpectEquality(t, null.Processed, 1)
	test.ExpectEquality(t, null.Draws, 2)
	test.ExpectEquality(t, null.Sorted, 1)
	test.ExpectEquality(t, presented, 1)
	test.ExpectEquality(t, d.Stats().Rendered, 1)

	// the context was finished so another can be queued without blocking
	null.Skip = true
	test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
	ok, err = d.Step()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, presented, 1)
	test.ExpectEquality(t, d.Stats().NotRendered, 1)
}

func TestDriverPerStripSorting(t *testing.T) {
	pool := ta.NewPool()
	q := NewQueue(pool)
	null := NewNull()
	p := testPreferences(t)
	test.DemandSuccess(t, p.PerStripSorting.Set(true))
	d := NewDriver(q, null, p)

	test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
	_, err := d.Step()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, null.Draws, 3)
	test.ExpectEquality(t, null.Sorted, 0)
}

func TestDriverParseErrors(t *testing.T) {
	pool := ta.NewPool()
	q := NewQueue(pool)
	d := NewDriver(q, NewNull(), testPreferences(t))

	b := tastream.New()
	b.Words(tastream.PCW(6, 0, 0))
	ctx := pool.Alloc()
	test.DemandSuccess(t, ctx.Write(b.Bytes()))

	test.DemandSuccess(t, q.QueueRender(ctx))
	_, err := d.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d.Stats().ParseErrors, 1)
}

func TestDriverSkipPreferences(t *testing.T) {
	pool := ta.NewPool()
	q := NewQueue(pool)
	q.AutoSkip = func() bool { return true }
	p := testPreferences(t)
	NewDriver(q, NewNull(), p)

	// changes to the preference are applied to the queue
	test.DemandSuccess(t, p.SkipFrame.Set(3))
	test.ExpectEquality(t, q.SkipFrame.Load(), 3)

	// auto skip is disabled by default
	test.ExpectFailure(t, q.AutoSkip())
	test.DemandSuccess(t, p.AutoSkip.Set(true))
	test.ExpectSuccess(t, q.AutoSkip())
}

func TestDriverRun(t *testing.T) {
	pool := ta.NewPool()
	q := NewQueue(pool)
	d := NewDriver(q, NewNull(), testPreferences(t))

	presented := make(chan bool, 1)
	d.Present = func() { presented <- true }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- d.Run(ctx)
	}()

	for range 3 {
		test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
		select {
		case <-presented:
		case <-time.After(time.Second):
			t.Fatalf("frame not presented")
		}
	}

	cancel()
	select {
	case err := <-done:
		test.ExpectSuccess(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatalf("driver did not stop")
	}

	// the queue is shut down when the driver stops
	test.ExpectFailure(t, q.QueueRender(pool.Alloc()))
}

type failingBackend struct {
	*Null
}

func (f failingBackend) Init() error {
	return errors.New("no display")
}

func TestSelectBackend(t *testing.T) {
	r, name, err := SelectBackend([]Candidate{
		{Name: "failing", New: func() Renderer { return failingBackend{NewNull()} }},
		{Name: "null", New: func() Renderer { return NewNull() }},
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, name, "null")
	_, ok := r.(*Null)
	test.ExpectSuccess(t, ok)

	// the chosen backend is the most recent log entry
	rw, err := test.NewRingWriter(64)
	test.DemandSuccess(t, err)
	logger.Tail(rw, 1)
	test.ExpectSuccess(t, strings.HasSuffix(rw.String(), "using null backend\n"))

	_, _, err = SelectBackend([]Candidate{
		{Name: "failing", New: func() Renderer { return failingBackend{NewNull()} }},
	})
	test.ExpectSuccess(t, curated.Is(err, NoBackend))
}

func TestDriverWrongGoroutine(t *testing.T) {
	if !assertions {
		t.Skip("requires the assertions build tag")
	}

	pool := ta.NewPool()
	q := NewQueue(pool)
	d := NewDriver(q, NewNull(), testPreferences(t))

	// the same goroutine can step the driver many times
	for range 2 {
		test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
		_, err := d.Step()
		test.DemandSuccess(t, err)
	}

	// stepping from another goroutine panics
	test.DemandSuccess(t, q.QueueRender(testContext(t, pool)))
	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		_, _ = d.Step()
	}()
	test.ExpectInequality(t, <-done, nil)

	// the context was still finished
	test.ExpectSuccess(t, q.QueueRender(testContext(t, pool)))
}
