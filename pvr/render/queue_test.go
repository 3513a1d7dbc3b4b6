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

package render_test

import (
	"testing"
	"time"

	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestFrameSkip(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)
	q.SkipFrame.Store(2)

	var accepted []int
	for i := range 9 {
		if q.QueueRender(pool.Alloc()) {
			accepted = append(accepted, i)
			ctx := q.DequeueRender()
			if ctx == nil {
				t.Fatalf("queued context not dequeued")
			}
			q.FinishRender(ctx)
		}
	}

	test.DemandEquality(t, len(accepted), 3)
	test.ExpectEquality(t, accepted[0], 0)
	test.ExpectEquality(t, accepted[1], 3)
	test.ExpectEquality(t, accepted[2], 6)

	stats := q.Stats()
	test.ExpectEquality(t, stats.Queued, 3)
	test.ExpectEquality(t, stats.Skipped, 6)
	test.ExpectEquality(t, stats.Frames, 3)
	test.ExpectEquality(t, stats.Dropped, 0)

	// one context is reused for every frame, skipped or rendered
	ps := pool.Stats()
	test.ExpectEquality(t, ps.Created, 1)
	test.ExpectEquality(t, ps.Spare, 1)
	test.ExpectEquality(t, ps.Destroyed, 0)
}

func TestNoFrameSkip(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	for range 5 {
		test.ExpectSuccess(t, q.QueueRender(pool.Alloc()))
		q.FinishRender(q.DequeueRender())
	}
	test.ExpectEquality(t, q.Stats().Skipped, 0)
}

func TestDequeueEmpty(t *testing.T) {
	q := render.NewQueue(ta.NewPool())
	test.ExpectEquality(t, q.DequeueRender(), (*ta.Context)(nil))
	test.ExpectEquality(t, q.Stats().Frames, 0)
}

func TestAutoSkip(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	fast := true
	q.AutoSkip = func() bool { return fast }

	a := pool.Alloc()
	test.ExpectSuccess(t, q.QueueRender(a))

	// the slot is occupied so the second context is dropped
	test.ExpectFailure(t, q.QueueRender(pool.Alloc()))
	test.ExpectEquality(t, q.Stats().Dropped, 1)

	// the slot still holds the first context
	test.ExpectEquality(t, q.DequeueRender(), a)

	// the first context is in flight but not finished
	test.ExpectFailure(t, q.QueueRender(pool.Alloc()))
	test.ExpectEquality(t, q.Stats().Dropped, 2)

	q.FinishRender(a)
	test.ExpectSuccess(t, q.QueueRender(pool.Alloc()))
}

func TestSingleFlight(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	a := pool.Alloc()
	b := pool.Alloc()
	test.DemandSuccess(t, q.QueueRender(a))

	done := make(chan bool)
	go func() {
		done <- q.QueueRender(b)
	}()

	select {
	case <-done:
		t.Fatalf("second context queued while the slot was occupied")
	case <-time.After(50 * time.Millisecond):
	}

	// dequeuing is not enough to unblock the producer
	test.DemandEquality(t, q.DequeueRender(), a)
	select {
	case <-done:
		t.Fatalf("second context queued before the first was finished")
	case <-time.After(50 * time.Millisecond):
	}

	q.FinishRender(a)
	select {
	case ok := <-done:
		test.ExpectSuccess(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("producer was not unblocked by FinishRender()")
	}

	test.ExpectEquality(t, q.DequeueRender(), b)
}

func TestReady(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	select {
	case <-q.Ready():
		t.Fatalf("ready signalled with an empty queue")
	default:
	}

	test.DemandSuccess(t, q.QueueRender(pool.Alloc()))
	select {
	case <-q.Ready():
	default:
		t.Fatalf("ready not signalled")
	}
}

func TestShutdown(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	test.DemandSuccess(t, q.QueueRender(pool.Alloc()))

	done := make(chan bool)
	go func() {
		done <- q.QueueRender(pool.Alloc())
	}()

	select {
	case <-done:
		t.Fatalf("second context queued while the slot was occupied")
	case <-time.After(50 * time.Millisecond):
	}

	q.Shutdown()
	select {
	case ok := <-done:
		test.ExpectFailure(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("producer was not unblocked by Shutdown()")
	}

	// the context in the slot was recycled
	test.ExpectEquality(t, q.DequeueRender(), (*ta.Context)(nil))
	test.ExpectEquality(t, pool.Stats().Spare, 2)

	// queueing after shutdown drops the context
	test.ExpectFailure(t, q.QueueRender(pool.Alloc()))
	test.ExpectEquality(t, q.Stats().Dropped, 2)

	select {
	case <-q.Done():
	default:
		t.Fatalf("done channel not closed")
	}

	// calling Shutdown() again is safe
	q.Shutdown()
}

func TestFinishMismatch(t *testing.T) {
	pool := ta.NewPool()
	q := render.NewQueue(pool)

	test.DemandSuccess(t, q.QueueRender(pool.Alloc()))
	q.DequeueRender()

	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	q.FinishRender(pool.Alloc())
}
