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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// QueueStats are the counters of a Queue.
type QueueStats struct {
	// contexts accepted by QueueRender()
	Queued uint64

	// contexts discarded because of the frame skip cadence
	Skipped uint64

	// contexts discarded by auto skip or because the queue was shut down
	Dropped uint64

	// contexts taken by DequeueRender()
	Frames uint64
}

func (s QueueStats) String() string {
	return fmt.Sprintf("queued %d, skipped %d, dropped %d, frames %d", s.Queued, s.Skipped, s.Dropped, s.Frames)
}

// Queue is the single slot hand off of contexts from the emulation to the
// render goroutine.
//
// The slot is protected by its own mutex. The pool has a separate mutex and the
// two are never held at the same time: contexts are always recycled outside of
// the queue's critical section.
type Queue struct {
	pool *ta.Pool

	crit     sync.Mutex
	slot     *ta.Context
	inFlight *ta.Context

	// holds a single token when the slot is free and the previous context
	// has been finished. taking the token is the equivalent of resetting the
	// event
	finished chan struct{}

	// signalled when a context is put into the slot
	ready chan struct{}

	quit     chan struct{}
	quitOnce sync.Once

	// the number of frames to skip between rendered frames
	SkipFrame atomic.Int32

	// AutoSkip is called when the slot is occupied. If it returns true the new
	// context is dropped rather than waiting for the slot. Can be nil
	AutoSkip func() bool

	// counts every context passed to QueueRender() for the skip cadence
	cadence uint64

	queued  atomic.Uint64
	skipped atomic.Uint64
	dropped atomic.Uint64
	frames  atomic.Uint64
}

// NewQueue is the preferred method of initialisation for the Queue type.
func NewQueue(pool *ta.Pool) *Queue {
	q := &Queue{
		pool:     pool,
		finished: make(chan struct{}, 1),
		ready:    make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	q.finished <- struct{}{}
	return q
}

// Pool returns the pool that the Queue recycles contexts to.
func (q *Queue) Pool() *ta.Pool {
	return q.pool
}

// QueueRender puts the context into the slot. Returns true if the context was
// queued. If the context was not queued it has been recycled and must not be
// used by the caller.
//
// The function will block if the slot is occupied, or if the previous context
// has not been finished, unless AutoSkip indicates that the context should be
// dropped. QueueRender() must only be called from one goroutine.
func (q *Queue) QueueRender(ctx *ta.Context) bool {
	if ctx == nil {
		panic("render queue: nil context")
	}

	skip := uint64(max(q.SkipFrame.Load(), 0))
	n := q.cadence
	q.cadence++
	if n%(skip+1) != 0 {
		q.skipped.Add(1)
		q.pool.Recycle(ctx)
		return false
	}

	if q.isShutdown() {
		q.drop(ctx)
		return false
	}

	select {
	case <-q.finished:
	default:
		if q.AutoSkip != nil && q.AutoSkip() {
			q.drop(ctx)
			return false
		}
		select {
		case <-q.finished:
		case <-q.quit:
			q.drop(ctx)
			return false
		}
	}

	// the shutdown check is made inside the critical section so that a
	// context can not be put into the slot after Shutdown() has emptied it
	q.crit.Lock()
	shutdown := q.isShutdown()
	occupied := q.slot != nil
	if !occupied && !shutdown {
		q.slot = ctx
	}
	q.crit.Unlock()

	if shutdown {
		q.drop(ctx)
		return false
	}

	if occupied {
		q.pool.Recycle(ctx)
		panic("render queue: slot is already occupied")
	}

	q.queued.Add(1)

	select {
	case q.ready <- struct{}{}:
	default:
	}

	return true
}

func (q *Queue) isShutdown() bool {
	select {
	case <-q.quit:
		return true
	default:
	}
	return false
}

func (q *Queue) drop(ctx *ta.Context) {
	q.dropped.Add(1)
	logger.Logf(logger.Allow, "render queue", "dropped %v", ctx)
	q.pool.Recycle(ctx)
}

// Ready returns a channel that receives a value when a context is queued.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Done returns a channel that is closed when the Queue is shut down.
func (q *Queue) Done() <-chan struct{} {
	return q.quit
}

// DequeueRender takes the context from the slot. Returns nil if the slot is
// empty. The function never blocks. A context returned by DequeueRender() must
// be returned with FinishRender().
func (q *Queue) DequeueRender() *ta.Context {
	q.crit.Lock()
	defer q.crit.Unlock()

	ctx := q.slot
	if ctx != nil {
		q.slot = nil
		q.inFlight = ctx
		q.frames.Add(1)
	}
	return ctx
}

// FinishRender recycles the context returned by DequeueRender() and allows
// the next context to be queued. It is a programming error to call
// FinishRender() with any other context.
func (q *Queue) FinishRender(ctx *ta.Context) {
	q.crit.Lock()
	if ctx == nil || ctx != q.inFlight {
		q.crit.Unlock()
		panic(fmt.Sprintf("render queue: finished context is not in flight: %v", ctx))
	}
	q.inFlight = nil
	q.crit.Unlock()

	q.pool.Recycle(ctx)

	select {
	case q.finished <- struct{}{}:
	default:
		panic("render queue: finish signalled twice")
	}
}

// Shutdown unblocks any call to QueueRender() that is waiting for the slot.
// Any context waiting in the slot is recycled. Subsequent calls to
// QueueRender() drop the context immediately. It is safe to call Shutdown()
// more than once.
func (q *Queue) Shutdown() {
	q.quitOnce.Do(func() {
		close(q.quit)
	})

	q.crit.Lock()
	ctx := q.slot
	q.slot = nil
	q.crit.Unlock()

	if ctx != nil {
		q.pool.Recycle(ctx)
	}
}

// Stats returns the counters of the queue.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Queued:  q.queued.Load(),
		Skipped: q.skipped.Load(),
		Dropped: q.dropped.Load(),
		Frames:  q.frames.Load(),
	}
}
