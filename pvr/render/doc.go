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

// Package render connects the emulation to the rendering backends.
//
// The emulation produces complete contexts and hands them to the Queue with
// QueueRender(). The Queue holds at most one context at a time. The Driver runs
// on the render goroutine and takes contexts from the Queue, parses them,
// builds the render passes and passes the result to a Renderer. When the
// Renderer is finished with the context it is returned to the pool with
// FinishRender(), which allows the emulation to queue the next context.
//
// Frames can be discarded at two points. The frame skip preference discards
// contexts at a fixed cadence before they are queued. The auto skip preference
// discards a context if the queue is occupied and the emulation is judged to
// be running fast enough, rather than waiting for the render goroutine.
package render
