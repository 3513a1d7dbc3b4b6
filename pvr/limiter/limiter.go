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

// Package limiter paces the producer of TA contexts to the refresh rate of the
// emulated display and measures the rate that is actually achieved.
//
// The measured rate is used to decide whether the producer is running fast
// enough for the render queue to drop contexts when the renderer is busy. See
// the FastEnough() function.
package limiter

import (
	"sync/atomic"
	"time"
)

// List of refresh rates of the video modes of the console.
const (
	RefreshNTSC float32 = 59.94
	RefreshPAL  float32 = 50.0
	RefreshVGA  float32 = 60.0
)

// fraction of the ideal rate the measured rate must reach for FastEnough() to
// return true
const fastEnough = 0.95

// Limiter waits in CheckFrame() so that frames are produced at no more than
// the requested rate.
type Limiter struct {
	// whether to wait in CheckFrame()
	Active atomic.Bool

	// the rate that frames are being limited to
	ideal atomic.Value // float32

	// the measured number of frames per second
	measured atomic.Value // float32

	// the ticker is checked every pulseLimit frames rather than every frame.
	// waiting on a short duration ticker is not accurate enough
	pulse      *time.Ticker
	pulseCt    int
	pulseLimit int

	// frames counted since measureTime
	measurePulse *time.Ticker
	measureTime  time.Time
	measureCt    int

	// Nudge the limiter so that it doesn't wait for the specified number of
	// frames
	Nudge atomic.Int32
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
// The limiter is active and the rate is set to the NTSC refresh rate.
func NewLimiter() *Limiter {
	lmtr := &Limiter{
		pulse:        time.NewTicker(time.Millisecond * 16),
		measurePulse: time.NewTicker(time.Second),
	}
	lmtr.Active.Store(true)
	lmtr.measured.Store(float32(0.0))
	lmtr.SetRate(RefreshNTSC)
	return lmtr
}

// SetRate sets the frame rate of the limiter. Values of zero or less are
// ignored.
func (lmtr *Limiter) SetRate(fps float32) {
	if fps <= 0.0 {
		return
	}

	lmtr.ideal.Store(fps)

	lmtr.pulseCt = 0
	lmtr.pulseLimit = 1 + int(fps/20)
	lmtr.pulse.Reset(time.Duration(float32(time.Second) / fps * float32(lmtr.pulseLimit)))

	lmtr.measureCt = 0
	lmtr.measureTime = time.Now()
}

// Rate returns the rate the limiter has been set to.
func (lmtr *Limiter) Rate() float32 {
	return lmtr.ideal.Load().(float32)
}

// Measured returns the most recent measurement of the frame rate.
func (lmtr *Limiter) Measured() float32 {
	return lmtr.measured.Load().(float32)
}

// CheckFrame should be called once for every frame produced. The function
// blocks if frames are being produced faster than the limited rate.
//
// CheckFrame() and SetRate() must be called from the same goroutine.
func (lmtr *Limiter) CheckFrame() {
	lmtr.measureCt++

	if n := lmtr.Nudge.Load(); n > 0 {
		lmtr.Nudge.Store(n - 1)
	} else if lmtr.Active.Load() {
		lmtr.pulseCt++
		if lmtr.pulseCt >= lmtr.pulseLimit {
			lmtr.pulseCt = 0
			<-lmtr.pulse.C
		}
	}

	select {
	case <-lmtr.measurePulse.C:
		t := time.Now()
		lmtr.measured.Store(float32(lmtr.measureCt) / float32(t.Sub(lmtr.measureTime).Seconds()))
		lmtr.measureTime = t
		lmtr.measureCt = 0
	default:
	}
}

// FastEnough returns true if the measured rate is close to the limited rate.
// Returns true if no measurement has been made yet. Safe to call from any
// goroutine.
func (lmtr *Limiter) FastEnough() bool {
	m := lmtr.Measured()
	if m == 0.0 {
		return true
	}
	return m >= lmtr.Rate()*fastEnough
}
