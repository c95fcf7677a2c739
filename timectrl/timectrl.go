// Package timectrl drives simulation time. The controller owns the mapping
// from wall-clock seconds to simulated seconds and exposes a single
// Advance entry point, so the HTTP host, the CLI batch runner, and tests can
// all drive the same engine without caring about real timers.
package timectrl

import (
	"sync"
	"time"
)

// SimClock is the read-only view of simulation time handed to engine
// components, keeping them testable against a fake clock.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// TimeController maps elapsed real time onto simulated time at a
// configurable rate and notifies listeners on every advance.
type TimeController struct {
	mu sync.RWMutex

	startTime   time.Time
	currentTime time.Time
	// rate is simulated seconds per real second.
	rate   float64
	paused bool

	listeners []func(simTime time.Time, delta time.Duration)
}

// NewTimeController constructs a controller at the given start time and
// rate.
func NewTimeController(start time.Time, rate float64) *TimeController {
	return &TimeController{
		startTime:   start,
		currentTime: start,
		rate:        rate,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// Rate returns the current simulated-seconds-per-real-second factor.
func (tc *TimeController) Rate() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.rate
}

// SetRate changes the time-compression factor. Non-positive rates are
// ignored; pausing is a separate switch.
func (tc *TimeController) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	tc.mu.Lock()
	tc.rate = rate
	tc.mu.Unlock()
}

// Pause stops simulated time from advancing. Advance calls become no-ops.
func (tc *TimeController) Pause() {
	tc.mu.Lock()
	tc.paused = true
	tc.mu.Unlock()
}

// Resume re-enables time advancement.
func (tc *TimeController) Resume() {
	tc.mu.Lock()
	tc.paused = false
	tc.mu.Unlock()
}

// Paused reports whether the clock is paused.
func (tc *TimeController) Paused() bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.paused
}

// Reset rewinds simulation time to the given start.
func (tc *TimeController) Reset(start time.Time) {
	tc.mu.Lock()
	tc.startTime = start
	tc.currentTime = start
	tc.mu.Unlock()
}

// AddListener registers a callback invoked after every advance with the new
// simulation time and the simulated delta. Listeners are called outside the
// controller lock but never concurrently with each other: each AdvanceReal
// or Advance call completes all listener work before returning.
func (tc *TimeController) AddListener(fn func(simTime time.Time, delta time.Duration)) {
	tc.mu.Lock()
	tc.listeners = append(tc.listeners, fn)
	tc.mu.Unlock()
}

// AdvanceReal advances simulated time by elapsed real time scaled through
// the current rate. Paused controllers ignore the call.
func (tc *TimeController) AdvanceReal(realElapsed time.Duration) {
	tc.mu.RLock()
	rate := tc.rate
	tc.mu.RUnlock()
	tc.Advance(time.Duration(float64(realElapsed) * rate))
}

// Advance moves simulated time forward by the given simulated duration and
// fires listeners. It is the single mutation point for simulation time.
func (tc *TimeController) Advance(simDelta time.Duration) {
	if simDelta <= 0 {
		return
	}
	tc.mu.Lock()
	if tc.paused {
		tc.mu.Unlock()
		return
	}
	tc.currentTime = tc.currentTime.Add(simDelta)
	simTime := tc.currentTime
	listeners := make([]func(time.Time, time.Duration), len(tc.listeners))
	copy(listeners, tc.listeners)
	tc.mu.Unlock()

	for _, fn := range listeners {
		fn(simTime, simDelta)
	}
}

// Run drives the controller from a wall-clock ticker until stop is closed.
// Each wall tick advances simulated time by tick×rate; a tick never starts
// before the previous one's listeners have finished.
func (tc *TimeController) Run(tick time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tc.AdvanceReal(tick)
		}
	}
}
