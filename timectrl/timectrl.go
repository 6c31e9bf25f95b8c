// Package timectrl drives simulation time for an observer: it ticks the
// observer at a fixed cadence, applying a configurable time scale between
// wall-clock seconds and simulation seconds.
package timectrl

import (
	"sync"
	"time"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/core"
)

// SimClock is an interface for accessing simulation time. Components depend
// on this abstraction rather than the concrete controller for testability.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
	// JulianDate returns the current simulation time as a Julian date.
	JulianDate() float64
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime sleeps between ticks so journeys play out in wall time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping by Tick.
	Accelerated
)

// TimeController owns the update loop of an observer. It implements
// SimClock.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	observer  *core.Observer
	timeScale float64

	listeners []func(simJD float64)
	onUpdate  func(time.Duration)
}

// NewTimeController constructs a controller driving the given observer.
// Tick is the real-time step per update; the time scale defaults to 1.
func NewTimeController(obs *core.Observer, start time.Time, tick time.Duration, mode Mode) *TimeController {
	tc := &TimeController{
		StartTime: start,
		Tick:      tick,
		Mode:      mode,
		observer:  obs,
		timeScale: 1.0,
	}
	obs.SetTime(astro.JulianDate(start))
	return tc
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	return astro.TimeFromJulian(tc.JulianDate())
}

// JulianDate returns the current simulation time as a Julian date.
func (tc *TimeController) JulianDate() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.observer.Time()
}

// SetTime jumps the simulation to a wall-clock instant.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.observer.SetTime(astro.JulianDate(t))
}

// TimeScale returns the ratio of simulation seconds to real seconds.
func (tc *TimeController) TimeScale() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.timeScale
}

// SetTimeScale sets the ratio of simulation seconds to real seconds. Zero
// freezes simulation time while journeys keep playing; negative values run
// time backwards.
func (tc *TimeController) SetTimeScale(scale float64) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.timeScale = scale
}

// AddListener registers a callback invoked with the simulation Julian date
// after every tick. Listeners run on the controller goroutine.
func (tc *TimeController) AddListener(fn func(simJD float64)) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.listeners = append(tc.listeners, fn)
}

// OnUpdate registers a callback receiving the wall-clock duration of each
// observer update. At most one callback is kept.
func (tc *TimeController) OnUpdate(fn func(time.Duration)) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.onUpdate = fn
}

// Step advances the observer by one tick without running the loop.
func (tc *TimeController) Step() {
	tc.mu.Lock()
	began := time.Now()
	tc.observer.Update(tc.Tick.Seconds(), tc.timeScale)
	elapsed := time.Since(began)
	onUpdate := tc.onUpdate
	listeners := tc.listeners
	jd := tc.observer.Time()
	tc.mu.Unlock()

	if onUpdate != nil {
		onUpdate(elapsed)
	}

	for _, fn := range listeners {
		fn(jd)
	}
}

// Start runs the controller for the specified real-time duration in a
// separate goroutine. The returned channel is closed when the controller
// finishes.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var ticker *time.Ticker
		if tc.Mode == RealTime {
			ticker = time.NewTicker(tc.Tick)
			defer ticker.Stop()
		}

		elapsed := time.Duration(0)
		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if ticker != nil {
				<-ticker.C
			}
			elapsed += tc.Tick
			tc.Step()
		}
	}()
	return done
}
