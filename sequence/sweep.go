package sequence

import (
	"time"

	"github.com/fogleman/ease"
)

// Sweep timings
const (
	DefaultSweepSteps = 50 // 0.02 per step
	DefaultSweepTick  = 50 * time.Millisecond
	DefaultSweepHold  = 500 * time.Millisecond
)

// Sweep fills from 0 to 1 in fixed increments once started, holds at 1,
// then resets to 0 and stops.
type Sweep struct {
	steps   int
	tick    time.Duration
	hold    time.Duration
	step    int
	running bool
}

// NewSweep creates a sweep with the default timings
func NewSweep() *Sweep {
	return &Sweep{
		steps: DefaultSweepSteps,
		tick:  DefaultSweepTick,
		hold:  DefaultSweepHold,
	}
}

// Start begins a sweep. It reports false if one is already running.
func (s *Sweep) Start() bool {
	if s.running {
		return false
	}
	s.running = true
	s.step = 0
	return true
}

// Running reports whether a sweep is in progress
func (s *Sweep) Running() bool {
	return s.running
}

// Value is the linear fill in [0, 1]
func (s *Sweep) Value() float64 {
	return float64(s.step) / float64(s.steps)
}

// Eased is Value with an in-out quadratic curve applied
func (s *Sweep) Eased() float64 {
	return ease.InOutQuad(s.Value())
}

// Delay is how long to wait before the next Advance
func (s *Sweep) Delay() time.Duration {
	if s.step >= s.steps {
		return s.hold
	}
	return s.tick
}

// Advance moves the sweep forward one step. After the hold at full it resets
// and reports false.
func (s *Sweep) Advance() bool {
	if !s.running {
		return false
	}
	if s.step >= s.steps {
		s.step = 0
		s.running = false
		return false
	}
	s.step++
	return true
}
