package sequence

import (
	"fmt"
	"math"
	"time"
)

// Playback tracks the position of a looping animation that can be paused and
// played at 1x or 2x.
type Playback struct {
	playing  bool
	speed    float64
	position float64
	cycle    time.Duration
}

// NewPlayback starts playing at 1x; one loop takes cycle
func NewPlayback(cycle time.Duration) *Playback {
	if cycle <= 0 {
		cycle = time.Second
	}
	return &Playback{playing: true, speed: 1, cycle: cycle}
}

func (p *Playback) Playing() bool      { return p.playing }
func (p *Playback) Speed() float64     { return p.speed }
func (p *Playback) Position() float64  { return p.position }
func (p *Playback) SpeedLabel() string { return fmt.Sprintf("%dx", int(p.speed)) }

// TogglePlay switches between playing and paused
func (p *Playback) TogglePlay() {
	p.playing = !p.playing
}

// ToggleSpeed switches between 1x and 2x
func (p *Playback) ToggleSpeed() {
	if p.speed == 1 {
		p.speed = 2
	} else {
		p.speed = 1
	}
}

// Advance moves the position by elapsed wall time, wrapping at 1. Paused
// playback does not move.
func (p *Playback) Advance(elapsed time.Duration) float64 {
	if !p.playing || elapsed <= 0 {
		return p.position
	}
	delta := float64(elapsed) / float64(p.cycle) * p.speed
	_, p.position = math.Modf(p.position + delta)
	return p.position
}
