// Package sequence holds the timing logic behind the loading demos: a labelled
// multi-step sequence, a progress sweep, and a play/pause/speed control.
// Each type is a plain state machine; callers decide how to wait.
package sequence

import (
	"context"
	"errors"
	"time"
)

// Stage timings
const (
	DefaultStageHold = 1200 * time.Millisecond
	DefaultStageRest = 1000 * time.Millisecond
)

// DefaultStageLabels are shown in order, one per stage
var DefaultStageLabels = []string{
	"Initializing...",
	"Loading assets...",
	"Processing data...",
	"Finalizing...",
	"Complete!",
}

// StageUpdate describes the stage currently shown
type StageUpdate struct {
	Index    int
	Label    string
	Fraction float64 // (Index+1)/len(labels)
	Total    int
}

// Stages cycles through labels, holding each one and resting after the last
// before starting over.
type Stages struct {
	labels []string
	hold   time.Duration
	rest   time.Duration
	index  int
}

// NewStages creates a sequence over labels
func NewStages(labels []string, hold, rest time.Duration) (*Stages, error) {
	if len(labels) == 0 {
		return nil, errors.New("at least one stage label is required")
	}
	return &Stages{
		labels: append([]string(nil), labels...),
		hold:   hold,
		rest:   rest,
	}, nil
}

// DefaultStages returns the five-stage sequence with default timings
func DefaultStages() *Stages {
	s, _ := NewStages(DefaultStageLabels, DefaultStageHold, DefaultStageRest)
	return s
}

// Current returns the stage being shown
func (s *Stages) Current() StageUpdate {
	return StageUpdate{
		Index:    s.index,
		Label:    s.labels[s.index],
		Fraction: float64(s.index+1) / float64(len(s.labels)),
		Total:    len(s.labels),
	}
}

// Delay is how long the current stage stays before Advance
func (s *Stages) Delay() time.Duration {
	if s.index == len(s.labels)-1 {
		return s.hold + s.rest
	}
	return s.hold
}

// Advance moves to the next stage, wrapping to the first after the last
func (s *Stages) Advance() StageUpdate {
	s.index = (s.index + 1) % len(s.labels)
	return s.Current()
}

// Reset returns to the first stage
func (s *Stages) Reset() {
	s.index = 0
}

// Run emits the current stage and then every following one until ctx is done.
// It returns ctx.Err().
func (s *Stages) Run(ctx context.Context, emit func(StageUpdate)) error {
	emit(s.Current())
	for {
		if err := sleep(ctx, s.Delay()); err != nil {
			return err
		}
		emit(s.Advance())
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
