// Package tracing records structured diagnostic events for a lottie-catalog session.
package tracing

import (
	"time"
)

// Tracer defines the contract for recording session events
type Tracer interface {
	// TrackEvent records a structured event
	TrackEvent(event Event) error

	// TrackUserAction records user interactions like downloads and retries
	TrackUserAction(action UserActionEvent) error

	// TrackPerformance records operation timings
	TrackPerformance(metric PerformanceEvent) error

	// TrackNavigation records state transitions
	TrackNavigation(nav NavigationEvent) error

	// TrackError records failures
	TrackError(err ErrorEvent) error

	// Flush ensures all pending events are persisted
	Flush() error

	// Close flushes and releases resources
	Close() error
}

// Event is implemented by all trackable events
type Event interface {
	EventType() string
	Timestamp() time.Time
	Validate() error
	Sanitize() Event
}

// SessionInfo contains metadata about the current session
type SessionInfo struct {
	ID        string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	UserAgent string    `json:"user_agent"`
	Platform  string    `json:"platform"`
	Version   string    `json:"version"`
}

// EventBatch is the unit written to disk
type EventBatch struct {
	Session SessionInfo `json:"session"`
	Events  []Event     `json:"events"`
}

// TracingConfig holds configuration for the tracing system
type TracingConfig struct {
	Enabled       bool          `json:"enabled"`
	LocalDir      string        `json:"local_dir"`
	MaxSessions   int           `json:"max_sessions"`
	FlushInterval time.Duration `json:"flush_interval"`
	MaxBufferSize int           `json:"max_buffer_size"`
}

// DefaultConfig returns the default tracing configuration
func DefaultConfig() TracingConfig {
	return TracingConfig{
		Enabled:       true,
		LocalDir:      "~/.lottie-catalog/traces",
		MaxSessions:   10,
		FlushInterval: 10 * time.Second,
		MaxBufferSize: 1000,
	}
}

// NewTracer returns a LocalTracer, or a NoOpTracer when tracing is disabled
func NewTracer(config TracingConfig, version string) (Tracer, error) {
	if !config.Enabled {
		return NewNoOpTracer(), nil
	}
	tracer, err := NewLocalTracer(config, version)
	if err != nil {
		return nil, err
	}
	return tracer, nil
}

// NoOpTracer discards all events
type NoOpTracer struct{}

func (n *NoOpTracer) TrackEvent(event Event) error                   { return nil }
func (n *NoOpTracer) TrackUserAction(action UserActionEvent) error   { return nil }
func (n *NoOpTracer) TrackPerformance(metric PerformanceEvent) error { return nil }
func (n *NoOpTracer) TrackNavigation(nav NavigationEvent) error      { return nil }
func (n *NoOpTracer) TrackError(err ErrorEvent) error                { return nil }
func (n *NoOpTracer) Flush() error                                   { return nil }
func (n *NoOpTracer) Close() error                                   { return nil }

// NewNoOpTracer creates a tracer that discards all events
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}
