package tracing

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Manager is the entry point the rest of the application uses for tracing
type Manager struct {
	tracer    Tracer
	config    TracingConfig
	sessionID string
	now       func() time.Time
	mu        sync.RWMutex
	closed    bool
}

// NewManager creates a new tracing manager with the given configuration and version
func NewManager(config TracingConfig, version string) (*Manager, error) {
	tracer, err := NewTracer(config, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return NewManagerWithTracer(tracer, config), nil
}

// NewManagerWithTracer wraps an existing tracer
func NewManagerWithTracer(tracer Tracer, config TracingConfig) *Manager {
	sessionID := "unknown"
	if local, ok := tracer.(*LocalTracer); ok {
		sessionID = local.SessionID()
	}

	manager := &Manager{
		tracer:    tracer,
		config:    config,
		sessionID: sessionID,
		now:       time.Now,
	}

	// tracking errors never fail the caller
	_ = manager.TrackSessionStart()

	return manager
}

// TrackSessionStart records the beginning of a session
func (m *Manager) TrackSessionStart() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	event := NewNavigationEvent(m.sessionID, "", "session_start", "application_launch")
	event.Context["platform"] = runtime.GOOS
	event.Context["arch"] = runtime.GOARCH
	event.Context["go_version"] = runtime.Version()

	return m.tracer.TrackNavigation(*event)
}

// TrackUserAction records a user request against a target
func (m *Manager) TrackUserAction(action, target, value string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	event := NewUserActionEvent(m.sessionID, action, target)
	event.Value = value
	return m.tracer.TrackUserAction(*event)
}

// TrackStateTransition records a state change
func (m *Manager) TrackStateTransition(fromState, toState, trigger string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	event := NewNavigationEvent(m.sessionID, fromState, toState, trigger)
	return m.tracer.TrackNavigation(*event)
}

// TrackOperation records the duration and outcome of an operation
func (m *Manager) TrackOperation(operation string, duration time.Duration, success bool, metadata map[string]string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	event := NewPerformanceEvent(m.sessionID, operation, duration, success)
	for k, v := range metadata {
		event.Metadata[k] = v
	}
	return m.tracer.TrackPerformance(*event)
}

// TrackError records an error with optional context
func (m *Manager) TrackError(err error, component string, context map[string]string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || err == nil {
		return nil
	}

	event := NewErrorEvent(m.sessionID, err.Error(), component)
	for k, v := range context {
		event.Context[k] = v
	}
	return m.tracer.TrackError(*event)
}

// TimedOperation starts timing an operation
func (m *Manager) TimedOperation(operation string) *TimedOperationTracker {
	return &TimedOperationTracker{
		manager:   m,
		operation: operation,
		startTime: m.now(),
	}
}

// Flush ensures all pending events are persisted
func (m *Manager) Flush() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	return m.tracer.Flush()
}

// Close records the session end and shuts down the tracer
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	event := NewNavigationEvent(m.sessionID, "session_active", "session_end", "application_exit")
	_ = m.tracer.TrackNavigation(*event)

	err := m.tracer.Close()
	m.closed = true

	return err
}

// IsEnabled returns whether tracing is enabled
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// SessionID returns the current session ID
func (m *Manager) SessionID() string {
	return m.sessionID
}

// TimedOperationTracker measures one operation
type TimedOperationTracker struct {
	manager   *Manager
	operation string
	startTime time.Time
	metadata  map[string]string
}

// AddMetadata adds metadata to the operation
func (t *TimedOperationTracker) AddMetadata(key, value string) *TimedOperationTracker {
	if t.metadata == nil {
		t.metadata = make(map[string]string)
	}
	t.metadata[key] = value
	return t
}

// Complete records the operation as successful
func (t *TimedOperationTracker) Complete() error {
	return t.manager.TrackOperation(t.operation, t.elapsed(), true, t.metadata)
}

// CompleteWithError records the operation as failed along with err
func (t *TimedOperationTracker) CompleteWithError(err error) error {
	duration := t.elapsed()

	perfErr := t.manager.TrackOperation(t.operation, duration, false, t.metadata)

	errorContext := map[string]string{
		"operation": t.operation,
		"duration":  duration.String(),
	}
	for k, v := range t.metadata {
		errorContext[k] = v
	}
	errErr := t.manager.TrackError(err, t.operation, errorContext)

	if perfErr != nil {
		return perfErr
	}
	return errErr
}

func (t *TimedOperationTracker) elapsed() time.Duration {
	return t.manager.now().Sub(t.startTime)
}
