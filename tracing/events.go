package tracing

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
)

// BaseEvent holds the fields shared by every event
type BaseEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// EventType returns the type identifier for this event
func (b BaseEvent) EventType() string {
	return b.Type
}

// Timestamp returns when this event occurred
func (b BaseEvent) Timestamp() time.Time {
	return b.CreatedAt
}

// UserActionEvent tracks user requests such as download, retry and dismiss
type UserActionEvent struct {
	BaseEvent
	Action     string            `json:"action"`               // e.g. "download", "retry", "dismiss_error"
	Target     string            `json:"target"`               // e.g. "catalog", an animation ID
	Key        string            `json:"key,omitempty"`        // key that triggered the action
	Value      string            `json:"value,omitempty"`      // sanitized
	Properties map[string]string `json:"properties,omitempty"`
}

// NewUserActionEvent creates a new user action event
func NewUserActionEvent(sessionID, action, target string) *UserActionEvent {
	return &UserActionEvent{
		BaseEvent: BaseEvent{
			Type:      "user_action",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		Action:     action,
		Target:     target,
		Properties: make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (u *UserActionEvent) Validate() error {
	if u.Action == "" {
		return errors.New("action is required")
	}
	if u.Target == "" {
		return errors.New("target is required")
	}
	return nil
}

// Sanitize removes or masks any sensitive information
func (u *UserActionEvent) Sanitize() Event {
	sanitized := *u

	if isSensitiveKey(u.Target) {
		sanitized.Value = "[REDACTED]"
	} else {
		sanitized.Value = sanitizeText(u.Value)
	}

	// Remove sensitive properties
	if sanitized.Properties != nil {
		sanitized.Properties = make(map[string]string)
		for k, v := range u.Properties {
			if !isSensitiveKey(k) {
				sanitized.Properties[k] = v
			}
		}
	}

	return &sanitized
}

// Duration wraps time.Duration to provide human-readable JSON serialization
type Duration time.Duration

// MarshalJSON implements json.Marshaler interface
func (d Duration) MarshalJSON() ([]byte, error) {
	duration := time.Duration(d)
	return json.Marshal(map[string]interface{}{
		"nanoseconds":  int64(duration),
		"readable":     duration.String(),
		"milliseconds": duration.Nanoseconds() / 1000000,
	})
}

// UnmarshalJSON implements json.Unmarshaler interface
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Handle different input formats
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case map[string]interface{}:
		if ns, ok := value["nanoseconds"].(float64); ok {
			*d = Duration(time.Duration(ns))
		}
	}

	return nil
}

// PerformanceEvent tracks timing and performance metrics
type PerformanceEvent struct {
	BaseEvent
	Operation string            `json:"operation"` // e.g. "load_catalog", "download"
	Duration  Duration          `json:"duration"`
	Success   bool              `json:"success"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewPerformanceEvent creates a new performance event
func NewPerformanceEvent(sessionID, operation string, duration time.Duration, success bool) *PerformanceEvent {
	return &PerformanceEvent{
		BaseEvent: BaseEvent{
			Type:      "performance",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		Operation: operation,
		Duration:  Duration(duration),
		Success:   success,
		Metadata:  make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (p *PerformanceEvent) Validate() error {
	if p.Operation == "" {
		return errors.New("operation is required")
	}
	if time.Duration(p.Duration) < 0 {
		return errors.New("duration cannot be negative")
	}
	return nil
}

// Sanitize removes or masks any sensitive information
func (p *PerformanceEvent) Sanitize() Event {
	sanitized := *p

	// Remove sensitive metadata
	if sanitized.Metadata != nil {
		sanitized.Metadata = make(map[string]string)
		for k, v := range p.Metadata {
			if !isSensitiveKey(k) {
				sanitized.Metadata[k] = sanitizeText(v)
			}
		}
	}

	return &sanitized
}

// NavigationEvent tracks phase transitions of the loading state and TUI screens
type NavigationEvent struct {
	BaseEvent
	FromState string            `json:"from_state"`
	ToState   string            `json:"to_state"`
	Trigger   string            `json:"trigger"`
	Context   map[string]string `json:"context,omitempty"`
}

// NewNavigationEvent creates a new navigation event
func NewNavigationEvent(sessionID, fromState, toState, trigger string) *NavigationEvent {
	return &NavigationEvent{
		BaseEvent: BaseEvent{
			Type:      "navigation",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		FromState: fromState,
		ToState:   toState,
		Trigger:   trigger,
		Context:   make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (n *NavigationEvent) Validate() error {
	if n.ToState == "" {
		return errors.New("to_state is required")
	}
	if n.Trigger == "" {
		return errors.New("trigger is required")
	}
	return nil
}

// Sanitize removes or masks any sensitive information
func (n *NavigationEvent) Sanitize() Event {
	sanitized := *n

	// Remove sensitive context
	if sanitized.Context != nil {
		sanitized.Context = make(map[string]string)
		for k, v := range n.Context {
			if !isSensitiveKey(k) {
				sanitized.Context[k] = v
			}
		}
	}

	return &sanitized
}

// ErrorEvent tracks errors and diagnostic information
type ErrorEvent struct {
	BaseEvent
	Error     string            `json:"error"` // sanitized
	Code      string            `json:"code,omitempty"`
	Component string            `json:"component,omitempty"`
	Stack     string            `json:"stack,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// NewErrorEvent creates a new error event
func NewErrorEvent(sessionID, errorMsg, component string) *ErrorEvent {
	return &ErrorEvent{
		BaseEvent: BaseEvent{
			Type:      "error",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		Error:     errorMsg,
		Component: component,
		Context:   make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (e *ErrorEvent) Validate() error {
	if e.Error == "" {
		return errors.New("error message is required")
	}
	return nil
}

// Sanitize removes or masks any sensitive information
func (e *ErrorEvent) Sanitize() Event {
	sanitized := *e

	// Sanitize error message and stack trace
	sanitized.Error = sanitizeText(e.Error)
	sanitized.Stack = sanitizeStackTrace(e.Stack)

	// Remove sensitive context
	if sanitized.Context != nil {
		sanitized.Context = make(map[string]string)
		for k, v := range e.Context {
			if !isSensitiveKey(k) {
				sanitized.Context[k] = v
			}
		}
	}

	return &sanitized
}

// Helper functions for sanitization

var sensitiveParam = regexp.MustCompile(`(?i)(token|password|key|secret|auth|signature)=[^&\s]+`)

// isSensitiveKey checks if a key contains sensitive information
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	sensitiveKeys := []string{
		"password", "token", "secret", "key", "auth", "credential", "signature",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return true
		}
	}
	return false
}

// sanitizeText masks credentials carried in URL query strings.
// Fetch errors embed the request URL and signed CDN URLs are common.
func sanitizeText(msg string) string {
	return sensitiveParam.ReplaceAllString(msg, "$1=[REDACTED]")
}

// sanitizeStackTrace drops stack traces entirely
func sanitizeStackTrace(stack string) string {
	if stack == "" {
		return ""
	}
	return "[redacted]"
}
