package loader

import (
	"fmt"

	"lottie-catalog/api"
)

// Phase is a coarse view of what the machine is doing
type Phase int

const (
	// Idle - nothing has happened yet, or an error was dismissed
	Idle Phase = iota

	// Loading - a catalog fetch is in flight
	Loading

	// Loaded - the last catalog fetch succeeded
	Loaded

	// Downloading - a payload download (including simulated progress) is in flight
	Downloading

	// Downloaded - the last download succeeded
	Downloaded

	// Failed - the last operation failed and the error has not been dismissed
	Failed
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Downloading:
		return "Downloading"
	case Downloaded:
		return "Downloaded"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// IsValid checks if the phase is a known phase
func (p Phase) IsValid() bool {
	return p >= Idle && p <= Failed
}

// LoadingState is one snapshot published by the Machine. Snapshots are never
// modified after publication; treat Catalog as read-only.
type LoadingState struct {
	Busy             bool
	Catalog          []api.AnimationDescriptor
	ActivePayload    *string
	ErrorMessage     *string
	DownloadProgress float64
	Phase            Phase
}

// HasError reports whether an undismissed error is present
func (s LoadingState) HasError() bool {
	return s.ErrorMessage != nil
}

// Message returns the error message or ""
func (s LoadingState) Message() string {
	if s.ErrorMessage == nil {
		return ""
	}
	return *s.ErrorMessage
}

// HasPayload reports whether a payload has been downloaded
func (s LoadingState) HasPayload() bool {
	return s.ActivePayload != nil
}

// Payload returns the active payload or ""
func (s LoadingState) Payload() string {
	if s.ActivePayload == nil {
		return ""
	}
	return *s.ActivePayload
}

func stringPtr(s string) *string {
	return &s
}
