package tracing

import (
	"strconv"
	"sync"

	"lottie-catalog/loader"
)

// StateObserver turns loader snapshots into trace events. Phase changes become
// navigation events, finished loads and downloads become performance events,
// and newly surfaced error messages become error events.
type StateObserver struct {
	manager *Manager

	mu      sync.Mutex
	running map[loader.Phase]*TimedOperationTracker
}

var _ loader.Observer = (*StateObserver)(nil)

// NewStateObserver creates an observer that records into manager
func NewStateObserver(manager *Manager) *StateObserver {
	return &StateObserver{
		manager: manager,
		running: make(map[loader.Phase]*TimedOperationTracker),
	}
}

// OnStateChange implements loader.Observer
func (o *StateObserver) OnStateChange(prev, next loader.LoadingState) {
	errorTracked := false
	if prev.Phase != next.Phase {
		_ = o.manager.TrackStateTransition(prev.Phase.String(), next.Phase.String(), "state_change")
		errorTracked = o.timePhase(prev, next)
	}

	if errorTracked {
		return
	}
	if next.HasError() && (!prev.HasError() || prev.Message() != next.Message()) {
		_ = o.manager.TrackError(errorMessage(next.Message()), "loader", map[string]string{
			"phase": prev.Phase.String(),
		})
	}
}

// timePhase completes the operation that prev.Phase was timing and starts one
// for next.Phase. It reports whether the failure message was recorded.
func (o *StateObserver) timePhase(prev, next loader.LoadingState) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	tracker, ok := o.running[prev.Phase]
	if ok {
		delete(o.running, prev.Phase)
	}

	switch next.Phase {
	case loader.Loading:
		o.running[next.Phase] = o.manager.TimedOperation("load_catalog")
	case loader.Downloading:
		o.running[next.Phase] = o.manager.TimedOperation("download")
	}

	if !ok {
		return false
	}

	switch prev.Phase {
	case loader.Loading:
		tracker.AddMetadata("animations", strconv.Itoa(len(next.Catalog)))
	case loader.Downloading:
		tracker.AddMetadata("payload_bytes", strconv.Itoa(len(next.Payload())))
	}

	if next.Phase == loader.Failed && next.HasError() {
		tracker.AddMetadata("phase", prev.Phase.String())
		_ = tracker.CompleteWithError(errorMessage(next.Message()))
		return true
	}
	_ = tracker.Complete()
	return false
}

type errorMessage string

func (e errorMessage) Error() string { return string(e) }
