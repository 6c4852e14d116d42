// Package loader owns the catalog/download state and publishes every change
// as an immutable LoadingState snapshot.
package loader

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"lottie-catalog/api"
	"lottie-catalog/domain"
)

const (
	// ProgressSteps is the number of simulated progress updates per download (0%..100%)
	ProgressSteps = 11

	// DefaultStepInterval is the pause after each simulated progress update
	DefaultStepInterval = 100 * time.Millisecond

	loadFallbackMessage     = "Failed to load animations"
	downloadFallbackMessage = "Failed to download animation"

	catalogFlightKey = "catalog"
)

// CatalogUseCase is what the machine needs from the domain layer
type CatalogUseCase interface {
	ListAnimations() domain.Producer[[]api.AnimationDescriptor]
	FetchPayload(ctx context.Context, url string) domain.Result[string]
}

// Observer receives every snapshot, synchronously and in emission order.
// Implementations must not call back into the Machine.
type Observer interface {
	OnStateChange(prev, next LoadingState)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(prev, next LoadingState)

// OnStateChange calls f(prev, next)
func (f ObserverFunc) OnStateChange(prev, next LoadingState) {
	f(prev, next)
}

// Option configures a Machine
type Option func(*Machine)

// WithStepInterval sets the pause between simulated progress updates
func WithStepInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.stepInterval = d
	}
}

// WithObserver registers an observer before any operation runs
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, o)
	}
}

// WithAutoLoad starts a catalog load as soon as the machine is created
func WithAutoLoad() Option {
	return func(m *Machine) {
		m.autoLoad = true
	}
}

// Machine drives catalog loading and payload downloads. All writes go through
// update, which serializes read-modify-write and publication.
type Machine struct {
	useCase      CatalogUseCase
	stepInterval time.Duration
	autoLoad     bool

	// session scope
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	flight     singleflight.Group
	downloadMu sync.Mutex

	mu          sync.Mutex
	state       LoadingState
	observers   []Observer
	subscribers map[*Subscription]struct{}
	closed      bool
}

// New creates a machine whose operations live no longer than ctx
func New(ctx context.Context, useCase CatalogUseCase, opts ...Option) *Machine {
	sessionCtx, cancel := context.WithCancel(ctx)
	m := &Machine{
		useCase:      useCase,
		stepInterval: DefaultStepInterval,
		ctx:          sessionCtx,
		cancel:       cancel,
		state:        LoadingState{Catalog: []api.AnimationDescriptor{}},
		subscribers:  make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.autoLoad {
		m.LoadCatalog()
	}

	return m
}

// Snapshot returns the current state
func (m *Machine) Snapshot() LoadingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AddObserver registers an observer for all future snapshots
func (m *Machine) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Subscribe returns a conflated stream of snapshots starting with the current one
func (m *Machine) Subscribe() *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &Subscription{machine: m, ch: make(chan LoadingState, 1)}
	sub.ch <- m.state
	if m.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	m.subscribers[sub] = struct{}{}
	return sub
}

// LoadCatalog fetches the catalog in the background. Calls made while a load
// is already in flight join that load instead of starting another.
func (m *Machine) LoadCatalog() {
	m.launch(func(ctx context.Context) {
		m.flight.Do(catalogFlightKey, func() (interface{}, error) {
			m.loadCatalog(ctx)
			return nil, nil
		})
	})
}

// Retry re-runs the catalog load
func (m *Machine) Retry() {
	m.LoadCatalog()
}

// Download runs the simulated progress sequence for d and then fetches its
// payload. Downloads run one at a time; a second request for the same
// animation while one is pending joins it.
func (m *Machine) Download(d api.AnimationDescriptor) {
	m.launch(func(ctx context.Context) {
		m.flight.Do("download:"+d.ID, func() (interface{}, error) {
			m.downloadMu.Lock()
			defer m.downloadMu.Unlock()
			m.download(ctx, d)
			return nil, nil
		})
	})
}

// ClearError dismisses the current error
func (m *Machine) ClearError() {
	m.update(m.ctx, func(s LoadingState) LoadingState {
		s.ErrorMessage = nil
		if s.Phase == Failed {
			s.Phase = Idle
		}
		return s
	})
}

// Wait blocks until every operation started so far has finished
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Close cancels in-flight operations, waits for them and ends all subscriptions.
// No transition is applied after Close returns.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for sub := range m.subscribers {
		sub.closeLocked()
	}
	m.subscribers = map[*Subscription]struct{}{}
}

func (m *Machine) launch(fn func(ctx context.Context)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		fn(m.ctx)
	}()
}

func (m *Machine) loadCatalog(ctx context.Context) {
	if !m.update(ctx, func(s LoadingState) LoadingState {
		s.Busy = true
		s.ErrorMessage = nil
		s.Phase = Loading
		return s
	}) {
		return
	}

	result, ok := <-m.useCase.ListAnimations().Run(ctx)
	if !ok {
		result = domain.Failure[[]api.AnimationDescriptor](domain.ErrUnknown)
	}

	result.Fold(
		func(catalog []api.AnimationDescriptor) {
			m.update(ctx, func(s LoadingState) LoadingState {
				s.Busy = false
				s.Catalog = slices.Clone(catalog)
				if s.Catalog == nil {
					s.Catalog = []api.AnimationDescriptor{}
				}
				s.ErrorMessage = nil
				s.Phase = Loaded
				return s
			})
		},
		func(err error) {
			m.update(ctx, func(s LoadingState) LoadingState {
				s.Busy = false
				s.ErrorMessage = stringPtr(result.Message(loadFallbackMessage))
				s.Phase = Failed
				return s
			})
		},
	)
}

func (m *Machine) download(ctx context.Context, d api.AnimationDescriptor) {
	if !m.update(ctx, func(s LoadingState) LoadingState {
		s.Busy = true
		s.DownloadProgress = 0
		s.ErrorMessage = nil
		s.Phase = Downloading
		return s
	}) {
		return
	}

	// Decorative: this does not track bytes received.
	for step := 0; step < ProgressSteps; step++ {
		progress := float64(step) / float64(ProgressSteps-1)
		if !m.update(ctx, func(s LoadingState) LoadingState {
			s.DownloadProgress = progress
			return s
		}) {
			return
		}
		if !pause(ctx, m.stepInterval) {
			return
		}
	}

	result := m.useCase.FetchPayload(ctx, d.URL)

	result.Fold(
		func(payload string) {
			m.update(ctx, func(s LoadingState) LoadingState {
				s.Busy = false
				s.ActivePayload = stringPtr(payload)
				s.DownloadProgress = 1
				s.ErrorMessage = nil
				s.Phase = Downloaded
				return s
			})
		},
		func(err error) {
			m.update(ctx, func(s LoadingState) LoadingState {
				s.Busy = false
				s.ErrorMessage = stringPtr(result.Message(downloadFallbackMessage))
				s.DownloadProgress = 0
				s.Phase = Failed
				return s
			})
		},
	)
}

// update applies fn to the current state and publishes the result. It reports
// false, without applying anything, once ctx is done.
func (m *Machine) update(ctx context.Context, fn func(LoadingState) LoadingState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	prev := m.state
	next := fn(prev)
	m.state = next

	for _, o := range m.observers {
		o.OnStateChange(prev, next)
	}
	for sub := range m.subscribers {
		sub.offer(next)
	}
	return true
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
