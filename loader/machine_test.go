package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lottie-catalog/api"
	"lottie-catalog/domain"
)

// fakeUseCase is a scripted CatalogUseCase
type fakeUseCase struct {
	mu             sync.Mutex
	catalogResults []domain.Result[[]api.AnimationDescriptor]
	payloadResult  domain.Result[string]
	gate           chan struct{}
	started        chan struct{}
	catalogCalls   atomic.Int32
	payloadURLs    []string
}

func (f *fakeUseCase) ListAnimations() domain.Producer[[]api.AnimationDescriptor] {
	return domain.ProducerFunc[[]api.AnimationDescriptor](func(ctx context.Context) <-chan domain.Result[[]api.AnimationDescriptor] {
		out := make(chan domain.Result[[]api.AnimationDescriptor], 1)
		go func() {
			defer close(out)
			n := int(f.catalogCalls.Add(1))
			if f.started != nil {
				select {
				case f.started <- struct{}{}:
				default:
				}
			}
			if f.gate != nil {
				select {
				case <-f.gate:
				case <-ctx.Done():
					out <- domain.Failure[[]api.AnimationDescriptor](ctx.Err())
					return
				}
			}
			f.mu.Lock()
			r := f.catalogResults[min(n, len(f.catalogResults))-1]
			f.mu.Unlock()
			out <- r
		}()
		return out
	})
}

func (f *fakeUseCase) FetchPayload(ctx context.Context, url string) domain.Result[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloadURLs = append(f.payloadURLs, url)
	return f.payloadResult
}

// recorder captures every published snapshot
type recorder struct {
	mu     sync.Mutex
	states []LoadingState
}

func (r *recorder) OnStateChange(prev, next LoadingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, next)
}

func (r *recorder) snapshot() []LoadingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LoadingState, len(r.states))
	copy(out, r.states)
	return out
}

var (
	spinner = api.AnimationDescriptor{ID: "a1", Name: "Spinner", URL: "https://x/a1.json"}
	heart   = api.AnimationDescriptor{ID: "a2", Name: "Heart", URL: "https://x/a2.json"}
)

func catalogOK(items ...api.AnimationDescriptor) domain.Result[[]api.AnimationDescriptor] {
	return domain.Success(items)
}

func catalogErr(msg string) domain.Result[[]api.AnimationDescriptor] {
	return domain.Failure[[]api.AnimationDescriptor](errors.New(msg))
}

func newTestMachine(t *testing.T, uc *fakeUseCase, opts ...Option) *Machine {
	t.Helper()
	opts = append([]Option{WithStepInterval(time.Millisecond)}, opts...)
	m := New(context.Background(), uc, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestMachine_InitialState(t *testing.T) {
	m := newTestMachine(t, &fakeUseCase{})

	s := m.Snapshot()
	if s.Busy || s.HasError() || s.HasPayload() || s.DownloadProgress != 0 {
		t.Errorf("unexpected initial state %+v", s)
	}
	if s.Catalog == nil || len(s.Catalog) != 0 {
		t.Errorf("expected empty non-nil catalog, got %v", s.Catalog)
	}
	if s.Phase != Idle {
		t.Errorf("expected Idle, got %s", s.Phase)
	}
}

func TestMachine_LoadCatalog_Success(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogOK(heart, spinner)}}
	rec := &recorder{}
	m := newTestMachine(t, uc, WithObserver(rec))

	m.LoadCatalog()
	m.Wait()

	s := m.Snapshot()
	if s.Busy {
		t.Error("expected Busy to be false")
	}
	if s.HasError() {
		t.Errorf("expected no error, got %q", s.Message())
	}
	if len(s.Catalog) != 2 || s.Catalog[0].ID != "a2" || s.Catalog[1].ID != "a1" {
		t.Errorf("expected catalog in server order, got %+v", s.Catalog)
	}
	if s.Phase != Loaded {
		t.Errorf("expected Loaded, got %s", s.Phase)
	}

	states := rec.snapshot()
	if len(states) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(states))
	}
	if !states[0].Busy || states[0].Phase != Loading {
		t.Errorf("expected first transition to be busy loading, got %+v", states[0])
	}
}

func TestMachine_LoadCatalog_FailureKeepsCatalog(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{
		catalogOK(spinner),
		catalogErr("fetch catalog https://x/animations: unexpected status code: 503"),
	}}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	m.Wait()
	m.LoadCatalog()
	m.Wait()

	s := m.Snapshot()
	if s.Busy {
		t.Error("expected Busy to be false")
	}
	if s.Message() != "fetch catalog https://x/animations: unexpected status code: 503" {
		t.Errorf("expected message surfaced verbatim, got %q", s.Message())
	}
	if len(s.Catalog) != 1 || s.Catalog[0] != spinner {
		t.Errorf("expected catalog to be unchanged, got %+v", s.Catalog)
	}
	if s.Phase != Failed {
		t.Errorf("expected Failed, got %s", s.Phase)
	}
}

func TestMachine_LoadCatalog_EmptyMessageUsesFallback(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogErr("")}}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	m.Wait()

	if got := m.Snapshot().Message(); got != "Failed to load animations" {
		t.Errorf("got %q", got)
	}
}

func TestMachine_LoadCatalog_ReplacesWholesale(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{
		catalogOK(spinner, heart),
		catalogOK(heart),
	}}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	m.Wait()
	m.LoadCatalog()
	m.Wait()

	s := m.Snapshot()
	if len(s.Catalog) != 1 || s.Catalog[0] != heart {
		t.Errorf("expected catalog to be replaced, got %+v", s.Catalog)
	}
}

func TestMachine_Retry(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{
		catalogErr("network down"),
		catalogOK(spinner),
	}}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	m.Wait()
	if !m.Snapshot().HasError() {
		t.Fatal("expected error after first load")
	}

	m.Retry()
	m.Wait()

	s := m.Snapshot()
	if s.HasError() {
		t.Errorf("expected retry to clear the error, got %q", s.Message())
	}
	if len(s.Catalog) != 1 {
		t.Errorf("expected catalog after retry, got %+v", s.Catalog)
	}
	if got := uc.catalogCalls.Load(); got != 2 {
		t.Errorf("expected 2 fetches, got %d", got)
	}
}

func TestMachine_LoadCatalog_OverlappingCallsCoalesce(t *testing.T) {
	uc := &fakeUseCase{
		catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogOK(spinner)},
		gate:           make(chan struct{}),
		started:        make(chan struct{}, 1),
	}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	<-uc.started
	m.LoadCatalog()
	m.LoadCatalog()
	time.Sleep(20 * time.Millisecond)
	close(uc.gate)
	m.Wait()

	if got := uc.catalogCalls.Load(); got != 1 {
		t.Errorf("expected overlapping loads to share one fetch, got %d", got)
	}
	if s := m.Snapshot(); s.Busy || len(s.Catalog) != 1 {
		t.Errorf("unexpected final state %+v", s)
	}
}

func TestMachine_Download_Success(t *testing.T) {
	uc := &fakeUseCase{payloadResult: domain.Success("{...}")}
	rec := &recorder{}
	m := newTestMachine(t, uc, WithObserver(rec))

	m.Download(spinner)
	m.Wait()

	s := m.Snapshot()
	if s.Payload() != "{...}" {
		t.Errorf("expected payload '{...}', got %q", s.Payload())
	}
	if s.DownloadProgress != 1.0 {
		t.Errorf("expected progress 1.0, got %v", s.DownloadProgress)
	}
	if s.HasError() || s.Busy {
		t.Errorf("unexpected final state %+v", s)
	}
	if s.Phase != Downloaded {
		t.Errorf("expected Downloaded, got %s", s.Phase)
	}
	if len(uc.payloadURLs) != 1 || uc.payloadURLs[0] != spinner.URL {
		t.Errorf("expected one fetch of %s, got %v", spinner.URL, uc.payloadURLs)
	}

	// start, 11 progress steps, terminal
	states := rec.snapshot()
	if len(states) != ProgressSteps+2 {
		t.Fatalf("expected %d transitions, got %d", ProgressSteps+2, len(states))
	}
	for i := 0; i < ProgressSteps; i++ {
		got := states[i+1]
		want := float64(i) / 10
		if got.DownloadProgress != want {
			t.Errorf("step %d: progress = %v, want %v", i, got.DownloadProgress, want)
		}
		if got.HasPayload() {
			t.Errorf("step %d: payload set before progress completed", i)
		}
		if i > 0 && got.DownloadProgress <= states[i].DownloadProgress {
			t.Errorf("step %d: progress not strictly increasing", i)
		}
	}
}

func TestMachine_Download_FailureKeepsPayload(t *testing.T) {
	uc := &fakeUseCase{payloadResult: domain.Success("first")}
	m := newTestMachine(t, uc)

	m.Download(spinner)
	m.Wait()

	uc.mu.Lock()
	uc.payloadResult = domain.Failure[string](errors.New("fetch payload https://x/a2.json: unexpected status code: 404"))
	uc.mu.Unlock()

	m.Download(heart)
	m.Wait()

	s := m.Snapshot()
	if s.DownloadProgress != 0 {
		t.Errorf("expected progress reset to 0, got %v", s.DownloadProgress)
	}
	if s.Payload() != "first" {
		t.Errorf("expected payload to be unchanged, got %q", s.Payload())
	}
	if s.Message() != "fetch payload https://x/a2.json: unexpected status code: 404" {
		t.Errorf("unexpected error %q", s.Message())
	}
	if s.Busy {
		t.Error("expected Busy to be false")
	}
}

func TestMachine_Download_ProgressMonotonicAcrossSequentialDownloads(t *testing.T) {
	uc := &fakeUseCase{payloadResult: domain.Success("p")}
	var mu sync.Mutex
	var violations int
	observer := ObserverFunc(func(prev, next LoadingState) {
		mu.Lock()
		defer mu.Unlock()
		if next.Phase == Downloading && prev.Phase == Downloading && next.DownloadProgress < prev.DownloadProgress {
			violations++
		}
	})
	m := newTestMachine(t, uc, WithObserver(observer))

	m.Download(spinner)
	m.Download(heart)
	m.Wait()

	if violations != 0 {
		t.Errorf("progress went backwards %d times within a download", violations)
	}
	if len(uc.payloadURLs) != 2 {
		t.Errorf("expected both downloads to run, got %v", uc.payloadURLs)
	}
}

func TestMachine_ClearError_Idempotent(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogErr("boom")}}
	m := newTestMachine(t, uc)

	m.LoadCatalog()
	m.Wait()

	m.ClearError()
	once := m.Snapshot()
	m.ClearError()
	twice := m.Snapshot()

	if once.HasError() {
		t.Errorf("expected error cleared, got %q", once.Message())
	}
	if once.Busy != twice.Busy || once.Phase != twice.Phase || once.DownloadProgress != twice.DownloadProgress ||
		len(once.Catalog) != len(twice.Catalog) || once.HasError() != twice.HasError() {
		t.Errorf("second ClearError changed state: %+v vs %+v", once, twice)
	}
	if once.Phase != Idle {
		t.Errorf("expected Failed -> Idle, got %s", once.Phase)
	}
}

func TestMachine_Subscribe_ReceivesCurrentImmediately(t *testing.T) {
	m := newTestMachine(t, &fakeUseCase{})

	sub := m.Subscribe()
	defer sub.Close()

	select {
	case s := <-sub.C():
		if s.Phase != Idle {
			t.Errorf("expected Idle, got %s", s.Phase)
		}
	default:
		t.Fatal("expected current snapshot to be available immediately")
	}
}

func TestMachine_Subscribe_LateSubscriberSeesLatestOnly(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogOK(spinner)}}
	m := newTestMachine(t, uc)

	early := m.Subscribe()
	defer early.Close()

	m.LoadCatalog()
	m.Wait()

	late := m.Subscribe()
	defer late.Close()

	earlyState := <-early.C()
	lateState := <-late.C()

	for name, s := range map[string]LoadingState{"early": earlyState, "late": lateState} {
		if s.Busy || s.HasError() || len(s.Catalog) != 1 || s.Phase != Loaded {
			t.Errorf("%s subscriber saw %+v, want final loaded state", name, s)
		}
	}

	select {
	case s := <-late.C():
		t.Errorf("late subscriber received history: %+v", s)
	default:
	}
}

func TestMachine_Close_StopsTransitions(t *testing.T) {
	uc := &fakeUseCase{
		catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogOK(spinner)},
		gate:           make(chan struct{}),
		started:        make(chan struct{}, 1),
	}
	rec := &recorder{}
	m := New(context.Background(), uc, WithObserver(rec))
	sub := m.Subscribe()

	m.LoadCatalog()
	<-uc.started
	m.Close()

	before := len(rec.snapshot())
	close(uc.gate)
	m.LoadCatalog()
	m.ClearError()
	m.Wait()

	if after := len(rec.snapshot()); after != before {
		t.Errorf("expected no transitions after Close, got %d new", after-before)
	}
	if len(m.Snapshot().Catalog) != 0 {
		t.Error("expected cancelled load not to populate the catalog")
	}

	for range sub.C() {
	}
}

func TestMachine_Close_CancelsDownload(t *testing.T) {
	uc := &fakeUseCase{payloadResult: domain.Success("p")}
	m := New(context.Background(), uc, WithStepInterval(time.Hour))

	m.Download(spinner)
	deadline := time.Now().Add(time.Second)
	for m.Snapshot().Phase != Downloading && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the progress pause")
	}
	if len(uc.payloadURLs) != 0 {
		t.Errorf("expected no payload fetch after cancellation, got %v", uc.payloadURLs)
	}
}

func TestMachine_WithAutoLoad(t *testing.T) {
	uc := &fakeUseCase{catalogResults: []domain.Result[[]api.AnimationDescriptor]{catalogOK(spinner)}}
	m := newTestMachine(t, uc, WithAutoLoad())
	m.Wait()

	if len(m.Snapshot().Catalog) != 1 {
		t.Errorf("expected catalog to load on construction, got %+v", m.Snapshot())
	}
}

func TestMachine_EndToEnd(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     bool
		wantCatalog []api.AnimationDescriptor
	}{
		{
			name: "single animation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"animations":[{"id":"a1","name":"Spinner","url":"https://x/a1.json"}]}`))
			},
			wantCatalog: []api.AnimationDescriptor{spinner},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:     true,
			wantCatalog: []api.AnimationDescriptor{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			service := domain.NewCatalogService(api.NewClient(server.URL, 5*time.Second))
			m := New(context.Background(), service)
			defer m.Close()

			m.LoadCatalog()
			m.Wait()

			s := m.Snapshot()
			if s.HasError() != tt.wantErr {
				t.Fatalf("HasError = %v (%q), want %v", s.HasError(), s.Message(), tt.wantErr)
			}
			if len(s.Catalog) != len(tt.wantCatalog) {
				t.Fatalf("got %d animations, want %d", len(s.Catalog), len(tt.wantCatalog))
			}
			for i := range s.Catalog {
				if s.Catalog[i] != tt.wantCatalog[i] {
					t.Errorf("catalog[%d] = %+v, want %+v", i, s.Catalog[i], tt.wantCatalog[i])
				}
			}
		})
	}
}

func TestPhase_String(t *testing.T) {
	if Failed.String() != "Failed" {
		t.Errorf("got %s", Failed.String())
	}
	if Phase(42).IsValid() {
		t.Error("expected unknown phase to be invalid")
	}
	if Phase(42).String() != "Unknown(42)" {
		t.Errorf("got %s", Phase(42).String())
	}
}
