package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lottie-catalog/api"
	"lottie-catalog/config"
	"lottie-catalog/filesystem"
	"lottie-catalog/loader"
	"lottie-catalog/sequence"
)

// MockClient is a mock implementation of the API client
type MockClient struct {
	animations []api.AnimationDescriptor
	err        error
	payloads   map[string]string
	payloadErr error
}

func (m *MockClient) FetchCatalog(ctx context.Context) (*api.CatalogResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &api.CatalogResponse{Animations: m.animations}, nil
}

func (m *MockClient) FetchPayload(ctx context.Context, url string) (string, error) {
	if m.payloadErr != nil {
		return "", m.payloadErr
	}
	return m.payloads[url], nil
}

func newTestConfig(t *testing.T) *config.Manager {
	t.Helper()
	return config.NewManager(filepath.Join(t.TempDir(), "config.yml"))
}

func sampleAnimations() []api.AnimationDescriptor {
	size := int64(2048)
	return []api.AnimationDescriptor{
		{ID: "a1", Name: "Spinner", URL: "https://cdn.test/a1.json", SizeBytes: &size},
		{ID: "a2", Name: "Confetti", URL: "https://cdn.test/a2.json"},
	}
}

func TestListCmd_Execute(t *testing.T) {
	tests := []struct {
		name     string
		mock     *MockClient
		wantErr  bool
		contains []string
	}{
		{
			name:     "successful list",
			mock:     &MockClient{animations: sampleAnimations()},
			contains: []string{"a1", "Spinner", "2.0 KB", "Confetti", "yes"},
		},
		{
			name:     "empty catalog",
			mock:     &MockClient{animations: []api.AnimationDescriptor{}},
			contains: []string{"No animations available."},
		},
		{
			name:    "api error",
			mock:    &MockClient{err: errors.New("api error")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			if err := cfg.MarkAnimationDownloaded("a1"); err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			cmd := NewListCmd(tt.mock, cfg, &out)

			err := cmd.Execute(context.Background(), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestFetchCmd_Execute(t *testing.T) {
	mock := &MockClient{
		animations: sampleAnimations(),
		payloads:   map[string]string{"https://cdn.test/a2.json": `{"v":"5.7.4"}`},
	}
	cfg := newTestConfig(t)
	outFile := filepath.Join(t.TempDir(), "a2.json")

	var transitions int
	counter := loader.ObserverFunc(func(prev, next loader.LoadingState) { transitions++ })

	var out bytes.Buffer
	cmd := NewFetchCmd(mock, cfg, &out, 0, counter)
	if err := cmd.Execute(context.Background(), []string{"-o", outFile, "a2"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"v":"5.7.4"}` {
		t.Errorf("Expected payload written verbatim, got %s", data)
	}
	if !strings.Contains(out.String(), "100%") || !strings.Contains(out.String(), "Saved Confetti") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
	if !cfg.IsAnimationDownloaded("a2") {
		t.Error("Expected a2 to be recorded as downloaded")
	}
	// two for the load, thirteen for the download
	if transitions != 15 {
		t.Errorf("Expected 15 transitions, got %d", transitions)
	}
}

func TestFetchCmd_SaveToStore(t *testing.T) {
	mock := &MockClient{
		animations: sampleAnimations(),
		payloads:   map[string]string{"https://cdn.test/a1.json": `{"v":"5.7.4"}`},
	}
	store, err := filesystem.NewManager(filepath.Join(t.TempDir(), "animations"))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	outFile := filepath.Join(t.TempDir(), "a1.json")
	cmd := NewFetchCmd(mock, nil, &out, 0).WithStore(store)
	if err := cmd.Execute(context.Background(), []string{"-o", outFile, "-save", "a1"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	saved, err := store.LoadPayload("a1")
	if err != nil {
		t.Fatalf("Expected stored payload, got %v", err)
	}
	if saved != `{"v":"5.7.4"}` {
		t.Errorf("Expected stored payload verbatim, got %s", saved)
	}
	if !strings.Contains(out.String(), "Stored a1 in") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}

	// -save without a store is a usage error
	err = NewFetchCmd(mock, nil, &out, 0).Execute(context.Background(), []string{"-o", outFile, "-save", "a1"})
	if err == nil {
		t.Error("Expected error when no store is configured")
	}
}

func TestFetchCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mock    *MockClient
		args    []string
		wantErr string
		is      error
	}{
		{name: "missing id", mock: &MockClient{}, args: nil, wantErr: "usage"},
		{name: "unknown id", mock: &MockClient{animations: sampleAnimations()}, args: []string{"zz"}, is: ErrAnimationNotFound},
		{name: "catalog failure", mock: &MockClient{err: errors.New("boom")}, args: []string{"a1"}, wantErr: "boom"},
		{
			name:    "payload failure",
			mock:    &MockClient{animations: sampleAnimations(), payloadErr: &api.FetchError{Op: "fetch payload", URL: "u", StatusCode: 404, Err: errors.New("unexpected status code: 404")}},
			args:    []string{"a1"},
			wantErr: "fetch payload u: unexpected status code: 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			var out bytes.Buffer
			err := NewFetchCmd(tt.mock, cfg, &out, 0).Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
			if len(cfg.GetDownloadedAnimations()) != 0 {
				t.Error("Expected nothing recorded as downloaded")
			}
		})
	}
}

func TestDemoCmd_Execute(t *testing.T) {
	var out bytes.Buffer
	cmd := NewDemoCmd(&out)
	cmd.stages = func() *sequence.Stages {
		s, _ := sequence.NewStages(sequence.DefaultStageLabels, time.Millisecond, time.Millisecond)
		return s
	}

	if err := cmd.Execute(context.Background(), []string{"-cycles", "2"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 lines for two cycles, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasSuffix(lines[0], "1/5 Initializing...") || !strings.HasSuffix(lines[9], "5/5 Complete!") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestDemoCmd_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := NewDemoCmd(&out).Execute(ctx, []string{"-cycles", "0"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
