package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_FetchCatalog(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		wantErr        bool
		wantStatus     int
		wantIDs        []string
	}{
		{
			name: "successful list",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if r.URL.Path != "/animations" {
					t.Errorf("expected path /animations, got %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}
				w.Write([]byte(`{"animations":[{"id":"a1","name":"Spinner","url":"https://x/a1.json"},{"id":"a0","name":"Dots","url":"https://x/a0.json","size":2048}]}`))
			},
			wantIDs: []string{"a1", "a0"},
		},
		{
			name: "unknown fields and whitespace are tolerated",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("\n  { \"version\": 3, \"animations\" : [ {\"id\":\"a1\", \"name\":\"Spinner\", \"url\":\"u\", \"tags\":[\"x\"]} ] }  \n"))
			},
			wantIDs: []string{"a1"},
		},
		{
			name: "empty catalog",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"animations":[]}`))
			},
			wantIDs: []string{},
		},
		{
			name: "api error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "invalid response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("invalid json"))
			},
			wantErr: true,
		},
		{
			name: "missing required field",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"animations":[{"id":"a1","name":"Spinner"}]}`))
			},
			wantErr: true,
		},
		{
			name: "missing animations field",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items":[]}`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewClient(server.URL+"/", 5*time.Second)

			catalog, err := client.FetchCatalog(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("Client.FetchCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var fetchErr *FetchError
				if !errors.As(err, &fetchErr) {
					t.Fatalf("expected *FetchError, got %T", err)
				}
				if fetchErr.StatusCode != tt.wantStatus {
					t.Errorf("got status %d, want %d", fetchErr.StatusCode, tt.wantStatus)
				}
				return
			}

			if len(catalog.Animations) != len(tt.wantIDs) {
				t.Fatalf("got %d animations, want %d", len(catalog.Animations), len(tt.wantIDs))
			}
			for i, a := range catalog.Animations {
				if a.ID != tt.wantIDs[i] {
					t.Errorf("animation[%d].ID = %s, want %s", i, a.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestClient_FetchCatalog_OptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"animations":[{"id":"a1","name":"Spinner","url":"https://x/a1.json"},{"id":"a2","name":"Heart","url":"https://x/a2.json","description":"Beating heart","size":1024,"duration":3000}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	catalog, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := catalog.Animations[0]
	if first.Description != nil || first.SizeBytes != nil || first.DurationMs != nil {
		t.Errorf("expected optional fields to be absent, got %+v", first)
	}
	if first.URL != "https://x/a1.json" || first.Name != "Spinner" {
		t.Errorf("unexpected descriptor %+v", first)
	}

	second := catalog.Animations[1]
	if second.DescriptionOr("") != "Beating heart" {
		t.Errorf("got description %q", second.DescriptionOr(""))
	}
	if second.SizeBytes == nil || *second.SizeBytes != 1024 {
		t.Errorf("expected size 1024, got %v", second.SizeBytes)
	}
	if second.DurationMs == nil || *second.DurationMs != 3000 {
		t.Errorf("expected duration 3000, got %v", second.DurationMs)
	}
}

func TestClient_FetchPayload(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		wantErr        bool
		wantBody       string
	}{
		{
			name: "successful download",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/a1.json" {
					t.Errorf("expected path /a1.json, got %s", r.URL.Path)
				}
				w.Write([]byte(`{"v":"5.7.4","layers":[]}`))
			},
			wantBody: `{"v":"5.7.4","layers":[]}`,
		},
		{
			name: "body is returned verbatim even when not json",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json at all"))
			},
			wantBody: "not json at all",
		},
		{
			name: "not found",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewClient("http://unused", 5*time.Second)

			body, err := client.FetchPayload(context.Background(), server.URL+"/a1.json")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Client.FetchPayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && body != tt.wantBody {
				t.Errorf("got body %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestClient_FetchPayload_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)

	_, err := client.FetchPayload(context.Background(), server.URL+"/slow.json")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}

func TestClient_FetchCatalog_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"animations":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 0)
	_, err := client.FetchCatalog(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
