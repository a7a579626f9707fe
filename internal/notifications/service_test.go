package notifications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repocast/internal/config"
)

func TestNewServiceNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyGenerationReady(context.Background(), "foo/bar", "english", 90); err != nil {
		t.Errorf("noop must not error: %v", err)
	}
}

func TestNotifyGenerationReady(t *testing.T) {
	var gotTitle, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)

	if err := svc.NotifyGenerationReady(context.Background(), "foo/bar", "english", 150); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if !strings.Contains(gotTitle, "Episode Ready") {
		t.Errorf("title = %q", gotTitle)
	}
	for _, want := range []string{"foo/bar", "english", "2m 30s"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body %q missing %q", gotBody, want)
		}
	}
}

func TestNotifyGenerationFailed(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)

	if err := svc.NotifyGenerationFailed(context.Background(), "foo/bar", errors.New("gateway returned 502")); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if !strings.Contains(gotBody, "foo/bar") || !strings.Contains(gotBody, "gateway returned 502") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestEventTogglesSuppressSends(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Ready = false
	cfg.Notifications.Errors = false
	svc := NewService(&cfg)

	_ = svc.NotifyGenerationReady(context.Background(), "foo/bar", "english", 1)
	_ = svc.NotifyGenerationFailed(context.Background(), "foo/bar", errors.New("x"))
	if called {
		t.Error("disabled events must not reach ntfy")
	}
}

func TestSendSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unknown", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx ntfy response")
	}
}
