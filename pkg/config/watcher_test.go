package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeConfigFile(t, `
session:
  default_persona: "before"
`)

	watcher, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	go func() {
		_ = watcher.Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	updated := `
session:
  default_persona: "after"
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Session.DefaultPersona != "after" {
			t.Errorf("expected reloaded persona 'after', got %q", cfg.Session.DefaultPersona)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_KeepsPreviousConfigOnInvalidReload(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	watcher, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan struct{}, 4)
	go func() {
		_ = watcher.Watch(ctx, func(cfg *Config) {
			reloads <- struct{}{}
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// An invalid config must not invoke the callback.
	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: loud\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-reloads:
		t.Fatal("callback must not run for an invalid config")
	case <-time.After(500 * time.Millisecond):
	}

	// A subsequent valid write recovers.
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("expected reload after valid rewrite")
	}
}

func TestWatcher_RejectsDoubleWatch(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	watcher, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		_ = watcher.Watch(ctx, func(*Config) {})
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	if err := watcher.Watch(ctx, func(*Config) {}); err == nil {
		t.Error("expected second Watch call to fail")
	}
}
