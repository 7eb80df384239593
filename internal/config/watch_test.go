package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.toml")
	if err := os.WriteFile(path, []byte("[completion]\ndebounce_ms = 60\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := make(chan Config, 1)
	w, err := Watch(path, func(c Config) {
		select {
		case got <- c:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[completion]\ndebounce_ms = 90\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.Completion.DebounceMS != 90 {
			t.Errorf("DebounceMS = %d, want 90", cfg.Completion.DebounceMS)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload before deadline")
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.toml")
	if err := os.WriteFile(path, []byte("[completion]\ndebounce_ms = 60\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := make(chan Config, 4)
	w, err := Watch(path, func(c Config) { got <- c }, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Invalid intermediate state must not reach the callback.
	if err := os.WriteFile(path, []byte("[completion]\nmax_items = 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	select {
	case cfg := <-got:
		t.Fatalf("unexpected reload with %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("[completion]\nmax_items = 10\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	select {
	case cfg := <-got:
		if cfg.Completion.MaxItems != 10 {
			t.Errorf("MaxItems = %d, want 10", cfg.Completion.MaxItems)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after valid write")
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := Watch(path, func(Config) {}, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
