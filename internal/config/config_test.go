package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.toml", `
[completion]
debounce_ms = 80
max_items = 20
fuzzy = false

[undo]
capacity = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Completion.DebounceMS != 80 {
		t.Errorf("DebounceMS = %d, want 80", cfg.Completion.DebounceMS)
	}
	if cfg.Completion.MaxItems != 20 {
		t.Errorf("MaxItems = %d, want 20", cfg.Completion.MaxItems)
	}
	if cfg.Completion.Fuzzy {
		t.Error("Fuzzy = true, want false")
	}
	if cfg.Undo.Capacity != 10 {
		t.Errorf("Undo.Capacity = %d, want 10", cfg.Undo.Capacity)
	}
	// Untouched sections keep defaults.
	if cfg.History.MaxEntries != Default().History.MaxEntries {
		t.Errorf("History.MaxEntries = %d, want default", cfg.History.MaxEntries)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.yaml", `
completion:
  debounce_ms: 40
history:
  path: /tmp/hist.db
  max_entries: 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Completion.DebounceMS != 40 {
		t.Errorf("DebounceMS = %d, want 40", cfg.Completion.DebounceMS)
	}
	if cfg.History.Path != "/tmp/hist.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if cfg.History.MaxEntries != 500 {
		t.Errorf("History.MaxEntries = %d, want 500", cfg.History.MaxEntries)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.json", `{}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadInvalidValuesRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.toml", `
[completion]
max_items = 0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for max_items = 0")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CMDCON_COMPLETION_DEBOUNCE_MS", "15")
	t.Setenv("CMDCON_COMPLETION_FUZZY", "false")
	t.Setenv("CMDCON_HISTORY_PATH", "/var/hist.db")
	t.Setenv("CMDCON_UNDO_CAPACITY", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Completion.DebounceMS != 15 {
		t.Errorf("DebounceMS = %d, want 15", cfg.Completion.DebounceMS)
	}
	if cfg.Completion.Fuzzy {
		t.Error("Fuzzy = true, want false")
	}
	if cfg.History.Path != "/var/hist.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if cfg.Undo.Capacity != Default().Undo.Capacity {
		t.Errorf("Undo.Capacity = %d, want default for unparseable override", cfg.Undo.Capacity)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "console.toml", `
[completion]
debounce_ms = 80
`)
	t.Setenv("CMDCON_COMPLETION_DEBOUNCE_MS", "25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Completion.DebounceMS != 25 {
		t.Errorf("DebounceMS = %d, want env override 25", cfg.Completion.DebounceMS)
	}
}

func TestCompleteConfigTranslation(t *testing.T) {
	cfg := Default()
	cc := cfg.CompleteConfig()
	if cc.Debounce != 60*time.Millisecond {
		t.Errorf("Debounce = %v, want 60ms", cc.Debounce)
	}
	if cc.SourceTimeout != 2*time.Second {
		t.Errorf("SourceTimeout = %v, want 2s", cc.SourceTimeout)
	}
	if !cc.FuzzyEnabled {
		t.Error("FuzzyEnabled = false, want true")
	}
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative debounce", func(c *Config) { c.Completion.DebounceMS = -1 }, false},
		{"zero timeout", func(c *Config) { c.Completion.SourceTimeoutMS = 0 }, false},
		{"zero undo capacity", func(c *Config) { c.Undo.Capacity = 0 }, false},
		{"zero history entries", func(c *Config) { c.History.MaxEntries = 0 }, false},
		{"zero expression timeout", func(c *Config) { c.Expression.TimeoutMS = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
