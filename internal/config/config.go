// Package config loads console tunables from TOML or YAML files with
// environment overrides and optional live reload.
package config

import (
	"fmt"
	"time"

	"github.com/dshills/cmdcon/internal/console/complete"
)

// Config collects every tunable the console exposes. Durations are
// expressed in milliseconds so the file formats stay plain integers.
type Config struct {
	Completion CompletionConfig `toml:"completion" yaml:"completion"`
	Undo       UndoConfig       `toml:"undo" yaml:"undo"`
	History    HistoryConfig    `toml:"history" yaml:"history"`
	Expression ExpressionConfig `toml:"expression" yaml:"expression"`
}

// CompletionConfig tunes the completion pipeline.
type CompletionConfig struct {
	DebounceMS      int  `toml:"debounce_ms" yaml:"debounce_ms"`
	SourceTimeoutMS int  `toml:"source_timeout_ms" yaml:"source_timeout_ms"`
	MaxItems        int  `toml:"max_items" yaml:"max_items"`
	CacheSize       int  `toml:"cache_size" yaml:"cache_size"`
	CacheTTLMS      int  `toml:"cache_ttl_ms" yaml:"cache_ttl_ms"`
	Fuzzy           bool `toml:"fuzzy" yaml:"fuzzy"`
}

// UndoConfig tunes undo snapshots.
type UndoConfig struct {
	Capacity      int `toml:"capacity" yaml:"capacity"`
	GroupWindowMS int `toml:"group_window_ms" yaml:"group_window_ms"`
}

// HistoryConfig tunes history persistence. An empty Path selects the
// in-memory store.
type HistoryConfig struct {
	MaxEntries int    `toml:"max_entries" yaml:"max_entries"`
	Path       string `toml:"path" yaml:"path"`
}

// ExpressionConfig tunes the expression evaluator.
type ExpressionConfig struct {
	TimeoutMS int `toml:"timeout_ms" yaml:"timeout_ms"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Completion: CompletionConfig{
			DebounceMS:      60,
			SourceTimeoutMS: 2000,
			MaxItems:        50,
			CacheSize:       100,
			CacheTTLMS:      5000,
			Fuzzy:           true,
		},
		Undo: UndoConfig{
			Capacity:      50,
			GroupWindowMS: 300,
		},
		History: HistoryConfig{
			MaxEntries: 1000,
		},
		Expression: ExpressionConfig{
			TimeoutMS: 2000,
		},
	}
}

// Validate rejects values that would break the console.
func (c Config) Validate() error {
	if c.Completion.DebounceMS < 0 {
		return fmt.Errorf("completion.debounce_ms must not be negative, got %d", c.Completion.DebounceMS)
	}
	if c.Completion.SourceTimeoutMS <= 0 {
		return fmt.Errorf("completion.source_timeout_ms must be positive, got %d", c.Completion.SourceTimeoutMS)
	}
	if c.Completion.MaxItems <= 0 {
		return fmt.Errorf("completion.max_items must be positive, got %d", c.Completion.MaxItems)
	}
	if c.Undo.Capacity <= 0 {
		return fmt.Errorf("undo.capacity must be positive, got %d", c.Undo.Capacity)
	}
	if c.Undo.GroupWindowMS < 0 {
		return fmt.Errorf("undo.group_window_ms must not be negative, got %d", c.Undo.GroupWindowMS)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history.max_entries must be positive, got %d", c.History.MaxEntries)
	}
	if c.Expression.TimeoutMS <= 0 {
		return fmt.Errorf("expression.timeout_ms must be positive, got %d", c.Expression.TimeoutMS)
	}
	return nil
}

// CompleteConfig translates the file representation into the engine's
// runtime configuration.
func (c Config) CompleteConfig() complete.Config {
	return complete.Config{
		Debounce:      time.Duration(c.Completion.DebounceMS) * time.Millisecond,
		SourceTimeout: time.Duration(c.Completion.SourceTimeoutMS) * time.Millisecond,
		MaxItems:      c.Completion.MaxItems,
		CacheSize:     c.Completion.CacheSize,
		CacheTTL:      time.Duration(c.Completion.CacheTTLMS) * time.Millisecond,
		FuzzyEnabled:  c.Completion.Fuzzy,
	}
}

// UndoGroupWindow returns the undo coalescing window as a duration.
func (c Config) UndoGroupWindow() time.Duration {
	return time.Duration(c.Undo.GroupWindowMS) * time.Millisecond
}

// ExpressionTimeout returns the evaluation bound as a duration.
func (c Config) ExpressionTimeout() time.Duration {
	return time.Duration(c.Expression.TimeoutMS) * time.Millisecond
}
