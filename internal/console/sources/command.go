// Package sources provides ready-made completion source providers a
// host can register: built-in command names, history entries, buffer
// lists, and file paths. Hosts with richer providers (symbols, VCS
// status) plug in their own.
package sources

import (
	"context"
	"strings"

	"github.com/dshills/cmdcon/internal/console/complete"
)

// CommandSpec describes one completable command name.
type CommandSpec struct {
	Name        string
	Description string
	Priority    int
}

// BuiltinCommands covers the command names the dispatcher understands
// plus the common editing commands a host is expected to implement.
func BuiltinCommands() []CommandSpec {
	return []CommandSpec{
		{Name: "edit", Description: "edit a file", Priority: 100},
		{Name: "write", Description: "write the buffer", Priority: 100},
		{Name: "quit", Description: "close the window", Priority: 100},
		{Name: "wq", Description: "write then close", Priority: 90},
		{Name: "qall", Description: "close all windows", Priority: 80},
		{Name: "exit", Description: "write if modified, then close", Priority: 80},
		{Name: "set", Description: "set an option", Priority: 90},
		{Name: "buffer", Description: "switch buffer", Priority: 90},
		{Name: "bnext", Description: "next buffer", Priority: 80},
		{Name: "bprev", Description: "previous buffer", Priority: 80},
		{Name: "split", Description: "horizontal split", Priority: 80},
		{Name: "vsplit", Description: "vertical split", Priority: 80},
		{Name: "tabedit", Description: "edit in a new tab", Priority: 70},
		{Name: "help", Description: "open help", Priority: 70},
		{Name: "substitute", Description: "search and replace", Priority: 70},
		{Name: "sort", Description: "sort lines", Priority: 60},
		{Name: "read", Description: "insert file contents", Priority: 60},
		{Name: "tag", Description: "jump to tag", Priority: 60},
	}
}

// CommandSource completes command names from a fixed table.
type CommandSource struct {
	specs []CommandSpec
}

// NewCommandSource creates a source over the given commands; nil means
// the builtin table.
func NewCommandSource(specs []CommandSpec) *CommandSource {
	if specs == nil {
		specs = BuiltinCommands()
	}
	return &CommandSource{specs: specs}
}

// Name identifies the source in logs and items.
func (s *CommandSource) Name() string { return "commands" }

// Query returns command candidates containing the query. An empty query
// returns the whole table.
func (s *CommandSource) Query(_ context.Context, _ complete.Intent, query string) ([]complete.Item, error) {
	query = strings.ToLower(query)
	var items []complete.Item
	for _, spec := range s.specs {
		if query != "" && !strings.Contains(strings.ToLower(spec.Name), query) {
			continue
		}
		items = append(items, complete.Item{
			Text:        spec.Name,
			Kind:        complete.KindCommand,
			Description: spec.Description,
			Priority:    spec.Priority,
			Source:      s.Name(),
		})
	}
	return items, nil
}
