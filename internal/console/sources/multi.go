package sources

import (
	"context"
	"strings"

	"github.com/dshills/cmdcon/internal/console/complete"
)

// Multi concatenates the results of several sources. It backs the
// generic fallback, which mixes command names with history entries; the
// engine's ranking and dedup stages interleave the merged candidates.
type Multi struct {
	name    string
	sources []complete.Source
}

// NewMulti combines sources under one name.
func NewMulti(name string, srcs ...complete.Source) *Multi {
	return &Multi{name: name, sources: srcs}
}

// Name identifies the combined source.
func (m *Multi) Name() string { return m.name }

// Query queries each child in order; a failing child contributes
// nothing rather than failing the whole set.
func (m *Multi) Query(ctx context.Context, intent complete.Intent, query string) ([]complete.Item, error) {
	var items []complete.Item
	var errs []string
	for _, src := range m.sources {
		got, err := src.Query(ctx, intent, query)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		items = append(items, got...)
	}
	if len(items) == 0 && len(errs) > 0 {
		return nil, errNoSource(strings.Join(errs, "; "))
	}
	return items, nil
}

type errNoSource string

func (e errNoSource) Error() string { return "all sources failed: " + string(e) }
