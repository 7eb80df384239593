package sources

import (
	"context"
	"strings"

	"github.com/dshills/cmdcon/internal/console/complete"
)

// BufferInfo describes one open buffer as reported by the host.
type BufferInfo struct {
	Name     string
	Modified bool
}

// BufferLister is the host callback that enumerates open buffers.
type BufferLister func() []BufferInfo

// BufferSource completes buffer names from the host's live buffer list.
type BufferSource struct {
	list BufferLister
}

// NewBufferSource creates a source over a host buffer lister.
func NewBufferSource(list BufferLister) *BufferSource {
	return &BufferSource{list: list}
}

// Name identifies the source in logs and items.
func (s *BufferSource) Name() string { return "buffers" }

// Query returns buffer names containing the query. Modified buffers are
// flagged in the description.
func (s *BufferSource) Query(_ context.Context, _ complete.Intent, query string) ([]complete.Item, error) {
	query = strings.ToLower(query)
	var items []complete.Item
	for _, info := range s.list() {
		if query != "" && !strings.Contains(strings.ToLower(info.Name), query) {
			continue
		}
		desc := ""
		if info.Modified {
			desc = "modified"
		}
		items = append(items, complete.Item{
			Text:        info.Name,
			Kind:        complete.KindBuffer,
			Description: desc,
			Priority:    80,
			Source:      s.Name(),
		})
	}
	return items, nil
}
