package linebuf

import "github.com/dshills/cmdcon/internal/console/history"

// HistoryDirection identifies a history navigation step.
type HistoryDirection uint8

// History navigation directions. Up moves toward the oldest entry, Down
// toward the newest and finally back to a blank line.
const (
	HistoryUp HistoryDirection = iota
	HistoryDown
)

// Navigator walks a mode family's history. Index 0 means "not browsing";
// 1..len addresses entries newest-first.
type Navigator struct {
	store  history.Store
	family history.Family

	index  int
	cached []string
	fresh  bool
}

// NewNavigator creates a navigator over the given store and family.
func NewNavigator(store history.Store, family history.Family) *Navigator {
	return &Navigator{store: store, family: family}
}

// Index returns the current browse position (0 = not browsing).
func (n *Navigator) Index() int {
	return n.index
}

// Append records text in the underlying store and invalidates the cached
// history view. Empty text is never recorded.
func (n *Navigator) Append(text string) error {
	if text == "" {
		return nil
	}
	n.fresh = false
	return n.store.Append(n.family, text)
}

// Navigate moves one step through history and returns the replacement
// line text. ok is false when the step has no effect (top of history, or
// Down while not browsing). Down to index 0 restores a blank line.
func (n *Navigator) Navigate(dir HistoryDirection) (text string, ok bool) {
	entries, err := n.entries()
	if err != nil || len(entries) == 0 {
		return "", false
	}

	switch dir {
	case HistoryUp:
		if n.index >= len(entries) {
			return "", false
		}
		n.index++
		return entries[n.index-1], true
	case HistoryDown:
		if n.index == 0 {
			return "", false
		}
		n.index--
		if n.index == 0 {
			return "", true
		}
		return entries[n.index-1], true
	default:
		return "", false
	}
}

// Reset leaves browse mode and drops the cached view.
func (n *Navigator) Reset() {
	n.index = 0
	n.fresh = false
}

// entries returns the cached newest-first history view, refreshing it
// from the store when stale.
func (n *Navigator) entries() ([]string, error) {
	if n.fresh {
		return n.cached, nil
	}
	entries, err := n.store.List(n.family)
	if err != nil {
		return nil, err
	}
	n.cached = entries
	n.fresh = true
	return entries, nil
}
