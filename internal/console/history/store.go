// Package history provides mode-scoped storage of finalized console input.
//
// The console appends to and reads from a Store but does not own
// persistence; hosts may supply their own implementation or use one of
// the two provided here.
package history

import "sync"

// Family identifies a history namespace. The command mode keeps its own
// log, the two search directions share one, and expressions keep a third.
type Family string

// History families.
const (
	FamilyCommand    Family = "command"
	FamilySearch     Family = "search"
	FamilyExpression Family = "expression"
)

// Store is the history contract consumed by the console.
// List returns entries newest-first.
type Store interface {
	Append(family Family, text string) error
	List(family Family) ([]string, error)
}

// MemoryStore is an in-process Store with bounded capacity per family.
// It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[Family][]string // newest first
	maxItems int
}

// NewMemoryStore creates a memory store keeping at most maxItems entries
// per family.
func NewMemoryStore(maxItems int) *MemoryStore {
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &MemoryStore{
		entries:  make(map[Family][]string),
		maxItems: maxItems,
	}
}

// Append records text in the given family. Empty text is never recorded,
// and an append identical to the newest entry is skipped.
func (s *MemoryStore) Append(family Family, text string) error {
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.entries[family]
	if len(items) > 0 && items[0] == text {
		return nil
	}

	items = append([]string{text}, items...)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	s.entries[family] = items
	return nil
}

// List returns the family's entries, newest first.
func (s *MemoryStore) List(family Family) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.entries[family]
	result := make([]string, len(items))
	copy(result, items)
	return result, nil
}

// Len returns the number of entries in a family.
func (s *MemoryStore) Len(family Family) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[family])
}

// Clear removes all entries in a family.
func (s *MemoryStore) Clear(family Family) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, family)
}
