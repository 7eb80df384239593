package complete

import (
	"container/list"
	"sync"
	"time"

	"github.com/dshills/cmdcon/internal/console/mode"
)

// cacheKey identifies a cached result set: the mode plus the exact
// session text at computation time. The key doubles as the staleness
// guard for in-flight requests.
type cacheKey struct {
	mode mode.Mode
	text string
}

// cacheEntry holds one cached result set with its insertion time.
type cacheEntry struct {
	key     cacheKey
	items   []Item
	created time.Time
}

// TTLCache is an LRU cache of completion result sets with entry expiry.
// It is safe for concurrent use.
type TTLCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[cacheKey]*list.Element
	lru     *list.List
	now     func() time.Time
}

// NewTTLCache creates a cache holding at most maxSize entries, each
// fresh for ttl. Non-positive arguments select defaults.
func NewTTLCache(maxSize int, ttl time.Duration) *TTLCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &TTLCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[cacheKey]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (c *TTLCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached items for (mode, text) if present and fresh.
// Expired entries are dropped on access.
func (c *TTLCache) Get(m mode.Mode, text string) ([]Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{m, text}
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.created) > c.ttl {
		c.removeElement(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	result := make([]Item, len(entry.items))
	copy(result, entry.items)
	return result, true
}

// Set stores items for (mode, text), evicting the least recently used
// entry when at capacity.
func (c *TTLCache) Set(m mode.Mode, text string, items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{m, text}
	stored := make([]Item, len(items))
	copy(stored, items)

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.items = stored
		entry.created = c.now()
		return
	}

	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, items: stored, created: c.now()})
	c.items[key] = elem
}

// InvalidateAll removes every entry.
func (c *TTLCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[cacheKey]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached entries, including any not yet
// expired lazily.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// removeElement drops an entry. Must be called with the lock held.
func (c *TTLCache) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	entry := elem.Value.(*cacheEntry)
	delete(c.items, entry.key)
}
