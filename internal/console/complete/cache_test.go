package complete

import (
	"testing"
	"time"

	"github.com/dshills/cmdcon/internal/console/mode"
)

func TestCacheGetSet(t *testing.T) {
	c := NewTTLCache(10, time.Minute)

	if _, ok := c.Get(mode.Command, "edit"); ok {
		t.Fatal("Get() on empty cache = hit, want miss")
	}

	items := []Item{{Text: "edit foo.txt", Kind: KindFile}}
	c.Set(mode.Command, "edit", items)

	got, ok := c.Get(mode.Command, "edit")
	if !ok {
		t.Fatal("Get() after Set = miss, want hit")
	}
	if len(got) != 1 || got[0].Text != "edit foo.txt" {
		t.Errorf("Get() = %+v, want the stored items", got)
	}
}

func TestCacheKeyIncludesMode(t *testing.T) {
	c := NewTTLCache(10, time.Minute)
	c.Set(mode.Command, "foo", []Item{{Text: "a"}})

	if _, ok := c.Get(mode.SearchForward, "foo"); ok {
		t.Error("Get() with different mode = hit, want miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewTTLCache(10, 100*time.Millisecond)
	now := time.Unix(1000, 0)
	c.SetClock(func() time.Time { return now })

	c.Set(mode.Command, "foo", []Item{{Text: "a"}})
	if _, ok := c.Get(mode.Command, "foo"); !ok {
		t.Fatal("fresh entry missing")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get(mode.Command, "foo"); ok {
		t.Error("expired entry still returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry eviction, want 0", c.Len())
	}
}

func TestCacheEvictsLRU(t *testing.T) {
	c := NewTTLCache(2, time.Minute)
	c.Set(mode.Command, "a", nil)
	c.Set(mode.Command, "b", nil)

	// Touch "a" so "b" is the eviction candidate.
	c.Get(mode.Command, "a")
	c.Set(mode.Command, "c", nil)

	if _, ok := c.Get(mode.Command, "b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get(mode.Command, "a"); !ok {
		t.Error("recently used entry was evicted")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	c := NewTTLCache(10, time.Minute)
	c.Set(mode.Command, "a", nil)
	c.Set(mode.Command, "b", nil)

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after InvalidateAll, want 0", c.Len())
	}
}

func TestCacheReturnsCopy(t *testing.T) {
	c := NewTTLCache(10, time.Minute)
	c.Set(mode.Command, "a", []Item{{Text: "x"}})

	got, _ := c.Get(mode.Command, "a")
	got[0].Text = "mutated"

	again, _ := c.Get(mode.Command, "a")
	if again[0].Text != "x" {
		t.Error("cache entry was mutated through a returned slice")
	}
}
