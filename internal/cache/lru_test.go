package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[[]byte](2, time.Minute)
	c.Set("a", []byte("1"))
	got, ok := c.Get("a")
	if !ok || string(got) != "1" {
		t.Fatalf("expected hit, got %q %v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("unexpected hit")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a was used recently and should survive")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	c := NewLRU[int](10, time.Second).WithClock(clk.now)
	c.Set("a", 1)
	c.Set("b", 2)

	clk.advance(500 * time.Millisecond)
	c.Set("b", 3)
	clk.advance(600 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("b was refreshed, expected nothing to clean, got %d", n)
	}
	clk.advance(time.Second)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected one expired entry, got %d", n)
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[int](0, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if c.Size() != 0 {
		t.Fatalf("delete failed")
	}
	c.Set("b", 2)
	c.Purge()
	if _, ok := c.Get("b"); ok {
		t.Fatalf("purge failed")
	}
}

func TestManagerSweep(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	a := NewLRU[int](4, time.Second).WithClock(clk.now)
	b := NewLRU[string](4, time.Second).WithClock(clk.now)
	a.Set("x", 1)
	b.Set("y", "z")

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)
	clk.advance(2 * time.Second)
	if n := m.Sweep(); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}

	m.Start(time.Hour)
	m.Stop()
	m.Stop()
}
