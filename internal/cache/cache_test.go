package cache

import (
	"testing"
	"time"
)

// fakeClock steps time manually for expiry tests.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func newTestCache(clk *fakeClock) *Cache { return New(WithClock(clk.now)) }

func TestRoundTrip(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(clk)

	c.Set("malls", []string{"siam-paragon"}, MallListTTL)
	v, ok := c.Get("malls")
	if !ok {
		t.Fatal("expected a hit immediately after Set")
	}
	if got := v.([]string); len(got) != 1 || got[0] != "siam-paragon" {
		t.Errorf("got %v", got)
	}
}

func TestExpiry(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(clk)

	c.Set("malls", "v", 10*time.Minute)

	clk.advance(10 * time.Minute)
	if _, ok := c.Get("malls"); !ok {
		t.Error("entry at exact expiry instant should still be live")
	}

	clk.advance(time.Second)
	if _, ok := c.Get("malls"); ok {
		t.Error("entry past expiry should behave as absent")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be purged on lookup")
	}
}

func TestDelete(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(clk)

	c.Set("stores:m1", "v", StoreListTTL)
	c.Delete("stores:m1")
	if _, ok := c.Get("stores:m1"); ok {
		t.Error("deleted entry should be absent")
	}
	// Deleting a missing key is a no-op.
	c.Delete("stores:m1")
}

func TestClearByPrefix(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(clk)

	c.Set("stores:m1", "a", StoreListTTL)
	c.Set("stores:m2", "b", StoreListTTL)
	c.Set("stores:all", "c", AllStoresTTL)
	c.Set("malls", "d", MallListTTL)

	c.ClearByPrefix("stores:")

	for _, key := range []string{"stores:m1", "stores:m2", "stores:all"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("%s should have been cleared", key)
		}
	}
	if _, ok := c.Get("malls"); !ok {
		t.Error("malls entry should survive a stores: clear")
	}
}

func TestOverwriteRefreshesTTL(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(clk)

	c.Set("malls", "old", time.Minute)
	clk.advance(50 * time.Second)
	c.Set("malls", "new", time.Minute)
	clk.advance(30 * time.Second)

	v, ok := c.Get("malls")
	if !ok || v.(string) != "new" {
		t.Errorf("expected refreshed entry, got %v ok=%v", v, ok)
	}
}

func TestKeyHelpers(t *testing.T) {
	if KeyStores("m1") != "stores:m1" {
		t.Error("KeyStores mismatch")
	}
	if KeyFloors("m1") != "floors:m1" {
		t.Error("KeyFloors mismatch")
	}
}
