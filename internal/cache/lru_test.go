// internal/cache/lru_test.go
//
// Run: go test ./internal/cache -v

package cache

import "testing"

func TestLRU_EvictsOldest(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a") // a is now MRU
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %d, %v, want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestLRU_UpdateKeepsSingleSlot(t *testing.T) {
	c := New[string, string](4)
	c.Add("k", "old")
	c.Add("k", "new")

	if v, _ := c.Get("k"); v != "new" {
		t.Fatalf("k = %q, want new", v)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	c := New[int, int](4)
	c.Add(1, 1)
	c.Add(2, 2)

	if !c.Remove(1) {
		t.Fatalf("Remove(1) = false, want true")
	}
	if c.Remove(1) {
		t.Fatalf("second Remove(1) = true, want false")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("len after purge = %d, want 0", c.Len())
	}
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for capacity 0")
		}
	}()
	New[string, int](0)
}
