package cache

import (
	"testing"
	"time"
)

func TestEmptyCacheMisses(t *testing.T) {
	c := New[string](10 * time.Minute)
	if _, _, ok := c.Get(); ok {
		t.Fatal("empty cache should miss")
	}
}

func TestGetWithinTTL(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New[string](10 * time.Minute)
	c.now = func() time.Time { return now }

	c.Put("payload")

	now = now.Add(9 * time.Minute)
	v, age, ok := c.Get()
	if !ok {
		t.Fatal("entry within TTL should hit")
	}
	if v != "payload" {
		t.Fatalf("got %q", v)
	}
	if age != 9*time.Minute {
		t.Fatalf("age = %v, want 9m", age)
	}
}

func TestExpiredEntryIsAbsent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New[string](10 * time.Minute)
	c.now = func() time.Time { return now }

	c.Put("payload")

	// Exactly at the TTL boundary the entry is already invalid.
	now = now.Add(10 * time.Minute)
	if _, _, ok := c.Get(); ok {
		t.Fatal("entry at TTL should be treated as absent")
	}
}

func TestPutOverwritesAndResetsAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New[string](10 * time.Minute)
	c.now = func() time.Time { return now }

	c.Put("stale")
	now = now.Add(15 * time.Minute)
	c.Put("fresh")

	v, age, ok := c.Get()
	if !ok || v != "fresh" {
		t.Fatalf("got %q ok=%v, want fresh hit", v, ok)
	}
	if age != 0 {
		t.Fatalf("age after overwrite = %v, want 0", age)
	}
}
