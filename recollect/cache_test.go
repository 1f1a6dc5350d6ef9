package recollect

import (
	"testing"
	"time"

	"bostoninfo/normalization"
)

func testCandidates() []normalization.AddressCandidate {
	return []normalization.AddressCandidate{{"name": "30 Beach St, Boston 02111"}}
}

func TestCache_GetSet(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Hour})
	defer cache.Close()

	cache.Set("30 beach st", testCandidates())

	cached, found := cache.Get("30 beach st")
	if !found {
		t.Fatal("Cache entry not found")
	}
	if len(cached) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(cached))
	}
}

func TestCache_Expiration(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: 50 * time.Millisecond})
	defer cache.Close()

	cache.Set("key", testCandidates())
	if _, found := cache.Get("key"); !found {
		t.Fatal("Cache entry should be found immediately")
	}

	time.Sleep(80 * time.Millisecond)

	if _, found := cache.Get("key"); found {
		t.Error("Cache entry should be expired")
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: false, TTL: time.Hour})

	cache.Set("key", testCandidates())
	if _, found := cache.Get("key"); found {
		t.Error("Disabled cache must not return entries")
	}
	if stats := cache.GetStats(); stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestCache_MaxSizeEvictsLeastUsed(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Hour, MaxSize: 2})
	defer cache.Close()

	cache.Set("a", testCandidates())
	cache.Set("b", testCandidates())
	cache.Get("a")
	cache.Set("c", testCandidates())

	if _, found := cache.Get("b"); found {
		t.Error("least used entry should be evicted")
	}
	if _, found := cache.Get("a"); !found {
		t.Error("frequently used entry should stay")
	}
	if stats := cache.GetStats(); stats.Size != 2 {
		t.Errorf("expected size 2, got %d", stats.Size)
	}
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Hour})
	cache.Set("key", testCandidates())
	cache.Clear()

	if stats := cache.GetStats(); stats.Size != 0 || stats.Hits != 0 {
		t.Errorf("cache should be empty after Clear, got %+v", stats)
	}
}
