package cache

import (
	"fmt"
	"testing"
	"time"
)

func newTestStore(now time.Time) (*Store, *time.Time) {
	s := NewStore()
	current := now
	s.now = func() time.Time { return current }
	return s, &current
}

func TestJitterSpreadsExpiries(t *testing.T) {
	s := NewStore()
	const ttl = 10 * time.Minute
	const n = 50

	start := time.Now()
	s.now = func() time.Time { return start }

	expiries := make(map[time.Time]bool)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("k%d", i)
		s.Set(key, i, ttl)

		exp, ok := s.expiresAt(key)
		if !ok {
			t.Fatalf("entry %s missing", key)
		}
		delta := exp.Sub(start)
		lo := time.Duration(float64(ttl) * 0.9)
		hi := time.Duration(float64(ttl) * 1.1)
		if delta < lo || delta > hi {
			t.Fatalf("expiry %v outside [%v, %v]", delta, lo, hi)
		}
		expiries[exp] = true
	}

	// With independent draws per write, 50 identical expiries would mean
	// the jitter is not being applied.
	if len(expiries) < 2 {
		t.Fatalf("expected jittered expiries to differ, got %d distinct values", len(expiries))
	}
}

func TestTTLBoundary(t *testing.T) {
	s, now := newTestStore(time.Unix(1000, 0))
	s.jitter = 0 // exact expiry for the boundary check

	const ttl = time.Minute
	s.Set("k", "v", ttl)

	*now = now.Add(ttl - time.Millisecond)
	if v, ok := s.Get("k"); !ok || v != "v" {
		t.Fatalf("value should be live just before expiry, got %v ok=%v", v, ok)
	}

	*now = now.Add(2 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatalf("value should be absent past expiry")
	}

	// Lazy eviction: the expired read removed the entry.
	if s.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, len=%d", s.Len())
	}
}

func TestNoTTLNeverExpires(t *testing.T) {
	s, now := newTestStore(time.Unix(1000, 0))
	s.Set("pointer", "org1", 0)

	*now = now.Add(365 * 24 * time.Hour)
	if v, ok := s.Get("pointer"); !ok || v != "org1" {
		t.Fatalf("no-TTL entry should survive, got %v ok=%v", v, ok)
	}

	s.Clear("pointer")
	if _, ok := s.Get("pointer"); ok {
		t.Fatalf("cleared entry should be gone")
	}
}

func TestClearPrefix(t *testing.T) {
	s := NewStore()
	s.Set("workspaces:org1:p1", 1, time.Hour)
	s.Set("workspaces:org1:p2", 2, time.Hour)
	s.Set("workspaces:org2:p1", 3, time.Hour)
	s.Set("projects:org1", 4, time.Hour)

	s.ClearPrefix("workspaces:org1:")

	if _, ok := s.Get("workspaces:org1:p1"); ok {
		t.Fatalf("prefix entry should be cleared")
	}
	if _, ok := s.Get("workspaces:org1:p2"); ok {
		t.Fatalf("prefix entry should be cleared")
	}
	if _, ok := s.Get("workspaces:org2:p1"); !ok {
		t.Fatalf("other org's entry should survive")
	}
	if _, ok := s.Get("projects:org1"); !ok {
		t.Fatalf("unrelated prefix should survive")
	}
}

func TestClearAll(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, time.Hour)
	s.Set("b", 2, 0)
	s.ClearAll()
	if s.Len() != 0 {
		t.Fatalf("expected empty store, len=%d", s.Len())
	}
}

func TestOverwriteReplacesValueAndExpiry(t *testing.T) {
	s, now := newTestStore(time.Unix(1000, 0))
	s.jitter = 0

	s.Set("k", "old", time.Minute)
	*now = now.Add(50 * time.Second)
	s.Set("k", "new", time.Minute)

	*now = now.Add(30 * time.Second) // 80s after first write, 30s after second
	v, ok := s.Get("k")
	if !ok || v != "new" {
		t.Fatalf("overwrite should reset expiry, got %v ok=%v", v, ok)
	}
}
