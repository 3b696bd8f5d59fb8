package registry

import (
	"testing"
	"time"
)

func TestCreateSeatsHost(t *testing.T) {
	r := New()
	s := r.Create("alice")

	if len(s.Code()) != codeLength {
		t.Fatalf("code %q, want %d characters", s.Code(), codeLength)
	}
	for _, c := range s.Code() {
		if c < 'A' || c > 'Z' {
			t.Fatalf("code %q contains %q, want uppercase letters only", s.Code(), c)
		}
	}
	if s.HostName() != "alice" {
		t.Fatalf("host = %s, want alice", s.HostName())
	}
	if s.PlayerCount() != 1 {
		t.Fatalf("player count = %d, want the seated host", s.PlayerCount())
	}

	got, ok := r.Get(s.Code())
	if !ok || got != s {
		t.Fatalf("Get(%s) did not return the created session", s.Code())
	}
}

func TestCodesAreUnique(t *testing.T) {
	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := r.Create("host")
		if seen[s.Code()] {
			t.Fatalf("duplicate code %s", s.Code())
		}
		seen[s.Code()] = true
	}
	if r.Count() != 200 {
		t.Fatalf("count = %d, want 200", r.Count())
	}
}

func TestRemove(t *testing.T) {
	r := New()
	s := r.Create("alice")

	if !r.Remove(s.Code()) {
		t.Fatal("Remove returned false for a live session")
	}
	if _, ok := r.Get(s.Code()); ok {
		t.Fatal("session still resolvable after Remove")
	}
	if r.Remove(s.Code()) {
		t.Fatal("Remove returned true for an unknown code")
	}
}

func TestStale(t *testing.T) {
	r := New()

	active := r.Create("alice")
	ended := r.Create("bob")
	empty := r.Create("carol")

	ended.Lock()
	ended.EndGame()
	ended.Unlock()

	empty.Lock()
	if err := empty.RemovePlayer("carol"); err != nil {
		empty.Unlock()
		t.Fatalf("RemovePlayer: %v", err)
	}
	empty.Unlock()

	time.Sleep(2 * time.Millisecond)

	stale := r.Stale(time.Millisecond)
	want := map[string]bool{ended.Code(): true, empty.Code(): true}
	if len(stale) != 2 {
		t.Fatalf("stale = %v, want the ended and the abandoned session", stale)
	}
	for _, code := range stale {
		if !want[code] {
			t.Fatalf("unexpected stale code %s (active is %s)", code, active.Code())
		}
	}

	// A generous ttl keeps the empty session alive until the hard cap.
	stale = r.Stale(time.Hour)
	if len(stale) != 1 || stale[0] != ended.Code() {
		t.Fatalf("stale = %v, want only the ended session", stale)
	}
}
