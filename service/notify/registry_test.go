package notify

import (
	"testing"
)

func newTestClient(connID, userID string) *Client {
	return NewClient(connID, userID, nil, 16)
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()

	first := newTestClient("c1", "alice")
	second := newTestClient("c2", "alice")

	r.Register(first)
	if !r.IsConnected("alice") {
		t.Fatalf("alice should be connected after register")
	}
	r.Register(second)

	if got := r.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1 (distinct users, not sockets)", got)
	}
	cur, ok := r.Get("alice")
	if !ok || cur.ConnID != "c2" {
		t.Fatalf("registry should point at the newest connection, got %+v", cur)
	}
}

func TestRegistryUnregisterGuard(t *testing.T) {
	r := NewRegistry()

	first := newTestClient("c1", "alice")
	second := newTestClient("c2", "alice")
	r.Register(first)
	r.Register(second)

	// the stale connection disconnecting must not evict the newer one
	r.Unregister("alice", "c1")
	if !r.IsConnected("alice") {
		t.Fatalf("stale unregister evicted the current connection")
	}

	r.Unregister("alice", "c2")
	if r.IsConnected("alice") {
		t.Fatalf("alice should be gone after her current connection unregisters")
	}

	// idempotent: absent user is a no-op
	r.Unregister("alice", "c2")
	r.Unregister("nobody", "cX")
	if got := r.Count(); got != 0 {
		t.Fatalf("Count() = %d, want 0", got)
	}
}

func TestRegistryCountDistinctUsers(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestClient("c1", "alice"))
	r.Register(newTestClient("c2", "bob"))
	r.Register(newTestClient("c3", "bob"))

	if got := r.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	if len(r.All()) != 2 {
		t.Fatalf("All() should list one connection per user")
	}
}
