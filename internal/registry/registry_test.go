package registry

import "testing"

func TestRecordAndLookup(t *testing.T) {
	r := New()
	r.Record("alice@example.com", "h1")

	if got, ok := r.Identity("h1"); !ok || got != "alice@example.com" {
		t.Fatalf("Identity(h1) = %q, %v; want alice@example.com, true", got, ok)
	}
	if got, ok := r.Handle("alice@example.com"); !ok || got != "h1" {
		t.Fatalf("Handle(alice) = %q, %v; want h1, true", got, ok)
	}
}

func TestRecordLastWriteWins(t *testing.T) {
	r := New()
	r.Record("alice", "h1")
	r.Record("alice", "h2")

	if got, _ := r.Handle("alice"); got != "h2" {
		t.Fatalf("Handle(alice) = %q, want h2", got)
	}
	// The stale reverse entry for h1 still resolves until h1 disconnects.
	if got, ok := r.Identity("h1"); !ok || got != "alice" {
		t.Fatalf("Identity(h1) = %q, %v; want alice, true", got, ok)
	}
}

func TestForgetScopedToExactHandle(t *testing.T) {
	r := New()
	r.Record("alice", "h1")
	r.Record("alice", "h2") // rejoin from a new connection

	// Forgetting the older handle must not erase the newer mapping.
	if identity, ok := r.Forget("h1"); !ok || identity != "alice" {
		t.Fatalf("Forget(h1) = %q, %v; want alice, true", identity, ok)
	}
	if got, ok := r.Handle("alice"); !ok || got != "h2" {
		t.Fatalf("Handle(alice) after Forget(h1) = %q, %v; want h2, true", got, ok)
	}

	// Forgetting the current handle clears the forward entry too.
	if _, ok := r.Forget("h2"); !ok {
		t.Fatal("Forget(h2) reported no binding")
	}
	if _, ok := r.Handle("alice"); ok {
		t.Fatal("Handle(alice) still resolves after both handles forgotten")
	}
}

func TestForgetUnknownHandle(t *testing.T) {
	r := New()
	if identity, ok := r.Forget("nope"); ok || identity != "" {
		t.Fatalf("Forget(nope) = %q, %v; want \"\", false", identity, ok)
	}
}

func TestRecordRebindsHandleToNewIdentity(t *testing.T) {
	r := New()
	r.Record("alice", "h1")
	r.Record("bob", "h1") // same connection joins again under a new name

	if got, _ := r.Identity("h1"); got != "bob" {
		t.Fatalf("Identity(h1) = %q, want bob", got)
	}
	if _, ok := r.Handle("alice"); ok {
		t.Fatal("Handle(alice) still resolves after h1 rebound to bob")
	}

	// The reverse map holds exactly one live binding.
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestReverseMapNeverOutlivesForget(t *testing.T) {
	r := New()
	handles := []string{"h1", "h2", "h3"}
	for _, h := range handles {
		r.Record("shared-identity", h)
	}
	for _, h := range handles {
		r.Forget(h)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after forgetting all handles, want 0", r.Len())
	}
}
