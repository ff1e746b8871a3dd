package presence

import (
	"testing"
	"time"
)

func TestInitialStateUnknown(t *testing.T) {
	tr := NewTracker("peer")
	if tr.Status() != StatusUnknown {
		t.Fatalf("expected unknown, got %v", tr.Status())
	}
	if tr.Online() {
		t.Fatal("fresh tracker must not report online")
	}
}

func TestTransitions(t *testing.T) {
	tr := NewTracker("peer")

	tr.Apply([]byte("online"))
	if tr.Status() != StatusOnline {
		t.Fatalf("expected online, got %v", tr.Status())
	}

	tr.Apply([]byte("offline"))
	if tr.Status() != StatusOffline {
		t.Fatalf("expected offline, got %v", tr.Status())
	}

	tr.Apply([]byte("online\n"))
	if tr.Status() != StatusOnline {
		t.Fatal("payload whitespace must be tolerated")
	}
}

func TestOnlineIdempotent(t *testing.T) {
	tr := NewTracker("peer")
	for i := 0; i < 5; i++ {
		tr.Apply([]byte("online"))
		if tr.Status() != StatusOnline {
			t.Fatalf("apply %d: expected online, got %v", i, tr.Status())
		}
	}
}

func TestUnrecognizedPayloadIgnored(t *testing.T) {
	tr := NewTracker("peer")
	tr.Apply([]byte("online"))

	for _, junk := range []string{"", "ONLINE", "away", `{"status":"online"}`} {
		tr.Apply([]byte(junk))
		if tr.Status() != StatusOnline {
			t.Fatalf("payload %q must not transition, got %v", junk, tr.Status())
		}
	}
}

func TestMarkStaleBefore(t *testing.T) {
	tr := NewTracker("peer")
	tr.Apply([]byte("online"))

	// Last seen is now; a cutoff in the past keeps the peer online.
	tr.MarkStaleBefore(time.Now().Add(-time.Minute))
	if tr.Status() != StatusOnline {
		t.Fatal("fresh heartbeat must survive the sweep")
	}

	// A future cutoff ages it out.
	tr.MarkStaleBefore(time.Now().Add(time.Minute))
	if tr.Status() != StatusOffline {
		t.Fatal("stale peer must flip to offline")
	}

	// The sweep never resurrects.
	tr.MarkStaleBefore(time.Now().Add(-time.Minute))
	if tr.Status() != StatusOffline {
		t.Fatal("sweep must not flip offline back")
	}
}
