// Package presence tracks the local belief about the peer's online state.
// It is silent bookkeeping: transitions never emit user-visible output.
package presence

import (
	"strings"
	"sync"
	"time"

	"github.com/momoliu/printportal/internal/wire"
)

// Status is the tracked peer state.
type Status int

const (
	StatusUnknown Status = iota
	StatusOnline
	StatusOffline
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Tracker holds the presence state for a single peer. The dispatch loop is
// the only writer; reads may come from anywhere.
type Tracker struct {
	mu       sync.Mutex
	peer     string
	status   Status
	lastSeen time.Time
}

// NewTracker creates a tracker for the named peer, initially StatusUnknown.
func NewTracker(peer string) *Tracker {
	return &Tracker{peer: peer}
}

// Peer returns the tracked peer's identity.
func (t *Tracker) Peer() string { return t.peer }

// Apply feeds one presence payload into the tracker. "online" and "offline"
// transition the state; anything else is ignored without error. Repeated
// "online" payloads are idempotent: they refresh the last-seen time but
// change no observable state.
func (t *Tracker) Apply(payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch strings.TrimSpace(string(payload)) {
	case wire.PresenceOnline:
		t.status = StatusOnline
		t.lastSeen = time.Now()
	case wire.PresenceOffline:
		t.status = StatusOffline
	}
}

// Status returns the current tracked state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Online reports whether the peer is currently believed online.
func (t *Tracker) Online() bool {
	return t.Status() == StatusOnline
}

// LastSeen returns the time of the most recent "online" payload, zero if
// none has arrived yet.
func (t *Tracker) LastSeen() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

// MarkStaleBefore flips an online peer to offline when its last heartbeat
// predates the cutoff. Used by interactive clients to age out a silent
// peer; the print portal itself relies on payload transitions only.
func (t *Tracker) MarkStaleBefore(cutoff time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusOnline && t.lastSeen.Before(cutoff) {
		t.status = StatusOffline
	}
}
