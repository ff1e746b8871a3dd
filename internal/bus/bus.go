// Package bus abstracts the pub/sub transport behind a tagged event
// stream. Connect/disconnect and message arrival all surface as Events on
// a single channel, so one consumer loop processes them strictly in order
// and no handler ever runs concurrently with another.
package bus

import "context"

// EventKind tags an Event.
type EventKind int

const (
	// Connected fires on every successful (re)connect. Subscriptions do
	// not survive a reconnect; the consumer re-subscribes on each one.
	Connected EventKind = iota

	// Message carries one inbound payload with its topic.
	Message

	// Disconnected fires when the connection drops. The adapter keeps
	// reconnecting; a later Connected event follows on success.
	Disconnected
)

// Event is one item of the bus event stream.
type Event struct {
	Kind    EventKind
	Topic   string
	Payload []byte
	Err     error // set on Disconnected when the loss had a cause
}

// Bus is the transport contract: topic routing, at-least-once delivery on
// content topics, and retained publishes for presence.
type Bus interface {
	// Connect establishes the connection. The initial Connected event is
	// delivered through Events like every later reconnect.
	Connect(ctx context.Context) error

	// Subscribe registers interest in the given topics.
	Subscribe(topics ...string) error

	// Publish sends one payload. Retained publishes replace the broker's
	// stored copy so late subscribers see current state immediately.
	Publish(topic string, payload []byte, retain bool) error

	// Events returns the event stream. Closed after Close.
	Events() <-chan Event

	// Close tears the connection down without any farewell publish;
	// callers announce offline first.
	Close()
}
