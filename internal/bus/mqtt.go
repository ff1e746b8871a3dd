package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("bus")

const (
	// QoS 1: at-least-once on everything we publish or subscribe to.
	qosAtLeastOnce byte = 1

	connectTimeout = 30 * time.Second
	publishTimeout = 10 * time.Second

	// quiesceMillis lets in-flight publishes (the farewell in particular)
	// drain before the network connection is torn down.
	quiesceMillis = 250
)

// MQTT adapts a paho client to the Bus contract. Connection callbacks are
// translated into Connected/Disconnected events, and every subscription
// handler feeds the same event channel, preserving arrival order for the
// single consumer.
type MQTT struct {
	client mqtt.Client
	events chan Event

	mu     sync.Mutex
	closed bool
}

// NewMQTT creates an adapter for the broker at url. clientID should be
// stable-ish per participant; a random suffix keeps two runs from kicking
// each other off the broker.
func NewMQTT(url, clientID string) *MQTT {
	b := &MQTT{
		events: make(chan Event, 256),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(fmt.Sprintf("%s-%.8s", clientID, uuid.NewString())).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			b.deliver(Event{Kind: Connected})
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warnf("connection lost: %v", err)
			b.deliver(Event{Kind: Disconnected, Err: err})
		})

	b.client = mqtt.NewClient(opts)
	return b
}

func (b *MQTT) Connect(ctx context.Context) error {
	token := b.client.Connect()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	case <-time.After(connectTimeout):
		return fmt.Errorf("connect to broker: timeout after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	return nil
}

func (b *MQTT) Subscribe(topics ...string) error {
	filters := make(map[string]byte, len(topics))
	for _, t := range topics {
		filters[t] = qosAtLeastOnce
	}

	token := b.client.SubscribeMultiple(filters, func(_ mqtt.Client, m mqtt.Message) {
		b.deliver(Event{Kind: Message, Topic: m.Topic(), Payload: m.Payload()})
	})
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("subscribe %v: timeout", topics)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %v: %w", topics, err)
	}
	return nil
}

func (b *MQTT) Publish(topic string, payload []byte, retain bool) error {
	token := b.client.Publish(topic, qosAtLeastOnce, retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (b *MQTT) Events() <-chan Event {
	return b.events
}

func (b *MQTT) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.client.Disconnect(quiesceMillis)
	close(b.events)
}

// deliver pushes an event unless the bus has been closed. Paho invokes
// handlers sequentially per connection, so ordering is preserved; the
// buffer decouples paho's router from a momentarily busy consumer. A full
// buffer means the consumer is wedged; drop with a diagnostic rather
// than stall the broker connection.
func (b *MQTT) deliver(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- evt:
	default:
		log.Warnf("event buffer full, dropping event on %q", evt.Topic)
	}
}
