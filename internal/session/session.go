// Package session owns the bus connection lifecycle for one portal side:
// the subscription set, presence announcements and heartbeat, and routing
// of inbound messages by topic. One goroutine consumes the bus event
// stream, so message handling is strictly sequential; the heartbeat is the
// single background timer and only ever publishes.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/momoliu/printportal/internal/bus"
	"github.com/momoliu/printportal/internal/config"
	"github.com/momoliu/printportal/internal/presence"
	"github.com/momoliu/printportal/internal/printer"
	"github.com/momoliu/printportal/internal/util"
	"github.com/momoliu/printportal/internal/wire"
)

var log = logging.Logger("session")

// Session binds one local identity to one remote identity over the bus.
// All collaborators come in through New; there is no package state.
type Session struct {
	cfg      config.Config
	bus      bus.Bus
	tracker  *presence.Tracker
	pipeline *printer.Pipeline // nil = display-only, nothing is printed

	// Display is where received ASCII art is written. Defaults to stdout.
	Display io.Writer

	bannerPrinted bool
	hbStop        chan struct{}
	hbDone        chan struct{}
}

// New creates a session. pipeline may be nil to run without a printer.
func New(cfg config.Config, b bus.Bus, pipeline *printer.Pipeline) *Session {
	return &Session{
		cfg:      cfg,
		bus:      b,
		tracker:  presence.NewTracker(cfg.Peer.Name),
		pipeline: pipeline,
		Display:  os.Stdout,
	}
}

// Presence exposes the peer tracker for observation. Nothing in the
// session itself gates behavior on it.
func (s *Session) Presence() *presence.Tracker { return s.tracker }

// Run connects and processes bus events until ctx is cancelled. On the way
// out it announces retained "offline" and closes the connection. Per-
// message failures are contained: a bad payload or a failed print job logs
// a diagnostic and the loop moves on.
func (s *Session) Run(ctx context.Context) error {
	if err := s.bus.Connect(ctx); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer s.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-s.bus.Events():
			if !ok {
				return nil
			}
			switch evt.Kind {
			case bus.Connected:
				s.onConnected(ctx)
			case bus.Disconnected:
				log.Errorf("bus connection lost: %v", evt.Err)
			case bus.Message:
				s.dispatch(ctx, evt.Topic, evt.Payload)
			}
		}
	}
}

// onConnected runs on every (re)connect: subscriptions do not survive a
// reconnect, so the full set is registered again, and retained "online"
// refreshes whatever the broker had stored.
func (s *Session) onConnected(ctx context.Context) {
	me, peer := s.cfg.Identity.Name, s.cfg.Peer.Name

	topics := []string{
		wire.MessagesTopic(me),
		wire.ASCIITopic(me),
		wire.ImagesTopic(me),
		wire.PresenceTopic(peer),
	}
	if err := s.bus.Subscribe(topics...); err != nil {
		log.Errorf("subscribe: %v", err)
		return
	}
	for _, t := range topics {
		log.Infof("subscribed to %s", t)
	}

	if err := s.bus.Publish(wire.PresenceTopic(me), []byte(wire.PresenceOnline), true); err != nil {
		log.Errorf("announce online: %v", err)
	}

	if s.hbStop == nil {
		s.startHeartbeat(ctx)
	}

	if !s.bannerPrinted {
		s.bannerPrinted = true
		if s.pipeline != nil {
			if err := s.pipeline.PrintStartupBanner(ctx, me, peer, util.Now()); err != nil {
				log.Errorf("startup banner: %v", err)
			}
		}
		log.Infof("portal online: device=%s peer=%s", me, peer)
	}
}

// startHeartbeat begins the periodic retained "online" republish. It runs
// outside the event loop but never touches shared state: a single
// publish per tick, nothing more.
func (s *Session) startHeartbeat(ctx context.Context) {
	interval := time.Duration(s.cfg.Presence.HeartbeatSec) * time.Second
	topic := wire.PresenceTopic(s.cfg.Identity.Name)

	s.hbStop = make(chan struct{})
	s.hbDone = make(chan struct{})

	go func() {
		defer close(s.hbDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.hbStop:
				return
			case <-ticker.C:
				if err := s.bus.Publish(topic, []byte(wire.PresenceOnline), true); err != nil {
					log.Warnf("heartbeat: %v", err)
				}
			}
		}
	}()
}

// shutdown stops the heartbeat first so the retained "offline" is
// guaranteed to be the final word on our presence topic.
func (s *Session) shutdown() {
	if s.hbStop != nil {
		close(s.hbStop)
		<-s.hbDone
	}

	topic := wire.PresenceTopic(s.cfg.Identity.Name)
	if err := s.bus.Publish(topic, []byte(wire.PresenceOffline), true); err != nil {
		log.Errorf("announce offline: %v", err)
	}
	s.bus.Close()
	log.Infof("session closed")
}

// dispatch routes purely by topic identity. Unknown topics are ignored.
func (s *Session) dispatch(ctx context.Context, topic string, payload []byte) {
	me, peer := s.cfg.Identity.Name, s.cfg.Peer.Name

	switch topic {
	case wire.PresenceTopic(peer):
		// Silent bookkeeping only; presence never produces output.
		s.tracker.Apply(payload)
	case wire.MessagesTopic(me):
		s.handleText(ctx, payload)
	case wire.ASCIITopic(me):
		s.handleASCII(payload)
	case wire.ImagesTopic(me):
		s.handleImage(ctx, payload)
	default:
		log.Debugf("ignoring message on unexpected topic %q", topic)
	}
}

func (s *Session) handleText(ctx context.Context, payload []byte) {
	msg, err := wire.DecodeText(payload)
	if err != nil {
		log.Errorf("invalid text message: %v", err)
		return
	}
	if msg.Time == "" {
		msg.Time = util.Now()
	}

	log.Infof("message from %s: %s", msg.From, msg.Text)

	if s.pipeline == nil {
		return
	}
	block := printer.FormatTextBlock(msg.From, msg.Text, msg.Time)
	if err := s.pipeline.PrintText(ctx, block); err != nil {
		log.Errorf("%v", err)
	}
}

// handleASCII shows received art on the terminal. ASCII payloads are
// opaque display text and are never printed on paper.
func (s *Session) handleASCII(payload []byte) {
	log.Infof("ASCII art received (terminal display only)")
	fmt.Fprintln(s.Display, string(payload))
}

func (s *Session) handleImage(ctx context.Context, payload []byte) {
	msg, raw, err := wire.DecodeImage(payload)
	if err != nil {
		log.Errorf("invalid image envelope: %v", err)
		return
	}
	if msg.Time == "" {
		msg.Time = util.Now()
	}

	log.Infof("image from %s: %s (%d bytes)", msg.From, msg.Filename, len(raw))

	if s.pipeline == nil {
		return
	}
	// Image printing is best-effort: a bad photo or a rejected job is a
	// diagnostic, never a session failure.
	if err := s.pipeline.PrintImage(ctx, msg.From, msg.Time, raw); err != nil {
		log.Errorf("%v", err)
	}
}
