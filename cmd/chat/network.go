package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/momoliu/printportal/internal/bus"
	"github.com/momoliu/printportal/internal/camera"
	"github.com/momoliu/printportal/internal/capture"
	"github.com/momoliu/printportal/internal/config"
	"github.com/momoliu/printportal/internal/presence"
	"github.com/momoliu/printportal/internal/raster"
	"github.com/momoliu/printportal/internal/util"
	"github.com/momoliu/printportal/internal/wire"
)

// Messages delivered into the bubbletea update loop.
type (
	connectedMsg    struct{}
	disconnectedMsg struct{ err error }
	chatMsg         struct{ msg wire.TextMessage }
	asciiMsg        struct{ art string }
	presenceMsg     struct{ status presence.Status }
	diagMsg         struct{ text string }
	sentMsg         struct{ text, time string }
	snapshotMsg     struct {
		rows []string
		err  error
	}
	errMsg error
)

// Network owns the bus connection and presence tracker for the chat UI.
// The UI goroutine is the only consumer of bus events, so translation to
// tea messages preserves arrival order.
type Network struct {
	cfg     config.Config
	bus     bus.Bus
	tracker *presence.Tracker
	store   *capture.Store
}

func NewNetwork(cfg config.Config) *Network {
	return &Network{
		cfg:     cfg,
		bus:     bus.NewMQTT(cfg.Broker.URL, cfg.Identity.Name+"-chat"),
		tracker: presence.NewTracker(cfg.Peer.Name),
		store:   capture.NewStore(cfg.Capture.Dir),
	}
}

// Connect is a tea.Cmd factory: dials the broker in the background.
func (n *Network) Connect(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		if err := n.bus.Connect(ctx); err != nil {
			return errMsg(err)
		}
		return nil // the Connected bus event follows via WaitForEvent
	}
}

// WaitForEvent blocks on the next bus event and translates it.
func (n *Network) WaitForEvent() tea.Msg {
	evt, ok := <-n.bus.Events()
	if !ok {
		return errMsg(fmt.Errorf("bus closed"))
	}

	me, peer := n.cfg.Identity.Name, n.cfg.Peer.Name
	switch evt.Kind {
	case bus.Connected:
		if err := n.bus.Subscribe(
			wire.MessagesTopic(me),
			wire.ASCIITopic(me),
			wire.PresenceTopic(peer),
		); err != nil {
			return errMsg(err)
		}
		n.announce(wire.PresenceOnline)
		return connectedMsg{}

	case bus.Disconnected:
		return disconnectedMsg{err: evt.Err}

	case bus.Message:
		switch evt.Topic {
		case wire.PresenceTopic(peer):
			n.tracker.Apply(evt.Payload)
			return presenceMsg{status: n.tracker.Status()}
		case wire.ASCIITopic(me):
			return asciiMsg{art: string(evt.Payload)}
		case wire.MessagesTopic(me):
			msg, err := wire.DecodeText(evt.Payload)
			if err != nil {
				return diagMsg{text: fmt.Sprintf("invalid message: %v", err)}
			}
			if msg.Time == "" {
				msg.Time = util.Now()
			}
			return chatMsg{msg: msg}
		}
	}
	return diagMsg{text: ""}
}

// SendText publishes one chat message to the peer.
func (n *Network) SendText(text string) tea.Cmd {
	return func() tea.Msg {
		now := util.Now()
		payload, err := wire.EncodeText(n.cfg.Identity.Name, text, now)
		if err != nil {
			return errMsg(err)
		}
		if err := n.bus.Publish(wire.MessagesTopic(n.cfg.Peer.Name), payload, false); err != nil {
			return errMsg(err)
		}
		return sentMsg{text: text, time: now}
	}
}

// SendSnapshot captures a frame, converts it to ASCII art, archives it,
// and publishes it to the peer. The rows come back for local display.
func (n *Network) SendSnapshot(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		frame, err := camera.Default().Capture(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}

		rows := raster.ToASCII(frame, n.cfg.Capture.GridWidth, n.cfg.Capture.GridHeight, raster.DefaultRamp)
		payload := wire.FormatASCII(n.cfg.Identity.Name, util.Now(), rows)

		if _, err := n.store.SaveASCII(n.cfg.Identity.Name, payload); err != nil {
			// Archival is best-effort; the send still goes out.
			rows = append(rows, fmt.Sprintf("(archive failed: %v)", err))
		}
		if err := n.bus.Publish(wire.ASCIITopic(n.cfg.Peer.Name), []byte(payload), false); err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{rows: rows}
	}
}

// Heartbeat republishes retained "online" and ages out a silent peer.
func (n *Network) Heartbeat() {
	n.announce(wire.PresenceOnline)
	timeout := time.Duration(n.cfg.Presence.TimeoutSec) * time.Second
	n.tracker.MarkStaleBefore(time.Now().Add(-timeout))
}

// Goodbye announces retained "offline" and closes the connection. The
// offline publish must be the last word on our presence topic.
func (n *Network) Goodbye() {
	n.announce(wire.PresenceOffline)
	n.bus.Close()
}

func (n *Network) announce(status string) {
	topic := wire.PresenceTopic(n.cfg.Identity.Name)
	_ = n.bus.Publish(topic, []byte(status), true)
}

// Status returns the current presence belief for the status bar.
func (n *Network) Status() presence.Status {
	return n.tracker.Status()
}

// trimArt drops trailing blank lines from a received art payload.
func trimArt(art string) string {
	return string(bytes.TrimRight([]byte(art), "\n"))
}
