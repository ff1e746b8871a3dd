package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/momoliu/printportal/internal/presence"
	"github.com/momoliu/printportal/internal/util"
)

var (
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	selfStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

type tickMsg time.Time

type modelState struct {
	ctx       context.Context
	network   *Network
	viewport  viewport.Model
	textInput textinput.Model
	messages  []string
	status    presence.Status
	connected bool
	ready     bool
	err       error
}

func initialModel(ctx context.Context, net *Network) modelState {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (/p photo, /help, /exit)"
	ti.Focus()
	ti.CharLimit = 512

	return modelState{
		ctx:       ctx,
		network:   net,
		textInput: ti,
		messages:  []string{},
	}
}

func (m modelState) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.network.Connect(m.ctx),
		m.network.WaitForEvent,
		m.tick(),
	)
}

func (m modelState) tick() tea.Cmd {
	interval := time.Duration(m.network.cfg.Presence.HeartbeatSec) * time.Second
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m modelState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.textInput.Value() == "" {
				break
			}
			content := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			return m.handleInput(content)
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textInput.Width = msg.Width

	case connectedMsg:
		m.connected = true
		m.append(infoStyle.Render("connected to broker"))
		return m, m.network.WaitForEvent

	case disconnectedMsg:
		m.connected = false
		m.append(errorStyle.Render(fmt.Sprintf("connection lost: %v", msg.err)))
		return m, m.network.WaitForEvent

	case presenceMsg:
		m.status = msg.status
		return m, m.network.WaitForEvent

	case chatMsg:
		line := fmt.Sprintf("%s <- %s: %s",
			infoStyle.Render("["+msg.msg.Time+"]"), msg.msg.From, msg.msg.Text)
		m.append(line)
		return m, m.network.WaitForEvent

	case asciiMsg:
		m.append(infoStyle.Render(fmt.Sprintf("<- %s sent an ASCII image", m.network.cfg.Peer.Name)))
		m.append(trimArt(msg.art))
		return m, m.network.WaitForEvent

	case diagMsg:
		if msg.text != "" {
			m.append(errorStyle.Render("x " + msg.text))
		}
		return m, m.network.WaitForEvent

	case sentMsg:
		line := selfStyle.Render(fmt.Sprintf("[%s] -> you: %s", msg.time, msg.text))
		m.append(line)

	case snapshotMsg:
		if msg.err != nil {
			m.append(errorStyle.Render(fmt.Sprintf("x snapshot failed: %v", msg.err)))
		} else {
			m.append(selfStyle.Render("-> you: sent an ASCII image"))
			m.append(strings.Join(msg.rows, "\n"))
		}

	case tickMsg:
		m.network.Heartbeat()
		m.status = m.network.Status()
		return m, m.tick()

	case errMsg:
		m.err = msg
		return m, tea.Quit
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m modelState) handleInput(content string) (tea.Model, tea.Cmd) {
	switch content {
	case "/exit":
		return m, tea.Quit

	case "/p":
		if m.status != presence.StatusOnline {
			m.append(errorStyle.Render("x cannot send image: peer is offline"))
			return m, nil
		}
		m.append(infoStyle.Render("capturing ASCII image..."))
		return m, m.network.SendSnapshot(m.ctx)

	case "/help":
		m.append(infoStyle.Render("commands: /p send snapshot, /help this message, /exit quit"))
		return m, nil

	default:
		if strings.HasPrefix(content, "/") {
			m.append(errorStyle.Render("x unknown command " + content + " (try /help)"))
			return m, nil
		}
		return m, m.network.SendText(content)
	}
}

func (m *modelState) append(line string) {
	m.messages = append(m.messages, line)
	if m.ready {
		m.viewport.SetContent(strings.Join(m.messages, "\n"))
		m.viewport.GotoBottom()
	}
}

func (m modelState) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.statusBar(),
		m.viewport.View(),
		strings.Repeat("─", m.viewport.Width),
		m.textInput.View(),
	)
}

func (m modelState) statusBar() string {
	peer := m.network.cfg.Peer.Name
	var peerPart string
	switch m.status {
	case presence.StatusOnline:
		peerPart = onlineStyle.Render(fmt.Sprintf("● %s is online", peer))
	case presence.StatusOffline:
		peerPart = offlineStyle.Render(fmt.Sprintf("○ %s is offline", peer))
	default:
		peerPart = infoStyle.Render(fmt.Sprintf("○ %s is unknown", peer))
	}

	link := offlineStyle.Render("disconnected")
	if m.connected {
		link = onlineStyle.Render("connected")
	}
	return fmt.Sprintf(" %s  |  %s  |  %s", peerPart, link, infoStyle.Render(util.Now()))
}
