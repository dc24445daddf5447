// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
	"github.com/kazakhpunk/chatapp-tui/internal/sync"
	"github.com/kazakhpunk/chatapp-tui/internal/transport"
	"github.com/kazakhpunk/chatapp-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	// rosterWidth is the fixed width of the user list pane.
	rosterWidth = 24
	// headerHeight is the rendered height of the top bar.
	headerHeight = 1
	// inputHeight covers the compose line and its border.
	inputHeight = 2
	// statusHeight is the rendered height of the bottom bar.
	statusHeight = 1
	// minViewportHeight keeps the transcript visible on tiny
	// terminals.
	minViewportHeight = 3
)

// focusArea tracks which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusRoster
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view. It projects the synchronization engine's
// state; it owns only presentation concerns such as focus, scroll
// position, and the compose buffer.
type Model struct {
	theme  *styles.Theme
	keys   KeyMap
	logger zerolog.Logger

	// me is the authenticated username.
	me string
	// engine holds the roster and message log.
	engine *sync.Engine
	// channel publishes outgoing messages. May be nil in tests.
	channel *transport.Channel
	// strictFilter limits the transcript to the selected pair.
	strictFilter bool

	viewport viewport.Model
	input    textinput.Model

	focus    focusArea
	selected int    // roster index, -1 when the roster is empty
	peer     string // selected conversation partner, "" when none

	connected bool
	degraded  bool
	status    string

	width  int
	height int
	ready  bool
}

// New creates the chat view for an authenticated user.
func New(me string, engine *sync.Engine, channel *transport.Channel, strictFilter bool, theme *styles.Theme, logger zerolog.Logger) Model {
	input := textinput.New()
	input.Placeholder = "type a message"
	input.CharLimit = 2000
	input.Prompt = "> "
	input.Focus()

	return Model{
		theme:        theme,
		keys:         DefaultKeyMap(),
		logger:       logger.With().Str("component", "chat").Logger(),
		me:           me,
		engine:       engine,
		channel:      channel,
		strictFilter: strictFilter,
		input:        input,
		selected:     -1,
		connected:    true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// ===== ACCESSORS =====

// Peer returns the selected conversation partner.
func (m Model) Peer() string { return m.peer }

// Connected reports whether the live channel is up.
func (m Model) Connected() bool { return m.connected }

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m.engine.ApplySnapshot(msg.Users, msg.History)
		m.degraded = msg.Degraded
		if msg.Degraded {
			m.status = "some data failed to load"
		}
		m = m.reconcileSelection()
		m = m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case InboundMessageMsg:
		grew := m.engine.ApplyMessage(msg.Message)
		m = m.refreshTranscript()
		if grew && m.messageVisible(msg.Message) {
			m.viewport.GotoBottom()
		}
		return m, nil

	case UserOnlineMsg:
		m.engine.ApplyUserOnline(msg.Username)
		m = m.reconcileSelection()
		return m, nil

	case UserOfflineMsg:
		m.engine.ApplyUserOffline(msg.Username)
		m = m.reconcileSelection()
		return m, nil

	case ChannelDownMsg:
		m.connected = false
		m.status = "connection lost"
		if msg.Err != nil {
			m.logger.Warn().Err(msg.Err).Msg("channel down")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize recomputes the pane dimensions.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	vpWidth := msg.Width - rosterWidth - 4
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < minViewportHeight {
		vpHeight = minViewportHeight
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}

	m.input.Width = msg.Width - 6
	m = m.refreshTranscript()
	m.viewport.GotoBottom()
	return m
}

// handleKey routes key input by the focused pane.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusSwap):
		if m.focus == focusInput {
			m.focus = focusRoster
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusRoster {
		return m.handleRosterKey(msg), nil
	}
	return m.handleInputKey(msg)
}

// handleRosterKey moves the selection; moving onto a user makes them
// the current conversation.
func (m Model) handleRosterKey(msg tea.KeyMsg) Model {
	count := m.engine.Roster().Len()
	if count == 0 {
		return m
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		} else if m.selected < 0 {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Down):
		// Moving down from no selection lands on the first user.
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Send):
		// Enter on the roster confirms and returns to the compose
		// line.
		m.focus = focusInput
		m.input.Focus()
	default:
		return m
	}

	users := m.engine.Roster().Usernames()
	if m.selected >= 0 && m.selected < len(users) && users[m.selected] != m.peer {
		m.peer = users[m.selected]
		m.status = ""
		m = m.refreshTranscript()
		m.viewport.GotoBottom()
	}
	return m
}

// handleInputKey edits the compose line or scrolls the transcript.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.sendMessage(), nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendMessage publishes the compose line to the selected peer. With
// no peer selected the compose line is left untouched.
func (m Model) sendMessage() Model {
	if m.peer == "" {
		m.status = "select a user to chat with (tab, then arrows)"
		return m
	}
	body := strings.TrimSpace(m.input.Value())
	if body == "" {
		return m
	}
	if !m.connected {
		m.status = "connection lost, message not sent"
		return m
	}

	msg := model.NewMessage(m.me, m.peer, body)

	// Hand the message to the channel before touching any state: a
	// refused publish must leave the compose line and the log alone,
	// or the transcript would show a message that never went out.
	if m.channel != nil {
		if err := m.channel.Publish(msg); err != nil {
			m.logger.Warn().Err(err).Msg("publish failed")
			m.status = "send failed: " + err.Error()
			return m
		}
	}

	m.engine.RecordOutgoing(msg)
	m.input.Reset()
	m = m.refreshTranscript()
	m.viewport.GotoBottom()
	return m
}

// =============================================================================
// HELPERS
// =============================================================================

// reconcileSelection re-derives the roster index after the roster
// changed. The selected peer stays the current conversation even
// after going offline; only the highlight moves. Without a prior
// selection the highlight stays off so the first keypress lands on
// the first user.
func (m Model) reconcileSelection() Model {
	users := m.engine.Roster().Usernames()
	if len(users) == 0 {
		m.selected = -1
		return m
	}
	for i, u := range users {
		if u == m.peer {
			m.selected = i
			return m
		}
	}
	if m.selected >= len(users) {
		m.selected = len(users) - 1
	}
	return m
}

// messageVisible reports whether a message belongs to the transcript
// currently on screen.
func (m Model) messageVisible(msg model.Message) bool {
	if m.peer == "" {
		return false
	}
	if m.strictFilter {
		return msg.Between(m.me, m.peer)
	}
	return msg.InvolvedWith(m.peer)
}

// refreshTranscript re-renders the conversation into the viewport.
func (m Model) refreshTranscript() Model {
	if !m.ready {
		return m
	}
	conv := m.engine.Conversation(m.me, m.peer, m.strictFilter)
	m.viewport.SetContent(m.renderTranscript(conv))
	return m
}
