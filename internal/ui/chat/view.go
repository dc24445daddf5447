// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
	"github.com/kazakhpunk/chatapp-tui/internal/ui/styles"
	"github.com/kazakhpunk/chatapp-tui/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()
	roster := m.renderRoster()
	transcript := m.viewport.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, roster, transcript)
	input := m.renderInput()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("chatapp")

	conn := styles.StatusIndicators.Connected + " connected"
	connStyle := m.theme.SuccessStyle
	if !m.connected {
		conn = styles.StatusIndicators.Offline + " disconnected"
		connStyle = m.theme.ErrorStyle
	}

	who := m.theme.HeaderTitle.Render(m.me)
	right := connStyle.Render(conn) + " " + who

	gap := m.width - lipgloss.Width(brand) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := brand + strings.Repeat(" ", gap) + right
	return m.theme.StatusBar.Width(m.width).Render(line)
}

// =============================================================================
// ROSTER
// =============================================================================

func (m Model) renderRoster() string {
	var b strings.Builder
	b.WriteString(m.theme.RosterTitle.Render("Online"))
	b.WriteString("\n")

	users := m.engine.Roster().Usernames()
	if len(users) == 0 {
		b.WriteString(m.theme.RosterEmpty.Render("nobody here"))
	}
	// Border, pane padding, and item padding leave rosterWidth-6 cells
	// per row; the indicator and its space take four of them.
	for i, u := range users {
		name := util.TruncateWidth(u, rosterWidth-10)
		// Pad so the selection highlight spans the full row.
		line := util.PadWidth(styles.StatusIndicators.Online+" "+name, rosterWidth-6)
		if i == m.selected && m.focus == focusRoster {
			b.WriteString(m.theme.RosterItemSelected.Render(line))
		} else if u == m.peer {
			b.WriteString(m.theme.RosterItemSelected.Render(line))
		} else {
			b.WriteString(m.theme.RosterItem.Render(line))
		}
		b.WriteString("\n")
	}

	pane := m.theme.RosterPane
	if m.focus == focusRoster {
		pane = m.theme.RosterPaneFocused
	}
	return pane.Width(rosterWidth).Height(m.viewport.Height).Render(b.String())
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the selected conversation as bubbles:
// sent messages on the right, received on the left.
func (m Model) renderTranscript(conv []model.Message) string {
	if m.peer == "" {
		return m.theme.RosterEmpty.Render("select a user to start chatting")
	}
	if len(conv) == 0 {
		return m.theme.RosterEmpty.Render("no messages yet, say hi")
	}

	contentWidth := calculateContentWidth(m.viewport.Width, 8)
	var b strings.Builder
	for i, msg := range conv {
		if i > 0 {
			b.WriteString("\n")
		}
		if msg.Sender == m.me {
			b.WriteString(m.renderSentMessage(msg, contentWidth))
		} else {
			b.WriteString(m.renderReceivedMessage(msg, contentWidth))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSentMessage(msg model.Message, contentWidth int) string {
	meta := m.theme.Timestamp.Render(displayTimestamp(msg))
	bubble := m.theme.SentBubble.Render(wrapText(msg.Body, contentWidth))
	block := lipgloss.JoinVertical(lipgloss.Right, meta, bubble)
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
}

func (m Model) renderReceivedMessage(msg model.Message, contentWidth int) string {
	meta := m.theme.SenderName.Render(msg.Sender) + " " +
		m.theme.Timestamp.Render(displayTimestamp(msg))
	bubble := m.theme.ReceivedBubble.Render(wrapText(msg.Body, contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, meta, bubble)
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.status != "":
		left = m.theme.WarningStyle.Render(m.status)
	case m.degraded:
		left = m.theme.WarningStyle.Render(styles.StatusIndicators.Warning + " partial data")
	case m.peer != "":
		left = m.theme.ShortcutDesc.Render("chatting with ") + m.theme.ShortcutKey.Render(m.peer)
	default:
		left = m.theme.ShortcutDesc.Render("no conversation selected")
	}

	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	right := strings.Join(parts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
