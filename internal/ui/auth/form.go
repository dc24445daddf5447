// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kazakhpunk/chatapp-tui/internal/ui/styles"
)

// ===== CONSTANTS =====

const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

// ===== MODEL =====

// Form is the credential entry component.
type Form struct {
	theme *styles.Theme

	mode    Mode
	focus   int
	inputs  [fieldCount]textinput.Model
	spinner spinner.Model

	pending bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// New creates a form in login mode.
func New(theme *styles.Theme) Form {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Prompt = ""
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	return Form{
		theme:   theme,
		mode:    ModeLogin,
		inputs:  [fieldCount]textinput.Model{username, password},
		spinner: sp,
	}
}

// ===== ACCESSORS =====

// Mode returns the current form mode.
func (f Form) Mode() Mode { return f.mode }

// Pending reports whether a submission is awaiting its result.
func (f Form) Pending() bool { return f.pending }

// ===== STATE TRANSITIONS =====

// SetPending locks or unlocks the form around an in-flight request.
func (f Form) SetPending(pending bool) Form {
	f.pending = pending
	if pending {
		f.errMsg = ""
		f.notice = ""
	}
	return f
}

// SetError shows a failure line under the fields.
func (f Form) SetError(msg string) Form {
	f.pending = false
	f.errMsg = msg
	f.notice = ""
	return f
}

// SetNotice shows a success line, used after registration to prompt
// the user to sign in with the new account.
func (f Form) SetNotice(msg string) Form {
	f.pending = false
	f.notice = msg
	f.errMsg = ""
	return f
}

// SwitchToLogin flips the form to login mode, keeping the username.
func (f Form) SwitchToLogin() Form {
	f.mode = ModeLogin
	f.inputs[fieldPassword].SetValue("")
	return f
}

// SetSize stores the available area for centering.
func (f Form) SetSize(width, height int) Form {
	f.width = width
	f.height = height
	return f
}

// ===== UPDATE =====

// Init starts the spinner tick.
func (f Form) Init() tea.Cmd {
	return f.spinner.Tick
}

// Update handles key and spinner messages.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return f.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f Form) handleKey(msg tea.KeyMsg) (Form, tea.Cmd) {
	if f.pending {
		// Locked while a request is in flight.
		return f, nil
	}

	switch msg.String() {
	case "tab", "down":
		return f.cycleFocus(1), nil
	case "shift+tab", "up":
		return f.cycleFocus(-1), nil
	case "ctrl+r":
		return f.toggleMode(), nil
	case "enter":
		return f.submit()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f Form) cycleFocus(delta int) Form {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	return f
}

func (f Form) toggleMode() Form {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	f.errMsg = ""
	f.notice = ""
	return f
}

func (f Form) submit() (Form, tea.Cmd) {
	username := strings.TrimSpace(f.inputs[fieldUsername].Value())
	password := f.inputs[fieldPassword].Value()

	if username == "" || password == "" {
		f.errMsg = "username and password are required"
		return f, nil
	}

	f.pending = true
	f.errMsg = ""
	f.notice = ""
	mode := f.mode
	return f, func() tea.Msg {
		return SubmitMsg{Mode: mode, Username: username, Password: password}
	}
}

// ===== VIEW =====

// View renders the form centered in the available area.
func (f Form) View() string {
	title := "Sign in"
	action := "create an account"
	if f.mode == ModeRegister {
		title = "Create account"
		action = "sign in instead"
	}

	var b strings.Builder
	b.WriteString(f.theme.FormTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(f.theme.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(f.inputs[fieldUsername].View())
	b.WriteString("\n\n")

	b.WriteString(f.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(f.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	switch {
	case f.pending:
		b.WriteString(f.spinner.View())
		b.WriteString(f.theme.PendingText.Render(" working..."))
	case f.errMsg != "":
		b.WriteString(f.theme.FormError.Render(styles.StatusIndicators.Error + " " + f.errMsg))
	case f.notice != "":
		b.WriteString(f.theme.FormNotice.Render(styles.StatusIndicators.Success + " " + f.notice))
	default:
		b.WriteString(f.theme.FormHint.Render("enter to submit"))
	}
	b.WriteString("\n")
	b.WriteString(f.theme.FormHint.Render("ctrl+r to " + action))

	box := f.theme.FormBox.Render(b.String())
	if f.width == 0 || f.height == 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}
