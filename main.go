// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chatapp is a terminal client for a two-party chat server. It talks
// to the server's REST endpoints for credentials and bulk fetches and
// holds one WebSocket open for live traffic. All state lives in a
// single Bubble Tea event loop; goroutines feed it through the
// program reference, never by touching state directly.
package main

import (
	"context"
	"fmt"
	"os"
	stdsync "sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kazakhpunk/chatapp-tui/internal/api"
	"github.com/kazakhpunk/chatapp-tui/internal/config"
	"github.com/kazakhpunk/chatapp-tui/internal/logx"
	"github.com/kazakhpunk/chatapp-tui/internal/model"
	"github.com/kazakhpunk/chatapp-tui/internal/session"
	"github.com/kazakhpunk/chatapp-tui/internal/sync"
	"github.com/kazakhpunk/chatapp-tui/internal/transport"
	"github.com/kazakhpunk/chatapp-tui/internal/ui/auth"
	"github.com/kazakhpunk/chatapp-tui/internal/ui/chat"
	"github.com/kazakhpunk/chatapp-tui/internal/ui/styles"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ===== PROGRAM REFERENCE =====

// programRef lets transport callbacks inject messages into the event
// loop. Guarded because the callbacks run on the channel's read
// goroutine.
var (
	programMu  stdsync.Mutex
	programRef *tea.Program
)

func setProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// ===== APPLICATION STATES =====

// State is the top-level screen.
type State int

const (
	// StateAuth shows the login/register form.
	StateAuth State = iota
	// StateChat shows the roster and conversation view.
	StateChat
)

// ===== ROOT MESSAGES =====

// ChannelConnectedMsg reports the WebSocket dial succeeded.
type ChannelConnectedMsg struct {
	Channel *transport.Channel
}

// ChannelFailedMsg reports the WebSocket dial failed.
type ChannelFailedMsg struct {
	Err error
}

// LoginResultMsg carries the outcome of a login attempt.
type LoginResultMsg struct {
	Attempt  uint64
	Username string
	Err      error
}

// RegisterResultMsg carries the outcome of a registration attempt.
type RegisterResultMsg struct {
	Username string
	Err      error
}

// SnapshotFetchedMsg carries the post-login bulk fetch results,
// tagged with the attempt so stale continuations can be discarded.
type SnapshotFetchedMsg struct {
	Attempt    uint64
	Username   string
	Users      []model.PresenceEntry
	History    []model.Message
	UsersErr   error
	HistoryErr error
}

// ===== ROOT MODEL =====

// Model is the root application model.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	logger zerolog.Logger
	api    *api.Client

	session *session.Session
	channel *transport.Channel
	release func()

	state     State
	authForm  auth.Form
	chatModel chat.Model

	width  int
	height int
}

func newModel(cfg *config.Config, theme *styles.Theme, apiClient *api.Client, logger zerolog.Logger) Model {
	return Model{
		cfg:      cfg,
		theme:    theme,
		logger:   logger,
		api:      apiClient,
		session:  session.New(),
		state:    StateAuth,
		authForm: auth.New(theme),
	}
}

// Init dials the live channel and starts the form.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.authForm.Init(),
		connectChannel(m.cfg.Server.SocketURL, m.cfg, m.logger),
	)
}

// ===== UPDATE =====

// Update routes messages to the active view and handles the
// authentication and connection lifecycle.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.authForm = m.authForm.SetSize(msg.Width, msg.Height)
		if m.state == StateChat {
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ChannelConnectedMsg:
		return m.handleChannelConnected(msg)

	case ChannelFailedMsg:
		m.logger.Error().Err(msg.Err).Msg("channel dial failed")
		m.authForm = m.authForm.SetError("cannot reach server: " + msg.Err.Error())
		return m, nil

	case auth.SubmitMsg:
		return m.handleSubmit(msg)

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case RegisterResultMsg:
		return m.handleRegisterResult(msg)

	case SnapshotFetchedMsg:
		return m.handleSnapshot(msg)

	case chat.InboundMessageMsg, chat.UserOnlineMsg, chat.UserOfflineMsg, chat.ChannelDownMsg:
		// Live events only matter once the chat view exists; earlier
		// arrivals have nothing to apply to.
		if m.state == StateChat {
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Everything else (keys, spinner ticks) goes to the active view.
	var cmd tea.Cmd
	if m.state == StateChat {
		m.chatModel, cmd = m.chatModel.Update(msg)
	} else {
		m.authForm, cmd = m.authForm.Update(msg)
	}
	return m, cmd
}

func (m Model) handleChannelConnected(msg ChannelConnectedMsg) (tea.Model, tea.Cmd) {
	m.channel = msg.Channel

	release, err := m.channel.Subscribe(transport.Handlers{
		OnMessage: func(mm model.Message) {
			sendToProgram(chat.InboundMessageMsg{Message: mm})
		},
		OnUserOnline: func(u string) {
			sendToProgram(chat.UserOnlineMsg{Username: u})
		},
		OnUserOffline: func(u string) {
			sendToProgram(chat.UserOfflineMsg{Username: u})
		},
		OnClosed: func(err error) {
			sendToProgram(chat.ChannelDownMsg{Err: err})
		},
	})
	if err != nil {
		m.logger.Error().Err(err).Msg("subscribe failed")
		return m, nil
	}
	m.release = release

	// Login may have raced the dial; announce the identity now.
	if m.session.Authenticated() {
		if err := m.channel.Join(m.session.Username()); err != nil {
			m.logger.Warn().Err(err).Msg("join announcement failed")
		}
	}
	return m, nil
}

func (m Model) handleSubmit(msg auth.SubmitMsg) (tea.Model, tea.Cmd) {
	if msg.Mode == auth.ModeRegister {
		return m, registerCmd(m.api, m.cfg, msg.Username, msg.Password)
	}

	attempt, ok := m.session.Begin()
	if !ok {
		// A login is already in flight.
		return m, nil
	}
	return m, loginCmd(m.api, m.cfg, attempt, msg.Username, msg.Password)
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !m.session.Fail(msg.Attempt) {
			return m, nil
		}
		m.authForm = m.authForm.SetError(loginErrorText(msg.Err))
		return m, nil
	}

	if !m.session.Succeed(msg.Attempt, msg.Username) {
		m.logger.Debug().Uint64("attempt", msg.Attempt).Msg("stale login result dropped")
		return m, nil
	}

	m.logger.Info().Str("user", msg.Username).Msg("authenticated")

	if m.channel != nil {
		if err := m.channel.Join(msg.Username); err != nil {
			m.logger.Warn().Err(err).Msg("join announcement failed")
		}
	}

	engine := sync.New(m.logger)
	m.chatModel = chat.New(msg.Username, engine, m.channel, m.cfg.UI.StrictConversationFilter, m.theme, m.logger)
	m.state = StateChat

	var sizeCmd tea.Cmd
	m.chatModel, sizeCmd = m.chatModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})

	return m, tea.Batch(
		m.chatModel.Init(),
		sizeCmd,
		snapshotCmd(m.api, m.cfg, msg.Attempt, msg.Username),
	)
}

func (m Model) handleRegisterResult(msg RegisterResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.authForm = m.authForm.SetError(registerErrorText(msg.Err))
		return m, nil
	}
	// Registration never authenticates; route back to login.
	m.authForm = m.authForm.SwitchToLogin().SetNotice("account created, sign in")
	return m, nil
}

func (m Model) handleSnapshot(msg SnapshotFetchedMsg) (tea.Model, tea.Cmd) {
	if !m.session.Current(msg.Attempt, msg.Username) || m.state != StateChat {
		m.logger.Debug().Uint64("attempt", msg.Attempt).Msg("stale snapshot dropped")
		return m, nil
	}

	if msg.UsersErr != nil {
		m.logger.Warn().Err(msg.UsersErr).Msg("user fetch failed")
	}
	if msg.HistoryErr != nil {
		m.logger.Warn().Err(msg.HistoryErr).Msg("history fetch failed")
	}

	var cmd tea.Cmd
	m.chatModel, cmd = m.chatModel.Update(chat.SnapshotMsg{
		Users:    msg.Users,
		History:  msg.History,
		Degraded: msg.UsersErr != nil || msg.HistoryErr != nil,
	})
	return m, cmd
}

// ===== VIEW =====

// View renders the active screen.
func (m Model) View() string {
	if m.state == StateChat {
		return m.chatModel.View()
	}
	return m.authForm.View()
}

// ===== COMMANDS =====

// connectChannel dials the WebSocket endpoint.
func connectChannel(url string, cfg *config.Config, logger zerolog.Logger) tea.Cmd {
	timeout := cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ch, err := transport.Dial(ctx, url, logger)
		if err != nil {
			return ChannelFailedMsg{Err: err}
		}
		return ChannelConnectedMsg{Channel: ch}
	}
}

// loginCmd verifies credentials off the event loop.
func loginCmd(client *api.Client, cfg *config.Config, attempt uint64, username, password string) tea.Cmd {
	timeout := cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := client.Login(ctx, username, password)
		return LoginResultMsg{Attempt: attempt, Username: username, Err: err}
	}
}

// registerCmd creates an account off the event loop.
func registerCmd(client *api.Client, cfg *config.Config, username, password string) tea.Cmd {
	timeout := cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := client.Register(ctx, username, password)
		return RegisterResultMsg{Username: username, Err: err}
	}
}

// snapshotCmd runs the post-login bulk fetches. Both halves are
// attempted even when one fails so the view can degrade instead of
// staying empty.
func snapshotCmd(client *api.Client, cfg *config.Config, attempt uint64, username string) tea.Cmd {
	timeout := cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()

		users, usersErr := client.FetchUsers(ctx)
		history, historyErr := client.FetchMessages(ctx)

		return SnapshotFetchedMsg{
			Attempt:    attempt,
			Username:   username,
			Users:      users,
			History:    history,
			UsersErr:   usersErr,
			HistoryErr: historyErr,
		}
	}
}

// ===== ERROR TEXT =====

func loginErrorText(err error) string {
	switch {
	case api.IsAuthError(err):
		return "invalid username or password"
	case api.IsNetworkError(err):
		return "cannot reach server, try again"
	default:
		return "login failed: " + err.Error()
	}
}

func registerErrorText(err error) string {
	switch {
	case api.IsAuthError(err):
		return "that username is taken"
	case api.IsNetworkError(err):
		return "cannot reach server, try again"
	default:
		return "registration failed: " + err.Error()
	}
}

// ===== MAIN =====

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("chatapp %s (%s, built %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logx.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Info().Str("version", version).Str("server", cfg.Server.BaseURL).Msg("starting")

	apiClient := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Timeout(),
	}, logger)

	m := newModel(cfg, styles.NewTheme(), apiClient, logger)

	p := tea.NewProgram(m, tea.WithAltScreen())
	setProgram(p)

	final, err := p.Run()
	setProgram(nil)

	// Release the subscription and the socket on the way out.
	if fm, ok := final.(Model); ok {
		if fm.release != nil {
			fm.release()
		}
		if fm.channel != nil {
			_ = fm.channel.Close()
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("program error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Msg("exited")
}
