// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the chat server's REST
// surface: credential verification, account creation, and the bulk
// user and history fetches that seed the post-login snapshot.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

// ===== CONSTANTS =====

const (
	// DefaultBaseURL is the chat server REST endpoint.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every request. There are no retries; a
	// failed request surfaces to the caller immediately.
	DefaultTimeout = 10 * time.Second
)

// ===== TYPES =====

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	// BaseURL is the server's REST endpoint.
	BaseURL string
	// Timeout is the per-request deadline.
	Timeout time.Duration
}

// Client is an HTTP client for the chat server.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// credentials is the request body for login and register.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ===== CONSTRUCTORS =====

// NewClient creates a client with default configuration.
func NewClient(logger zerolog.Logger) *Client {
	return NewClientWithConfig(&ClientConfig{}, logger)
}

// NewClientWithConfig creates a client with custom configuration,
// filling in defaults for zero values.
func NewClientWithConfig(config *ClientConfig, logger zerolog.Logger) *Client {
	if config == nil {
		config = &ClientConfig{}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// ===== AUTH =====

// Login verifies the given credentials against the server. A nil
// return means the identity is confirmed; the caller owns recording
// it. Rejection and unreachability are distinct error types.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.postJSON(ctx, "/login", credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		c.logger.Info().Str("user", username).Msg("login accepted")
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return newAuthError("login rejected", ErrInvalidCredentials)
	default:
		return newResponseError(fmt.Sprintf("login failed with status %d", resp.StatusCode), nil)
	}
}

// Register creates a new account. A nil return means the account
// exists and the user should sign in with it; registration never
// authenticates by itself.
func (c *Client) Register(ctx context.Context, username, password string) error {
	resp, err := c.postJSON(ctx, "/register", credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		c.logger.Info().Str("user", username).Msg("account created")
		return nil
	case resp.StatusCode == http.StatusConflict:
		return newAuthError("registration rejected", ErrUsernameTaken)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return newAuthError(fmt.Sprintf("registration rejected with status %d", resp.StatusCode), nil)
	default:
		return newResponseError(fmt.Sprintf("registration failed with status %d", resp.StatusCode), nil)
	}
}

// ===== BULK FETCH =====

// FetchUsers retrieves the known users for the roster snapshot.
func (c *Client) FetchUsers(ctx context.Context) ([]model.PresenceEntry, error) {
	var users []model.PresenceEntry
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(users)).Msg("users fetched")
	return users, nil
}

// FetchMessages retrieves the full message history for the log
// snapshot, in server order.
func (c *Client) FetchMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := c.getJSON(ctx, "/messages", &messages); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(messages)).Msg("messages fetched")
	return messages, nil
}

// ===== HELPERS =====

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, newResponseError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, newResponseError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newConnectionError("request failed", err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return newResponseError("failed to create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newConnectionError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newResponseError(fmt.Sprintf("GET %s returned status %d", path, resp.StatusCode), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newResponseError("failed to decode response", err)
	}
	return nil
}
