// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates application configuration from
// ~/.chatapp/config.toml with environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ===== CONSTANTS =====

const (
	// configDirName is the directory under the home directory.
	configDirName = ".chatapp"
	// configFileName is the TOML configuration file.
	configFileName = "config.toml"
	// logFileName is the default log destination.
	logFileName = "chatapp.log"
)

// ===== TYPES =====

// Config is the application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig locates the chat server.
type ServerConfig struct {
	// BaseURL is the REST endpoint for login, register, and the bulk
	// fetches.
	BaseURL string `toml:"base_url"`
	// SocketURL is the WebSocket endpoint. Empty means derive it from
	// BaseURL.
	SocketURL string `toml:"socket_url"`
	// TimeoutSeconds bounds each REST request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// StrictConversationFilter limits a conversation to messages
	// exchanged strictly between the two participants. Off by
	// default: the transcript then shows everything involving the
	// selected peer.
	StrictConversationFilter bool `toml:"strict_conversation_filter"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination. Empty means the default path
	// under the config directory.
	File string `toml:"file"`
}

// ===== DEFAULTS =====

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ===== PATHS =====

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ===== LOADING =====

// Load reads configuration from the default path, falling back to
// defaults when no file exists, then applies environment overrides
// and validates.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path. A missing file
// is not an error; defaults are used.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATAPP_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("CHATAPP_SOCKET_URL"); v != "" {
		c.Server.SocketURL = v
	}
	if v := os.Getenv("CHATAPP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// setDerived fills values computed from others.
func (c *Config) setDerived() {
	if c.Server.SocketURL == "" {
		c.Server.SocketURL = deriveSocketURL(c.Server.BaseURL)
	}
	if c.Log.File == "" {
		if dir, err := Dir(); err == nil {
			c.Log.File = filepath.Join(dir, logFileName)
		}
	}
}

// deriveSocketURL maps an http(s) base URL to the ws(s) endpoint at
// /ws on the same host.
func deriveSocketURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}

// ===== VALIDATION =====

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid server base_url %q", c.Server.BaseURL)
	}
	if c.Server.SocketURL != "" {
		su, err := url.Parse(c.Server.SocketURL)
		if err != nil || su.Host == "" || (su.Scheme != "ws" && su.Scheme != "wss") {
			return fmt.Errorf("invalid server socket_url %q", c.Server.SocketURL)
		}
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid timeout_seconds %d", c.Server.TimeoutSeconds)
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// Timeout returns the REST request deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// ===== SAVING =====

// Save writes the configuration to the default path with restrictive
// permissions.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
