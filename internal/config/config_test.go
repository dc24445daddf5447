// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.UI.StrictConversationFilter {
		t.Error("strict filter should default off")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.SocketURL != "ws://localhost:8000/ws" {
		t.Errorf("SocketURL = %q", cfg.Server.SocketURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://chat.example.com"
timeout_seconds = 5

[ui]
strict_conversation_filter = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.BaseURL != "https://chat.example.com" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.SocketURL != "wss://chat.example.com/ws" {
		t.Errorf("SocketURL = %q, want derived wss URL", cfg.Server.SocketURL)
	}
	if !cfg.UI.StrictConversationFilter {
		t.Error("strict filter should be on")
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHATAPP_SERVER_URL", "http://10.0.0.5:9000")
	t.Setenv("CHATAPP_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.SocketURL != "ws://10.0.0.5:9000/ws" {
		t.Errorf("SocketURL = %q", cfg.Server.SocketURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "bad base url", mutate: func(c *Config) { c.Server.BaseURL = "not a url" }, wantErr: true},
		{name: "bad scheme", mutate: func(c *Config) { c.Server.BaseURL = "ftp://x" }, wantErr: true},
		{name: "bad socket url", mutate: func(c *Config) { c.Server.SocketURL = "http://x" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.TimeoutSeconds = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveSocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws"},
		{"https://chat.example.com", "wss://chat.example.com/ws"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := deriveSocketURL(tt.base); got != tt.want {
			t.Errorf("deriveSocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
