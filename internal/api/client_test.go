// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantAuth   bool
		wantTarget error
	}{
		{name: "accepted", status: http.StatusOK},
		{name: "rejected", status: http.StatusUnauthorized, wantErr: true, wantAuth: true, wantTarget: ErrInvalidCredentials},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody credentials
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/login" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(srv.URL).Login(context.Background(), "alice", "secret")

			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantAuth && !IsAuthError(err) {
				t.Errorf("Login() error = %v, want auth error", err)
			}
			if tt.wantTarget != nil && !errors.Is(err, tt.wantTarget) {
				t.Errorf("Login() error = %v, want errors.Is %v", err, tt.wantTarget)
			}
			if gotBody.Username != "alice" || gotBody.Password != "secret" {
				t.Errorf("request body = %+v", gotBody)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantTarget error
	}{
		{name: "created", status: http.StatusCreated},
		{name: "taken", status: http.StatusConflict, wantErr: true, wantTarget: ErrUsernameTaken},
		{name: "other rejection", status: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/register" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(srv.URL).Register(context.Background(), "alice", "secret")

			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantTarget != nil && !errors.Is(err, tt.wantTarget) {
				t.Errorf("Register() error = %v, want errors.Is %v", err, tt.wantTarget)
			}
		})
	}
}

func TestFetchUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"username":"alice","online":true},{"username":"bob","online":true}]`))
	}))
	defer srv.Close()

	users, err := newTestClient(srv.URL).FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("FetchUsers() = %v", users)
	}
}

func TestFetchMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"sender":"alice","receiver":"bob","message":"hi","timestamp":"2026-01-01T10:00:00.000Z"}]`))
	}))
	defer srv.Close()

	messages, err := newTestClient(srv.URL).FetchMessages(context.Background())
	if err != nil {
		t.Fatalf("FetchMessages() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("FetchMessages() returned %d messages, want 1", len(messages))
	}
	m := messages[0]
	if m.Sender != "alice" || m.Receiver != "bob" || m.Body != "hi" {
		t.Errorf("FetchMessages()[0] = %+v", m)
	}
}

func TestFetchMessagesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchMessages(context.Background())
	if err == nil {
		t.Fatal("FetchMessages() should fail on non-200 status")
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeInvalidResponse {
		t.Errorf("error = %v, want invalid_response ClientError", err)
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	// Point at a closed server to force a connection failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestClient(url).Login(context.Background(), "alice", "secret")
	if err == nil {
		t.Fatal("Login() against a dead server should fail")
	}
	if !IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
	if IsAuthError(err) {
		t.Error("connection failure must not classify as auth error")
	}
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("error = %v, want errors.Is ErrUnreachable", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := NewClient(zerolog.Nop())
	if c.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.config.BaseURL, DefaultBaseURL)
	}
	if c.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.config.Timeout, DefaultTimeout)
	}
}
