// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

var upgrader = websocket.Upgrader{}

// newTestServer upgrades one connection and hands it to serve.
func newTestServer(t *testing.T, serve func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialTest(t *testing.T, srv *httptest.Server) *Channel {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, wsURL(srv), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestJoinAndPublishEnvelopes(t *testing.T) {
	frames := make(chan envelope, 2)
	srv := newTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		for i := 0; i < 2; i++ {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			frames <- env
		}
	})

	c := dialTest(t, srv)
	require.NoError(t, c.Join("alice"))

	m := model.NewMessage("alice", "bob", "hello")
	require.NoError(t, c.Publish(m))

	join := <-frames
	assert.Equal(t, EventJoin, join.Event)
	var jp joinPayload
	require.NoError(t, json.Unmarshal(join.Data, &jp))
	assert.Equal(t, "alice", jp.Username)

	pub := <-frames
	assert.Equal(t, EventMessage, pub.Event)
	var got model.Message
	require.NoError(t, json.Unmarshal(pub.Data, &got))
	assert.Equal(t, "alice", got.Sender)
	assert.Equal(t, "bob", got.Receiver)
	assert.Equal(t, "hello", got.Body)
	assert.NotEmpty(t, got.Timestamp)
}

func TestDispatchServerEvents(t *testing.T) {
	srv := newTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		// Wait for the join so the client has subscribed before
		// events start flowing.
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		writes := []string{
			`{"event":"userOnline","data":{"username":"bob"}}`,
			`not even json`,
			`{"event":"userOnline","data":{"username":""}}`,
			`{"event":"message","data":{"sender":"bob","receiver":"alice","message":"hi","timestamp":"2026-01-01T10:00:00.000Z"}}`,
			`{"event":"userOffline","data":{"username":"bob"}}`,
		}
		for _, w := range writes {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(w)); err != nil {
				return
			}
		}
		// Keep the connection open while the client drains.
		time.Sleep(500 * time.Millisecond)
	})

	c := dialTest(t, srv)

	online := make(chan string, 4)
	offline := make(chan string, 4)
	messages := make(chan model.Message, 4)
	release, err := c.Subscribe(Handlers{
		OnMessage:     func(m model.Message) { messages <- m },
		OnUserOnline:  func(u string) { online <- u },
		OnUserOffline: func(u string) { offline <- u },
	})
	require.NoError(t, err)
	defer release()

	require.NoError(t, c.Join("alice"))

	select {
	case u := <-online:
		assert.Equal(t, "bob", u)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for userOnline")
	}

	// Malformed frames between events must be dropped, not fatal.
	select {
	case m := <-messages:
		assert.Equal(t, "hi", m.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	select {
	case u := <-offline:
		assert.Equal(t, "bob", u)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for userOffline")
	}

	// The empty-username frame was dropped before dispatch.
	select {
	case u := <-online:
		t.Fatalf("unexpected extra userOnline: %q", u)
	default:
	}
}

func TestSubscribeIsExclusive(t *testing.T) {
	srv := newTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		time.Sleep(500 * time.Millisecond)
	})
	c := dialTest(t, srv)

	release, err := c.Subscribe(Handlers{})
	require.NoError(t, err)

	_, err = c.Subscribe(Handlers{})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	release()
	release2, err := c.Subscribe(Handlers{})
	require.NoError(t, err)
	release2()
}

func TestPublishAfterClose(t *testing.T) {
	srv := newTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		time.Sleep(500 * time.Millisecond)
	})
	c := dialTest(t, srv)

	require.NoError(t, c.Close())
	err := c.Publish(model.NewMessage("alice", "bob", "late"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestServerDropFiresOnClosed(t *testing.T) {
	srv := newTestServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})
	c := dialTest(t, srv)

	closed := make(chan error, 1)
	release, err := c.Subscribe(Handlers{
		OnClosed: func(err error) { closed <- err },
	})
	require.NoError(t, err)
	defer release()

	select {
	case err := <-closed:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnClosed")
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/ws", zerolog.Nop())
	assert.Error(t, err)
}
