// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the WebSocket channel to the chat
// server: one long-lived connection carrying JSON event envelopes in
// both directions. The channel owns its read and write goroutines and
// hands decoded events to a single subscriber; it never retries or
// reconnects on its own.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

// ===== CONSTANTS =====

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long we tolerate silence from the server.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer is the outbound queue depth; Publish fails rather
	// than blocks when the writer cannot keep up.
	sendBuffer = 64
)

// ===== ERRORS =====

var (
	// ErrClosed is returned when using a channel after Close or after
	// the connection dropped.
	ErrClosed = errors.New("channel closed")
	// ErrSendQueueFull is returned when the outbound queue is full.
	ErrSendQueueFull = errors.New("send queue full")
	// ErrAlreadySubscribed is returned by Subscribe when a subscriber
	// is already registered.
	ErrAlreadySubscribed = errors.New("channel already has a subscriber")
)

// ===== TYPES =====

// Handlers receives decoded server events. Callbacks run on the
// channel's read goroutine; implementations are expected to forward
// into their own event loop rather than mutate state directly.
type Handlers struct {
	// OnMessage receives a chat message pushed by the server.
	OnMessage func(model.Message)
	// OnUserOnline receives a presence arrival.
	OnUserOnline func(username string)
	// OnUserOffline receives a presence departure.
	OnUserOffline func(username string)
	// OnClosed fires once when the connection ends for any reason
	// other than a local Close.
	OnClosed func(err error)
}

// Channel is a live WebSocket connection to the chat server.
type Channel struct {
	conn   *websocket.Conn
	send   chan []byte
	logger zerolog.Logger

	mu       sync.Mutex
	handlers *Handlers

	done      chan struct{}
	closeOnce sync.Once
	closedErr error
}

// ===== CONSTRUCTORS =====

// Dial connects to the server's WebSocket endpoint and starts the
// read and write pumps. The returned channel is ready for Subscribe
// and Join.
func Dial(ctx context.Context, url string, logger zerolog.Logger) (*Channel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		logger: logger.With().
			Str("component", "transport").
			Str("conn_id", uuid.NewString()).
			Logger(),
		done: make(chan struct{}),
	}

	c.logger.Info().Str("url", url).Msg("channel connected")
	go c.readPump()
	go c.writePump()
	return c, nil
}

// ===== SUBSCRIPTION =====

// Subscribe registers the sole event subscriber and returns a release
// function that detaches all of its callbacks at once. If the
// connection already failed, OnClosed is delivered immediately.
func (c *Channel) Subscribe(h Handlers) (func(), error) {
	c.mu.Lock()
	if c.handlers != nil {
		c.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	c.handlers = &h
	closedErr := c.closedErr
	c.mu.Unlock()

	if closedErr != nil && h.OnClosed != nil {
		go h.OnClosed(closedErr)
	}

	return func() {
		c.mu.Lock()
		c.handlers = nil
		c.mu.Unlock()
	}, nil
}

func (c *Channel) snapshotHandlers() *Handlers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handlers
}

// ===== OUTBOUND =====

// Join announces the authenticated identity to the server. Called
// once, immediately after login succeeds.
func (c *Channel) Join(username string) error {
	return c.publish(EventJoin, joinPayload{Username: username})
}

// Publish sends a chat message. Fire-and-forget: a nil return means
// the message was queued, not that the server accepted it.
func (c *Channel) Publish(m model.Message) error {
	return c.publish(EventMessage, m)
}

func (c *Channel) publish(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// ===== LIFECYCLE =====

// Close tears down the connection. Safe to call more than once.
func (c *Channel) Close() error {
	c.shutdown(nil)
	return nil
}

// Err returns the error that ended the connection, if any.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closedErr
}

func (c *Channel) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closedErr = cause
		h := c.handlers
		c.mu.Unlock()

		close(c.done)
		_ = c.conn.Close()

		if cause != nil {
			c.logger.Warn().Err(cause).Msg("channel closed")
			if h != nil && h.OnClosed != nil {
				h.OnClosed(cause)
			}
		} else {
			c.logger.Info().Msg("channel closed")
		}
	})
}

// ===== PUMPS =====

// readPump reads frames until the connection ends, decoding and
// dispatching each event. Malformed frames are logged and dropped;
// they never take the connection down.
func (c *Channel) readPump() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Local close, not a transport failure.
				c.shutdown(nil)
			default:
				c.shutdown(err)
			}
			return
		}
		c.dispatch(raw)
	}
}

func (c *Channel) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn().Err(err).Msg("malformed frame dropped")
		return
	}

	h := c.snapshotHandlers()
	if h == nil {
		return
	}

	switch env.Event {
	case EventMessage:
		var m model.Message
		if err := json.Unmarshal(env.Data, &m); err != nil {
			c.logger.Warn().Err(err).Msg("malformed message payload dropped")
			return
		}
		if h.OnMessage != nil {
			h.OnMessage(m)
		}
	case EventUserOnline:
		var p presencePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.Username == "" {
			c.logger.Warn().Msg("malformed presence payload dropped")
			return
		}
		if h.OnUserOnline != nil {
			h.OnUserOnline(p.Username)
		}
	case EventUserOffline:
		var p presencePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.Username == "" {
			c.logger.Warn().Msg("malformed presence payload dropped")
			return
		}
		if h.OnUserOffline != nil {
			h.OnUserOffline(p.Username)
		}
	default:
		c.logger.Debug().Str("event", env.Event).Msg("unknown event ignored")
	}
}

// writePump drains the send queue and keeps the connection alive with
// periodic pings.
func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.shutdown(err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(err)
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
