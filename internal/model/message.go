// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ===== CONSTANTS =====

// TimestampLayout is the wire format for message timestamps:
// ISO-8601 / RFC 3339 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ===== TYPES =====

// Message is a single chat message as it appears on the wire and in
// the message log. Timestamp is kept as the raw wire string; it is
// parsed only for display.
type Message struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp"`

	// LocalID identifies a message created by this client before the
	// server has seen it. Bookkeeping only, never serialized.
	LocalID string `json:"-"`
}

// ===== CONSTRUCTORS =====

// NewMessage creates an outgoing message stamped with the current UTC
// time and a fresh local ID.
func NewMessage(sender, receiver, body string) Message {
	return Message{
		Sender:    sender,
		Receiver:  receiver,
		Body:      body,
		Timestamp: time.Now().UTC().Format(TimestampLayout),
		LocalID:   uuid.NewString(),
	}
}

// ===== METHODS =====

// Key returns the identity key used to match an inbound message
// against a locally recorded copy of the same message.
func (m Message) Key() string {
	return strings.Join([]string{m.Sender, m.Receiver, m.Timestamp, m.Body}, "\x00")
}

// Time parses the message timestamp. If the server sent something we
// cannot parse, the zero time is returned and the caller should fall
// back to the raw string.
func (m Message) Time() (time.Time, bool) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InvolvedWith reports whether username is the sender or the receiver
// of this message.
func (m Message) InvolvedWith(username string) bool {
	return m.Sender == username || m.Receiver == username
}

// Between reports whether this message was exchanged strictly between
// the two given participants, in either direction.
func (m Message) Between(a, b string) bool {
	return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
}
